// Package feed implements the article feed view: the applied filter, the visible page of
// articles, per-article expansion and per-article fact-checking.
//
// The view state is a plain value (State) owned by one front end at a time. Network calls
// are split into Begin/Fetch/Apply steps so a terminal UI can run Fetch off its event loop
// while a web handler runs all three in its request goroutine.
package feed

import "errors"

// Sentinel errors for feed use case operations.
var (
	// ErrInvalidPeriod indicates an unknown time period name.
	ErrInvalidPeriod = errors.New("invalid time period")

	// ErrArticleNotVisible indicates an action on an article that is not on the current page.
	ErrArticleNotVisible = errors.New("article is not on the current page")

	// ErrAlreadyFactChecked indicates that the article already carries a fact-check.
	ErrAlreadyFactChecked = errors.New("article already fact-checked")

	// ErrFactCheckPending indicates that a fact-check for the article is already running.
	ErrFactCheckPending = errors.New("fact-check already in progress")
)
