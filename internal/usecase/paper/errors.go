// Package paper implements the daily paper view: pick a date, show that day's paper
// (generating it on demand when the API has none yet) and fact-check it.
package paper

import "errors"

// Sentinel errors for paper use case operations.
var (
	// ErrNoPaper indicates an action that needs a loaded paper while none is shown.
	ErrNoPaper = errors.New("no paper loaded")

	// ErrAlreadyFactChecked indicates that the paper already carries a fact-check.
	ErrAlreadyFactChecked = errors.New("paper already fact-checked")

	// ErrFactCheckPending indicates that a fact-check for the paper is already running.
	ErrFactCheckPending = errors.New("fact-check already in progress")
)
