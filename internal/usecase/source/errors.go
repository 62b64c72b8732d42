// Package source implements the sources view: the locally held list of registered sources,
// shown as a paginated grid with swipe navigation, plus the add, remove and refresh workflows.
package source

import "errors"

// Sentinel errors for source use case operations.
var (
	// ErrEmptyInput indicates a submit with a blank URL field. It is ignored silently.
	ErrEmptyInput = errors.New("source URL is empty")

	// ErrAddPending indicates that an add request is already running.
	ErrAddPending = errors.New("add already in progress")

	// ErrRemovePending indicates that a remove request is already running.
	ErrRemovePending = errors.New("remove already in progress")

	// ErrSourceNotFound indicates an action on a source that is not in the loaded list.
	ErrSourceNotFound = errors.New("source not found")

	// ErrPreviewUnavailable indicates that no feed prober is configured.
	ErrPreviewUnavailable = errors.New("source preview unavailable")
)
