package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the API has no such entity. API adapters make their 404
	// errors match it via errors.Is; a missing paper is the common case.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput is matched by every *ValidationError.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError reports user input rejected before any API call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Is makes errors.Is(err, ErrInvalidInput) hold for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
