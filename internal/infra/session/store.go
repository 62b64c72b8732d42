// Package session keeps each browser's dashboard view state on the server between requests.
//
// Raw session documents live in a Store (in-process memory, or Redis when several web
// instances share state). Manager decodes them into Data and serialises concurrent
// requests of one session.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates an unknown or expired session.
var ErrNotFound = errors.New("session not found")

// Store persists encoded session documents.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the document for id, or ErrNotFound.
	Get(ctx context.Context, id string) ([]byte, error)
	// Set stores the document for id; it expires after ttl without further writes.
	Set(ctx context.Context, id string, data []byte, ttl time.Duration) error
	// Delete forgets id. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}
