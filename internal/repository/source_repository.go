package repository

import (
	"context"

	"fact-news/internal/domain/entity"
)

// SourceRepository is the gateway to the remote source registry.
type SourceRepository interface {
	// ListSources returns every registered source. An empty registry yields an empty slice.
	ListSources(ctx context.Context) ([]entity.Source, error)
	// AddSource registers the site at rawURL; the remote side discovers its feed.
	AddSource(ctx context.Context, rawURL string) error
	// RemoveSource deletes a source by ID.
	RemoveSource(ctx context.Context, id int64) error
	// RefreshSource scrapes new articles for the source at rawURL and returns a status message.
	RefreshSource(ctx context.Context, rawURL string) (string, error)
}
