package pagination

import (
	"fmt"

	env "fact-news/pkg/config"
)

// DefaultPageSize is the page size of both the article feed and the sources grid.
const DefaultPageSize = 6

// maxPageSize caps what the API is asked for in one request.
const maxPageSize = 100

// Config holds the page sizes of the two paginated views.
type Config struct {
	ArticlesPerPage int `yaml:"articles_per_page"`
	SourcesPerPage  int `yaml:"sources_per_page"`
}

// DefaultConfig returns six items per page for both views.
func DefaultConfig() Config {
	return Config{
		ArticlesPerPage: DefaultPageSize,
		SourcesPerPage:  DefaultPageSize,
	}
}

// WithEnv overrides c from FEED_PAGE_SIZE and SOURCES_PAGE_SIZE.
// Unset or unparsable values keep the current setting; range errors are left to Validate.
func (c Config) WithEnv() Config {
	c.ArticlesPerPage = env.GetEnvInt("FEED_PAGE_SIZE", c.ArticlesPerPage)
	c.SourcesPerPage = env.GetEnvInt("SOURCES_PAGE_SIZE", c.SourcesPerPage)
	return c
}

// Validate checks both sizes are within [1, 100].
func (c Config) Validate() error {
	if c.ArticlesPerPage < 1 || c.ArticlesPerPage > maxPageSize {
		return fmt.Errorf("articles per page must be between 1 and %d, got %d", maxPageSize, c.ArticlesPerPage)
	}
	if c.SourcesPerPage < 1 || c.SourcesPerPage > maxPageSize {
		return fmt.Errorf("sources per page must be between 1 and %d, got %d", maxPageSize, c.SourcesPerPage)
	}
	return nil
}
