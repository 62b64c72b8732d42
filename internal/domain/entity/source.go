package entity

import (
	"fmt"
	"net/url"
	"strings"
)

// Source represents a registered origin site from which articles are ingested upstream.
// The dashboard never edits a source; it is created from a URL and deleted by ID.
type Source struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	RootURL   string    `json:"root_url"`
	ScrapeURL string    `json:"scrape_url,omitempty"`
	CreatedAt Timestamp `json:"creation_timestamp"`
}

// SourceNameFallback is shown when an article references a source the dashboard does not know.
const SourceNameFallback = "Unknown Source"

// SourceName resolves the display name for ref against the known sources.
// Only the ID of an embedded source is consulted.
func SourceName(sources []Source, ref SourceRef) string {
	id := ref.SourceID()
	for _, s := range sources {
		if s.ID == id {
			return s.Name
		}
	}
	return SourceNameFallback
}

// maxSourceURLLength matches what the API stores for a root URL.
const maxSourceURLLength = 2048

// ValidateSourceURL rejects input that cannot be the root URL of a site: anything
// other than an absolute http(s) URL with a host, or a URL carrying credentials.
// Surrounding spaces are ignored. Whether the site exists is for the API to decide.
func ValidateSourceURL(raw string) error {
	raw = strings.TrimSpace(raw)
	invalid := func(msg string) error { return &ValidationError{Field: "url", Message: msg} }

	switch {
	case raw == "":
		return invalid("URL is required")
	case len(raw) > maxSourceURLLength:
		return invalid(fmt.Sprintf("URL must not exceed %d characters", maxSourceURLLength))
	}

	u, err := url.Parse(raw)
	switch {
	case err != nil:
		return invalid("URL is invalid")
	case u.Scheme != "http" && u.Scheme != "https":
		return invalid("URL must use http or https")
	case u.Host == "":
		return invalid("URL must have a host")
	case u.User != nil:
		// 認証情報入りの URL は API に渡さない
		return invalid("URL must not contain credentials")
	}
	return nil
}
