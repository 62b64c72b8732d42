// Package format renders dates and optional text the same way in the browser and the
// terminal dashboards.
package format

import (
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"fact-news/internal/domain/entity"
)

const (
	timestampLayout = "January 2, 2006 at 3:04 PM"
	dateLayout      = "January 2, 2006"
	badgeLayout     = "Jan 2, 2006"

	// InvalidDate replaces timestamps the API did not provide.
	InvalidDate = "Invalid date"
	// NoDescription replaces a missing article description.
	NoDescription = "No description available."
	// NoContent replaces an empty paper body.
	NoContent = "No content available."
)

// Timestamp formats a publication or creation time, e.g. "March 4, 2025 at 9:15 AM".
func Timestamp(ts entity.Timestamp) string {
	if ts.IsZero() {
		return InvalidDate
	}
	return ts.Format(timestampLayout)
}

// Date formats a calendar day, e.g. "March 4, 2025".
func Date(t time.Time) string {
	if t.IsZero() {
		return InvalidDate
	}
	return t.Format(dateLayout)
}

// DateBadge formats a YYYY-MM-DD filter value for an active-filter badge, e.g. "Mar 4, 2025".
// Unparseable values are shown as given.
func DateBadge(value string) string {
	t, err := entity.ParsePaperDate(value)
	if err != nil {
		return value
	}
	return t.Format(badgeLayout)
}

// Description returns the article description or the placeholder.
func Description(desc *string) string {
	if desc == nil || strings.TrimSpace(*desc) == "" {
		return NoDescription
	}
	return *desc
}

// Content returns body or the placeholder when it is blank.
func Content(body string) string {
	if strings.TrimSpace(body) == "" {
		return NoContent
	}
	return body
}

// Summary dereferences an optional fact-check summary.
func Summary(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// Truncate shortens s to width terminal cells, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
