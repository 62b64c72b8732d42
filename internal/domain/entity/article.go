// Package entity defines the domain objects the dashboard reads from the FactNews API:
// sources, articles and daily papers, plus the fact-check result shared by the latter two.
package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Article represents a news article ingested from a Source.
type Article struct {
	ID          int64     `json:"id"`
	Source      SourceRef `json:"source"`
	Title       string    `json:"title"`
	TitleHash   string    `json:"title_hash"`
	Description *string   `json:"description"`
	Link        string    `json:"link"`
	PubDate     Timestamp `json:"pub_date"`
	Content     string    `json:"content"`
	FactChecked bool      `json:"fact_checked"`
	FactSummary *string   `json:"fact_summary"`
}

// ApplyFactCheck records a fact-check result. Once checked an article stays checked.
func (a *Article) ApplyFactCheck(r FactCheckResult) {
	a.FactChecked = true
	if r.Summary != nil {
		a.FactSummary = r.Summary
	}
}

// ArticleListing is one page of articles as returned by the listing endpoint.
// Total is nil when the API omitted the overall count.
type ArticleListing struct {
	Articles []Article `json:"detail"`
	Total    *int      `json:"total,omitempty"`
}

// FactCheckResult carries the fact fields returned by a fact-check request.
type FactCheckResult struct {
	Checked bool    `json:"fact_checked"`
	Summary *string `json:"fact_summary"`
}

// SourceRef is the article's owning source. The API sends either the bare source ID
// or the embedded source object.
type SourceRef struct {
	ID       int64
	Embedded *Source
}

// SourceID returns the referenced source ID regardless of representation.
func (r SourceRef) SourceID() int64 {
	if r.Embedded != nil {
		return r.Embedded.ID
	}
	return r.ID
}

// UnmarshalJSON accepts a number, an object or null.
func (r *SourceRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*r = SourceRef{}
		return nil
	case len(data) > 0 && data[0] == '{':
		var s Source
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode embedded source: %w", err)
		}
		*r = SourceRef{ID: s.ID, Embedded: &s}
		return nil
	default:
		var id int64
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("decode source id: %w", err)
		}
		*r = SourceRef{ID: id}
		return nil
	}
}

// MarshalJSON writes the embedded object when present, otherwise the ID.
func (r SourceRef) MarshalJSON() ([]byte, error) {
	if r.Embedded != nil {
		return json.Marshal(r.Embedded)
	}
	return json.Marshal(r.ID)
}
