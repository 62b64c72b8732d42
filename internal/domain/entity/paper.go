package entity

import "time"

// PaperDateLayout is the wire and URL format of a paper date.
const PaperDateLayout = "2006-01-02"

// Paper is the synthesized daily document for one calendar date.
type Paper struct {
	ID          int64     `json:"id"`
	PubDate     Timestamp `json:"pub_date"`
	Content     string    `json:"content"`
	FactChecked bool      `json:"fact_checked"`
	FactSummary *string   `json:"fact_summary"`
}

// ApplyFactCheck records a fact-check result. Once checked a paper stays checked.
func (p *Paper) ApplyFactCheck(r FactCheckResult) {
	p.FactChecked = true
	if r.Summary != nil {
		p.FactSummary = r.Summary
	}
}

// ParsePaperDate parses a YYYY-MM-DD date.
func ParsePaperDate(s string) (time.Time, error) {
	t, err := time.Parse(PaperDateLayout, s)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Message: "must be in YYYY-MM-DD format"}
	}
	return t, nil
}

// FormatPaperDate formats t as YYYY-MM-DD in t's own location.
func FormatPaperDate(t time.Time) string {
	return t.Format(PaperDateLayout)
}
