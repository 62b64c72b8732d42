package feed

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"fact-news/internal/common/pagination"
	"fact-news/internal/domain/entity"
)

// Period is a relative publication window.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Periods lists the selectable periods in display order.
var Periods = []Period{PeriodAll, PeriodToday, PeriodWeek, PeriodMonth}

// ParsePeriod validates a period name.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Periods {
		if p == known {
			return p, nil
		}
	}
	return "", ErrInvalidPeriod
}

// Label returns the human-readable name of the period.
func (p Period) Label() string {
	switch p {
	case PeriodToday:
		return "Today"
	case PeriodWeek:
		return "This week"
	case PeriodMonth:
		return "This month"
	default:
		return "All time"
	}
}

// Filter is the applied article filter.
// Date, when set, replaces Period. Search only holds a submitted term.
type Filter struct {
	SourceID *int64 `json:"source_id,omitempty"`
	// Date is a YYYY-MM-DD day; empty means no specific date.
	Date     string `json:"date,omitempty"`
	Period   Period `json:"period"`
	Search   string `json:"search,omitempty"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// DefaultFilter returns the unfiltered first page.
func DefaultFilter(pageSize int) Filter {
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	return Filter{Period: PeriodAll, Page: 1, PageSize: pageSize}
}

// Query serialises the filter into listing query parameters.
//
// time_period is sent only without a date; selected_date only with one.
// source_id and search are sent when set. page and page_size are always sent.
func (f Filter) Query() url.Values {
	q := url.Values{}
	if f.Date == "" {
		period := f.Period
		if period == "" {
			period = PeriodAll
		}
		q.Set("time_period", string(period))
	} else {
		q.Set("selected_date", f.Date)
	}
	if f.SourceID != nil {
		q.Set("source_id", strconv.FormatInt(*f.SourceID, 10))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	q.Set("page", strconv.Itoa(f.Page))
	q.Set("page_size", strconv.Itoa(f.PageSize))
	return q
}

// PeriodEnabled reports whether the period control applies; a date disables it.
func (f Filter) PeriodEnabled() bool { return f.Date == "" }

// IsDefault reports whether no filter beyond paging is applied.
func (f Filter) IsDefault() bool {
	return f.SourceID == nil && f.Date == "" && (f.Period == PeriodAll || f.Period == "") && f.Search == ""
}

// normalizeDate validates a YYYY-MM-DD value. Empty clears the date.
func normalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	d, err := entity.ParsePaperDate(s)
	if err != nil {
		return "", err
	}
	return d.Format(entity.PaperDateLayout), nil
}

// DateOf formats t as a filter date.
func DateOf(t time.Time) string { return t.Format(entity.PaperDateLayout) }
