package feed

import (
	"strings"

	"github.com/samber/lo"

	"fact-news/internal/common/pagination"
	"fact-news/internal/domain/entity"
)

// State is the article feed view state.
type State struct {
	Filter Filter `json:"filter"`
	// SearchInput is the live text of the search box; it is applied only by SubmitSearch.
	SearchInput string `json:"search_input,omitempty"`

	Articles []entity.Article `json:"articles"`
	Sources  []entity.Source  `json:"sources"`
	// Total is the overall number of matching articles across pages.
	Total int `json:"total"`

	Expanded     map[int64]bool `json:"expanded,omitempty"`
	FactChecking map[int64]bool `json:"fact_checking,omitempty"`

	// Seq is the sequence number of the latest issued load.
	Seq     uint64 `json:"seq"`
	Loading bool   `json:"loading"`
	Loaded  bool   `json:"loaded"`
}

// NewState returns the default feed state. Nothing is loaded yet.
func NewState(pageSize int) *State {
	return &State{
		Filter:       DefaultFilter(pageSize),
		Articles:     []entity.Article{},
		Sources:      []entity.Source{},
		Expanded:     map[int64]bool{},
		FactChecking: map[int64]bool{},
	}
}

func (s *State) ensureMaps() {
	if s.Expanded == nil {
		s.Expanded = map[int64]bool{}
	}
	if s.FactChecking == nil {
		s.FactChecking = map[int64]bool{}
	}
}

// SelectSource filters by source; nil clears the filter.
// It reports whether the articles must be reloaded.
func (s *State) SelectSource(id *int64) bool {
	if (s.Filter.SourceID == nil && id == nil) ||
		(s.Filter.SourceID != nil && id != nil && *s.Filter.SourceID == *id) {
		return false
	}
	if id != nil {
		v := *id
		id = &v
	}
	s.Filter.SourceID = id
	s.Filter.Page = 1
	return true
}

// SelectDate filters by a YYYY-MM-DD day; empty clears it.
func (s *State) SelectDate(date string) (bool, error) {
	d, err := normalizeDate(date)
	if err != nil {
		return false, err
	}
	if d == s.Filter.Date {
		return false, nil
	}
	s.Filter.Date = d
	s.Filter.Page = 1
	return true, nil
}

// SelectPeriod changes the relative period. It has no effect while a date is selected.
func (s *State) SelectPeriod(p Period) bool {
	if !s.Filter.PeriodEnabled() || p == s.Filter.Period {
		return false
	}
	s.Filter.Period = p
	s.Filter.Page = 1
	return true
}

// SetSearchInput updates the live search text. It never triggers a load.
func (s *State) SetSearchInput(text string) {
	s.SearchInput = text
}

// SubmitSearch applies the live search text and returns to page 1.
func (s *State) SubmitSearch() bool {
	term := strings.TrimSpace(s.SearchInput)
	if term == s.Filter.Search && s.Filter.Page == 1 {
		return false
	}
	s.Filter.Search = term
	s.Filter.Page = 1
	return true
}

// GoToPage moves to page. Pages outside [1, TotalPages] are ignored.
func (s *State) GoToPage(page int) bool {
	pg := s.pager()
	if !pg.GoTo(page) {
		return false
	}
	s.Filter.Page = pg.Page()
	return true
}

// Reset restores the default filter and clears the search box. It always reloads.
func (s *State) Reset() bool {
	s.Filter = DefaultFilter(s.Filter.PageSize)
	s.SearchInput = ""
	return true
}

// TotalPages returns the number of result pages.
func (s *State) TotalPages() int {
	return pagination.CalculateTotalPages(s.Total, s.Filter.PageSize)
}

// PageWindow returns the numbered page buttons for the current page.
func (s *State) PageWindow() []pagination.Item {
	return pagination.Window(s.Filter.Page, s.TotalPages())
}

func (s *State) pager() pagination.Pager {
	return pagination.Restore(s.Filter.Page, s.Filter.PageSize, s.Total)
}

// Toggle flips the expanded state of an article.
func (s *State) Toggle(id int64) {
	s.ensureMaps()
	s.Expanded[id] = !s.Expanded[id]
}

// IsExpanded reports whether an article shows its full content.
func (s *State) IsExpanded(id int64) bool { return s.Expanded[id] }

// IsFactChecking reports whether a fact-check for the article is running.
func (s *State) IsFactChecking(id int64) bool { return s.FactChecking[id] }

// SourceName resolves an article's source name against the loaded sources.
func (s *State) SourceName(a entity.Article) string {
	return entity.SourceName(s.Sources, a.Source)
}

// Article returns the visible article with id.
func (s *State) Article(id int64) (entity.Article, bool) {
	return lo.Find(s.Articles, func(a entity.Article) bool { return a.ID == id })
}

// SelectedSourceName returns the name of the filtered source, or "" without a source filter.
func (s *State) SelectedSourceName() string {
	if s.Filter.SourceID == nil {
		return ""
	}
	return entity.SourceName(s.Sources, entity.SourceRef{ID: *s.Filter.SourceID})
}
