package source

import (
	"strings"

	"github.com/samber/lo"

	"fact-news/internal/common/pagination"
	"fact-news/internal/domain/entity"
	"fact-news/internal/gesture"
	"fact-news/internal/observability/metrics"
)

// State is the sources view state. The whole collection is held locally;
// only the current page is shown.
type State struct {
	Sources  []entity.Source `json:"sources"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	// Input is the text of the add-source field.
	Input string `json:"input,omitempty"`

	Adding     bool  `json:"adding"`
	RemovingID int64 `json:"removing_id,omitempty"`

	// Preview describes the feed behind Input; it is dropped when Input changes.
	Preview    *entity.FeedPreview `json:"preview,omitempty"`
	Previewing bool                `json:"previewing"`
	PreviewSeq uint64              `json:"preview_seq"`

	Seq     uint64 `json:"seq"`
	Loading bool   `json:"loading"`
	Loaded  bool   `json:"loaded"`
}

// NewState returns an empty sources view on page 1.
func NewState(pageSize int) *State {
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	return &State{Sources: []entity.Source{}, Page: 1, PageSize: pageSize}
}

func (s *State) pager() pagination.Pager {
	return pagination.Restore(s.Page, s.PageSize, len(s.Sources))
}

func (s *State) move(fn func(p *pagination.Pager) bool) bool {
	pg := s.pager()
	changed := fn(&pg)
	s.Page = pg.Page()
	return changed
}

// TotalPages returns the number of grid pages.
func (s *State) TotalPages() int {
	return pagination.CalculateTotalPages(len(s.Sources), s.PageSize)
}

// Visible returns the sources on the current page.
func (s *State) Visible() []entity.Source {
	return pagination.Visible(s.pager(), s.Sources)
}

// Placeholders returns how many empty cells pad the current page to PageSize.
// An empty page gets none.
func (s *State) Placeholders() int {
	n := len(s.Visible())
	if n == 0 || n >= s.PageSize {
		return 0
	}
	return s.PageSize - n
}

// HasPrev reports whether a previous page exists.
func (s *State) HasPrev() bool { return s.pager().HasPrev() }

// HasNext reports whether a following page exists.
func (s *State) HasNext() bool { return s.pager().HasNext() }

// Next advances one page if possible.
func (s *State) Next() bool { return s.move((*pagination.Pager).Next) }

// Prev retreats one page if possible.
func (s *State) Prev() bool { return s.move((*pagination.Pager).Prev) }

// GoTo moves to page. Pages outside [1, TotalPages] are ignored.
func (s *State) GoTo(page int) bool {
	return s.move(func(p *pagination.Pager) bool { return p.GoTo(page) })
}

// Swipe applies a classified gesture: Advance moves forward, Retreat back.
func (s *State) Swipe(d gesture.Direction) bool {
	metrics.RecordSwipe(d.String())
	switch d {
	case gesture.Advance:
		return s.Next()
	case gesture.Retreat:
		return s.Prev()
	default:
		return false
	}
}

// SetInput updates the add-source field.
func (s *State) SetInput(text string) {
	if strings.TrimSpace(text) != s.trimmedInput() {
		s.Preview = nil
	}
	s.Input = text
}

// Find returns the loaded source with id.
func (s *State) Find(id int64) (entity.Source, bool) {
	return lo.Find(s.Sources, func(src entity.Source) bool { return src.ID == id })
}

// setSources replaces the collection and clamps the page.
func (s *State) setSources(sources []entity.Source) {
	if sources == nil {
		sources = []entity.Source{}
	}
	s.Sources = sources
	s.Page = s.pager().Page()
	metrics.UpdateSourcesKnown(len(sources))
}

// removeLocal drops id from the collection and clamps the page.
func (s *State) removeLocal(id int64) {
	s.setSources(lo.Filter(s.Sources, func(src entity.Source, _ int) bool { return src.ID != id }))
}

func (s *State) trimmedInput() string { return strings.TrimSpace(s.Input) }
