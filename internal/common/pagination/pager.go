package pagination

// Pager tracks the current page of a paged collection.
// The zero value is not usable; construct with NewPager.
type Pager struct {
	page     int
	pageSize int
	total    int
}

// NewPager returns a pager positioned on page 1.
// A non-positive pageSize falls back to DefaultPageSize.
func NewPager(pageSize, total int) Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	return Pager{page: 1, pageSize: pageSize, total: total}
}

// Page returns the current 1-based page.
func (p Pager) Page() int { return p.page }

// PageSize returns the number of items per page.
func (p Pager) PageSize() int { return p.pageSize }

// Total returns the number of items in the collection.
func (p Pager) Total() int { return p.total }

// TotalPages returns max(1, ceil(total/pageSize)).
func (p Pager) TotalPages() int { return CalculateTotalPages(p.total, p.pageSize) }

// HasPrev reports whether a previous page exists.
func (p Pager) HasPrev() bool { return p.page > 1 }

// HasNext reports whether a following page exists.
func (p Pager) HasNext() bool { return p.page < p.TotalPages() }

// GoTo moves to page. Pages outside [1, TotalPages] leave the pager unchanged.
// It reports whether the page changed.
func (p *Pager) GoTo(page int) bool {
	if page < 1 || page > p.TotalPages() || page == p.page {
		return false
	}
	p.page = page
	return true
}

// Next advances one page if possible.
func (p *Pager) Next() bool { return p.GoTo(p.page + 1) }

// Prev retreats one page if possible.
func (p *Pager) Prev() bool { return p.GoTo(p.page - 1) }

// Last moves to the final page.
func (p *Pager) Last() bool { return p.GoTo(p.TotalPages()) }

// SetTotal updates the collection size and clamps the current page into range.
func (p *Pager) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	p.total = total
	p.Clamp()
}

// Clamp pulls the current page back into [1, TotalPages].
func (p *Pager) Clamp() {
	if tp := p.TotalPages(); p.page > tp {
		p.page = tp
	}
	if p.page < 1 {
		p.page = 1
	}
}

// Reset returns to page 1.
func (p *Pager) Reset() { p.page = 1 }

// Bounds returns the [start, end) range of the current page.
func (p Pager) Bounds() (start, end int) {
	return Bounds(p.page, p.pageSize, p.total)
}

// Restore rebuilds a pager from persisted fields, clamping page into range.
func Restore(page, pageSize, total int) Pager {
	p := NewPager(pageSize, total)
	p.page = page
	p.Clamp()
	return p
}

// Visible returns the items of collection shown on the pager's current page.
func Visible[T any](p Pager, collection []T) []T {
	return Slice(collection, p.page, p.pageSize)
}
