package pagination

// Item is one slot in a numbered page control: either a page number or an ellipsis.
type Item struct {
	Page     int
	Ellipsis bool
	Current  bool
}

// Window lays out the numbered page buttons for current of total pages.
//
// Layout: first page, an ellipsis when current > 3, pages current-1..current+1 (excluding
// first and last), an ellipsis when current < total-2, and the last page when total > 1.
//
// Examples (current/total):
//   - 1/1  -> [1]
//   - 1/5  -> [1 2 … 5]
//   - 5/10 -> [1 … 4 5 6 … 10]
func Window(current, total int) []Item {
	if total < 1 {
		total = 1
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	items := []Item{{Page: 1, Current: current == 1}}
	if current > 3 {
		items = append(items, Item{Ellipsis: true})
	}
	for p := current - 1; p <= current+1; p++ {
		if p <= 1 || p >= total {
			continue
		}
		items = append(items, Item{Page: p, Current: p == current})
	}
	if current < total-2 {
		items = append(items, Item{Ellipsis: true})
	}
	if total > 1 {
		items = append(items, Item{Page: total, Current: current == total})
	}
	return items
}
