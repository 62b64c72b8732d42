// Package pagination provides page arithmetic shared by the feed and sources views:
// total page counts, page slices, the clamp-on-shrink pager and the numbered page window.
package pagination

// CalculateOffset calculates the index of the first item on a 1-based page.
//
// Formula: offset = (page - 1) * pageSize
//
// Examples:
//   - Page 1, Size 6 -> Offset 0
//   - Page 2, Size 6 -> Offset 6
//   - Page 3, Size 10 -> Offset 20
func CalculateOffset(page, pageSize int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * pageSize
}

// CalculateTotalPages calculates the total number of pages based on total items and page size.
// Uses ceiling division to ensure all items are included.
//
// Special cases:
//   - If total is 0 (or negative), returns 1 (always at least 1 page)
//   - If pageSize is not positive, returns 1
//   - Otherwise, returns ceil(total / pageSize)
//
// Examples:
//   - Total 0, Size 6 -> 1 page
//   - Total 6, Size 6 -> 1 page
//   - Total 7, Size 6 -> 2 pages
func CalculateTotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1 // Always at least 1 page
	}
	// Ceiling division: (total + size - 1) / size
	return (total + pageSize - 1) / pageSize
}

// Bounds returns the half-open [start, end) index range of page within a collection of
// length items, clipped to the collection.
func Bounds(page, pageSize, length int) (start, end int) {
	start = CalculateOffset(page, pageSize)
	if start > length {
		start = length
	}
	end = start + pageSize
	if end > length {
		end = length
	}
	return start, end
}

// Slice returns the items visible on page.
func Slice[T any](items []T, page, pageSize int) []T {
	start, end := Bounds(page, pageSize, len(items))
	return items[start:end]
}
