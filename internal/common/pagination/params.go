package pagination

import (
	"fmt"
	"net/http"
	"strconv"
)

// ParsePage parses the page field of a submitted form.
// A missing field yields page 1.
//
// Returns an error if the value is not a positive integer.
func ParsePage(r *http.Request) (int, error) {
	pageStr := r.FormValue("page")
	if pageStr == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("invalid form field: page must be a positive integer")
	}
	return page, nil
}
