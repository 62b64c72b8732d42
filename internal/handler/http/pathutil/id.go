package pathutil

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when a posted identifier is missing or not a positive integer.
var ErrInvalidID = errors.New("invalid id")

// ParseID parses a positive integer identifier.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// FormID parses the positive integer identifier posted in field.
func FormID(r *http.Request, field string) (int64, error) {
	return ParseID(r.FormValue(field))
}

// OptionalFormID parses field as an identifier; an empty value yields nil.
func OptionalFormID(r *http.Request, field string) (*int64, error) {
	if strings.TrimSpace(r.FormValue(field)) == "" {
		return nil, nil
	}
	id, err := FormID(r, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
