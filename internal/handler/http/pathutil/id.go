package pathutil

import (
	"errors"
	"strconv"
)

// ErrInvalidID is returned when the ID in the URL path is invalid.
var ErrInvalidID = errors.New("invalid id")

// ParseID parses an integer route parameter such as the {id} in
// /api/pages/{id}/hits.
//
// Only unsigned base-10 digits are accepted; a value that fails here means
// the path does not name a page route at all. Zero parses, and simply never
// matches a stored page.
//
// Returns ErrInvalidID for empty input, signs, non-digits and int64 overflow.
func ParseID(raw string) (int64, error) {
	if raw == "" {
		return 0, ErrInvalidID
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return 0, ErrInvalidID
		}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrInvalidID
	}
	return id, nil
}
