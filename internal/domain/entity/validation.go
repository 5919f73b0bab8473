package entity

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxPageNameLength is the longest page name accepted, in characters.
const MaxPageNameLength = 200

// NormalizePageName trims surrounding whitespace from a page name.
func NormalizePageName(name string) string {
	return strings.TrimSpace(name)
}

// ValidatePageName checks that a (normalized) page name is usable.
// Returns a ValidationError if the name is empty or too long.
func ValidatePageName(name string) error {
	if name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if utf8.RuneCountInString(name) > MaxPageNameLength {
		return &ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("must not exceed %d characters", MaxPageNameLength),
		}
	}
	return nil
}
