// Package page provides the use cases for tracked pages: creating them,
// listing them, reading and recording hits.
package page

import "errors"

// Sentinel errors for page use case operations.
var (
	// ErrPageNotFound indicates that no page has the requested ID.
	// The store and metrics are left untouched when it is returned.
	ErrPageNotFound = errors.New("page not found")
)
