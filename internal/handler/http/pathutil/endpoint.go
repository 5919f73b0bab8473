// Package pathutil provides helpers for turning request paths into
// metric labels and route parameters.
package pathutil

import "strings"

// Endpoint labels that do not come from the path itself.
const (
	// RootEndpoint is used for "/" and empty paths.
	RootEndpoint = "root"
	// UnmatchedEndpoint is used for requests no route served, so arbitrary
	// unknown paths cannot mint new series.
	UnmatchedEndpoint = "unmatched"
)

// EndpointLabel returns the first path segment, used as the low-cardinality
// endpoint label on request metrics. Dynamic segments further down the path
// (page IDs and the like) never reach the label.
//
// Examples:
//
//	EndpointLabel("/api/pages/5/hit")  // "api"
//	EndpointLabel("/health")           // "health"
//	EndpointLabel("/metrics?x=1")      // "metrics"
//	EndpointLabel("/")                 // "root"
func EndpointLabel(path string) string {
	// Strip query parameters if present
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	path = strings.TrimPrefix(path, "/")
	if idx := strings.IndexByte(path, '/'); idx != -1 {
		path = path[:idx]
	}
	if path == "" {
		return RootEndpoint
	}
	return path
}
