// Package requestid provides utilities for managing HTTP request correlation IDs.
// A caller-supplied X-Request-ID is honored; otherwise a time-ordered ID is generated
// so the start and end log records of one request can be joined.
package requestid

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// RequestIDKey is the context key for storing request IDs.
	RequestIDKey contextKey = "request_id"
	// RequestIDHeader is the HTTP header name for request IDs.
	RequestIDHeader = "X-Request-ID"
	// maxSuppliedLength bounds caller-supplied IDs that end up in every log line.
	maxSuppliedLength = 128
)

// FromContext retrieves the request ID from the context.
// Returns an empty string if no request ID is found.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// Resolve returns the supplied ID when it is usable, or a new one.
// Generated IDs are UUID v7: the leading 48 bits are the current Unix time in
// milliseconds, so they sort by arrival while staying unique under concurrency.
func Resolve(supplied string) string {
	supplied = strings.TrimSpace(supplied)
	if supplied != "" && len(supplied) <= maxSuppliedLength {
		return supplied
	}
	return New()
}

// New generates a fresh request ID.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		// 乱数源の失敗時は v4 にフォールバック
		return uuid.New().String()
	}
	return id.String()
}
