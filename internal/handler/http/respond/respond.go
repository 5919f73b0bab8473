// Package respond provides utilities for sending HTTP responses in JSON format.
// Internal failures are logged with sanitized details and reported to clients
// with a generic message.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"page-hits/internal/observability/logging"
	"page-hits/internal/observability/tracing"
)

// Client-facing error messages.
const (
	MsgInternal     = "internal server error"
	MsgNotFound     = "not found"
	MsgRateLimited  = "rate limit exceeded"
	contentTypeJSON = "application/json"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// ヘッダー送信済みのためログのみ
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Error writes {"error": msg} with the given status code.
func Error(w http.ResponseWriter, code int, msg string) {
	JSON(w, code, ErrorBody{Error: msg})
}

// RouteNotFound answers a request that names no route with 404 {"error":"not found"},
// logs it at WARN and counts it under the "unmatched" endpoint label.
func RouteNotFound(w http.ResponseWriter, r *http.Request) {
	tracing.MarkUnmatched(r.Context())
	logging.FromContext(r.Context()).Warn("route not found",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path))
	Error(w, http.StatusNotFound, MsgNotFound)
}

// InternalError logs err with the request-scoped logger and writes a generic 500.
// The error text never reaches the client.
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", SanitizeError(err)))
	Error(w, http.StatusInternalServerError, MsgInternal)
}
