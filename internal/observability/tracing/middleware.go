package tracing

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"page-hits/internal/handler/http/requestid"
	"page-hits/internal/handler/http/responsewriter"
)

// Middleware wraps next with Begin/End.
//
// The middleware:
//   - Extracts W3C trace context from incoming request headers
//   - Honors or generates the X-Request-ID and echoes it on the response
//   - Adds the trace ID to response headers (X-Trace-Id)
//   - Records the final status code and body size through a wrapped ResponseWriter
//   - Names the span after the matched route once the mux has dispatched
//
// Panics must be recovered by an inner middleware so End sees the 500.
func (t *Tracer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(
			r.Context(),
			propagation.HeaderCarrier(r.Header),
		)

		ctx, rc := t.Begin(ctx, r.Method, r.URL.Path, r.Header.Get(requestid.RequestIDHeader))

		w.Header().Set(requestid.RequestIDHeader, rc.RequestID)
		if rc.span != nil && rc.span.SpanContext().HasTraceID() {
			w.Header().Set("X-Trace-Id", rc.span.SpanContext().TraceID().String())
		}

		wrapped := responsewriter.Wrap(w)
		req := r.WithContext(ctx)
		next.ServeHTTP(wrapped, req)

		// ServeMux は自身が受け取った *Request に Pattern を設定する
		rc.Route = req.Pattern
		rc.BytesWritten = wrapped.BytesWritten()
		t.End(ctx, rc, wrapped.StatusCode())
	})
}
