// Package tracing follows each HTTP request from arrival to response.
//
// Tracer.Begin assigns the correlation ID, captures the start time, opens an
// OpenTelemetry server span and logs request_start. Tracer.End computes the
// duration, records it into the metrics registry and logs request_end. The
// per-request state is an explicit *RequestContext that travels in the
// request's context.Context; nothing is stored on shared objects.
//
// Example usage:
//
//	tracer := tracing.NewTracer(logger, registry)
//	handler := tracer.Middleware(mux)
//	http.ListenAndServe(":5000", handler)
package tracing
