// Package observability groups the service's structured logging, Prometheus
// metrics, and OpenTelemetry request tracing.
//
// Subpackages:
//   - logging: slog construction and context propagation of the request logger
//   - metrics: owned Prometheus registry with request and page hit series
//   - tracing: per-request Begin/End lifecycle, spans and HTTP middleware
//
// Example usage:
//
//	logger := logging.NewLogger()
//	reg := metrics.NewRegistry(metrics.Config{})
//	tracer := tracing.NewTracer(logger, reg)
//	handler := tracer.Middleware(mux)
package observability
