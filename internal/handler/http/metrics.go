package http

import (
	"net/http"

	"page-hits/internal/observability/metrics"
)

// MetricsHandler returns an HTTP handler for the Prometheus metrics endpoint
// backed by reg instead of the global default registry.
func MetricsHandler(reg *metrics.Registry) http.Handler {
	return reg.Handler()
}
