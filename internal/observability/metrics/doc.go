// Package metrics provides the Prometheus metrics registry for the service.
//
// The registry owns its own prometheus.Registry instead of the process-wide
// default, so it can be injected into handlers and tests can create a fresh
// one per case. It holds:
//   - API request metrics (api_requests_total, api_request_duration_seconds)
//   - Business metrics (page_hits_total, pages_total)
//   - Go runtime and process collectors
//
// Example usage:
//
//	import "page-hits/internal/observability/metrics"
//
//	func main() {
//	    reg := metrics.NewRegistry(metrics.Config{PageLabelLimit: 1000})
//	    reg.RecordRequest("GET", "api")
//	    reg.ObserveRequestDuration("api", 12*time.Millisecond)
//	    http.Handle("/metrics", reg.Handler())
//	}
package metrics
