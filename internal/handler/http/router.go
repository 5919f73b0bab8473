package http

import (
	"net/http"
	"net/netip"
	"time"

	"page-hits/internal/handler/http/dashboard"
	"page-hits/internal/handler/http/page"
	"page-hits/internal/observability/metrics"
	"page-hits/internal/observability/tracing"
	pageUC "page-hits/internal/usecase/page"
)

// rateLimitIdleTTL is how long an idle client's token bucket is kept.
const rateLimitIdleTTL = 10 * time.Minute

// RouterConfig holds the HTTP-level limits applied by NewRouter.
type RouterConfig struct {
	MaxBodyBytes        int64
	WriteRateLimitRPS   float64 // 0 disables the write rate limit
	WriteRateLimitBurst int

	// TrustedProxies are the peers whose forwarding headers name the client
	// for rate limiting. Empty means the peer address is always used.
	TrustedProxies []netip.Prefix
}

// NewRouter builds the full handler chain:
//
//	tracer.Middleware → Recover → SecurityHeaders → LimitRequestBody → mux
//
// Tracing is outermost so every request, including 404s and recovered panics,
// is logged and counted with its final status.
func NewRouter(cfg RouterConfig, svc *pageUC.Service, reg *metrics.Registry, tracer *tracing.Tracer) http.Handler {
	mux := http.NewServeMux()

	var writeGuard func(http.Handler) http.Handler
	if cfg.WriteRateLimitRPS > 0 {
		writeGuard = NewWriteRateLimiter(cfg.WriteRateLimitRPS, cfg.WriteRateLimitBurst, rateLimitIdleTTL,
			NewIPExtractor(cfg.TrustedProxies)).Limit
	}

	mux.Handle("GET /health", HealthHandler{})
	mux.Handle("GET /metrics", MetricsHandler(reg))
	mux.Handle("GET /{$}", dashboard.Handler())
	mux.Handle("GET "+dashboard.AssetPrefix, dashboard.Assets())
	page.Register(mux, svc, writeGuard)

	// 未定義ルート（メソッド違いを含む）は JSON の 404
	mux.Handle("/", NotFound())

	var h http.Handler = mux
	if cfg.MaxBodyBytes > 0 {
		h = LimitRequestBody(cfg.MaxBodyBytes)(h)
	}
	h = SecurityHeaders()(h)
	h = Recover()(h)
	return tracer.Middleware(h)
}
