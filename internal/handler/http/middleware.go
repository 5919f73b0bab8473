package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"page-hits/internal/handler/http/respond"
	"page-hits/internal/handler/http/responsewriter"
	"page-hits/internal/observability/logging"
	"page-hits/pkg/security/csp"
)

// Recover returns middleware that catches panics and logs them with structured logging.
// It prevents the server from crashing and returns a 500 Internal Server Error response
// unless the handler already started writing one.
func Recover() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := responsewriter.Wrap(w)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// net/http が意図的に使う中断シグナルはそのまま伝播
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logging.FromContext(r.Context()).Error("panic recovered",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("error", respond.SanitizeError(fmt.Errorf("%v", rec))),
					slog.String("stack", string(debug.Stack())),
				)

				if !wrapped.HeaderWritten() {
					respond.Error(wrapped, http.StatusInternalServerError, respond.MsgInternal)
				}
			}()
			next.ServeHTTP(wrapped, r)
		})
	}
}

// LimitRequestBody returns middleware that limits the size of request bodies to prevent DoS attacks.
func LimitRequestBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders sets nosniff and a strict Content-Security-Policy on every
// response. Handlers that serve HTML replace the policy with their own.
func SecurityHeaders() func(http.Handler) http.Handler {
	policy := csp.StrictPolicy().Build()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set(csp.HeaderName, policy)
			next.ServeHTTP(w, r)
		})
	}
}

// NotFound answers every request no route matched with 404 {"error":"not found"}.
// The request is counted under the "unmatched" endpoint label.
func NotFound() http.Handler {
	return http.HandlerFunc(respond.RouteNotFound)
}

// clientLimiter is the token bucket of a single client plus its last use.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// WriteRateLimiter limits mutating requests per client IP with token buckets.
type WriteRateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastClean time.Time
	now       func() time.Time
	extractor IPExtractor
}

// NewWriteRateLimiter creates a limiter allowing rps requests per second per client
// with the given burst. Clients idle longer than idleTTL are forgotten.
// A nil extractor keys clients by their TCP peer address.
func NewWriteRateLimiter(rps float64, burst int, idleTTL time.Duration, extractor IPExtractor) *WriteRateLimiter {
	if extractor == nil {
		extractor = RemoteAddrExtractor{}
	}
	return &WriteRateLimiter{
		clients:   make(map[string]*clientLimiter),
		limit:     rate.Limit(rps),
		burst:     burst,
		idleTTL:   idleTTL,
		lastClean: time.Now(),
		now:       time.Now,
		extractor: extractor,
	}
}

// Limit applies rate limiting to incoming requests based on the client IP
// resolved by the limiter's IPExtractor.
// Returns 429 Too Many Requests if the rate limit is exceeded.
func (rl *WriteRateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.extractor.ExtractIP(r)
		if !rl.allow(ip) {
			logging.FromContext(r.Context()).Warn("rate limit exceeded",
				slog.String("client_ip", ip),
				slog.String("path", r.URL.Path))
			w.Header().Set("Retry-After", "1")
			respond.Error(w, http.StatusTooManyRequests, respond.MsgRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Clients returns the number of tracked clients.
func (rl *WriteRateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

func (rl *WriteRateLimiter) allow(ip string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// 定期的に古いクライアントを削除（メモリリーク防止）
	if now.Sub(rl.lastClean) >= rl.idleTTL {
		rl.lastClean = now
		for key, c := range rl.clients {
			if now.Sub(c.lastSeen) >= rl.idleTTL {
				delete(rl.clients, key)
			}
		}
	}

	c, ok := rl.clients[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}
