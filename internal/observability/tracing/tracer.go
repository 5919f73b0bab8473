package tracing

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"page-hits/internal/handler/http/pathutil"
	"page-hits/internal/handler/http/requestid"
	"page-hits/internal/observability/logging"
)

// instrumentationName identifies spans produced by this package.
const instrumentationName = "page-hits"

// Log record event names.
const (
	EventRequestStart = "request_start"
	EventRequestEnd   = "request_end"
)

// RequestRecorder receives per-request measurements.
// *metrics.Registry satisfies it.
type RequestRecorder interface {
	RecordRequest(method, endpoint string)
	ObserveRequestDuration(endpoint string, d time.Duration)
}

// RequestContext is the state of one in-flight request.
// It is created by Begin and must not be shared between requests.
type RequestContext struct {
	RequestID string
	StartTime time.Time
	Method    string
	Path      string

	// Route is the mux pattern that served the request ("POST /api/pages/{id}/hit").
	// Empty when the route is not known.
	Route string
	// BytesWritten is the response body size, set before End.
	BytesWritten int

	unmatched bool
	span      trace.Span
}

// Endpoint returns the metrics endpoint label: the first path segment, or
// "unmatched" when MarkUnmatched was called.
func (rc *RequestContext) Endpoint() string {
	if rc.unmatched {
		return pathutil.UnmatchedEndpoint
	}
	return pathutil.EndpointLabel(rc.Path)
}

// spanName never contains raw path parameters.
func (rc *RequestContext) spanName() string {
	switch {
	case rc.unmatched:
		return rc.Method
	case rc.Route == "":
		return rc.Method + " " + rc.Endpoint()
	case strings.Contains(rc.Route, " "):
		// パターンにメソッドが含まれている
		return rc.Route
	default:
		return rc.Method + " " + rc.Route
	}
}

type ctxKey struct{}

// FromContext returns the RequestContext stored by Begin, or nil.
func FromContext(ctx context.Context) *RequestContext {
	rc, _ := ctx.Value(ctxKey{}).(*RequestContext)
	return rc
}

// MarkUnmatched records that no route served the request. It is a no-op
// outside a traced request.
func MarkUnmatched(ctx context.Context) {
	if rc := FromContext(ctx); rc != nil {
		rc.unmatched = true
	}
}

// Tracer emits request_start/request_end records and request metrics.
type Tracer struct {
	logger   *slog.Logger
	recorder RequestRecorder
	tracer   trace.Tracer
	now      func() time.Time
}

// Option configures a Tracer.
type Option func(*Tracer)

// WithClock overrides the clock used for start time and duration.
func WithClock(now func() time.Time) Option {
	return func(t *Tracer) {
		if now != nil {
			t.now = now
		}
	}
}

// WithTracerProvider uses tp instead of the global OpenTelemetry provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(t *Tracer) {
		if tp != nil {
			t.tracer = tp.Tracer(instrumentationName)
		}
	}
}

// NewTracer creates a Tracer. A nil logger falls back to slog.Default().
func NewTracer(logger *slog.Logger, recorder RequestRecorder, opts ...Option) *Tracer {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Tracer{
		logger:   logger,
		recorder: recorder,
		tracer:   otel.Tracer(instrumentationName),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Begin starts tracking a request. suppliedID is the caller's X-Request-ID;
// when it is empty a new ID is generated. The returned context carries the
// RequestContext, the request ID, the span and a request-scoped logger.
func (t *Tracer) Begin(ctx context.Context, method, path, suppliedID string) (context.Context, *RequestContext) {
	rc := &RequestContext{
		RequestID: requestid.Resolve(suppliedID),
		StartTime: t.now(),
		Method:    method,
		Path:      path,
	}

	ctx, rc.span = t.tracer.Start(ctx, rc.spanName(),
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithTimestamp(rc.StartTime),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.path", path),
			attribute.String("request_id", rc.RequestID),
		),
	)

	ctx = requestid.WithRequestID(ctx, rc.RequestID)
	ctx = logging.WithLogger(ctx, logging.WithRequestID(ctx, t.logger))
	ctx = context.WithValue(ctx, ctxKey{}, rc)

	t.logger.LogAttrs(ctx, slog.LevelInfo, "incoming request",
		slog.String("event", EventRequestStart),
		slog.String("method", method),
		slog.String("path", path),
		slog.String("request_id", rc.RequestID),
	)

	return ctx, rc
}

// End finishes a request started by Begin: it records the duration into the
// histogram keyed by endpoint, counts the request by method and endpoint,
// closes the span and logs request_end. The returned duration is what was recorded.
func (t *Tracer) End(ctx context.Context, rc *RequestContext, status int) time.Duration {
	end := t.now()
	duration := end.Sub(rc.StartTime)
	if duration < 0 {
		duration = 0
	}
	endpoint := rc.Endpoint()

	if t.recorder != nil {
		t.recorder.ObserveRequestDuration(endpoint, duration)
		t.recorder.RecordRequest(rc.Method, endpoint)
	}

	if rc.span != nil {
		rc.span.SetName(rc.spanName())
		rc.span.SetAttributes(
			attribute.Int("http.status_code", status),
			attribute.Int("http.response.body.size", rc.BytesWritten),
		)
		if rc.Route != "" && !rc.unmatched {
			rc.span.SetAttributes(attribute.String("http.route", rc.Route))
		}
		// 5xx のみエラー扱い（4xx はクライアント起因）
		if status >= 500 {
			rc.span.SetAttributes(attribute.Bool("error", true))
			rc.span.SetStatus(codes.Error, "server error")
		}
		rc.span.End(trace.WithTimestamp(end))
	}

	t.logger.LogAttrs(ctx, slog.LevelInfo, "request completed",
		slog.String("event", EventRequestEnd),
		slog.Int("status", status),
		slog.Float64("duration_ms", durationMillis(duration)),
		slog.Int("bytes", rc.BytesWritten),
		slog.String("request_id", rc.RequestID),
	)

	return duration
}

// durationMillis converts d to milliseconds rounded to two decimals.
func durationMillis(d time.Duration) float64 {
	return math.Round(float64(d)/float64(time.Millisecond)*100) / 100
}
