package tracing

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"page-hits/internal/handler/http/requestid"
)

func TestMiddleware_EchoesSuppliedRequestID(t *testing.T) {
	var buf bytes.Buffer
	rec := newStubRecorder()
	tr := NewTracer(slog.New(slog.NewJSONHandler(&buf, nil)), rec,
		WithTracerProvider(sdktrace.NewTracerProvider()))

	var captured *RequestContext
	handler := tr.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = FromContext(r.Context())
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/pages", nil)
	req.Header.Set(requestid.RequestIDHeader, "existing-request-id-456")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.NotNil(t, captured)
	assert.Equal(t, "existing-request-id-456", captured.RequestID)
	assert.Equal(t, "existing-request-id-456", rr.Header().Get(requestid.RequestIDHeader))
	assert.Equal(t, []recordedRequest{{method: "POST", endpoint: "api"}}, rec.requests)

	logs := decodeLogs(t, &buf)
	require.Len(t, logs, 2)
	assert.Equal(t, EventRequestStart, logs[0]["event"])
	assert.Equal(t, EventRequestEnd, logs[1]["event"])
	assert.Equal(t, float64(http.StatusCreated), logs[1]["status"])
	assert.Equal(t, logs[0]["request_id"], logs[1]["request_id"], "start and end must share the correlation ID")
}

func TestMiddleware_GeneratesRequestID(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracer(slog.New(slog.NewJSONHandler(&buf, nil)), newStubRecorder(),
		WithTracerProvider(sdktrace.NewTracerProvider()))

	handler := tr.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	id := rr.Header().Get(requestid.RequestIDHeader)
	_, err := uuid.Parse(id)
	assert.NoError(t, err, "generated ID should be a valid UUID")

	logs := decodeLogs(t, &buf)
	require.Len(t, logs, 2)
	assert.Equal(t, id, logs[1]["request_id"])
	assert.Equal(t, float64(http.StatusOK), logs[1]["status"])
	assert.Equal(t, float64(2), logs[1]["bytes"])
}

func TestMiddleware_RecordsImplicitStatus(t *testing.T) {
	rec := newStubRecorder()
	var buf bytes.Buffer
	tr := NewTracer(slog.New(slog.NewJSONHandler(&buf, nil)), rec,
		WithTracerProvider(sdktrace.NewTracerProvider()))

	handler := tr.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/nowhere/1", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	logs := decodeLogs(t, &buf)
	require.Len(t, logs, 2)
	assert.Equal(t, float64(http.StatusNotFound), logs[1]["status"])
	assert.Equal(t, []recordedRequest{{method: "GET", endpoint: "nowhere"}}, rec.requests)
}

func TestMiddleware_PropagatesTraceContext(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTextMapPropagator(propagation.TraceContext{})
	defer otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator())

	var buf bytes.Buffer
	tr := NewTracer(slog.New(slog.NewJSONHandler(&buf, nil)), nil, WithTracerProvider(tp))

	handler := tr.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.NoError(t, tp.ForceFlush(context.Background()))
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	expectedTraceID := "4bf92f3577b34da6a3ce929d0e0e4736"
	assert.Equal(t, expectedTraceID, spans[0].SpanContext.TraceID().String())
	assert.Equal(t, expectedTraceID, rr.Header().Get("X-Trace-Id"))
}

func TestMiddleware_NamesSpanAfterRoute(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	rec := newStubRecorder()
	var buf bytes.Buffer
	tr := NewTracer(slog.New(slog.NewJSONHandler(&buf, nil)), rec, WithTracerProvider(tp))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/pages/{id}/hit", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		MarkUnmatched(r.Context())
		w.WriteHeader(http.StatusNotFound)
	})
	handler := tr.Middleware(mux)

	tests := []struct {
		method    string
		path      string
		wantName  string
		wantLabel string
	}{
		{method: http.MethodPost, path: "/api/pages/17/hit", wantName: "POST /api/pages/{id}/hit", wantLabel: "api"},
		{method: http.MethodPost, path: "/api/pages/18/hit", wantName: "POST /api/pages/{id}/hit", wantLabel: "api"},
		{method: http.MethodGet, path: "/junk1", wantName: "GET", wantLabel: "unmatched"},
	}
	for _, tt := range tests {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tt.method, tt.path, nil))
	}

	require.NoError(t, tp.ForceFlush(context.Background()))
	spans := exporter.GetSpans()
	require.Len(t, spans, len(tests))
	for i, tt := range tests {
		assert.Equal(t, tt.wantName, spans[i].Name, tt.path)
		assert.Equal(t, recordedRequest{method: tt.method, endpoint: tt.wantLabel}, rec.requests[i], tt.path)
	}
}
