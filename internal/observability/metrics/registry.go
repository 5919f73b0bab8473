package metrics

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

// Metric names exposed by the registry.
const (
	RequestsTotalName   = "api_requests_total"
	RequestDurationName = "api_request_duration_seconds"
	PageHitsTotalName   = "page_hits_total"
	PagesTotalName      = "pages_total"
)

// Label names.
const (
	LabelMethod   = "method"
	LabelEndpoint = "endpoint"
	LabelPageName = "page_name"
)

// DefaultPageLabelLimit bounds the number of distinct page_name label values.
const DefaultPageLabelLimit = 1000

// ErrUnknownMetric is returned when a counter or histogram name was never registered.
var ErrUnknownMetric = errors.New("unknown metric")

// Config configures a Registry.
type Config struct {
	// PageLabelLimit caps distinct page_name values on page_hits_total.
	// Zero or negative falls back to DefaultPageLabelLimit.
	PageLabelLimit int
}

// Registry holds all counters and histograms of the service.
// It is safe for concurrent use; the client library synchronizes the series.
type Registry struct {
	reg *prometheus.Registry

	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	pageHitsTotal   *prometheus.CounterVec

	pageLabels *labelLimiter
}

// NewRegistry creates a registry with the API and business metrics registered.
func NewRegistry(cfg Config) *Registry {
	limit := cfg.PageLabelLimit
	if limit <= 0 {
		limit = DefaultPageLabelLimit
	}

	r := &Registry{
		reg:        prometheus.NewRegistry(),
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		pageLabels: newLabelLimiter(limit),
	}

	r.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: RequestsTotalName,
			Help: "Total API requests",
		},
		[]string{LabelMethod, LabelEndpoint},
	)

	r.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    RequestDurationName,
			Help:    "API request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{LabelEndpoint},
	)

	// page_name は利用者入力なので labelLimiter で上限を設ける
	r.pageHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: PageHitsTotalName,
			Help: "Total hits per page",
		},
		[]string{LabelPageName},
	)

	r.reg.MustRegister(
		r.requestsTotal,
		r.requestDuration,
		r.pageHitsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r.counters[RequestsTotalName] = r.requestsTotal
	r.counters[PageHitsTotalName] = r.pageHitsTotal
	r.histograms[RequestDurationName] = r.requestDuration

	return r
}

// RegisterPageCount exposes the pages_total gauge, evaluated at scrape time.
func (r *Registry) RegisterPageCount(count func() int) error {
	gauge := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: PagesTotalName,
			Help: "Total number of pages in the store",
		},
		func() float64 { return float64(count()) },
	)
	if err := r.reg.Register(gauge); err != nil {
		return fmt.Errorf("register %s: %w", PagesTotalName, err)
	}
	return nil
}

// IncrementCounter adds one to the named counter for the given label set.
// The series is created on first use.
func (r *Registry) IncrementCounter(name string, labels prometheus.Labels) error {
	vec, ok := r.counters[name]
	if !ok {
		return fmt.Errorf("counter %q: %w", name, ErrUnknownMetric)
	}
	c, err := vec.GetMetricWith(labels)
	if err != nil {
		return fmt.Errorf("counter %q: %w", name, err)
	}
	c.Inc()
	return nil
}

// ObserveHistogram records value into the named histogram for the given label set.
func (r *Registry) ObserveHistogram(name string, labels prometheus.Labels, value float64) error {
	vec, ok := r.histograms[name]
	if !ok {
		return fmt.Errorf("histogram %q: %w", name, ErrUnknownMetric)
	}
	o, err := vec.GetMetricWith(labels)
	if err != nil {
		return fmt.Errorf("histogram %q: %w", name, err)
	}
	o.Observe(value)
	return nil
}

// RecordRequest counts one API request.
func (r *Registry) RecordRequest(method, endpoint string) {
	r.requestsTotal.WithLabelValues(method, endpoint).Inc()
}

// ObserveRequestDuration records the request duration in seconds.
func (r *Registry) ObserveRequestDuration(endpoint string, d time.Duration) {
	r.requestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// RecordPageHit counts one hit for the page. Once PageLabelLimit distinct
// names have been seen, new names are folded into OverflowLabel.
func (r *Registry) RecordPageHit(pageName string) {
	r.pageHitsTotal.WithLabelValues(r.pageLabels.value(pageName)).Inc()
}

// Snapshot renders every registered series in the Prometheus text format.
func (r *Registry) Snapshot() (string, error) {
	families, err := r.reg.Gather()
	if err != nil {
		return "", fmt.Errorf("gather metrics: %w", err)
	}

	var buf bytes.Buffer
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			return "", fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return buf.String(), nil
}

// Gatherer exposes the underlying registry, mainly for testutil.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler returns the HTTP handler for the Prometheus scrape endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{
		Registry: r.reg,
	})
}
