package metrics

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_IncrementCounter(t *testing.T) {
	tests := []struct {
		name    string
		metric  string
		labels  prometheus.Labels
		wantErr error
	}{
		{
			name:   "request counter",
			metric: RequestsTotalName,
			labels: prometheus.Labels{LabelMethod: "GET", LabelEndpoint: "api"},
		},
		{
			name:   "page hit counter",
			metric: PageHitsTotalName,
			labels: prometheus.Labels{LabelPageName: "Homepage"},
		},
		{
			name:    "unknown metric",
			metric:  "does_not_exist_total",
			labels:  prometheus.Labels{},
			wantErr: ErrUnknownMetric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(Config{})

			err := r.IncrementCounter(tt.metric, tt.labels)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, float64(1), testutil.ToFloat64(r.counters[tt.metric].With(tt.labels)))
		})
	}
}

func TestRegistry_IncrementCounter_BadLabels(t *testing.T) {
	r := NewRegistry(Config{})

	err := r.IncrementCounter(RequestsTotalName, prometheus.Labels{LabelMethod: "GET"})
	assert.Error(t, err)
	assert.Equal(t, 0, testutil.CollectAndCount(r.requestsTotal), "no series on failure")
}

func TestRegistry_ObserveHistogram(t *testing.T) {
	r := NewRegistry(Config{})

	require.NoError(t, r.ObserveHistogram(RequestDurationName, prometheus.Labels{LabelEndpoint: "api"}, 0.02))
	require.NoError(t, r.ObserveHistogram(RequestDurationName, prometheus.Labels{LabelEndpoint: "api"}, 0.2))

	err := r.ObserveHistogram("nope_seconds", prometheus.Labels{}, 1)
	assert.True(t, errors.Is(err, ErrUnknownMetric))

	families, err := r.Gatherer().Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() != RequestDurationName {
			continue
		}
		found = true
		assert.Equal(t, dto.MetricType_HISTOGRAM, mf.GetType())
		require.Len(t, mf.GetMetric(), 1)
		h := mf.GetMetric()[0].GetHistogram()
		assert.Equal(t, uint64(2), h.GetSampleCount())
		assert.InDelta(t, 0.22, h.GetSampleSum(), 1e-9)
	}
	assert.True(t, found, "histogram family should be gathered")
}

func TestRegistry_TypedHelpers(t *testing.T) {
	r := NewRegistry(Config{})

	r.RecordRequest("GET", "api")
	r.RecordRequest("GET", "api")
	r.RecordRequest("POST", "api")
	r.ObserveRequestDuration("health", 5*time.Millisecond)
	r.RecordPageHit("Homepage")

	assert.Equal(t, float64(2), testutil.ToFloat64(r.requestsTotal.WithLabelValues("GET", "api")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.requestsTotal.WithLabelValues("POST", "api")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.pageHitsTotal.WithLabelValues("Homepage")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.requestDuration))
}

func TestRegistry_PageLabelLimit(t *testing.T) {
	r := NewRegistry(Config{PageLabelLimit: 2})

	r.RecordPageHit("a")
	r.RecordPageHit("b")
	r.RecordPageHit("c")
	r.RecordPageHit("d")
	r.RecordPageHit("a")

	assert.Equal(t, float64(2), testutil.ToFloat64(r.pageHitsTotal.WithLabelValues("a")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.pageHitsTotal.WithLabelValues("b")))
	assert.Equal(t, float64(2), testutil.ToFloat64(r.pageHitsTotal.WithLabelValues(OverflowLabel)))
	assert.Equal(t, 3, testutil.CollectAndCount(r.pageHitsTotal), "cardinality bounded to limit+1")
}

func TestRegistry_RegisterPageCount(t *testing.T) {
	r := NewRegistry(Config{})
	count := 3

	require.NoError(t, r.RegisterPageCount(func() int { return count }))

	expected := `
# HELP pages_total Total number of pages in the store
# TYPE pages_total gauge
pages_total 3
`
	assert.NoError(t, testutil.GatherAndCompare(r.Gatherer(), strings.NewReader(expected), PagesTotalName))

	// second registration collides
	assert.Error(t, r.RegisterPageCount(func() int { return 0 }))
}

func TestRegistry_Snapshot(t *testing.T) {
	r := NewRegistry(Config{})
	r.RecordRequest("GET", "api")
	r.ObserveRequestDuration("api", 10*time.Millisecond)
	r.RecordPageHit("Homepage")

	text, err := r.Snapshot()
	require.NoError(t, err)

	assert.Contains(t, text, "# HELP api_requests_total Total API requests")
	assert.Contains(t, text, "# TYPE api_requests_total counter")
	assert.Contains(t, text, `api_requests_total{endpoint="api",method="GET"} 1`)
	assert.Contains(t, text, "# TYPE api_request_duration_seconds histogram")
	assert.Contains(t, text, `api_request_duration_seconds_bucket{endpoint="api",le="+Inf"} 1`)
	assert.Contains(t, text, `page_hits_total{page_name="Homepage"} 1`)
}

func TestRegistry_SnapshotConcurrentWithWrites(t *testing.T) {
	r := NewRegistry(Config{PageLabelLimit: 10})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				r.RecordRequest("GET", "api")
				r.ObserveRequestDuration("api", time.Millisecond)
				r.RecordPageHit(fmt.Sprintf("page-%d", j%20))
			}
		}()
	}

	for i := 0; i < 20; i++ {
		_, err := r.Snapshot()
		require.NoError(t, err)
	}
	wg.Wait()

	assert.Equal(t, float64(1600), testutil.ToFloat64(r.requestsTotal.WithLabelValues("GET", "api")))
	assert.Equal(t, 11, testutil.CollectAndCount(r.pageHitsTotal))
}
