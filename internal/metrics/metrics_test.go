package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/sift/internal/domain"
)

// value returns the value of the series of family matching indexer.
func value(t *testing.T, reg *prometheus.Registry, family, indexer string) (float64, bool) {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != family {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() != "indexer" || l.GetValue() != indexer {
					continue
				}
				switch {
				case m.GetCounter() != nil:
					return m.GetCounter().GetValue(), true
				case m.GetGauge() != nil:
					return m.GetGauge().GetValue(), true
				case m.GetHistogram() != nil:
					return float64(m.GetHistogram().GetSampleCount()), true
				}
			}
		}
	}
	return 0, false
}

func TestObserveQuery(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveQuery("mam", "success", 120*time.Millisecond, 7)
	m.ObserveQuery("mam", "failed", time.Second, 0)

	v, ok := value(t, reg, "sift_indexer_releases_total", "mam")
	require.True(t, ok)
	assert.Equal(t, 7.0, v)

	v, ok = value(t, reg, "sift_indexer_query_duration_seconds", "mam")
	require.True(t, ok)
	assert.Equal(t, 2.0, v)
}

func TestIndexerStatusAndForget(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SetIndexerStatus(domain.IndexerStatus{IndexerID: "fl", State: domain.StateDisabled, FailureCount: 5})
	m.SessionInvalidated("fl")

	v, ok := value(t, reg, "sift_indexer_state", "fl")
	require.True(t, ok)
	assert.Equal(t, 2.0, v)

	v, ok = value(t, reg, "sift_indexer_consecutive_failures", "fl")
	require.True(t, ok)
	assert.Equal(t, 5.0, v)

	m.Forget("fl")
	_, ok = value(t, reg, "sift_indexer_state", "fl")
	assert.False(t, ok)
	_, ok = value(t, reg, "sift_session_invalidations_total", "fl")
	assert.False(t, ok)
}

func TestHandler(t *testing.T) {
	m := New(nil)
	m.ObserveSearch(time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "sift_search_duration_seconds_count 1"))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
