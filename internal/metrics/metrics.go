// Package metrics exposes Prometheus collectors for searches and indexer health.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrSnakeDoc/sift/internal/domain"
)

const namespace = "sift"

// Metrics holds every collector of the service.
type Metrics struct {
	reg *prometheus.Registry

	queries         *prometheus.CounterVec
	queryDuration   *prometheus.HistogramVec
	releases        *prometheus.CounterVec
	searchDuration  prometheus.Histogram
	indexerState    *prometheus.GaugeVec
	indexerFailures *prometheus.GaugeVec
	invalidations   *prometheus.CounterVec
}

// New registers the collectors on reg. A nil reg gets a fresh registry with
// the Go runtime and process collectors.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(reg)

	return &Metrics{
		reg: reg,
		queries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "indexer_queries_total",
			Help:      "Indexer queries by outcome.",
		}, []string{"indexer", "outcome"}),
		queryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "indexer_query_duration_seconds",
			Help:      "Time spent querying one indexer, rate gate included.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		}, []string{"indexer"}),
		releases: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "indexer_releases_total",
			Help:      "Normalized releases returned by indexer.",
		}, []string{"indexer"}),
		searchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "End to end duration of aggregated searches.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		indexerState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "indexer_state",
			Help:      "Indexer health: 0 healthy, 1 degraded, 2 disabled.",
		}, []string{"indexer"}),
		indexerFailures: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "indexer_consecutive_failures",
			Help:      "Consecutive counted failures per indexer.",
		}, []string{"indexer"}),
		invalidations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_invalidations_total",
			Help:      "Cached sessions dropped after auth failures or indexer requests.",
		}, []string{"indexer"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) ObserveQuery(indexerID, outcome string, elapsed time.Duration, releases int) {
	m.queries.WithLabelValues(indexerID, outcome).Inc()
	m.queryDuration.WithLabelValues(indexerID).Observe(elapsed.Seconds())
	if releases > 0 {
		m.releases.WithLabelValues(indexerID).Add(float64(releases))
	}
}

func (m *Metrics) ObserveSearch(elapsed time.Duration) {
	m.searchDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) SessionInvalidated(indexerID string) {
	m.invalidations.WithLabelValues(indexerID).Inc()
}

// SetIndexerStatus mirrors a status transition. Used as the status manager hook.
func (m *Metrics) SetIndexerStatus(st domain.IndexerStatus) {
	m.indexerState.WithLabelValues(st.IndexerID).Set(float64(st.State.Severity()))
	m.indexerFailures.WithLabelValues(st.IndexerID).Set(float64(st.FailureCount + st.AuthFailureCount))
}

// Forget drops the per-indexer series of a removed indexer.
func (m *Metrics) Forget(indexerID string) {
	labels := prometheus.Labels{"indexer": indexerID}
	m.queries.DeletePartialMatch(labels)
	m.queryDuration.DeletePartialMatch(labels)
	m.releases.DeletePartialMatch(labels)
	m.indexerState.DeletePartialMatch(labels)
	m.indexerFailures.DeletePartialMatch(labels)
	m.invalidations.DeletePartialMatch(labels)
}
