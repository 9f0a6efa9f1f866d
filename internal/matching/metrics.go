package matching

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricMatchCacheHits       = "match_cache_hits_total"
	MetricMatchCacheMisses     = "match_cache_misses_total"
	MetricMatchStoreErrors     = "match_store_errors_total"
	MetricMatchComputeDuration = "match_compute_duration_seconds"
)

// Query label values for the cache counters.
const (
	QueryEvent     = "event"
	QueryVolunteer = "volunteer"
)

// Metrics contains Prometheus metrics for the matching engine.
// All operations are thread-safe.
type Metrics struct {
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	storeErrors     prometheus.Counter
	computeDuration prometheus.Histogram
}

// NewMetrics creates and returns a new Metrics instance with all collectors
// initialized. The metrics are not registered; call Register to register
// them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricMatchCacheHits,
				Help: "Total number of match result cache hits by query subject",
			},
			[]string{"query"},
		),
		cacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricMatchCacheMisses,
				Help: "Total number of match result cache misses by query subject",
			},
			[]string{"query"},
		),
		storeErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricMatchStoreErrors,
				Help: "Total number of data store failures during match queries",
			},
		),
		computeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricMatchComputeDuration,
				Help:    "Histogram of match computation duration in seconds (cache misses only)",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
		),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.cacheHits,
		m.cacheMisses,
		m.storeErrors,
		m.computeDuration,
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// IncCacheHit increments the cache hit counter for the given query subject.
func (m *Metrics) IncCacheHit(query string) {
	m.cacheHits.WithLabelValues(query).Inc()
}

// IncCacheMiss increments the cache miss counter for the given query subject.
func (m *Metrics) IncCacheMiss(query string) {
	m.cacheMisses.WithLabelValues(query).Inc()
}

// IncStoreError increments the data store failure counter.
func (m *Metrics) IncStoreError() {
	m.storeErrors.Inc()
}

// ObserveComputeDuration records the duration of a full match computation.
func (m *Metrics) ObserveComputeDuration(seconds float64) {
	m.computeDuration.Observe(seconds)
}
