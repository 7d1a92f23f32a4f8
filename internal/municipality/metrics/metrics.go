package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for registry lookups.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics provides observability for the cadastral registry.
type Metrics struct {
	// Lookups by backend ("memory", "postgres") and outcome
	Lookups *prometheus.CounterVec

	// Cache hits/misses by cache layer ("lru", "redis")
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	LookupLatency *prometheus.HistogramVec
}

// New creates and registers the registry metrics.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on reg. Tests pass a fresh registry so that
// repeated construction does not collide.
func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Lookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fiscalcode_registry_lookups_total",
			Help: "Cadastral registry lookups by backend and outcome",
		}, []string{"backend", "outcome"}),
		CacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fiscalcode_registry_cache_hits_total",
			Help: "Cadastral code cache hits by cache layer",
		}, []string{"cache"}),
		CacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fiscalcode_registry_cache_misses_total",
			Help: "Cadastral code cache misses by cache layer",
		}, []string{"cache"}),
		LookupLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fiscalcode_registry_lookup_duration_seconds",
			Help:    "Duration of cadastral registry lookups by backend",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}, []string{"backend"}),
	}
}

// ObserveLookup records one backend lookup.
func (m *Metrics) ObserveLookup(backend, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(backend, outcome).Inc()
	m.LookupLatency.WithLabelValues(backend).Observe(d.Seconds())
}

// RecordCacheHit increments the hit counter of a cache layer.
func (m *Metrics) RecordCacheHit(cache string) {
	if m != nil {
		m.CacheHits.WithLabelValues(cache).Inc()
	}
}

// RecordCacheMiss increments the miss counter of a cache layer.
func (m *Metrics) RecordCacheMiss(cache string) {
	if m != nil {
		m.CacheMisses.WithLabelValues(cache).Inc()
	}
}

// Outcome classifies a lookup error into a label.
func Outcome(err error, isNotFound func(error) bool) string {
	switch {
	case err == nil:
		return OutcomeFound
	case isNotFound(err):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}
