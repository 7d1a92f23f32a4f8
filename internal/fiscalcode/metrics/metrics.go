package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Failure reasons.
const (
	ReasonMunicipalityNotFound = "municipality_not_found"
	ReasonRegistryError        = "registry_error"
	ReasonCanceled             = "canceled"
)

// Metrics provides observability for fiscal code generation.
type Metrics struct {
	CodesGenerated  prometheus.Counter
	Failures        *prometheus.CounterVec
	GenerateLatency prometheus.Histogram
	BatchSize       prometheus.Histogram
}

// New creates and registers the generation metrics.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the generation metrics on reg.
func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CodesGenerated: f.NewCounter(prometheus.CounterOpts{
			Name: "fiscalcode_codes_generated_total",
			Help: "Total number of fiscal codes generated",
		}),
		Failures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fiscalcode_generation_failures_total",
			Help: "Failed generations by reason",
		}, []string{"reason"}),
		GenerateLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "fiscalcode_generate_duration_seconds",
			Help:    "Duration of a single generation including the registry lookup",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		BatchSize: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "fiscalcode_batch_size",
			Help:    "Number of people per batch request",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		}),
	}
}

// IncrementGenerated records a successful generation.
func (m *Metrics) IncrementGenerated() {
	if m != nil {
		m.CodesGenerated.Inc()
	}
}

// IncrementFailure records a failed generation.
func (m *Metrics) IncrementFailure(reason string) {
	if m != nil {
		m.Failures.WithLabelValues(reason).Inc()
	}
}

// ObserveGenerateLatency records the duration of one generation.
func (m *Metrics) ObserveGenerateLatency(d time.Duration) {
	if m != nil {
		m.GenerateLatency.Observe(d.Seconds())
	}
}

// ObserveBatchSize records the size of a batch.
func (m *Metrics) ObserveBatchSize(n int) {
	if m != nil {
		m.BatchSize.Observe(float64(n))
	}
}
