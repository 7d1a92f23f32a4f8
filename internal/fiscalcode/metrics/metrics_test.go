package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorders(t *testing.T) {
	m := NewWith(prometheus.NewRegistry())

	m.IncrementGenerated()
	m.IncrementGenerated()
	m.IncrementFailure(ReasonMunicipalityNotFound)
	m.ObserveGenerateLatency(time.Millisecond)
	m.ObserveBatchSize(3)

	assert.InDelta(t, 2, testutil.ToFloat64(m.CodesGenerated), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Failures.WithLabelValues(ReasonMunicipalityNotFound)), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.GenerateLatency))
	assert.Equal(t, 1, testutil.CollectAndCount(m.BatchSize))
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementGenerated()
		m.IncrementFailure(ReasonCanceled)
		m.ObserveGenerateLatency(time.Second)
		m.ObserveBatchSize(1)
	})
}
