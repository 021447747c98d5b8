package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCountersByLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveDistribution("dispense", OutcomeSuccess)
	m.ObserveDistribution("dispense", OutcomeSuccess)
	m.ObserveDistribution("dispense", OutcomeConflict)
	m.ObserveScan(OutcomeInvalid)
	m.ObserveScan("")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.distributions.WithLabelValues("dispense", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.distributions.WithLabelValues("dispense", OutcomeConflict)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scans.WithLabelValues(OutcomeInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scans.WithLabelValues("unknown")))
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveDistribution("restock", OutcomeSuccess)
	m.ObserveScan(OutcomeSuccess)

	New(nil).ObserveDistribution("restock", OutcomeSuccess)
}
