package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels shared by the counters.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// LabelUnknown replaces empty or unrecognized label values.
const LabelUnknown = "unknown"

// Metrics records business counters for the inventory and scanner flows.
type Metrics struct {
	distributions *prometheus.CounterVec
	scans         *prometheus.CounterVec
}

// New registers the counters on reg. A nil registerer yields a no-op recorder.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	distributions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nagacare_distribution_actions_total",
		Help: "Medication distribution actions by action type and outcome.",
	}, []string{"action", "outcome"})
	scans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nagacare_qr_scans_total",
		Help: "Resident QR scans by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(distributions, scans)
	return &Metrics{distributions: distributions, scans: scans}
}

// ObserveDistribution counts one distribution attempt.
func (m *Metrics) ObserveDistribution(action, outcome string) {
	if m == nil || m.distributions == nil {
		return
	}
	m.distributions.WithLabelValues(normalizeLabel(action), normalizeLabel(outcome)).Inc()
}

// ObserveScan counts one QR scan attempt.
func (m *Metrics) ObserveScan(outcome string) {
	if m == nil || m.scans == nil {
		return
	}
	m.scans.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return LabelUnknown
	}
	return v
}
