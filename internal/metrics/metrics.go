// Package metrics exposes Prometheus counters for crash report outcomes.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Report outcomes, used as the "outcome" label value.
const (
	OutcomeCreated  = "created"
	OutcomeNoted    = "noted"
	OutcomeReopened = "reopened"
	OutcomeDropped  = "dropped"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
)

var (
	registerOnce sync.Once

	reportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glreporter_reports_total",
			Help: "Crash reports processed, by outcome",
		},
		[]string{"outcome"},
	)
)

// Register registers the reporter metrics with the default Prometheus
// registry. The reporter calls it at install time; additional calls are
// no-ops, registration happens at most once per process.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(reportsTotal)
	})
}

// Observe records a single report outcome.
func Observe(outcome string) {
	reportsTotal.WithLabelValues(outcome).Inc()
}
