package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterIdempotent(t *testing.T) {
	Register()
	Register()

	// A direct registration attempt proves the collector already lives in
	// the default registry.
	err := prometheus.DefaultRegisterer.Register(reportsTotal)
	var already prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &already)
}

func TestObserveCountsByOutcome(t *testing.T) {
	before := testutil.ToFloat64(reportsTotal.WithLabelValues(OutcomeCreated))

	Observe(OutcomeCreated)
	Observe(OutcomeCreated)

	assert.Equal(t, before+2, testutil.ToFloat64(reportsTotal.WithLabelValues(OutcomeCreated)))
}
