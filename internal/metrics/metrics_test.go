package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitRegistry(t *testing.T) {
	registry := InitRegistry()
	assert.NotNil(t, registry)

	// Repeated initialization returns the same registry.
	assert.Equal(t, registry, InitRegistry())
	assert.Equal(t, registry, GetRegistry())
}

func TestHandler(t *testing.T) {
	InitRegistry()
	assert.NotNil(t, Handler())
}

func TestCountersAreUsable(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		PredictionsLoadedTotal.Inc()
		PredictionsDroppedTotal.WithLabelValues("malformed_probability").Inc()
		EvaluationsTotal.Inc()
		TimeSplitRunsTotal.Inc()
		MetaTrainingRunsTotal.Inc()
	})
}

func TestRecordMetaTraining(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordMetaTraining(0.5)
	})
}
