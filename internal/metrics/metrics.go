// Package metrics provides the centralized Prometheus registry for the
// calibration engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsLoadedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "postgame",
		Name:      "predictions_loaded_total",
		Help:      "Total number of prediction records that survived loading",
	})
	PredictionsDroppedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "postgame",
		Name:      "predictions_dropped_total",
		Help:      "Total number of prediction records dropped during loading",
	}, []string{"reason"})
	EvaluationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "postgame",
		Name:      "evaluations_total",
		Help:      "Total number of scoring engine evaluations",
	})
	TimeSplitRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "postgame",
		Name:      "time_split_runs_total",
		Help:      "Total number of chronological split evaluations",
	})
	MetaTrainingRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "postgame",
		Name:      "meta_training_runs_total",
		Help:      "Total number of meta-model training runs",
	})
)

// Histogram metrics
var (
	MetaTrainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "postgame",
		Name:      "meta_training_duration_seconds",
		Help:      "Duration of meta-model training runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionsLoadedTotal)
		registry.MustRegister(PredictionsDroppedTotal)
		registry.MustRegister(EvaluationsTotal)
		registry.MustRegister(TimeSplitRunsTotal)
		registry.MustRegister(MetaTrainingRunsTotal)
		registry.MustRegister(MetaTrainingDuration)
	})
	return registry
}

// GetRegistry returns the initialized registry, initializing it if needed.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns an HTTP handler for the metrics endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordMetaTraining records one meta-model training run and its duration.
func RecordMetaTraining(durationSeconds float64) {
	MetaTrainingRunsTotal.Inc()
	MetaTrainingDuration.Observe(durationSeconds)
}
