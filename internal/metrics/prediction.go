package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prediction Prometheus metrics.
var (
	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bcpredict",
			Name:      "predictions_total",
			Help:      "Total number of served predictions",
		},
		[]string{"model", "label"},
	)

	PredictionRejectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bcpredict",
			Name:      "prediction_rejects_total",
			Help:      "Prediction requests rejected before or during inference",
		},
		[]string{"code"},
	)

	InferenceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bcpredict",
			Name:      "inference_duration_seconds",
			Help:      "Classifier inference duration in seconds",
			Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
		},
		[]string{"model"},
	)

	PredictionCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bcpredict",
			Name:      "prediction_cache_total",
			Help:      "Prediction cache hits and misses",
		},
		[]string{"tier", "result"}, // "memory"/"store", "hit"/"miss"
	)
)

var predMetricsRegistered bool

// RegisterPredictionMetrics registers Prometheus prediction metrics. Must be called once from main.
func RegisterPredictionMetrics() {
	if predMetricsRegistered {
		return
	}
	prometheus.MustRegister(PredictionsTotal)
	prometheus.MustRegister(PredictionRejectsTotal)
	prometheus.MustRegister(InferenceDuration)
	prometheus.MustRegister(PredictionCacheTotal)
	predMetricsRegistered = true
}
