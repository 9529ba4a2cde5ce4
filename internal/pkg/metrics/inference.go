// Package metrics provides Prometheus metrics recording for internal packages.
// This package exists to avoid import cycles between model, service and middleware packages.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// modelLoadDuration tracks how long it takes to fetch and decode a model
	modelLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "penguin_model_load_duration_seconds",
			Help:    "Model load duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"source"},
	)

	// modelCacheTotal tracks cache hits and misses in cached reload mode
	modelCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "penguin_model_cache_total",
			Help: "Model cache lookups by result",
		},
		[]string{"result"},
	)

	// modelErrors tracks failed model loads and inferences
	modelErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "penguin_model_errors_total",
			Help: "Total number of model errors by stage",
		},
		[]string{"stage"},
	)

	// predictionsTotal tracks predictions by returned label
	predictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "penguin_predictions_total",
			Help: "Total number of predictions by species",
		},
		[]string{"species"},
	)

	// authFailures tracks rejected requests by reason
	authFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "penguin_auth_failures_total",
			Help: "Total number of authentication failures",
		},
		[]string{"reason"},
	)

	// rateLimitRejections tracks requests rejected by the limiter
	rateLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "penguin_rate_limit_rejections_total",
			Help: "Total number of requests rejected by rate limiting",
		},
	)
)

// Model error stages
const (
	StageLoad  = "load"
	StageInfer = "infer"
)

// RecordModelLoad records a model load
func RecordModelLoad(source string, duration time.Duration, err error) {
	modelLoadDuration.WithLabelValues(source).Observe(duration.Seconds())
	if err != nil {
		modelErrors.WithLabelValues(StageLoad).Inc()
	}
}

// RecordModelCache records a cache lookup
func RecordModelCache(hit bool) {
	if hit {
		modelCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	modelCacheTotal.WithLabelValues("miss").Inc()
}

// RecordInferenceError records a failed inference
func RecordInferenceError() {
	modelErrors.WithLabelValues(StageInfer).Inc()
}

// RecordPrediction records a successful prediction
func RecordPrediction(species string) {
	predictionsTotal.WithLabelValues(species).Inc()
}

// RecordAuthFailure records a rejected credential
func RecordAuthFailure(reason string) {
	authFailures.WithLabelValues(reason).Inc()
}

// RecordRateLimitRejection records a limiter rejection
func RecordRateLimitRejection() {
	rateLimitRejections.Inc()
}
