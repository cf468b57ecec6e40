// Package metrics exposes Prometheus instrumentation for feed generation,
// hydration and the generation service client.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FeedGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viral_feed_generations_total",
			Help: "Feed generation attempts by result",
		},
		[]string{"result"}, // "success", "failed"
	)

	FeedGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "viral_feed_generation_duration_seconds",
			Help:    "Duration of successful feed generations",
			Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
		},
	)

	ArchiveSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "viral_feed_archive_posts",
			Help: "Current number of posts in the archive",
		},
	)

	TrendMeanViews = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "viral_feed_trend_mean_views",
			Help: "Mean views of the currently trending categories",
		},
		[]string{"category"},
	)

	Hydrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viral_feed_hydrations_total",
			Help: "Content hydrations by outcome",
		},
		[]string{"outcome"}, // "cached", "generated", "failed"
	)

	SinkErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viral_feed_sink_errors_total",
			Help: "Failed writes to storage or the message queue",
		},
		[]string{"sink"}, // "postgres", "rabbitmq"
	)

	GenerationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viral_feed_generation_requests_total",
			Help: "Calls to the generation service by operation and status",
		},
		[]string{"operation", "status"}, // status: "ok", "retry", "error", "rejected"
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "viral_feed_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
