// Package metrics exposes Prometheus collectors for the scoring and insight
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the service's collectors around one registry so tests can
// use isolated instances.
type Metrics struct {
	Registry *prometheus.Registry

	ScoresComputed     prometheus.Counter
	ScoreValue         *prometheus.GaugeVec
	InsightsGenerated  *prometheus.CounterVec
	WeightAdaptations  prometheus.Counter
	WeightsLoadFailed  prometheus.Counter
	WeightsSaveFailed  prometheus.Counter
	NotificationsSent  *prometheus.CounterVec
	RefreshRuns        prometheus.Counter
	RefreshErrors      prometheus.Counter
	HTTPRequestLatency *prometheus.HistogramVec
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		ScoresComputed: factory.NewCounter(prometheus.CounterOpts{
			Name: "ojas_scores_computed_total",
			Help: "Number of wellness scores computed.",
		}),
		ScoreValue: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ojas_score_value",
			Help: "Most recent wellness score per user.",
		}, []string{"user_id"}),
		InsightsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ojas_insights_generated_total",
			Help: "Number of proactive insights generated, by kind.",
		}, []string{"kind"}),
		WeightAdaptations: factory.NewCounter(prometheus.CounterOpts{
			Name: "ojas_weight_adaptations_total",
			Help: "Number of personalized weight adaptations applied.",
		}),
		WeightsLoadFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "ojas_weights_load_failures_total",
			Help: "Number of weight loads that fell back to defaults.",
		}),
		WeightsSaveFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "ojas_weights_save_failures_total",
			Help: "Number of weight persistence failures.",
		}),
		NotificationsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ojas_notifications_sent_total",
			Help: "Number of outbound notifications, by channel.",
		}, []string{"channel"}),
		RefreshRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "ojas_refresh_runs_total",
			Help: "Number of scheduled refresh cycles.",
		}),
		RefreshErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "ojas_refresh_errors_total",
			Help: "Number of refresh cycles that hit an error.",
		}),
		HTTPRequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ojas_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
