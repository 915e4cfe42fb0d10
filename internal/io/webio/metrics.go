package webio

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "oligocraft"

// Run outcomes.
const (
	outcomeSuccess   = "success"
	outcomeUserError = "user_error"
	outcomeFailure   = "failure"
)

// collector is a prometheus.Collector of the webhook server.
type collector struct {
	runs        *prometheus.CounterVec
	runDuration prometheus.Histogram
	webhooks    *prometheus.CounterVec
}

func newCollector() *collector {
	return &collector{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "runs_total",
				Help:      "The number of finished runs by outcome.",
			}, []string{"outcome"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "run_duration_seconds",
				Help:      "The duration of a run.",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
		),
		webhooks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "webhooks_total",
				Help:      "The number of received webhooks by response status.",
			}, []string{"status"},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	c.runs.Describe(ch)
	c.runDuration.Describe(ch)
	c.webhooks.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *collector) Collect(ch chan<- prometheus.Metric) {
	c.runs.Collect(ch)
	c.runDuration.Collect(ch)
	c.webhooks.Collect(ch)
}
