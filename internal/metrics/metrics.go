// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chillpill",
			Name:      "classifications_total",
			Help:      "Sentiment classifications by outcome (scored, too_long, objective, service_failure).",
		},
		[]string{"outcome"},
	)

	EntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chillpill",
			Name:      "entries_total",
			Help:      "Journal entry operations by kind.",
		},
		[]string{"op"},
	)

	ScorerBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "chillpill",
			Name:      "scorer_breaker_state",
			Help:      "Remote scorer circuit breaker state: 0 closed, 1 half-open, 2 open.",
		},
	)
)

// Entry operation labels.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// ObserveClassification counts one classifier outcome.
func ObserveClassification(outcome string) {
	ClassificationsTotal.WithLabelValues(outcome).Inc()
}

// ObserveEntry counts one entry write.
func ObserveEntry(op string) {
	EntriesTotal.WithLabelValues(op).Inc()
}
