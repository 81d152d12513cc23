package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Transitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "approval_transitions_total",
			Help: "Status transitions attempted, by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	Callbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "approval_callbacks_total",
			Help: "Decision callbacks sent to origin services",
		},
		[]string{"document_type", "outcome"},
	)

	ChatMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Outbound chat transport operations, by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	WebhookUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_updates_total",
			Help: "Inbound chat updates, by kind",
		},
		[]string{"kind"},
	)

	UpstreamFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregator_fetches_total",
			Help: "Upstream fetches made while assembling document views",
		},
		[]string{"part", "outcome"},
	)

	UpstreamFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aggregator_fetch_duration_seconds",
			Help:    "Duration of upstream fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"part"},
	)
)

func Outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
