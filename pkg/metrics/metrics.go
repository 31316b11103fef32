package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LifecycleMetrics records order lifecycle and payment reconciliation counters.
type LifecycleMetrics struct {
	transitions     *prometheus.CounterVec
	webhookOutcomes *prometheus.CounterVec
	outboxPublish   *prometheus.CounterVec
	publishDuration *prometheus.HistogramVec
}

// NewLifecycleMetrics registers the lifecycle metrics on the provided registerer.
func NewLifecycleMetrics(reg prometheus.Registerer) *LifecycleMetrics {
	if reg == nil {
		return &LifecycleMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Order status transitions applied, labeled by source and target status.",
	}, []string{"from", "to"})
	webhookOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_webhook_outcomes_total",
		Help: "Payment webhook deliveries by processing outcome.",
	}, []string{"outcome"})
	outboxPublish := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_publish_total",
		Help: "Outbox publish attempts by result.",
	}, []string{"result"})
	publishDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outbox_publish_duration_seconds",
		Help:    "Duration of outbox publish batches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	reg.MustRegister(transitions, webhookOutcomes, outboxPublish, publishDuration)
	return &LifecycleMetrics{
		transitions:     transitions,
		webhookOutcomes: webhookOutcomes,
		outboxPublish:   outboxPublish,
		publishDuration: publishDuration,
	}
}

// ObserveTransition records a completed order status transition.
func (m *LifecycleMetrics) ObserveTransition(from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// ObserveWebhookOutcome records a webhook delivery outcome (applied, duplicate, rejected).
func (m *LifecycleMetrics) ObserveWebhookOutcome(outcome string) {
	if m == nil || m.webhookOutcomes == nil {
		return
	}
	m.webhookOutcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveOutboxPublish records a publish attempt result (published, failed).
func (m *LifecycleMetrics) ObserveOutboxPublish(result string) {
	if m == nil || m.outboxPublish == nil {
		return
	}
	m.outboxPublish.WithLabelValues(normalizeLabel(result)).Inc()
}

// ObservePublishDuration records the duration of an outbox publish batch.
func (m *LifecycleMetrics) ObservePublishDuration(job string, duration time.Duration) {
	if m == nil || m.publishDuration == nil {
		return
	}
	m.publishDuration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}
