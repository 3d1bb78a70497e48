package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NotifierMetrics records metadata for outbox email delivery.
type NotifierMetrics struct {
	duration *prometheus.HistogramVec
	sent     *prometheus.CounterVec
	failed   *prometheus.CounterVec
}

// NewNotifierMetrics registers the notifier metrics on the provided registerer.
func NewNotifierMetrics(reg prometheus.Registerer) *NotifierMetrics {
	if reg == nil {
		return &NotifierMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "notifier_send_duration_seconds",
		Help:    "Duration of email delivery attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	sent := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifier_emails_sent",
		Help: "Emails delivered successfully.",
	}, []string{"kind"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifier_emails_failed",
		Help: "Email delivery attempts that failed.",
	}, []string{"kind"})
	reg.MustRegister(duration, sent, failed)
	return &NotifierMetrics{
		duration: duration,
		sent:     sent,
		failed:   failed,
	}
}

// ObserveDuration records the delivery duration for the named email kind.
func (n *NotifierMetrics) ObserveDuration(kind string, duration time.Duration) {
	if n == nil || n.duration == nil {
		return
	}
	n.duration.WithLabelValues(normalizeLabel(kind)).Observe(duration.Seconds())
}

// IncSent increments the delivered counter for the named email kind.
func (n *NotifierMetrics) IncSent(kind string) {
	if n == nil || n.sent == nil {
		return
	}
	n.sent.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncFailed increments the failure counter for the named email kind.
func (n *NotifierMetrics) IncFailed(kind string) {
	if n == nil || n.failed == nil {
		return
	}
	n.failed.WithLabelValues(normalizeLabel(kind)).Inc()
}

func normalizeLabel(kind string) string {
	if kind == "" {
		return "unknown"
	}
	return kind
}
