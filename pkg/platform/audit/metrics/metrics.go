package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the audit publisher and its sinks.
type Metrics struct {
	QueueDepth      prometheus.Gauge
	EventsDropped   prometheus.Counter
	EventsEnqueued  prometheus.Counter
	PersistFailures prometheus.Counter
	SinkFailures    *prometheus.CounterVec
	SinkSkipped     *prometheus.CounterVec
}

var (
	metricsOnce     sync.Once
	metricsInstance *Metrics
)

// New returns the process-wide audit metrics. Safe to call multiple times.
func New() *Metrics {
	metricsOnce.Do(func() {
		metricsInstance = &Metrics{
			QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "tourmint_audit_queue_depth",
				Help: "Current number of events in the audit publisher queue",
			}),
			EventsDropped: promauto.NewCounter(prometheus.CounterOpts{
				Name: "tourmint_audit_events_dropped_total",
				Help: "Total number of audit events dropped due to full buffer",
			}),
			EventsEnqueued: promauto.NewCounter(prometheus.CounterOpts{
				Name: "tourmint_audit_events_enqueued_total",
				Help: "Total number of audit events successfully enqueued",
			}),
			PersistFailures: promauto.NewCounter(prometheus.CounterOpts{
				Name: "tourmint_audit_persist_failures_total",
				Help: "Total number of audit events that failed to persist",
			}),
			SinkFailures: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "tourmint_audit_sink_failures_total",
				Help: "Total number of audit events a secondary sink failed to accept",
			}, []string{"sink"}),
			SinkSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "tourmint_audit_sink_skipped_total",
				Help: "Total number of audit events skipped while a sink circuit was open",
			}, []string{"sink"}),
		}
	})
	return metricsInstance
}
