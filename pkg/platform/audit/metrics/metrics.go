package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts audit emission outcomes.
type Metrics struct {
	Emitted      *prometheus.CounterVec
	Dropped      prometheus.Counter
	StoreErrors  prometheus.Counter
	SinkFailures *prometheus.CounterVec
}

func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Emitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trustlink_audit_events_emitted_total",
			Help: "Total number of audit events accepted by the primary store",
		}, []string{"action"}),
		Dropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "trustlink_audit_events_dropped_total",
			Help: "Total number of audit events dropped because the async buffer was full",
		}),
		StoreErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "trustlink_audit_store_errors_total",
			Help: "Total number of audit events the primary store failed to persist",
		}),
		SinkFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trustlink_audit_sink_failures_total",
			Help: "Total number of audit sink deliveries that failed",
		}, []string{"sink"}),
	}
}

func (m *Metrics) IncEmitted(action string) {
	if m == nil {
		return
	}
	m.Emitted.WithLabelValues(action).Inc()
}

func (m *Metrics) IncDropped() {
	if m == nil {
		return
	}
	m.Dropped.Inc()
}

func (m *Metrics) IncStoreErrors() {
	if m == nil {
		return
	}
	m.StoreErrors.Inc()
}

func (m *Metrics) IncSinkFailure(sink string) {
	if m == nil {
		return
	}
	m.SinkFailures.WithLabelValues(sink).Inc()
}
