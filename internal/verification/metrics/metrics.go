package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for registry operations.
type Metrics struct {
	VerificationsStored      *prometheus.CounterVec
	VerificationsDeactivated *prometheus.CounterVec
	RegistryUsersAdded       prometheus.Counter
	WritesRejected           *prometheus.CounterVec
	Reads                    *prometheus.CounterVec
	CacheLookups             *prometheus.CounterVec
	StoreOperationLatency    *prometheus.HistogramVec
}

func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		VerificationsStored: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trustlink_verifications_stored_total",
			Help: "Total number of verification entries written, labeled by type",
		}, []string{"type"}),
		VerificationsDeactivated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trustlink_verifications_deactivated_total",
			Help: "Total number of verification entries deactivated, labeled by type",
		}, []string{"type"}),
		RegistryUsersAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "trustlink_registry_users_added_total",
			Help: "Total number of principals appended to the registry ledger",
		}),
		WritesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trustlink_verification_writes_rejected_total",
			Help: "Total number of writes rejected for an invalid type, labeled by operation",
		}, []string{"operation"}),
		Reads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trustlink_verification_reads_total",
			Help: "Total number of registry reads, labeled by operation",
		}, []string{"operation"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trustlink_verification_cache_lookups_total",
			Help: "Entry cache lookups, labeled by result (hit, miss, error, bypass)",
		}, []string{"result"}),
		StoreOperationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trustlink_verification_store_operation_latency_seconds",
			Help:    "Latency of registry store operations in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementStored(kind string) {
	if m == nil {
		return
	}
	m.VerificationsStored.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementDeactivated(kind string) {
	if m == nil {
		return
	}
	m.VerificationsDeactivated.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementUsersAdded() {
	if m == nil {
		return
	}
	m.RegistryUsersAdded.Inc()
}

func (m *Metrics) IncrementRejected(operation string) {
	if m == nil {
		return
	}
	m.WritesRejected.WithLabelValues(operation).Inc()
}

func (m *Metrics) IncrementReads(operation string) {
	if m == nil {
		return
	}
	m.Reads.WithLabelValues(operation).Inc()
}

func (m *Metrics) IncrementCache(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveStoreOperation is meant to be deferred with the operation's start time.
func (m *Metrics) ObserveStoreOperation(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.StoreOperationLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
