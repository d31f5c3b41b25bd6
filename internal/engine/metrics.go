package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Latency: сколько заняла сборка представления дашборда
	ViewDuration *prometheus.HistogramVec

	// Traffic: запросы представления по окнам
	ViewRequests *prometheus.CounterVec

	// Последний отданный индекс доверия
	TrustScore prometheus.Gauge

	// Перечитывания снапшота: ok, empty, invalid, error
	SnapshotReloads *prometheus.CounterVec

	// Saturation: состояние Circuit Breaker источника (0 - ок, 1 - выбило)
	CircuitBreakerState *prometheus.GaugeVec

	// Journal: заполненность буфера (backpressure) и сброшенные события
	JournalBufferFill prometheus.Gauge
	JournalDropped    prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// Null Object Pattern - Если рег не передан, используем локальный, который никуда не подключен
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		ViewDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "truverse_view_build_duration_seconds",
			Help:    "Histogram of dashboard view build latencies.",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}, []string{"range"}),

		ViewRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "truverse_view_requests_total",
			Help: "Total number of dashboard views built.",
		}, []string{"range"}),

		TrustScore: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "truverse_trust_score",
			Help: "Trust score of the most recently built view.",
		}),

		SnapshotReloads: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "truverse_snapshot_reloads_total",
			Help: "Snapshot reloads by result.",
		}, []string{"result"}), // ok, empty, invalid, error

		CircuitBreakerState: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "truverse_circuit_breaker_state",
			Help: "Current state of the snapshot source circuit breaker (0=closed, 1=open).",
		}, []string{"source"}),

		JournalBufferFill: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "truverse_journal_buffer_utilization",
			Help: "Current number of trust events waiting in the journal buffer.",
		}),

		JournalDropped: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "truverse_journal_dropped_total",
			Help: "Trust events dropped because the journal buffer was full or stopping.",
		}),
	}
}

// ObserveBreaker подходит как snapshot.StateObserver
func (m *Metrics) ObserveBreaker(name string, open bool) {
	v := 0.0
	if open {
		v = 1
	}
	m.CircuitBreakerState.WithLabelValues(name).Set(v)
}
