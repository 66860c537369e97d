package engine

import "github.com/prometheus/client_golang/prometheus"

// Metrics collects counters for the synchronization protocol.
type Metrics struct {
	refreshes       *prometheus.CounterVec
	reads           *prometheus.CounterVec
	writes          prometheus.Counter
	converged       prometheus.Counter
	failed          prometheus.Counter
	pollTicks       prometheus.Counter
	pending         prometheus.Gauge
	convergeSeconds prometheus.Histogram
}

// NewMetrics creates the metric set and registers it when reg is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bacnet_console_device_refreshes_total",
			Help: "Full device listing refreshes by result",
		}, []string{"result"}),
		reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bacnet_console_property_reads_total",
			Help: "Property refresh reads by result",
		}, []string{"result"}),
		writes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bacnet_console_writes_total",
			Help: "Write operations dispatched",
		}),
		converged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bacnet_console_writes_converged_total",
			Help: "Write operations confirmed by a fresh read",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bacnet_console_writes_failed_total",
			Help: "Write operations terminated by a transport failure",
		}),
		pollTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bacnet_console_poll_ticks_total",
			Help: "Convergence polling ticks issued",
		}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bacnet_console_pending_operations",
			Help: "Operations currently awaiting convergence",
		}),
		convergeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bacnet_console_convergence_seconds",
			Help:    "Time from write dispatch to confirmed convergence",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.refreshes, m.reads, m.writes, m.converged,
			m.failed, m.pollTicks, m.pending, m.convergeSeconds,
		)
	}
	return m
}
