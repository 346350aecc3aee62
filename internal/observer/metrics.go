package observer

import (
	"fmt"

	"github.com/DIvanCode/rwlock/pkg/rwlock"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics aggregates the events of every lock it observes into Prometheus
// collectors. Gauges are moved by deltas so several locks can share one
// Metrics value.
type Metrics struct {
	acquisitions  *prometheus.CounterVec
	wait          *prometheus.HistogramVec
	activeReaders prometheus.Gauge
	activeWriters prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		acquisitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rwlock_acquisitions_total",
			Help: "Number of completed read and write acquisitions.",
		}, []string{"op"}),
		wait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rwlock_wait_seconds",
			Help:    "Time spent blocked in ReadLock and WriteLock.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"op"}),
		activeReaders: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rwlock_active_readers",
			Help: "Readers currently holding read access.",
		}),
		activeWriters: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rwlock_active_writers",
			Help: "Writers currently waiting to write or writing.",
		}),
	}

	for _, c := range []prometheus.Collector{m.acquisitions, m.wait, m.activeReaders, m.activeWriters} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register rwlock metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) Observe(e rwlock.Event) {
	switch e.Kind {
	case rwlock.EventCounter:
		switch e.Op {
		case rwlock.OpReadLock:
			m.activeReaders.Inc()
		case rwlock.OpReadUnlock:
			m.activeReaders.Dec()
		case rwlock.OpWriteLock:
			m.activeWriters.Inc()
		case rwlock.OpWriteUnlock:
			m.activeWriters.Dec()
		}
	case rwlock.EventDone:
		if isAcquire(e.Op) {
			m.acquisitions.WithLabelValues(e.Op.String()).Inc()
			m.wait.WithLabelValues(e.Op.String()).Observe(e.Wait.Seconds())
		}
	}
}
