package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type routerMetrics struct {
	activeSessions   prometheus.Gauge
	sessionTotal     prometheus.Counter
	rpcErrors        *prometheus.CounterVec
	rpcLatency       *prometheus.HistogramVec
	offlineEvictions prometheus.Counter
	neighborsTracked prometheus.Gauge
}

func newRouterMetrics(reg prometheus.Registerer) *routerMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &routerMetrics{
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wakerelay_sessions_active",
			Help: "Current number of relayed peers.",
		}),
		sessionTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wakerelay_sessions_total",
			Help: "Total number of relay sessions handled since start.",
		}),
		rpcErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wakerelay_router_errors_total",
			Help: "RelayRouter request validation or routing errors.",
		}, []string{"code"}),
		rpcLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wakerelay_router_latency_seconds",
			Help:    "Latency for handling RelayRouter requests.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"op"}),
		offlineEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wakerelay_sessions_evicted_total",
			Help: "Relay sessions evicted after the peer went offline.",
		}),
		neighborsTracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wakerelay_neighbors_tracked",
			Help: "Overlay neighbors currently known to this relay.",
		}),
	}

	reg.MustRegister(
		m.activeSessions,
		m.sessionTotal,
		m.rpcErrors,
		m.rpcLatency,
		m.offlineEvictions,
		m.neighborsTracked,
	)
	return m
}

func (m *routerMetrics) incSession() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
	m.sessionTotal.Inc()
}

func (m *routerMetrics) decSession() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}

func (m *routerMetrics) recordError(code string) {
	if m == nil {
		return
	}
	m.rpcErrors.WithLabelValues(code).Inc()
}

func (m *routerMetrics) observeLatency(op string, dur time.Duration) {
	if m == nil || op == "" {
		return
	}
	m.rpcLatency.WithLabelValues(op).Observe(dur.Seconds())
}

func (m *routerMetrics) recordEviction() {
	if m == nil {
		return
	}
	m.offlineEvictions.Inc()
}

func (m *routerMetrics) setNeighbors(n int) {
	if m == nil {
		return
	}
	m.neighborsTracked.Set(float64(n))
}
