package relay

import "github.com/prometheus/client_golang/prometheus"

// Metrics tracks per-node relay endpoint activity. All methods are
// nil-safe so endpoints can run without observability wired.
type Metrics struct {
	messagesBuffered  prometheus.Counter
	messagesDelivered prometheus.Counter
	forwardErrors     prometheus.Counter
	pendingRequests   prometheus.Gauge
	pushesRequested   prometheus.Counter
	offlineChecks     prometheus.Counter
}

// NewMetrics registers the relay metrics on reg (default registerer
// when nil).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		messagesBuffered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wakerelay_relay_messages_buffered_total",
			Help: "Messages accepted on behalf of unreachable peers.",
		}),
		messagesDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wakerelay_relay_messages_delivered_total",
			Help: "Buffered messages handed over on polls.",
		}),
		forwardErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wakerelay_relay_forward_errors_total",
			Help: "Inbound messages rejected with a synthetic exception.",
		}),
		pendingRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wakerelay_relay_pending_requests",
			Help: "Outstanding push requests across all endpoints.",
		}),
		pushesRequested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wakerelay_relay_pushes_requested_total",
			Help: "Wake-up pushes handed to the push notifier.",
		}),
		offlineChecks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wakerelay_relay_offline_checks_total",
			Help: "Liveness evaluations that found a peer offline.",
		}),
	}

	reg.MustRegister(
		m.messagesBuffered,
		m.messagesDelivered,
		m.forwardErrors,
		m.pendingRequests,
		m.pushesRequested,
		m.offlineChecks,
	)
	return m
}

func (m *Metrics) RecordBuffered() {
	if m == nil {
		return
	}
	m.messagesBuffered.Inc()
}

func (m *Metrics) RecordDelivered(n int) {
	if m == nil {
		return
	}
	m.messagesDelivered.Add(float64(n))
}

func (m *Metrics) RecordForwardError() {
	if m == nil {
		return
	}
	m.forwardErrors.Inc()
}

func (m *Metrics) AddPendingRequests(delta int) {
	if m == nil {
		return
	}
	m.pendingRequests.Add(float64(delta))
}

func (m *Metrics) RecordPushRequested() {
	if m == nil {
		return
	}
	m.pushesRequested.Inc()
}

func (m *Metrics) RecordOfflineCheck() {
	if m == nil {
		return
	}
	m.offlineChecks.Inc()
}
