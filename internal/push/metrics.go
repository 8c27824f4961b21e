package push

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	delivered prometheus.Counter
	failures  prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wakerelay_push_delivered_total",
			Help: "Pushes acknowledged by a gateway.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wakerelay_push_failures_total",
			Help: "Pushes dropped, rejected, or failed in transit.",
		}),
	}

	reg.MustRegister(m.delivered, m.failures)
	return m
}

func (m *Metrics) RecordDelivered() {
	if m == nil {
		return
	}
	m.delivered.Inc()
}

func (m *Metrics) RecordFailure() {
	if m == nil {
		return
	}
	m.failures.Inc()
}
