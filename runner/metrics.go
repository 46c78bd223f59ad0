// FILE: mylog/runner/metrics.go
package runner

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics counts runner activity. A nil *metrics records nothing.
type metrics struct {
	commands prometheus.Counter
	failures prometheus.Counter
	retries  prometheus.Counter
	timeouts prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		commands: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mylog",
			Subsystem: "runner",
			Name:      "commands_total",
			Help:      "Total commands run.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mylog",
			Subsystem: "runner",
			Name:      "failures_total",
			Help:      "Commands that ended in failure.",
		}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mylog",
			Subsystem: "runner",
			Name:      "retries_total",
			Help:      "Repeated attempts after a failed one.",
		}),
		timeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mylog",
			Subsystem: "runner",
			Name:      "timeouts_total",
			Help:      "Commands killed at their deadline.",
		}),
	}
	reg.MustRegister(m.commands, m.failures, m.retries, m.timeouts)
	return m
}

func (m *metrics) command() {
	if m != nil {
		m.commands.Inc()
	}
}

func (m *metrics) failure() {
	if m != nil {
		m.failures.Inc()
	}
}

func (m *metrics) retry() {
	if m != nil {
		m.retries.Inc()
	}
}

func (m *metrics) timeout() {
	if m != nil {
		m.timeouts.Inc()
	}
}
