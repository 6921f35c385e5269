package transition

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Wait outcomes recorded by Metrics.
const (
	WaitResolved  = "resolved"
	WaitTimedOut  = "timeout"
	WaitCancelled = "cancelled"
)

// Metrics exposes handler activity as Prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	events   *prometheus.CounterVec
	rejected *prometheus.CounterVec
	waits    *prometheus.CounterVec
	inFlight *prometheus.GaugeVec
}

// NewMetrics registers the transition collectors on reg.
// A nil reg falls back to prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transition",
			Name:      "events_total",
			Help:      "Total number of published transition events by handler and event",
		}, []string{"handler", "event"}),
		rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transition",
			Name:      "rejections_total",
			Help:      "Total number of operations refused because of the current state",
		}, []string{"handler", "op"}),
		waits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transition",
			Name:      "waits_total",
			Help:      "Total number of settled waits by handler and outcome",
		}, []string{"handler", "outcome"}),
		inFlight: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "transition",
			Name:      "in_flight",
			Help:      "1 while the handler has a transition in its grace period, 0 otherwise",
		}, []string{"handler"}),
	}
}

func (m *Metrics) observeEvent(handler string, event Event) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(handler, string(event)).Inc()
}

func (m *Metrics) observeRejected(handler, op string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(handler, op).Inc()
}

func (m *Metrics) observeWait(handler, outcome string) {
	if m == nil {
		return
	}
	m.waits.WithLabelValues(handler, outcome).Inc()
}

func (m *Metrics) setInFlight(handler string, inFlight bool) {
	if m == nil {
		return
	}
	v := 0.0
	if inFlight {
		v = 1
	}
	m.inFlight.WithLabelValues(handler).Set(v)
}
