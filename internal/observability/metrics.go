// Package observability exposes prometheus collectors for the routing path.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks routing throughput and latency.
type Metrics struct {
	routed   *prometheus.CounterVec
	noRoute  prometheus.Counter
	duration prometheus.Histogram
}

// New registers the routing collectors on reg and returns the handle the
// engine reports into. A nil Registerer leaves the collectors unregistered,
// which is convenient in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		routed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "espalier",
			Name:      "orders_routed_total",
			Help:      "Orders routed, by selected venue.",
		}, []string{"venue"}),
		noRoute: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "espalier",
			Name:      "orders_unrouted_total",
			Help:      "Orders for which no venue was applicable.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "espalier",
			Name:      "routing_duration_seconds",
			Help:      "Time spent resolving one routing decision.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.routed, m.noRoute, m.duration)
	}
	return m
}

// ObserveDecision records one routing decision.
func (m *Metrics) ObserveDecision(venue string, routed bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	if routed {
		m.routed.WithLabelValues(venue).Inc()
	} else {
		m.noRoute.Inc()
	}
	m.duration.Observe(elapsed.Seconds())
}
