package resolver

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the counter and histogram a caller can register against its own
// prometheus.Registry; the resolver never registers against the global
// default registry, so an embedding program controls whether and where
// these are exposed.
type Metrics struct {
	resolveTotal    *prometheus.CounterVec
	resolveDuration prometheus.Histogram
}

// NewMetrics constructs and registers resengine_resolve_total{outcome} and
// resengine_resolve_duration_seconds against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		resolveTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resengine_resolve_total",
			Help: "Total number of Resolve calls by outcome.",
		}, []string{"outcome"}),
		resolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "resengine_resolve_duration_seconds",
			Help:    "Resolve call latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.resolveTotal, m.resolveDuration)
	return m
}

func (m *Metrics) observe(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.resolveTotal.WithLabelValues(outcome).Inc()
	m.resolveDuration.Observe(seconds)
}
