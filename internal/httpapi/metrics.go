package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the server's Prometheus collectors.
type Metrics struct {
	queriesTotal  *prometheus.CounterVec
	modelCalls    prometheus.Counter
	queryDuration prometheus.Histogram
}

// NewMetrics creates and registers the collectors on reg. A nil reg
// uses the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		queriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "yatra",
			Name:      "queries_total",
			Help:      "Processed queries by classified intent.",
		}, []string{"intent"}),
		modelCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "yatra",
			Name:      "model_calls_total",
			Help:      "Queries answered by the hosted model.",
		}),
		queryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "yatra",
			Name:      "query_duration_seconds",
			Help:      "End-to-end query pipeline latency.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
	}
	reg.MustRegister(m.queriesTotal, m.modelCalls, m.queryDuration)
	return m
}
