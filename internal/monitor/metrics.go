package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Operation results recorded in depgraph_operations_total.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds the collectors for one guarded engine. Collectors live on
// their own registry so several engines can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	nodes      prometheus.Gauge
	edges      prometheus.Gauge
	readiness  *prometheus.GaugeVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		// operations counts engine calls by outcome. result is "ok" or the
		// graph error code.
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depgraph_operations_total",
				Help: "Total number of engine operations by result",
			},
			[]string{"op", "result"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "depgraph_operation_duration_seconds",
				Help:    "Engine operation latency",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{"op"},
		),

		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "depgraph_nodes",
			Help: "Registered nodes",
		}),

		edges: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "depgraph_edges",
			Help: "Registered edges",
		}),

		// readiness is refreshed by every successful ReadinessProfile.
		readiness: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "depgraph_readiness_score",
				Help: "Last computed readiness score per node",
			},
			[]string{"node"},
		),
	}

	m.registry.MustRegister(m.operations, m.duration, m.nodes, m.edges, m.readiness)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes every collector to path in the Prometheus text
// exposition format, for node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) observe(op, result string, seconds float64) {
	m.operations.WithLabelValues(op, result).Inc()
	m.duration.WithLabelValues(op).Observe(seconds)
}

func (m *Metrics) setSize(nodes, edges int) {
	m.nodes.Set(float64(nodes))
	m.edges.Set(float64(edges))
}

func (m *Metrics) setProfile(profile map[string]float64) {
	m.readiness.Reset()
	for key, score := range profile {
		m.readiness.WithLabelValues(key).Set(score)
	}
}

func (m *Metrics) forgetNode(key string) {
	m.readiness.DeleteLabelValues(key)
}
