// Package monitor wraps a graph engine for concurrent use and records
// Prometheus metrics and debug logs for every operation.
//
// graph.Engine itself is single-writer; Guard serializes mutations behind a
// write lock and lets analytics share a read lock.
package monitor

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/graph"
)

// Option configures a Guard.
type Option func(*Guard)

// WithLogger sets the logger used for operation failures. Defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithMetrics records into m instead of a fresh Metrics.
func WithMetrics(m *Metrics) Option {
	return func(g *Guard) {
		if m != nil {
			g.metrics = m
		}
	}
}

// Guard is a concurrency-safe, instrumented graph engine.
type Guard struct {
	mu      sync.RWMutex
	engine  *graph.Engine
	metrics *Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewGuard wraps engine. A nil engine starts empty.
func NewGuard(engine *graph.Engine, opts ...Option) *Guard {
	if engine == nil {
		engine = graph.New()
	}
	g := &Guard{
		engine: engine,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.metrics == nil {
		g.metrics = NewMetrics()
	}
	g.metrics.setSize(engine.Len(), engine.EdgeCount())
	return g
}

// Metrics returns the collectors this guard records into.
func (g *Guard) Metrics() *Metrics {
	return g.metrics
}

// record finishes one operation. Callers hold a lock.
func (g *Guard) record(op string, start time.Time, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
		if code := graph.CodeOf(err); code != "" {
			result = string(code)
		}
		g.logger.Debug("graph operation failed",
			"op", op,
			"code", result,
			"error", err,
		)
	}
	g.metrics.observe(op, result, g.now().Sub(start).Seconds())
}

// resized refreshes the size gauges. Callers hold the write lock.
func (g *Guard) resized() {
	g.metrics.setSize(g.engine.Len(), g.engine.EdgeCount())
}

func (g *Guard) RegisterNode(node graph.Node) graph.Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	start := g.now()

	n := g.engine.RegisterNode(node)
	g.resized()
	g.record("register_node", start, nil)
	return n
}

func (g *Guard) RegisterNodes(nodes []graph.Node) {
	g.mu.Lock()
	defer g.mu.Unlock()
	start := g.now()

	g.engine.RegisterNodes(nodes)
	g.resized()
	g.record("register_nodes", start, nil)
}

func (g *Guard) Connect(edge graph.Edge) (graph.Edge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	start := g.now()

	e, err := g.engine.Connect(edge)
	g.resized()
	g.record("connect", start, err)
	return e, err
}

func (g *Guard) ConnectMany(edges []graph.Edge) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	start := g.now()

	err := g.engine.ConnectMany(edges)
	g.resized()
	g.record("connect_many", start, err)
	return err
}

func (g *Guard) Disconnect(upstreamKey, downstreamKey string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	start := g.now()

	g.engine.Disconnect(upstreamKey, downstreamKey)
	g.resized()
	g.record("disconnect", start, nil)
}

// RemoveNode removes a node and its edges, and drops its readiness gauge.
func (g *Guard) RemoveNode(key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	start := g.now()

	err := g.engine.RemoveNode(key)
	if err == nil {
		g.metrics.forgetNode(graph.NormalizeKey(key))
	}
	g.resized()
	g.record("remove_node", start, err)
	return err
}

func (g *Guard) GetNode(key string) (graph.Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.engine.GetNode(key)
}

func (g *Guard) HasNode(key string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.engine.HasNode(key)
}

func (g *Guard) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.engine.Len()
}

func (g *Guard) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.engine.EdgeCount()
}

func (g *Guard) Nodes() []graph.Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.engine.Nodes()
}

func (g *Guard) Edges() []graph.Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.engine.Edges()
}

func (g *Guard) DependenciesOf(key string) []graph.Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.engine.DependenciesOf(key)
}

func (g *Guard) DependentsOf(key string) []graph.Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.engine.DependentsOf(key)
}

func (g *Guard) Readiness(key string) (float64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	start := g.now()

	score, err := g.engine.Readiness(key)
	g.record("readiness", start, err)
	return score, err
}

// ReadinessProfile scores every node and publishes the scores as gauges.
func (g *Guard) ReadinessProfile() (map[string]float64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	start := g.now()

	profile, err := g.engine.ReadinessProfile()
	if err == nil {
		g.metrics.setProfile(profile)
	}
	g.record("readiness_profile", start, err)
	return profile, err
}

func (g *Guard) TopologicalOrder() ([]graph.Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	start := g.now()

	order, err := g.engine.TopologicalOrder()
	g.record("topological_order", start, err)
	return order, err
}

func (g *Guard) Propagate(impulse graph.Impulse, attenuation float64, maxDepth int) (map[string]float64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	start := g.now()

	impact, err := g.engine.Propagate(impulse, attenuation, maxDepth)
	g.record("propagate", start, err)
	return impact, err
}
