// Package report turns engine analytics into ordered, rounded report values
// and renders them as text or JSON.
package report

import (
	"math"
	"sort"

	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/graph"
)

// Analyzer is the read side of a dependency graph. *graph.Engine and
// *monitor.Guard both satisfy it.
type Analyzer interface {
	Len() int
	EdgeCount() int
	Nodes() []graph.Node
	DependenciesOf(key string) []graph.Edge
	DependentsOf(key string) []graph.Edge
	ReadinessProfile() (map[string]float64, error)
	TopologicalOrder() ([]graph.Node, error)
	Propagate(impulse graph.Impulse, attenuation float64, maxDepth int) (map[string]float64, error)
}

// Round6 rounds v to six decimal places.
func Round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// ReadinessRow is one node's line in a readiness report.
type ReadinessRow struct {
	Key          string  `json:"key"`
	Name         string  `json:"name"`
	Score        float64 `json:"score"`
	Intrinsic    float64 `json:"intrinsic"`
	Dependencies int     `json:"dependencies"`
	Dependents   int     `json:"dependents"`
}

// ReadinessSummary aggregates a readiness report.
type ReadinessSummary struct {
	Mean     float64 `json:"mean"`
	MinKey   string  `json:"min_key,omitempty"`
	MinScore float64 `json:"min_score"`
	MaxKey   string  `json:"max_key,omitempty"`
	MaxScore float64 `json:"max_score"`
}

// ReadinessReport is the readiness of every node.
type ReadinessReport struct {
	Graph   string           `json:"graph,omitempty"`
	Nodes   int              `json:"nodes"`
	Edges   int              `json:"edges"`
	Rows    []ReadinessRow   `json:"rows"`
	Summary ReadinessSummary `json:"summary"`
}

// Readiness builds a readiness report. Rows follow topological order, so
// every node appears after the nodes it depends on.
func Readiness(g Analyzer) (*ReadinessReport, error) {
	profile, err := g.ReadinessProfile()
	if err != nil {
		return nil, err
	}
	// An acyclic profile guarantees an order exists.
	ordered, err := g.TopologicalOrder()
	if err != nil {
		ordered = g.Nodes()
	}

	rep := &ReadinessReport{
		Nodes: g.Len(),
		Edges: g.EdgeCount(),
		Rows:  make([]ReadinessRow, 0, len(ordered)),
	}

	var sum float64
	for i, n := range ordered {
		score := profile[n.Key]
		sum += score
		rep.Rows = append(rep.Rows, ReadinessRow{
			Key:          n.Key,
			Name:         n.Name,
			Score:        Round6(score),
			Intrinsic:    Round6(n.Readiness),
			Dependencies: len(g.DependenciesOf(n.Key)),
			Dependents:   len(g.DependentsOf(n.Key)),
		})
		if i == 0 || score < rep.Summary.MinScore {
			rep.Summary.MinKey, rep.Summary.MinScore = n.Key, score
		}
		if i == 0 || score > rep.Summary.MaxScore {
			rep.Summary.MaxKey, rep.Summary.MaxScore = n.Key, score
		}
	}
	if len(ordered) > 0 {
		rep.Summary.Mean = Round6(sum / float64(len(ordered)))
	}
	rep.Summary.MinScore = Round6(rep.Summary.MinScore)
	rep.Summary.MaxScore = Round6(rep.Summary.MaxScore)

	return rep, nil
}

// OrderRow is one position in a topological order. Depth is the length of
// the longest dependency chain ending at the node; sources have depth 0.
type OrderRow struct {
	Position int    `json:"position"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Depth    int    `json:"depth"`
}

// OrderReport is a topological order with depth levels.
type OrderReport struct {
	Graph    string     `json:"graph,omitempty"`
	Rows     []OrderRow `json:"rows"`
	MaxDepth int        `json:"max_depth"`
}

// Order builds a topological order report.
func Order(g Analyzer) (*OrderReport, error) {
	ordered, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	depth := make(map[string]int, len(ordered))
	rep := &OrderReport{Rows: make([]OrderRow, 0, len(ordered))}
	for i, n := range ordered {
		d := 0
		for _, dep := range g.DependenciesOf(n.Key) {
			if up := depth[dep.Upstream] + 1; up > d {
				d = up
			}
		}
		depth[n.Key] = d
		if d > rep.MaxDepth {
			rep.MaxDepth = d
		}
		rep.Rows = append(rep.Rows, OrderRow{Position: i + 1, Key: n.Key, Name: n.Name, Depth: d})
	}
	return rep, nil
}

// ImpactRow is one node's accumulated impulse.
type ImpactRow struct {
	Key    string  `json:"key"`
	Name   string  `json:"name"`
	Impact float64 `json:"impact"`
}

// PropagationReport is the result of one impulse propagation.
type PropagationReport struct {
	Graph       string        `json:"graph,omitempty"`
	Impulse     graph.Impulse `json:"impulse"`
	Attenuation float64       `json:"attenuation"`
	MaxDepth    int           `json:"max_depth"`
	Rows        []ImpactRow   `json:"rows"`
	Total       float64       `json:"total"`
}

// Propagation runs Propagate and reports the impacts, largest first. Ties
// are broken by key.
func Propagation(g Analyzer, impulse graph.Impulse, attenuation float64, maxDepth int) (*PropagationReport, error) {
	impacts, err := g.Propagate(impulse, attenuation, maxDepth)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(impacts))
	for _, n := range g.Nodes() {
		names[n.Key] = n.Name
	}

	rep := &PropagationReport{
		Impulse:     normalizedImpulse(impulse),
		Attenuation: attenuation,
		MaxDepth:    maxDepth,
		Rows:        make([]ImpactRow, 0, len(impacts)),
	}
	var total float64
	for key, v := range impacts {
		total += v
		rep.Rows = append(rep.Rows, ImpactRow{Key: key, Name: names[key], Impact: v})
	}
	sort.Slice(rep.Rows, func(i, j int) bool {
		if rep.Rows[i].Impact != rep.Rows[j].Impact {
			return rep.Rows[i].Impact > rep.Rows[j].Impact
		}
		return rep.Rows[i].Key < rep.Rows[j].Key
	})
	for i := range rep.Rows {
		rep.Rows[i].Impact = Round6(rep.Rows[i].Impact)
	}
	rep.Total = Round6(total)
	return rep, nil
}

func normalizedImpulse(i graph.Impulse) graph.Impulse {
	return graph.NewImpulse(i.Origin, i.Amplitude, i.Urgency, i.Confidence)
}
