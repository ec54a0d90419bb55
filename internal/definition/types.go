package definition

import (
	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/graph"
)

// Default edge values applied when a definition omits them.
const (
	DefaultWeight   = 1.0
	DefaultCoupling = 1.0
)

// Format identifies the source syntax of a document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
	FormatHCL  Format = "hcl"
)

// Document is a graph definition as read from a file.
type Document struct {
	// Name labels the graph in reports and run history. Optional.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Nodes are registered in declaration order.
	Nodes []NodeDef `yaml:"nodes" json:"nodes"`

	// Edges are connected in declaration order after all nodes.
	Edges []EdgeDef `yaml:"edges,omitempty" json:"edges,omitempty"`

	// Source is the path the document was loaded from.
	Source string `yaml:"-" json:"-"`

	// Format is the syntax the document was loaded from.
	Format Format `yaml:"-" json:"-"`
}

// NodeDef declares a node.
type NodeDef struct {
	Name        string         `yaml:"name" json:"name"`
	Readiness   float64        `yaml:"readiness" json:"readiness"`
	Resilience  float64        `yaml:"resilience" json:"resilience"`
	Criticality float64        `yaml:"criticality" json:"criticality"`
	Tags        []string       `yaml:"tags,omitempty" json:"tags,omitempty"`
	Metadata    map[string]any `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// EdgeDef declares a directed edge. Weight and Coupling are pointers so an
// omitted value can default to 1.0 while an explicit 0 stays 0.
type EdgeDef struct {
	From           string   `yaml:"from" json:"from"`
	To             string   `yaml:"to" json:"to"`
	Weight         *float64 `yaml:"weight,omitempty" json:"weight,omitempty"`
	Coupling       *float64 `yaml:"coupling,omitempty" json:"coupling,omitempty"`
	LatencyPenalty float64  `yaml:"latency_penalty,omitempty" json:"latency_penalty,omitempty"`
}

// Node converts the declaration into a normalized graph node.
func (n NodeDef) Node() graph.Node {
	node := graph.NewNode(n.Name, n.Readiness, n.Resilience, n.Criticality)
	if len(n.Tags) > 0 {
		node = node.WithTags(n.Tags...)
	}
	if len(n.Metadata) > 0 {
		node = node.WithMetadata(n.Metadata)
	}
	return node
}

// Edge converts the declaration into a normalized graph edge, applying
// defaults for omitted weight and coupling.
func (e EdgeDef) Edge() graph.Edge {
	weight := DefaultWeight
	if e.Weight != nil {
		weight = *e.Weight
	}
	coupling := DefaultCoupling
	if e.Coupling != nil {
		coupling = *e.Coupling
	}
	return graph.NewEdge(e.From, e.To, weight, coupling, e.LatencyPenalty)
}

// Float returns a pointer to v, for building EdgeDef literals.
func Float(v float64) *float64 {
	return &v
}
