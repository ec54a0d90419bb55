package graph

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Node is a component in the dependency graph.
//
// Readiness is the node's own baseline score. Resilience is the share of its
// score that comes from that baseline rather than from its dependencies.
// Criticality scales the penalty applied when dependencies are not ready.
//
// Tags and Metadata are carried for callers and never interpreted.
type Node struct {
	Name        string         `json:"name"`
	Key         string         `json:"key"`
	Readiness   float64        `json:"readiness"`
	Resilience  float64        `json:"resilience"`
	Criticality float64        `json:"criticality"`
	Tags        []string       `json:"tags,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// NewNode creates a normalized node. Scores are clamped to [0,1].
func NewNode(name string, readiness, resilience, criticality float64) Node {
	return Node{
		Name:        name,
		Readiness:   readiness,
		Resilience:  resilience,
		Criticality: criticality,
	}.normalize()
}

// WithTags returns a copy of n carrying tags.
func (n Node) WithTags(tags ...string) Node {
	n.Tags = append([]string(nil), tags...)
	return n
}

// WithMetadata returns a copy of n carrying a copy of metadata.
func (n Node) WithMetadata(metadata map[string]any) Node {
	n.Metadata = cloneMetadata(metadata)
	return n
}

// normalize trims the name, derives the key and clamps every score.
// Tags and metadata are copied so the result shares nothing with n.
func (n Node) normalize() Node {
	n.Name = strings.TrimSpace(n.Name)
	n.Key = NormalizeKey(n.Name)
	n.Readiness = Clamp01(n.Readiness)
	n.Resilience = Clamp01(n.Resilience)
	n.Criticality = Clamp01(n.Criticality)
	n.Tags = cloneTags(n.Tags)
	n.Metadata = cloneMetadata(n.Metadata)
	return n
}

// clone returns a deep-enough copy for value semantics at the API boundary.
func (n Node) clone() Node {
	n.Tags = cloneTags(n.Tags)
	n.Metadata = cloneMetadata(n.Metadata)
	return n
}

// Edge is a directed, weighted relationship from an upstream node to a
// downstream node. The downstream node depends on the upstream node.
type Edge struct {
	Upstream       string  `json:"upstream"`
	Downstream     string  `json:"downstream"`
	Weight         float64 `json:"weight"`
	Coupling       float64 `json:"coupling"`
	LatencyPenalty float64 `json:"latency_penalty"`
}

// NewEdge creates a normalized edge. Endpoint names are normalized to keys
// and the numeric fields are clamped to [0,1].
func NewEdge(upstream, downstream string, weight, coupling, latencyPenalty float64) Edge {
	return Edge{
		Upstream:       upstream,
		Downstream:     downstream,
		Weight:         weight,
		Coupling:       coupling,
		LatencyPenalty: latencyPenalty,
	}.normalize()
}

// Influence is the edge's effective transmission strength.
func (e Edge) Influence() float64 {
	return e.Weight * e.Coupling * (1 - e.LatencyPenalty)
}

func (e Edge) normalize() Edge {
	e.Upstream = NormalizeKey(e.Upstream)
	e.Downstream = NormalizeKey(e.Downstream)
	e.Weight = Clamp01(e.Weight)
	e.Coupling = Clamp01(e.Coupling)
	e.LatencyPenalty = Clamp01(e.LatencyPenalty)
	return e
}

// Impulse is a transient signal injected at one node for Propagate.
type Impulse struct {
	Origin     string  `json:"origin"`
	Amplitude  float64 `json:"amplitude"`
	Urgency    float64 `json:"urgency"`
	Confidence float64 `json:"confidence"`
}

// NewImpulse creates a normalized impulse.
func NewImpulse(origin string, amplitude, urgency, confidence float64) Impulse {
	return Impulse{
		Origin:     origin,
		Amplitude:  amplitude,
		Urgency:    urgency,
		Confidence: confidence,
	}.normalize()
}

// Intensity is the impulse magnitude before any decay.
func (i Impulse) Intensity() float64 {
	return i.Amplitude * i.Urgency * i.Confidence
}

func (i Impulse) normalize() Impulse {
	i.Origin = NormalizeKey(i.Origin)
	i.Amplitude = Clamp01(i.Amplitude)
	i.Urgency = Clamp01(i.Urgency)
	i.Confidence = Clamp01(i.Confidence)
	return i
}

// NormalizeKey maps a display name to its registry key: trimmed, NFC
// normalized and lower-cased. "Identity " and "identity" share a key.
func NormalizeKey(name string) string {
	trimmed := norm.NFC.String(strings.TrimSpace(name))
	// cases.Caser is stateful, so one per call.
	return cases.Lower(language.Und).String(trimmed)
}

// Clamp01 limits v to [0,1]. NaN clamps to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	return append([]string(nil), tags...)
}

func cloneMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return nil
	}
	out := make(map[string]any, len(metadata))
	for k, v := range metadata {
		out[k] = v
	}
	return out
}
