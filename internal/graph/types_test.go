package graph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp01(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"inside", 0.42, 0.42},
		{"zero", 0, 0},
		{"one", 1, 1},
		{"negative", -0.3, 0},
		{"above one", 1.7, 1},
		{"nan", math.NaN(), 0},
		{"positive infinity", math.Inf(1), 1},
		{"negative infinity", math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clamp01(tt.in))
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "identity", NormalizeKey("  Identity "))
	assert.Equal(t, "risk engine", NormalizeKey("RISK Engine"))
	assert.Equal(t, "", NormalizeKey("   "))

	// Decomposed "é" (e + combining acute) matches the precomposed form.
	assert.Equal(t, NormalizeKey("caf\u00e9"), NormalizeKey("cafe\u0301"))
}

func TestNewNode_Normalizes(t *testing.T) {
	n := NewNode("  Settlement  ", 1.5, -0.2, 0.9)

	assert.Equal(t, "Settlement", n.Name)
	assert.Equal(t, "settlement", n.Key)
	assert.Equal(t, 1.0, n.Readiness)
	assert.Equal(t, 0.0, n.Resilience)
	assert.Equal(t, 0.9, n.Criticality)
}

// TestNode_WithTagsCopies verifies tag and metadata helpers do not alias
// the caller's slices and maps.
func TestNode_WithTagsCopies(t *testing.T) {
	tags := []string{"core"}
	meta := map[string]any{"owner": "platform"}

	n := NewNode("identity", 0.9, 0.7, 0.8).WithTags(tags...).WithMetadata(meta)
	tags[0] = "mutated"
	meta["owner"] = "mutated"

	assert.Equal(t, []string{"core"}, n.Tags)
	assert.Equal(t, "platform", n.Metadata["owner"])
}

func TestEdge_Influence(t *testing.T) {
	e := NewEdge("Risk", "Settlement", 0.85, 0.7, 0.2)

	assert.Equal(t, "risk", e.Upstream)
	assert.Equal(t, "settlement", e.Downstream)
	assert.InDelta(t, 0.476, e.Influence(), 1e-12)
}

func TestEdge_InfluenceClamped(t *testing.T) {
	e := NewEdge("a", "b", 2, 3, -1)
	assert.Equal(t, 1.0, e.Influence())

	e = NewEdge("a", "b", 1, 1, 5)
	assert.Equal(t, 0.0, e.Influence())
}

func TestImpulse_Intensity(t *testing.T) {
	imp := NewImpulse("Identity", 0.9, 0.8, 0.75)

	assert.Equal(t, "identity", imp.Origin)
	assert.InDelta(t, 0.54, imp.Intensity(), 1e-12)
}
