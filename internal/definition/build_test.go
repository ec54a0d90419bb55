package definition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/graph"
	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/testutil"
)

// A built settlement document scores exactly like the hand-built engine.
func TestBuild_Settlement(t *testing.T) {
	doc, err := ParseYAML([]byte(testutil.SettlementYAML))
	require.NoError(t, err)

	e, err := Build(doc)
	require.NoError(t, err)

	assert.Equal(t, 3, e.Len())
	assert.Equal(t, 2, e.EdgeCount())

	profile, err := e.ReadinessProfile()
	require.NoError(t, err)
	assert.InDelta(t, testutil.IdentityReadiness, profile["identity"], 1e-12)
	assert.InDelta(t, testutil.RiskReadiness, profile["risk"], 1e-12)
	assert.InDelta(t, testutil.SettlementReadiness, profile["settlement"], 1e-12)

	identity, err := e.GetNode("identity")
	require.NoError(t, err)
	assert.Equal(t, []string{"core"}, identity.Tags)
	assert.Equal(t, "platform", identity.Metadata["owner"])
}

func TestBuild_AppliesEdgeDefaults(t *testing.T) {
	doc := &Document{
		Nodes: []NodeDef{{Name: "a"}, {Name: "b"}},
		Edges: []EdgeDef{{From: "a", To: "b"}},
	}

	e, err := Build(doc)
	require.NoError(t, err)

	deps := e.DependenciesOf("b")
	require.Len(t, deps, 1)
	assert.Equal(t, 1.0, deps[0].Weight)
	assert.Equal(t, 1.0, deps[0].Coupling)
	assert.Zero(t, deps[0].LatencyPenalty)
}

// Build stops at the first bad edge and returns the engine built so far.
func TestBuild_UnknownEndpoint(t *testing.T) {
	doc := &Document{
		Name:  "broken",
		Nodes: []NodeDef{{Name: "a"}, {Name: "b"}},
		Edges: []EdgeDef{{From: "a", To: "b"}, {From: "b", To: "ghost"}, {From: "b", To: "a"}},
	}

	e, err := Build(doc)
	require.Error(t, err)

	assert.True(t, graph.IsUnknownNodeError(err))
	assert.Contains(t, err.Error(), "broken")
	require.NotNil(t, e)
	assert.Equal(t, 1, e.EdgeCount())
}

func TestLoadAndBuild(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "settlement.yaml", testutil.SettlementYAML)

	doc, e, err := LoadAndBuild(path)
	require.NoError(t, err)

	assert.Equal(t, "settlement-readiness", doc.Name)
	assert.True(t, e.HasNode("settlement"))
}

// Declaration order, name casing and spelled-out defaults leave the
// fingerprint unchanged.
func TestFingerprint_Canonical(t *testing.T) {
	a := &Document{
		Name:  "one",
		Nodes: []NodeDef{{Name: "A", Readiness: 0.5}, {Name: "B", Readiness: 0.25}},
		Edges: []EdgeDef{{From: "a", To: "b"}},
	}
	b := &Document{
		Name:  "two",
		Nodes: []NodeDef{{Name: " b", Readiness: 0.25, Tags: []string{"x"}}, {Name: "a", Readiness: 0.5}},
		Edges: []EdgeDef{{From: "A", To: "B", Weight: Float(1), Coupling: Float(1)}},
	}

	fp := Fingerprint(a)
	assert.Len(t, fp, 64)
	assert.Equal(t, fp, Fingerprint(b))
}

func TestFingerprint_DetectsChanges(t *testing.T) {
	base := &Document{
		Nodes: []NodeDef{{Name: "a", Readiness: 0.5}, {Name: "b"}},
		Edges: []EdgeDef{{From: "a", To: "b"}},
	}
	score := &Document{
		Nodes: []NodeDef{{Name: "a", Readiness: 0.6}, {Name: "b"}},
		Edges: []EdgeDef{{From: "a", To: "b"}},
	}
	direction := &Document{
		Nodes: []NodeDef{{Name: "a", Readiness: 0.5}, {Name: "b"}},
		Edges: []EdgeDef{{From: "b", To: "a"}},
	}

	assert.NotEqual(t, Fingerprint(base), Fingerprint(score))
	assert.NotEqual(t, Fingerprint(base), Fingerprint(direction))
}
