package definition

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/testutil"
)

const settlementCUE = `package graphs

name: "settlement-readiness"
nodes: [
	{name: "Identity", readiness: 0.9, resilience: 0.7, criticality: 0.8, tags: ["core"], metadata: {owner: "platform"}},
	{name: "Risk", readiness: 0.6, resilience: 0.5, criticality: 0.6},
	{name: "Settlement", readiness: 0.75, resilience: 0.4, criticality: 0.9},
]
edges: [
	{from: "identity", to: "risk", weight: 0.9, coupling: 0.8},
	{from: "risk", to: "settlement", weight: 0.85, coupling: 0.7, latency_penalty: 0.2},
]
`

const settlementHCL = `name = "settlement-readiness"

node "Identity" {
  readiness   = 0.9
  resilience  = 0.7
  criticality = 0.8
  tags        = ["core"]
  metadata    = { owner = "platform" }
}

node "Risk" {
  readiness   = 0.6
  resilience  = 0.5
  criticality = 0.6
}

node "Settlement" {
  readiness   = 0.75
  resilience  = 0.4
  criticality = 0.9
}

edge "identity" "risk" {
  weight   = 0.9
  coupling = 0.8
}

edge "risk" "settlement" {
  weight          = 0.85
  coupling        = 0.7
  latency_penalty = 0.2
}
`

// requireSettlement checks the decoded settlement document field by field.
func requireSettlement(t *testing.T, doc *Document) {
	t.Helper()

	require.Equal(t, "settlement-readiness", doc.Name)
	require.Len(t, doc.Nodes, 3)
	require.Len(t, doc.Edges, 2)

	assert.Equal(t, "Identity", doc.Nodes[0].Name)
	assert.Equal(t, 0.9, doc.Nodes[0].Readiness)
	assert.Equal(t, 0.7, doc.Nodes[0].Resilience)
	assert.Equal(t, 0.8, doc.Nodes[0].Criticality)
	assert.Equal(t, []string{"core"}, doc.Nodes[0].Tags)
	assert.Equal(t, "platform", doc.Nodes[0].Metadata["owner"])
	assert.Equal(t, "Settlement", doc.Nodes[2].Name)

	first := doc.Edges[0]
	assert.Equal(t, "identity", first.From)
	assert.Equal(t, "risk", first.To)
	require.NotNil(t, first.Weight)
	assert.Equal(t, 0.9, *first.Weight)
	assert.Zero(t, first.LatencyPenalty)
	assert.Equal(t, 0.2, doc.Edges[1].LatencyPenalty)
}

// The three formats describe the same graph and fingerprint identically.
func TestLoad_AllFormatsAgree(t *testing.T) {
	dir := t.TempDir()
	paths := map[Format]string{
		FormatYAML: testutil.WriteFile(t, dir, "settlement.yaml", testutil.SettlementYAML),
		FormatCUE:  testutil.WriteFile(t, dir, "settlement.cue", settlementCUE),
		FormatHCL:  testutil.WriteFile(t, dir, "settlement.hcl", settlementHCL),
	}

	var fingerprints []string
	for format, path := range paths {
		doc, err := Load(path)
		require.NoError(t, err, format)
		assert.Equal(t, format, doc.Format)
		assert.Equal(t, path, doc.Source)
		requireSettlement(t, doc)
		fingerprints = append(fingerprints, Fingerprint(doc))
	}

	assert.Equal(t, fingerprints[0], fingerprints[1])
	assert.Equal(t, fingerprints[1], fingerprints[2])
}

func TestLoad_YMLExtension(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "graph.yml", testutil.SettlementYAML)

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, doc.Format)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load("/nonexistent/graph.yaml")

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeNotFound, le.Code)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "graph.json", `{"nodes": []}`)

	_, err := Load(path)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeUnsupported, le.Code)
	assert.Contains(t, le.Error(), ".json")
}

// A directory loads as one CUE package spread over several files.
func TestLoad_CUEDirectory(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "nodes.cue", `package graphs

name: "split"
nodes: [
	{name: "A", readiness: 0.5, resilience: 0.5, criticality: 0.5},
	{name: "B", readiness: 0.4, resilience: 0.5, criticality: 0.5},
]
`)
	testutil.WriteFile(t, dir, "edges.cue", `package graphs

edges: [{from: "a", to: "b"}]
`)

	doc, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "split", doc.Name)
	assert.Len(t, doc.Nodes, 2)
	require.Len(t, doc.Edges, 1)
	assert.Nil(t, doc.Edges[0].Weight, "omitted weight stays unset until built")
}

func TestLoad_CUEDirectoryEmpty(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "notes.txt", "not a definition")

	_, err := LoadCUE(dir)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeNoFiles, le.Code)
}

func TestLoadError_Format(t *testing.T) {
	cause := errors.New("boom")
	positioned := &LoadError{Code: ErrCodeParseFailed, Message: "bad token", File: "g.cue", Line: 3, Column: 7, Err: cause}
	fileOnly := &LoadError{Code: ErrCodeNotFound, Message: "missing", File: "g.yaml"}
	bare := &LoadError{Code: ErrCodeGeneric, Message: "oops"}

	assert.Equal(t, "g.cue:3:7: E004: bad token", positioned.Error())
	assert.Equal(t, "g.yaml: E002: missing", fileOnly.Error())
	assert.Equal(t, "E001: oops", bare.Error())
	assert.ErrorIs(t, positioned, cause)
}
