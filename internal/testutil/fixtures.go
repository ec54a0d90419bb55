package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/graph"
)

// Settlement chain scores, identity → risk → settlement.
const (
	IdentityReadiness   = 0.9
	RiskReadiness       = 0.72
	SettlementReadiness = 0.606
)

// SettlementYAML is the settlement chain as a YAML graph definition.
const SettlementYAML = `name: settlement-readiness
nodes:
  - name: Identity
    readiness: 0.9
    resilience: 0.7
    criticality: 0.8
    tags: [core]
    metadata:
      owner: platform
  - name: Risk
    readiness: 0.6
    resilience: 0.5
    criticality: 0.6
  - name: Settlement
    readiness: 0.75
    resilience: 0.4
    criticality: 0.9
edges:
  - from: identity
    to: risk
    weight: 0.9
    coupling: 0.8
  - from: risk
    to: settlement
    weight: 0.85
    coupling: 0.7
    latency_penalty: 0.2
`

// SettlementNodes returns the identity, risk and settlement nodes.
func SettlementNodes() []graph.Node {
	return []graph.Node{
		graph.NewNode("Identity", 0.9, 0.7, 0.8),
		graph.NewNode("Risk", 0.6, 0.5, 0.6),
		graph.NewNode("Settlement", 0.75, 0.4, 0.9),
	}
}

// SettlementEdges returns identity → risk and risk → settlement.
func SettlementEdges() []graph.Edge {
	return []graph.Edge{
		graph.NewEdge("identity", "risk", 0.9, 0.8, 0),
		graph.NewEdge("risk", "settlement", 0.85, 0.7, 0.2),
	}
}

// SettlementEngine builds a fresh engine holding the settlement chain.
func SettlementEngine(t testing.TB) *graph.Engine {
	t.Helper()

	e := graph.New()
	e.RegisterNodes(SettlementNodes())
	require.NoError(t, e.ConnectMany(SettlementEdges()))
	return e
}

// WriteFile writes content to dir/name, creating parent directories, and
// returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
