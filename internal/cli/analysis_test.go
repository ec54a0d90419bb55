package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/report"
	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/testutil"
)

// cyclicYAML closes the settlement chain back onto identity.
const cyclicYAML = testutil.SettlementYAML + `  - from: settlement
    to: identity
`

func TestReadinessCommand_Text(t *testing.T) {
	out, _, err := execute(t, "readiness", writeSettlement(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Readiness: settlement-readiness")
	assert.Contains(t, out, "3 nodes, 2 edges")
	assert.Contains(t, out, "0.720000")
	assert.Contains(t, out, "0.606000")
	assert.Contains(t, out, "mean 0.742000")
}

func TestReadinessCommand_JSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "readiness", writeSettlement(t))
	require.NoError(t, err)

	var rep report.ReadinessReport
	resp := decodeData(t, out, &rep)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "settlement-readiness", rep.Graph)
	require.Len(t, rep.Rows, 3)
	assert.Equal(t, "identity", rep.Rows[0].Key)
	assert.InDelta(t, testutil.RiskReadiness, rep.Rows[1].Score, 1e-9)
	assert.InDelta(t, testutil.SettlementReadiness, rep.Rows[2].Score, 1e-9)
}

func TestReadinessCommand_SingleNode(t *testing.T) {
	path := writeSettlement(t)

	out, _, err := execute(t, "readiness", path, "Risk")
	require.NoError(t, err)
	assert.Equal(t, "risk 0.720000\n", out)

	out, _, err = execute(t, "--format", "json", "readiness", path, "settlement")
	require.NoError(t, err)
	var score NodeScore
	decodeData(t, out, &score)
	assert.Equal(t, NodeScore{Node: "settlement", Score: 0.606}, score)
}

func TestReadinessCommand_UnknownNode(t *testing.T) {
	out, _, err := execute(t, "readiness", writeSettlement(t), "ghost")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E301]")
}

func TestReadinessCommand_Cycle(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "cycle.yaml", cyclicYAML)

	out, _, err := execute(t, "--format", "json", "readiness", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeData(t, out, nil)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeCycle, resp.Error.Code)
}

func TestReadinessCommand_MissingDefinition(t *testing.T) {
	_, _, err := execute(t, "readiness", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load graph")
}

func TestReadinessCommand_BuildError(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "dangling.yaml", `
nodes:
  - {name: a, readiness: 0.5, resilience: 0.5, criticality: 0.5}
edges:
  - {from: a, to: ghost}
`)

	out, _, err := execute(t, "readiness", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E301]")
}

func TestOrderCommand(t *testing.T) {
	path := writeSettlement(t)

	out, _, err := execute(t, "order", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Topological order: settlement-readiness")
	assert.Contains(t, out, "1. identity (depth 0)")
	assert.Contains(t, out, "risk (depth 1)")
	assert.Contains(t, out, "settlement (depth 2)")

	out, _, err = execute(t, "--format", "json", "order", path)
	require.NoError(t, err)
	var rep report.OrderReport
	decodeData(t, out, &rep)
	assert.Equal(t, 2, rep.MaxDepth)
	require.Len(t, rep.Rows, 3)
	assert.Equal(t, "settlement", rep.Rows[2].Key)
}

func TestOrderCommand_Cycle(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "cycle.yaml", cyclicYAML)

	out, _, err := execute(t, "order", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E303]")
}

func TestPropagateCommand(t *testing.T) {
	path := writeSettlement(t)

	out, _, err := execute(t, "--format", "json", "propagate", path,
		"--origin", "Identity", "--amplitude", "0.9", "--urgency", "0.8", "--confidence", "0.75")
	require.NoError(t, err)

	var rep report.PropagationReport
	decodeData(t, out, &rep)
	assert.Equal(t, "identity", rep.Impulse.Origin)
	assert.Equal(t, DefaultAttenuation, rep.Attenuation)
	assert.Equal(t, DefaultMaxDepth, rep.MaxDepth)
	require.Len(t, rep.Rows, 3)
	assert.Equal(t, []string{"identity", "risk", "settlement"},
		[]string{rep.Rows[0].Key, rep.Rows[1].Key, rep.Rows[2].Key})
	assert.InDelta(t, 0.54, rep.Rows[0].Impact, 1e-9)
	assert.InDelta(t, 0.34992, rep.Rows[1].Impact, 1e-9)
	assert.InDelta(t, 0.149906, rep.Rows[2].Impact, 1e-9)
	assert.InDelta(t, 1.039826, rep.Total, 1e-9)
}

func TestPropagateCommand_Text(t *testing.T) {
	out, _, err := execute(t, "propagate", writeSettlement(t), "--origin", "risk", "--max-depth", "1", "--attenuation", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Propagation from risk")
	assert.Contains(t, out, "0.476000")
	assert.Contains(t, out, "total 1.476000")
}

func TestPropagateCommand_Errors(t *testing.T) {
	path := writeSettlement(t)

	tests := []struct {
		name     string
		args     []string
		wantCode string
		wantExit int
	}{
		{"zero attenuation", []string{"--origin", "identity", "--attenuation", "0"}, ErrCodeInvalidArgument, ExitCommandError},
		{"zero depth", []string{"--origin", "identity", "--max-depth", "0"}, ErrCodeInvalidArgument, ExitCommandError},
		{"unknown origin", []string{"--origin", "ghost"}, ErrCodeUnknownNode, ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"propagate", path}, tt.args...)
			out, _, err := execute(t, args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantExit, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.wantCode+"]")
		})
	}
}

func TestPropagateCommand_RequiresOrigin(t *testing.T) {
	_, _, err := execute(t, "propagate", writeSettlement(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "origin")
}

func TestMetricsFile(t *testing.T) {
	metricsPath := filepath.Join(t.TempDir(), "depgraph.prom")

	_, _, err := execute(t, "--metrics-file", metricsPath, "readiness", writeSettlement(t))
	require.NoError(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "depgraph_nodes 3")
	assert.Contains(t, text, "depgraph_edges 2")
	assert.Contains(t, text, `depgraph_readiness_score{node="settlement"}`)
	assert.Contains(t, text, `depgraph_operations_total{op="readiness_profile",result="ok"} 1`)
}

func TestVerboseLogsToStderr(t *testing.T) {
	out, errOut, err := execute(t, "--verbose", "--format", "json", "order", writeSettlement(t))
	require.NoError(t, err)

	decodeData(t, out, nil)
	assert.Contains(t, errOut, "graph built")
	assert.Contains(t, errOut, "nodes=3")
}
