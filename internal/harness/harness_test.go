package harness

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadInline(t *testing.T, body string) *Scenario {
	t.Helper()
	scenario, err := LoadScenario(writeScenario(t, body))
	require.NoError(t, err)
	return scenario
}

func TestRun_ReadinessPass(t *testing.T) {
	scenario := loadInline(t, `
name: readiness
description: "Settlement chain readiness"
graph: graphs/settlement.yaml
checks:
  - readiness: {node: settlement, expect: 0.606}
  - profile:
      expect: {risk: 0.72}
`)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Trace, 2)
	assert.Equal(t, int64(1), result.Trace[0].Seq)
	assert.Equal(t, EventCheck, result.Trace[0].Kind)
	assert.Equal(t, map[string]float64{"settlement": 0.606}, result.Trace[0].Values)
	assert.Len(t, result.Trace[1].Values, 3)
}

func TestRun_ReportsFailedExpectations(t *testing.T) {
	scenario := loadInline(t, `
name: failing
description: "Every check is wrong"
graph: graphs/settlement.yaml
mutations:
  - remove: risk
    expect_error: UNKNOWN_NODE
checks:
  - readiness: {node: identity, expect: 0.1}
  - order:
      expect: [settlement, identity]
  - propagate:
      impulse: {origin: identity, amplitude: 1, urgency: 1, confidence: 1}
      attenuation: 0.9
      max_depth: 3
      expect_error: INVALID_ARGUMENT
`)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[0], "mutations[0] remove(risk): expected error UNKNOWN_NODE, got success")
	assert.Contains(t, result.Errors[1], "checks[0] readiness(identity)")
	assert.Contains(t, result.Errors[2], "checks[1] order")
	assert.Contains(t, result.Errors[3], "expected error INVALID_ARGUMENT, got success")

	for _, event := range result.Trace {
		assert.False(t, event.Pass, "event %d should fail", event.Seq)
	}
	// Failed checks still record what the engine returned.
	assert.Equal(t, []string{"identity", "settlement"}, result.Trace[2].Order)
	assert.NotEmpty(t, result.Trace[3].Values)
}

func TestRun_MutationsApplyBeforeChecks(t *testing.T) {
	scenario := loadInline(t, `
name: mutate
description: "Remove risk and its edges"
graph: graphs/settlement.yaml
mutations:
  - remove: Risk
checks:
  - readiness: {node: settlement, expect: 0.75}
  - readiness: {node: risk, expect_error: UNKNOWN_NODE}
`)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Trace, 3)
	assert.Equal(t, EventMutation, result.Trace[0].Kind)
	assert.Equal(t, "remove", result.Trace[0].Op)
	assert.Equal(t, "risk", result.Trace[0].Target)
	assert.Equal(t, "UNKNOWN_NODE", result.Trace[2].Error)
	assert.Nil(t, result.Trace[2].Values)
}

func TestRun_InvalidGraph(t *testing.T) {
	dir := t.TempDir()
	scenario := &Scenario{
		Name:   "broken",
		Graph:  dir + "/missing.yaml",
		Checks: []Check{{Profile: &ProfileCheck{}}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build graph for broken")
}

func TestRunWithLogger_LogsSteps(t *testing.T) {
	scenario := loadInline(t, `
name: logged
description: "Debug logging"
graph: graphs/settlement.yaml
checks:
  - order: {expect: [identity, risk, settlement]}
`)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	result, err := RunWithLogger(scenario, logger)
	require.NoError(t, err)
	assert.True(t, result.Pass)
	assert.Contains(t, buf.String(), "step evaluated")
	assert.Contains(t, buf.String(), "scenario=logged")
}
