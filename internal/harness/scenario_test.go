package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/testutil"
)

// writeScenario writes the settlement graph and a scenario next to it.
func writeScenario(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "graphs/settlement.yaml", testutil.SettlementYAML)
	return testutil.WriteFile(t, dir, "scenario.yaml", body)
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, `
name: test_scenario
description: "Test scenario for validation"
graph: graphs/settlement.yaml
mutations:
  - register: {name: Ledger, readiness: 0.5, resilience: 0.5, criticality: 0.5}
checks:
  - readiness:
      node: identity
      expect: 0.9
  - order:
      before:
        - [identity, risk]
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Test scenario for validation", scenario.Description)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "graphs/settlement.yaml"), scenario.Graph)
	require.Len(t, scenario.Mutations, 1)
	assert.Equal(t, "Ledger", scenario.Mutations[0].Register.Name)
	require.Len(t, scenario.Checks, 2)
	assert.Equal(t, 0.9, *scenario.Checks[0].Readiness.Expect)
	assert.Equal(t, [][]string{{"identity", "risk"}}, scenario.Checks[1].Order.Before)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: "check instead of checks"
graph: graphs/settlement.yaml
check:
  - profile: {}
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_GraphNotFound(t *testing.T) {
	path := writeScenario(t, `
name: lost
description: "Graph path is wrong"
graph: graphs/missing.yaml
checks:
  - profile: {}
`)

	_, err := LoadScenario(path)
	require.Error(t, err)

	var notFound *GraphNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "lost", notFound.Scenario)
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing name",
			body:    "description: d\ngraph: graphs/settlement.yaml\nchecks:\n  - profile: {}\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			body:    "name: n\ngraph: graphs/settlement.yaml\nchecks:\n  - profile: {}\n",
			wantErr: "description is required",
		},
		{
			name:    "missing graph",
			body:    "name: n\ndescription: d\nchecks:\n  - profile: {}\n",
			wantErr: "graph is required",
		},
		{
			name:    "no checks",
			body:    "name: n\ndescription: d\ngraph: graphs/settlement.yaml\n",
			wantErr: "checks list is required",
		},
		{
			name: "two mutation ops",
			body: `name: n
description: d
graph: graphs/settlement.yaml
mutations:
  - remove: risk
    connect: {from: identity, to: settlement}
checks:
  - profile: {}
`,
			wantErr: "mutations[0]: exactly one of",
		},
		{
			name: "empty check",
			body: `name: n
description: d
graph: graphs/settlement.yaml
checks:
  - {}
`,
			wantErr: "checks[0]: exactly one of",
		},
		{
			name: "readiness without expectation",
			body: `name: n
description: d
graph: graphs/settlement.yaml
checks:
  - readiness: {node: risk}
`,
			wantErr: "expect or expect_error is required",
		},
		{
			name: "before pair too long",
			body: `name: n
description: d
graph: graphs/settlement.yaml
checks:
  - order:
      before:
        - [identity, risk, settlement]
`,
			wantErr: "want [first, second], got 3 keys",
		},
		{
			name: "propagate without origin",
			body: `name: n
description: d
graph: graphs/settlement.yaml
checks:
  - propagate:
      attenuation: 0.9
      max_depth: 2
`,
			wantErr: "impulse.origin is required",
		},
		{
			name: "unknown error code",
			body: `name: n
description: d
graph: graphs/settlement.yaml
checks:
  - order: {expect_error: CYCLE}
`,
			wantErr: `unknown expect_error "CYCLE"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestImpulseSpec_Impulse(t *testing.T) {
	imp := ImpulseSpec{Origin: " Identity ", Amplitude: 2, Urgency: 0.5, Confidence: -1}.Impulse()

	assert.Equal(t, "identity", imp.Origin)
	assert.Equal(t, 1.0, imp.Amplitude)
	assert.Equal(t, 0.5, imp.Urgency)
	assert.Equal(t, 0.0, imp.Confidence)
}
