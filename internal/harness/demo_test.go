package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioDir holds the shipped conformance scenarios, relative to this
// package.
const scenarioDir = "../../testdata/scenarios"

// TestShippedScenarios runs every scenario under testdata/scenarios and
// compares its trace with testdata/golden/<name>.golden.
func TestShippedScenarios(t *testing.T) {
	paths, err := DiscoverScenarios(scenarioDir, "")
	require.NoError(t, err)
	require.Len(t, paths, 5)

	for _, path := range paths {
		name := filepath.Base(path)
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err, "failed to load %s", path)
			assert.NotEmpty(t, scenario.Description)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "scenario %s failed: %v", scenario.Name, result.Errors)
		})
	}
}
