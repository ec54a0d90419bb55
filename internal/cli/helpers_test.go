package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/testutil"
)

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// writeSettlement writes the settlement chain definition to a temp dir.
func writeSettlement(t *testing.T) string {
	t.Helper()
	return testutil.WriteFile(t, t.TempDir(), "settlement.yaml", testutil.SettlementYAML)
}

// decodeData unmarshals a JSON envelope and its data payload into data.
func decodeData(t *testing.T, raw string, data any) CLIResponse {
	t.Helper()

	var envelope struct {
		CLIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &envelope), "output: %s", raw)
	if data != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, data))
	}
	return envelope.CLIResponse
}
