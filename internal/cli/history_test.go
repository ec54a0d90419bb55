package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/history"
	"github.com/Dynamic-Capital/Dynamic-Capital-sub010/internal/testutil"
)

func listRuns(t *testing.T, db string, args ...string) []history.Run {
	t.Helper()

	out, _, err := execute(t, append([]string{"--db", db, "--format", "json", "history", "list"}, args...)...)
	require.NoError(t, err)

	var runs []history.Run
	decodeData(t, out, &runs)
	return runs
}

func TestHistory_RecordsAnalysisRuns(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	path := writeSettlement(t)

	_, _, err := execute(t, "--db", db, "readiness", path)
	require.NoError(t, err)
	_, _, err = execute(t, "--db", db, "order", path)
	require.NoError(t, err)
	_, _, err = execute(t, "--db", db, "propagate", path, "--origin", "identity")
	require.NoError(t, err)

	runs := listRuns(t, db)
	require.Len(t, runs, 3)
	assert.Equal(t, history.KindPropagation, runs[0].Kind)
	assert.Equal(t, history.KindOrder, runs[1].Kind)
	assert.Equal(t, history.KindReadiness, runs[2].Kind)
	assert.Equal(t, []int64{3, 2, 1}, []int64{runs[0].Seq, runs[1].Seq, runs[2].Seq})
	assert.Equal(t, "settlement-readiness", runs[2].GraphName)
	assert.Equal(t, runs[0].Fingerprint, runs[2].Fingerprint)
	assert.Equal(t, "identity", runs[0].Params["origin"])
	assert.Equal(t, "0.9", runs[0].Params["attenuation"])

	ordered := listRuns(t, db, "--kind", "order")
	require.Len(t, ordered, 1)
	assert.Equal(t, runs[1].ID, ordered[0].ID)

	latest := listRuns(t, db, "--limit", "1")
	require.Len(t, latest, 1)
	assert.Equal(t, runs[0].ID, latest[0].ID)

	out, _, err := execute(t, "--db", db, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, runs[2].ID)
	assert.Contains(t, out, "readiness")
}

func TestHistory_SingleNodeReadinessIsNotRecorded(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")

	_, _, err := execute(t, "--db", db, "readiness", writeSettlement(t), "risk")
	require.NoError(t, err)
	assert.Empty(t, listRuns(t, db))
}

func TestHistory_Show(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	_, _, err := execute(t, "--db", db, "readiness", writeSettlement(t))
	require.NoError(t, err)
	runs := listRuns(t, db)
	require.Len(t, runs, 1)

	out, _, err := execute(t, "--db", db, "history", "show", runs[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "run "+runs[0].ID+" (seq 1)")
	assert.Contains(t, out, "kind:        readiness")
	assert.Contains(t, out, "  1. identity 0.900000")
	assert.Contains(t, out, "  3. settlement 0.606000")

	out, _, err = execute(t, "--db", db, "--format", "json", "history", "show", runs[0].ID)
	require.NoError(t, err)
	var run history.Run
	decodeData(t, out, &run)
	require.Len(t, run.Entries, 3)
	assert.Equal(t, "risk", run.Entries[1].Key)
	assert.Equal(t, 0.72, run.Entries[1].Value)
}

func TestHistory_Diff(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "history.db")
	before := testutil.WriteFile(t, dir, "before.yaml", testutil.SettlementYAML)
	after := testutil.WriteFile(t, dir, "after.yaml",
		strings.Replace(testutil.SettlementYAML, "readiness: 0.6\n", "readiness: 0.8\n", 1))

	_, _, err := execute(t, "--db", db, "readiness", before)
	require.NoError(t, err)
	_, _, err = execute(t, "--db", db, "readiness", after)
	require.NoError(t, err)

	runs := listRuns(t, db)
	require.Len(t, runs, 2)
	assert.NotEqual(t, runs[0].Fingerprint, runs[1].Fingerprint)

	out, _, err := execute(t, "--db", db, "--format", "json", "history", "diff", runs[1].ID, runs[0].ID)
	require.NoError(t, err)

	var diff RunDiff
	decodeData(t, out, &diff)
	assert.Equal(t, runs[1].ID, diff.Before)
	require.Len(t, diff.Deltas, 2)
	assert.Equal(t, "risk", diff.Deltas[0].Key)
	assert.Equal(t, history.ChangeChanged, diff.Deltas[0].Change)
	assert.InDelta(t, 0.1, diff.Deltas[0].Delta, 1e-6)
	assert.Equal(t, "settlement", diff.Deltas[1].Key)

	out, _, err = execute(t, "--db", db, "history", "diff", runs[1].ID, runs[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "~ risk 0.720000 -> 0.820000 (+0.100000)")

	out, _, err = execute(t, "--db", db, "history", "diff", runs[0].ID, runs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "No differences.\n", out)
}

func TestHistory_Errors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")

	_, _, err := execute(t, "history", "list")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "--db is required")

	out, _, err := execute(t, "--db", db, "history", "show", "no-such-run")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error ["+ErrCodeRunNotFound+"]")

	_, _, err = execute(t, "--db", db, "history", "list", "--kind", "bogus")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestHistory_EmptyList(t *testing.T) {
	out, _, err := execute(t, "--db", filepath.Join(t.TempDir(), "history.db"), "history", "list")
	require.NoError(t, err)
	assert.Equal(t, "No runs recorded.\n", out)
}
