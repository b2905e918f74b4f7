package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richarc/qx-sub001/internal/engine"
	"github.com/richarc/qx-sub001/internal/queryir"
	"github.com/richarc/qx-sub001/internal/store"
	"github.com/richarc/qx-sub001/internal/testutil"
)

// seedHistory records runs through the run command and returns the db path.
func seedHistory(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	runs := [][]string{
		{"--circuit", "bell", "--shots", "100", "--seed", "1"},
		{"--circuit", "reset_to_zero", "--shots", "50", "--seed", "2"},
		{"--circuit", "bell", "--shots", "2000", "--seed", "3"},
	}
	for _, args := range runs {
		args = append([]string{"run", "--db", dbPath}, args...)
		_, _, err := executeCommand(t, append(args, "testdata/circuits")...)
		require.NoError(t, err)
	}
	return dbPath
}

func listHistory(t *testing.T, args ...string) []store.RunSummary {
	t.Helper()
	out, _, err := executeCommand(t, append([]string{"history", "--format", "json"}, args...)...)
	require.NoError(t, err)

	var resp struct {
		Status string             `json:"status"`
		Data   []store.RunSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestHistoryCommand_ListAll(t *testing.T) {
	dbPath := seedHistory(t)

	runs := listHistory(t, "--db", dbPath)
	require.Len(t, runs, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{runs[0].Seq, runs[1].Seq, runs[2].Seq})
	assert.Equal(t, "reset_to_zero", runs[1].CircuitName)
	assert.Equal(t, "per_shot", runs[1].Path)
	assert.Equal(t, uint64(3), runs[2].Seed)
}

func TestHistoryCommand_Filters(t *testing.T) {
	dbPath := seedHistory(t)

	assert.Len(t, listHistory(t, "--db", dbPath, "--circuit", "bell"), 2)
	assert.Len(t, listHistory(t, "--db", dbPath, "--path", "per_shot"), 1)
	assert.Len(t, listHistory(t, "--db", dbPath, "--min-shots", "100"), 2)
	assert.Len(t, listHistory(t, "--db", dbPath, "--circuit", "bell", "--min-shots", "1000"), 1)
	assert.Len(t, listHistory(t, "--db", dbPath, "--limit", "1"), 1)
	assert.Empty(t, listHistory(t, "--db", dbPath, "--circuit", "ghz"))
}

func TestHistoryCommand_Text(t *testing.T) {
	dbPath := seedHistory(t)

	out, _, err := executeCommand(t, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "SEQ")
	assert.Contains(t, out, "reset_to_zero")
	assert.Contains(t, out, "per_shot")
}

func TestHistoryCommand_Empty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, _, err := executeCommand(t, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs found.")

	assert.NotNil(t, listHistory(t, "--db", dbPath))
}

// recordFixedRun records reset_to_zero through the run command with a
// fixed run ID and seed.
func recordFixedRun(t *testing.T, dbPath string) runResponse {
	t.Helper()
	opts := &RunOptions{
		RootOptions:    &RootOptions{Format: "json"},
		Circuit:        "reset_to_zero",
		Shots:          8,
		Database:       dbPath,
		RunIDGenerator: testutil.NewFixedRunIDGenerator(""),
	}

	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "")
	require.NoError(t, cmd.Flags().Set("seed", "12"))
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetContext(t.Context())

	require.NoError(t, runCircuit(opts, "testdata/circuits", cmd))

	var resp runResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	return resp
}

func TestHistoryCommand_ShowRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	recorded := recordFixedRun(t, dbPath).Data
	require.Equal(t, "test-run-default", recorded.RunID)

	out, _, err := executeCommand(t, "history", "--db", dbPath, "--id", recorded.RunID)
	require.NoError(t, err)
	assert.Contains(t, out, "run: test-run-default (seq 1)")
	assert.Contains(t, out, "circuit: reset_to_zero ("+shortHash(recorded.Hash)+")")
	assert.Contains(t, out, "seed: 12")

	out, _, err = executeCommand(t, "history", "--format", "json", "--db", dbPath, "--id", recorded.RunID)
	require.NoError(t, err)

	var resp struct {
		Data RunDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "reset_to_zero", resp.Data.Circuit.Name)
	assert.Equal(t, engine.Counts{"1": 8}, resp.Data.Counts)
	assert.Equal(t, uint64(12), resp.Data.Seed)
	assert.Equal(t, string(engine.PathPerShot), resp.Data.Path)
	assert.Equal(t, []engine.Amplitude{{Re: 1}, {}}, resp.Data.State)
}

func TestHistoryCommand_RecordingSameIDIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	first := recordFixedRun(t, dbPath).Data
	second := recordFixedRun(t, dbPath).Data
	assert.Equal(t, first.RunID, second.RunID)
	assert.Equal(t, first.Seq, second.Seq)

	assert.Len(t, listHistory(t, "--db", dbPath), 1)
}

func TestHistoryCommand_RunNotFound(t *testing.T) {
	dbPath := seedHistory(t)

	out, _, err := executeCommand(t, "history", "--db", dbPath, "--id", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E302]")
}

func TestHistoryCommand_MissingDB(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.db")

	_, _, err := executeCommand(t, "history", "--db", missing)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestHistoryCommand_DBRequired(t *testing.T) {
	_, _, err := executeCommand(t, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "db" not set`)
}

func TestHistoryFilter(t *testing.T) {
	assert.Nil(t, historyFilter(&HistoryOptions{}))

	assert.Equal(t,
		queryir.Equals{Field: "circuit_name", Value: "bell"},
		historyFilter(&HistoryOptions{Circuit: "bell"}))

	assert.Equal(t,
		queryir.And{Predicates: []queryir.Predicate{
			queryir.Equals{Field: "path", Value: "batched"},
			queryir.AtLeast{Field: "shots", Value: 10},
		}},
		historyFilter(&HistoryOptions{Path: "batched", MinShots: 10}))
}
