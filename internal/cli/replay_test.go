package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halvard/cyclesim/internal/store"
)

func TestReplaySingleDeterministicRun(t *testing.T) {
	dbPath, runID := seedRun(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--run", runID})

	require.NoError(t, cmd.Execute())
	output := buf.String()
	assert.Contains(t, output, "match")
	assert.Contains(t, output, "all runs verified deterministic")
}

func TestReplayAllRunsWithNoRunFlag(t *testing.T) {
	dbPath, runID := seedRun(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string       `json:"status"`
		Data   ReplayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.TotalRuns)
	assert.True(t, resp.Data.AllDeterministic)
	require.Len(t, resp.Data.Runs, 1)
	assert.Equal(t, runID, resp.Data.Runs[0].RunID)
	assert.True(t, resp.Data.Runs[0].Deterministic)
}

func TestReplayDetectsDigestMismatch(t *testing.T) {
	dbPath, runID := seedRun(t)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	run, err := st.ReadRun(context.Background(), runID)
	require.NoError(t, err)
	run.Digest = "tampered-digest"
	require.NoError(t, st.WriteRun(context.Background(), run))
	require.NoError(t, st.Close())

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--run", runID})

	err = cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "MISMATCH")
}

func TestReplayUnknownRunID(t *testing.T) {
	dbPath, _ := seedRun(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--run", "does-not-exist"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestReplayEmptyDatabaseReportsNoRuns(t *testing.T) {
	dbPath, _ := seedRun(t)

	// Wipe the runs table by opening a fresh database at a new path instead.
	emptyDBPath := dbPath + ".empty"
	st, err := store.Open(emptyDBPath)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--db", emptyDBPath})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "no runs found")
}

func TestReplayMissingDatabaseFlag(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}
