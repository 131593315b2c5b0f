package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halvard/cyclesim/internal/model"
	"github.com/halvard/cyclesim/internal/scheduler"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cyclesim.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestWriteAndReadRunRoundTrips(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run := Run{
		ID:        "01J000000000000000000000",
		Algorithm: scheduler.FIFO,
		RRQuantum: 1,
		Mode:      "SCHEDULING",
		Digest:    "deadbeef",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Processes: []model.Process{
			{ID: "A", Burst: 3, Arrival: 0, Priority: 0},
			{ID: "B", Burst: 2, Arrival: 0, Priority: 0},
		},
		Resources: []model.Resource{{Name: "M", Capacity: 1}},
		Actions: []model.Action{
			{ProcessID: "A", Type: model.Acquire, Resource: "M", Cycle: 0},
		},
		ExecutionHistory: []string{"A", "A", "A", "B", "B"},
		SyncLog: []model.Event{
			{Cycle: 0, ProcessIndex: 0, Resource: "M", Outcome: model.Accessed, Action: model.Acquire},
		},
	}

	require.NoError(t, s.WriteRun(ctx, run))

	got, err := s.ReadRun(ctx, run.ID)
	require.NoError(t, err)

	assert.Equal(t, run.Algorithm, got.Algorithm)
	assert.Equal(t, run.RRQuantum, got.RRQuantum)
	assert.Equal(t, run.Mode, got.Mode)
	assert.Equal(t, run.Digest, got.Digest)
	assert.Equal(t, run.Processes, got.Processes)
	assert.Equal(t, run.Resources, got.Resources)
	assert.Equal(t, run.Actions, got.Actions)
	assert.Equal(t, run.ExecutionHistory, got.ExecutionHistory)
	require.Len(t, got.SyncLog, 1)
	assert.Equal(t, run.SyncLog[0].Action, got.SyncLog[0].Action)
}

func TestListRunIDsReturnsWrittenRuns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := Run{
		Algorithm: scheduler.FIFO,
		RRQuantum: 1,
		Mode:      "SCHEDULING",
		Digest:    "deadbeef",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	first := base
	first.ID = "run-1"
	second := base
	second.ID = "run-2"
	second.CreatedAt = base.CreatedAt.Add(time.Hour)

	require.NoError(t, s.WriteRun(ctx, first))
	require.NoError(t, s.WriteRun(ctx, second))

	ids, err := s.ListRunIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-2", "run-1"}, ids)
}

func TestReadRunMissingIDFails(t *testing.T) {
	s := openTestStore(t)
	_, err := s.ReadRun(context.Background(), "missing")
	assert.Error(t, err)
}

func TestOpenAppliesWALPragma(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.verifyPragma("journal_mode", "wal"))
}
