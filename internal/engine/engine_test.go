package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halvard/cyclesim/internal/model"
	"github.com/halvard/cyclesim/internal/scheduler"
)

func mustNew(t *testing.T, procs []model.Process, res []model.Resource, acts []model.Action, algo scheduler.Algorithm, quantum int) *Engine {
	e, err := New(procs, res, acts, algo, quantum)
	require.NoError(t, err)
	return e
}

func runToFinish(e *Engine, maxTicks int) {
	for i := 0; i < maxTicks && !e.IsFinished(); i++ {
		e.Tick()
	}
}

func TestEmptyProcessListFinishesImmediately(t *testing.T) {
	e := mustNew(t, nil, nil, nil, scheduler.FIFO, 1)
	e.SetMode(Scheduling)
	assert.True(t, e.IsFinished())
}

func TestFIFOSchedulingEndToEnd(t *testing.T) {
	procs := []model.Process{
		{ID: "A", Burst: 3, Arrival: 0, Priority: 0},
		{ID: "B", Burst: 2, Arrival: 0, Priority: 0},
		{ID: "C", Burst: 1, Arrival: 0, Priority: 0},
	}
	e := mustNew(t, procs, nil, nil, scheduler.FIFO, 1)
	e.SetMode(Scheduling)

	runToFinish(e, 100)

	assert.Equal(t, "A,A,A,B,B,C", strings.Join(e.ExecutionHistory(), ","))
	assert.InDelta(t, 2.67, e.AverageWaitingTime(), 0.01)
	assert.True(t, e.IsFinished())
}

func TestResetRestoresFreshState(t *testing.T) {
	procs := []model.Process{{ID: "A", Burst: 2, Arrival: 0, Priority: 0}}
	e := mustNew(t, procs, nil, nil, scheduler.FIFO, 1)
	e.SetMode(Scheduling)
	e.Tick()
	e.Tick()
	require.True(t, e.IsFinished())

	e.Reset()
	assert.Equal(t, -1, e.Cycle())
	assert.Equal(t, -1, e.RunningIndex())
	assert.Empty(t, e.ExecutionHistory())
	assert.Equal(t, float64(0), e.AverageWaitingTime())
	assert.False(t, e.IsFinished())
}

func TestSetModeIsIdempotent(t *testing.T) {
	e := mustNew(t, nil, nil, nil, scheduler.FIFO, 1)
	e.SetMode(Scheduling)
	e.SetMode(Scheduling)
	assert.Equal(t, Scheduling, e.Mode())
}

func TestSynchronizationModeStopsAtMaxSyncCycle(t *testing.T) {
	procs := []model.Process{{ID: "P1"}, {ID: "P2"}}
	res := []model.Resource{{Name: "M", Capacity: 1}}
	acts := []model.Action{
		{ProcessID: "P1", Type: model.Acquire, Resource: "M", Cycle: 0},
		{ProcessID: "P2", Type: model.Acquire, Resource: "M", Cycle: 1},
		{ProcessID: "P1", Type: model.Release, Resource: "M", Cycle: 2},
	}
	e := mustNew(t, procs, res, acts, scheduler.FIFO, 1)
	e.SetMode(Synchronization)

	for i := 0; i < 10; i++ {
		e.Tick()
	}
	assert.Equal(t, 2, e.Cycle())
	assert.True(t, e.IsFinished())

	log := e.SyncLog()
	require.NotEmpty(t, log)
	assert.Equal(t, 1, e.Mutexes()["M"].Owner)
}

func TestSetAlgorithmRejectsUnknown(t *testing.T) {
	e := mustNew(t, nil, nil, nil, scheduler.FIFO, 1)
	err := e.SetAlgorithm("BOGUS")
	require.Error(t, err)
	assert.True(t, IsUnknownAlgorithm(err))
}

func TestSetRRQuantumRejectsBelowOne(t *testing.T) {
	e := mustNew(t, nil, nil, nil, scheduler.FIFO, 1)
	err := e.SetRRQuantum(0)
	require.Error(t, err)
}
