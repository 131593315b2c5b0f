package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProcessState(t *testing.T) {
	p := Process{ID: "A", Burst: 5, Arrival: 2, Priority: 1}
	ps := NewProcessState(p, 3)

	require.Equal(t, 5, ps.Remaining)
	require.Equal(t, -1, ps.CompletionCycle)
	require.Equal(t, Ready, ps.LiveState)
	require.Equal(t, 3, ps.Index)
	assert.False(t, ps.Completed())
	assert.False(t, ps.JustGrantedMutex)
}

func TestProcessStateWaitingTime(t *testing.T) {
	ps := NewProcessState(Process{ID: "A", Burst: 3, Arrival: 0}, 0)
	ps.CompletionCycle = 6
	assert.Equal(t, 3, ps.WaitingTime())
}

func TestResourceIsMutex(t *testing.T) {
	assert.True(t, Resource{Name: "M", Capacity: 1}.IsMutex())
	assert.False(t, Resource{Name: "S", Capacity: 3}.IsMutex())
}

func TestSortLogStablePerBucket(t *testing.T) {
	log := []Event{
		{Cycle: 2, ProcessIndex: 1, Action: Release, Outcome: Accessed, Seq: 10},
		{Cycle: 0, ProcessIndex: 0, Action: Wait, Outcome: Accessed, Seq: 1},
		{Cycle: 2, ProcessIndex: 1, Action: Acquire, Outcome: Accessed, Seq: 11},
		{Cycle: 0, ProcessIndex: 1, Action: Wait, Outcome: Waiting, Seq: 2},
	}
	SortLog(log)

	require.Len(t, log, 4)
	assert.Equal(t, 0, log[0].Cycle)
	assert.Equal(t, 0, log[0].ProcessIndex)
	assert.Equal(t, 0, log[1].Cycle)
	assert.Equal(t, 1, log[1].ProcessIndex)
	assert.Equal(t, 2, log[2].Cycle)
	assert.Equal(t, Release, log[2].Action)
	assert.Equal(t, 2, log[3].Cycle)
	assert.Equal(t, Acquire, log[3].Action)
}
