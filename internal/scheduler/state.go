package scheduler

import "github.com/halvard/cyclesim/internal/model"

// State is the mutable scheduling state the engine facade owns and
// passes into the scheduler on every tick: the ready queue, the
// currently running process (-1 when idle), and the Round Robin
// quantum bookkeeping.
type State struct {
	Processes []model.ProcessState
	Ready     []int // process indices, FIFO order
	Running   int
	Cycle     int

	RRQuantum int
	RRCounter int
}

// Available reports whether the process at index idx has arrived by
// the current cycle.
func (s *State) Available(idx int) bool {
	return s.Processes[idx].Arrival <= s.Cycle
}

// PopReadyHead removes and returns the head of the ready queue.
func (s *State) PopReadyHead() int {
	idx := s.Ready[0]
	s.Ready = s.Ready[1:]
	return idx
}

// PushReadyTail appends a process index to the tail of the ready queue.
func (s *State) PushReadyTail(idx int) {
	s.Ready = append(s.Ready, idx)
}

// RemoveReady removes the first occurrence of idx from the ready queue,
// if present.
func (s *State) RemoveReady(idx int) {
	for i, v := range s.Ready {
		if v == idx {
			s.Ready = append(s.Ready[:i], s.Ready[i+1:]...)
			return
		}
	}
}
