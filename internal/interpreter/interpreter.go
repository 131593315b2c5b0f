// Package interpreter executes the timed synchronization action
// script against mutexes and semaphores, emitting a sortable event log
// and reporting run-time domain errors on a diagnostic side channel
// instead of perturbing the simulated outcome.
package interpreter

import "github.com/halvard/cyclesim/internal/model"

// ProcessCycle scans actions in script order and processes every entry
// whose Cycle matches cycle. Returns the diagnostics raised by this
// cycle's scan, if any; the event log itself is accumulated on s.Log
// and re-sorted before returning.
func ProcessCycle(s *State, actions []model.Action, cycle int) []Diagnostic {
	var diags []Diagnostic

	for _, action := range actions {
		if action.Cycle != cycle {
			continue
		}
		idx, ok := s.ByID[action.ProcessID]
		if !ok {
			continue
		}
		if action.Type == model.Signal && s.Processes[idx].LiveState == model.Blocked {
			continue
		}

		var d *Diagnostic
		abort := false
		switch action.Type {
		case model.Read, model.Write:
			d, abort = s.handleReadWrite(idx, action, cycle)
		case model.Acquire:
			d = s.handleAcquire(idx, action, cycle)
		case model.Release:
			d = s.handleRelease(idx, action, cycle)
		case model.Wait:
			d = s.handleWait(idx, action, cycle)
		case model.Signal:
			d = s.handleSignal(idx, action, cycle)
		}
		if d != nil {
			diags = append(diags, *d)
		}
		if abort {
			break
		}
	}

	model.SortLog(s.Log)
	s.clearJustGrantedMutex()
	return diags
}

func (s *State) handleReadWrite(idx int, action model.Action, cycle int) (*Diagnostic, bool) {
	name := action.Resource
	if sem, ok := s.Semaphores[name]; ok {
		if sem.TryAcquire() {
			s.emit(cycle, idx, name, model.Accessed, action.Type)
		} else {
			s.Processes[idx].LiveState = model.Blocked
			sem.Enqueue(waitEntryFor(idx, action.Type))
			s.emit(cycle, idx, name, model.Waiting, action.Type)
		}
		return nil, false
	}
	if mtx, ok := s.Mutexes[name]; ok {
		if mtx.Owner != idx {
			d := diag(CodeUnauthorizedAccess, cycle, action.ProcessID, name, "resource used without prior acquire")
			return &d, false
		}
		s.emit(cycle, idx, name, model.Accessed, action.Type)
		return nil, false
	}
	d := diag(CodeUnknownResource, cycle, action.ProcessID, name, "action named an unknown resource")
	return &d, true
}

func (s *State) handleAcquire(idx int, action model.Action, cycle int) *Diagnostic {
	name := action.Resource
	mtx, ok := s.Mutexes[name]
	if !ok {
		d := diag(CodeUnknownResource, cycle, action.ProcessID, name, "ACQUIRE on an unknown or non-mutex resource")
		return &d
	}
	if s.Processes[idx].JustGrantedMutex {
		d := diag(CodeReacquireAfterHandoff, cycle, action.ProcessID, name, "process was just granted this mutex by automatic hand-off")
		return &d
	}
	if mtx.Owner == idx {
		d := diag(CodeDoubleAcquire, cycle, action.ProcessID, name, "process already owns this mutex")
		return &d
	}
	if mtx.TryAcquire(idx) {
		s.emit(cycle, idx, name, model.Accessed, model.Acquire)
	} else {
		s.Processes[idx].LiveState = model.Blocked
		mtx.Enqueue(waitEntryFor(idx, model.Acquire))
		s.emit(cycle, idx, name, model.Waiting, model.Acquire)
	}
	return nil
}

func (s *State) handleRelease(idx int, action model.Action, cycle int) *Diagnostic {
	name := action.Resource
	mtx, ok := s.Mutexes[name]
	if !ok {
		d := diag(CodeUnknownResource, cycle, action.ProcessID, name, "RELEASE on an unknown or non-mutex resource")
		return &d
	}
	if mtx.Owner != idx {
		d := diag(CodeUnauthorizedRelease, cycle, action.ProcessID, name, "process is not the current owner")
		return &d
	}
	s.emit(cycle, idx, name, model.Accessed, model.Release)

	handoff, handedOff := mtx.Release()
	if !handedOff {
		return nil
	}
	newOwner := handoff.ProcessIndex
	s.Processes[newOwner].JustGrantedMutex = true
	s.Processes[newOwner].LiveState = model.Ready
	s.Ready = append(s.Ready, newOwner)
	s.emit(cycle, newOwner, name, model.Accessed, model.Acquire)
	return nil
}

func (s *State) handleWait(idx int, action model.Action, cycle int) *Diagnostic {
	name := action.Resource
	sem, ok := s.Semaphores[name]
	if !ok {
		d := diag(CodeUnknownResource, cycle, action.ProcessID, name, "WAIT on an unknown or non-semaphore resource")
		return &d
	}
	if sem.TryAcquire() {
		s.emit(cycle, idx, name, model.Accessed, model.Wait)
	} else {
		s.Processes[idx].LiveState = model.Blocked
		sem.Enqueue(waitEntryFor(idx, model.Wait))
		s.emit(cycle, idx, name, model.Waiting, model.Wait)
	}
	return nil
}

func (s *State) handleSignal(idx int, action model.Action, cycle int) *Diagnostic {
	name := action.Resource
	sem, ok := s.Semaphores[name]
	if !ok {
		d := diag(CodeUnknownResource, cycle, action.ProcessID, name, "SIGNAL on an unknown or non-semaphore resource")
		return &d
	}
	s.emit(cycle, idx, name, model.Accessed, model.Signal)

	woken, hasWoken := sem.Signal()
	if !hasWoken {
		return nil
	}
	wokenIdx := woken.ProcessIndex
	s.Processes[wokenIdx].LiveState = model.Ready
	s.Ready = append(s.Ready, wokenIdx)
	s.emit(cycle, wokenIdx, name, model.Accessed, model.Wake)
	s.emit(cycle, wokenIdx, name, model.Accessed, woken.Requested)
	return nil
}
