package interpreter

import (
	"github.com/halvard/cyclesim/internal/model"
	"github.com/halvard/cyclesim/internal/primitives"
)

// State is the mutable synchronization-mode state the engine facade
// owns: process states, the name-keyed primitive tables, the ready
// queue of processes woken or handed resources, and the growing event
// log.
type State struct {
	Processes  []model.ProcessState
	ByID       map[string]int
	Mutexes    map[string]*primitives.Mutex
	Semaphores map[string]*primitives.Semaphore
	Ready      []int
	Log        []model.Event

	seq int64
}

// NewState builds synchronization state from the immutable process and
// resource lists, installing a mutex for capacity-1 resources and a
// counting semaphore otherwise.
func NewState(processes []model.Process, resources []model.Resource) *State {
	s := &State{
		ByID:       make(map[string]int, len(processes)),
		Mutexes:    make(map[string]*primitives.Mutex),
		Semaphores: make(map[string]*primitives.Semaphore),
	}
	s.Processes = make([]model.ProcessState, len(processes))
	for i, p := range processes {
		s.Processes[i] = model.NewProcessState(p, i)
		s.ByID[p.ID] = i
	}
	for _, r := range resources {
		if r.IsMutex() {
			s.Mutexes[r.Name] = primitives.NewMutex()
		} else {
			s.Semaphores[r.Name] = primitives.NewSemaphore(r.Capacity)
		}
	}
	return s
}

// IsMutex reports whether name refers to a mutex-capacity resource.
func (s *State) IsMutex(name string) bool {
	_, ok := s.Mutexes[name]
	return ok
}

func (s *State) nextSeq() int64 {
	s.seq++
	return s.seq
}

func (s *State) emit(cycle, processIndex int, resource string, outcome model.Outcome, action model.ActionType) {
	s.Log = append(s.Log, model.Event{
		Cycle:        cycle,
		ProcessIndex: processIndex,
		Resource:     resource,
		Outcome:      outcome,
		Action:       action,
		Seq:          s.nextSeq(),
	})
}

func (s *State) clearJustGrantedMutex() {
	for i := range s.Processes {
		s.Processes[i].JustGrantedMutex = false
	}
}

