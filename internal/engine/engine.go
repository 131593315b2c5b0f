package engine

import (
	"log/slog"

	"github.com/halvard/cyclesim/internal/interpreter"
	"github.com/halvard/cyclesim/internal/model"
	"github.com/halvard/cyclesim/internal/primitives"
	"github.com/halvard/cyclesim/internal/scheduler"
)

// Mode selects which sub-tick tick() runs.
type Mode int

const (
	Scheduling Mode = iota
	Synchronization
)

func (m Mode) String() string {
	if m == Synchronization {
		return "SYNCHRONIZATION"
	}
	return "SCHEDULING"
}

// Engine owns all mutable simulation state for one run: the scheduling
// ready queue and execution history, the synchronization primitives
// and event log, and the cycle counter driving both.
type Engine struct {
	processes []model.Process
	resources []model.Resource
	actions   []model.Action

	algo      scheduler.Algorithm
	rrQuantum int
	mode      Mode

	cycle        int
	maxSyncCycle int
	history      []string

	schedState *scheduler.State
	syncState  *interpreter.State
	diags      []interpreter.Diagnostic

	clock *Clock
}

// New constructs an engine from immutable input vectors and resets it
// into a run-ready state.
func New(processes []model.Process, resources []model.Resource, actions []model.Action, algo scheduler.Algorithm, rrQuantum int) (*Engine, error) {
	e := &Engine{
		processes: processes,
		resources: resources,
		actions:   actions,
		clock:     NewClock(),
	}
	if err := e.SetAlgorithm(algo); err != nil {
		return nil, err
	}
	if err := e.SetRRQuantum(rrQuantum); err != nil {
		return nil, err
	}
	e.Reset()
	return e, nil
}

// Reset copies the immutable originals into fresh mutable state,
// clears the ready queue, execution history, and synchronization log,
// installs mutex or semaphore primitives per resource, and recomputes
// max_sync_cycle. Cycle is reinitialized to -1 so the first tick() call
// lands on cycle 0.
func (e *Engine) Reset() {
	e.cycle = -1
	e.history = nil
	e.diags = nil

	e.schedState = &scheduler.State{
		Processes: make([]model.ProcessState, len(e.processes)),
		Running:   -1,
		RRQuantum: e.rrQuantum,
	}
	for i, p := range e.processes {
		e.schedState.Processes[i] = model.NewProcessState(p, i)
	}
	if e.algo.PreLoads() {
		for i := range e.processes {
			e.schedState.Ready = append(e.schedState.Ready, i)
		}
	}

	e.syncState = interpreter.NewState(e.processes, e.resources)

	e.maxSyncCycle = -1
	for _, a := range e.actions {
		if a.Cycle > e.maxSyncCycle {
			e.maxSyncCycle = a.Cycle
		}
	}
}

// Tick advances the simulation by one cycle. In Synchronization mode, a
// tick once the cycle has reached max_sync_cycle is a no-op; otherwise
// the cycle counter advances and the active mode's sub-tick runs.
func (e *Engine) Tick() {
	if e.mode == Synchronization && e.cycle == e.maxSyncCycle {
		return
	}
	e.cycle++
	e.clock.Next()

	switch e.mode {
	case Scheduling:
		e.tickScheduling()
	case Synchronization:
		e.tickSynchronization()
	}
}

func (e *Engine) tickScheduling() {
	s := e.schedState
	s.Cycle = e.cycle

	if !e.algo.PreLoads() {
		scheduler.HandleArrivals(s)
	}
	if e.algo.Preempts() || s.Running == -1 {
		scheduler.ScheduleNext(s, e.algo)
	}

	if s.Running == -1 {
		e.history = append(e.history, "idle")
	} else {
		e.history = append(e.history, s.Processes[s.Running].ID)
	}

	scheduler.ExecuteRunning(s, e.algo)
}

func (e *Engine) tickSynchronization() {
	diags := interpreter.ProcessCycle(e.syncState, e.actions, e.cycle)
	for _, d := range diags {
		slog.Warn("synchronization domain error",
			"tick", e.clock.Current(),
			"code", d.Code,
			"process", d.ProcessID,
			"resource", d.Resource,
			"cycle", d.Cycle,
			"message", d.Message,
		)
	}
	e.diags = append(e.diags, diags...)
}

// IsFinished reports whether the run has nothing left to do. In
// Scheduling mode: every process has remaining <= 0, nothing is
// running, and the ready queue is empty. In Synchronization mode: the
// cycle counter has reached max_sync_cycle.
func (e *Engine) IsFinished() bool {
	if e.mode == Synchronization {
		return e.cycle >= e.maxSyncCycle
	}
	if e.schedState.Running != -1 || len(e.schedState.Ready) != 0 {
		return false
	}
	for _, p := range e.schedState.Processes {
		if p.Remaining > 0 {
			return false
		}
	}
	return true
}

// SetAlgorithm changes the scheduling discipline. Callers are expected
// to call Reset afterward; SetAlgorithm itself does not reset state.
func (e *Engine) SetAlgorithm(algo scheduler.Algorithm) error {
	switch algo {
	case scheduler.FIFO, scheduler.SJF, scheduler.SRT, scheduler.Priority, scheduler.RR:
		e.algo = algo
		return nil
	default:
		return newUnknownAlgorithmError(string(algo))
	}
}

// SetMode switches between Scheduling and Synchronization mode.
// Idempotent: setting the current mode is a no-op.
func (e *Engine) SetMode(mode Mode) {
	e.mode = mode
}

// SetRRQuantum sets the Round Robin quantum. Rejects values below 1.
func (e *Engine) SetRRQuantum(quantum int) error {
	if quantum < 1 {
		return newInvalidQuantumError(quantum)
	}
	e.rrQuantum = quantum
	if e.schedState != nil {
		e.schedState.RRQuantum = quantum
	}
	return nil
}

// AverageWaitingTime is the mean of (completion - arrival - burst) over
// processes whose completion cycle is set; 0 when none have completed.
func (e *Engine) AverageWaitingTime() float64 {
	var total float64
	var n int
	for _, p := range e.schedState.Processes {
		if p.CompletionCycle >= 0 {
			total += float64(p.WaitingTime())
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// Algorithm returns the currently configured scheduling discipline.
func (e *Engine) Algorithm() scheduler.Algorithm { return e.algo }

// Mode returns the currently configured mode.
func (e *Engine) Mode() Mode { return e.mode }

// Cycle returns the current cycle counter (-1 before the first tick).
func (e *Engine) Cycle() int { return e.cycle }

// MaxSyncCycle returns the largest action cycle seen at reset.
func (e *Engine) MaxSyncCycle() int { return e.maxSyncCycle }

// RunningIndex returns the index of the running process, or -1 if idle.
func (e *Engine) RunningIndex() int { return e.schedState.Running }

// Processes returns a snapshot of the current process states.
func (e *Engine) Processes() []model.ProcessState {
	out := make([]model.ProcessState, len(e.schedState.Processes))
	copy(out, e.schedState.Processes)
	return out
}

// SyncProcesses returns a snapshot of synchronization-mode process
// states (liveness state, just-granted-mutex flag).
func (e *Engine) SyncProcesses() []model.ProcessState {
	out := make([]model.ProcessState, len(e.syncState.Processes))
	copy(out, e.syncState.Processes)
	return out
}

// ReadyQueue returns a snapshot of the scheduling ready queue.
func (e *Engine) ReadyQueue() []int {
	out := make([]int, len(e.schedState.Ready))
	copy(out, e.schedState.Ready)
	return out
}

// ExecutionHistory returns the per-cycle execution trace accumulated so
// far: one process identifier (or "idle") per ticked cycle.
func (e *Engine) ExecutionHistory() []string {
	out := make([]string, len(e.history))
	copy(out, e.history)
	return out
}

// SyncLog returns the chronologically sorted synchronization event log.
func (e *Engine) SyncLog() []model.Event {
	out := make([]model.Event, len(e.syncState.Log))
	copy(out, e.syncState.Log)
	return out
}

// Diagnostics returns the run-time domain errors reported so far on the
// diagnostic side channel. These never appear in SyncLog.
func (e *Engine) Diagnostics() []interpreter.Diagnostic {
	out := make([]interpreter.Diagnostic, len(e.diags))
	copy(out, e.diags)
	return out
}

// Mutexes returns the name-keyed mutex table.
func (e *Engine) Mutexes() map[string]*primitives.Mutex { return e.syncState.Mutexes }

// Semaphores returns the name-keyed semaphore table.
func (e *Engine) Semaphores() map[string]*primitives.Semaphore { return e.syncState.Semaphores }

// IsMutex reports whether name refers to a mutex-capacity resource.
func (e *Engine) IsMutex(name string) bool { return e.syncState.IsMutex(name) }
