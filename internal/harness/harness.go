package harness

import (
	"fmt"

	"github.com/halvard/cyclesim/internal/engine"
	"github.com/halvard/cyclesim/internal/interpreter"
	"github.com/halvard/cyclesim/internal/model"
	"github.com/halvard/cyclesim/internal/scheduler"
)

// defaultMaxCycles bounds how long Run will drive a scenario that never
// reports itself finished, so a malformed scenario fails fast instead
// of looping forever.
const defaultMaxCycles = 10_000

// Result is everything a scenario run produced, for assertion
// evaluation and golden-file comparison.
type Result struct {
	History            []string
	Log                []model.Event
	Diagnostics        []interpreter.Diagnostic
	AverageWaitingTime float64

	// processIDs maps a process index back to its scenario identifier,
	// for event-log assertions that reference processes by name.
	processIDs []string
}

// ProcessID resolves a synchronization event's ProcessIndex back to
// its scenario identifier.
func (r *Result) ProcessID(index int) string {
	if index < 0 || index >= len(r.processIDs) {
		return ""
	}
	return r.processIDs[index]
}

// Run executes a scenario to completion (or until its max-cycles
// safety net trips) and returns the resulting history, event log, and
// diagnostics. It does not evaluate assertions; call EvaluateAssertions
// on the result to do that.
func Run(scenario *Scenario) (*Result, error) {
	algo, err := scheduler.ParseAlgorithm(scenario.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	quantum := scenario.RRQuantum
	if quantum == 0 {
		quantum = 1
	}

	processes := make([]model.Process, len(scenario.Processes))
	processIDs := make([]string, len(scenario.Processes))
	for i, p := range scenario.Processes {
		processes[i] = model.Process{ID: p.ID, Burst: p.Burst, Arrival: p.Arrival, Priority: p.Priority}
		processIDs[i] = p.ID
	}

	resources := make([]model.Resource, len(scenario.Resources))
	for i, r := range scenario.Resources {
		resources[i] = model.Resource{Name: r.Name, Capacity: r.Capacity}
	}

	actions := make([]model.Action, len(scenario.Actions))
	for i, a := range scenario.Actions {
		actions[i] = model.Action{ProcessID: a.Process, Type: model.ActionType(a.Type), Resource: a.Resource, Cycle: a.Cycle}
	}

	eng, err := engine.New(processes, resources, actions, algo, quantum)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	if scenario.Mode == "SYNCHRONIZATION" {
		eng.SetMode(engine.Synchronization)
	} else {
		eng.SetMode(engine.Scheduling)
	}

	maxCycles := scenario.MaxCycles
	if maxCycles == 0 {
		maxCycles = defaultMaxCycles
	}

	for i := 0; i < maxCycles && !eng.IsFinished(); i++ {
		eng.Tick()
	}
	if !eng.IsFinished() {
		return nil, fmt.Errorf("scenario %q: did not finish within %d cycles", scenario.Name, maxCycles)
	}

	return &Result{
		History:            eng.ExecutionHistory(),
		Log:                eng.SyncLog(),
		Diagnostics:        eng.Diagnostics(),
		AverageWaitingTime: eng.AverageWaitingTime(),
		processIDs:         processIDs,
	}, nil
}

// EvaluateAssertions checks each assertion against result and returns
// one human-readable message per failing assertion.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d] (%s): %v", i, a.Type, err))
		}
	}
	return failures
}

func evaluateAssertion(result *Result, a Assertion) error {
	switch a.Type {
	case AssertHistoryEquals:
		return assertHistoryEquals(result, a)
	case AssertAverageWaitingTime:
		return assertAverageWaitingTime(result, a)
	case AssertEventContains:
		return assertEventContains(result, a)
	case AssertEventCount:
		return assertEventCount(result, a)
	case AssertEventOrder:
		return assertEventOrder(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertHistoryEquals(result *Result, a Assertion) error {
	if len(result.History) != len(a.Expected) {
		return fmt.Errorf("history length %d != expected %d (got %v, want %v)",
			len(result.History), len(a.Expected), result.History, a.Expected)
	}
	for i := range a.Expected {
		if result.History[i] != a.Expected[i] {
			return fmt.Errorf("history[%d] = %q, want %q (got %v, want %v)",
				i, result.History[i], a.Expected[i], result.History, a.Expected)
		}
	}
	return nil
}

func assertAverageWaitingTime(result *Result, a Assertion) error {
	diff := result.AverageWaitingTime - a.Value
	if diff < 0 {
		diff = -diff
	}
	if diff > a.Tolerance {
		return fmt.Errorf("average waiting time %.4f not within %.4f of %.4f",
			result.AverageWaitingTime, a.Tolerance, a.Value)
	}
	return nil
}

func eventMatches(result *Result, e model.Event, a Assertion) bool {
	if a.Resource != "" && e.Resource != a.Resource {
		return false
	}
	if a.Action != "" && string(e.Action) != a.Action {
		return false
	}
	if a.Outcome != "" && string(e.Outcome) != a.Outcome {
		return false
	}
	return true
}

func assertEventContains(result *Result, a Assertion) error {
	for _, e := range result.Log {
		if eventMatches(result, e, a) {
			return nil
		}
	}
	return fmt.Errorf("no event matched resource=%q action=%q outcome=%q", a.Resource, a.Action, a.Outcome)
}

func assertEventCount(result *Result, a Assertion) error {
	n := 0
	for _, e := range result.Log {
		if eventMatches(result, e, a) {
			n++
		}
	}
	if n != a.Count {
		return fmt.Errorf("matched %d events, want %d (resource=%q action=%q outcome=%q)",
			n, a.Count, a.Resource, a.Action, a.Outcome)
	}
	return nil
}

func assertEventOrder(result *Result, a Assertion) error {
	pos := 0
	for _, want := range a.Sequence {
		found := false
		for ; pos < len(result.Log); pos++ {
			if fmt.Sprintf("%s:%s", result.Log[pos].Resource, result.Log[pos].Action) == want {
				found = true
				pos++
				break
			}
		}
		if !found {
			return fmt.Errorf("event %q not found in remaining log order", want)
		}
	}
	return nil
}
