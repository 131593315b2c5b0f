package harness

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TraceSnapshot captures the complete result of a scenario execution
// for deterministic golden-file comparison.
type TraceSnapshot struct {
	ScenarioName       string     `json:"scenario_name"`
	History            []string   `json:"history"`
	Log                []LogEntry `json:"log"`
	AverageWaitingTime float64    `json:"average_waiting_time"`
}

// LogEntry is one synchronization event, flattened with its process
// identifier resolved so golden files read as plain text rather than
// opaque indices.
type LogEntry struct {
	Cycle    int    `json:"cycle"`
	Process  string `json:"process"`
	Resource string `json:"resource"`
	Outcome  string `json:"outcome"`
	Action   string `json:"action"`
}

func newTraceSnapshot(scenarioName string, result *Result) TraceSnapshot {
	log := make([]LogEntry, len(result.Log))
	for i, e := range result.Log {
		log[i] = LogEntry{
			Cycle:    e.Cycle,
			Process:  result.ProcessID(e.ProcessIndex),
			Resource: e.Resource,
			Outcome:  string(e.Outcome),
			Action:   string(e.Action),
		}
	}
	return TraceSnapshot{
		ScenarioName:       scenarioName,
		History:            result.History,
		Log:                log,
		AverageWaitingTime: result.AverageWaitingTime,
	}
}

// RunWithGolden executes a scenario and compares its trace snapshot
// against a golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already-computed result's trace snapshot
// against a golden file, without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := newTraceSnapshot(scenarioName, result)
	traceJSON, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal trace snapshot: %w", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
