package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/halvard/cyclesim/internal/model"
)

// Scenario defines a conformance test scenario: a set of processes,
// resources, and a synchronization action script, the discipline and
// mode to run them under, and the assertions the resulting execution
// history and event log must satisfy.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Algorithm names the scheduling discipline: FIFO, SJF, SRT,
	// Priority, or RR.
	Algorithm string `yaml:"algorithm"`

	// RRQuantum is the Round Robin quantum. Ignored for other
	// disciplines; defaults to 1 if unset.
	RRQuantum int `yaml:"rr_quantum,omitempty"`

	// Mode selects SCHEDULING or SYNCHRONIZATION.
	Mode string `yaml:"mode"`

	// MaxCycles caps how many ticks Run will drive the engine before
	// giving up, as a safety net against scenarios that never finish.
	MaxCycles int `yaml:"max_cycles,omitempty"`

	Processes []ProcessSpec  `yaml:"processes,omitempty"`
	Resources []ResourceSpec `yaml:"resources,omitempty"`
	Actions   []ActionSpec   `yaml:"actions,omitempty"`

	// Assertions validate the final execution history, event log, and
	// average waiting time.
	Assertions []Assertion `yaml:"assertions"`
}

// ProcessSpec is a scenario's YAML description of one process.
type ProcessSpec struct {
	ID       string `yaml:"id"`
	Burst    int    `yaml:"burst"`
	Arrival  int    `yaml:"arrival"`
	Priority int    `yaml:"priority"`
}

// ResourceSpec is a scenario's YAML description of one resource.
type ResourceSpec struct {
	Name     string `yaml:"name"`
	Capacity int    `yaml:"capacity"`
}

// ActionSpec is a scenario's YAML description of one scripted action.
type ActionSpec struct {
	Process  string `yaml:"process"`
	Type     string `yaml:"type"`
	Resource string `yaml:"resource"`
	Cycle    int    `yaml:"cycle"`
}

// Assertion validates the run result. Type selects which fields apply.
type Assertion struct {
	// Type is one of history_equals, average_waiting_time,
	// event_contains, event_count, event_order.
	Type string `yaml:"type"`

	// Expected is the full execution history (used by history_equals).
	Expected []string `yaml:"expected,omitempty"`

	// Value and Tolerance bound an expected float (used by
	// average_waiting_time).
	Value     float64 `yaml:"value,omitempty"`
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Resource, Action, and Outcome filter matching events (used by
	// event_contains and event_count).
	Resource string `yaml:"resource,omitempty"`
	Action   string `yaml:"action,omitempty"`
	Outcome  string `yaml:"outcome,omitempty"`
	Count    int    `yaml:"count,omitempty"`

	// Sequence is an ordered list of "resource:action" pairs that must
	// appear, in that relative order, within the event log (used by
	// event_order).
	Sequence []string `yaml:"sequence,omitempty"`
}

// Assertion type constants.
const (
	AssertHistoryEquals      = "history_equals"
	AssertAverageWaitingTime = "average_waiting_time"
	AssertEventContains      = "event_contains"
	AssertEventCount         = "event_count"
	AssertEventOrder         = "event_order"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Algorithm == "" {
		return fmt.Errorf("algorithm is required")
	}
	if s.Mode != "SCHEDULING" && s.Mode != "SYNCHRONIZATION" {
		return fmt.Errorf("mode must be SCHEDULING or SYNCHRONIZATION, got %q", s.Mode)
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, p := range s.Processes {
		if p.ID == "" {
			return fmt.Errorf("processes[%d]: id is required", i)
		}
	}

	for i, r := range s.Resources {
		if r.Name == "" {
			return fmt.Errorf("resources[%d]: name is required", i)
		}
		if r.Capacity < 0 {
			return fmt.Errorf("resources[%d]: capacity must be >= 0", i)
		}
	}

	for i, a := range s.Actions {
		if a.Process == "" {
			return fmt.Errorf("actions[%d]: process is required", i)
		}
		if !model.ValidActionTypes[model.ActionType(a.Type)] {
			return fmt.Errorf("actions[%d]: unknown action type %q", i, a.Type)
		}
		if a.Resource == "" {
			return fmt.Errorf("actions[%d]: resource is required", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}

	return nil
}

func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertHistoryEquals:
		if len(a.Expected) == 0 {
			return fmt.Errorf("assertions[%d]: expected is required for history_equals", index)
		}
	case AssertAverageWaitingTime:
		// Value 0 is a legitimate expectation; nothing further required.
	case AssertEventContains, AssertEventCount:
		if a.Resource == "" {
			return fmt.Errorf("assertions[%d]: resource is required for %s", index, a.Type)
		}
	case AssertEventOrder:
		if len(a.Sequence) == 0 {
			return fmt.Errorf("assertions[%d]: sequence is required for event_order", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
