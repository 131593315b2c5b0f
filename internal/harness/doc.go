// Package harness provides conformance testing for the cycle-stepped
// scheduling and synchronization engine.
//
// The harness loads a scenario describing processes, resources, and a
// synchronization action script, drives the engine to completion, and
// validates the resulting execution history and event log as
// executable contract tests.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: fifo_single_file
//	description: "FIFO runs ready processes in arrival order"
//	algorithm: FIFO
//	mode: SCHEDULING
//	processes:
//	  - id: A
//	    burst: 3
//	    arrival: 0
//	    priority: 0
//	  - id: B
//	    burst: 2
//	    arrival: 1
//	    priority: 0
//	assertions:
//	  - type: history_equals
//	    expected: [A, A, A, B, B]
//	  - type: average_waiting_time
//	    value: 1.0
//	    tolerance: 0.01
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - history_equals: Verifies the full per-cycle execution history
//   - average_waiting_time: Verifies the completion-based average waiting time within a tolerance
//   - event_contains: Verifies a matching event appears in the synchronization log
//   - event_count: Verifies the number of matching events in the synchronization log
//   - event_order: Verifies "resource:action" pairs appear in relative order
//
// # Determinism
//
// The engine is single-threaded and tick-driven: identical scenario
// inputs always produce an identical execution history and event log,
// which is what makes golden-file comparison meaningful.
//
// # Usage
//
// Load a scenario and run it:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/fifo_single_file.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, msg := range harness.EvaluateAssertions(result, scenario.Assertions) {
//	    log.Println(msg)
//	}
package harness
