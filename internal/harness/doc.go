// Package harness provides conformance testing for key generation and
// ranked lists.
//
// The harness resolves an alphabet, executes test scenarios against a fresh
// store, and validates every step's outcome and the final list state.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	alphabet: lower
//	specs:
//	  - ../alphabets/lower.cue
//	steps:
//	  - op: mudder
//	    a: a
//	    b: b
//	    expect:
//	      keys: [an]
//	  - op: create_list
//	    list: todo
//	  - op: append
//	    list: todo
//	    id: first
//	    value: "buy milk"
//	  - op: move
//	    list: todo
//	    item: first
//	    expect:
//	      key: f
//	assertions:
//	  - type: list_order
//	    list: todo
//	    values: ["buy milk"]
//	  - type: final_state
//	    table: items
//	    where: { id: first }
//	    expect: { value: "buy milk" }
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - trace_contains: Verifies an op appears in the trace with matching args
//   - trace_order: Verifies ops appear in specified order
//   - trace_count: Verifies an op appears exactly N times
//   - list_order: Verifies a list's values in key order
//   - keys_increasing: Verifies a list's keys are unique and ascending
//   - final_state: Queries a store table and verifies expected values
//
// # Deterministic Testing
//
// The harness uses:
//   - Caller-chosen item IDs (step id), falling back to item-1, item-2, ...
//   - A logical seq clock starting at 0 (ranking.NewClockAt)
//   - In-memory SQLite database (isolated per test)
//
// This ensures identical traces across runs for golden file comparison.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/todo.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
