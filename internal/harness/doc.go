// Package harness runs conformance scenarios against the evaluator, the
// keypad state machine and the history store.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: chained_keys
//	description: "A result can be reused as the next left operand"
//	mode: deg
//	steps:
//	  - eval: "sin(30)"
//	    expect: "0.5"
//	  - keys: "2 + 3 ="
//	    expect: "5"
//	  - keys: "* 4 ="
//	    mode: rad
//	    expect: "20"
//	assertions:
//	  - type: history_count
//	    count: 3
//	  - type: history_contains
//	    formula: "5*4"
//	    result: "20"
//
// An eval step evaluates one expression the way "etk eval" does and records
// successes. A keys step presses a key script on a keypad whose state
// carries over between keys steps.
//
// # Deterministic Testing
//
// Every run uses a fresh in-memory history store with sequential entry IDs
// (entry-1, entry-2, ...), so the trace and the final history serialize
// to identical bytes on every run and can be compared with golden files.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/basic.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
