// Package scenario provides conformance testing for smoke workloads.
//
// The package loads scenario definitions, executes the workload they
// describe, and validates the resulting report as an executable
// contract test.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	workload:
//	  iterations: 1000000
//	  length: 1000
//	  stride: 2
//	assertions:
//	  - type: sum_equals
//	    sum: 499999500000
//	  - type: element_at
//	    index: 999
//	    value: 1998
//	  - type: output_line
//	    line: "Test completed successfully!"
//
// The workload section is optional; omitted fields fall back to the
// reference workload (one million iterations, a thousand elements,
// stride two).
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - sum_equals: Verifies the accumulated sum
//   - length_equals: Verifies the sequence length
//   - element_at: Verifies a single sequence element by index
//   - stride_holds: Verifies every element equals index times stride
//   - output_line: Verifies a line appears in the report output
//
// # Deterministic Testing
//
// All scenarios execute with a fixed run token so that repeated runs
// of the same scenario produce byte-identical canonical snapshots for
// golden file comparison. The token defaults to "scenario-token-default"
// when the scenario does not specify one.
//
// # Usage
//
// Load a scenario:
//
//	sc, err := scenario.Load("testdata/scenarios/default_run.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Execute it:
//
//	result, err := scenario.Run(sc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package scenario
