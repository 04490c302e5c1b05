package scenario

import (
	"fmt"

	"smoketest/internal/workload"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if all assertions hold.
	Pass bool `json:"pass"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Report is the workload report produced by the run.
	Report *workload.Report `json:"report"`

	// Sequence holds the generated elements for element assertions.
	// Excluded from serialized output; the report carries the length.
	Sequence []int64 `json:"-"`
}

// NewResult creates a new passing result.
// Used as the starting point for scenario execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Run executes a scenario and returns the result.
//
// Each scenario runs a fresh workload for isolation. The run token is
// fixed (scenario.RunToken or DefaultRunToken) so repeated executions
// produce identical canonical snapshots.
//
// Execution flow:
// 1. Resolve the workload spec with defaults applied
// 2. Run the workload with a fixed token generator
// 3. Regenerate the sequence for element assertions
// 4. Evaluate assertions and collect failures
func Run(sc *Scenario) (*Result, error) {
	spec := sc.Workload.Resolve()

	token := sc.RunToken
	if token == "" {
		token = DefaultRunToken
	}

	runner := workload.NewRunner(spec,
		workload.WithTokenGenerator(workload.NewFixedGenerator(token)),
	)

	rep, err := runner.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run workload: %w", err)
	}

	result := NewResult()
	result.Report = rep
	// The report carries only the sequence length; rebuild the
	// elements so element_at and stride_holds can inspect them.
	result.Sequence = workload.FillSequence(spec.Length, spec.Stride)

	for _, msg := range EvaluateAssertions(result, sc.Assertions, spec) {
		result.AddError(msg)
	}

	return result, nil
}
