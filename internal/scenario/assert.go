package scenario

import (
	"fmt"
	"strings"

	"smoketest/internal/workload"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string          // Assertion type for categorization
	Expected string          // Human-readable expected outcome
	Actual   string          // Human-readable actual outcome
	Steps    []workload.Step // Execution steps for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)

	// Expected vs Actual (most important info)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Steps) > 0 {
		fmt.Fprintf(&buf, "\nExecution steps:\n")
		for _, step := range e.Steps {
			fmt.Fprintf(&buf, "  [%d] %s\n", step.Seq, step.Phase)
		}
	}

	return buf.String()
}

// assertSumEquals checks the accumulated sum against the expected value.
func assertSumEquals(rep *workload.Report, assertion Assertion) error {
	if rep.Sum == *assertion.Sum {
		return nil
	}

	return &AssertionError{
		Type:     AssertSumEquals,
		Expected: fmt.Sprintf("sum %d", *assertion.Sum),
		Actual:   fmt.Sprintf("sum %d", rep.Sum),
		Steps:    rep.Steps,
	}
}

// assertLengthEquals checks the sequence length against the expected value.
func assertLengthEquals(rep *workload.Report, assertion Assertion) error {
	if rep.SequenceLen == *assertion.Length {
		return nil
	}

	return &AssertionError{
		Type:     AssertLengthEquals,
		Expected: fmt.Sprintf("sequence length %d", *assertion.Length),
		Actual:   fmt.Sprintf("sequence length %d", rep.SequenceLen),
		Steps:    rep.Steps,
	}
}

// assertElementAt checks a single sequence element by index.
func assertElementAt(seq []int64, rep *workload.Report, assertion Assertion) error {
	index := *assertion.Index
	if index >= len(seq) {
		return &AssertionError{
			Type:     AssertElementAt,
			Expected: fmt.Sprintf("element at index %d", index),
			Actual:   fmt.Sprintf("sequence has only %d elements", len(seq)),
			Steps:    rep.Steps,
		}
	}

	if seq[index] == *assertion.Value {
		return nil
	}

	return &AssertionError{
		Type:     AssertElementAt,
		Expected: fmt.Sprintf("element[%d] = %d", index, *assertion.Value),
		Actual:   fmt.Sprintf("element[%d] = %d", index, seq[index]),
		Steps:    rep.Steps,
	}
}

// assertStrideHolds checks that every element equals its index times
// the stride. An empty sequence trivially satisfies the property.
func assertStrideHolds(seq []int64, spec workload.Spec, rep *workload.Report) error {
	for i, v := range seq {
		want := int64(spec.Stride) * int64(i)
		if v != want {
			return &AssertionError{
				Type:     AssertStrideHolds,
				Expected: fmt.Sprintf("element[%d] = %d (stride %d)", i, want, spec.Stride),
				Actual:   fmt.Sprintf("element[%d] = %d", i, v),
				Steps:    rep.Steps,
			}
		}
	}
	return nil
}

// assertOutputLine checks that the expected line appears in the
// report output. The match is exact, not substring.
func assertOutputLine(rep *workload.Report, assertion Assertion) error {
	lines := rep.Lines()
	for _, line := range lines {
		if line == assertion.Line {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertOutputLine,
		Expected: fmt.Sprintf("output line %q", assertion.Line),
		Actual:   fmt.Sprintf("not found in %d output lines", len(lines)),
		Steps:    rep.Steps,
	}
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, spec workload.Spec) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertSumEquals:
			err = assertSumEquals(result.Report, assertion)
		case AssertLengthEquals:
			err = assertLengthEquals(result.Report, assertion)
		case AssertElementAt:
			err = assertElementAt(result.Sequence, result.Report, assertion)
		case AssertStrideHolds:
			err = assertStrideHolds(result.Sequence, spec, result.Report)
		case AssertOutputLine:
			err = assertOutputLine(result.Report, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
