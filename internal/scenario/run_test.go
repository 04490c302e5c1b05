package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_DefaultWorkload(t *testing.T) {
	sc := &Scenario{
		Name:        "default_run",
		Description: "Reference workload with reference assertions",
		Assertions: []Assertion{
			{Type: AssertSumEquals, Sum: int64p(499_999_500_000)},
			{Type: AssertLengthEquals, Length: intp(1000)},
			{Type: AssertElementAt, Index: intp(999), Value: int64p(1998)},
			{Type: AssertStrideHolds},
			{Type: AssertOutputLine, Line: "Starting simple test program..."},
			{Type: AssertOutputLine, Line: "Sum: 499999500000"},
			{Type: AssertOutputLine, Line: "Vector size: 1000"},
			{Type: AssertOutputLine, Line: "Test completed successfully!"},
		},
	}

	result, err := Run(sc)
	require.NoError(t, err)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
	require.NotNil(t, result.Report)
	assert.Equal(t, int64(499_999_500_000), result.Report.Sum)
	assert.Equal(t, 1000, result.Report.SequenceLen)
	assert.Len(t, result.Sequence, 1000)
}

func TestRun_DefaultToken(t *testing.T) {
	sc := &Scenario{
		Name:        "token_default",
		Description: "Token falls back to the deterministic default",
		Assertions:  []Assertion{{Type: AssertStrideHolds}},
	}

	result, err := Run(sc)
	require.NoError(t, err)
	assert.Equal(t, DefaultRunToken, result.Report.Token)
}

func TestRun_ExplicitToken(t *testing.T) {
	sc := &Scenario{
		Name:        "token_explicit",
		Description: "Scenario-specified token is used verbatim",
		RunToken:    "token-explicit-1",
		Assertions:  []Assertion{{Type: AssertStrideHolds}},
	}

	result, err := Run(sc)
	require.NoError(t, err)
	assert.Equal(t, "token-explicit-1", result.Report.Token)
}

func TestRun_SmallWorkload(t *testing.T) {
	iterations := int64(10)
	length := 3
	stride := 5

	sc := &Scenario{
		Name:        "small_run",
		Description: "Small workload with stride override",
		Workload: WorkloadSpec{
			Iterations: &iterations,
			Length:     &length,
			Stride:     &stride,
		},
		Assertions: []Assertion{
			{Type: AssertSumEquals, Sum: int64p(45)},
			{Type: AssertLengthEquals, Length: intp(3)},
			{Type: AssertElementAt, Index: intp(2), Value: int64p(10)},
			{Type: AssertStrideHolds},
		},
	}

	result, err := Run(sc)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, []int64{0, 5, 10}, result.Sequence)
}

func TestRun_FailingAssertion(t *testing.T) {
	sc := &Scenario{
		Name:        "failing",
		Description: "Wrong expected sum",
		Assertions: []Assertion{
			{Type: AssertSumEquals, Sum: int64p(1)},
		},
	}

	result, err := Run(sc)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "sum_equals")
	// The report is still attached for debugging.
	require.NotNil(t, result.Report)
	assert.Equal(t, int64(499_999_500_000), result.Report.Sum)
}

func TestRun_InvalidWorkload(t *testing.T) {
	stride := 0
	sc := &Scenario{
		Name:        "invalid",
		Description: "Zero stride bypassing load validation",
		Workload:    WorkloadSpec{Stride: &stride},
		Assertions:  []Assertion{{Type: AssertStrideHolds}},
	}

	result, err := Run(sc)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "failed to run workload")
}

func TestRun_EmptySequence(t *testing.T) {
	length := 0
	sc := &Scenario{
		Name:        "empty_sequence",
		Description: "Zero-length sequence",
		Workload:    WorkloadSpec{Length: &length},
		Assertions: []Assertion{
			{Type: AssertLengthEquals, Length: intp(0)},
			{Type: AssertStrideHolds},
		},
	}

	result, err := Run(sc)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Sequence)
}

func TestRun_Reproducible(t *testing.T) {
	sc := &Scenario{
		Name:        "repeat",
		Description: "Two executions produce identical snapshots",
		Assertions:  []Assertion{{Type: AssertStrideHolds}},
	}

	first, err := Run(sc)
	require.NoError(t, err)
	second, err := Run(sc)
	require.NoError(t, err)

	firstSnap, err := first.Report.Snapshot()
	require.NoError(t, err)
	secondSnap, err := second.Report.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, firstSnap, secondSnap)
	assert.Equal(t, first.Report.Fingerprint, second.Report.Fingerprint)
}
