package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smoketest/internal/workload"
)

// writeScenario writes a scenario YAML file into dir and returns its path.
func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "test.yaml", `
name: test_scenario
description: "Scenario for load validation"
workload:
  iterations: 10
  length: 3
  stride: 2
run_token: token-test
assertions:
  - type: sum_equals
    sum: 45
  - type: element_at
    index: 2
    value: 4
`)

	sc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", sc.Name)
	assert.Equal(t, "Scenario for load validation", sc.Description)
	assert.Equal(t, "token-test", sc.RunToken)

	require.NotNil(t, sc.Workload.Iterations)
	assert.Equal(t, int64(10), *sc.Workload.Iterations)
	require.NotNil(t, sc.Workload.Length)
	assert.Equal(t, 3, *sc.Workload.Length)
	require.NotNil(t, sc.Workload.Stride)
	assert.Equal(t, 2, *sc.Workload.Stride)

	require.Len(t, sc.Assertions, 2)
	assert.Equal(t, AssertSumEquals, sc.Assertions[0].Type)
	require.NotNil(t, sc.Assertions[0].Sum)
	assert.Equal(t, int64(45), *sc.Assertions[0].Sum)
	assert.Equal(t, AssertElementAt, sc.Assertions[1].Type)
	require.NotNil(t, sc.Assertions[1].Index)
	assert.Equal(t, 2, *sc.Assertions[1].Index)
}

func TestLoad_DefaultsApplied(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "test.yaml", `
name: defaults
description: "No workload section"
assertions:
  - type: stride_holds
`)

	sc, err := Load(path)
	require.NoError(t, err)

	assert.Nil(t, sc.Workload.Iterations)
	assert.Empty(t, sc.RunToken)

	spec := sc.Workload.Resolve()
	assert.Equal(t, workload.DefaultSpec(), spec)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoad_MissingName(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "test.yaml", `
description: "Missing name"
assertions:
  - type: stride_holds
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestLoad_MissingDescription(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "test.yaml", `
name: test
assertions:
  - type: stride_holds
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description is required")
}

func TestLoad_MissingAssertions(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "test.yaml", `
name: test
description: "No assertions"
assertions: []
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assertions list is required")
}

func TestLoad_UnknownField(t *testing.T) {
	dir := t.TempDir()
	// "assertion" (singular) is a typo for "assertions".
	path := writeScenario(t, dir, "test.yaml", `
name: test
description: "Typo in field name"
assertion:
  - type: stride_holds
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoad_InvalidWorkload(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "test.yaml", `
name: test
description: "Zero stride"
workload:
  stride: 0
assertions:
  - type: stride_holds
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stride must be positive")
}

func TestLoad_AssertionValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "missing type",
			yaml: `
name: test
description: "Assertion without type"
assertions:
  - sum: 45
`,
			wantErr: "type is required",
		},
		{
			name: "sum_equals missing sum",
			yaml: `
name: test
description: "sum_equals without sum"
assertions:
  - type: sum_equals
`,
			wantErr: "sum is required for sum_equals",
		},
		{
			name: "length_equals missing length",
			yaml: `
name: test
description: "length_equals without length"
assertions:
  - type: length_equals
`,
			wantErr: "length is required for length_equals",
		},
		{
			name: "length_equals negative length",
			yaml: `
name: test
description: "length_equals with negative length"
assertions:
  - type: length_equals
    length: -1
`,
			wantErr: "length must be non-negative",
		},
		{
			name: "element_at missing index",
			yaml: `
name: test
description: "element_at without index"
assertions:
  - type: element_at
    value: 4
`,
			wantErr: "index is required for element_at",
		},
		{
			name: "element_at negative index",
			yaml: `
name: test
description: "element_at with negative index"
assertions:
  - type: element_at
    index: -1
    value: 4
`,
			wantErr: "index must be non-negative",
		},
		{
			name: "element_at missing value",
			yaml: `
name: test
description: "element_at without value"
assertions:
  - type: element_at
    index: 2
`,
			wantErr: "value is required for element_at",
		},
		{
			name: "output_line missing line",
			yaml: `
name: test
description: "output_line without line"
assertions:
  - type: output_line
`,
			wantErr: "line is required for output_line",
		},
		{
			name: "unknown type",
			yaml: `
name: test
description: "Unknown assertion type"
assertions:
  - type: trace_contains
`,
			wantErr: `unknown assertion type "trace_contains"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeScenario(t, dir, "test.yaml", tt.yaml)

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWorkloadSpec_Resolve(t *testing.T) {
	iterations := int64(42)
	length := 7

	w := WorkloadSpec{Iterations: &iterations, Length: &length}
	spec := w.Resolve()

	assert.Equal(t, int64(42), spec.Iterations)
	assert.Equal(t, 7, spec.Length)
	// Stride falls back to the default.
	assert.Equal(t, workload.DefaultStride, spec.Stride)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "b_second.yaml", `
name: second
description: "Second scenario"
assertions:
  - type: stride_holds
`)
	writeScenario(t, dir, "a_first.yaml", `
name: first
description: "First scenario"
assertions:
  - type: stride_holds
`)
	writeScenario(t, dir, "notes.txt", "not a scenario")

	scenarios, err := LoadDir(dir)
	require.NoError(t, err)

	require.Len(t, scenarios, 2)
	assert.Equal(t, "first", scenarios[0].Name)
	assert.Equal(t, "second", scenarios[1].Name)
}

func TestLoadDir_Fixtures(t *testing.T) {
	scenarios, err := LoadDir("testdata/scenarios")
	require.NoError(t, err)

	require.Len(t, scenarios, 3)
	assert.Equal(t, "default_run", scenarios[0].Name)
	assert.Equal(t, "empty_sequence", scenarios[1].Name)
	assert.Equal(t, "small_run", scenarios[2].Name)
}

func TestLoadDir_MissingDir(t *testing.T) {
	_, err := LoadDir("/nonexistent/scenarios")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario directory")
}

func TestLoadDir_InvalidScenario(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "broken.yaml", `
description: "No name"
assertions:
  - type: stride_holds
`)

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
	assert.Contains(t, err.Error(), "name is required")
}
