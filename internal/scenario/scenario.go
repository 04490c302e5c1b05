package scenario

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"smoketest/internal/workload"
)

// DefaultRunToken is assigned to scenarios that do not specify a
// run_token. A fixed token keeps golden file comparison deterministic.
const DefaultRunToken = "scenario-token-default"

// Scenario defines a conformance test scenario.
// Scenarios execute a smoke workload and assert on the resulting
// report and sequence.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Workload overrides the reference workload parameters.
	// Omitted fields fall back to the defaults.
	Workload WorkloadSpec `yaml:"workload,omitempty"`

	// Assertions validate the report produced by the run.
	// Supported types: sum_equals, length_equals, element_at,
	// stride_holds, output_line.
	Assertions []Assertion `yaml:"assertions"`

	// RunToken is an optional fixed run token for deterministic tests.
	// If empty, defaults to DefaultRunToken for golden file comparison.
	RunToken string `yaml:"run_token,omitempty"`
}

// WorkloadSpec holds optional workload parameter overrides.
// Pointer fields distinguish "not set" from an explicit zero.
type WorkloadSpec struct {
	// Iterations is the accumulation loop bound.
	Iterations *int64 `yaml:"iterations,omitempty"`

	// Length is the sequence length.
	Length *int `yaml:"length,omitempty"`

	// Stride is the per-index multiplier for sequence elements.
	Stride *int `yaml:"stride,omitempty"`
}

// Resolve produces a concrete workload spec, applying defaults for
// any field the scenario left unset.
func (w WorkloadSpec) Resolve() workload.Spec {
	spec := workload.DefaultSpec()
	if w.Iterations != nil {
		spec.Iterations = *w.Iterations
	}
	if w.Length != nil {
		spec.Length = *w.Length
	}
	if w.Stride != nil {
		spec.Stride = *w.Stride
	}
	return spec
}

// Assertion validates one property of the report.
type Assertion struct {
	// Type specifies the assertion type:
	// - "sum_equals": accumulated sum equals Sum
	// - "length_equals": sequence length equals Length
	// - "element_at": sequence element at Index equals Value
	// - "stride_holds": every element equals index times stride
	// - "output_line": Line appears in the report output
	Type string `yaml:"type"`

	// Sum is the expected accumulated sum (used by sum_equals).
	Sum *int64 `yaml:"sum,omitempty"`

	// Length is the expected sequence length (used by length_equals).
	Length *int `yaml:"length,omitempty"`

	// Index is the sequence position to inspect (used by element_at).
	Index *int `yaml:"index,omitempty"`

	// Value is the expected element value (used by element_at).
	Value *int64 `yaml:"value,omitempty"`

	// Line is the expected output line (used by output_line).
	Line string `yaml:"line,omitempty"`
}

// Assertion type constants.
const (
	AssertSumEquals    = "sum_equals"
	AssertLengthEquals = "length_equals"
	AssertElementAt    = "element_at"
	AssertStrideHolds  = "stride_holds"
	AssertOutputLine   = "output_line"
)

// Load reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&sc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &sc, nil
}

// LoadDir loads every scenario file in a directory, sorted by file
// name for stable ordering. Files without a .yaml or .yml extension
// are skipped.
func LoadDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		sc, err := Load(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, sc)
	}

	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	// Validate the resolved workload so a broken scenario fails at
	// load time rather than mid-run.
	if err := s.Workload.Resolve().Validate(); err != nil {
		return fmt.Errorf("workload: %w", err)
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertSumEquals:
		if a.Sum == nil {
			return fmt.Errorf("assertions[%d]: sum is required for sum_equals", index)
		}
	case AssertLengthEquals:
		if a.Length == nil {
			return fmt.Errorf("assertions[%d]: length is required for length_equals", index)
		}
		if *a.Length < 0 {
			return fmt.Errorf("assertions[%d]: length must be non-negative for length_equals", index)
		}
	case AssertElementAt:
		if a.Index == nil {
			return fmt.Errorf("assertions[%d]: index is required for element_at", index)
		}
		if *a.Index < 0 {
			return fmt.Errorf("assertions[%d]: index must be non-negative for element_at", index)
		}
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for element_at", index)
		}
	case AssertStrideHolds:
		// No fields beyond the type.
	case AssertOutputLine:
		if a.Line == "" {
			return fmt.Errorf("assertions[%d]: line is required for output_line", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
