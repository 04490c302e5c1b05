package scenario

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"smoketest/internal/workload"
)

// Snapshot captures the complete outcome of a scenario execution.
// All fields use canonical JSON serialization for deterministic comparison.
type Snapshot struct {
	ScenarioName string           `json:"scenario_name"`
	RunToken     string           `json:"run_token,omitempty"`
	Report       *workload.Report `json:"report"`
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical
// JSON serialization. The report contributes its canonical core, which
// already excludes the run token and fingerprint.
func (s *Snapshot) toCanonicalMap() map[string]any {
	result := map[string]any{
		"scenario_name": s.ScenarioName,
		"report":        s.Report.CanonicalMap(),
	}
	if s.RunToken != "" {
		result["run_token"] = s.RunToken
	}
	return result
}

// RunWithGolden executes a scenario and compares the outcome against a
// golden file. The golden file is stored in
// testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/scenario -update
//
// Golden files serve as the source of truth for expected scenario
// outcomes: any change to the report layout or the workload semantics
// shows up as a byte diff.
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match the
// golden file.
func RunWithGolden(t *testing.T, sc *Scenario) error {
	t.Helper()

	result, err := Run(sc)
	if err != nil {
		return err
	}

	token := sc.RunToken
	if token == "" {
		token = DefaultRunToken
	}

	snapshot := Snapshot{
		ScenarioName: sc.Name,
		RunToken:     token,
		Report:       result.Report,
	}

	canonical, err := workload.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, sc.Name, canonical)

	return nil
}

// AssertGolden compares an already-computed result against a golden
// file. Useful when a test has run a scenario itself and wants the
// byte comparison without re-running.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := Snapshot{
		ScenarioName: scenarioName,
		Report:       result.Report,
	}

	canonical, err := workload.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, canonical)

	return nil
}
