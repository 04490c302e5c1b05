package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"smoketest/internal/scenario"
	"smoketest/internal/workload"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // check filter (glob pattern)
}

// CheckResult holds the result of a single conformance check.
type CheckResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// CheckReport holds the overall check result.
type CheckReport struct {
	Checks []CheckResult `json:"checks"`
	Passed int           `json:"passed"`
	Failed int           `json:"failed"`
	Total  int           `json:"total"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check [scenarios-dir]",
		Short: "Run conformance checks",
		Long: `Run conformance checks against the smoke workload.

The built-in checks verify the reference workload: the accumulated
sum, the sequence contents, the exact output lines, the step trace,
and fingerprint reproducibility. With a scenarios directory, YAML
scenario files run as additional checks with golden file comparison.

Exit codes:
  0 - All checks passed
  1 - One or more checks failed
  2 - Command error (invalid paths, etc.)

Examples:
  smoketest check
  smoketest check ./scenarios
  smoketest check ./scenarios --filter "sum-*"
  smoketest check ./scenarios --update
  smoketest check --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenariosDir := ""
			if len(args) == 1 {
				scenariosDir = args[0]
			}
			return runChecks(opts, scenariosDir, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter checks by glob pattern")

	return cmd
}

func runChecks(opts *CheckOptions, scenariosDir string, cmd *cobra.Command) error {
	configureLogging(opts.RootOptions, cmd)

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	report := CheckReport{Checks: []CheckResult{}}

	// Built-in checks always run.
	for _, check := range builtinChecks() {
		matched, err := matchesFilter(check.name, opts.Filter)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid filter pattern", err)
		}
		if !matched {
			continue
		}

		result := CheckResult{Name: check.name, Pass: true}
		if errs := check.fn(); len(errs) > 0 {
			result.Pass = false
			result.Errors = errs
		}
		appendCheck(&report, result, opts, cmd)
	}

	// Scenario checks run when a directory is given.
	if scenariosDir != "" {
		if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
			return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
		}

		scenarioFiles, err := findScenarioFiles(scenariosDir, opts.Filter)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to find scenarios", err)
		}
		formatter.VerboseLog("found %d scenario file(s) in %s", len(scenarioFiles), scenariosDir)

		for _, scenarioFile := range scenarioFiles {
			result := runScenarioCheck(scenarioFile, opts)
			appendCheck(&report, result, opts, cmd)
		}
	}

	// Output results
	if opts.Format == "json" {
		return outputCheckJSON(cmd, report)
	}

	return outputCheckText(cmd, report)
}

// appendCheck records a result and prints the per-check line in text mode.
func appendCheck(report *CheckReport, result CheckResult, opts *CheckOptions, cmd *cobra.Command) {
	report.Checks = append(report.Checks, result)
	report.Total++
	if result.Pass {
		report.Passed++
	} else {
		report.Failed++
	}

	if opts.Format == "json" {
		return
	}

	w := cmd.OutOrStdout()
	if result.Pass {
		fmt.Fprintf(w, "✓ %s\n", result.Name)
		return
	}
	fmt.Fprintf(w, "✗ %s\n", result.Name)
	for _, e := range result.Errors {
		for _, line := range strings.Split(strings.TrimRight(e, "\n"), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

// matchesFilter applies the glob filter to a check name.
// An empty filter matches everything.
func matchesFilter(name, filter string) (bool, error) {
	if filter == "" {
		return true, nil
	}
	return filepath.Match(filter, name)
}

// builtinCheck is a named conformance check over the reference workload.
type builtinCheck struct {
	name string
	fn   func() []string
}

// referenceLines are the expected output lines for the reference
// workload. Deliberately spelled out here rather than taken from
// Report.Lines, so the check compares two independent sources.
var referenceLines = []string{
	"Starting simple test program...",
	"Sum: 499999500000",
	"Vector size: 1000",
	"Test completed successfully!",
}

var fingerprintPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// builtinChecks returns the checks that validate the reference
// workload without any scenario files.
func builtinChecks() []builtinCheck {
	return []builtinCheck{
		{name: "sum", fn: checkSum},
		{name: "sequence", fn: checkSequence},
		{name: "output", fn: checkOutput},
		{name: "steps", fn: checkSteps},
		{name: "fingerprint", fn: checkFingerprint},
	}
}

// checkSum verifies the accumulated sum of the reference range.
func checkSum() []string {
	var errs []string

	sum := workload.Accumulate(workload.DefaultIterations)
	if sum != 499_999_500_000 {
		errs = append(errs, fmt.Sprintf("sum of reference range: got %d, want 499999500000", sum))
	}
	if want := workload.DefaultSpec().ExpectedSum(); sum != want {
		errs = append(errs, fmt.Sprintf("sum does not match closed form: got %d, want %d", sum, want))
	}

	return errs
}

// checkSequence verifies every element of the reference sequence.
func checkSequence() []string {
	var errs []string

	seq := workload.FillSequence(workload.DefaultLength, workload.DefaultStride)
	if len(seq) != workload.DefaultLength {
		errs = append(errs, fmt.Sprintf("sequence length: got %d, want %d", len(seq), workload.DefaultLength))
		return errs
	}
	for i, v := range seq {
		if want := int64(workload.DefaultStride) * int64(i); v != want {
			errs = append(errs, fmt.Sprintf("element[%d]: got %d, want %d", i, v, want))
			if len(errs) >= 5 {
				errs = append(errs, "(further element mismatches suppressed)")
				break
			}
		}
	}

	return errs
}

// checkOutput runs the reference workload and compares its output
// lines against the independent reference copy.
func checkOutput() []string {
	rep, err := workload.NewRunner(workload.DefaultSpec()).Run()
	if err != nil {
		return []string{fmt.Sprintf("workload failed: %v", err)}
	}

	lines := rep.Lines()
	if len(lines) != len(referenceLines) {
		return []string{fmt.Sprintf("output lines: got %d, want %d", len(lines), len(referenceLines))}
	}

	var errs []string
	for i, want := range referenceLines {
		if lines[i] != want {
			errs = append(errs, fmt.Sprintf("line %d: got %q, want %q", i+1, lines[i], want))
		}
	}
	return errs
}

// checkSteps verifies the phase order and clock sequence of a run.
func checkSteps() []string {
	rep, err := workload.NewRunner(workload.DefaultSpec()).Run()
	if err != nil {
		return []string{fmt.Sprintf("workload failed: %v", err)}
	}

	wantPhases := []string{
		workload.PhaseStart,
		workload.PhaseAccumulate,
		workload.PhaseFill,
		workload.PhaseComplete,
	}
	if len(rep.Steps) != len(wantPhases) {
		return []string{fmt.Sprintf("steps: got %d, want %d", len(rep.Steps), len(wantPhases))}
	}

	var errs []string
	for i, step := range rep.Steps {
		if step.Phase != wantPhases[i] {
			errs = append(errs, fmt.Sprintf("step %d phase: got %q, want %q", i+1, step.Phase, wantPhases[i]))
		}
		if step.Seq != int64(i+1) {
			errs = append(errs, fmt.Sprintf("step %d seq: got %d, want %d", i+1, step.Seq, i+1))
		}
	}
	return errs
}

// checkFingerprint verifies that two independent runs of the
// reference workload land on the same fingerprint.
func checkFingerprint() []string {
	first, err := workload.NewRunner(workload.DefaultSpec()).Run()
	if err != nil {
		return []string{fmt.Sprintf("workload failed: %v", err)}
	}
	second, err := workload.NewRunner(workload.DefaultSpec()).Run()
	if err != nil {
		return []string{fmt.Sprintf("workload failed: %v", err)}
	}

	var errs []string
	if !fingerprintPattern.MatchString(first.Fingerprint) {
		errs = append(errs, fmt.Sprintf("fingerprint is not 64 hex chars: %q", first.Fingerprint))
	}
	if first.Fingerprint != second.Fingerprint {
		errs = append(errs, fmt.Sprintf("fingerprints differ across runs: %s vs %s",
			first.Fingerprint, second.Fingerprint))
	}
	return errs
}

// findScenarioFiles finds all YAML scenario files in a directory.
func findScenarioFiles(dir string, filter string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		// Only process .yaml and .yml files
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		// Apply filter if specified
		if filter != "" {
			base := filepath.Base(path)
			name := strings.TrimSuffix(base, ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// runScenarioCheck executes a single scenario file as a check.
func runScenarioCheck(scenarioFile string, opts *CheckOptions) CheckResult {
	sc, err := scenario.Load(scenarioFile)
	if err != nil {
		return CheckResult{
			Name:   filepath.Base(scenarioFile),
			Pass:   false,
			Errors: []string{fmt.Sprintf("%s: failed to load scenario: %v", CodeScenarioLoad, err)},
		}
	}

	result, err := scenario.Run(sc)
	if err != nil {
		return CheckResult{
			Name:   sc.Name,
			Pass:   false,
			Errors: []string{fmt.Sprintf("%s: execution failed: %v", CodeWorkload, err)},
		}
	}

	// Handle golden file comparison
	if opts.Update {
		if err := updateGoldenFile(sc, result, scenarioFile); err != nil {
			return CheckResult{
				Name:   sc.Name,
				Pass:   false,
				Errors: []string{fmt.Sprintf("failed to update golden file: %v", err)},
			}
		}
		return CheckResult{Name: sc.Name + " (golden updated)", Pass: true}
	}

	checkResult := CheckResult{Name: sc.Name, Pass: result.Pass, Errors: result.Errors}

	goldenPath := goldenFilePath(scenarioFile)
	if _, err := os.Stat(goldenPath); os.IsNotExist(err) {
		// No golden file - assertion-based validation only.
		return checkResult
	}

	match, err := compareWithGolden(sc, result, goldenPath)
	if err != nil {
		checkResult.Pass = false
		checkResult.Errors = append(checkResult.Errors,
			fmt.Sprintf("golden comparison failed: %v", err))
		return checkResult
	}
	if !match {
		checkResult.Pass = false
		checkResult.Errors = append(checkResult.Errors,
			"snapshot does not match golden file (run with --update to regenerate)")
	}

	return checkResult
}

// goldenFilePath returns the path to the golden file for a scenario.
func goldenFilePath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

// scenarioSnapshot marshals the canonical snapshot bytes for a
// scenario result, matching the layout the scenario package uses for
// its own golden fixtures.
func scenarioSnapshot(sc *scenario.Scenario, result *scenario.Result) ([]byte, error) {
	token := sc.RunToken
	if token == "" {
		token = scenario.DefaultRunToken
	}

	snapshot := map[string]any{
		"scenario_name": sc.Name,
		"run_token":     token,
		"report":        result.Report.CanonicalMap(),
	}

	return workload.MarshalCanonical(snapshot)
}

// updateGoldenFile writes the current snapshot as the golden file.
func updateGoldenFile(sc *scenario.Scenario, result *scenario.Result, scenarioFile string) error {
	goldenPath := goldenFilePath(scenarioFile)

	goldenDir := filepath.Dir(goldenPath)
	if err := os.MkdirAll(goldenDir, 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}

	data, err := scenarioSnapshot(sc, result)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.WriteFile(goldenPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}

	return nil
}

// compareWithGolden compares the result snapshot against the golden file.
func compareWithGolden(sc *scenario.Scenario, result *scenario.Result, goldenPath string) (bool, error) {
	goldenData, err := os.ReadFile(goldenPath)
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}

	currentData, err := scenarioSnapshot(sc, result)
	if err != nil {
		return false, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	return string(goldenData) == string(currentData), nil
}

// outputCheckJSON outputs the check report as JSON.
func outputCheckJSON(cmd *cobra.Command, report CheckReport) error {
	status := "ok"
	if report.Failed > 0 {
		status = "error"
	}

	response := CLIResponse{
		Status: status,
		Data:   report,
	}

	if report.Failed > 0 {
		response.Error = &CLIError{
			Code:    CodeCheckFailed,
			Message: fmt.Sprintf("%d check(s) failed", report.Failed),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if report.Failed > 0 {
		// Check failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d check(s) failed", report.Failed))
	}
	return nil
}

// outputCheckText outputs the check report as text.
func outputCheckText(cmd *cobra.Command, report CheckReport) error {
	w := cmd.OutOrStdout()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Check Summary: %d passed, %d failed, %d total\n", report.Passed, report.Failed, report.Total)

	if report.Failed > 0 {
		// Check failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d check(s) failed", report.Failed))
	}

	fmt.Fprintln(w, "✓ All checks passed")
	return nil
}
