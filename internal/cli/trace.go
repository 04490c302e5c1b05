package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"smoketest/internal/workload"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Iterations int64
	Length     int
	Stride     int
	Token      string // optional - fixed run token

	// Tokens allows overriding the run token generator (for testing).
	Tokens workload.TokenGenerator
}

// TraceStep represents a single step in the trace timeline.
type TraceStep struct {
	Seq    int64            `json:"seq"`
	Phase  string           `json:"phase"`
	Detail map[string]int64 `json:"detail,omitempty"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Token       string      `json:"token"`
	Fingerprint string      `json:"fingerprint"`
	Timeline    []TraceStep `json:"timeline"`
	Stats       TraceStats  `json:"stats"`
}

// TraceStats holds summary statistics for the trace.
type TraceStats struct {
	TotalSteps int  `json:"total_steps"`
	Complete   bool `json:"complete"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the step trace for a run",
		Long: `Execute the smoke workload and show its step trace.

The workload is deterministic, so tracing a fresh run shows exactly
what any run with the same parameters did: each phase in order,
stamped with its logical clock sequence and measurements.

The output includes:
- Timeline: Chronological list of phase steps with their details
- Stats: Summary statistics and the run fingerprint

Examples:
  smoketest trace
  smoketest trace --iterations 1000 --length 10
  smoketest trace --token bench-42 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.Iterations, "iterations", workload.DefaultIterations, "accumulation loop bound")
	cmd.Flags().IntVar(&opts.Length, "length", workload.DefaultLength, "sequence length")
	cmd.Flags().IntVar(&opts.Stride, "stride", workload.DefaultStride, "per-index element multiplier")
	cmd.Flags().StringVar(&opts.Token, "token", "", "fixed run token (default: generated UUIDv7)")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	logger := configureLogging(opts.RootOptions, cmd)

	spec := workload.Spec{
		Iterations: opts.Iterations,
		Length:     opts.Length,
		Stride:     opts.Stride,
	}
	if err := spec.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid workload parameters", err)
	}

	runnerOpts := []workload.Option{workload.WithLogger(logger)}
	switch {
	case opts.Tokens != nil:
		runnerOpts = append(runnerOpts, workload.WithTokenGenerator(opts.Tokens))
	case opts.Token != "":
		runnerOpts = append(runnerOpts, workload.WithTokenGenerator(workload.NewFixedGenerator(opts.Token)))
	}

	rep, err := workload.NewRunner(spec, runnerOpts...).Run()
	if err != nil {
		return WrapExitError(ExitFailure, "workload failed", err)
	}

	result := buildTraceResult(rep)

	if opts.Format == "json" {
		return outputTraceJSON(cmd, result)
	}

	return outputTraceText(cmd, result, opts.Verbose)
}

// buildTraceResult converts a report into the trace output shape.
func buildTraceResult(rep *workload.Report) TraceResult {
	timeline := make([]TraceStep, len(rep.Steps))
	for i, step := range rep.Steps {
		timeline[i] = TraceStep{
			Seq:    step.Seq,
			Phase:  step.Phase,
			Detail: step.Detail,
		}
	}

	complete := len(rep.Steps) > 0 &&
		rep.Steps[len(rep.Steps)-1].Phase == workload.PhaseComplete

	return TraceResult{
		Token:       rep.Token,
		Fingerprint: rep.Fingerprint,
		Timeline:    timeline,
		Stats: TraceStats{
			TotalSteps: len(timeline),
			Complete:   complete,
		},
	}
}

// outputTraceJSON outputs the trace result as JSON.
func outputTraceJSON(cmd *cobra.Command, result TraceResult) error {
	response := CLIResponse{
		Status:  "ok",
		Data:    result,
		TraceID: result.Token,
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// outputTraceText outputs the trace result as text.
func outputTraceText(cmd *cobra.Command, result TraceResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Trace for Run: %s\n", result.Token)
	fmt.Fprintf(w, "Status: %s\n", completeStatus(result.Stats.Complete))
	fmt.Fprintln(w)

	// Timeline section
	fmt.Fprintln(w, "=== Timeline ===")
	if len(result.Timeline) == 0 {
		fmt.Fprintln(w, "  (no steps)")
	} else {
		for _, step := range result.Timeline {
			formatTimelineStep(w, step, verbose)
		}
	}
	fmt.Fprintln(w)

	// Stats section
	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Total Steps: %d\n", result.Stats.TotalSteps)
	fmt.Fprintf(w, "  Fingerprint: %s\n", result.Fingerprint)

	return nil
}

// formatTimelineStep formats a single timeline step for text output.
func formatTimelineStep(w io.Writer, step TraceStep, verbose bool) {
	fmt.Fprintf(w, "  [%d] %s\n", step.Seq, strings.ToUpper(step.Phase))
	if verbose && len(step.Detail) > 0 {
		fmt.Fprintf(w, "       Detail: %s\n", formatDetail(step.Detail))
	}
}

// formatDetail formats a step detail map for display.
// Uses sorted keys to ensure deterministic output.
func formatDetail(detail map[string]int64) string {
	if len(detail) == 0 {
		return "{}"
	}

	// Sort keys for deterministic output
	keys := make([]string, 0, len(detail))
	for k := range detail {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, detail[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// completeStatus returns a human-readable completion status.
func completeStatus(isComplete bool) string {
	if isComplete {
		return "Complete"
	}
	return "Incomplete (missing complete phase)"
}
