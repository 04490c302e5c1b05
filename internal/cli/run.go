package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"smoketest/internal/workload"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Iterations int64
	Length     int
	Stride     int

	// Tokens allows overriding the run token generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	Tokens workload.TokenGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the smoke workload",
		Long: `Execute the smoke workload and print its output.

Without flags this is identical to invoking the bare binary: the
reference workload runs and prints the reference lines. Flags override
individual workload parameters.

Exit codes:
  0 - Workload completed
  1 - Workload execution failed
  2 - Command error (invalid parameters)

Examples:
  smoketest run
  smoketest run --iterations 1000 --length 10
  smoketest run --stride 3 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkload(opts, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.Iterations, "iterations", workload.DefaultIterations, "accumulation loop bound")
	cmd.Flags().IntVar(&opts.Length, "length", workload.DefaultLength, "sequence length")
	cmd.Flags().IntVar(&opts.Stride, "stride", workload.DefaultStride, "per-index element multiplier")

	return cmd
}

// runWorkload executes one workload and renders the report. The root
// command calls this with default parameters for the reference run.
func runWorkload(opts *RunOptions, cmd *cobra.Command) error {
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
	if opts.Tokens != nil {
		runnerOpts = append(runnerOpts, workload.WithTokenGenerator(opts.Tokens))
	}

	rep, err := workload.NewRunner(spec, runnerOpts...).Run()
	if err != nil {
		return WrapExitError(ExitFailure, "workload failed", err)
	}

	if opts.Format == "json" {
		return outputRunJSON(cmd, rep)
	}

	return outputRunText(cmd, rep)
}

// outputRunText prints the report's output lines.
//
// For the reference workload this emits, byte for byte:
//
//	Starting simple test program...
//	Sum: 499999500000
//	Vector size: 1000
//	Test completed successfully!
func outputRunText(cmd *cobra.Command, rep *workload.Report) error {
	w := cmd.OutOrStdout()
	for _, line := range rep.Lines() {
		fmt.Fprintln(w, line)
	}
	return nil
}

// outputRunJSON emits the report in the JSON envelope. The run token
// doubles as the trace correlation ID.
func outputRunJSON(cmd *cobra.Command, rep *workload.Report) error {
	response := CLIResponse{
		Status:  "ok",
		Data:    rep,
		TraceID: rep.Token,
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}
