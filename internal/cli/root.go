package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"smoketest/internal/workload"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the smoketest CLI.
//
// Invoked without a subcommand, the root runs the reference workload
// and prints the reference output lines. Subcommands expose the same
// workload with parameter overrides, conformance checks, and the step
// trace.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "smoketest",
		Short: "Deterministic smoke workload",
		Long: `Run a deterministic smoke workload and verify its output.

The workload accumulates a sum over a fixed iteration range, fills a
sequence where each element is its index times a stride, and reports
the results. Every run of the same parameters produces identical
output, a stable step trace, and a stable fingerprint.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare invocation runs the reference workload.
			return runWorkload(&RunOptions{
				RootOptions: opts,
				Iterations:  workload.DefaultIterations,
				Length:      workload.DefaultLength,
				Stride:      workload.DefaultStride,
			}, cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// configureLogging wires the default slog logger to the command's
// stderr. Diagnostics default to warnings only so the reference
// output stays clean; verbose mode opens the debug firehose.
func configureLogging(opts *RootOptions, cmd *cobra.Command) *slog.Logger {
	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
