package workload

import (
	"fmt"
	"io"
	"log/slog"
)

// Runner executes one workload and assembles the report.
//
// A Runner is single-use: Run consumes the clock, so a second Run on the
// same Runner would continue seq numbers from the first. Create a fresh
// Runner per execution.
type Runner struct {
	spec   Spec
	tokens TokenGenerator
	logger *slog.Logger
	clock  *Clock
}

// Option configures a Runner.
type Option func(*Runner)

// WithTokenGenerator overrides the run token source. Tests and scenario
// runs pass a FixedGenerator for deterministic tokens.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(r *Runner) {
		if g != nil {
			r.tokens = g
		}
	}
}

// WithLogger sets the diagnostic logger. The runner logs phase progress
// at debug level; by default diagnostics are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a runner for the given spec.
func NewRunner(spec Spec, opts ...Option) *Runner {
	r := &Runner{
		spec:   spec,
		tokens: UUIDv7Generator{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:  NewClock(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the workload phases in order and returns the report.
//
// Execution is synchronous and runs to completion on the calling
// goroutine. The workload has no suspension points and no cancellation
// semantics, so Run takes no context.
func (r *Runner) Run() (*Report, error) {
	if err := r.spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workload spec: %w", err)
	}

	report := &Report{
		Token: r.tokens.Generate(),
		Spec:  r.spec,
	}

	report.Steps = append(report.Steps, Step{
		Seq:   r.clock.Next(),
		Phase: PhaseStart,
		Detail: map[string]int64{
			"iterations": r.spec.Iterations,
			"length":     int64(r.spec.Length),
			"stride":     int64(r.spec.Stride),
		},
	})
	r.logger.Debug("workload starting",
		"token", report.Token,
		"iterations", r.spec.Iterations,
		"length", r.spec.Length,
		"stride", r.spec.Stride,
	)

	report.Sum = Accumulate(r.spec.Iterations)
	report.Steps = append(report.Steps, Step{
		Seq:   r.clock.Next(),
		Phase: PhaseAccumulate,
		Detail: map[string]int64{
			"iterations": r.spec.Iterations,
			"sum":        report.Sum,
		},
	})
	r.logger.Debug("accumulation complete", "sum", report.Sum)

	seq := FillSequence(r.spec.Length, r.spec.Stride)
	report.SequenceLen = len(seq)
	fillDetail := map[string]int64{
		"length": int64(report.SequenceLen),
		"stride": int64(r.spec.Stride),
	}
	// "last" is present only for non-empty sequences.
	if report.SequenceLen > 0 {
		fillDetail["last"] = seq[report.SequenceLen-1]
	}
	report.Steps = append(report.Steps, Step{
		Seq:    r.clock.Next(),
		Phase:  PhaseFill,
		Detail: fillDetail,
	})
	r.logger.Debug("sequence filled", "length", report.SequenceLen)

	report.Steps = append(report.Steps, Step{
		Seq:   r.clock.Next(),
		Phase: PhaseComplete,
	})

	fingerprint, err := report.ComputeFingerprint()
	if err != nil {
		return nil, err
	}
	report.Fingerprint = fingerprint
	r.logger.Debug("workload complete",
		"token", report.Token,
		"fingerprint", fingerprint,
	)

	return report, nil
}
