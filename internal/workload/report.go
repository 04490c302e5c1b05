package workload

import "fmt"

// Step phases, in execution order. Every successful run produces exactly
// these four phases; "complete" is only appended after the others.
const (
	PhaseStart      = "start"
	PhaseAccumulate = "accumulate"
	PhaseFill       = "fill"
	PhaseComplete   = "complete"
)

// Step is one logical-clock-stamped phase in a run's trace.
type Step struct {
	Seq    int64            `json:"seq"`
	Phase  string           `json:"phase"`
	Detail map[string]int64 `json:"detail,omitempty"`
}

// Report is the outcome of one workload run.
type Report struct {
	// Token correlates this run across logs, traces, and envelopes.
	// It is excluded from Snapshot and Fingerprint.
	Token string `json:"token"`

	// Spec is the workload that ran.
	Spec Spec `json:"spec"`

	// Sum is the looped accumulator value.
	Sum int64 `json:"sum"`

	// SequenceLen is the length of the filled sequence. Only the length
	// survives the run; the sequence itself is released with the runner.
	SequenceLen int `json:"sequence_len"`

	// Steps is the ordered phase trace.
	Steps []Step `json:"steps"`

	// Fingerprint is the hex SHA-256 of the canonical report core.
	Fingerprint string `json:"fingerprint"`
}

// Lines renders the report as the program's stdout lines.
//
// For the default spec these are the reference lines, byte for byte:
//
//	Starting simple test program...
//	Sum: 499999500000
//	Vector size: 1000
//	Test completed successfully!
func (r *Report) Lines() []string {
	return []string{
		"Starting simple test program...",
		fmt.Sprintf("Sum: %d", r.Sum),
		fmt.Sprintf("Vector size: %d", r.SequenceLen),
		"Test completed successfully!",
	}
}

// CanonicalMap returns the comparable content of the report as a
// canonical JSON value tree. Token and Fingerprint are excluded: the
// former varies per run, the latter is derived from this very tree.
func (r *Report) CanonicalMap() map[string]any {
	steps := make([]any, len(r.Steps))
	for i, step := range r.Steps {
		m := map[string]any{
			"seq":   step.Seq,
			"phase": step.Phase,
		}
		if step.Detail != nil {
			detail := make(map[string]any, len(step.Detail))
			for k, v := range step.Detail {
				detail[k] = v
			}
			m["detail"] = detail
		}
		steps[i] = m
	}

	return map[string]any{
		"version":      ReportVersion,
		"iterations":   r.Spec.Iterations,
		"length":       r.Spec.Length,
		"stride":       r.Spec.Stride,
		"sum":          r.Sum,
		"sequence_len": r.SequenceLen,
		"steps":        steps,
	}
}

// Snapshot returns the canonical JSON encoding of the report core: the
// byte-exact form used for golden comparison and fingerprinting.
func (r *Report) Snapshot() ([]byte, error) {
	return MarshalCanonical(r.CanonicalMap())
}

// ComputeFingerprint hashes the snapshot with domain separation.
// The result is a pure function of the report core, so two runs of the
// same spec fingerprint identically.
func (r *Report) ComputeFingerprint() (string, error) {
	snapshot, err := r.Snapshot()
	if err != nil {
		return "", fmt.Errorf("fingerprint report: %w", err)
	}
	return hashWithDomain(DomainReport, snapshot), nil
}
