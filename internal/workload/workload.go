package workload

import "fmt"

// Default workload dimensions. A run with these values is the canonical
// run and must reproduce the reference output byte for byte.
const (
	// DefaultIterations is the accumulation range: the sum covers
	// [0, DefaultIterations).
	DefaultIterations int64 = 1_000_000

	// DefaultLength is the number of elements in the filled sequence.
	DefaultLength = 1000

	// DefaultStride is the multiplier applied to each sequence index.
	DefaultStride = 2
)

// Spec describes one workload: how far to accumulate and how much memory
// to touch. The zero value is not runnable (its stride is 0); use
// DefaultSpec or set every field explicitly.
type Spec struct {
	// Iterations is the exclusive upper bound of the accumulation loop.
	Iterations int64 `json:"iterations"`

	// Length is the number of elements in the sequence.
	Length int `json:"length"`

	// Stride is the multiplier for sequence elements: element i holds
	// Stride*i.
	Stride int `json:"stride"`
}

// DefaultSpec returns the canonical workload.
func DefaultSpec() Spec {
	return Spec{
		Iterations: DefaultIterations,
		Length:     DefaultLength,
		Stride:     DefaultStride,
	}
}

// Validate checks that the spec describes a runnable workload.
// Arithmetic overflow at absurd iteration counts is deliberately not
// validated; it is not a supported operating range.
func (s Spec) Validate() error {
	if s.Iterations < 0 {
		return fmt.Errorf("iterations must be non-negative, got %d", s.Iterations)
	}
	if s.Length < 0 {
		return fmt.Errorf("length must be non-negative, got %d", s.Length)
	}
	if s.Stride < 1 {
		return fmt.Errorf("stride must be positive, got %d", s.Stride)
	}
	return nil
}

// ExpectedSum returns the closed-form sum of [0, Iterations): n(n-1)/2.
//
// The runner never uses this value. It exists so checks can compare the
// looped accumulator against an independent derivation.
func (s Spec) ExpectedSum() int64 {
	n := s.Iterations
	return n * (n - 1) / 2
}

// ExpectedLast returns the value of the final sequence element, or 0 for
// an empty sequence.
func (s Spec) ExpectedLast() int64 {
	if s.Length == 0 {
		return 0
	}
	return int64(s.Stride) * int64(s.Length-1)
}
