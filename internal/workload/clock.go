package workload

import "sync/atomic"

// Clock is the monotonic logical clock that stamps report steps.
//
// Each step carries a strictly increasing seq from this clock, so step
// order is explicit in the report rather than implied by slice position,
// and repeated runs of the same spec produce identical seq values.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
// The runner is single-threaded, so in practice there is one caller.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0. The first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and advances the clock.
// Calls are linearizable: each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the latest sequence number without advancing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
