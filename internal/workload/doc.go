// Package workload implements the deterministic smoke workload: a
// CPU-bound accumulation over a fixed range followed by a fixed-size
// memory fill, executed as logical-clock-stamped phases that assemble
// into a comparable report.
//
// DETERMINISM:
//
// Everything a report exposes for comparison is a pure function of the
// Spec. The runner stamps phases with a monotonic logical clock rather
// than wall-clock timestamps, run tokens are excluded from snapshots,
// and the fingerprint is a SHA-256 over a canonical JSON encoding with
// sorted keys and NFC-normalized strings. Two runs of the same spec
// therefore produce byte-identical snapshots and identical fingerprints,
// on any host.
//
// EXECUTION MODEL:
//
// The workload is single-threaded and synchronous. Run executes to
// completion on the calling goroutine: no goroutines are spawned, there
// are no suspension points, and there is no cancellation. The only
// failure modes are an invalid spec (rejected up front) and resource
// exhaustion, which is not guarded against at this scale.
package workload
