package model

import "errors"

// Error taxonomy (spec.md §7). These are sentinels; call sites wrap them
// with fmt.Errorf("%w: ...", ErrX, ...) to attach detail without losing
// errors.Is-ability.
var (
	// ErrInvalidInput: puzzle string malformed, spec file unrecognized.
	// Surfaced to the caller; never mutates state.
	ErrInvalidInput = errors.New("starbattle: invalid input")

	// ErrInvalidRegionMap is the InvalidInput specialization for a region
	// map that does not partition the grid (spec.md §4.1).
	ErrInvalidRegionMap = errors.New("starbattle: invalid region map")

	// ErrInconsistentDeduction: a deduction would transition a terminal
	// cell, or would create an invalid board. Fatal: indicates an engine
	// bug and is asserted rather than expected to be recovered from by
	// schema authors (spec.md §7).
	ErrInconsistentDeduction = errors.New("starbattle: inconsistent deduction")

	// ErrNoProgress: the dispatcher exhausted every enabled technique
	// with no result. A normal, expected outcome.
	ErrNoProgress = errors.New("starbattle: no progress")

	// ErrCancelled propagates from a cancellation token/context.
	ErrCancelled = errors.New("starbattle: cancelled")
)
