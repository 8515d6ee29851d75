// Package constants collects the fixed limits and status strings shared
// across the deduction engine and its transports.
package constants

// Solver limits.
const (
	// MaxAutoSolveSteps bounds the auto-solve loop so a stalled board
	// cannot spin forever.
	MaxAutoSolveSteps = 500

	// QuotaCandidateCap is the candidate-count threshold above which
	// quotaInBand bails out to the conservative lower bound (spec.md §4.3.1).
	QuotaCandidateCap = 16

	// QuotaNodeBudget bounds the backtracking search inside quotaInBand.
	QuotaNodeBudget = 200_000

	// ConstrainedUnitCandidateCap bounds the entanglement heuristic's
	// constrained-unit search (spec.md §4.4). Ad-hoc and tunable per spec.
	ConstrainedUnitCandidateCap = 4

	// CompletionEnumerationCap bounds the completion-analysis cache's
	// backtracking search used to confirm a deduction does not dead-end
	// the board.
	CompletionEnumerationCap = 200_000

	// QuotaRecursionDepthCap bounds the A1/A2 <-> quotaInBand mutual
	// recursion (spec.md §9).
	QuotaRecursionDepthCap = 1
)

// Auto-solve outcomes.
const (
	StatusSolved     = "solved"
	StatusNoProgress = "no_progress"
	StatusViolation  = "violation"
	StatusCancelled  = "cancelled"
)

// Cell states.
const (
	StateUnknown = "unknown"
	StateStar    = "star"
	StateEmpty   = "empty"
)

// Schema priority groups (spec.md §4.3).
const (
	PriorityCandidateCounting = 10 // E1, E2
	PriorityBandBudget        = 20 // A1-A4
	PriorityExclusiveArea     = 30 // B1-B4, D3
	PriorityCage              = 40 // C1-C4
	PriorityIntersection      = 50 // D1, D2
	PriorityMultiRegion       = 60 // F1, F2
	PrioritySubsetSqueeze     = 70
	PriorityEntanglement      = 80
	PrioritySpecialized       = 90 // pressured-Ts, five-crosses-five-empty, shared-row-column, two-by-two
)

// APIVersion is reported by the HTTP health endpoint.
const APIVersion = "0.1.0"

// DefaultPort is used when PORT is unset.
const DefaultPort = "8080"
