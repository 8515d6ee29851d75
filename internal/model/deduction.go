package model

// DeductionKind distinguishes the two Deduction variants from spec.md §3.
type DeductionKind int

const (
	ForceStar DeductionKind = iota
	ForceEmpty
	ExclusiveSet
)

// Deduction is either a single-cell force (ForceStar/ForceEmpty) or an
// exclusive-set framing that constrains downstream reasoning without
// fixing any one cell (spec.md §3).
type Deduction struct {
	Kind  DeductionKind
	Cell  int // valid for ForceStar/ForceEmpty
	Cells []int // valid for ExclusiveSet
	StarsRequired int // valid for ExclusiveSet
}

// CellDeduction builds a single-cell ForceStar/ForceEmpty deduction.
func CellDeduction(cell int, kind DeductionKind) Deduction {
	return Deduction{Kind: kind, Cell: cell}
}

// ExclusiveSetDeduction builds an "exactly starsRequired stars among
// cells" framing.
func ExclusiveSetDeduction(cells []int, starsRequired int) Deduction {
	return Deduction{Kind: ExclusiveSet, Cells: append([]int(nil), cells...), StarsRequired: starsRequired}
}

// Apply applies d to b, honoring the terminal-transition and adjacency
// invariants (spec.md §4.1). ExclusiveSet deductions carry no direct
// board mutation; applying one is a no-op that exists for API symmetry.
func (d Deduction) Apply(b *BoardState) error {
	switch d.Kind {
	case ForceStar:
		return b.SetCell(d.Cell, Star)
	case ForceEmpty:
		return b.SetCell(d.Cell, Empty)
	case ExclusiveSet:
		return nil
	default:
		return nil
	}
}

// IsNoOp reports whether applying d to b would be a no-op because the
// target cell is already in the stated terminal state (spec.md §8,
// "Deduplication").
func (d Deduction) IsNoOp(b *BoardState) bool {
	switch d.Kind {
	case ForceStar:
		return b.Cell(d.Cell) == Star
	case ForceEmpty:
		return b.Cell(d.Cell) == Empty
	default:
		return false
	}
}

// ConstraintSource identifies which stats-layer rule produced a Constraint.
type ConstraintSource int

const (
	SourceRow ConstraintSource = iota
	SourceColumn
	SourceRegion
	SourceRegionBand
	SourceBlock
	SourceBlockForced
)

// Constraint is the stats layer's normalized (cells, min, max) tuple
// (spec.md §3). Invariant after normalization: 0 <= MinStars <= MaxStars
// <= len(Cells).
type Constraint struct {
	Cells       []int
	MinStars    int
	MaxStars    int
	Source      ConstraintSource
	Description string
}

// SchemaApplication is one schema's output: a set of deductions plus the
// structured explanation that justifies them (spec.md §3).
type SchemaApplication struct {
	SchemaID    string
	Params      map[string]any
	Deductions  []Deduction
	Explanation ExplanationInstance
}

// ExplanationStepKind is the closed set of step tags from spec.md §6.
type ExplanationStepKind string

const (
	StepCountStarsInBand           ExplanationStepKind = "countStarsInBand"
	StepCountRegionQuota           ExplanationStepKind = "countRegionQuota"
	StepCountRemainingStars        ExplanationStepKind = "countRemainingStars"
	StepIdentifyCandidateBlocks    ExplanationStepKind = "identifyCandidateBlocks"
	StepApplyPigeonhole            ExplanationStepKind = "applyPigeonhole"
	StepFixRegionBandQuota         ExplanationStepKind = "fixRegionBandQuota"
	StepAssignCageStars            ExplanationStepKind = "assignCageStars"
	StepEliminateOtherRegionCells  ExplanationStepKind = "eliminateOtherRegionCells"
)

// ExplanationStep is one tagged step in an ExplanationInstance. Entities
// is a loosely typed bag; the renderer (internal/explain) knows the
// mandatory fields for each Kind (spec.md §4.3.2, §6).
type ExplanationStep struct {
	Kind     ExplanationStepKind
	Entities map[string]any
}

// ExplanationInstance is the step tree a schema emits; the renderer is
// the only component that turns it into prose (spec.md §3, §4.3.2).
type ExplanationInstance struct {
	SchemaID string
	Steps    []ExplanationStep
}
