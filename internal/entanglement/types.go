// Package entanglement loads canonicalized geometric patterns and
// matches them against a board under the grid's D4 symmetry group,
// emitting forced-cell deductions (spec.md §4.4). It mirrors the role
// sudoku-api/internal/puzzles.Loader plays for static puzzle data: a
// JSON-backed, singleton-capable loader, generalized from one fixed
// record shape to the three pattern dialects the source ships.
package entanglement

import "starbattle/internal/model"

// Coord is a (row, col) pair, used at the pattern-file boundary and
// inside the matching algorithm where working in two dimensions is
// more natural than flat cell ids (spec.md §3 "Coordinate identifiers").
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// pairCoord decodes the file format's [row, col] tuples.
type pairCoord [2]int

func (c pairCoord) Coord() Coord { return Coord{Row: c[0], Col: c[1]} }

// PairPattern is one entry of a pair/composite file (spec.md §3).
type PairPattern struct {
	InitialStars        []Coord `json:"-"`
	CompatibleSolutions int     `json:"compatible_solutions"`
	ForcedEmpty         []Coord `json:"-"`
	ForcedStar          []Coord `json:"-"`
	Fingerprint         string  `json:"-"`
}

// pairPatternJSON is PairPattern's raw JSON shape, using [2]int tuples
// instead of the Coord struct the rest of the package works with.
type pairPatternJSON struct {
	InitialStars        []pairCoord `json:"initial_stars"`
	CompatibleSolutions int         `json:"compatible_solutions"`
	ForcedEmpty         []pairCoord `json:"forced_empty"`
	ForcedStar          []pairCoord `json:"forced_star"`
}

// pairFileJSON is a pair/composite dialect file (spec.md §4.4, §6).
type pairFileJSON struct {
	BoardSize        int                `json:"board_size"`
	StarsPerRow      int                `json:"stars_per_row"`
	StarsPerColumn   int                `json:"stars_per_column"`
	InitialStarCount int                `json:"initial_star_count"`
	TotalSolutions   int                `json:"total_solutions"`
	Patterns         []pairPatternJSON  `json:"patterns"`
}

// pureFileJSON is the pure-entanglement dialect: same pattern shape as
// pair files, under a different top-level key (spec.md §4.4).
type pureFileJSON struct {
	BoardSize        int               `json:"board_size"`
	InitialStarCount int               `json:"initial_star_count"`
	PureTemplates    []pairPatternJSON `json:"pure_entanglement_templates"`
}

// RuleKind records which list of a triple/rule file a rule came from:
// RuleUnconstrained for unconstrained_rules, RuleConstrained for
// constrained_rules (whose rules may be gated by constraint features).
type RuleKind int

const (
	RuleUnconstrained RuleKind = iota
	RuleConstrained
)

// Rule is one entry of a triple/rule file (spec.md §3).
type Rule struct {
	Kind               RuleKind
	CanonicalStars     []Coord
	CanonicalCandidate Coord // the cell named by canonical_candidate or canonical_forced_empty
	ConstraintFeatures []string
	Forced             bool
	Occurrences        int
	Fingerprint        string
}

type ruleJSON struct {
	CanonicalStars     []pairCoord `json:"canonical_stars"`
	CanonicalCandidate *pairCoord  `json:"canonical_candidate,omitempty"`
	CanonicalForcedEmpty *pairCoord `json:"canonical_forced_empty,omitempty"`
	ConstraintFeatures []string    `json:"constraint_features"`
	Forced             bool        `json:"forced"`
	Occurrences        int         `json:"occurrences"`
}

type ruleFileJSON struct {
	BoardSize         int        `json:"board_size"`
	InitialStars      int        `json:"initial_stars"`
	UnconstrainedRules []ruleJSON `json:"unconstrained_rules"`
	ConstrainedRules   []ruleJSON `json:"constrained_rules"`
}

// Dialect classifies a loaded pattern file (spec.md §4.4 "Loading").
type Dialect int

const (
	DialectPair Dialect = iota
	DialectPure
	DialectRule
)

// LoadedSpec is a pattern file plus its derived filtering metadata
// (spec.md §3).
type LoadedSpec struct {
	ID               string
	Dialect          Dialect
	BoardSize        int
	StarsPerLine     int
	InitialStarCount int
	HasPair          bool
	HasTriple        bool
	HasConstrained   bool

	PairPatterns []PairPattern
	Rules        []Rule
}

// PatternMapping is a specific way a canonical pattern can be placed
// onto the board (spec.md §3).
type PatternMapping struct {
	Transform   model.D4Transformation
	OffsetRow   int
	OffsetCol   int
	MappedStars []Coord
}
