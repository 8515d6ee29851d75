package entanglement

import (
	"testing"

	"starbattle/internal/model"
)

func quadrantRegionMap() []int {
	return []int{
		1, 1, 2, 2,
		1, 1, 2, 2,
		3, 3, 4, 4,
		3, 3, 4, 4,
	}
}

func newQuadrantBoard(t *testing.T) (*model.PuzzleDefinition, *model.BoardState) {
	t.Helper()
	def, err := model.NewPuzzleDefinition(4, 1, 1, quadrantRegionMap())
	if err != nil {
		t.Fatalf("NewPuzzleDefinition: %v", err)
	}
	b, err := model.NewBoardState(def, nil)
	if err != nil {
		t.Fatalf("NewBoardState: %v", err)
	}
	return def, b
}

func TestFingerprintIsOrderIndependent(t *testing.T) {
	a := fingerprint([]Coord{{Row: 0, Col: 0}, {Row: 1, Col: 2}}, nil, []string{"b", "a"})
	b := fingerprint([]Coord{{Row: 1, Col: 2}, {Row: 0, Col: 0}}, nil, []string{"a", "b"})
	if a != b {
		t.Fatalf("fingerprint should be order-independent: %q vs %q", a, b)
	}
}

func TestFingerprintDiffersOnDifferentContent(t *testing.T) {
	a := fingerprint([]Coord{{Row: 0, Col: 0}}, nil, nil)
	b := fingerprint([]Coord{{Row: 0, Col: 1}}, nil, nil)
	if a == b {
		t.Fatal("distinct coordinate sets should not share a fingerprint")
	}
}

func TestMatchPairPatternsForcesEmptyOnIdentityMapping(t *testing.T) {
	def, b := newQuadrantBoard(t)
	if err := b.SetCell(def.CellID(0, 0), model.Star); err != nil {
		t.Fatalf("SetCell: %v", err)
	}

	pattern := PairPattern{
		InitialStars: []Coord{{Row: 0, Col: 0}},
		ForcedEmpty:  []Coord{{Row: 3, Col: 3}},
	}

	deds := MatchPairPatterns(def, b, []PairPattern{pattern})
	found := false
	for _, d := range deds {
		if d.Kind == model.ForceEmpty && d.Cell == def.CellID(3, 3) {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the identity mapping to force (3,3) empty")
	}
}

func TestMatchPairPatternsSkipsNonUnknownTargets(t *testing.T) {
	def, b := newQuadrantBoard(t)
	if err := b.SetCell(def.CellID(0, 0), model.Star); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	if err := b.SetCell(def.CellID(3, 3), model.Empty); err != nil {
		t.Fatalf("SetCell: %v", err)
	}

	pattern := PairPattern{
		InitialStars: []Coord{{Row: 0, Col: 0}},
		ForcedEmpty:  []Coord{{Row: 3, Col: 3}},
	}
	deds := MatchPairPatterns(def, b, []PairPattern{pattern})
	for _, d := range deds {
		if d.Cell == def.CellID(3, 3) {
			t.Fatal("a cell already Empty should not be re-deduced")
		}
	}
}

func TestMatchRulesUnconstrainedForcesCandidateEmpty(t *testing.T) {
	def, b := newQuadrantBoard(t)
	if err := b.SetCell(def.CellID(0, 0), model.Star); err != nil {
		t.Fatalf("SetCell: %v", err)
	}

	rule := Rule{
		Kind:               RuleUnconstrained,
		CanonicalStars:     []Coord{{Row: 0, Col: 0}},
		CanonicalCandidate: Coord{Row: 1, Col: 1},
	}
	deds := MatchRules(def, b, []Rule{rule}, nil)
	found := false
	for _, d := range deds {
		if d.Kind == model.ForceEmpty && d.Cell == def.CellID(1, 1) {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the unconstrained rule to force (1,1) empty")
	}
}

func TestMatchRulesConstrainedRequiresEvaluator(t *testing.T) {
	def, b := newQuadrantBoard(t)
	if err := b.SetCell(def.CellID(0, 0), model.Star); err != nil {
		t.Fatalf("SetCell: %v", err)
	}

	rule := Rule{
		Kind:               RuleConstrained,
		CanonicalStars:     []Coord{{Row: 0, Col: 0}},
		CanonicalCandidate: Coord{Row: 1, Col: 1},
		ConstraintFeatures: []string{"always-true"},
	}
	if deds := MatchRules(def, b, []Rule{rule}, nil); len(deds) != 0 {
		t.Fatalf("a constrained rule with no evaluator registered should produce nothing, got %v", deds)
	}

	always := func(name string, state *model.BoardState, candidateCell int, mappedStars []int) bool { return true }
	deds := MatchRules(def, b, []Rule{rule}, always)
	found := false
	for _, d := range deds {
		if d.Cell == def.CellID(1, 1) {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the constrained rule to fire once every feature evaluates true")
	}
}

func TestMatchRulesConstrainedSkippedWhenFeatureFalse(t *testing.T) {
	def, b := newQuadrantBoard(t)
	if err := b.SetCell(def.CellID(0, 0), model.Star); err != nil {
		t.Fatalf("SetCell: %v", err)
	}

	rule := Rule{
		Kind:               RuleConstrained,
		CanonicalStars:     []Coord{{Row: 0, Col: 0}},
		CanonicalCandidate: Coord{Row: 1, Col: 1},
		ConstraintFeatures: []string{"never-true"},
	}
	never := func(name string, state *model.BoardState, candidateCell int, mappedStars []int) bool { return false }
	if deds := MatchRules(def, b, []Rule{rule}, never); len(deds) != 0 {
		t.Fatalf("expected no deductions when a constraint feature evaluates false, got %v", deds)
	}
}
