package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"starbattle/internal/entanglement"
	"starbattle/internal/model"
	"starbattle/internal/schema"
)

func quadrantRegionMap() []int {
	return []int{
		1, 1, 2, 2,
		1, 1, 2, 2,
		3, 3, 4, 4,
		3, 3, 4, 4,
	}
}

func newQuadrantBoard(t *testing.T) *model.BoardState {
	t.Helper()
	def, err := model.NewPuzzleDefinition(4, 1, 1, quadrantRegionMap())
	if err != nil {
		t.Fatalf("NewPuzzleDefinition: %v", err)
	}
	b, err := model.NewBoardState(def, nil)
	if err != nil {
		t.Fatalf("NewBoardState: %v", err)
	}
	return b
}

func newTestEngine() *Engine {
	return New(schema.NewRegistry(), nil, nil)
}

// newTestEngineNoHeuristic disables the constrained-unit heuristic so
// tests about the lettered schema families aren't affected by its
// independent two-ply contradiction search.
func newTestEngineNoHeuristic() *Engine {
	eng := newTestEngine()
	eng.ConstrainedCap = 0
	return eng
}

func TestFindNextHintNilOnFreshBoard(t *testing.T) {
	b := newQuadrantBoard(t)
	eng := newTestEngineNoHeuristic()

	hint, err := eng.FindNextHint(context.Background(), b)
	if err != nil {
		t.Fatalf("FindNextHint: %v", err)
	}
	if hint != nil {
		t.Fatalf("expected no hint on a wide-open board, got %+v", hint)
	}
}

func TestFindNextHintRespectsCancellation(t *testing.T) {
	b := newQuadrantBoard(t)
	eng := newTestEngine()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.FindNextHint(ctx, b)
	if err != model.ErrCancelled {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestFindNextHintAndApplyForceStar(t *testing.T) {
	b := newQuadrantBoard(t)
	// Close off row 1's other three cells so its single remaining star
	// has exactly one eligible slot.
	for _, rc := range [][2]int{{1, 0}, {1, 2}, {1, 3}} {
		if err := b.SetCell(b.Def.CellID(rc[0], rc[1]), model.Empty); err != nil {
			t.Fatalf("SetCell: %v", err)
		}
	}

	eng := newTestEngine()
	hint, err := eng.FindNextHint(context.Background(), b)
	if err != nil {
		t.Fatalf("FindNextHint: %v", err)
	}
	if hint == nil {
		t.Fatal("expected a hint once row 1 has exactly one eligible cell")
	}
	if hint.Explanation == "" {
		t.Error("expected a non-empty rendered explanation")
	}

	target := b.Def.CellID(1, 1)
	if err := eng.ApplyHint(b, hint); err != nil {
		t.Fatalf("ApplyHint: %v", err)
	}
	if got := b.Cell(target); got != model.Star {
		t.Fatalf("cell (1,1) = %v, want Star after applying the hint", got)
	}
}

// solution is a known-valid placement for the quadrant board: one star
// per row, column, and 2x2 region, none 8-adjacent to another.
var solution = [][2]int{{0, 1}, {1, 3}, {2, 0}, {3, 2}}

func almostSolvedBoard(t *testing.T) *model.BoardState {
	t.Helper()
	b := newQuadrantBoard(t)
	star := map[int]bool{}
	for _, rc := range solution[:3] {
		star[b.Def.CellID(rc[0], rc[1])] = true
	}
	lastCell := b.Def.CellID(solution[3][0], solution[3][1])

	for cell := 0; cell < b.Def.CellCount(); cell++ {
		switch {
		case star[cell]:
			if err := b.SetCell(cell, model.Star); err != nil {
				t.Fatalf("SetCell(star): %v", err)
			}
		case cell == lastCell:
			// leave Unknown
		default:
			if err := b.SetCell(cell, model.Empty); err != nil {
				t.Fatalf("SetCell(empty): %v", err)
			}
		}
	}
	return b
}

func TestAutoSolveReachesSolvedStatus(t *testing.T) {
	b := almostSolvedBoard(t)
	eng := newTestEngine()

	result, err := eng.AutoSolve(context.Background(), b, 0)
	if err != nil {
		t.Fatalf("AutoSolve: %v", err)
	}
	if result.Status != "solved" {
		t.Fatalf("Status = %q, want solved", result.Status)
	}
	if result.Iterations != 1 {
		t.Fatalf("Iterations = %d, want 1 (one forced star completes the board)", result.Iterations)
	}
	lastCell := b.Def.CellID(solution[3][0], solution[3][1])
	if b.Cell(lastCell) != model.Star {
		t.Fatalf("expected the final cell to be forced to Star")
	}
}

func TestAutoSolveNoProgressOnFreshBoard(t *testing.T) {
	b := newQuadrantBoard(t)
	eng := newTestEngineNoHeuristic()

	result, err := eng.AutoSolve(context.Background(), b, 5)
	if err != nil {
		t.Fatalf("AutoSolve: %v", err)
	}
	if result.Status != "no_progress" {
		t.Fatalf("Status = %q, want no_progress", result.Status)
	}
}

func TestAutoSolveRespectsCancellation(t *testing.T) {
	b := newQuadrantBoard(t)
	eng := newTestEngine()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := eng.AutoSolve(ctx, b, 10)
	if err != nil {
		t.Fatalf("AutoSolve: %v", err)
	}
	if result.Status != "cancelled" {
		t.Fatalf("Status = %q, want cancelled", result.Status)
	}
}

// specializedOnlyRegistry disables every schema whose priority sits below
// constants.PriorityEntanglement, leaving only the priority-90 specialized
// techniques enabled, so a test can pit one of them directly against the
// entanglement matcher without a lettered schema firing first.
func specializedOnlyRegistry() *schema.Registry {
	r := schema.NewRegistry()
	for _, id := range []string{
		"E1-candidate-deficit", "E2-partitioned-candidates",
		"A1-row-band-budget", "A2-column-band-budget",
		"A3-region-vs-row-band", "A4-region-vs-column-band",
		"B1-row-band-exclusive-area", "B2-column-band-exclusive-area",
		"B3-region-vs-row-exclusive-area", "B4-region-vs-column-exclusive-area",
		"C1-band-exact-cages", "C2-cages-vs-region-quota",
		"C3-internal-cage-placement", "C4-cage-exclusion",
		"D1-row-column-intersection", "D2-region-band-intersection", "D3-region-band-squeeze",
		"F1-region-pair-exclusion", "F2-chains",
		"subset-constraint-squeeze",
	} {
		r.SetEnabled(id, false)
	}
	return r
}

func TestFindNextHintTriesEntanglementBeforeSpecializedSchemas(t *testing.T) {
	dir := t.TempDir()
	pattern := `{
		"board_size": 4,
		"stars_per_row": 1,
		"stars_per_column": 1,
		"initial_star_count": 1,
		"total_solutions": 1,
		"patterns": [
			{
				"initial_stars": [[0, 0]],
				"compatible_solutions": 1,
				"forced_empty": [[3, 3]],
				"forced_star": []
			}
		]
	}`
	if err := os.WriteFile(filepath.Join(dir, "identity.json"), []byte(pattern), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	reg := entanglement.NewRegistry()
	if errs := reg.LoadDir(dir, nil); len(errs) != 0 {
		t.Fatalf("LoadDir: %v", errs)
	}

	b := newQuadrantBoard(t)
	if err := b.SetCell(b.Def.CellID(0, 0), model.Star); err != nil {
		t.Fatalf("SetCell: %v", err)
	}

	// With the star at (0,0), both the entanglement pattern above (forcing
	// (3,3) empty) and the two-by-two specialized schema (forcing the rest
	// of the block empty) are independently eligible to fire. Entanglement
	// must win: its priority sits below the specialized schemas'.
	eng := New(specializedOnlyRegistry(), reg, nil)
	eng.ConstrainedCap = 0

	hint, err := eng.FindNextHint(context.Background(), b)
	if err != nil {
		t.Fatalf("FindNextHint: %v", err)
	}
	if hint == nil {
		t.Fatal("expected a hint")
	}
	if hint.TechniqueID != "entanglement:identity" {
		t.Fatalf("TechniqueID = %q, want entanglement:identity (entanglement should run before the specialized schemas)", hint.TechniqueID)
	}
}
