package schema

import (
	"testing"

	"starbattle/internal/model"
	"starbattle/internal/stats"
)

// a 4x4 board split into four 2x2 quadrant regions, ids 1..4.
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

func newEnv(b *model.BoardState) *Env {
	return &Env{Board: b, Stats: stats.NewEngine()}
}

func TestRegistryOrdersByPriority(t *testing.T) {
	r := NewRegistry()
	all := r.All()
	for i := 1; i < len(all); i++ {
		if all[i-1].Priority() > all[i].Priority() {
			t.Fatalf("registry not priority-sorted at index %d: %s (%d) before %s (%d)",
				i, all[i-1].ID(), all[i-1].Priority(), all[i].ID(), all[i].Priority())
		}
	}
}

func TestRegistrySetEnabledUnknownID(t *testing.T) {
	r := NewRegistry()
	if r.SetEnabled("no-such-schema", false) {
		t.Fatal("expected SetEnabled to report false for an unknown id")
	}
}

func TestRegistrySetEnabledExcludesFromEnabled(t *testing.T) {
	r := NewRegistry()
	if !r.SetEnabled("two-by-two", false) {
		t.Fatal("expected SetEnabled to find two-by-two")
	}
	for _, s := range r.Enabled() {
		if s.ID() == "two-by-two" {
			t.Fatal("disabled schema should not appear in Enabled()")
		}
	}
	for _, s := range r.All() {
		if s.ID() == "two-by-two" {
			return
		}
	}
	t.Fatal("disabled schema should still appear in All()")
}

func TestE1CandidateDeficitForcesLastEligibleCells(t *testing.T) {
	b := newQuadrantBoard(t)
	// Close off every row-1 cell except (1,1), so row 1's single
	// remaining star has exactly one eligible slot across the whole row:
	// region 1's (1,0) and (1,1), region 2's (1,2),(1,3). Force out three
	// of the four to leave exactly one (= remaining) eligible cell.
	for _, rc := range [][2]int{{1, 0}, {1, 2}, {1, 3}} {
		if err := b.SetCell(b.Def.CellID(rc[0], rc[1]), model.Empty); err != nil {
			t.Fatalf("SetCell: %v", err)
		}
	}

	apps := (&E1CandidateDeficit{}).Apply(newEnv(b))
	found := false
	for _, app := range apps {
		for _, d := range app.Deductions {
			if d.Kind == model.ForceStar && d.Cell == b.Def.CellID(1, 1) {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("expected E1 to force a star at (1,1), the row's only remaining eligible cell")
	}
}

func TestE1CandidateDeficitNoOpWhenSlack(t *testing.T) {
	b := newQuadrantBoard(t)
	apps := (&E1CandidateDeficit{}).Apply(newEnv(b))
	if len(apps) != 0 {
		t.Fatalf("expected no applications on a fresh board with plenty of candidates, got %d", len(apps))
	}
}

func TestE2PartitionedCandidatesNeverFires(t *testing.T) {
	b := newQuadrantBoard(t)
	if apps := (&E2PartitionedCandidates{}).Apply(newEnv(b)); apps != nil {
		t.Fatalf("E2 is an intentional no-op; got %v", apps)
	}
}

func TestPressuredTsNeverFires(t *testing.T) {
	b := newQuadrantBoard(t)
	if apps := (&PressuredTs{}).Apply(newEnv(b)); apps != nil {
		t.Fatalf("pressured-ts is an intentional no-op; got %v", apps)
	}
}

func TestTwoByTwoBlockStarForcesRestOfBlockEmpty(t *testing.T) {
	b := newQuadrantBoard(t)
	if err := b.SetCell(b.Def.CellID(0, 0), model.Star); err != nil {
		t.Fatalf("SetCell: %v", err)
	}

	apps := (&TwoByTwoBlockStar{}).Apply(newEnv(b))
	if len(apps) == 0 {
		t.Fatal("expected at least one application once a block holds a star")
	}
	wantEmpty := map[int]bool{
		b.Def.CellID(0, 1): true,
		b.Def.CellID(1, 0): true,
		b.Def.CellID(1, 1): true,
	}
	gotEmpty := map[int]bool{}
	for _, app := range apps {
		for _, d := range app.Deductions {
			if d.Kind == model.ForceEmpty {
				gotEmpty[d.Cell] = true
			}
		}
	}
	for c := range wantEmpty {
		if !gotEmpty[c] {
			t.Errorf("expected cell %d forced Empty, was not", c)
		}
	}
}

func TestFiveCrossesFiveEmptyForcesRemainingCellsEmpty(t *testing.T) {
	b := newQuadrantBoard(t)
	if err := b.SetCell(b.Def.CellID(2, 2), model.Star); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	// Region 4's quota (1) is now met; its other cells should be forced Empty.
	apps := (&FiveCrossesFiveEmpty{}).Apply(newEnv(b))

	gotEmpty := map[int]bool{}
	for _, app := range apps {
		for _, d := range app.Deductions {
			if d.Kind == model.ForceEmpty {
				gotEmpty[d.Cell] = true
			}
		}
	}
	for _, rc := range [][2]int{{2, 3}, {3, 2}, {3, 3}} {
		c := b.Def.CellID(rc[0], rc[1])
		if !gotEmpty[c] {
			t.Errorf("expected cell %d (region 4, quota met) forced Empty", c)
		}
	}
}

func TestFiveCrossesFiveEmptyNoOpWhenQuotaOpen(t *testing.T) {
	b := newQuadrantBoard(t)
	apps := (&FiveCrossesFiveEmpty{}).Apply(newEnv(b))
	if len(apps) != 0 {
		t.Fatalf("expected no applications while every group still has an open quota, got %d", len(apps))
	}
}

func TestSharedRowColumnForcesOutsideRegionEmpty(t *testing.T) {
	b := newQuadrantBoard(t)
	// Confine region 1's remaining candidates to row 0 by closing off its
	// row-1 cells.
	for _, rc := range [][2]int{{1, 0}, {1, 1}} {
		if err := b.SetCell(b.Def.CellID(rc[0], rc[1]), model.Empty); err != nil {
			t.Fatalf("SetCell: %v", err)
		}
	}

	apps := (&SharedRowColumn{}).Apply(newEnv(b))
	gotEmpty := map[int]bool{}
	for _, app := range apps {
		for _, d := range app.Deductions {
			if d.Kind == model.ForceEmpty {
				gotEmpty[d.Cell] = true
			}
		}
	}
	for _, rc := range [][2]int{{0, 2}, {0, 3}} {
		c := b.Def.CellID(rc[0], rc[1])
		if !gotEmpty[c] {
			t.Errorf("expected cell %d (row 0, outside region 1) forced Empty", c)
		}
	}
}

func TestB3RegionVsRowExclusiveAreaForcesSoleRemainingLine(t *testing.T) {
	b := newQuadrantBoard(t)
	// Region 1 is {(0,0),(0,1),(1,0),(1,1)}. Empty out all of row 1's
	// region-1 cells and one of row 0's, leaving (0,1) as the region's
	// only still-eligible cell, confined to its only remaining line.
	for _, rc := range [][2]int{{1, 0}, {1, 1}, {0, 0}} {
		if err := b.SetCell(b.Def.CellID(rc[0], rc[1]), model.Empty); err != nil {
			t.Fatalf("SetCell: %v", err)
		}
	}

	apps := (&B3RegionVsRowExclusiveArea{}).Apply(newEnv(b))
	found := false
	for _, app := range apps {
		for _, d := range app.Deductions {
			if d.Kind == model.ForceStar && d.Cell == b.Def.CellID(0, 1) {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("expected B3 to force a star at (0,1), region 1's sole remaining candidate")
	}
}

func TestB3RegionVsRowExclusiveAreaNoOpWhenBothLinesOpen(t *testing.T) {
	b := newQuadrantBoard(t)
	apps := (&B3RegionVsRowExclusiveArea{}).Apply(newEnv(b))
	if len(apps) != 0 {
		t.Fatalf("expected no applications while both of region 1's rows are still open, got %d", len(apps))
	}
}

func TestB4RegionVsColumnExclusiveAreaForcesSoleRemainingLine(t *testing.T) {
	b := newQuadrantBoard(t)
	// Region 1 is {(0,0),(0,1),(1,0),(1,1)}. Empty out all of column 1's
	// region-1 cells and one of column 0's, leaving (1,0) as the
	// region's only still-eligible cell, confined to its only remaining
	// column.
	for _, rc := range [][2]int{{0, 1}, {1, 1}, {0, 0}} {
		if err := b.SetCell(b.Def.CellID(rc[0], rc[1]), model.Empty); err != nil {
			t.Fatalf("SetCell: %v", err)
		}
	}

	apps := (&B4RegionVsColumnExclusiveArea{}).Apply(newEnv(b))
	found := false
	for _, app := range apps {
		for _, d := range app.Deductions {
			if d.Kind == model.ForceStar && d.Cell == b.Def.CellID(1, 0) {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("expected B4 to force a star at (1,0), region 1's sole remaining candidate")
	}
}

func TestB4RegionVsColumnExclusiveAreaNoOpWhenBothLinesOpen(t *testing.T) {
	b := newQuadrantBoard(t)
	apps := (&B4RegionVsColumnExclusiveArea{}).Apply(newEnv(b))
	if len(apps) != 0 {
		t.Fatalf("expected no applications while both of region 1's columns are still open, got %d", len(apps))
	}
}
