package stats

import (
	"testing"

	"starbattle/internal/model"
)

func TestRowConstraintsOnEmptyBoard(t *testing.T) {
	b := newStraddlingBoard(t)
	eng := NewEngine()

	cs := eng.RowConstraints(b)
	if len(cs) != b.Def.Size {
		t.Fatalf("RowConstraints returned %d entries, want %d", len(cs), b.Def.Size)
	}
	for _, c := range cs {
		if c.MinStars != 1 {
			t.Errorf("%s: MinStars = %d, want 1 (fresh board)", c.Description, c.MinStars)
		}
		if c.Source != model.SourceRow {
			t.Errorf("%s: Source = %v, want SourceRow", c.Description, c.Source)
		}
	}
}

func TestRegionConstraintsReflectPlacedStars(t *testing.T) {
	b := newStraddlingBoard(t)
	if err := b.SetCell(b.Def.CellID(0, 0), model.Star); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	eng := NewEngine()

	cs := eng.RegionConstraints(b)
	for _, c := range cs {
		if len(c.Cells) == 0 {
			continue
		}
		if b.Def.RegionOf(c.Cells[0]) != 1 {
			continue
		}
		if c.MinStars != 0 {
			t.Errorf("region 1 already met its quota; MinStars = %d, want 0", c.MinStars)
		}
	}
}

func TestBlockConstraintsForcedWhenConstraintLiesInsideBlock(t *testing.T) {
	b := newStraddlingBoard(t)
	eng := NewEngine()

	others := []model.Constraint{
		{Cells: []int{b.Def.CellID(0, 0), b.Def.CellID(0, 1)}, MinStars: 1, MaxStars: 1, Source: model.SourceRow},
	}
	blocks := eng.BlockConstraints(b, others)
	if len(blocks) == 0 {
		t.Fatal("expected at least one block constraint")
	}

	found := false
	for _, blk := range blocks {
		set := map[int]bool{blk.Cells[0]: true, blk.Cells[1]: true, blk.Cells[2]: true, blk.Cells[3]: true}
		if set[b.Def.CellID(0, 0)] && set[b.Def.CellID(0, 1)] {
			found = true
			if blk.MinStars != 1 {
				t.Errorf("block covering a forced pair should have MinStars 1, got %d", blk.MinStars)
			}
		}
	}
	if !found {
		t.Fatal("expected a block containing (0,0) and (0,1)")
	}
}

func TestSubsetSqueezeForcesComplementEmpty(t *testing.T) {
	small := model.Constraint{Cells: []int{1, 2}, MinStars: 1, MaxStars: 1, Source: model.SourceRow, Description: "small"}
	large := model.Constraint{Cells: []int{1, 2, 3, 4}, MinStars: 0, MaxStars: 1, Source: model.SourceRegion, Description: "large"}

	got := SubsetSqueeze([]model.Constraint{small, large})
	want := map[int]bool{3: true, 4: true}
	if len(got) != len(want) {
		t.Fatalf("SubsetSqueeze returned %d deductions, want %d", len(got), len(want))
	}
	for _, d := range got {
		if d.Kind != model.ForceEmpty {
			t.Errorf("deduction kind = %v, want ForceEmpty", d.Kind)
		}
		if !want[d.Cell] {
			t.Errorf("unexpected deduction cell %d", d.Cell)
		}
	}
}

func TestSubsetSqueezeNoOpWhenBoundsDontMatch(t *testing.T) {
	small := model.Constraint{Cells: []int{1, 2}, MinStars: 0, MaxStars: 1, Source: model.SourceRow}
	large := model.Constraint{Cells: []int{1, 2, 3, 4}, MinStars: 0, MaxStars: 2, Source: model.SourceRegion}

	got := SubsetSqueeze([]model.Constraint{small, large})
	if len(got) != 0 {
		t.Fatalf("expected no deductions, got %v", got)
	}
}
