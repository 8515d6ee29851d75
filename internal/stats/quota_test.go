package stats

import (
	"testing"

	"starbattle/internal/model"
)

func TestQuotaInBandRegionFullyInsideBand(t *testing.T) {
	b := newStraddlingBoard(t)
	band := model.Band{Kind: model.BandRow, Lo: 0, Hi: 1, Cells: append(append([]int(nil), b.RowCells(0)...), b.RowCells(1)...)}

	// Region 2 lies entirely within rows 0-1.
	cache := NewQuotaCache()
	got := cache.QuotaInBand(b, 2, band, 0)
	if !got.Known {
		t.Fatal("a region fully inside its band should always yield a known bound")
	}
	if got.Value != b.Def.StarsPerRegion {
		t.Fatalf("QuotaInBand = %d, want %d (region's full quota)", got.Value, b.Def.StarsPerRegion)
	}
}

func TestQuotaInBandIsMemoized(t *testing.T) {
	b := newStraddlingBoard(t)
	band := model.Band{Kind: model.BandRow, Lo: 0, Hi: 1, Cells: append(append([]int(nil), b.RowCells(0)...), b.RowCells(1)...)}
	cache := NewQuotaCache()

	first := cache.QuotaInBand(b, 1, band, 0)
	second := cache.QuotaInBand(b, 1, band, 0)
	if first != second {
		t.Fatalf("expected memoized result to be identical: %+v vs %+v", first, second)
	}
}

func TestQuotaInBandInvalidateClearsCache(t *testing.T) {
	b := newStraddlingBoard(t)
	band := model.Band{Kind: model.BandRow, Lo: 0, Hi: 1, Cells: append(append([]int(nil), b.RowCells(0)...), b.RowCells(1)...)}
	cache := NewQuotaCache()

	_ = cache.QuotaInBand(b, 1, band, 0)
	if len(cache.entries) == 0 {
		t.Fatal("expected at least one cached entry before Invalidate")
	}
	cache.Invalidate()
	if len(cache.entries) != 0 {
		t.Fatal("Invalidate should clear every cached entry")
	}
}

func TestQuotaInBandNoRemainingStarsIsKnown(t *testing.T) {
	b := newStraddlingBoard(t)
	if err := b.SetCell(b.Def.CellID(0, 0), model.Star); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	band := model.Band{Kind: model.BandRow, Lo: 0, Hi: 1, Cells: append(append([]int(nil), b.RowCells(0)...), b.RowCells(1)...)}

	cache := NewQuotaCache()
	got := cache.QuotaInBand(b, 1, band, 0)
	if !got.Known {
		t.Fatal("a region that already placed its full quota should yield a known bound")
	}
	if got.Value != 1 {
		t.Fatalf("QuotaInBand = %d, want 1 (the one star already placed, which lies in band)", got.Value)
	}
}
