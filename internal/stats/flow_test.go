package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starbattle/internal/model"
	"starbattle/internal/validator"
)

// straddlingRegionMap splits a 4x4 board into four regions, two of which
// straddle the rows-0..1 band boundary (R1, R3), one fully inside it
// (R2), and one fully outside it (R4):
//
//	R1 R2 R2 R2
//	R1 R2 R3 R3
//	R1 R1 R3 R3
//	R4 R4 R4 R4
func straddlingRegionMap() []int {
	return []int{
		1, 2, 2, 2,
		1, 2, 3, 3,
		1, 1, 3, 3,
		4, 4, 4, 4,
	}
}

func newStraddlingBoard(t *testing.T) *model.BoardState {
	t.Helper()
	def, err := model.NewPuzzleDefinition(4, 1, 1, straddlingRegionMap())
	require.NoError(t, err)
	b, err := model.NewBoardState(def, nil)
	require.NoError(t, err)
	return b
}

func TestMinFromRowsNoForcingOnEmptyBoard(t *testing.T) {
	b := newStraddlingBoard(t)
	v := validator.New(b)
	band := model.Band{Kind: model.BandRow, Lo: 0, Hi: 1, Cells: append(append([]int(nil), b.RowCells(0)...), b.RowCells(1)...)}

	got := minFromRows(b, v, 1, band)
	assert.Equalf(t, 0, got, "with every outside candidate still open, rows 0-1 should not force any stars into region 1")
}

func TestMinFromRowsForcesWhenNoAlternativesRemain(t *testing.T) {
	b := newStraddlingBoard(t)

	// Close off every region-2/region-3 cell in rows 0-1 except the
	// region-1 cells themselves, so each row's single star has nowhere
	// else to go.
	for _, cell := range []struct{ r, c int }{
		{0, 1}, {0, 2}, {0, 3},
		{1, 1}, {1, 2}, {1, 3},
	} {
		require.NoError(t, b.SetCell(b.Def.CellID(cell.r, cell.c), model.Empty))
	}

	v := validator.New(b)
	band := model.Band{Kind: model.BandRow, Lo: 0, Hi: 1, Cells: append(append([]int(nil), b.RowCells(0)...), b.RowCells(1)...)}

	got := minFromRows(b, v, 1, band)
	assert.Equalf(t, 2, got, "both rows' single star is forced into region 1 once every region-2/region-3 cell in the band is closed off")
}

func TestRegionBandConstraintsReflectFlowBound(t *testing.T) {
	b := newStraddlingBoard(t)
	for _, cell := range []struct{ r, c int }{
		{0, 1}, {0, 2}, {0, 3},
		{1, 1}, {1, 2}, {1, 3},
	} {
		require.NoError(t, b.SetCell(b.Def.CellID(cell.r, cell.c), model.Empty))
	}

	eng := NewEngine()
	constraints := eng.RegionBandConstraints(b)

	var found bool
	for _, c := range constraints {
		if c.Source != model.SourceRegionBand {
			continue
		}
		if len(c.Cells) == 0 || b.Def.RegionOf(c.Cells[0]) != 1 {
			continue
		}
		// Only the rows-0..1 band is interesting here; region 1 also
		// intersects other bands containing row 2.
		if c.Description == "region 1 in row-band [0..1]" {
			found = true
			assert.Equal(t, 2, c.MinStars, "region-band constraint should carry the flow-tightened minimum")
		}
	}
	require.True(t, found, "expected a region-band constraint for region 1 spanning rows 0..1")
}
