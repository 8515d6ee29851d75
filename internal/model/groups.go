package model

// GroupKind distinguishes the six group variants spec.md §3 defines.
type GroupKind int

const (
	GroupRow GroupKind = iota
	GroupColumn
	GroupRegion
	GroupRowBand
	GroupColumnBand
	GroupBlock2x2
)

func (k GroupKind) String() string {
	switch k {
	case GroupRow:
		return "row"
	case GroupColumn:
		return "column"
	case GroupRegion:
		return "region"
	case GroupRowBand:
		return "row-band"
	case GroupColumnBand:
		return "column-band"
	case GroupBlock2x2:
		return "block"
	default:
		return "unknown-group"
	}
}

// Group is a polymorphic unit carrying a required star count and a cell
// list (spec.md §3). Index identifies the row/col/region id for those
// kinds; for bands it is unused (use the Band value instead) and for
// blocks it is the block's position in BoardState.Blocks().
type Group struct {
	Kind          GroupKind
	Index         int
	Cells         []int
	StarsRequired int
}

// RowGroup builds the Group for row r.
func RowGroup(b *BoardState, r int) Group {
	return Group{Kind: GroupRow, Index: r, Cells: b.RowCells(r), StarsRequired: b.Def.StarsPerLine}
}

// ColumnGroup builds the Group for column c.
func ColumnGroup(b *BoardState, c int) Group {
	return Group{Kind: GroupColumn, Index: c, Cells: b.ColCells(c), StarsRequired: b.Def.StarsPerLine}
}

// RegionGroup builds the Group for region rid.
func RegionGroup(b *BoardState, rid int) Group {
	return Group{Kind: GroupRegion, Index: rid, Cells: b.RegionCells(rid), StarsRequired: b.Def.StarsPerRegion}
}

// Block2x2Group builds the Group for the block at blockIndex in
// BoardState.Blocks(), whose capacity is always 1 (spec.md §3).
func Block2x2Group(b *BoardState, blockIndex int) Group {
	block := b.Blocks()[blockIndex]
	return Group{Kind: GroupBlock2x2, Index: blockIndex, Cells: block[:], StarsRequired: 1}
}

// Remaining returns StarsRequired minus the stars already placed in the
// group's cells.
func (g Group) Remaining(b *BoardState) int {
	return g.StarsRequired - StarCount(b, g.Cells)
}

// BandKind distinguishes row bands from column bands.
type BandKind int

const (
	BandRow BandKind = iota
	BandColumn
)

// Band is a contiguous range of rows or columns plus the union of their
// cells (spec.md §3). Enumeration yields every [Lo..Hi] with 0 <= Lo <= Hi
// < N: O(N^2) bands per axis.
type Band struct {
	Kind  BandKind
	Lo    int
	Hi    int
	Cells []int
}

// Length returns the number of rows/columns the band spans.
func (band Band) Length() int { return band.Hi - band.Lo + 1 }

// Capacity returns the band's star capacity: band_length * K.
func (band Band) Capacity(b *BoardState) int { return band.Length() * b.Def.StarsPerLine }

// AllRowBands enumerates every contiguous row range on the board.
func AllRowBands(b *BoardState) []Band {
	return allBands(b, BandRow)
}

// AllColumnBands enumerates every contiguous column range on the board.
func AllColumnBands(b *BoardState) []Band {
	return allBands(b, BandColumn)
}

func allBands(b *BoardState, kind BandKind) []Band {
	size := b.Def.Size
	var bands []Band
	for lo := 0; lo < size; lo++ {
		var cells []int
		for hi := lo; hi < size; hi++ {
			var lineCells []int
			if kind == BandRow {
				lineCells = b.RowCells(hi)
			} else {
				lineCells = b.ColCells(hi)
			}
			cells = append(append([]int(nil), cells...), lineCells...)
			bands = append(bands, Band{Kind: kind, Lo: lo, Hi: hi, Cells: cells})
		}
	}
	return bands
}

// SingleLineBand returns the degenerate band spanning exactly line i.
func SingleLineBand(b *BoardState, kind BandKind, i int) Band {
	var cells []int
	if kind == BandRow {
		cells = b.RowCells(i)
	} else {
		cells = b.ColCells(i)
	}
	return Band{Kind: kind, Lo: i, Hi: i, Cells: cells}
}

// RegionCellsInBand returns the subset of region rid's cells that fall
// inside band (spec.md §2 component 2, "region-in-band cell extraction").
func RegionCellsInBand(b *BoardState, rid int, band Band) []int {
	inBand := make(map[int]bool, len(band.Cells))
	for _, c := range band.Cells {
		inBand[c] = true
	}
	var out []int
	for _, c := range b.RegionCells(rid) {
		if inBand[c] {
			out = append(out, c)
		}
	}
	return out
}

// RegionsIntersecting returns the region ids that own at least one cell
// inside band.
func RegionsIntersecting(b *BoardState, band Band) []int {
	seen := make(map[int]bool)
	var out []int
	for _, c := range band.Cells {
		rid := b.Def.RegionOf(c)
		if !seen[rid] {
			seen[rid] = true
			out = append(out, rid)
		}
	}
	return out
}

// RegionFullyInsideBand reports whether every cell of region rid lies
// within band.
func RegionFullyInsideBand(b *BoardState, rid int, band Band) bool {
	total := len(b.RegionCells(rid))
	inBand := len(RegionCellsInBand(b, rid, band))
	return total == inBand
}
