// Package model holds the immutable puzzle definition, the mutable board
// state, and the small value types (groups, bands, deductions,
// explanations) that the rest of the engine is built around. It mirrors
// the role sudoku-api/internal/core played for the sudoku engine: a leaf
// package every other package imports, importing nothing of its own
// siblings.
package model

import "fmt"

// PuzzleDefinition is the immutable description of a Star Battle puzzle:
// its size, its per-line and per-region star quotas, and the region each
// cell belongs to. Constructed once per session (spec.md §3 Lifecycle).
type PuzzleDefinition struct {
	Size           int
	StarsPerLine   int
	StarsPerRegion int
	regionOf       []int // len Size*Size, region id per cell_id
	regionIDs      []int // sorted unique region ids
	regionCells    map[int][]int
}

// NewPuzzleDefinition validates that regionOf partitions an N x N grid and
// builds the derived region index. regionOf must have length size*size and
// every entry must be non-negative.
func NewPuzzleDefinition(size, starsPerLine, starsPerRegion int, regionOf []int) (*PuzzleDefinition, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidInput, size)
	}
	if starsPerLine <= 0 {
		return nil, fmt.Errorf("%w: stars_per_line must be positive, got %d", ErrInvalidInput, starsPerLine)
	}
	if starsPerRegion <= 0 {
		return nil, fmt.Errorf("%w: stars_per_region must be positive, got %d", ErrInvalidInput, starsPerRegion)
	}
	want := size * size
	if len(regionOf) != want {
		return nil, fmt.Errorf("%w: region map has %d cells, want %d", ErrInvalidRegionMap, len(regionOf), want)
	}

	regionCells := make(map[int][]int)
	for cellID, rid := range regionOf {
		if rid < 0 {
			return nil, fmt.Errorf("%w: negative region id at cell %d", ErrInvalidRegionMap, cellID)
		}
		regionCells[rid] = append(regionCells[rid], cellID)
	}

	regionIDs := make([]int, 0, len(regionCells))
	for rid, cells := range regionCells {
		if len(cells) == 0 {
			return nil, fmt.Errorf("%w: region %d has no cells", ErrInvalidRegionMap, rid)
		}
		regionIDs = append(regionIDs, rid)
	}
	sortInts(regionIDs)

	if len(regionIDs)*1 < 1 {
		return nil, fmt.Errorf("%w: no regions found", ErrInvalidRegionMap)
	}

	def := &PuzzleDefinition{
		Size:           size,
		StarsPerLine:   starsPerLine,
		StarsPerRegion: starsPerRegion,
		regionOf:       append([]int(nil), regionOf...),
		regionIDs:      regionIDs,
		regionCells:    regionCells,
	}
	return def, nil
}

// CellCount returns Size*Size.
func (d *PuzzleDefinition) CellCount() int { return d.Size * d.Size }

// CellID converts a (row, col) pair into the single integer identifier
// cell_id = row*Size + col (spec.md §3 "Coordinate identifiers").
func (d *PuzzleDefinition) CellID(row, col int) int { return row*d.Size + col }

// RowCol converts a cell_id back into (row, col).
func (d *PuzzleDefinition) RowCol(cellID int) (row, col int) {
	return cellID / d.Size, cellID % d.Size
}

// RegionOf returns the region identifier owning cellID.
func (d *PuzzleDefinition) RegionOf(cellID int) int { return d.regionOf[cellID] }

// RegionIDs returns the sorted, unique list of region identifiers.
func (d *PuzzleDefinition) RegionIDs() []int { return append([]int(nil), d.regionIDs...) }

// RegionCells returns the cell ids belonging to region rid, in ascending
// cell_id order.
func (d *PuzzleDefinition) RegionCells(rid int) []int {
	cells := append([]int(nil), d.regionCells[rid]...)
	sortInts(cells)
	return cells
}

// InBounds reports whether (row, col) addresses a cell on the board.
func (d *PuzzleDefinition) InBounds(row, col int) bool {
	return row >= 0 && row < d.Size && col >= 0 && col < d.Size
}

func sortInts(xs []int) {
	// insertion sort: region/cell lists here are small (<= a few hundred).
	for i := 1; i < len(xs); i++ {
		v := xs[i]
		j := i - 1
		for j >= 0 && xs[j] > v {
			xs[j+1] = xs[j]
			j--
		}
		xs[j+1] = v
	}
}
