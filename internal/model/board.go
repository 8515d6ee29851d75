package model

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// CellState is one of Unknown, Star, Empty. "Empty" means "marked as
// non-star" (a known cross), not "has no mark" (spec.md §3).
type CellState uint8

const (
	Unknown CellState = iota
	Star
	Empty
)

func (s CellState) String() string {
	switch s {
	case Star:
		return "star"
	case Empty:
		return "empty"
	default:
		return "unknown"
	}
}

// BoardState bundles a PuzzleDefinition with a mutable cell-state vector
// plus read-only derived indices (spec.md §3 BoardState).
type BoardState struct {
	Def *PuzzleDefinition

	cells  []CellState
	blocks [][4]int // all (N-1)^2 2x2 blocks, each as 4 cell ids: TL,TR,BL,BR

	rowCells    [][]int
	colCells    [][]int
	regionCells map[int][]int
	regionOrder []int

	fingerprint    uint64
	fingerprintSet bool
}

// NewBoardState constructs a board from a definition plus initial marks.
// initial may be nil (an all-Unknown board) or len == def.CellCount().
func NewBoardState(def *PuzzleDefinition, initial []CellState) (*BoardState, error) {
	n := def.CellCount()
	cells := make([]CellState, n)
	if initial != nil {
		if len(initial) != n {
			return nil, fmt.Errorf("%w: initial marks has %d cells, want %d", ErrInvalidInput, len(initial), n)
		}
		copy(cells, initial)
	}

	b := &BoardState{
		Def:         def,
		cells:       cells,
		regionCells: make(map[int][]int),
	}
	b.buildIndices()
	return b, nil
}

func (b *BoardState) buildIndices() {
	size := b.Def.Size
	b.rowCells = make([][]int, size)
	b.colCells = make([][]int, size)
	for row := 0; row < size; row++ {
		rowCells := make([]int, size)
		for col := 0; col < size; col++ {
			rowCells[col] = b.Def.CellID(row, col)
		}
		b.rowCells[row] = rowCells
	}
	for col := 0; col < size; col++ {
		colCells := make([]int, size)
		for row := 0; row < size; row++ {
			colCells[row] = b.Def.CellID(row, col)
		}
		b.colCells[col] = colCells
	}
	b.regionOrder = b.Def.RegionIDs()
	for _, rid := range b.regionOrder {
		b.regionCells[rid] = b.Def.RegionCells(rid)
	}

	b.blocks = nil
	for row := 0; row+1 < size; row++ {
		for col := 0; col+1 < size; col++ {
			b.blocks = append(b.blocks, [4]int{
				b.Def.CellID(row, col), b.Def.CellID(row, col+1),
				b.Def.CellID(row+1, col), b.Def.CellID(row+1, col+1),
			})
		}
	}
}

// Clone returns a deep copy of the board state, sharing the immutable
// definition and derived indices but owning its own cell-state vector.
func (b *BoardState) Clone() *BoardState {
	c := &BoardState{
		Def:         b.Def,
		cells:       append([]CellState(nil), b.cells...),
		blocks:      b.blocks,
		rowCells:    b.rowCells,
		colCells:    b.colCells,
		regionCells: b.regionCells,
		regionOrder: b.regionOrder,
	}
	return c
}

// At returns the state of the cell at (row, col).
func (b *BoardState) At(row, col int) CellState { return b.cells[b.Def.CellID(row, col)] }

// Cell returns the state of the cell identified by cellID.
func (b *BoardState) Cell(cellID int) CellState { return b.cells[cellID] }

// Cells returns a read-only view of the full cell-state vector. Callers
// must not mutate the returned slice.
func (b *BoardState) Cells() []CellState { return b.cells }

// RowCells returns the cell ids of row r in column order.
func (b *BoardState) RowCells(r int) []int { return b.rowCells[r] }

// ColCells returns the cell ids of column c in row order.
func (b *BoardState) ColCells(c int) []int { return b.colCells[c] }

// RegionCells returns the cell ids of region rid in ascending cell_id order.
func (b *BoardState) RegionCells(rid int) []int { return b.regionCells[rid] }

// Blocks returns every 2x2 block as a 4-cell-id array (TL, TR, BL, BR).
func (b *BoardState) Blocks() [][4]int { return b.blocks }

// CountInCells returns how many cells in the given list are in state s.
func (b *BoardState) CountInCells(cells []int, s CellState) int {
	n := 0
	for _, c := range cells {
		if b.cells[c] == s {
			n++
		}
	}
	return n
}

// SetCell forces cellID into state s, enforcing the terminal-transition
// and adjacency invariants from spec.md §4.1. It is the only mutator of
// the cell-state vector; it invalidates the board's fingerprint.
func (b *BoardState) SetCell(cellID int, s CellState) error {
	if s == Unknown {
		return fmt.Errorf("%w: cannot set a cell back to Unknown", ErrInconsistentDeduction)
	}
	cur := b.cells[cellID]
	if cur != Unknown && cur != s {
		return fmt.Errorf("%w: cell %d is already %s, cannot transition to %s", ErrInconsistentDeduction, cellID, cur, s)
	}
	if s == Star {
		for _, n := range Neighbors8(b.Def, cellID) {
			if b.cells[n] == Star {
				return fmt.Errorf("%w: cell %d is 8-adjacent to an existing star at %d", ErrInconsistentDeduction, cellID, n)
			}
		}
	}
	b.cells[cellID] = s
	b.fingerprintSet = false
	return nil
}

// Fingerprint returns a stable hash over the cell-state vector, used to
// key the verification and quota caches (spec.md §3, §4.1, §9). It is
// memoized and invalidated by SetCell.
func (b *BoardState) Fingerprint() uint64 {
	if b.fingerprintSet {
		return b.fingerprint
	}
	buf := make([]byte, len(b.cells))
	for i, s := range b.cells {
		buf[i] = byte(s)
	}
	b.fingerprint = xxhash.Sum64(buf)
	b.fingerprintSet = true
	return b.fingerprint
}

// StarCount returns the number of Star cells among cells.
func StarCount(b *BoardState, cells []int) int { return b.CountInCells(cells, Star) }

// EmptyCount returns the number of Empty cells among cells.
func EmptyCount(b *BoardState, cells []int) int { return b.CountInCells(cells, Empty) }

// UnknownCells returns the subset of cells still Unknown.
func UnknownCells(b *BoardState, cells []int) []int {
	var out []int
	for _, c := range cells {
		if b.cells[c] == Unknown {
			out = append(out, c)
		}
	}
	return out
}
