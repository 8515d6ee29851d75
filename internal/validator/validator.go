// Package validator answers "can a star be placed here" incrementally,
// the backbone of every combinatorial search routine in the engine
// (spec.md §4.2). It generalizes the adjacency/row/column/box checks
// sudoku-api's Board.canPlace performs for a single digit into the
// row/column/region-quota-plus-8-adjacency rules Star Battle needs, and
// adds the LIFO place/remove stack that search routines require.
package validator

import "starbattle/internal/model"

// Validator maintains, incrementally, the star counts implied by a
// board's committed cells plus a mutable set of tentative placements.
type Validator struct {
	board *model.BoardState
	def   *model.PuzzleDefinition

	rowStars    []int
	colStars    []int
	regionStars map[int]int

	// starAt tracks board-or-tentative star membership for adjacency
	// checks; cellID -> true means a star sits there right now.
	starAt map[int]bool

	// placedStack is the LIFO order of cells placed via Place, so Remove
	// can only undo the most recent tentative placement.
	placedStack []int
}

// New builds a Validator seeded from the board's current committed cells.
func New(board *model.BoardState) *Validator {
	def := board.Def
	v := &Validator{
		board:       board,
		def:         def,
		rowStars:    make([]int, def.Size),
		colStars:    make([]int, def.Size),
		regionStars: make(map[int]int),
		starAt:      make(map[int]bool),
	}
	for cellID, s := range board.Cells() {
		if s == model.Star {
			row, col := def.RowCol(cellID)
			v.rowStars[row]++
			v.colStars[col]++
			v.regionStars[def.RegionOf(cellID)]++
			v.starAt[cellID] = true
		}
	}
	return v
}

// CanPlace reports whether a star may be tentatively placed at cellID
// without violating an 8-adjacency, row, column, or region quota
// constraint, given the board's committed stars plus anything already
// tentatively placed on this validator.
func (v *Validator) CanPlace(cellID int) bool {
	if v.board.Cell(cellID) == model.Empty {
		return false
	}
	if v.starAt[cellID] {
		return false // already a star here, placing again is meaningless
	}
	row, col := v.def.RowCol(cellID)
	rid := v.def.RegionOf(cellID)

	if v.rowStars[row] >= v.board.Def.StarsPerLine {
		return false
	}
	if v.colStars[col] >= v.board.Def.StarsPerLine {
		return false
	}
	if v.regionStars[rid] >= v.board.Def.StarsPerRegion {
		return false
	}
	for _, n := range model.Neighbors8(v.def, cellID) {
		if v.starAt[n] {
			return false
		}
	}
	return true
}

// Place commits a tentative star at cellID. Callers should check
// CanPlace first; Place does not re-validate.
func (v *Validator) Place(cellID int) {
	row, col := v.def.RowCol(cellID)
	v.rowStars[row]++
	v.colStars[col]++
	v.regionStars[v.def.RegionOf(cellID)]++
	v.starAt[cellID] = true
	v.placedStack = append(v.placedStack, cellID)
}

// Remove undoes the most recently placed tentative star. Panics if there
// is nothing to remove, the same LIFO discipline spec.md §4.2 requires.
func (v *Validator) Remove(cellID int) {
	n := len(v.placedStack)
	if n == 0 || v.placedStack[n-1] != cellID {
		panic("validator: Remove must undo the most recently placed cell")
	}
	v.placedStack = v.placedStack[:n-1]
	row, col := v.def.RowCol(cellID)
	v.rowStars[row]--
	v.colStars[col]--
	v.regionStars[v.def.RegionOf(cellID)]--
	delete(v.starAt, cellID)
}

// RowStars returns the current (committed + tentative) star count in row.
func (v *Validator) RowStars(row int) int { return v.rowStars[row] }

// ColStars returns the current (committed + tentative) star count in col.
func (v *Validator) ColStars(col int) int { return v.colStars[col] }

// RegionStars returns the current (committed + tentative) star count in
// region rid.
func (v *Validator) RegionStars(rid int) int { return v.regionStars[rid] }

// EligibleCells filters cells down to those that are Unknown and pass
// CanPlace right now: spec.md's GLOSSARY "Candidate cell".
func (v *Validator) EligibleCells(cells []int) []int {
	var out []int
	for _, c := range cells {
		if v.board.Cell(c) == model.Unknown && v.CanPlace(c) {
			out = append(out, c)
		}
	}
	return out
}
