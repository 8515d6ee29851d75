package entanglement

import (
	"starbattle/internal/model"
	"starbattle/internal/validator"
)

// constrainedUnit is a row, column, or region with exactly one star left
// to place and a small candidate set (spec.md §4.4 "A conservative
// version of the matching algorithm"). It is the heuristic path's
// building block, standing in for the full pattern-file match when no
// pattern file happens to cover the configuration at hand.
type constrainedUnit struct {
	cells []int // eligible (Unknown, placeable) cells for this unit
}

// findConstrainedUnits collects every row, column, and region with
// exactly one remaining star and at most candidateCap eligible cells
// (spec.md §4.4, §9 "ad-hoc and tunable" cap).
func findConstrainedUnits(b *model.BoardState, v *validator.Validator, candidateCap int) []constrainedUnit {
	var units []constrainedUnit
	def := b.Def

	collect := func(cells []int, required int) {
		remaining := required - model.StarCount(b, cells)
		if remaining != 1 {
			return
		}
		eligible := v.EligibleCells(cells)
		if len(eligible) == 0 || len(eligible) > candidateCap {
			return
		}
		units = append(units, constrainedUnit{cells: eligible})
	}

	for r := 0; r < def.Size; r++ {
		collect(b.RowCells(r), def.StarsPerLine)
	}
	for c := 0; c < def.Size; c++ {
		collect(b.ColCells(c), def.StarsPerLine)
	}
	for _, rid := range def.RegionIDs() {
		collect(b.RegionCells(rid), def.StarsPerRegion)
	}
	return units
}

// sharedCells returns the cells that appear in at least two of units.
func sharedCells(units []constrainedUnit) []int {
	count := make(map[int]int)
	var order []int
	for _, u := range units {
		for _, c := range u.cells {
			if count[c] == 0 {
				order = append(order, c)
			}
			count[c]++
		}
	}
	var out []int
	for _, c := range order {
		if count[c] >= 2 {
			out = append(out, c)
		}
	}
	return out
}

// unitsContaining returns the units among units that list cell as a
// candidate.
func unitsContaining(units []constrainedUnit, cell int) []constrainedUnit {
	var out []constrainedUnit
	for _, u := range units {
		for _, c := range u.cells {
			if c == cell {
				out = append(out, u)
				break
			}
		}
	}
	return out
}

// survivesEmpty reports whether every entangled unit still has at least
// one placeable candidate after cell is hypothetically marked Empty
// (spec.md §4.4: "tentatively set each shared cell to Empty and verify
// that each entangled unit still has >= its remaining-stars worth of
// placements").
func survivesEmpty(units []constrainedUnit, cell int) bool {
	for _, u := range units {
		remaining := 0
		for _, c := range u.cells {
			if c != cell {
				remaining++
			}
		}
		if remaining < 1 {
			return false
		}
	}
	return true
}

// survivesStar reports whether placing a tentative star at cell leaves
// every other constrained unit still able to reach its remaining quota:
// each unit that does not list cell as a candidate must retain at least
// one candidate once cell (and anything 8-adjacent to it) is excluded.
func survivesStar(b *model.BoardState, units []constrainedUnit, cell int) bool {
	excluded := make(map[int]bool)
	excluded[cell] = true
	for _, n := range model.Neighbors8(b.Def, cell) {
		excluded[n] = true
	}
	for _, u := range units {
		remaining := 0
		for _, c := range u.cells {
			if !excluded[c] {
				remaining++
			}
		}
		if remaining < 1 {
			// The unit that owns cell itself is satisfied by placing the
			// star there; only units that do not contain the cell need an
			// alternative candidate.
			owns := false
			for _, c := range u.cells {
				if c == cell {
					owns = true
					break
				}
			}
			if !owns {
				return false
			}
		}
	}
	return true
}

// MatchHeuristic implements spec.md §4.4's conservative two-ply
// contradiction search over constrained units: for every cell shared by
// two or more units with exactly one star left, check whether hypothesizing
// Empty (resp. Star) there strands a constrained unit with no legal
// completion; if so, the opposite value is forced. Output is filtered so
// forced Stars are never pairwise 8-adjacent and never adjacent to an
// existing Star (spec.md §4.4 "Output is filtered").
func MatchHeuristic(b *model.BoardState, candidateCap int) []model.Deduction {
	v := validator.New(b)
	units := findConstrainedUnits(b, v, candidateCap)
	if len(units) < 2 {
		return nil
	}

	var deds []model.Deduction
	forcedStar := make(map[int]bool)

	for _, cell := range sharedCells(units) {
		siblings := unitsContaining(units, cell)
		if len(siblings) < 2 {
			continue
		}
		if !survivesEmpty(siblings, cell) {
			if v.CanPlace(cell) && !adjacentToForced(b, forcedStar, cell) {
				deds = append(deds, model.CellDeduction(cell, model.ForceStar))
				forcedStar[cell] = true
			}
			continue
		}
		if !survivesStar(b, units, cell) {
			deds = append(deds, model.CellDeduction(cell, model.ForceEmpty))
		}
	}
	return deds
}

func adjacentToForced(b *model.BoardState, forced map[int]bool, cell int) bool {
	if forced[cell] {
		return true
	}
	for _, n := range model.Neighbors8(b.Def, cell) {
		if forced[n] {
			return true
		}
	}
	return false
}
