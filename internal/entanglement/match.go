package entanglement

import (
	"starbattle/internal/model"
)

// FeatureEvaluator resolves an opaque constraint-feature predicate by
// name against the current board state. The core never hard-codes
// feature semantics; the host supplies the implementation (spec.md §9
// "Feature evaluator for constrained rules").
type FeatureEvaluator func(name string, state *model.BoardState, candidateCell int, mappedStars []int) bool

// placedStars returns the coordinates of every Star cell on the board.
func placedStars(def *model.PuzzleDefinition, b *model.BoardState) []Coord {
	var out []Coord
	for cellID, s := range b.Cells() {
		if s == model.Star {
			row, col := def.RowCol(cellID)
			out = append(out, Coord{Row: row, Col: col})
		}
	}
	return out
}

// transformCoords applies D4 transform t to every coordinate in cs.
func transformCoords(t model.D4Transformation, cs []Coord, size int) []Coord {
	out := make([]Coord, len(cs))
	for i, c := range cs {
		r, col := model.ApplyD4(t, c.Row, c.Col, size)
		out[i] = Coord{Row: r, Col: col}
	}
	return out
}

func translate(cs []Coord, dr, dc int) []Coord {
	out := make([]Coord, len(cs))
	for i, c := range cs {
		out[i] = Coord{Row: c.Row + dr, Col: c.Col + dc}
	}
	return out
}

func inBounds(cs []Coord, size int) bool {
	for _, c := range cs {
		if c.Row < 0 || c.Row >= size || c.Col < 0 || c.Col >= size {
			return false
		}
	}
	return true
}

func coordSetEqual(a, b []Coord) bool {
	if len(a) != len(b) {
		return false
	}
	sa, sb := sortedCoords(a), sortedCoords(b)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

// findMappings enumerates every (transform, offset) that places
// canonical onto some |canonical|-sized subset of actual, per spec.md
// §4.4 "Matching" steps 1-3: for each D4 transform, derive the
// translation offset from pairing the transformed canonical's first
// point against each candidate actual point, then verify the whole set
// matches.
func findMappings(canonical []Coord, actual []Coord, size int) []PatternMapping {
	if len(canonical) == 0 || len(canonical) > len(actual) {
		return nil
	}
	var mappings []PatternMapping

	for _, t := range model.AllD4 {
		transformed := transformCoords(t, canonical, size)
		anchor := transformed[0]
		for _, subset := range kSubsets(actual, len(canonical)) {
			for _, actualAnchor := range subset {
				dr := actualAnchor.Row - anchor.Row
				dc := actualAnchor.Col - anchor.Col
				placed := translate(transformed, dr, dc)
				if !inBounds(placed, size) {
					continue
				}
				if !coordSetEqual(placed, subset) {
					continue
				}
				mappings = append(mappings, PatternMapping{
					Transform:   t,
					OffsetRow:   dr,
					OffsetCol:   dc,
					MappedStars: placed,
				})
			}
		}
	}
	return dedupMappings(mappings)
}

func dedupMappings(in []PatternMapping) []PatternMapping {
	seen := make(map[string]bool)
	var out []PatternMapping
	for _, m := range in {
		key := fingerprint(m.MappedStars, nil, []string{string(rune('0' + int(m.Transform)))})
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}

// kSubsets yields every size-k subset of items (order-independent,
// spec.md §4.4 step 2 "for each size-|C| subset of S"). Star counts
// in practice are small (board sizes in the tens), so the naive
// combinatorial enumeration is fine.
func kSubsets(items []Coord, k int) [][]Coord {
	var out [][]Coord
	n := len(items)
	if k > n {
		return nil
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		subset := make([]Coord, k)
		for i, j := range idx {
			subset[i] = items[j]
		}
		out = append(out, subset)

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return out
}

// MatchPairPatterns runs every pair/pure pattern in specs against b,
// returning one ForceEmpty/ForceStar deduction per surviving mapped
// cell (spec.md §4.4 steps 1-3, 6).
func MatchPairPatterns(def *model.PuzzleDefinition, b *model.BoardState, patterns []PairPattern) []model.Deduction {
	stars := placedStars(def, b)
	var deds []model.Deduction

	for _, p := range patterns {
		mappings := findMappings(p.InitialStars, stars, def.Size)
		for _, m := range mappings {
			for _, c := range transformAndOffset(p.ForcedEmpty, m, def.Size) {
				if !inBounds([]Coord{c}, def.Size) {
					continue
				}
				cell := def.CellID(c.Row, c.Col)
				if b.Cell(cell) == model.Unknown {
					deds = append(deds, model.CellDeduction(cell, model.ForceEmpty))
				}
			}
			for _, c := range transformAndOffset(p.ForcedStar, m, def.Size) {
				if !inBounds([]Coord{c}, def.Size) {
					continue
				}
				cell := def.CellID(c.Row, c.Col)
				if b.Cell(cell) == model.Unknown {
					deds = append(deds, model.CellDeduction(cell, model.ForceStar))
				}
			}
		}
	}
	return deds
}

func transformAndOffset(cs []Coord, m PatternMapping, size int) []Coord {
	t := transformCoords(m.Transform, cs, size)
	return translate(t, m.OffsetRow, m.OffsetCol)
}

// MatchRules runs every triple/constrained rule in rules against b,
// per spec.md §4.4 steps 1, 3-6: canonical stars must map onto actual
// placed stars, the canonical candidate (transformed the same way)
// must land on an Unknown cell, and every named feature must evaluate
// true before the candidate is forced Empty.
func MatchRules(def *model.PuzzleDefinition, b *model.BoardState, rules []Rule, eval FeatureEvaluator) []model.Deduction {
	stars := placedStars(def, b)
	var deds []model.Deduction

	for _, rule := range rules {
		mappings := findMappings(rule.CanonicalStars, stars, def.Size)
		for _, m := range mappings {
			candidateCoords := transformAndOffset([]Coord{rule.CanonicalCandidate}, m, def.Size)
			c := candidateCoords[0]
			if !inBounds([]Coord{c}, def.Size) {
				continue
			}
			cell := def.CellID(c.Row, c.Col)
			if b.Cell(cell) != model.Unknown {
				continue
			}

			if rule.Kind == RuleConstrained {
				if eval == nil {
					continue // no evaluator registered; cannot honor constrained rules
				}
				mappedCells := make([]int, len(m.MappedStars))
				for i, mc := range m.MappedStars {
					mappedCells[i] = def.CellID(mc.Row, mc.Col)
				}
				allTrue := true
				for _, feat := range rule.ConstraintFeatures {
					if !eval(feat, b, cell, mappedCells) {
						allTrue = false
						break
					}
				}
				if !allTrue {
					continue
				}
			}

			deds = append(deds, model.CellDeduction(cell, model.ForceEmpty))
		}
	}
	return deds
}
