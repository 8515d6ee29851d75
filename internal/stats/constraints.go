// Package stats produces the Constraint list the subset-constraint-squeeze
// technique consumes (spec.md §4.5), tightening region-band bounds with
// the quota helper (quota.go) and the flow-based argument (flow.go).
package stats

import (
	"fmt"

	"starbattle/internal/model"
	"starbattle/internal/validator"
)

// Engine owns the stats layer's per-board quota cache (the
// completion-analysis cache lives in internal/verify).
type Engine struct {
	quota *QuotaCache
}

// NewEngine builds a stats engine with a fresh quota cache.
func NewEngine() *Engine {
	return &Engine{quota: NewQuotaCache()}
}

// QuotaInBand exposes the quota helper (quota.go) to schemas that need
// "how many stars must region rid place in band" directly, notably the
// A1-A4 band-budget family (spec.md §4.3.1).
func (e *Engine) QuotaInBand(b *model.BoardState, rid int, band model.Band, depth int) QuotaResult {
	return e.quota.QuotaInBand(b, rid, band, depth)
}

// Invalidate drops the quota cache; called after any successful
// deduction.
func (e *Engine) Invalidate() { e.quota.Invalidate() }

// RowConstraints returns the direct per-row constraints.
func (e *Engine) RowConstraints(b *model.BoardState) []model.Constraint {
	out := make([]model.Constraint, 0, b.Def.Size)
	for r := 0; r < b.Def.Size; r++ {
		cells := b.RowCells(r)
		out = append(out, directConstraint(b, cells, b.Def.StarsPerLine, model.SourceRow, fmt.Sprintf("row %d", r)))
	}
	return out
}

// ColumnConstraints returns the direct per-column constraints.
func (e *Engine) ColumnConstraints(b *model.BoardState) []model.Constraint {
	out := make([]model.Constraint, 0, b.Def.Size)
	for c := 0; c < b.Def.Size; c++ {
		cells := b.ColCells(c)
		out = append(out, directConstraint(b, cells, b.Def.StarsPerLine, model.SourceColumn, fmt.Sprintf("column %d", c)))
	}
	return out
}

// RegionConstraints returns the direct per-region constraints.
func (e *Engine) RegionConstraints(b *model.BoardState) []model.Constraint {
	ids := b.Def.RegionIDs()
	out := make([]model.Constraint, 0, len(ids))
	for _, rid := range ids {
		cells := b.RegionCells(rid)
		out = append(out, directConstraint(b, cells, b.Def.StarsPerRegion, model.SourceRegion, fmt.Sprintf("region %d", rid)))
	}
	return out
}

func directConstraint(b *model.BoardState, cells []int, required int, source model.ConstraintSource, desc string) model.Constraint {
	placed := model.StarCount(b, cells)
	eligible := len(validator.New(b).EligibleCells(cells))
	min := required - placed
	if min < 0 {
		min = 0
	}
	max := eligible
	if min > max {
		max = min // degenerate/violated board; keep the invariant 0<=min<=max
	}
	return model.Constraint{Cells: cells, MinStars: min, MaxStars: max, Source: source, Description: desc}
}

// RegionBandConstraints iterates every (region, band) intersection and
// computes a tightened (min, max), per spec.md §4.5.
func (e *Engine) RegionBandConstraints(b *model.BoardState) []model.Constraint {
	var out []model.Constraint
	for _, kind := range []model.BandKind{model.BandRow, model.BandColumn} {
		bands := model.AllRowBands(b)
		if kind == model.BandColumn {
			bands = model.AllColumnBands(b)
		}
		for _, band := range bands {
			for _, rid := range model.RegionsIntersecting(b, band) {
				if model.RegionFullyInsideBand(b, rid, band) {
					continue // no extra information over the region constraint itself
				}
				out = append(out, e.regionBandConstraint(b, rid, band))
			}
		}
	}
	return out
}

func (e *Engine) regionBandConstraint(b *model.BoardState, rid int, band model.Band) model.Constraint {
	shapeCells := model.RegionCellsInBand(b, rid, band)
	placed := model.StarCount(b, shapeCells)
	v := validator.New(b)
	eligible := len(v.EligibleCells(shapeCells))

	q := e.quota.QuotaInBand(b, rid, band, 0)
	min := q.Value - placed
	if min < 0 {
		min = 0
	}

	flowBound := minFromRows(b, v, rid, band)
	if flowBound > min {
		min = flowBound
	}

	max := eligible
	if min > max {
		max = min
	}

	kindName := "row-band"
	if band.Kind == model.BandColumn {
		kindName = "column-band"
	}
	desc := fmt.Sprintf("region %d in %s [%d..%d]", rid, kindName, band.Lo, band.Hi)
	return model.Constraint{Cells: shapeCells, MinStars: min, MaxStars: max, Source: model.SourceRegionBand, Description: desc}
}

// BlockConstraints returns every 2x2 block's (min, max); min/max are 0/1
// by definition, tightened to 1/1 ("block-forced") when the block already
// holds a star, or when another constraint with min >= 1 has all its cells
// inside the block (spec.md §4.5).
func (e *Engine) BlockConstraints(b *model.BoardState, others []model.Constraint) []model.Constraint {
	var out []model.Constraint
	for i, block := range b.Blocks() {
		cells := block[:]
		placed := model.StarCount(b, cells)
		if placed > 0 {
			out = append(out, model.Constraint{Cells: cells, MinStars: 1, MaxStars: 1, Source: model.SourceBlockForced, Description: fmt.Sprintf("block %d", i)})
			continue
		}
		v := validator.New(b)
		eligible := len(v.EligibleCells(cells))
		max := 1
		if eligible < max {
			max = eligible
		}
		min := 0
		source := model.SourceBlock
		if forcedInsideBlock(cells, others) {
			min = 1
			source = model.SourceBlockForced
		}
		out = append(out, model.Constraint{Cells: cells, MinStars: min, MaxStars: max, Source: source, Description: fmt.Sprintf("block %d", i)})
	}
	return out
}

func forcedInsideBlock(blockCells []int, others []model.Constraint) bool {
	blockSet := make(map[int]bool, len(blockCells))
	for _, c := range blockCells {
		blockSet[c] = true
	}
	for _, con := range others {
		if con.MinStars == 0 {
			continue
		}
		allInside := true
		for _, c := range con.Cells {
			if !blockSet[c] {
				allInside = false
				break
			}
		}
		if allInside && len(con.Cells) > 0 && con.MinStars >= 1 {
			return true
		}
	}
	return false
}

// All returns every constraint the stats layer can currently derive:
// rows, columns, regions, region-bands, and blocks (tightened against the
// first four).
func (e *Engine) All(b *model.BoardState) []model.Constraint {
	var cs []model.Constraint
	cs = append(cs, e.RowConstraints(b)...)
	cs = append(cs, e.ColumnConstraints(b)...)
	cs = append(cs, e.RegionConstraints(b)...)
	cs = append(cs, e.RegionBandConstraints(b)...)
	cs = append(cs, e.BlockConstraints(b, cs)...)
	return cs
}

// SubsetSqueeze finds pairs (small, large) of constraints where
// small.Cells is a subset of large.Cells and small.MinStars ==
// large.MaxStars, concluding every cell in large\small is Empty
// (spec.md §4.5).
func SubsetSqueeze(constraints []model.Constraint) []model.Deduction {
	var out []model.Deduction
	for _, small := range constraints {
		if len(small.Cells) == 0 {
			continue
		}
		smallSet := make(map[int]bool, len(small.Cells))
		for _, c := range small.Cells {
			smallSet[c] = true
		}
		for _, large := range constraints {
			if len(large.Cells) <= len(small.Cells) {
				continue
			}
			if small.MinStars != large.MaxStars {
				continue
			}
			if !isSubset(smallSet, large.Cells) {
				continue
			}
			for _, c := range large.Cells {
				if !smallSet[c] {
					out = append(out, model.Deduction{Kind: model.ForceEmpty, Cell: c})
				}
			}
		}
	}
	return out
}

func isSubset(smallSet map[int]bool, largeCells []int) bool {
	largeSet := make(map[int]bool, len(largeCells))
	for _, c := range largeCells {
		largeSet[c] = true
	}
	for c := range smallSet {
		if !largeSet[c] {
			return false
		}
	}
	return true
}
