// minFromRows implements the bound-tightening "small max-flow-based
// argument" spec.md §4.5 calls for: how many of a row-band's remaining
// stars are *forced* into a target region because the band's other
// regions cannot absorb all of the demand elsewhere.
//
// It is grounded on github.com/katalvlaran/lvlath's flow package (the
// retrieval pack's graph library): we build a literal bipartite capacity
// network with lvlath/core.NewGraph and solve it with lvlath/flow.Dinic,
// rather than hand-rolling a max-flow loop, since Dinic is exactly the
// "small max-flow-based argument" the spec describes and the pack ships
// a ready algorithm for it.
package stats

import (
	"fmt"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/flow"

	"starbattle/internal/model"
	"starbattle/internal/validator"
)

const flowSource = "__source"
const flowSink = "__sink"

func rowVertexID(row int) string    { return fmt.Sprintf("row:%d", row) }
func regionVertexID(rid int) string { return fmt.Sprintf("region:%d", rid) }

// minFromRows returns a lower bound on the number of stars region rid
// must receive from the rows of band, derived from how much demand the
// band's *other* regions can plausibly absorb.
//
// Network shape (spec.md §4.5):
//
//	source -> row        capacity = row's remaining stars in band
//	row    -> region'    capacity = row's eligible (Unknown, placeable)
//	                                 cells inside region' (region' != rid)
//	region' -> sink      capacity = region''s remaining stars (not reduced
//	                                 by its obligations outside band)
//
// max_other_contribution = maxflow(source, sink). The forced minimum for
// rid is row_demand - max_other_contribution, floored at 0.
func minFromRows(b *model.BoardState, v *validator.Validator, rid int, band model.Band) int {
	rows := bandLines(band)
	if len(rows) == 0 {
		return 0
	}

	rowDemand := 0
	for _, r := range rows {
		lineCells := lineCellsInBand(b, band, r)
		rowDemand += remainingInLine(b, band.Kind, r) - candidatesOutside(b, v, lineCells, rid)
	}
	if rowDemand < 0 {
		rowDemand = 0
	}

	g := core.NewGraph(core.WithDirected(true), core.WithWeighted())
	_ = g.AddVertex(flowSource)
	_ = g.AddVertex(flowSink)

	otherRegions := otherRegionsInBand(b, band, rid)
	if len(otherRegions) == 0 {
		return rowDemand
	}

	for _, r := range rows {
		_ = g.AddVertex(rowVertexID(r))
		cap := int64(remainingInLine(b, band.Kind, r))
		if cap <= 0 {
			continue
		}
		_, _ = g.AddEdge(flowSource, rowVertexID(r), cap)
	}
	for _, other := range otherRegions {
		_ = g.AddVertex(regionVertexID(other))
		cap := int64(regionRemainingOutsideBand(b, other, band))
		if cap < 0 {
			cap = 0
		}
		if cap == 0 {
			continue
		}
		_, _ = g.AddEdge(regionVertexID(other), flowSink, cap)
	}
	for _, r := range rows {
		lineCells := lineCellsInBand(b, band, r)
		for _, other := range otherRegions {
			n := int64(len(cellsInRegion(b, v, lineCells, other)))
			if n <= 0 {
				continue
			}
			_, _ = g.AddEdge(rowVertexID(r), regionVertexID(other), n)
		}
	}

	maxOther, _, err := flow.Dinic(g, flowSource, flowSink, flow.FlowOptions{Epsilon: 1e-9})
	if err != nil {
		// A malformed network (e.g. no path) is not an engine error; it
		// just means no contribution could be routed elsewhere.
		maxOther = 0
	}

	forced := rowDemand - int(maxOther)
	if forced < 0 {
		forced = 0
	}
	return forced
}

func bandLines(band model.Band) []int {
	lines := make([]int, 0, band.Length())
	for i := band.Lo; i <= band.Hi; i++ {
		lines = append(lines, i)
	}
	return lines
}

func lineCellsInBand(b *model.BoardState, band model.Band, line int) []int {
	if band.Kind == model.BandRow {
		return b.RowCells(line)
	}
	return b.ColCells(line)
}

func remainingInLine(b *model.BoardState, kind model.BandKind, line int) int {
	var cells []int
	if kind == model.BandRow {
		cells = b.RowCells(line)
	} else {
		cells = b.ColCells(line)
	}
	return b.Def.StarsPerLine - model.StarCount(b, cells)
}

func candidatesOutside(b *model.BoardState, v *validator.Validator, lineCells []int, rid int) int {
	n := 0
	for _, c := range lineCells {
		if b.Def.RegionOf(c) == rid {
			continue
		}
		if b.Cell(c) == model.Unknown && v.CanPlace(c) {
			n++
		}
	}
	return n
}

func cellsInRegion(b *model.BoardState, v *validator.Validator, cells []int, rid int) []int {
	var out []int
	for _, c := range cells {
		if b.Def.RegionOf(c) == rid && b.Cell(c) == model.Unknown && v.CanPlace(c) {
			out = append(out, c)
		}
	}
	return out
}

func otherRegionsInBand(b *model.BoardState, band model.Band, rid int) []int {
	var out []int
	for _, other := range model.RegionsIntersecting(b, band) {
		if other != rid {
			out = append(out, other)
		}
	}
	return out
}

// regionRemainingOutsideBand returns the sink capacity region rid offers:
// its total remaining stars. We do not further reduce this by the
// region's own outside-band obligations (that is quotaInBand's job, at a
// deeper recursion level the spec caps at depth 1, see §9); treating the
// full remaining count as available keeps this bound conservative rather
// than unsound.
func regionRemainingOutsideBand(b *model.BoardState, rid int, _ model.Band) int {
	regionCells := b.RegionCells(rid)
	return b.Def.StarsPerRegion - model.StarCount(b, regionCells)
}
