package schema

import (
	"starbattle/internal/model"
	"starbattle/internal/validator"
	"starbattle/pkg/constants"
)

// exclusiveAreaSqueeze implements the shared B1/B2 reasoning (spec.md
// §4.3 B1/B2): when every region touching band B also lies entirely
// within it except for a single region R, R's candidates inside B are
// exactly the cells the band's remaining capacity must cover. This is
// the band-exclusive-area mirror of bandBudgetSqueeze (a_band.go); B
// differs from A by reasoning over the band's leftover capacity as a
// single pooled quantity instead of per-region known quotas.
func exclusiveAreaSqueeze(env *Env, schemaID string, bands []model.Band) []model.SchemaApplication {
	b := env.Board
	v := validator.New(b)
	var apps []model.SchemaApplication

	for _, band := range bands {
		regions := model.RegionsIntersecting(b, band)
		var partial []int
		fullyInsideStars := 0
		for _, rid := range regions {
			if model.RegionFullyInsideBand(b, rid, band) {
				fullyInsideStars += b.Def.StarsPerRegion
			} else {
				partial = append(partial, rid)
			}
		}
		if len(partial) != 1 {
			continue // B1/B2 only fires when exactly one region straddles the band
		}
		target := partial[0]

		remaining := band.Capacity(b) - fullyInsideStars
		candidates := v.EligibleCells(model.RegionCellsInBand(b, target, band))
		if remaining <= 0 || remaining != len(candidates) {
			continue
		}

		apps = append(apps, forceStarBandApplication(schemaID, target, band, candidates, remaining))
	}
	return apps
}

// B1RowBandExclusiveArea is spec.md §4.3 B1.
type B1RowBandExclusiveArea struct{}

func (B1RowBandExclusiveArea) ID() string    { return "B1-row-band-exclusive-area" }
func (B1RowBandExclusiveArea) Priority() int { return constants.PriorityExclusiveArea }
func (B1RowBandExclusiveArea) Apply(env *Env) []model.SchemaApplication {
	return exclusiveAreaSqueeze(env, "B1-row-band-exclusive-area", model.AllRowBands(env.Board))
}

// B2ColumnBandExclusiveArea is spec.md §4.3 B2.
type B2ColumnBandExclusiveArea struct{}

func (B2ColumnBandExclusiveArea) ID() string    { return "B2-column-band-exclusive-area" }
func (B2ColumnBandExclusiveArea) Priority() int { return constants.PriorityExclusiveArea }
func (B2ColumnBandExclusiveArea) Apply(env *Env) []model.SchemaApplication {
	return exclusiveAreaSqueeze(env, "B2-column-band-exclusive-area", model.AllColumnBands(env.Board))
}

// regionVsLineExclusiveArea implements the shared B3/B4 reasoning
// (spec.md §4.3 B3/B4): a region occupies exactly one line (row or
// column) outside of the rest of its footprint; if the region's
// candidates confined to that single line equal its still-required
// star count, they must all be stars.
func regionVsLineExclusiveArea(env *Env, schemaID string, kind model.BandKind) []model.SchemaApplication {
	b := env.Board
	v := validator.New(b)
	var apps []model.SchemaApplication

	for _, rid := range b.Def.RegionIDs() {
		lines := regionLines(b, rid, kind)
		if len(lines) < 2 {
			continue
		}
		remaining := b.Def.StarsPerRegion - model.StarCount(b, b.RegionCells(rid))
		if remaining <= 0 {
			continue
		}
		for _, line := range lines {
			lineBand := model.SingleLineBand(b, kind, line)
			othersEligible := 0
			for _, other := range lines {
				if other == line {
					continue
				}
				otherBand := model.SingleLineBand(b, kind, other)
				othersEligible += len(v.EligibleCells(model.RegionCellsInBand(b, rid, otherBand)))
			}
			if othersEligible != 0 {
				continue // B3/B4 only fires when this line is the region's sole remaining line
			}
			candidates := v.EligibleCells(model.RegionCellsInBand(b, rid, lineBand))
			if len(candidates) == 0 || len(candidates) != remaining {
				continue
			}
			apps = append(apps, forceStarBandApplication(schemaID, rid, lineBand, candidates, remaining))
		}
	}
	return apps
}

// B3RegionVsRowExclusiveArea is spec.md §4.3 B3.
type B3RegionVsRowExclusiveArea struct{}

func (B3RegionVsRowExclusiveArea) ID() string    { return "B3-region-vs-row-exclusive-area" }
func (B3RegionVsRowExclusiveArea) Priority() int { return constants.PriorityExclusiveArea }
func (B3RegionVsRowExclusiveArea) Apply(env *Env) []model.SchemaApplication {
	return regionVsLineExclusiveArea(env, "B3-region-vs-row-exclusive-area", model.BandRow)
}

// B4RegionVsColumnExclusiveArea is spec.md §4.3 B4.
type B4RegionVsColumnExclusiveArea struct{}

func (B4RegionVsColumnExclusiveArea) ID() string    { return "B4-region-vs-column-exclusive-area" }
func (B4RegionVsColumnExclusiveArea) Priority() int { return constants.PriorityExclusiveArea }
func (B4RegionVsColumnExclusiveArea) Apply(env *Env) []model.SchemaApplication {
	return regionVsLineExclusiveArea(env, "B4-region-vs-column-exclusive-area", model.BandColumn)
}
