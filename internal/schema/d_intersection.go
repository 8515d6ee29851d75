package schema

import (
	"starbattle/internal/model"
	"starbattle/internal/validator"
	"starbattle/pkg/constants"
)

// D1RowColumnIntersection is spec.md §4.3 D1.
type D1RowColumnIntersection struct{}

func (D1RowColumnIntersection) ID() string    { return "D1-row-column-intersection" }
func (D1RowColumnIntersection) Priority() int { return constants.PriorityIntersection }

func (s D1RowColumnIntersection) Apply(env *Env) []model.SchemaApplication {
	b := env.Board
	v := validator.New(b)
	var apps []model.SchemaApplication

	for cellID, state := range b.Cells() {
		if state != model.Unknown {
			continue
		}
		row, col := b.Def.RowCol(cellID)
		rowCells := b.RowCells(row)
		colCells := b.ColCells(col)

		rowRemaining := b.Def.StarsPerLine - model.StarCount(b, rowCells)
		colRemaining := b.Def.StarsPerLine - model.StarCount(b, colCells)

		if rowRemaining <= 0 || colRemaining <= 0 {
			apps = append(apps, singleCellApplication(s.ID(), cellID, model.ForceEmpty,
				"row or column has no remaining stars"))
			continue
		}

		if !v.CanPlace(cellID) {
			continue
		}

		rowCandidates := v.EligibleCells(rowCells)
		colCandidates := v.EligibleCells(colCells)

		if len(rowCandidates)-1 < rowRemaining || len(colCandidates)-1 < colRemaining {
			apps = append(apps, singleCellApplication(s.ID(), cellID, model.ForceStar,
				"removing this cell would leave its row or column unable to reach quota"))
		}
	}
	return apps
}

func singleCellApplication(schemaID string, cell int, kind model.DeductionKind, note string) model.SchemaApplication {
	return model.SchemaApplication{
		SchemaID:   schemaID,
		Params:     map[string]any{"cell": cell},
		Deductions: []model.Deduction{model.CellDeduction(cell, kind)},
		Explanation: model.ExplanationInstance{
			SchemaID: schemaID,
			Steps: []model.ExplanationStep{
				{Kind: model.StepApplyPigeonhole, Entities: map[string]any{"note": note}},
			},
		},
	}
}

// D2RegionBandIntersection is spec.md §4.3 D2.
type D2RegionBandIntersection struct{}

func (D2RegionBandIntersection) ID() string    { return "D2-region-band-intersection" }
func (D2RegionBandIntersection) Priority() int { return constants.PriorityIntersection }

func (s D2RegionBandIntersection) Apply(env *Env) []model.SchemaApplication {
	b := env.Board
	v := validator.New(b)
	var apps []model.SchemaApplication

	for _, kind := range []model.BandKind{model.BandRow, model.BandColumn} {
		bands := model.AllRowBands(b)
		if kind == model.BandColumn {
			bands = model.AllColumnBands(b)
		}
		for _, band := range bands {
			for _, rid := range model.RegionsIntersecting(b, band) {
				if model.RegionFullyInsideBand(b, rid, band) {
					continue
				}
				q := env.Stats.QuotaInBand(b, rid, band, 0)
				if !q.Known {
					continue
				}
				candidates := v.EligibleCells(model.RegionCellsInBand(b, rid, band))
				placed := model.StarCount(b, model.RegionCellsInBand(b, rid, band))
				want := q.Value - placed
				if want <= 0 || want != len(candidates) {
					continue
				}
				apps = append(apps, forceStarBandApplication(s.ID(), rid, band, candidates, want))
			}
		}
	}
	return apps
}

// D3RegionBandSqueeze is spec.md §4.3 D3. Despite the name it reasons
// over a single line (row or column) intersected with a region, not a
// multi-line band; "band" in the schema family name refers to the
// broader §4.3 grouping, not model.Band specifically.
type D3RegionBandSqueeze struct{}

func (D3RegionBandSqueeze) ID() string    { return "D3-region-band-squeeze" }
func (D3RegionBandSqueeze) Priority() int { return constants.PriorityExclusiveArea }

func (s D3RegionBandSqueeze) Apply(env *Env) []model.SchemaApplication {
	b := env.Board
	v := validator.New(b)
	var apps []model.SchemaApplication

	for _, kind := range []model.BandKind{model.BandRow, model.BandColumn} {
		size := b.Def.Size
		for line := 0; line < size; line++ {
			lineBand := model.SingleLineBand(b, kind, line)
			lineCells := lineBand.Cells
			lineRemaining := b.Def.StarsPerLine - model.StarCount(b, lineCells)

			for _, rid := range model.RegionsIntersecting(b, lineBand) {
				shape := model.RegionCellsInBand(b, rid, lineBand)
				if len(shape) == 0 || len(shape) == len(lineCells) {
					continue // region doesn't actually share the line partially
				}
				regionCells := b.RegionCells(rid)
				regionRemaining := b.Def.StarsPerRegion - model.StarCount(b, regionCells)

				shapeSet := make(map[int]bool, len(shape))
				for _, c := range shape {
					shapeSet[c] = true
				}

				outsideLine := subtractCells(v.EligibleCells(lineCells), shapeSet)
				outsideRegion := subtractCells(v.EligibleCells(regionCells), shapeSet)

				forcedByLine := lineRemaining - len(outsideLine)
				forcedByRegion := regionRemaining - len(outsideRegion)
				forced := forcedByLine
				if forcedByRegion > forced {
					forced = forcedByRegion
				}
				if forced <= 0 {
					continue
				}

				eligibleShape := v.EligibleCells(shape)
				if len(eligibleShape) != forced {
					continue
				}
				apps = append(apps, forceStarBandApplication(s.ID(), rid, lineBand, eligibleShape, forced))
			}
		}
	}
	return apps
}

func subtractCells(cells []int, remove map[int]bool) []int {
	var out []int
	for _, c := range cells {
		if !remove[c] {
			out = append(out, c)
		}
	}
	return out
}
