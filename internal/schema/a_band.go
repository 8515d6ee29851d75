package schema

import (
	"fmt"

	"starbattle/internal/model"
	"starbattle/internal/stats"
	"starbattle/internal/validator"
	"starbattle/pkg/constants"
)

// bandBudgetSqueeze implements the shared A1/A2 arithmetic: for band B and
// partial region R intersecting it, compute how many stars remain for R
// inside B once the band's fully-contained regions and other partial
// regions (with a known quota) are accounted for (spec.md §4.3 A1/A2).
func bandBudgetSqueeze(env *Env, schemaID string, bands []model.Band) []model.SchemaApplication {
	b := env.Board
	v := validator.New(b)
	var apps []model.SchemaApplication

	for _, band := range bands {
		regions := model.RegionsIntersecting(b, band)
		var partial []int
		forcedFullInside := 0
		for _, rid := range regions {
			if model.RegionFullyInsideBand(b, rid, band) {
				forcedFullInside += b.Def.StarsPerRegion
			} else {
				partial = append(partial, rid)
			}
		}
		if len(partial) == 0 {
			continue
		}

		capacity := band.Capacity(b)

		unknownCount := 0
		quotas := make(map[int]stats.QuotaResult, len(partial))
		for _, rid := range partial {
			q := env.Stats.QuotaInBand(b, rid, band, 0)
			quotas[rid] = q
			if !q.Known {
				unknownCount++
			}
		}
		if unknownCount >= 2 {
			continue // too many free variables, spec.md §4.3 A1/A2
		}

		for _, target := range partial {
			otherSum := 0
			skip := false
			for _, rid := range partial {
				if rid == target {
					continue
				}
				q := quotas[rid]
				if !q.Known {
					skip = true
					break
				}
				otherSum += q.Value
			}
			if skip {
				continue
			}

			remainingForTarget := capacity - forcedFullInside - otherSum
			candidates := v.EligibleCells(model.RegionCellsInBand(b, target, band))

			if remainingForTarget == 0 && len(candidates) > 0 {
				apps = append(apps, forceEmptyApplication(schemaID, target, band, candidates,
					fmt.Sprintf("band capacity is fully accounted for without region %d", target)))
				continue
			}
			if remainingForTarget == len(candidates) && remainingForTarget > 0 {
				apps = append(apps, forceStarBandApplication(schemaID, target, band, candidates, remainingForTarget))
			}
		}
	}
	return apps
}

func forceEmptyApplication(schemaID string, rid int, band model.Band, candidates []int, note string) model.SchemaApplication {
	var deds []model.Deduction
	for _, c := range candidates {
		deds = append(deds, model.CellDeduction(c, model.ForceEmpty))
	}
	return model.SchemaApplication{
		SchemaID:   schemaID,
		Params:     map[string]any{"region": rid, "band_kind": int(band.Kind), "band_lo": band.Lo, "band_hi": band.Hi},
		Deductions: deds,
		Explanation: model.ExplanationInstance{
			SchemaID: schemaID,
			Steps: []model.ExplanationStep{
				{Kind: model.StepCountStarsInBand, Entities: map[string]any{"band": bandName(band), "starsNeeded": 0}},
				{Kind: model.StepFixRegionBandQuota, Entities: map[string]any{"region": rid, "band": bandName(band), "quota": 0}},
				{Kind: model.StepEliminateOtherRegionCells, Entities: map[string]any{"region": rid, "cells": candidates, "note": note}},
			},
		},
	}
}

func forceStarBandApplication(schemaID string, rid int, band model.Band, candidates []int, quota int) model.SchemaApplication {
	var deds []model.Deduction
	for _, c := range candidates {
		deds = append(deds, model.CellDeduction(c, model.ForceStar))
	}
	return model.SchemaApplication{
		SchemaID:   schemaID,
		Params:     map[string]any{"region": rid, "band_kind": int(band.Kind), "band_lo": band.Lo, "band_hi": band.Hi},
		Deductions: deds,
		Explanation: model.ExplanationInstance{
			SchemaID: schemaID,
			Steps: []model.ExplanationStep{
				{Kind: model.StepFixRegionBandQuota, Entities: map[string]any{"region": rid, "band": bandName(band), "quota": quota}},
				{Kind: model.StepAssignCageStars, Entities: map[string]any{"region": rid, "blocks": candidates}},
			},
		},
	}
}

func bandName(band model.Band) string {
	kind := "rows"
	if band.Kind == model.BandColumn {
		kind = "columns"
	}
	if band.Lo == band.Hi {
		return fmt.Sprintf("%s %d", kind, band.Lo)
	}
	return fmt.Sprintf("%s %d-%d", kind, band.Lo, band.Hi)
}

// A1RowBandBudget is spec.md §4.3 A1.
type A1RowBandBudget struct{}

func (A1RowBandBudget) ID() string    { return "A1-row-band-budget" }
func (A1RowBandBudget) Priority() int { return constants.PriorityBandBudget }
func (A1RowBandBudget) Apply(env *Env) []model.SchemaApplication {
	return bandBudgetSqueeze(env, "A1-row-band-budget", model.AllRowBands(env.Board))
}

// A2ColumnBandBudget is spec.md §4.3 A2.
type A2ColumnBandBudget struct{}

func (A2ColumnBandBudget) ID() string    { return "A2-column-band-budget" }
func (A2ColumnBandBudget) Priority() int { return constants.PriorityBandBudget }
func (A2ColumnBandBudget) Apply(env *Env) []model.SchemaApplication {
	return bandBudgetSqueeze(env, "A2-column-band-budget", model.AllColumnBands(env.Board))
}

// regionInternalPartition implements the shared A3/A4 arithmetic: a
// region's cells partition across bands of one axis; if every other
// intersecting band's quota is known, the target band's quota is the
// residual (spec.md §4.3 A3/A4).
func regionInternalPartition(env *Env, schemaID string, kind model.BandKind) []model.SchemaApplication {
	b := env.Board
	v := validator.New(b)
	var apps []model.SchemaApplication

	for _, rid := range b.Def.RegionIDs() {
		lines := regionLines(b, rid, kind)
		if len(lines) < 2 {
			continue
		}
		for _, targetLine := range lines {
			targetBand := model.SingleLineBand(b, kind, targetLine)
			sumOthers := 0
			known := true
			for _, other := range lines {
				if other == targetLine {
					continue
				}
				otherBand := model.SingleLineBand(b, kind, other)
				q := env.Stats.QuotaInBand(b, rid, otherBand, 0)
				if !q.Known {
					known = false
					break
				}
				sumOthers += q.Value
			}
			if !known {
				continue
			}
			quotaForTarget := b.Def.StarsPerRegion - sumOthers
			candidates := v.EligibleCells(model.RegionCellsInBand(b, rid, targetBand))
			if quotaForTarget > 0 && quotaForTarget == len(candidates) {
				apps = append(apps, forceStarBandApplication(schemaID, rid, targetBand, candidates, quotaForTarget))
			}
		}
	}
	return apps
}

func regionLines(b *model.BoardState, rid int, kind model.BandKind) []int {
	seen := make(map[int]bool)
	var lines []int
	for _, c := range b.RegionCells(rid) {
		row, col := b.Def.RowCol(c)
		line := row
		if kind == model.BandColumn {
			line = col
		}
		if !seen[line] {
			seen[line] = true
			lines = append(lines, line)
		}
	}
	return lines
}

// A3RegionVsRowBand is spec.md §4.3 A3.
type A3RegionVsRowBand struct{}

func (A3RegionVsRowBand) ID() string    { return "A3-region-vs-row-band" }
func (A3RegionVsRowBand) Priority() int { return constants.PriorityBandBudget }
func (A3RegionVsRowBand) Apply(env *Env) []model.SchemaApplication {
	return regionInternalPartition(env, "A3-region-vs-row-band", model.BandRow)
}

// A4RegionVsColumnBand is spec.md §4.3 A4.
type A4RegionVsColumnBand struct{}

func (A4RegionVsColumnBand) ID() string    { return "A4-region-vs-column-band" }
func (A4RegionVsColumnBand) Priority() int { return constants.PriorityBandBudget }
func (A4RegionVsColumnBand) Apply(env *Env) []model.SchemaApplication {
	return regionInternalPartition(env, "A4-region-vs-column-band", model.BandColumn)
}
