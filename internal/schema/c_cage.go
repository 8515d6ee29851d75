package schema

import (
	"fmt"

	"starbattle/internal/model"
	"starbattle/internal/validator"
	"starbattle/pkg/constants"
)

// liveBlocks returns the 2x2 blocks (only those lying entirely inside
// within, when within is non-nil) that still hold no Star and have at
// least one eligible cell.
func liveBlocks(b *model.BoardState, v *validator.Validator, within map[int]bool) []([4]int) {
	var out [][4]int
	for _, block := range b.Blocks() {
		if within != nil {
			inside := true
			for _, c := range block {
				if !within[c] {
					inside = false
					break
				}
			}
			if !inside {
				continue
			}
		}
		if model.StarCount(b, block[:]) > 0 {
			continue
		}
		if len(v.EligibleCells(block[:])) == 0 {
			continue
		}
		out = append(out, block)
	}
	return out
}

func bandCellSet(band model.Band) map[int]bool {
	set := make(map[int]bool, len(band.Cells))
	for _, c := range band.Cells {
		set[c] = true
	}
	return set
}

// C1BandExactCages is spec.md §4.3 C1. It emits no deduction by itself;
// it exists so C2 can ask the same question ("which blocks are live in
// this band") without duplicating the bookkeeping.
type C1BandExactCages struct{}

func (C1BandExactCages) ID() string                                 { return "C1-band-exact-cages" }
func (C1BandExactCages) Priority() int                               { return constants.PriorityCage }
func (C1BandExactCages) Apply(env *Env) []model.SchemaApplication { return nil }

// bandExactCages reports whether band B's remaining stars exactly match
// its live-block count, and if so the live blocks (spec.md §4.3 C1).
func bandExactCages(b *model.BoardState, v *validator.Validator, band model.Band) ([][4]int, bool) {
	remaining := band.Capacity(b) - model.StarCount(b, band.Cells)
	if remaining <= 0 {
		return nil, false
	}
	blocks := liveBlocks(b, v, bandCellSet(band))
	if len(blocks) != remaining {
		return nil, false
	}
	return blocks, true
}

// C2CagesVsRegionQuota is spec.md §4.3 C2.
type C2CagesVsRegionQuota struct{}

func (C2CagesVsRegionQuota) ID() string    { return "C2-cages-vs-region-quota" }
func (C2CagesVsRegionQuota) Priority() int { return constants.PriorityCage }

func (s C2CagesVsRegionQuota) Apply(env *Env) []model.SchemaApplication {
	b := env.Board
	v := validator.New(b)
	var apps []model.SchemaApplication

	for _, kind := range []model.BandKind{model.BandRow, model.BandColumn} {
		bands := model.AllRowBands(b)
		if kind == model.BandColumn {
			bands = model.AllColumnBands(b)
		}
		for _, band := range bands {
			blocks, ok := bandExactCages(b, v, band)
			if !ok {
				continue
			}
			for _, rid := range model.RegionsIntersecting(b, band) {
				q := env.Stats.QuotaInBand(b, rid, band, 0)
				if !q.Known {
					continue
				}
				fullyInside := 0
				for _, block := range blocks {
					inRegion := true
					for _, c := range block {
						if b.Def.RegionOf(c) != rid {
							inRegion = false
							break
						}
					}
					if inRegion {
						fullyInside++
					}
				}
				if fullyInside != q.Value || fullyInside == 0 {
					continue
				}
				blockSet := make(map[int]bool)
				for _, block := range blocks {
					inRegion := true
					for _, c := range block {
						if b.Def.RegionOf(c) != rid {
							inRegion = false
							break
						}
					}
					if inRegion {
						for _, c := range block {
							blockSet[c] = true
						}
					}
				}
				var toEmpty []int
				for _, c := range v.EligibleCells(model.RegionCellsInBand(b, rid, band)) {
					if !blockSet[c] {
						toEmpty = append(toEmpty, c)
					}
				}
				if len(toEmpty) == 0 {
					continue
				}
				apps = append(apps, forceEmptyApplication(s.ID(), rid, band, toEmpty,
					fmt.Sprintf("region %d's remaining stars in this band are confined to %d exact cage(s)", rid, fullyInside)))
			}
		}
	}
	return apps
}

// C3InternalCagePlacement is spec.md §4.3 C3: meta-information like C1,
// it does not itself force any single cell.
type C3InternalCagePlacement struct{}

func (C3InternalCagePlacement) ID() string                               { return "C3-internal-cage-placement" }
func (C3InternalCagePlacement) Priority() int                            { return constants.PriorityCage }
func (C3InternalCagePlacement) Apply(env *Env) []model.SchemaApplication { return nil }

// C4CageExclusion is spec.md §4.3 C4.
type C4CageExclusion struct{}

func (C4CageExclusion) ID() string    { return "C4-cage-exclusion" }
func (C4CageExclusion) Priority() int { return constants.PriorityCage }

func (s C4CageExclusion) Apply(env *Env) []model.SchemaApplication {
	b := env.Board
	v := validator.New(b)
	var apps []model.SchemaApplication

	for i, block := range b.Blocks() {
		if model.StarCount(b, block[:]) > 0 {
			continue
		}
		for _, g := range blockGroups(b, block) {
			remaining := g.Remaining(b)
			inBlock := intersectCells(block[:], g.Cells)
			eligible := v.EligibleCells(inBlock)
			if len(eligible) == 0 {
				continue
			}
			if remaining == 0 {
				apps = append(apps, blockForceEmptyApplication(s.ID(), i, g, eligible))
				continue
			}
			if remaining == 1 && len(eligible) == 1 {
				var deds []model.Deduction
				deds = append(deds, model.CellDeduction(eligible[0], model.ForceStar))
				apps = append(apps, model.SchemaApplication{
					SchemaID:   s.ID(),
					Params:     map[string]any{"block": i, "group_kind": g.Kind.String(), "group_index": g.Index},
					Deductions: deds,
					Explanation: model.ExplanationInstance{
						SchemaID: s.ID(),
						Steps: []model.ExplanationStep{
							{Kind: model.StepIdentifyCandidateBlocks, Entities: map[string]any{"blocks": []int{i}, "blockCount": 1}},
							{Kind: model.StepApplyPigeonhole, Entities: map[string]any{
								"note": fmt.Sprintf("%s %d needs exactly one more star and this block has the only candidate", g.Kind.String(), g.Index),
							}},
						},
					},
				})
			}
		}
	}
	return apps
}

func blockForceEmptyApplication(schemaID string, blockIndex int, g model.Group, eligible []int) model.SchemaApplication {
	var deds []model.Deduction
	for _, c := range eligible {
		deds = append(deds, model.CellDeduction(c, model.ForceEmpty))
	}
	return model.SchemaApplication{
		SchemaID:   schemaID,
		Params:     map[string]any{"block": blockIndex, "group_kind": g.Kind.String(), "group_index": g.Index},
		Deductions: deds,
		Explanation: model.ExplanationInstance{
			SchemaID: schemaID,
			Steps: []model.ExplanationStep{
				{Kind: model.StepCountRemainingStars, Entities: map[string]any{
					"remainingStars": 0,
					"targetRegion":   fmt.Sprintf("%s %d", g.Kind.String(), g.Index),
				}},
				{Kind: model.StepEliminateOtherRegionCells, Entities: map[string]any{"region": g.Index, "cells": eligible}},
			},
		},
	}
}

// blockGroups returns the distinct row, column, and region groups that
// touch block's four cells.
func blockGroups(b *model.BoardState, block [4]int) []model.Group {
	var groups []model.Group
	rows := make(map[int]bool)
	cols := make(map[int]bool)
	regions := make(map[int]bool)
	for _, c := range block {
		row, col := b.Def.RowCol(c)
		rows[row] = true
		cols[col] = true
		regions[b.Def.RegionOf(c)] = true
	}
	for row := range rows {
		groups = append(groups, model.RowGroup(b, row))
	}
	for col := range cols {
		groups = append(groups, model.ColumnGroup(b, col))
	}
	for rid := range regions {
		groups = append(groups, model.RegionGroup(b, rid))
	}
	return groups
}

func intersectCells(a, b []int) []int {
	set := make(map[int]bool, len(b))
	for _, c := range b {
		set[c] = true
	}
	var out []int
	for _, c := range a {
		if set[c] {
			out = append(out, c)
		}
	}
	return out
}
