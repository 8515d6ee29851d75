package schema

import (
	"fmt"

	"starbattle/internal/model"
	"starbattle/internal/validator"
	"starbattle/pkg/constants"
)

// This file holds the "handful of small specialized techniques" spec.md
// §4.6 lists alongside the lettered schema families and the
// entanglement engine: two-by-two, shared-row-column,
// five-crosses-five-empty, and pressured-Ts. Unlike E1-F2, spec.md gives
// these no premise/conclusion write-up of their own — only names in the
// dispatcher's technique list — so each is grounded either on a direct
// restatement of an existing invariant (two-by-two, Scenario 2) or on
// the nearest named sibling technique's shape (shared-row-column as a
// pointing-pair analog, five-crosses-five-empty as the exhausted-quota
// case of E1's family). pressured-Ts names no recoverable algorithm in
// spec.md at all; per the same judgment call spec.md's Open Questions
// make for E2, it is left unimplemented rather than guessed at.

// TwoByTwoBlockStar restates spec.md §8 Scenario 2 as an explicit,
// explainable technique: any 2x2 block already holding a Star forces
// every other Unknown cell in that block to Empty. The underlying fact
// already follows from 8-adjacency (every cell of a 2x2 block is
// 8-adjacent to every other); this schema names that fact explicitly. It
// runs at constants.PrioritySpecialized, after the lettered schemas,
// the subset squeeze and the entanglement matcher.
type TwoByTwoBlockStar struct{}

func (TwoByTwoBlockStar) ID() string    { return "two-by-two" }
func (TwoByTwoBlockStar) Priority() int { return constants.PrioritySpecialized }

func (s TwoByTwoBlockStar) Apply(env *Env) []model.SchemaApplication {
	b := env.Board
	var apps []model.SchemaApplication
	for i, block := range b.Blocks() {
		if model.StarCount(b, block[:]) != 1 {
			continue
		}
		var toEmpty []int
		for _, c := range block {
			if b.Cell(c) == model.Unknown {
				toEmpty = append(toEmpty, c)
			}
		}
		if len(toEmpty) == 0 {
			continue
		}
		var deds []model.Deduction
		for _, c := range toEmpty {
			deds = append(deds, model.CellDeduction(c, model.ForceEmpty))
		}
		apps = append(apps, model.SchemaApplication{
			SchemaID:   s.ID(),
			Params:     map[string]any{"block": i},
			Deductions: deds,
			Explanation: model.ExplanationInstance{
				SchemaID: s.ID(),
				Steps: []model.ExplanationStep{
					{Kind: model.StepIdentifyCandidateBlocks, Entities: map[string]any{"blocks": []int{i}, "blockCount": 1}},
					{Kind: model.StepApplyPigeonhole, Entities: map[string]any{
						"note": "a 2x2 block already holding a star cannot hold another",
					}},
				},
			},
		})
	}
	return apps
}

// FiveCrossesFiveEmpty is the exhausted-quota sibling of E1: any Group
// whose remaining quota has hit zero has every one of its Unknown cells
// forced Empty in a single application. D1, which runs earlier, forces
// such cells of a full row or column one cell at a time. Named
// for the five-in-a-row-of-crosses shape this produces on a fully
// starred line of a typical puzzle size.
type FiveCrossesFiveEmpty struct{}

func (FiveCrossesFiveEmpty) ID() string    { return "five-crosses-five-empty" }
func (FiveCrossesFiveEmpty) Priority() int { return constants.PrioritySpecialized }

func (s FiveCrossesFiveEmpty) Apply(env *Env) []model.SchemaApplication {
	b := env.Board
	var apps []model.SchemaApplication
	for _, g := range allGroups(b) {
		if g.Remaining(b) > 0 {
			continue
		}
		unknown := model.UnknownCells(b, g.Cells)
		if len(unknown) == 0 {
			continue
		}
		var deds []model.Deduction
		for _, c := range unknown {
			deds = append(deds, model.CellDeduction(c, model.ForceEmpty))
		}
		apps = append(apps, model.SchemaApplication{
			SchemaID:   s.ID(),
			Params:     map[string]any{"group_kind": g.Kind.String(), "group_index": g.Index},
			Deductions: deds,
			Explanation: model.ExplanationInstance{
				SchemaID: s.ID(),
				Steps: []model.ExplanationStep{
					{Kind: model.StepCountRemainingStars, Entities: map[string]any{
						"remainingStars": 0,
						"targetRegion":   fmt.Sprintf("%s %d", g.Kind.String(), g.Index),
					}},
					{Kind: model.StepEliminateOtherRegionCells, Entities: map[string]any{"region": g.Index, "cells": unknown}},
				},
			},
		})
	}
	return apps
}

// SharedRowColumn is the pointing-pair analog of spec.md's lettered
// schemas: when every eligible cell of a region confined to some band
// happens to sit on a single row or column and the region still needs at
// least as many stars as that line, the line's remaining stars are all
// accounted for by the region, so the line's cells outside the region are
// forced Empty.
type SharedRowColumn struct{}

func (SharedRowColumn) ID() string    { return "shared-row-column" }
func (SharedRowColumn) Priority() int { return constants.PrioritySpecialized }

func (s SharedRowColumn) Apply(env *Env) []model.SchemaApplication {
	b := env.Board
	v := validator.New(b)
	var apps []model.SchemaApplication

	for _, rid := range b.Def.RegionIDs() {
		eligible := v.EligibleCells(b.RegionCells(rid))
		if len(eligible) < 2 {
			continue
		}
		if line, kind, ok := singleLine(b, eligible); ok {
			lineCells := b.RowCells(line)
			if kind == model.BandColumn {
				lineCells = b.ColCells(line)
			}
			regionRemaining := b.Def.StarsPerRegion - model.StarCount(b, b.RegionCells(rid))
			lineRemaining := b.Def.StarsPerLine - model.StarCount(b, lineCells)
			if regionRemaining < lineRemaining {
				continue
			}
			var toEmpty []int
			for _, c := range v.EligibleCells(lineCells) {
				if b.Def.RegionOf(c) != rid {
					toEmpty = append(toEmpty, c)
				}
			}
			if len(toEmpty) == 0 {
				continue
			}
			var deds []model.Deduction
			for _, c := range toEmpty {
				deds = append(deds, model.CellDeduction(c, model.ForceEmpty))
			}
			lineWord := "row"
			if kind == model.BandColumn {
				lineWord = "column"
			}
			apps = append(apps, model.SchemaApplication{
				SchemaID:   s.ID(),
				Params:     map[string]any{"region": rid, "line_kind": int(kind), "line": line},
				Deductions: deds,
				Explanation: model.ExplanationInstance{
					SchemaID: s.ID(),
					Steps: []model.ExplanationStep{
						{Kind: model.StepApplyPigeonhole, Entities: map[string]any{
							"note": fmt.Sprintf("region %d's candidates all lie on %s %d", rid, lineWord, line),
						}},
						{Kind: model.StepEliminateOtherRegionCells, Entities: map[string]any{"region": rid, "cells": toEmpty}},
					},
				},
			})
		}
	}
	return apps
}

// singleLine reports whether every cell in cells shares one row (or, if
// not, one column), returning which and its index.
func singleLine(b *model.BoardState, cells []int) (line int, kind model.BandKind, ok bool) {
	row0, _ := b.Def.RowCol(cells[0])
	sameRow := true
	for _, c := range cells[1:] {
		r, _ := b.Def.RowCol(c)
		if r != row0 {
			sameRow = false
			break
		}
	}
	if sameRow {
		return row0, model.BandRow, true
	}
	_, col0 := b.Def.RowCol(cells[0])
	sameCol := true
	for _, c := range cells[1:] {
		_, cc := b.Def.RowCol(c)
		if cc != col0 {
			sameCol = false
			break
		}
	}
	if sameCol {
		return col0, model.BandColumn, true
	}
	return 0, 0, false
}

// PressuredTs is named in spec.md §4.6's dispatcher technique list but,
// unlike E1-F2, the spec gives it no premise/conclusion of its own to
// implement — only the name. Per the same judgment spec.md's Open
// Questions section applies to E2 ("do not guess ... mark it
// unimplemented"), this schema is registered (so the dispatcher's
// technique list and priority ordering match spec.md) but never fires.
type PressuredTs struct{}

func (PressuredTs) ID() string       { return "pressured-ts" }
func (PressuredTs) Priority() int    { return constants.PrioritySpecialized }
func (PressuredTs) Apply(*Env) []model.SchemaApplication { return nil }
