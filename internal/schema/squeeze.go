package schema

import (
	"starbattle/internal/model"
	"starbattle/internal/stats"
	"starbattle/pkg/constants"
)

// SubsetConstraintSqueeze wraps the stats layer's constraint-subset law
// (spec.md §4.5) as a dispatchable schema: gather every constraint the
// stats engine can derive, run the subset-squeeze rule over them, and
// surface the resulting Empty deductions as a single application.
type SubsetConstraintSqueeze struct{}

func (SubsetConstraintSqueeze) ID() string    { return "subset-constraint-squeeze" }
func (SubsetConstraintSqueeze) Priority() int { return constants.PrioritySubsetSqueeze }

func (s SubsetConstraintSqueeze) Apply(env *Env) []model.SchemaApplication {
	constraints := env.Stats.All(env.Board)
	deds := stats.SubsetSqueeze(constraints)
	if len(deds) == 0 {
		return nil
	}

	var cells []int
	for _, d := range deds {
		cells = append(cells, d.Cell)
	}

	return []model.SchemaApplication{{
		SchemaID:   s.ID(),
		Deductions: deds,
		Explanation: model.ExplanationInstance{
			SchemaID: s.ID(),
			Steps: []model.ExplanationStep{
				{Kind: model.StepEliminateOtherRegionCells, Entities: map[string]any{"cells": cells}},
			},
		},
	}}
}
