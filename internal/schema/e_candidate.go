package schema

import (
	"fmt"

	"starbattle/internal/model"
	"starbattle/internal/validator"
	"starbattle/pkg/constants"
)

// E1CandidateDeficit: for any Group with stars_required = q and current
// placed-star count s < q, if the set of still-eligible cells has size
// exactly q-s, force all of them to Star (spec.md §4.3 E1). Grounded on
// sudoku-api's detectNakedSingle (techniques_simple.go): "exactly one
// legal slot left" generalized from a single cell to a whole group.
type E1CandidateDeficit struct{}

func (E1CandidateDeficit) ID() string { return "E1-candidate-deficit" }
func (E1CandidateDeficit) Priority() int { return constants.PriorityCandidateCounting }

func (s *E1CandidateDeficit) Apply(env *Env) []model.SchemaApplication {
	b := env.Board
	v := validator.New(b)
	var apps []model.SchemaApplication

	for _, g := range allGroups(b) {
		remaining := g.Remaining(b)
		if remaining <= 0 {
			continue
		}
		eligible := v.EligibleCells(g.Cells)
		if len(eligible) != remaining {
			continue
		}
		apps = append(apps, forceStarsApplication(s.ID(), g, eligible, remaining))
	}
	return apps
}

func forceStarsApplication(schemaID string, g model.Group, eligible []int, remaining int) model.SchemaApplication {
	var deds []model.Deduction
	for _, c := range eligible {
		deds = append(deds, model.CellDeduction(c, model.ForceStar))
	}
	return model.SchemaApplication{
		SchemaID:   schemaID,
		Params:     map[string]any{"group_kind": g.Kind.String(), "group_index": g.Index},
		Deductions: deds,
		Explanation: model.ExplanationInstance{
			SchemaID: schemaID,
			Steps: []model.ExplanationStep{
				{Kind: model.StepCountRemainingStars, Entities: map[string]any{
					"remainingStars": remaining,
					"targetRegion":   fmt.Sprintf("%s %d", g.Kind.String(), g.Index),
				}},
				{Kind: model.StepApplyPigeonhole, Entities: map[string]any{
					"note": "exactly as many eligible cells remain as stars still required",
				}},
			},
		},
	}
}

func allGroups(b *model.BoardState) []model.Group {
	var groups []model.Group
	for r := 0; r < b.Def.Size; r++ {
		groups = append(groups, model.RowGroup(b, r))
	}
	for c := 0; c < b.Def.Size; c++ {
		groups = append(groups, model.ColumnGroup(b, c))
	}
	for _, rid := range b.Def.RegionIDs() {
		groups = append(groups, model.RegionGroup(b, rid))
	}
	return groups
}

// E2PartitionedCandidates is a placeholder per spec.md §9 Open Questions:
// the source's version is stubbed (single-partition fallback) and the
// intended partition-search algorithm is a distinct technique from E1.
// We mark it unimplemented rather than guess the partition strategy, the
// same decision spec.md explicitly allows.
type E2PartitionedCandidates struct{}

func (E2PartitionedCandidates) ID() string    { return "E2-partitioned-candidates" }
func (E2PartitionedCandidates) Priority() int { return constants.PriorityCandidateCounting }

// Apply always returns no applications: see the type doc comment and
// DESIGN.md's Open Questions entry.
func (E2PartitionedCandidates) Apply(env *Env) []model.SchemaApplication { return nil }
