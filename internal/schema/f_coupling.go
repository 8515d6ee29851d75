package schema

import (
	"fmt"

	"starbattle/internal/model"
	"starbattle/internal/validator"
	"starbattle/pkg/constants"
)

// F1RegionPairExclusion is spec.md §4.3 F1.
type F1RegionPairExclusion struct{}

func (F1RegionPairExclusion) ID() string    { return "F1-region-pair-exclusion" }
func (F1RegionPairExclusion) Priority() int { return constants.PriorityMultiRegion }

func (s F1RegionPairExclusion) Apply(env *Env) []model.SchemaApplication {
	b := env.Board
	v := validator.New(b)
	var apps []model.SchemaApplication

	bands := append(append([]model.Band{}, model.AllRowBands(b)...), model.AllColumnBands(b)...)
	ids := b.Def.RegionIDs()

	for _, band := range bands {
		regionsHere := model.RegionsIntersecting(b, band)
		if len(regionsHere) < 2 {
			continue
		}
		for _, a := range ids {
			aInBand := model.RegionCellsInBand(b, a, band)
			if len(aInBand) == 0 {
				continue
			}
			q := env.Stats.QuotaInBand(b, a, band, 0)
			if !q.Known {
				continue
			}
			aEligible := v.EligibleCells(aInBand)
			aPlaced := model.StarCount(b, aInBand)
			if q.Value-aPlaced <= 0 || q.Value-aPlaced != len(aEligible) || len(aEligible) == 0 {
				continue
			}

			for _, other := range regionsHere {
				if other == a {
					continue
				}
				otherEligible := v.EligibleCells(model.RegionCellsInBand(b, other, band))
				if len(otherEligible) == 0 {
					continue
				}
				apps = append(apps, forceEmptyApplication(s.ID(), other, band, otherEligible,
					fmt.Sprintf("region %d already saturates this band", a)))
			}
		}
	}
	return apps
}

// F2Chains is spec.md §4.3 F2: a reserved slot. It emits no applications;
// the outer dispatch loop's repeated passes over higher-priority schemas
// already produce the chain reasoning this slot would otherwise encode.
type F2Chains struct{}

func (F2Chains) ID() string                               { return "F2-chains" }
func (F2Chains) Priority() int                            { return constants.PriorityMultiRegion }
func (F2Chains) Apply(env *Env) []model.SchemaApplication { return nil }
