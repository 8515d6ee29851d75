// Package schema is the deduction rule library (spec.md §2 component 5,
// §4.3): a registry of named techniques, each producing zero or more
// sound applications. It mirrors the shape of
// sudoku-api/internal/sudoku/human's TechniqueRegistry (a slug-keyed map
// plus priority-ordered iteration) generalized from sudoku's
// tier/order pair to Star Battle's explicit numeric priority groups
// (spec.md §4.3 "Priority groups").
package schema

import (
	"sort"

	"starbattle/internal/model"
	"starbattle/internal/stats"
)

// Env bundles the per-call context a schema needs: the board it is
// reasoning about and the stats engine's caches.
type Env struct {
	Board *model.BoardState
	Stats *stats.Engine
}

// Schema is a named deduction rule with a stable identifier, a priority
// (lower runs first), and an Apply operation (spec.md §4.3).
type Schema interface {
	ID() string
	Priority() int
	Apply(env *Env) []model.SchemaApplication
}

// Descriptor pairs a Schema with whether it is currently enabled, mirroring
// sudoku-api's TechniqueDescriptor.Enabled toggle.
type Descriptor struct {
	Schema  Schema
	Enabled bool
}

// Registry holds every known schema, keyed by id, plus a priority-sorted
// order for iteration.
type Registry struct {
	bySlug map[string]*Descriptor
	order  []string
}

// NewRegistry builds a registry with every schema from this package
// registered and enabled, exactly as NewTechniqueRegistry does for sudoku.
func NewRegistry() *Registry {
	r := &Registry{bySlug: make(map[string]*Descriptor)}
	for _, s := range allSchemas() {
		r.register(s)
	}
	return r
}

func (r *Registry) register(s Schema) {
	r.bySlug[s.ID()] = &Descriptor{Schema: s, Enabled: true}
	r.order = append(r.order, s.ID())
	sort.SliceStable(r.order, func(i, j int) bool {
		return r.bySlug[r.order[i]].Schema.Priority() < r.bySlug[r.order[j]].Schema.Priority()
	})
}

// SetEnabled toggles a schema by id. Returns false if the id is unknown.
func (r *Registry) SetEnabled(id string, enabled bool) bool {
	d, ok := r.bySlug[id]
	if !ok {
		return false
	}
	d.Enabled = enabled
	return true
}

// Enabled returns every enabled schema in priority order.
func (r *Registry) Enabled() []Schema {
	out := make([]Schema, 0, len(r.order))
	for _, id := range r.order {
		d := r.bySlug[id]
		if d.Enabled {
			out = append(out, d.Schema)
		}
	}
	return out
}

// All returns every registered schema in priority order, regardless of
// enabled state.
func (r *Registry) All() []Schema {
	out := make([]Schema, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.bySlug[id].Schema)
	}
	return out
}

// ApplyAll runs every enabled schema once, in priority order, collecting
// every application each one returns (not just the first).
func (r *Registry) ApplyAll(env *Env) []model.SchemaApplication {
	var apps []model.SchemaApplication
	for _, s := range r.Enabled() {
		apps = append(apps, s.Apply(env)...)
	}
	return apps
}

func allSchemas() []Schema {
	return []Schema{
		&E1CandidateDeficit{},
		&E2PartitionedCandidates{},
		&A1RowBandBudget{},
		&A2ColumnBandBudget{},
		&A3RegionVsRowBand{},
		&A4RegionVsColumnBand{},
		&B1RowBandExclusiveArea{},
		&B2ColumnBandExclusiveArea{},
		&B3RegionVsRowExclusiveArea{},
		&B4RegionVsColumnExclusiveArea{},
		&C1BandExactCages{},
		&C2CagesVsRegionQuota{},
		&C3InternalCagePlacement{},
		&C4CageExclusion{},
		&D1RowColumnIntersection{},
		&D2RegionBandIntersection{},
		&D3RegionBandSqueeze{},
		&F1RegionPairExclusion{},
		&F2Chains{},
		&SubsetConstraintSqueeze{},
		&TwoByTwoBlockStar{},
		&FiveCrossesFiveEmpty{},
		&SharedRowColumn{},
		&PressuredTs{},
	}
}
