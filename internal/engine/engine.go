// Package engine is the technique dispatcher (spec.md §4.6): it owns the
// priority-ordered schema registry plus the entanglement matcher, and
// exposes the three operations the rest of the system drives the
// deduction engine through (spec.md §6): FindNextHint, ApplyHint, and
// AutoSolve. It is grounded on sudoku-api/internal/sudoku/human's
// Solver, which walks a TechniqueRegistry in priority order and returns
// the first move found, generalized here to also try the entanglement
// pattern/rule matcher and the constrained-unit heuristic after the
// lettered schema families are exhausted.
package engine

import (
	"context"
	"fmt"
	"sort"

	"starbattle/internal/entanglement"
	"starbattle/internal/explain"
	"starbattle/internal/model"
	"starbattle/internal/schema"
	"starbattle/internal/stats"
	"starbattle/internal/verify"
	"starbattle/pkg/constants"
)

// Hint is one technique's suggested next move: the deductions it found
// plus a rendered explanation and the id of the technique that produced
// it (spec.md §6 "find_next_hint(...) -> Hint").
type Hint struct {
	TechniqueID string
	Deductions  []model.Deduction
	Explanation string
	Params      map[string]any
}

// Engine ties the schema registry, the entanglement registry, and the
// completion-verification cache together into the dispatcher spec.md
// §4.6 describes.
type Engine struct {
	Schemas       *schema.Registry
	Entanglement  *entanglement.Registry
	Stats         *stats.Engine
	Verify        *verify.Cache
	ConstrainedCap int
	Features      entanglement.FeatureEvaluator
}

// New builds a dispatcher around an already-populated schema registry
// and entanglement registry. patterns may be nil, in which case the
// entanglement techniques never fire (spec-loading is deferrable per
// spec.md §5).
func New(schemas *schema.Registry, patterns *entanglement.Registry, features entanglement.FeatureEvaluator) *Engine {
	return &Engine{
		Schemas:        schemas,
		Entanglement:   patterns,
		Stats:          stats.NewEngine(),
		Verify:         verify.NewCache(),
		ConstrainedCap: constants.ConstrainedUnitCandidateCap,
		Features:       features,
	}
}

// FindNextHint tries the enabled schemas whose priority is below
// constants.PriorityEntanglement, then the entanglement pattern/rule
// matcher, then the remaining (specialized) schemas, then the
// constrained-unit heuristic, returning the first non-empty result (spec.md §4.6 "the
// first to return a hint wins"). ctx is checked once at entry, matching
// the single suspension point a synchronous hint search has (spec.md §5
// names the suspension points as auto-solve iterations and spec
// loading; a single hint search itself runs to completion uninterrupted
// between them).
func (e *Engine) FindNextHint(ctx context.Context, b *model.BoardState) (*Hint, error) {
	select {
	case <-ctx.Done():
		return nil, model.ErrCancelled
	default:
	}

	// Schemas run in priority order, but entanglement's priority
	// (constants.PriorityEntanglement) sits strictly between the lettered
	// schema families and the small specialized techniques
	// (constants.PrioritySpecialized), so it gets its own slot here
	// rather than living inside the registry (spec.md §4.6's dispatcher
	// order; the priority-monotonicity law requires lower priority to
	// win ties).
	env := &schema.Env{Board: b, Stats: e.Stats}
	enabled := e.Schemas.Enabled()
	i := 0
	for ; i < len(enabled) && enabled[i].Priority() < constants.PriorityEntanglement; i++ {
		apps := enabled[i].Apply(env)
		if hint := firstUseful(b, enabled[i].ID(), apps); hint != nil {
			return hint, nil
		}
	}

	if e.Entanglement != nil {
		if hint := e.tryEntanglement(b); hint != nil {
			return hint, nil
		}
	}

	for ; i < len(enabled); i++ {
		apps := enabled[i].Apply(env)
		if hint := firstUseful(b, enabled[i].ID(), apps); hint != nil {
			return hint, nil
		}
	}

	if e.ConstrainedCap > 0 {
		if deds := entanglement.MatchHeuristic(b, e.ConstrainedCap); len(deds) > 0 {
			deds = dropNoOps(b, deds)
			if len(deds) > 0 {
				return &Hint{
					TechniqueID: "entanglement-heuristic",
					Deductions:  deds,
					Explanation: "A conservative contradiction search over tightly constrained rows, columns, and regions forces this placement.",
				}, nil
			}
		}
	}

	return nil, nil
}

// firstUseful wraps a schema's applications into a Hint, skipping
// applications whose deductions are all no-ops against b (spec.md §8
// "Deduplication": a schema may fire again on an already-settled cell).
func firstUseful(b *model.BoardState, id string, apps []model.SchemaApplication) *Hint {
	for _, app := range apps {
		deds := dropNoOps(b, app.Deductions)
		if len(deds) == 0 {
			continue
		}
		return &Hint{
			TechniqueID: id,
			Deductions:  deds,
			Explanation: explain.Render(app.Explanation),
			Params:      app.Params,
		}
	}
	return nil
}

func dropNoOps(b *model.BoardState, deds []model.Deduction) []model.Deduction {
	var out []model.Deduction
	for _, d := range deds {
		if d.Kind == model.ExclusiveSet || !d.IsNoOp(b) {
			out = append(out, d)
		}
	}
	return out
}

// tryEntanglement scans every loaded spec whose shape matches the
// board, in deterministic id order (spec.md §5 "deterministic
// traversal... two calls on the same board return identical hints"),
// returning the first one that yields a deduction.
func (e *Engine) tryEntanglement(b *model.BoardState) *Hint {
	specs := e.Entanglement.FilterByShape(b.Def.Size, b.Def.StarsPerLine)
	sort.Slice(specs, func(i, j int) bool { return specs[i].ID < specs[j].ID })

	for _, sp := range specs {
		var deds []model.Deduction
		if sp.HasPair {
			deds = entanglement.MatchPairPatterns(b.Def, b, sp.PairPatterns)
		} else if sp.HasTriple || sp.HasConstrained {
			deds = entanglement.MatchRules(b.Def, b, sp.Rules, e.Features)
		}
		deds = dropNoOps(b, deds)
		if len(deds) == 0 {
			continue
		}
		return &Hint{
			TechniqueID: fmt.Sprintf("entanglement:%s", sp.ID),
			Deductions:  deds,
			Explanation: fmt.Sprintf("Pattern %q matches the current board and forces this placement.", sp.ID),
		}
	}
	return nil
}

// ApplyHint commits every deduction in hint to b, invalidating the
// stats and completion caches on success (spec.md §5 "Shared
// resources... invalidated on any successful deduction"). It stops and
// returns the underlying error on the first deduction that fails,
// leaving b in whatever partially-applied state that produced —
// spec.md §7 treats InconsistentDeduction as an engine bug, not a
// recoverable outcome, so no rollback is attempted.
func (e *Engine) ApplyHint(b *model.BoardState, hint *Hint) error {
	for _, d := range hint.Deductions {
		if err := d.Apply(b); err != nil {
			return err
		}
	}
	e.Stats.Invalidate()
	e.Verify.Invalidate()
	return nil
}

// AutoSolveResult is auto_solve's terminal outcome (spec.md §6).
type AutoSolveResult struct {
	Status     string
	Iterations int
	LastHint   *Hint
}

// AutoSolve repeatedly finds and applies hints until the board is
// solved, no technique makes progress, a violation is detected, the
// iteration ceiling is hit, or ctx is cancelled (spec.md §4.6, §6).
// maxSteps <= 0 falls back to constants.MaxAutoSolveSteps.
func (e *Engine) AutoSolve(ctx context.Context, b *model.BoardState, maxSteps int) (AutoSolveResult, error) {
	if maxSteps <= 0 {
		maxSteps = constants.MaxAutoSolveSteps
	}
	for i := 0; i < maxSteps; i++ {
		select {
		case <-ctx.Done():
			return AutoSolveResult{Status: constants.StatusCancelled, Iterations: i}, nil
		default:
		}

		switch e.Verify.Get(b) {
		case verify.NoCompletion:
			return AutoSolveResult{Status: constants.StatusViolation, Iterations: i}, nil
		case verify.HasCompletion:
			if isFullySolved(b) {
				return AutoSolveResult{Status: constants.StatusSolved, Iterations: i}, nil
			}
		}

		hint, err := e.FindNextHint(ctx, b)
		if err != nil {
			if err == model.ErrCancelled {
				return AutoSolveResult{Status: constants.StatusCancelled, Iterations: i}, nil
			}
			return AutoSolveResult{}, err
		}
		if hint == nil {
			return AutoSolveResult{Status: constants.StatusNoProgress, Iterations: i}, nil
		}
		if err := e.ApplyHint(b, hint); err != nil {
			return AutoSolveResult{}, err
		}
		if isFullySolved(b) {
			return AutoSolveResult{Status: constants.StatusSolved, Iterations: i + 1, LastHint: hint}, nil
		}
	}
	return AutoSolveResult{Status: constants.StatusNoProgress, Iterations: maxSteps}, nil
}

// isFullySolved reports whether every cell is settled (no Unknown
// remains) and every row, column, and region sits exactly at quota.
func isFullySolved(b *model.BoardState) bool {
	def := b.Def
	for r := 0; r < def.Size; r++ {
		if len(model.UnknownCells(b, b.RowCells(r))) > 0 {
			return false
		}
		if model.StarCount(b, b.RowCells(r)) != def.StarsPerLine {
			return false
		}
	}
	for c := 0; c < def.Size; c++ {
		if model.StarCount(b, b.ColCells(c)) != def.StarsPerLine {
			return false
		}
	}
	for _, rid := range def.RegionIDs() {
		if model.StarCount(b, b.RegionCells(rid)) != def.StarsPerRegion {
			return false
		}
	}
	return true
}
