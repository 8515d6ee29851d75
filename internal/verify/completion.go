// Package verify implements the bounded completion-enumeration search
// that schemas use to confirm a deduction does not dead-end the board
// (spec.md §2 component 8, §9 "Caching discipline"), and the cache that
// keys those results on board fingerprint. It is grounded on
// sudoku-api/internal/sudoku/dp.Solve's backtracking shape, generalized
// from single-digit placement to star placement under the validator's
// row/column/region/adjacency rules, plus a node budget so the search
// can bail out instead of running unbounded.
package verify

import (
	"sync"

	"starbattle/internal/model"
	"starbattle/internal/validator"
	"starbattle/pkg/constants"
)

// Outcome is the result of a bounded completion search.
type Outcome int

const (
	// Inconclusive means the search exhausted its node budget without a
	// definitive answer (spec.md's BudgetExceeded, not surfaced as an
	// error: callers treat it conservatively).
	Inconclusive Outcome = iota
	HasCompletion
	NoCompletion
)

// HasCompletionFrom reports whether, starting from board's current
// committed stars, the remaining stars for every row/column/region can be
// placed without violating any hard constraint: HasCompletion,
// NoCompletion, or Inconclusive when the search runs out of budget. It is
// a plain backtracking search bounded by constants.CompletionEnumerationCap
// nodes.
func HasCompletionFrom(b *model.BoardState) Outcome {
	v := validator.New(b)
	budget := constants.CompletionEnumerationCap
	ok := backtrack(b, v, 0, &budget)
	if budget <= 0 && !ok {
		return Inconclusive
	}
	if ok {
		return HasCompletion
	}
	return NoCompletion
}

// backtrack assigns stars to Unknown cells, cell by cell in cell_id
// order, skipping cells already decided or ineligible, until either every
// row/column/region quota is met or the budget is exhausted.
func backtrack(b *model.BoardState, v *validator.Validator, fromCell int, budget *int) bool {
	if *budget <= 0 {
		return false
	}
	*budget--

	if quotasSatisfied(b, v) {
		return true
	}

	n := b.Def.CellCount()
	for c := fromCell; c < n; c++ {
		if b.Cell(c) != model.Unknown {
			continue
		}
		if !v.CanPlace(c) {
			continue
		}
		v.Place(c)
		if backtrack(b, v, c+1, budget) {
			v.Remove(c)
			return true
		}
		v.Remove(c)
		if *budget <= 0 {
			return false
		}
	}
	return quotasSatisfied(b, v)
}

func quotasSatisfied(b *model.BoardState, v *validator.Validator) bool {
	for r := 0; r < b.Def.Size; r++ {
		if v.RowStars(r) < b.Def.StarsPerLine {
			return false
		}
	}
	for c := 0; c < b.Def.Size; c++ {
		if v.ColStars(c) < b.Def.StarsPerLine {
			return false
		}
	}
	for _, rid := range b.Def.RegionIDs() {
		if v.RegionStars(rid) < b.Def.StarsPerRegion {
			return false
		}
	}
	return true
}

// Cache memoizes HasCompletionFrom results keyed by board fingerprint, as
// spec.md §9 "completion_analysis_cache" prescribes. Safe for concurrent
// use: the single-threaded scheduling model (spec.md §5) never needs the
// locking, but internal/httpapi may share one engine across goroutines.
type Cache struct {
	mu      sync.RWMutex
	entries map[uint64]Outcome
}

// NewCache constructs an empty completion-analysis cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[uint64]Outcome)}
}

// Get checks the cache, falling back to HasCompletionFrom and storing the
// outcome when not already present. Inconclusive results are not cached:
// a later, less time-pressured call might resolve them.
func (c *Cache) Get(b *model.BoardState) Outcome {
	fp := b.Fingerprint()

	c.mu.RLock()
	if o, ok := c.entries[fp]; ok {
		c.mu.RUnlock()
		return o
	}
	c.mu.RUnlock()

	o := HasCompletionFrom(b)
	if o != Inconclusive {
		c.mu.Lock()
		c.entries[fp] = o
		c.mu.Unlock()
	}
	return o
}

// Invalidate drops the whole cache. Called after any successful
// deduction, since the fingerprint-keyed entries are about to be
// superseded by entries for the new board state anyway and the map
// would otherwise grow unbounded across a long auto-solve run.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[uint64]Outcome)
	c.mu.Unlock()
}
