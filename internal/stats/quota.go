// quotaInBand implements spec.md §4.3.1: the hard helper that bounds how
// many stars a region must place within a given band.
package stats

import (
	"sync"

	"starbattle/internal/model"
	"starbattle/internal/validator"
	"starbattle/pkg/constants"
)

// QuotaResult is quotaInBand's return value: the bound plus whether it is
// "known" in the sense spec.md §4.3.1 defines (derived via a deterministic
// fast case, or a search that completed without bail-out, or a value that
// strictly exceeds the current star count).
type QuotaResult struct {
	Value int
	Known bool
}

type quotaKey struct {
	fingerprint uint64
	region      int
	bandKind    model.BandKind
	lo, hi      int
	depth       int
}

// QuotaCache memoizes quotaInBand results per spec.md §9 "quota_cache",
// keyed by (board fingerprint, region id, band, depth).
type QuotaCache struct {
	mu      sync.Mutex
	entries map[quotaKey]QuotaResult
}

// NewQuotaCache builds an empty quota cache.
func NewQuotaCache() *QuotaCache {
	return &QuotaCache{entries: make(map[quotaKey]QuotaResult)}
}

// Invalidate drops all cached entries; called after any successful
// deduction (spec.md §3 Lifecycle).
func (c *QuotaCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[quotaKey]QuotaResult)
	c.mu.Unlock()
}

// QuotaInBand returns a lower bound on the number of stars region rid
// must place within band, honoring the recursion depth cap from spec.md
// §9 (the cyclic dependency between A1/A2 and this helper).
func (c *QuotaCache) QuotaInBand(b *model.BoardState, rid int, band model.Band, depth int) QuotaResult {
	key := quotaKey{fingerprint: b.Fingerprint(), region: rid, bandKind: band.Kind, lo: band.Lo, hi: band.Hi, depth: depth}

	c.mu.Lock()
	if r, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return r
	}
	c.mu.Unlock()

	r := computeQuotaInBand(b, rid, band, depth)

	c.mu.Lock()
	c.entries[key] = r
	c.mu.Unlock()
	return r
}

func computeQuotaInBand(b *model.BoardState, rid int, band model.Band, depth int) QuotaResult {
	regionCells := b.RegionCells(rid)
	current := model.StarCount(b, regionCells)
	required := b.Def.StarsPerRegion

	// Fast case: region fully inside band.
	if model.RegionFullyInsideBand(b, rid, band) {
		return QuotaResult{Value: required, Known: true}
	}

	currentInBand := model.StarCount(b, model.RegionCellsInBand(b, rid, band))

	// Fast case: region has no remaining stars.
	remaining := required - current
	if remaining <= 0 {
		return QuotaResult{Value: currentInBand, Known: true}
	}

	v := validator.New(b)
	candidates := v.EligibleCells(regionCells)

	// Fast case: all of the region's candidates lie in band.
	if len(model.UnknownCells(b, regionCells)) == len(model.UnknownCells(b, model.RegionCellsInBand(b, rid, band))) {
		return QuotaResult{Value: currentInBand + remaining, Known: true}
	}

	if depth > constants.QuotaRecursionDepthCap {
		return QuotaResult{Value: currentInBand, Known: false}
	}

	if len(candidates) > constants.QuotaCandidateCap {
		return QuotaResult{Value: currentInBand, Known: false}
	}

	budget := constants.QuotaNodeBudget
	inBandSet := make(map[int]bool, len(band.Cells))
	for _, cell := range band.Cells {
		inBandSet[cell] = true
	}

	minInBand, maxInBand, ok := enumerateRegionPlacements(v, candidates, remaining, inBandSet, &budget)
	if !ok {
		return QuotaResult{Value: currentInBand, Known: false}
	}

	if minInBand == maxInBand {
		// The search completed without bail-out, so this is known
		// regardless of whether it moved the value (spec.md §4.3.1).
		return QuotaResult{Value: currentInBand + minInBand, Known: true}
	}
	// Search completed but the bound isn't exact; the conservative value
	// is the minimum extra stars forced into band across all completions.
	return QuotaResult{Value: currentInBand + minInBand, Known: true}
}

// enumerateRegionPlacements enumerates every way to choose `need` stars
// among candidates (respecting validator.CanPlace, i.e. full-board
// row/column/region/adjacency legality), tracking the min and max count
// that land inside inBandSet. Returns ok=false if the node budget runs
// out before every combination is explored.
func enumerateRegionPlacements(v *validator.Validator, candidates []int, need int, inBandSet map[int]bool, budget *int) (minCount, maxCount int, ok bool) {
	minCount = need + 1 // sentinel above any real count
	maxCount = -1
	found := false

	var rec func(start, chosen, inBand int) bool
	rec = func(start, chosen, inBand int) bool {
		if *budget <= 0 {
			return false
		}
		*budget--

		if chosen == need {
			found = true
			if inBand < minCount {
				minCount = inBand
			}
			if inBand > maxCount {
				maxCount = inBand
			}
			return true
		}
		remainingSlots := need - chosen
		for i := start; i < len(candidates); i++ {
			if len(candidates)-i < remainingSlots {
				break
			}
			c := candidates[i]
			if !v.CanPlace(c) {
				continue
			}
			v.Place(c)
			add := 0
			if inBandSet[c] {
				add = 1
			}
			if !rec(i+1, chosen+1, inBand+add) {
				v.Remove(c)
				return false
			}
			v.Remove(c)
		}
		return true
	}

	completed := rec(0, 0, 0)
	if !completed {
		return 0, 0, false
	}
	if !found {
		// No legal completion exists; callers should not treat this as a
		// tight bound, surface as unknown.
		return 0, 0, false
	}
	return minCount, maxCount, true
}
