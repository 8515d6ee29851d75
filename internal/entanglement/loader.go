package entanglement

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"starbattle/internal/model"
)

// ErrUnknownFeature is returned at load time when a constrained rule
// names a feature the host has not registered (spec.md §9 "Feature
// evaluator for constrained rules": "unknown names must be reported as
// a loader-time error, not at match time").
var ErrUnknownFeature = fmt.Errorf("%w: unknown constraint feature", model.ErrInvalidInput)

// classify peeks at a JSON document's top-level keys and decides which
// of the three dialects it is, per spec.md §4.4 "Loading". Returns
// skip=true for files whose id carries the "-solutions" suffix, which
// are auxiliary and not loaded as patterns.
func classify(id string, data []byte) (dialect Dialect, skip bool, err error) {
	if strings.HasSuffix(id, "-solutions") {
		return 0, true, nil
	}

	var peek map[string]json.RawMessage
	if err := json.Unmarshal(data, &peek); err != nil {
		return 0, false, fmt.Errorf("%w: %s: %v", model.ErrInvalidInput, id, err)
	}

	if _, ok := peek["patterns"]; ok {
		return DialectPair, false, nil
	}
	if _, ok := peek["pure_entanglement_templates"]; ok {
		return DialectPure, false, nil
	}
	_, hasUnconstrained := peek["unconstrained_rules"]
	_, hasConstrained := peek["constrained_rules"]
	if hasUnconstrained && hasConstrained {
		return DialectRule, false, nil
	}
	return 0, false, fmt.Errorf("%w: %s: file matches no known entanglement dialect", model.ErrInvalidInput, id)
}

// Load parses a single pattern file's bytes into a LoadedSpec. known is
// the set of constraint-feature names the host has registered
// evaluators for; a constrained rule naming anything else is a
// load-time error.
func Load(id string, data []byte, known map[string]bool) (*LoadedSpec, bool, error) {
	dialect, skip, err := classify(id, data)
	if skip || err != nil {
		return nil, skip, err
	}

	switch dialect {
	case DialectPair:
		return loadPairFile(id, data)
	case DialectPure:
		return loadPureFile(id, data)
	case DialectRule:
		return loadRuleFile(id, data, known)
	default:
		return nil, false, fmt.Errorf("%w: %s: unhandled dialect", model.ErrInvalidInput, id)
	}
}

func loadPairFile(id string, data []byte) (*LoadedSpec, bool, error) {
	var f pairFileJSON
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", model.ErrInvalidInput, id, err)
	}
	spec := &LoadedSpec{
		ID:               id,
		Dialect:          DialectPair,
		BoardSize:        f.BoardSize,
		StarsPerLine:     f.StarsPerRow,
		InitialStarCount: f.InitialStarCount,
		HasPair:          true,
	}
	for _, p := range f.Patterns {
		spec.PairPatterns = append(spec.PairPatterns, convertPairPattern(p))
	}
	return spec, false, nil
}

func loadPureFile(id string, data []byte) (*LoadedSpec, bool, error) {
	var f pureFileJSON
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", model.ErrInvalidInput, id, err)
	}
	spec := &LoadedSpec{
		ID:               id,
		Dialect:          DialectPure,
		BoardSize:        f.BoardSize,
		InitialStarCount: f.InitialStarCount,
		HasPair:          true, // pure templates share the pair-pattern matching path
	}
	for _, p := range f.PureTemplates {
		spec.PairPatterns = append(spec.PairPatterns, convertPairPattern(p))
	}
	return spec, false, nil
}

func convertPairPattern(p pairPatternJSON) PairPattern {
	pp := PairPattern{
		CompatibleSolutions: p.CompatibleSolutions,
	}
	for _, c := range p.InitialStars {
		pp.InitialStars = append(pp.InitialStars, c.Coord())
	}
	for _, c := range p.ForcedEmpty {
		pp.ForcedEmpty = append(pp.ForcedEmpty, c.Coord())
	}
	for _, c := range p.ForcedStar {
		pp.ForcedStar = append(pp.ForcedStar, c.Coord())
	}
	pp.Fingerprint = fingerprint(pp.InitialStars, append(append([]Coord{}, pp.ForcedEmpty...), pp.ForcedStar...), nil)
	return pp
}

func loadRuleFile(id string, data []byte, known map[string]bool) (*LoadedSpec, bool, error) {
	var f ruleFileJSON
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", model.ErrInvalidInput, id, err)
	}
	spec := &LoadedSpec{
		ID:               id,
		Dialect:          DialectRule,
		BoardSize:        f.BoardSize,
		InitialStarCount: f.InitialStars,
		HasTriple:        len(f.UnconstrainedRules) > 0,
		HasConstrained:   len(f.ConstrainedRules) > 0,
	}

	for _, rj := range f.UnconstrainedRules {
		r, err := convertRule(rj, RuleUnconstrained, known)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", id, err)
		}
		spec.Rules = append(spec.Rules, r)
	}
	for _, rj := range f.ConstrainedRules {
		r, err := convertRule(rj, RuleConstrained, known)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", id, err)
		}
		spec.Rules = append(spec.Rules, r)
	}
	return spec, false, nil
}

func convertRule(rj ruleJSON, kind RuleKind, known map[string]bool) (Rule, error) {
	r := Rule{
		Kind:               kind,
		ConstraintFeatures: append([]string(nil), rj.ConstraintFeatures...),
		Forced:             rj.Forced,
		Occurrences:        rj.Occurrences,
	}
	for _, c := range rj.CanonicalStars {
		r.CanonicalStars = append(r.CanonicalStars, c.Coord())
	}
	switch {
	case rj.CanonicalCandidate != nil:
		r.CanonicalCandidate = rj.CanonicalCandidate.Coord()
	case rj.CanonicalForcedEmpty != nil:
		r.CanonicalCandidate = rj.CanonicalForcedEmpty.Coord()
	default:
		return Rule{}, fmt.Errorf("%w: rule has neither canonical_candidate nor canonical_forced_empty", model.ErrInvalidInput)
	}
	for _, feat := range r.ConstraintFeatures {
		if known != nil && !known[feat] {
			return Rule{}, fmt.Errorf("%w: %q", ErrUnknownFeature, feat)
		}
	}
	r.Fingerprint = fingerprint(r.CanonicalStars, []Coord{r.CanonicalCandidate}, r.ConstraintFeatures)
	return r, nil
}

// Registry holds every loaded spec, filterable by board shape (spec.md
// §4.4 "tagged with metadata for subsequent filtering").
type Registry struct {
	mu    sync.RWMutex
	specs []*LoadedSpec
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry { return &Registry{} }

// LoadDir walks dir for *.json files and loads each into the registry,
// skipping `-solutions` files and collecting (not failing fast on) any
// individual file's error, returned as a joined slice.
func (r *Registry) LoadDir(dir string, known map[string]bool) []error {
	var errs []error
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []error{fmt.Errorf("%w: reading %s: %v", model.ErrInvalidInput, dir, err)}
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		id := strings.TrimSuffix(e.Name(), ".json")
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %v", model.ErrInvalidInput, path, err))
			continue
		}
		spec, skip, err := Load(id, data, known)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if skip {
			continue
		}
		r.mu.Lock()
		r.specs = append(r.specs, spec)
		r.mu.Unlock()
	}
	return errs
}

// All returns every loaded spec.
func (r *Registry) All() []*LoadedSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*LoadedSpec(nil), r.specs...)
}

// FilterByShape returns every loaded spec matching only the board's fixed
// shape (size, stars per line), ignoring initial_star_count. The match
// engine tries every spec regardless of how many stars are currently
// placed (a pattern's own canonical_stars length is the real gate), so
// dispatch-time lookups use this instead of Filter, which is for
// session-start selection against a specific fixture's star count.
func (r *Registry) FilterByShape(boardSize, starsPerLine int) []*LoadedSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*LoadedSpec
	for _, s := range r.specs {
		if s.BoardSize != 0 && s.BoardSize != boardSize {
			continue
		}
		if s.StarsPerLine != 0 && s.StarsPerLine != starsPerLine {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Filter returns loaded specs matching the given board shape. A spec
// field of 0 is treated as "unset"/wildcard, since not every dialect's
// header carries every field (pure files omit stars_per_line).
func (r *Registry) Filter(boardSize, starsPerLine, initialStarCount int) []*LoadedSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*LoadedSpec
	for _, s := range r.specs {
		if s.BoardSize != 0 && s.BoardSize != boardSize {
			continue
		}
		if s.StarsPerLine != 0 && s.StarsPerLine != starsPerLine {
			continue
		}
		if s.InitialStarCount != 0 && s.InitialStarCount != initialStarCount {
			continue
		}
		out = append(out, s)
	}
	return out
}

var (
	globalRegistry *Registry
	loadGlobalOnce sync.Once
)

// LoadGlobal loads every pattern file in dir into a process-wide
// singleton registry, mirroring sudoku-api/internal/puzzles's
// LoadGlobal/Global pair.
func LoadGlobal(dir string, known map[string]bool) []error {
	var errs []error
	loadGlobalOnce.Do(func() {
		globalRegistry = NewRegistry()
		errs = globalRegistry.LoadDir(dir, known)
	})
	return errs
}

// Global returns the process-wide registry, or nil if LoadGlobal was
// never called.
func Global() *Registry { return globalRegistry }
