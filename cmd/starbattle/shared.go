package main

import (
	"fmt"
	"io"
	"os"

	"starbattle/internal/engine"
	"starbattle/internal/entanglement"
	"starbattle/internal/model"
	"starbattle/internal/schema"
)

// deductionWord renders a Deduction's kind as a short CLI-friendly word.
func deductionWord(d model.Deduction) string {
	switch d.Kind {
	case model.ForceStar:
		return "star"
	case model.ForceEmpty:
		return "empty"
	default:
		return "exclusive-set"
	}
}

// readPuzzle reads puzzle text from a file path, or from stdin when path
// is "-" or empty.
func readPuzzle(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading puzzle from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading puzzle from %s: %w", path, err)
	}
	return string(data), nil
}

// buildEngine assembles a dispatcher around a freshly built schema
// registry and, when patternsDir is non-empty, an entanglement registry
// loaded from disk (spec.md §5: spec-loading "must be allowed to be
// deferred", so an empty dir simply runs without entanglement hints).
// Used by the one-shot hint/solve commands, where each invocation is its
// own process and there is nothing to gain from a process-wide cache.
func buildEngine(patternsDir string) (*engine.Engine, error) {
	schemas := schema.NewRegistry()

	var patterns *entanglement.Registry
	if patternsDir != "" {
		patterns = entanglement.NewRegistry()
		if errs := patterns.LoadDir(patternsDir, nil); len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintf(os.Stderr, "warning: loading pattern file: %v\n", e)
			}
		}
	}

	return engine.New(schemas, patterns, nil), nil
}

// buildServeEngine is buildEngine's long-running-process counterpart: the
// server loads patterns once into entanglement's process-wide registry,
// mirroring sudoku-api/internal/puzzles's LoadGlobal/Global singleton, so
// every request handler shares the same loaded set instead of each
// building its own.
func buildServeEngine(patternsDir string) (*engine.Engine, error) {
	schemas := schema.NewRegistry()

	var patterns *entanglement.Registry
	if patternsDir != "" {
		if errs := entanglement.LoadGlobal(patternsDir, nil); len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintf(os.Stderr, "warning: loading pattern file: %v\n", e)
			}
		}
		patterns = entanglement.Global()
	}

	return engine.New(schemas, patterns, nil), nil
}
