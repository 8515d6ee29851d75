// Package config loads the engine's runtime configuration from the
// environment, the same eager-validate-at-startup shape the rest of the
// stack uses for its HTTP edge.
package config

import (
	"errors"
	"os"
	"strconv"

	"starbattle/pkg/constants"
)

// Config holds the settings needed to run the HTTP surface over the
// deduction engine. The engine core itself (internal/...) takes no
// dependency on this package; it is consumed only by cmd/starbattle and
// internal/httpapi.
type Config struct {
	Port string

	// PatternsDir points at a directory of entanglement pattern/rule JSON
	// files (spec.md §3, §4.4). Empty means the entanglement technique is
	// disabled: the dispatcher simply never has patterns to match.
	PatternsDir string

	// MaxAutoSolveSteps overrides constants.MaxAutoSolveSteps when > 0.
	MaxAutoSolveSteps int
}

// Load reads configuration from environment variables, applying the same
// fallback-then-validate shape used across the stack.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", constants.DefaultPort),
		PatternsDir:       getEnv("PATTERNS_DIR", ""),
		MaxAutoSolveSteps: constants.MaxAutoSolveSteps,
	}

	if raw := os.Getenv("MAX_AUTO_SOLVE_STEPS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.New("config: MAX_AUTO_SOLVE_STEPS must be an integer")
		}
		if n <= 0 {
			return nil, errors.New("config: MAX_AUTO_SOLVE_STEPS must be positive")
		}
		cfg.MaxAutoSolveSteps = n
	}

	if cfg.Port == "" {
		return nil, errors.New("config: PORT must not be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
