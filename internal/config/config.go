// Package config loads the engine's tunable knobs from an optional TOML
// document, falling back to the prescribed defaults for anything the
// document omits.
package config

import (
	"github.com/BurntSushi/toml"
)

// Config holds the hash/thread knobs and every search constant the core
// exposes as external data (§6, "Configuration knobs").
type Config struct {
	HashMB     int  `toml:"hash_mb"`
	Threads    int  `toml:"threads"`
	Chess960   bool `toml:"chess960"`

	RazorDepth   int   `toml:"razor_depth"`
	RazorMargin  []int `toml:"razor_margin"`

	BetaPruningDepth int `toml:"beta_pruning_depth"`
	BetaPruningSlope int `toml:"beta_pruning_slope"`

	NullMovePruningDepth int `toml:"null_move_pruning_depth"`

	InternalIterativeDeepeningDepth int `toml:"iid_depth"`

	FutilityPruningDepth int   `toml:"futility_pruning_depth"`
	FutilityMargin       []int `toml:"futility_margin"`

	LateMovePruningDepth  int   `toml:"late_move_pruning_depth"`
	LateMovePruningCounts []int `toml:"late_move_pruning_counts"`
}

// Default returns the prescribed defaults, grounded on Ethereal-style
// constants (original_source/src/search.c) wherever the specification
// leaves the exact numbers as "external data".
func Default() Config {
	return Config{
		HashMB:   16,
		Threads:  1,
		Chess960: false,

		RazorDepth:  2,
		RazorMargin: []int{0, 240, 280},

		BetaPruningDepth: 8,
		BetaPruningSlope: 85,

		NullMovePruningDepth: 2,

		InternalIterativeDeepeningDepth: 4,

		FutilityPruningDepth: 8,
		FutilityMargin:       []int{0, 100, 160, 220, 280, 340, 400, 460, 520},

		LateMovePruningDepth:  8,
		LateMovePruningCounts: []int{0, 5, 8, 12, 18, 25, 33, 42, 52},
	}
}

// Load reads a TOML document from path, overlaying it onto Default(). A
// missing or partially specified document is not an error: unset fields
// keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode reads a TOML document from a string, overlaying it onto Default().
func Decode(doc string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(doc, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
