// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tidwall/jsonc"
)

// envVar is the environment variable naming the config file path,
// checked when --config is not given.
const envVar = "SBCOVERAGE_CONFIG"

// Config is the engine's tuning file. Every field has a sensible
// default, so the file itself is optional — unlike bureau's
// BUREAU_CONFIG, which has no defaults and refuses to run without an
// explicit file, this engine is usable out of the box and the config
// file exists only to override specific knobs.
type Config struct {
	// OracleTimeout bounds how long a single C5 Evaluate call may run
	// before its worker is killed and the attribution fails (spec.md
	// §5's optional per-iteration wall-clock timeout). Parsed with
	// time.ParseDuration; "0s" disables the timeout.
	OracleTimeout string `json:"oracle_timeout,omitempty"`

	// WorkerConcurrency bounds how many independent attribution runs
	// (distinct policy/event-batch pairs, e.g. across multiple input
	// files in one invocation) may have a worker in flight at once.
	// Each individual run is still strictly sequential internally
	// (spec.md §5) — this only parallelizes across unrelated runs.
	WorkerConcurrency int `json:"worker_concurrency,omitempty"`

	// CacheDir is the on-disk oracle decision cache directory (package
	// cache). Empty disables caching.
	CacheDir string `json:"cache_dir,omitempty"`

	// Rematch enables the two-tier rematcher driver (spec.md §4.7.5)
	// by default, equivalent to always passing --rematch.
	Rematch bool `json:"rematch,omitempty"`

	// VerifyDefaultDeny enables the default-allow sibling check
	// (spec.md §9) by default, equivalent to always passing
	// --verify-default-deny.
	VerifyDefaultDeny bool `json:"verify_default_deny,omitempty"`
}

// Default returns the engine's built-in configuration.
func Default() *Config {
	return &Config{
		OracleTimeout:     "30s",
		WorkerConcurrency: 1,
	}
}

// Load resolves the config file path from SBCOVERAGE_CONFIG and loads
// it, or returns Default() unchanged if the variable is unset.
func Load() (*Config, error) {
	path := os.Getenv(envVar)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from an explicit path (the --config
// flag), starting from Default() and overwriting only the fields
// present in the file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if cfg.WorkerConcurrency < 1 {
		cfg.WorkerConcurrency = 1
	}
	return cfg, nil
}

// Timeout parses OracleTimeout, returning 0 (no timeout) if it is
// empty or "0s".
func (c *Config) Timeout() (time.Duration, error) {
	if c.OracleTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.OracleTimeout)
	if err != nil {
		return 0, fmt.Errorf("config: invalid oracle_timeout %q: %w", c.OracleTimeout, err)
	}
	return d, nil
}
