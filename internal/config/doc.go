// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the engine's tuning file: a single optional
// JSONC document naming the oracle timeout, the on-disk decision
// cache directory, and the rematcher/sibling-verification defaults.
// There is no fallback search — SBCOVERAGE_CONFIG or --config names
// the file, or the built-in defaults apply, following the same
// single-file discipline bureau's lib/config uses for its own
// YAML-based configuration.
package config
