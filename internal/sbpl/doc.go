// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sbpl renders a ruleset.RuleSet into the textual scheme-like
// form the sandbox policy compiler accepts. Rendering is deterministic:
// equal rule sets always produce byte-identical text, which lets
// internal/oracle and internal/cache treat the rendered text as a
// stable cache key.
package sbpl
