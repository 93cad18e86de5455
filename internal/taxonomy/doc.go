// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package taxonomy is the operation-fallback table: for any sandbox
// operation name, it reports the set of operation names whose rules
// could also govern an event of that operation (its fallback chain)
// and the operation's built-in default action absent any matching
// rule.
//
// The table itself is an external dependency of the real kernel
// sandbox (it changes between macOS releases); this package embeds
// one concrete table as its built-in default and, through LoadFile,
// accepts a replacement table read from a YAML file at a given path, in
// the same manner bureau's sandbox.ProfileLoader resolves embedded
// defaults against on-disk overrides.
package taxonomy
