// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ruleset is the in-memory representation of a sandbox policy
// and its edit primitives.
//
// A RuleSet is an ordered, immutable sequence of Rules. Later rules
// override earlier ones when the kernel's sandbox oracle evaluates a
// policy, so order is semantically meaningful and every operation in
// this package preserves it. Rules are compared by structural value
// equality (two rules are equal iff their JSON-level representation
// is equal); Load rejects a rule set containing two structurally
// equal rules so that IndexOf never has to choose among ties.
package ruleset
