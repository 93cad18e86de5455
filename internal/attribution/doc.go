// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package attribution implements the differential rule-attribution
// engine (component C7): given a policy and a batch of observed
// events, it determines which rule governed each event's outcome, or
// reports the event as inconsistent with the policy or explained by
// an external platform intrinsic.
//
// The engine never inspects filter semantics itself — it drives
// internal/oracle across a sequence of progressively shorter rule
// sets and reasons purely from the resulting decision vectors. The
// algorithm is ported from match_rules.cpp's
// sandbox_bulk_find_matching_rule, restructured into four explicit
// phases (baseline, shrink, default-deny fix-up, synthesis).
//
// Rematch implements the two-tier variant from rematch_inconsistent.cpp:
// the same four phases, run a second time over only the events
// ShouldRematch selects, against an Oracle backed by active probes
// (package recheck) instead of kernel queries.
package attribution
