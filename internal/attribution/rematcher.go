// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package attribution

import (
	"context"
	"fmt"

	"github.com/0xbf00/macos-sandbox-coverage/internal/event"
	"github.com/0xbf00/macos-sandbox-coverage/internal/oracle"
	"github.com/0xbf00/macos-sandbox-coverage/internal/recheck"
	"github.com/0xbf00/macos-sandbox-coverage/internal/ruleset"
)

// ShouldRematch implements should_rematch from rematch_inconsistent.cpp
// (spec.md §4.7.5): an event is a rematch candidate if phase A-D left
// it inconsistent, or if its operation is mach-register, which the
// kernel-query oracle decides too leniently (design note §9)
// regardless of what phase A-D concluded. recheck.Handles additionally
// filters out inconsistent events that the active-probe oracle has no
// strategy for at all — resubmitting those would only reproduce the
// same Unknown/Error verdict.
func ShouldRematch(a Attribution, operation string) bool {
	if operation == "mach-register" {
		return true
	}
	return a.Kind == Inconsistent && recheck.Handles(operation)
}

// Rematch implements the two-tier rematcher driver (spec.md §4.7.5):
// it re-runs the full four-phase algorithm, using recheckOracle (an
// Oracle whose worker probes events via internal/recheck's active
// probes instead of internal/oracle's kernel-query probes), against
// only the events ShouldRematch selects from original, and merges the
// improved verdicts back into original by index. Events that are not
// candidates are copied through unchanged. policy and events must be
// the same inputs original was computed from.
func (e *Engine) Rematch(ctx context.Context, recheckOracle oracle.Oracle, policy ruleset.RuleSet, events []event.Event, original []Attribution) ([]Attribution, error) {
	if len(original) != len(events) {
		return nil, fmt.Errorf("attribution: rematch: %d attributions for %d events", len(original), len(events))
	}

	var candidates []int
	for i, ev := range events {
		if ShouldRematch(original[i], ev.Operation) {
			candidates = append(candidates, i)
		}
	}

	merged := make([]Attribution, len(original))
	copy(merged, original)

	if len(candidates) == 0 {
		return merged, nil
	}

	subsetEvents := make([]event.Event, len(candidates))
	for j, i := range candidates {
		subsetEvents[j] = events[i]
	}

	rematchEngine := &Engine{Oracle: recheckOracle, VerifyDefaultDeny: e.VerifyDefaultDeny}
	subset, err := rematchEngine.Attribute(ctx, policy, subsetEvents)
	if err != nil {
		return nil, fmt.Errorf("attribution: rematch: %w", err)
	}

	for j, i := range candidates {
		merged[i] = subset[j]
	}
	return merged, nil
}
