// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package attribution

import (
	"context"
	"fmt"

	"github.com/0xbf00/macos-sandbox-coverage/internal/event"
	"github.com/0xbf00/macos-sandbox-coverage/internal/oracle"
	"github.com/0xbf00/macos-sandbox-coverage/internal/ruleset"
)

// Consistency runs only phase A (spec.md §4.7.1) over policy and
// events: one baseline Evaluate call, compared event by event against
// the observed action. It backs the consistency tool, which reports
// per-event agreement without running the full attribution algorithm.
//
// The result is a tri-state per event: true if the baseline decision
// matches the observed action, false if it disagrees, nil if the
// oracle could not decide the event at all (Unknown or Error).
func (e *Engine) Consistency(ctx context.Context, policy ruleset.RuleSet, events []event.Event) ([]*bool, error) {
	if policy.Len() == 0 {
		return nil, fmt.Errorf("attribution: rule set must contain at least one rule")
	}

	baseline, err := e.Oracle.Evaluate(ctx, policy, events)
	if err != nil {
		return nil, fmt.Errorf("attribution: baseline evaluation: %w", err)
	}
	if !baseline.SentinelFree() {
		return nil, fmt.Errorf("attribution: %w: baseline contains sentinel bytes", oracle.ErrProtocol)
	}

	out := make([]*bool, len(events))
	for i, ev := range events {
		if !isConcrete(baseline[i]) {
			continue
		}
		matches := decisionMatchesAction(baseline[i], ev.Action)
		out[i] = &matches
	}
	return out, nil
}
