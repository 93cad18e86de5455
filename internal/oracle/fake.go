// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oracle

import (
	"context"

	"github.com/0xbf00/macos-sandbox-coverage/internal/event"
	"github.com/0xbf00/macos-sandbox-coverage/internal/ruleset"
)

// Fake is a scripted Oracle for tests that exercise attribution
// without forking real processes or touching a live kernel sandbox
// (design note §9). Decide is called once per (policy, event) pair in
// the order the events were given; it should implement whatever
// subset of real sandbox_check semantics the test needs.
type Fake struct {
	// Decide computes the decision for a single event against a
	// rendered policy snapshot (the rule slice in order, not the
	// serialised text — tests reason about rules, not SBPL syntax).
	Decide func(policy []ruleset.Rule, ev event.Event) Decision

	// Calls records every Evaluate call's rules and events, in order,
	// for tests asserting on the shrink sequence (spec.md
	// §8 P2/P4/P5).
	Calls []FakeCall
}

// FakeCall records one Evaluate invocation.
type FakeCall struct {
	Policy []ruleset.Rule
	Events []event.Event
}

// Evaluate applies f.Decide to every event against policy, recording
// the call. It never returns an error — tests that need to exercise
// oracle failure should wrap Fake or construct the error directly.
func (f *Fake) Evaluate(_ context.Context, policy ruleset.RuleSet, events []event.Event) (Decisions, error) {
	rules := policy.Rules()
	f.Calls = append(f.Calls, FakeCall{Policy: rules, Events: append([]event.Event(nil), events...)})

	out := make(Decisions, len(events))
	for i, ev := range events {
		out[i] = f.Decide(rules, ev)
	}
	return out, nil
}
