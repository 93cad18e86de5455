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

// unmatched marks an event that phase B has not yet attributed;
// distinct from any valid rule index since rule indices are >= 0.
const unmatched = -1

// Engine drives the attribution algorithm against an Oracle.
type Engine struct {
	Oracle oracle.Oracle

	// VerifyDefaultDeny enables the stricter phase-C check design note
	// §9 calls optional: before attributing an unmatched consistent
	// deny event to the default-deny rule, construct the default-allow
	// sibling policy (ruleset.SetDefault(P, Allow)) and confirm the
	// oracle now decides the event as allow. Off by default, matching
	// "the reference design treats this as optional" (spec.md §4.7.3).
	VerifyDefaultDeny bool
}

// New builds an Engine backed by the given oracle.
func New(o oracle.Oracle) *Engine {
	return &Engine{Oracle: o}
}

// Attribute runs the full four-phase algorithm (spec.md §4.7) over
// policy and events, returning one Attribution per event in input
// order (P4, order invariance).
func (e *Engine) Attribute(ctx context.Context, policy ruleset.RuleSet, events []event.Event) ([]Attribution, error) {
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

	consistent := make([]bool, len(events))
	for i, ev := range events {
		consistent[i] = decisionMatchesAction(baseline[i], ev.Action)
	}

	match := make([]int, len(events))
	for i := range match {
		match[i] = unmatched
	}

	if err := e.shrink(ctx, policy, events, baseline, consistent, match); err != nil {
		return nil, err
	}

	outcome := make([]Kind, len(events))
	for i := range events {
		outcome[i] = Inconsistent
	}

	if err := e.defaultDenyFixup(ctx, policy, events, consistent, match, outcome); err != nil {
		return nil, err
	}

	return synthesize(consistent, match, outcome), nil
}

// shrink implements phase B: repeatedly remove the working set's last
// rule and attribute any event whose decision flips as a result.
func (e *Engine) shrink(ctx context.Context, policy ruleset.RuleSet, events []event.Event, baseline oracle.Decisions, consistent []bool, match []int) error {
	working := policy

	for working.Len() > 0 {
		shrunk, removedIndex, _, err := working.RemoveLast()
		if err != nil {
			return fmt.Errorf("attribution: shrink: %w", err)
		}

		var last oracle.Decisions
		if shrunk.Len() == 0 {
			// An empty rule set cannot be rendered by sbpl.Serialize
			// into anything meaningful to evaluate; its effect on
			// every event is identical to the kernel's own operation
			// default, which phase C reasons about directly.
			last = make(oracle.Decisions, len(events))
			for i := range last {
				last[i] = oracle.Unknown
			}
		} else {
			last, err = e.Oracle.Evaluate(ctx, shrunk, events)
			if err != nil {
				return fmt.Errorf("attribution: shrink evaluation at rule %d: %w", removedIndex, err)
			}
			if !last.SentinelFree() {
				return fmt.Errorf("attribution: %w: shrink result contains sentinel bytes", oracle.ErrProtocol)
			}
		}

		for i := range events {
			if !consistent[i] || match[i] != unmatched {
				continue
			}
			if decisionFlipped(baseline[i], last[i]) {
				match[i] = removedIndex
			}
		}

		working = shrunk
	}

	return nil
}

// defaultDenyFixup implements phase C: attribute remaining unmatched,
// consistent, deny events to the policy's default-deny rule, or mark
// them external when no default-deny rule explains them. When
// e.VerifyDefaultDeny is set, a default-deny attribution additionally
// requires the default-allow sibling policy to decide the event as
// allow (spec.md §9, "Default-deny attribution is under-verified");
// an event that fails this check is left unmatched/inconsistent rather
// than attributed on faith.
func (e *Engine) defaultDenyFixup(ctx context.Context, policy ruleset.RuleSet, events []event.Event, consistent []bool, match []int, outcome []Kind) error {
	defaultRule, hasDefault := policy.GetDefault()
	defaultIndex := unmatched
	if hasDefault {
		if idx, err := policy.IndexOf(defaultRule); err == nil {
			defaultIndex = idx
		}
	}

	var sibling oracle.Decisions
	if e.VerifyDefaultDeny && hasDefault && defaultRule.Action == ruleset.Deny {
		needsVerify := false
		for i, ev := range events {
			if consistent[i] && match[i] == unmatched && ev.Action == ruleset.Deny {
				needsVerify = true
				break
			}
		}
		if needsVerify {
			siblingPolicy := policy.SetDefault(ruleset.Allow)
			decisions, err := e.Oracle.Evaluate(ctx, siblingPolicy, events)
			if err != nil {
				return fmt.Errorf("attribution: default-allow sibling evaluation: %w", err)
			}
			if !decisions.SentinelFree() {
				return fmt.Errorf("attribution: %w: default-allow sibling result contains sentinel bytes", oracle.ErrProtocol)
			}
			sibling = decisions
		}
	}

	for i, ev := range events {
		if !consistent[i] || match[i] != unmatched {
			continue
		}

		if hasDefault && defaultRule.Action == ruleset.Deny && ev.Action == ruleset.Deny {
			if sibling != nil && sibling[i] != oracle.Allow {
				// The default-allow sibling still does not allow this
				// event, so the default-deny rule cannot be what's
				// governing it; leave it unmatched (synthesize reports
				// it inconsistent).
				continue
			}
			match[i] = defaultIndex
			continue
		}

		consistent[i] = false
		outcome[i] = External
	}
	return nil
}

// synthesize implements phase D.
func synthesize(consistent []bool, match []int, outcome []Kind) []Attribution {
	out := make([]Attribution, len(match))
	for i := range out {
		switch {
		case consistent[i] && match[i] != unmatched:
			out[i] = Attribution{Kind: Matched, RuleIndex: match[i]}
		case outcome[i] == External:
			out[i] = Attribution{Kind: External}
		default:
			out[i] = Attribution{Kind: Inconsistent}
		}
	}
	return out
}

// decisionMatchesAction reports whether an oracle decision agrees
// with an observed rule action.
func decisionMatchesAction(d oracle.Decision, action ruleset.Action) bool {
	switch {
	case d == oracle.Allow && action == ruleset.Allow:
		return true
	case d == oracle.Deny && action == ruleset.Deny:
		return true
	default:
		return false
	}
}

// decisionFlipped reports whether removing a rule changed the
// decision in a way that counts as attribution evidence: both sides
// must be concrete (allow/deny) and differ. A decision turning
// unknown or error after removal is not evidence of anything (design
// note in spec.md §4.7.2) since it does not prove the removed rule
// was authoritative.
func decisionFlipped(baseline, after oracle.Decision) bool {
	if !isConcrete(baseline) || !isConcrete(after) {
		return false
	}
	return baseline != after
}

func isConcrete(d oracle.Decision) bool {
	return d == oracle.Allow || d == oracle.Deny
}
