// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package attribution

import (
	"context"
	"testing"

	"github.com/0xbf00/macos-sandbox-coverage/internal/event"
	"github.com/0xbf00/macos-sandbox-coverage/internal/oracle"
	"github.com/0xbf00/macos-sandbox-coverage/internal/ruleset"
)

func machRegisterRule(action ruleset.Action, name string) ruleset.Rule {
	return ruleset.Rule{
		Action:     action,
		Operations: []string{"mach-register"},
		Filters: []ruleset.Filter{
			{Name: "global-name", Arguments: []ruleset.Argument{argFromString(name)}},
		},
	}
}

// Scenario 6 — rematcher upgrade (spec.md §8): phase A marks a
// mach-register event inconsistent because the kernel-query oracle's
// forced global-name guess disagrees with the observed action; the
// rematcher, using the active-probe oracle, reattributes it correctly.
func TestRematchPromotesMachRegister(t *testing.T) {
	policy := mustRuleSet(t, []ruleset.Rule{
		defaultRule(ruleset.Deny),
		machRegisterRule(ruleset.Allow, "com.example.service"),
	})
	events := []event.Event{
		{Operation: "mach-register", Argument: "com.example.service", Action: ruleset.Allow},
	}

	lenientOracle := &oracle.Fake{Decide: func(_ []ruleset.Rule, _ event.Event) oracle.Decision {
		return oracle.Deny
	}}
	engine := New(lenientOracle)

	original, err := engine.Attribute(context.Background(), policy, events)
	if err != nil {
		t.Fatalf("Attribute() error = %v", err)
	}
	if original[0].Kind != Inconsistent {
		t.Fatalf("phase A-D result = %+v, want Inconsistent before rematch", original[0])
	}

	recheckOracle := &oracle.Fake{Decide: simulate}
	merged, err := engine.Rematch(context.Background(), recheckOracle, policy, events, original)
	if err != nil {
		t.Fatalf("Rematch() error = %v", err)
	}
	if idx, ok := merged[0].Matched(); !ok || idx != 1 {
		t.Fatalf("Rematch() result = %+v, want matched rule 1", merged[0])
	}
}

func TestShouldRematch(t *testing.T) {
	cases := []struct {
		name      string
		a         Attribution
		operation string
		want      bool
	}{
		{"inconsistent with a recheck strategy", Attribution{Kind: Inconsistent}, "nvram-get", true},
		{"inconsistent with no recheck strategy", Attribution{Kind: Inconsistent}, "file-read-data", false},
		{"matched mach-register always rematches", Attribution{Kind: Matched, RuleIndex: 3}, "mach-register", true},
		{"matched non-mach-register stays put", Attribution{Kind: Matched, RuleIndex: 3}, "file-read-data", false},
		{"external stays put", Attribution{Kind: External}, "file-map-executable", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ShouldRematch(tc.a, tc.operation); got != tc.want {
				t.Errorf("ShouldRematch(%+v, %q) = %v, want %v", tc.a, tc.operation, got, tc.want)
			}
		})
	}
}

func TestRematchNoCandidatesReturnsOriginalUnchanged(t *testing.T) {
	policy := mustRuleSet(t, []ruleset.Rule{
		defaultRule(ruleset.Deny),
		subpathRule(ruleset.Allow, "file-read-data", "/etc"),
	})
	events := []event.Event{
		{Operation: "file-read-data", Argument: "/etc/hosts", Action: ruleset.Allow},
	}

	engine := New(fakeOracle())
	original, err := engine.Attribute(context.Background(), policy, events)
	if err != nil {
		t.Fatalf("Attribute() error = %v", err)
	}

	recheckOracle := &oracle.Fake{Decide: func(_ []ruleset.Rule, _ event.Event) oracle.Decision {
		t.Fatal("Rematch() evaluated the oracle despite no rematch candidates")
		return oracle.Error
	}}
	merged, err := engine.Rematch(context.Background(), recheckOracle, policy, events, original)
	if err != nil {
		t.Fatalf("Rematch() error = %v", err)
	}
	if merged[0] != original[0] {
		t.Errorf("Rematch() with no candidates changed result: got %+v, want %+v", merged[0], original[0])
	}
}
