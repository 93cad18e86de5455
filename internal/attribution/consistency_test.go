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

func TestConsistencyTriState(t *testing.T) {
	policy := mustRuleSet(t, []ruleset.Rule{defaultRule(ruleset.Deny)})
	events := []event.Event{
		{Operation: "file-read-data", Argument: "/etc/hosts", Action: ruleset.Deny},
		{Operation: "file-read-data", Argument: "/etc/hosts", Action: ruleset.Allow},
		{Operation: "nvram-get", Argument: "boot-args", Action: ruleset.Allow},
	}

	decisions := []oracle.Decision{oracle.Deny, oracle.Deny, oracle.Unknown}
	fake := &oracle.Fake{Decide: func(_ []ruleset.Rule, ev event.Event) oracle.Decision {
		for i, e := range events {
			if e == ev {
				return decisions[i]
			}
		}
		return oracle.Error
	}}

	engine := New(fake)
	got, err := engine.Consistency(context.Background(), policy, events)
	if err != nil {
		t.Fatalf("Consistency() error = %v", err)
	}

	if got[0] == nil || *got[0] != true {
		t.Errorf("event 0: got %v, want true", got[0])
	}
	if got[1] == nil || *got[1] != false {
		t.Errorf("event 1: got %v, want false", got[1])
	}
	if got[2] != nil {
		t.Errorf("event 2: got %v, want nil (unknown)", got[2])
	}
}
