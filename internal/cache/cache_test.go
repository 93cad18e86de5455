// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"testing"

	"github.com/0xbf00/macos-sandbox-coverage/internal/event"
	"github.com/0xbf00/macos-sandbox-coverage/internal/oracle"
	"github.com/0xbf00/macos-sandbox-coverage/internal/ruleset"
)

func TestNewKeyDeterministic(t *testing.T) {
	events := []event.Event{
		{Operation: "file-read-data", Argument: "/etc/hosts", Action: ruleset.Allow},
	}
	a := NewKey("(version 1)\n", events)
	b := NewKey("(version 1)\n", events)
	if a != b {
		t.Fatal("NewKey is not deterministic for identical inputs")
	}
}

func TestNewKeyDistinguishesConcatenationBoundary(t *testing.T) {
	split := []event.Event{
		{Operation: "ab", Argument: "", Action: ruleset.Allow},
		{Operation: "c", Argument: "", Action: ruleset.Allow},
	}
	joined := []event.Event{
		{Operation: "a", Argument: "", Action: ruleset.Allow},
		{Operation: "bc", Argument: "", Action: ruleset.Allow},
	}
	if NewKey("policy", split) == NewKey("policy", joined) {
		t.Fatal("NewKey collided across an operation/argument concatenation boundary")
	}
}

func TestStorePutGetRoundTrip(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	key := NewKey("policy", []event.Event{{Operation: "mach-register", Action: ruleset.Deny}})
	want := oracle.Decisions{oracle.Allow, oracle.Deny, oracle.Unknown}

	if err := store.Put(key, want); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok := store.Get(key)
	if !ok {
		t.Fatal("Get() after Put() reported a miss")
	}
	if len(got) != len(want) {
		t.Fatalf("Get() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("decision[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestStoreGetMiss(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	_, ok := store.Get(NewKey("policy", nil))
	if ok {
		t.Fatal("Get() on an empty store reported a hit")
	}
}

func TestOracleSkipsSecondEvaluateOnHit(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	policy, err := ruleset.New([]ruleset.Rule{
		{Action: ruleset.Deny, Operations: []string{"default"}},
	})
	if err != nil {
		t.Fatalf("ruleset.New() error = %v", err)
	}
	events := []event.Event{{Operation: "file-read-data", Argument: "/etc/hosts", Action: ruleset.Deny}}

	calls := 0
	inner := &oracle.Fake{Decide: func(_ []ruleset.Rule, _ event.Event) oracle.Decision {
		calls++
		return oracle.Deny
	}}
	wrapped := Oracle{Next: inner, Store: store}

	if _, err := wrapped.Evaluate(context.Background(), policy, events); err != nil {
		t.Fatalf("first Evaluate() error = %v", err)
	}
	if _, err := wrapped.Evaluate(context.Background(), policy, events); err != nil {
		t.Fatalf("second Evaluate() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("inner oracle evaluated %d times, want 1 (second call should hit cache)", calls)
	}
}
