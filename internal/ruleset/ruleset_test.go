// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ruleset

import "testing"

func allowRule(op string) Rule {
	return Rule{Action: Allow, Operations: []string{op}}
}

func denyRule(op string) Rule {
	return Rule{Action: Deny, Operations: []string{op}}
}

func TestLoadRejectsDuplicateRules(t *testing.T) {
	data := []byte(`[
		{"action":"allow","operations":["file-read-data"]},
		{"action":"allow","operations":["file-read-data"]}
	]`)

	if _, err := Load(data); err == nil {
		t.Fatal("Load succeeded on a duplicate rule set, want error")
	}
}

func TestLoadPreservesOrderAndArgumentTypes(t *testing.T) {
	data := []byte(`[
		{"action":"deny","operations":["default"]},
		{"action":"allow","operations":["file-read-data"],
		 "filters":[{"name":"literal","arguments":[{"value":"/etc/hosts"}]}]},
		{"action":"allow","operations":["ipc-posix-shm-read-data"],
		 "modifiers":[{"name":"with-retry","argument":3}]}
	]`)

	rs, err := Load(data)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if rs.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", rs.Len())
	}

	second, err := rs.GetNth(1)
	if err != nil {
		t.Fatalf("GetNth(1) error = %v", err)
	}
	value, isString := second.Filters[0].Arguments[0].StringValue()
	if !isString || value != "/etc/hosts" {
		t.Errorf("argument value = (%q, %v), want (/etc/hosts, true)", value, isString)
	}

	third, err := rs.GetNth(2)
	if err != nil {
		t.Fatalf("GetNth(2) error = %v", err)
	}
	n, ok := third.Modifiers[0].NumberArgument()
	if !ok || n.String() != "3" {
		t.Errorf("modifier argument = (%v, %v), want (3, true)", n, ok)
	}
}

func TestRemoveLast(t *testing.T) {
	rs, err := New([]Rule{allowRule("a"), allowRule("b"), denyRule("c")})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	shrunk, idx, removed, err := rs.RemoveLast()
	if err != nil {
		t.Fatalf("RemoveLast() error = %v", err)
	}
	if idx != 2 {
		t.Errorf("idx = %d, want 2", idx)
	}
	if !removed.Equal(denyRule("c")) {
		t.Errorf("removed = %+v, want deny(c)", removed)
	}
	if shrunk.Len() != 2 {
		t.Errorf("shrunk.Len() = %d, want 2", shrunk.Len())
	}
	if rs.Len() != 3 {
		t.Errorf("original RuleSet mutated: Len() = %d, want 3", rs.Len())
	}
}

func TestRemoveLastOnEmptySetErrors(t *testing.T) {
	rs, err := New(nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, _, _, err := rs.RemoveLast(); err == nil {
		t.Fatal("RemoveLast() on empty set succeeded, want error")
	}
}

func TestIndexOf(t *testing.T) {
	rs, err := New([]Rule{allowRule("a"), allowRule("b"), denyRule("c")})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	idx, err := rs.IndexOf(denyRule("c"))
	if err != nil {
		t.Fatalf("IndexOf() error = %v", err)
	}
	if idx != 2 {
		t.Errorf("IndexOf() = %d, want 2", idx)
	}

	if _, err := rs.IndexOf(allowRule("zzz")); err == nil {
		t.Fatal("IndexOf() on absent rule succeeded, want error")
	}
}

func TestGetDefaultReturnsFirstMatch(t *testing.T) {
	rs, err := New([]Rule{
		{Action: Deny, Operations: []string{"default"}},
		allowRule("file-read-data"),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	def, ok := rs.GetDefault()
	if !ok {
		t.Fatal("GetDefault() ok = false, want true")
	}
	if def.Action != Deny {
		t.Errorf("GetDefault().Action = %v, want Deny", def.Action)
	}
}

func TestSetDefaultReplacesExisting(t *testing.T) {
	rs, err := New([]Rule{
		{Action: Deny, Operations: []string{"default"}},
		allowRule("file-read-data"),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	updated := rs.SetDefault(Allow)
	if updated.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", updated.Len())
	}
	def, ok := updated.GetDefault()
	if !ok || def.Action != Allow {
		t.Errorf("GetDefault() = (%+v, %v), want (Allow rule, true)", def, ok)
	}

	if orig, _ := rs.GetDefault(); orig.Action != Deny {
		t.Errorf("original RuleSet mutated: default action = %v, want Deny", orig.Action)
	}
}

func TestSetDefaultPrependsWhenAbsent(t *testing.T) {
	rs, err := New([]Rule{allowRule("file-read-data")})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	updated := rs.SetDefault(Deny)
	if updated.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", updated.Len())
	}
	first, _ := updated.GetNth(0)
	if !first.IsDefault() || first.Action != Deny {
		t.Errorf("first rule = %+v, want deny default", first)
	}
}

func TestRuleEqualComparesContent(t *testing.T) {
	a := Rule{Action: Allow, Operations: []string{"file-read-data"}}
	b := Rule{Action: Allow, Operations: []string{"file-read-data"}}
	c := Rule{Action: Deny, Operations: []string{"file-read-data"}}

	if !a.Equal(b) {
		t.Error("identical rules compared unequal")
	}
	if a.Equal(c) {
		t.Error("rules differing in action compared equal")
	}
}
