// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ruleset

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RuleSet is an ordered, immutable sequence of Rules. Construct one
// with New or Load; every edit primitive below returns a new RuleSet
// rather than mutating the receiver.
type RuleSet struct {
	rules []Rule
}

// New builds a RuleSet from an in-memory rule slice, rejecting
// structurally duplicate rules (see DESIGN.md for the rationale).
// The input slice is copied; callers may reuse it.
func New(rules []Rule) (RuleSet, error) {
	out := make([]Rule, len(rules))
	copy(out, rules)

	for i := range out {
		for j := i + 1; j < len(out); j++ {
			if out[i].Equal(out[j]) {
				return RuleSet{}, fmt.Errorf("ruleset: rules %d and %d are structurally identical", i, j)
			}
		}
	}

	return RuleSet{rules: out}, nil
}

// Load parses a JSON rule-set document (an array of Rule objects)
// and normalises it into a RuleSet. Numeric argument values are
// decoded with json.Number so structural equality and serialisation
// preserve the string/number distinction exactly as authored.
func Load(data []byte) (RuleSet, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var rules []Rule
	if err := dec.Decode(&rules); err != nil {
		return RuleSet{}, fmt.Errorf("ruleset: decoding rule set: %w", err)
	}

	out, err := New(rules)
	if err != nil {
		return RuleSet{}, err
	}
	return out, nil
}

// Len returns the number of rules in the set.
func (rs RuleSet) Len() int {
	return len(rs.rules)
}

// Rules returns the rule set's rules in policy order. The returned
// slice is a copy; mutating it does not affect rs.
func (rs RuleSet) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// GetNth returns the rule at index n (ruleset::get_nth in the
// original matcher).
func (rs RuleSet) GetNth(n int) (Rule, error) {
	if n < 0 || n >= len(rs.rules) {
		return Rule{}, fmt.Errorf("ruleset: index %d out of range [0,%d)", n, len(rs.rules))
	}
	return rs.rules[n], nil
}

// IndexOf returns the index of rule within rs (ruleset::index_for_rule
// in the original matcher). It is an error to call this with a rule
// that is not a member of rs — Load's duplicate rejection guarantees
// the index is unambiguous when it exists.
func (rs RuleSet) IndexOf(rule Rule) (int, error) {
	for i, r := range rs.rules {
		if r.Equal(rule) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("ruleset: rule not found in rule set")
}

// RemoveLast returns a RuleSet missing its last rule, along with the
// removed rule and its original index (ruleset::remove_last_rule in
// the original matcher). It is an error to call this on an empty
// rule set.
func (rs RuleSet) RemoveLast() (shrunk RuleSet, removedIndex int, removed Rule, err error) {
	if len(rs.rules) == 0 {
		return RuleSet{}, 0, Rule{}, fmt.Errorf("ruleset: cannot remove last rule from an empty rule set")
	}

	removedIndex = len(rs.rules) - 1
	removed = rs.rules[removedIndex]

	out := make([]Rule, removedIndex)
	copy(out, rs.rules[:removedIndex])

	return RuleSet{rules: out}, removedIndex, removed, nil
}

// GetDefault returns the rule set's default rule — the first rule
// whose operations list contains "default" — and whether one exists
// (ruleset::get_default in the original matcher).
func (rs RuleSet) GetDefault() (Rule, bool) {
	for _, r := range rs.rules {
		if r.IsDefault() {
			return r, true
		}
	}
	return Rule{}, false
}

// SetDefault returns a RuleSet whose default rule has the given
// action, replacing an existing default rule in place or, if none
// exists, prepending a new "(action default)" rule (ruleset::set_default
// in the original matcher). Used to build the default-allow sibling
// policy when verifying a default-deny attribution more strictly.
func (rs RuleSet) SetDefault(action Action) RuleSet {
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)

	for i, r := range out {
		if r.IsDefault() {
			out[i].Action = action
			return RuleSet{rules: out}
		}
	}

	defaultRule := Rule{Action: action, Operations: []string{defaultOperation}}
	withDefault := make([]Rule, 0, len(out)+1)
	withDefault = append(withDefault, defaultRule)
	withDefault = append(withDefault, out...)
	return RuleSet{rules: withDefault}
}

// MarshalJSON encodes the rule set as a JSON array of its rules, in
// policy order.
func (rs RuleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(rs.rules)
}
