// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ruleset

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Action is a sandbox rule's decision: allow or deny.
type Action int

const (
	// Deny denies the matched operations.
	Deny Action = iota
	// Allow permits the matched operations.
	Allow
)

// String returns "allow" or "deny".
func (a Action) String() string {
	if a == Allow {
		return "allow"
	}
	return "deny"
}

// ParseAction parses "allow" or "deny".
func ParseAction(s string) (Action, error) {
	switch s {
	case "allow":
		return Allow, nil
	case "deny":
		return Deny, nil
	default:
		return Deny, fmt.Errorf("ruleset: invalid action %q", s)
	}
}

// MarshalJSON encodes the action as its string form.
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes the action from its string form.
func (a *Action) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAction(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// defaultOperation is the sentinel operation name that marks a rule
// as the policy's default rule.
const defaultOperation = "default"

// Argument is a single filter argument: a literal value (string or
// number, per the original policy schema) plus an optional alias used
// in place of the value when rendering the policy's textual form.
type Argument struct {
	Value json.Number `json:"-"`
	Alias string      `json:"alias,omitempty"`

	// rawString carries string-typed values verbatim; Value is only
	// populated for numeric arguments. valueIsStr records which form
	// the argument took so serialisation round-trips exactly.
	rawString  string
	valueIsStr bool
}

// StringValue returns the argument's literal string value and true
// when the argument was authored as a JSON string.
func (a Argument) StringValue() (string, bool) {
	return a.rawString, a.valueIsStr
}

// Literal returns the textual representation of the argument's value
// (not its alias) — the string itself, or the decimal digits of the
// number.
func (a Argument) Literal() string {
	if a.valueIsStr {
		return a.rawString
	}
	return a.Value.String()
}

// MarshalJSON encodes the argument in the {value, alias?} shape.
func (a Argument) MarshalJSON() ([]byte, error) {
	type wire struct {
		Value any    `json:"value"`
		Alias string `json:"alias,omitempty"`
	}
	w := wire{Alias: a.Alias}
	if a.valueIsStr {
		w.Value = a.rawString
	} else {
		w.Value = a.Value
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the argument from the {value, alias?} shape.
// Values may be either JSON strings or JSON numbers; the distinction
// is preserved so the serialiser can round-trip it exactly.
func (a *Argument) UnmarshalJSON(data []byte) error {
	var wire struct {
		Value json.RawMessage `json:"value"`
		Alias string          `json:"alias,omitempty"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	var asString string
	if err := json.Unmarshal(wire.Value, &asString); err == nil {
		a.rawString = asString
		a.valueIsStr = true
		a.Alias = wire.Alias
		return nil
	}

	var asNumber json.Number
	dec := json.NewDecoder(bytes.NewReader(wire.Value))
	dec.UseNumber()
	if err := dec.Decode(&asNumber); err != nil {
		return fmt.Errorf("ruleset: argument value is neither string nor number: %s", wire.Value)
	}
	a.Value = asNumber
	a.valueIsStr = false
	a.Alias = wire.Alias
	return nil
}

// Filter is a single sandbox filter. Filters are recursive: a
// "require-all"/"require-any"/"require-not" filter carries a list of
// Subfilters instead of Arguments.
type Filter struct {
	Name       string     `json:"name"`
	Arguments  []Argument `json:"arguments,omitempty"`
	Subfilters []Filter   `json:"subfilters,omitempty"`
}

// IsCombinator reports whether the filter combines subfilters rather
// than carrying arguments directly.
func (f Filter) IsCombinator() bool {
	switch f.Name {
	case "require-all", "require-any", "require-not":
		return true
	default:
		return false
	}
}

// Modifier is a rule modifier: a name plus an optional typed
// argument.
type Modifier struct {
	Name     string          `json:"name"`
	Argument json.RawMessage `json:"argument,omitempty"`
}

// HasArgument reports whether the modifier carries an argument.
func (m Modifier) HasArgument() bool {
	return len(m.Argument) > 0
}

// StringArgument returns the modifier's argument as a string, if it
// was authored as a JSON string.
func (m Modifier) StringArgument() (string, bool) {
	if !m.HasArgument() {
		return "", false
	}
	var s string
	if err := json.Unmarshal(m.Argument, &s); err != nil {
		return "", false
	}
	return s, true
}

// NumberArgument returns the modifier's argument as a number, if it
// was authored as a JSON number.
func (m Modifier) NumberArgument() (json.Number, bool) {
	if !m.HasArgument() {
		return "", false
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(m.Argument))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return "", false
	}
	return n, true
}

// Rule is a single sandbox policy rule. Rules are treated as opaque
// values for equality — two rules are Equal iff their structured
// representation is equal.
type Rule struct {
	Action     Action     `json:"action"`
	Operations []string   `json:"operations"`
	Filters    []Filter   `json:"filters,omitempty"`
	Modifiers  []Modifier `json:"modifiers,omitempty"`
}

// IsDefault reports whether the rule's operations list contains the
// "default" sentinel.
func (r Rule) IsDefault() bool {
	for _, op := range r.Operations {
		if op == defaultOperation {
			return true
		}
	}
	return false
}

// Equal reports whether r and other have identical structured
// representations.
func (r Rule) Equal(other Rule) bool {
	a, errA := json.Marshal(r)
	b, errB := json.Marshal(other)
	if errA != nil || errB != nil {
		return false
	}
	return string(a) == string(b)
}
