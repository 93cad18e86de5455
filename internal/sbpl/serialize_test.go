// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sbpl

import (
	"strings"
	"testing"

	"github.com/0xbf00/macos-sandbox-coverage/internal/ruleset"
)

func loadRules(t *testing.T, data string) []ruleset.Rule {
	t.Helper()
	rs, err := ruleset.Load([]byte(data))
	if err != nil {
		t.Fatalf("ruleset.Load() error = %v", err)
	}
	return rs.Rules()
}

func TestSerializeQuotesPlainStringArgument(t *testing.T) {
	rules := loadRules(t, `[
		{"action":"allow","operations":["file-read-data"],
		 "filters":[{"name":"subpath","arguments":[{"value":"/etc"}]}]}
	]`)

	out := Serialize(rules)
	if !strings.Contains(out, `(subpath "/etc")`) {
		t.Errorf("Serialize() = %q, want a quoted (subpath \"/etc\") filter", out)
	}
	if strings.Contains(out, "(subpath /etc)") {
		t.Errorf("Serialize() = %q, argument rendered unquoted", out)
	}
}

func TestSerializeUsesAliasUnquoted(t *testing.T) {
	rules := loadRules(t, `[
		{"action":"allow","operations":["mach-lookup"],
		 "filters":[{"name":"global-name","arguments":[{"value":"com.apple.cfprefsd.daemon","alias":"_cfprefsd"}]}]}
	]`)

	out := Serialize(rules)
	if !strings.Contains(out, "(global-name _cfprefsd)") {
		t.Errorf("Serialize() = %q, want the unquoted alias", out)
	}
	if strings.Contains(out, "com.apple.cfprefsd.daemon") {
		t.Errorf("Serialize() = %q, alias should have suppressed the literal value", out)
	}
}

func TestSerializeRendersNumericArgumentBare(t *testing.T) {
	rules := loadRules(t, `[
		{"action":"allow","operations":["file-read-data"],
		 "filters":[{"name":"file-mode","arguments":[{"value":420}]}]}
	]`)

	out := Serialize(rules)
	if !strings.Contains(out, "(file-mode 420)") {
		t.Errorf("Serialize() = %q, want the bare numeric literal", out)
	}
}

func TestSerializeRequireAllCombinator(t *testing.T) {
	rules := loadRules(t, `[
		{"action":"deny","operations":["file-write-data"],
		 "filters":[{"name":"require-all","subfilters":[
			{"name":"subpath","arguments":[{"value":"/tmp"}]},
			{"name":"literal","arguments":[{"value":"/tmp/lockfile"}]}
		 ]}]}
	]`)

	out := Serialize(rules)
	if !strings.Contains(out, "(require-all") {
		t.Errorf("Serialize() = %q, want a require-all combinator", out)
	}
	if !strings.Contains(out, `(subpath "/tmp")`) || !strings.Contains(out, `(literal "/tmp/lockfile")`) {
		t.Errorf("Serialize() = %q, want both quoted subfilter arguments", out)
	}
}

func TestSerializeRendersModifierStringArgument(t *testing.T) {
	rules := loadRules(t, `[
		{"action":"allow","operations":["file-write-data"],
		 "modifiers":[{"name":"report","argument":"noisy"}]}
	]`)

	out := Serialize(rules)
	if !strings.Contains(out, `(with report "noisy")`) {
		t.Errorf("Serialize() = %q, want a quoted modifier argument", out)
	}
}
