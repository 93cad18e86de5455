// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sbpl

import (
	"strings"

	"github.com/0xbf00/macos-sandbox-coverage/internal/ruleset"
)

// Serialize renders rules into the compiler's textual policy form,
// in the order given, preceded by the policy version header. Ported
// from dump_scheme/dump_scheme_rule/dump_scheme_filter/
// dump_scheme_modifier: each rule renders its action, then each
// operation on its own indented line, then its filters and modifiers.
func Serialize(rules []ruleset.Rule) string {
	var out strings.Builder
	out.WriteString("(version 1)\n")
	for _, rule := range rules {
		writeRule(&out, rule)
	}
	return out.String()
}

func writeRule(out *strings.Builder, rule ruleset.Rule) {
	out.WriteString("(")
	out.WriteString(rule.Action.String())
	out.WriteString("\n")

	for _, op := range rule.Operations {
		out.WriteString("    ")
		out.WriteString(op)
		out.WriteString("\n")
	}

	for _, filter := range rule.Filters {
		writeFilter(out, filter, 4)
	}

	for _, modifier := range rule.Modifiers {
		writeModifier(out, modifier, 4)
	}

	out.WriteString(")\n")
}

func writeFilter(out *strings.Builder, filter ruleset.Filter, padding int) {
	pad := strings.Repeat(" ", padding)

	if filter.IsCombinator() {
		out.WriteString(pad)
		out.WriteString("(")
		out.WriteString(filter.Name)
		out.WriteString("\n")
		for _, sub := range filter.Subfilters {
			writeFilter(out, sub, padding+4)
			out.WriteString("\n")
		}
		out.WriteString(pad)
		out.WriteString(")\n")
		return
	}

	out.WriteString(pad)
	out.WriteString("(")
	out.WriteString(filter.Name)
	out.WriteString(" ")

	for i, arg := range filter.Arguments {
		if arg.Alias != "" {
			out.WriteString(arg.Alias)
		} else if s, ok := arg.StringValue(); ok {
			out.WriteString("\"")
			out.WriteString(s)
			out.WriteString("\"")
		} else {
			out.WriteString(arg.Literal())
		}

		if i == len(filter.Arguments)-1 {
			out.WriteString(")")
		} else {
			out.WriteString("\n")
			out.WriteString(pad)
			out.WriteString("    ")
		}
	}

	if padding == 4 {
		out.WriteString("\n")
	}
}

func writeModifier(out *strings.Builder, modifier ruleset.Modifier, padding int) {
	pad := strings.Repeat(" ", padding)

	out.WriteString(pad)
	out.WriteString("(with ")
	out.WriteString(modifier.Name)

	if s, ok := modifier.StringArgument(); ok {
		out.WriteString(" \"")
		out.WriteString(s)
		out.WriteString("\"")
	} else if n, ok := modifier.NumberArgument(); ok {
		out.WriteString(" ")
		out.WriteString(n.String())
	}

	out.WriteString(")")
	out.WriteString("\n")
}
