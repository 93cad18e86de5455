// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/0xbf00/macos-sandbox-coverage/internal/attribution"
	"github.com/0xbf00/macos-sandbox-coverage/internal/ruleset"
)

// Render writes a grouped coverage table for attributions to w: one
// line per rule that explained at least one event, ordered by rule
// index, followed by inconsistent/external totals.
func Render(w io.Writer, policy ruleset.RuleSet, attributions []attribution.Attribution) error {
	hits := make(map[int]int)
	var inconsistent, external int

	for _, a := range attributions {
		switch a.Kind {
		case attribution.Matched:
			hits[a.RuleIndex]++
		case attribution.Inconsistent:
			inconsistent++
		case attribution.External:
			external++
		}
	}

	indices := make([]int, 0, len(hits))
	for idx := range hits {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	fmt.Fprintf(w, "%-6s %-6s %-40s %s\n", "rule", "hits", "operations", "")
	for _, idx := range indices {
		rule, err := policy.GetNth(idx)
		if err != nil {
			return fmt.Errorf("report: rule %d: %w", idx, err)
		}
		fmt.Fprintf(w, "%-6d %-6d %-40s %s\n", idx, hits[idx], strings.Join(rule.Operations, ","), rule.Action)
	}

	fmt.Fprintf(w, "\ncovered rules:  %d/%d\n", len(indices), policy.Len())
	fmt.Fprintf(w, "inconsistent:   %d\n", inconsistent)
	fmt.Fprintf(w, "external:       %d\n", external)
	return nil
}
