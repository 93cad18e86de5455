// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/0xbf00/macos-sandbox-coverage/internal/attribution"
	"github.com/0xbf00/macos-sandbox-coverage/internal/ruleset"
)

func TestRenderCountsByRuleAndKind(t *testing.T) {
	policy, err := ruleset.New([]ruleset.Rule{
		{Action: ruleset.Deny, Operations: []string{"default"}},
		{Action: ruleset.Allow, Operations: []string{"file-read-data"}},
	})
	if err != nil {
		t.Fatalf("ruleset.New() error = %v", err)
	}

	attributions := []attribution.Attribution{
		{Kind: attribution.Matched, RuleIndex: 1},
		{Kind: attribution.Matched, RuleIndex: 1},
		{Kind: attribution.Inconsistent},
		{Kind: attribution.External},
	}

	var buf bytes.Buffer
	if err := Render(&buf, policy, attributions); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "covered rules:  1/2") {
		t.Errorf("output missing covered-rules line:\n%s", out)
	}
	if !strings.Contains(out, "inconsistent:   1") {
		t.Errorf("output missing inconsistent count:\n%s", out)
	}
	if !strings.Contains(out, "external:       1") {
		t.Errorf("output missing external count:\n%s", out)
	}
}

func TestRenderUnknownRuleIndexErrors(t *testing.T) {
	policy, err := ruleset.New([]ruleset.Rule{
		{Action: ruleset.Deny, Operations: []string{"default"}},
	})
	if err != nil {
		t.Fatalf("ruleset.New() error = %v", err)
	}

	var buf bytes.Buffer
	err = Render(&buf, policy, []attribution.Attribution{{Kind: attribution.Matched, RuleIndex: 9}})
	if err == nil {
		t.Fatal("expected error for out-of-range rule index, got nil")
	}
}
