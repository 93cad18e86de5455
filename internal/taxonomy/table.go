// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package taxonomy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// nodeType classifies an operation table entry (spec.md §4.3).
type nodeType string

const (
	// Terminal operations have no fallback: only rules naming the
	// operation exactly can govern its events.
	terminalNode nodeType = "terminal"
	// Fallback operations additionally defer to another operation
	// when no rule names them directly.
	fallbackNode nodeType = "fallback"
)

// entry is a single operation table row.
type entry struct {
	NodeType      nodeType `yaml:"node_type"`
	FallbackOp    string   `yaml:"fallback_op,omitempty"`
	DefaultAction string   `yaml:"default_action"`
}

// fileFormat is the on-disk/embedded shape of an operation table: a
// version tag plus the operation rows, mirroring how bureau's
// sandbox.ProfileLoader versions its embedded default profiles.
type fileFormat struct {
	Platform   string           `yaml:"platform"`
	Operations map[string]entry `yaml:"operations"`
}

// Table is a resolved operation taxonomy.
type Table struct {
	platform   string
	operations map[string]entry
}

// Default returns the table built from the package's embedded
// platform data.
func Default() (*Table, error) {
	return parse(defaultTableYAML)
}

// LoadFile loads an operation table from a YAML file on disk,
// replacing the embedded default wholesale — the operation table is
// versioned as a single unit per §9's open question on table/policy
// version fingerprinting, so partial overrides are not supported.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: reading operation table %s: %w", path, err)
	}
	table, err := parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("taxonomy: %s: %w", path, err)
	}
	return table, nil
}

func parse(data string) (*Table, error) {
	var ff fileFormat
	if err := yaml.Unmarshal([]byte(data), &ff); err != nil {
		return nil, fmt.Errorf("taxonomy: parsing operation table: %w", err)
	}
	if ff.Platform == "" {
		return nil, fmt.Errorf("taxonomy: operation table is missing a platform tag")
	}
	return &Table{platform: ff.Platform, operations: ff.Operations}, nil
}

// Platform returns the table's version tag.
func (t *Table) Platform() string {
	return t.platform
}

// Rel returns the set of operation names whose rules could govern
// events of op (spec.md §4.3): op itself, then the fallback chain
// walked until a terminal node or a revisited name (cycle guard).
// Unknown operations are treated as terminal nodes naming only
// themselves — an operation absent from the table cannot fall back
// to anything the table knows about.
func (t *Table) Rel(op string) []string {
	seen := map[string]bool{op: true}
	order := []string{op}

	current := op
	for {
		info, ok := t.operations[current]
		if !ok || info.NodeType == terminalNode || info.FallbackOp == "" {
			break
		}
		if seen[info.FallbackOp] {
			break
		}
		seen[info.FallbackOp] = true
		order = append(order, info.FallbackOp)
		current = info.FallbackOp
	}

	return order
}

// DefaultAction returns the operation's built-in default action absent
// any matching rule. Operations absent from the table default to
// deny, the conservative choice — an unmodeled operation should never
// silently explain away an observed allow.
func (t *Table) DefaultAction(op string) string {
	if info, ok := t.operations[op]; ok && info.DefaultAction != "" {
		return info.DefaultAction
	}
	return "deny"
}
