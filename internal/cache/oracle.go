// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"log/slog"

	"github.com/0xbf00/macos-sandbox-coverage/internal/event"
	"github.com/0xbf00/macos-sandbox-coverage/internal/oracle"
	"github.com/0xbf00/macos-sandbox-coverage/internal/ruleset"
	"github.com/0xbf00/macos-sandbox-coverage/internal/sbpl"
)

// Oracle wraps another oracle.Oracle with a Store lookup: a cache hit
// skips the underlying Evaluate call entirely (no worker is forked);
// a miss falls through and the result is stored for next time. This
// changes no observable decision, only whether C5 actually runs.
type Oracle struct {
	Next  oracle.Oracle
	Store *Store
}

// Evaluate implements oracle.Oracle.
func (o Oracle) Evaluate(ctx context.Context, policy ruleset.RuleSet, events []event.Event) (oracle.Decisions, error) {
	key := NewKey(sbpl.Serialize(policy.Rules()), events)

	if decisions, ok := o.Store.Get(key); ok {
		slog.Debug("cache hit", "key", key.String())
		return decisions, nil
	}

	decisions, err := o.Next.Evaluate(ctx, policy, events)
	if err != nil {
		return nil, err
	}

	if err := o.Store.Put(key, decisions); err != nil {
		slog.Warn("cache: failed to store decisions", "key", key.String(), "error", err)
	}
	return decisions, nil
}
