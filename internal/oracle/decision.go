// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oracle

import (
	"context"
	"errors"

	"github.com/0xbf00/macos-sandbox-coverage/internal/event"
	"github.com/0xbf00/macos-sandbox-coverage/internal/ruleset"
)

// Decision is the oracle's per-event outcome (spec.md §3).
type Decision byte

const (
	// Allow means the policy permits the event.
	Allow Decision = 0x00
	// Deny means the policy denies the event.
	Deny Decision = 0x01
	// sentinel pre-fills the shared result buffer; it is never a
	// legal value once Evaluate reports success.
	sentinel Decision = 0x02
	// Unknown means the oracle could not be consulted soundly —
	// an ambiguous filter type on a default-allow policy (§4.5.1).
	Unknown Decision = 0x03
	// Error means the oracle signalled a protocol failure for this
	// specific event (as distinct from a whole-call ErrProtocol).
	Error Decision = 0x04
)

// String renders the decision's wire name.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	case Unknown:
		return "unknown"
	case Error:
		return "error"
	case sentinel:
		return "sentinel"
	default:
		return "invalid"
	}
}

// Decisions is a batch evaluation result, one entry per input event.
type Decisions []Decision

// Sentinel-free reports whether d contains no sentinel bytes, the
// invariant Evaluate must uphold on every successful call (spec.md
// §4.5, P6).
func (d Decisions) SentinelFree() bool {
	for _, v := range d {
		if v == sentinel {
			return false
		}
	}
	return true
}

var (
	// ErrWorkerKilled means the worker process was terminated by a
	// signal before it could report a result.
	ErrWorkerKilled = errors.New("oracle: worker killed by signal")
	// ErrWorkerFailed means the worker exited with a non-zero status,
	// typically because policy installation failed.
	ErrWorkerFailed = errors.New("oracle: worker exited with non-zero status")
	// ErrProtocol means the worker's response was structurally
	// invalid (wrong length, a decision byte outside the legal set).
	ErrProtocol = errors.New("oracle: protocol violation")
	// ErrTimeout means Evaluate's configured per-call timeout
	// (WithTimeout) elapsed before the worker reported a result.
	ErrTimeout = errors.New("oracle: evaluate timed out")
)

// Oracle evaluates a policy against a batch of events inside an
// isolated worker. Implementations must return a Decisions slice with
// no sentinel bytes whenever err is nil (spec.md §4.5's invariant).
type Oracle interface {
	Evaluate(ctx context.Context, policy ruleset.RuleSet, events []event.Event) (Decisions, error)
}
