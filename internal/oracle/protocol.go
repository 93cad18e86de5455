// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oracle

import (
	"github.com/0xbf00/macos-sandbox-coverage/internal/event"
)

// workerSubcommand is the hidden argv[1] the parent re-execs itself
// with. Both cmd/sbcoverage-attribute and cmd/sbcoverage-consistency
// dispatch to RunWorker when they see this as their first argument.
const workerSubcommand = "__oracle-worker"

// request is the CBOR-encoded envelope written to the worker's stdin.
// PolicyText is the already-serialised policy (internal/sbpl output)
// rather than a ruleset.RuleSet: the worker only ever needs the
// kernel-consumable text, never the structured rule tree.
type request struct {
	CorrelationID   string        `cbor:"id"`
	PolicyText      string        `cbor:"policy_text"`
	Events          []event.Event `cbor:"events"`
	DefaultIsAllow  bool          `cbor:"default_is_allow"`
	ResultBufferLen int           `cbor:"result_buffer_len"`

	// UseRecheck selects the two-tier rematcher's per-event evaluator
	// (spec.md §4.7.5): instead of probing via the kernel-query oracle
	// (checkOnce), the worker performs the operation-specific active
	// probe registered with SetRecheckProbe. The policy is still
	// installed exactly as in the kernel-query path — the active
	// probe's outcome depends on whatever sandbox is actually active
	// in the worker.
	UseRecheck bool `cbor:"use_recheck,omitempty"`
}

// response is the shape of a CBOR worker reply envelope carrying a
// worker-local error message. runWorker does not write one and the
// parent does not read the worker's stdout: a worker reports failure
// only through its exit status and stderr, and the decisions travel
// only through the shared result buffer.
type response struct {
	CorrelationID string `cbor:"id"`
	InstallError  string `cbor:"install_error,omitempty"`
}
