// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oracle

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/0xbf00/macos-sandbox-coverage/internal/filtertype"
	"github.com/0xbf00/macos-sandbox-coverage/lib/codec"
)

// resultBufferFD is the file descriptor the worker inherits the
// shared result buffer on. cmd.ExtraFiles places it right after
// stdin/stdout/stderr.
const resultBufferFD = 3

// recheckProbe is the active-probe evaluator the rematcher registers
// via SetRecheckProbe before dispatching to RunWorker. It is nil
// unless the hosting binary also imports internal/recheck — package
// oracle never imports recheck directly, to keep the dependency
// pointed the way the rest of the module points it (recheck depends
// on oracle's Decision type, not the reverse).
var recheckProbe func(operation, argument string) Decision

// SetRecheckProbe registers the active-probe evaluator used when a
// worker request sets UseRecheck. Both cmd binaries call this with
// internal/recheck's Probe function in their worker branch, just
// before dispatching to RunWorker.
func SetRecheckProbe(probe func(operation, argument string) Decision) {
	recheckProbe = probe
}

// IsWorker reports whether args (as passed to main, excluding argv[0])
// name the hidden oracle worker subcommand.
func IsWorker(args []string) bool {
	return len(args) > 0 && args[0] == workerSubcommand
}

// RunWorker executes the worker side of the isolated batch oracle
// protocol (spec.md §4.5 steps 2-3): it reads a request from stdin,
// installs the policy irreversibly, probes every event in order, and
// writes decisions into the inherited shared buffer. It never
// returns — it always calls os.Exit, matching the original's
// child-communicates-via-exit-status design (a killed or non-zero
// worker is itself the error signal the parent interprets).
func RunWorker() {
	os.Exit(runWorker())
}

func runWorker() int {
	reqBytes, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "oracle worker: reading request: %v\n", err)
		return 1
	}

	var req request
	if err := codec.Unmarshal(reqBytes, &req); err != nil {
		fmt.Fprintf(os.Stderr, "oracle worker: decoding request: %v\n", err)
		return 1
	}

	if err := installPolicy(req.PolicyText); err != nil {
		fmt.Fprintf(os.Stderr, "oracle worker: installing policy: %v\n", err)
		return 1
	}

	decisions := make(Decisions, len(req.Events))
	for i, ev := range req.Events {
		if req.UseRecheck {
			decisions[i] = probeEventRecheck(ev.Operation, ev.Argument)
			continue
		}
		decisions[i] = probeEvent(ev.Operation, ev.Argument, req.DefaultIsAllow)
	}

	if err := writeResults(req.ResultBufferLen, decisions); err != nil {
		fmt.Fprintf(os.Stderr, "oracle worker: writing results: %v\n", err)
		return 1
	}

	return 0
}

// probeEvent implements the per-event probing strategy of spec.md
// §4.5.1: no-argument events query filter type None once; events
// whose operation resolves to a concrete filter type query that type
// once; events with an unknown filter type return Unknown on a
// default-allow policy (no query can be sound there) or brute-force
// every concrete filter type on a default-deny policy, taking the
// first allow as authoritative.
func probeEvent(operation, argument string, defaultIsAllow bool) Decision {
	if argument == "" {
		return decisionFromCheck(operation, filtertype.None, "")
	}

	ft := filtertype.For(operation)
	if ft != filtertype.Unknown {
		return decisionFromCheck(operation, ft, argument)
	}

	if defaultIsAllow {
		return Unknown
	}

	for _, candidate := range filtertype.All() {
		allowed, err := checkOnce(operation, candidate, argument)
		if err != nil {
			continue
		}
		if allowed {
			return Allow
		}
	}
	return Deny
}

// probeEventRecheck dispatches to the registered active-probe
// evaluator. A missing registration (recheckProbe == nil, meaning the
// hosting binary never called SetRecheckProbe) is itself a protocol
// error for this event rather than a silent fallback.
func probeEventRecheck(operation, argument string) Decision {
	if recheckProbe == nil {
		return Error
	}
	return recheckProbe(operation, argument)
}

func decisionFromCheck(operation string, ft filtertype.FilterType, argument string) Decision {
	allowed, err := checkOnce(operation, ft, argument)
	if err != nil {
		return Error
	}
	if allowed {
		return Allow
	}
	return Deny
}

// writeResults maps the inherited shared buffer and writes each
// decision into its event's slot. It runs once, after runWorker has
// probed every event in index order; the probes themselves never
// touch the buffer.
func writeResults(n int, decisions Decisions) error {
	f := os.NewFile(resultBufferFD, "oracle-result-buffer")
	if f == nil {
		return fmt.Errorf("result buffer fd %d is not open", resultBufferFD)
	}
	defer f.Close()

	size := alignToPageSize(n)
	mem, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("mapping result buffer: %w", err)
	}
	defer unix.Munmap(mem)

	for i, d := range decisions {
		mem[i] = byte(d)
	}
	return nil
}
