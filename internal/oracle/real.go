// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oracle

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"github.com/0xbf00/macos-sandbox-coverage/internal/event"
	"github.com/0xbf00/macos-sandbox-coverage/internal/ruleset"
	"github.com/0xbf00/macos-sandbox-coverage/internal/sbpl"
	"github.com/0xbf00/macos-sandbox-coverage/lib/clock"
	"github.com/0xbf00/macos-sandbox-coverage/lib/codec"
)

// Real returns an Oracle that forks a fresh worker process per
// Evaluate call, re-executing the binary at selfPath into the hidden
// worker subcommand (spec.md §4.5). selfPath is normally os.Executable().
func Real(selfPath string, opts ...Option) Oracle {
	o := &realOracle{selfPath: selfPath, clock: clock.Real()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Option configures a Real oracle.
type Option func(*realOracle)

// WithRecheck selects the two-tier rematcher's per-event evaluator
// (spec.md §4.7.5) for every worker this oracle forks: instead of
// kernel-query probing, each event is probed via the active-probe
// evaluator registered with SetRecheckProbe. The policy is still
// installed in the worker exactly as in the kernel-query path.
func WithRecheck() Option {
	return func(o *realOracle) { o.useRecheck = true }
}

// WithTimeout bounds every individual Evaluate call (one shrink
// iteration, spec.md §5) to d. A worker still running when d elapses
// is killed exactly as if the caller's own context had been
// cancelled. Zero (the default) disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(o *realOracle) { o.timeout = d }
}

// withClock overrides the clock used to time out Evaluate calls.
// Tests substitute clock.Fake to control the timeout deterministically
// without sleeping.
func withClock(c clock.Clock) Option {
	return func(o *realOracle) { o.clock = c }
}

type realOracle struct {
	selfPath   string
	useRecheck bool
	timeout    time.Duration
	clock      clock.Clock
}

func (o *realOracle) Evaluate(ctx context.Context, policy ruleset.RuleSet, events []event.Event) (Decisions, error) {
	correlationID := uuid.NewString()
	log := slog.With("correlation_id", correlationID, "policy_rules", policy.Len(), "events", len(events))

	policyText := sbpl.Serialize(policy.Rules())
	defaultIsAllow := false
	if d, ok := policy.GetDefault(); ok {
		defaultIsAllow = d.Action == ruleset.Allow
	}

	buf, err := newSharedBuffer(len(events))
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	req := request{
		CorrelationID:   correlationID,
		PolicyText:      policyText,
		Events:          events,
		DefaultIsAllow:  defaultIsAllow,
		ResultBufferLen: len(events),
		UseRecheck:      o.useRecheck,
	}
	reqBytes, err := codec.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("oracle: encoding worker request: %w", err)
	}

	cmd := exec.Command(o.selfPath, workerSubcommand)
	cmd.Stdin = bytes.NewReader(reqBytes)
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = []*os.File{buf.file}
	// Minimal environment: the worker needs nothing from the parent's
	// shell beyond what installPolicy/checkOnce require at the syscall
	// layer, mirroring sandbox.Command's explicit-env-only discipline.
	cmd.Env = []string{}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("oracle: starting worker: %w", err)
	}

	type waitResult struct {
		status unix.WaitStatus
		err    error
	}
	waitCh := make(chan waitResult, 1)
	go func() {
		var ws unix.WaitStatus
		_, err := unix.Wait4(cmd.Process.Pid, &ws, 0, nil)
		waitCh <- waitResult{ws, err}
	}()

	var timeout <-chan time.Time
	if o.timeout > 0 {
		timeout = o.clock.After(o.timeout)
	}

	var res waitResult
	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-waitCh
		log.Error("oracle: worker cancelled", "error", ctx.Err())
		return nil, ctx.Err()
	case <-timeout:
		_ = cmd.Process.Kill()
		<-waitCh
		log.Error("oracle: worker timed out", "timeout", o.timeout)
		return nil, fmt.Errorf("%w: exceeded %s", ErrTimeout, o.timeout)
	case res = <-waitCh:
	}

	if res.err != nil {
		return nil, fmt.Errorf("oracle: waiting for worker: %w", res.err)
	}
	if res.status.Signaled() {
		log.Error("oracle protocol failure", "signal", res.status.Signal())
		return nil, fmt.Errorf("%w: %v", ErrWorkerKilled, res.status.Signal())
	}
	if res.status.ExitStatus() != 0 {
		log.Error("oracle protocol failure", "exit_status", res.status.ExitStatus())
		return nil, fmt.Errorf("%w: exit status %d", ErrWorkerFailed, res.status.ExitStatus())
	}

	decisions := buf.Decisions(len(events))
	for _, d := range decisions {
		switch d {
		case Allow, Deny, Unknown, Error:
		default:
			return nil, fmt.Errorf("%w: decision byte %#x outside the legal set", ErrProtocol, byte(d))
		}
	}
	if !decisions.SentinelFree() {
		return nil, fmt.Errorf("%w: worker left sentinel bytes unfilled", ErrProtocol)
	}

	log.Info("oracle evaluate complete")
	return decisions, nil
}
