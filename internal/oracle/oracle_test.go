// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oracle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/0xbf00/macos-sandbox-coverage/internal/event"
	"github.com/0xbf00/macos-sandbox-coverage/internal/ruleset"
	"github.com/0xbf00/macos-sandbox-coverage/lib/clock"
)

func TestDecisionsSentinelFree(t *testing.T) {
	clean := Decisions{Allow, Deny, Unknown, Error}
	if !clean.SentinelFree() {
		t.Error("SentinelFree() = false for a clean decision vector")
	}

	dirty := Decisions{Allow, sentinel, Deny}
	if dirty.SentinelFree() {
		t.Error("SentinelFree() = true for a vector containing the sentinel byte")
	}
}

func TestFakeRecordsCallsAndAppliesDecide(t *testing.T) {
	rule, err := ruleset.New([]ruleset.Rule{
		{Action: ruleset.Deny, Operations: []string{"default"}},
	})
	if err != nil {
		t.Fatalf("ruleset.New() error = %v", err)
	}

	f := &Fake{
		Decide: func(policy []ruleset.Rule, ev event.Event) Decision {
			if ev.Action == ruleset.Allow {
				return Allow
			}
			return Deny
		},
	}

	events := []event.Event{
		{Operation: "file-read-data", Argument: "/etc/hosts", Action: ruleset.Allow},
		{Operation: "file-read-data", Argument: "/etc/shadow", Action: ruleset.Deny},
	}

	got, err := f.Evaluate(context.Background(), rule, events)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	want := Decisions{Allow, Deny}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if len(f.Calls) != 1 {
		t.Fatalf("len(Calls) = %d, want 1", len(f.Calls))
	}
	if len(f.Calls[0].Events) != 2 {
		t.Errorf("Calls[0].Events has %d entries, want 2", len(f.Calls[0].Events))
	}
}

// TestRealEvaluateTimesOut forks a worker stand-in that never exits
// on its own (a shell script that sleeps regardless of the worker
// subcommand argument it's handed) and verifies a configured
// WithTimeout kills it and returns ErrTimeout, using a fake clock so
// the test doesn't wait out a real timeout.
func TestRealEvaluateTimesOut(t *testing.T) {
	script := filepath.Join(t.TempDir(), "wedged-worker.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nsleep 30\n"), 0o700); err != nil {
		t.Fatalf("writing worker stand-in: %v", err)
	}

	fakeClock := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	o := Real(script, WithTimeout(5*time.Second), withClock(fakeClock))

	ruleSet, err := ruleset.New([]ruleset.Rule{
		{Action: ruleset.Deny, Operations: []string{"default"}},
	})
	if err != nil {
		t.Fatalf("ruleset.New() error = %v", err)
	}
	events := []event.Event{{Operation: "file-read-data", Argument: "/etc/hosts", Action: ruleset.Deny}}

	errCh := make(chan error, 1)
	go func() {
		_, err := o.Evaluate(context.Background(), ruleSet, events)
		errCh <- err
	}()

	fakeClock.WaitForTimers(1)
	fakeClock.Advance(5 * time.Second)

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrTimeout) {
			t.Fatalf("Evaluate() error = %v, want ErrTimeout", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Evaluate() did not return after the fake clock advanced past the timeout")
	}
}

func TestAlignToPageSize(t *testing.T) {
	pageSize := alignToPageSize(0)
	if pageSize <= 0 {
		t.Fatalf("alignToPageSize(0) = %d, want > 0", pageSize)
	}
	if alignToPageSize(1) != pageSize {
		t.Errorf("alignToPageSize(1) = %d, want %d", alignToPageSize(1), pageSize)
	}
	if alignToPageSize(pageSize+1) != pageSize*2 {
		t.Errorf("alignToPageSize(pageSize+1) = %d, want %d", alignToPageSize(pageSize+1), pageSize*2)
	}
}
