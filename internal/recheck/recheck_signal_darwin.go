// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin

package recheck

import (
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/0xbf00/macos-sandbox-coverage/internal/oracle"
)

// signalProbeChildSubcommand is a second hidden subcommand, nested one
// level below the oracle's own __oracle-worker: the worker re-execs
// itself again to get a disposable child to signal, the Go equivalent
// of signal.c's plain fork().
const signalProbeChildSubcommand = "__signal-probe-child"

// IsSignalProbeChild reports whether args name the signal-probe-child
// subcommand, mirroring oracle.IsWorker's convention one level deeper.
func IsSignalProbeChild(args []string) bool {
	return len(args) > 0 && args[0] == signalProbeChildSubcommand
}

// RunSignalProbeChild sleeps long enough for the parent to signal it,
// then exits. It never returns.
func RunSignalProbeChild() {
	time.Sleep(5 * time.Second)
	os.Exit(0)
}

// probeSignal mirrors sandbox_check_signal / fork_allowed in
// sandbox_utils/signal.c: fork a disposable child and test kill(pid,
// 0) against it, which probes send-signal permission without actually
// delivering one.
func probeSignal() oracle.Decision {
	self, err := os.Executable()
	if err != nil {
		return oracle.Error
	}

	cmd := exec.Command(self, signalProbeChildSubcommand)
	if err := cmd.Start(); err != nil {
		return oracle.Error
	}
	defer func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	}()

	// Give the child a moment to reach its sleep before probing it.
	time.Sleep(50 * time.Millisecond)

	err = cmd.Process.Signal(syscall.Signal(0))
	if err == nil {
		return oracle.Allow
	}
	if err == syscall.EPERM {
		return oracle.Deny
	}
	return oracle.Error
}
