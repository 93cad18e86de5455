// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package recheck

import (
	"strings"

	"github.com/0xbf00/macos-sandbox-coverage/internal/oracle"
)

// Probe dispatches to the operation-specific active probe for
// operation, passing argument. Operations with no active probe
// (everything outside the table in spec.md §4.6) return
// oracle.Unknown; Handles reports false for exactly those operations.
func Probe(operation, argument string) oracle.Decision {
	switch {
	case operation == "file-issue-extension":
		return probeFileIssueExtension(argument)
	case strings.HasPrefix(operation, "ipc-posix-shm-"):
		return probePosixSHM(operation, argument)
	case strings.HasPrefix(operation, "ipc-posix-sem-"):
		return probePosixSem(operation, argument)
	case operation == "iokit-open":
		return probeIOKitOpen(argument)
	case operation == "mach-register":
		return probeMachRegister(argument)
	case operation == "nvram-get":
		return probeNVRAMGet(argument)
	case strings.HasPrefix(operation, "process-info-"):
		return probeProcessInfo(operation)
	case operation == "signal":
		return probeSignal()
	default:
		return oracle.Unknown
	}
}

// Handles reports whether Probe has an active probe for operation —
// the rematcher (internal/attribution) uses this to decide whether an
// inconsistent event is even worth resubmitting to recheck.
func Handles(operation string) bool {
	switch {
	case operation == "file-issue-extension",
		strings.HasPrefix(operation, "ipc-posix-shm-"),
		strings.HasPrefix(operation, "ipc-posix-sem-"),
		operation == "iokit-open",
		operation == "mach-register",
		operation == "nvram-get",
		strings.HasPrefix(operation, "process-info-"),
		operation == "signal":
		return true
	default:
		return false
	}
}
