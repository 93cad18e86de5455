// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package recheck implements the active-probe oracle (spec.md §4.6):
// for operations the kernel-query oracle (package oracle) decides too
// leniently, or whose events carry an ambiguous filter type, recheck
// performs the underlying action — opening a semaphore, issuing a
// sandbox extension, forking and signalling a child — and observes
// the sandbox's response directly.
//
// Every probe here can mutate system state (create a semaphore, leave
// a shared-memory segment behind, spawn a short-lived child process).
// Probes follow the idempotence policy of spec.md §4.6.1: clean up on
// every exit path, and return Error rather than guessing when a
// pre-existing named object makes the outcome ambiguous.
//
// Probes call into libc entry points with no portable Go binding
// (sem_open, shm_open, IOKit, libproc) and are therefore darwin-only,
// built via cgo; Probe itself is portable so callers on any platform
// can construct the dispatch table and get a clear darwin-only error
// at call time rather than a build failure.
package recheck
