// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package oracle implements the isolated batch oracle (spec.md §4.5):
// for a serialised policy and a batch of events, it returns one
// Decision per event, evaluated inside a worker process that has
// irreversibly installed that policy on itself.
//
// Sandbox installation is one-way and some active probes (package
// recheck) mutate system state, so the only sound evaluation strategy
// is process isolation: every Evaluate call forks a fresh worker by
// re-executing the current binary into a hidden subcommand. Parent and
// worker share one result buffer — an unlinked temp file mapped
// MAP_SHARED in both processes and passed across exec via
// cmd.ExtraFiles — pre-filled with a sentinel byte the worker
// overwrites in event order. The parent never reads the buffer until
// the worker has exited.
//
// Real forks a live oracle that does all of the above and requires
// darwin and an unsandboxed caller. Fake satisfies the same interface
// from a scripted decision table, for tests and for the attribution
// engine's own test suite, following design note §9's recommendation
// to expose the oracle as an abstract interface for exactly this
// reason.
package oracle
