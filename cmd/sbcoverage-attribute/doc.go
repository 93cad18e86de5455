// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// sbcoverage-attribute runs the four-phase attribution algorithm over
// a sandbox profile and a processed log, reporting which rule (if
// any) explains each observed decision.
//
// Usage:
//
//	sbcoverage-attribute [flags] <policy.json> <events.json> [<policy.json> <events.json> ...]
//	sbcoverage-attribute report [flags] <policy.json> <events.json> [<policy.json> <events.json> ...]
//
// Each policy/events pair is an independent attribution run; passing
// more than one lets worker_concurrency (internal/config) bound how
// many run with a forked oracle worker in flight at once.
//
// The process also answers to a hidden argv[1] of "__oracle-worker":
// that invocation is never made by a user, only by the parent process
// re-executing itself as the isolated oracle worker (spec.md §4.5).
package main
