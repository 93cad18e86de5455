// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package event is the in-memory representation of an observed
// access-control log entry: an operation name, an optional resource
// argument, and the outcome the kernel produced. Events are immutable
// throughout attribution; nothing in this module ever rewrites one.
package event
