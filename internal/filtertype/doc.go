// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package filtertype maps a sandbox operation name to the single
// kernel filter category that must be passed alongside it when
// querying the sandbox oracle. Operations the resolver cannot
// classify report Unknown, which the oracle handles by probing every
// known filter category in turn (internal/oracle).
package filtertype
