// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// sbcoverage-consistency reads a single JSON document from standard
// input, `{ "sandbox_profile": <rule set>, "processed_logs": <events> }`,
// and reports phase A agreement for each event: true if the baseline
// oracle decision matches the observed action, false if it disagrees,
// null if the oracle could not decide at all.
package main
