// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package report renders attribution results as a grouped,
// human-readable table: one line per rule naming how many events it
// explained, plus inconsistent and external totals. It is plain
// fmt-based tabular text, the non-interactive equivalent of
// original_source/report.py's HTML tables.
package report
