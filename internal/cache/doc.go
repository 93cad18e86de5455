// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cache stores oracle decision vectors on disk, keyed by a
// BLAKE3 digest of the serialized policy and the event batch that
// produced them. Re-running attribution over the same log against
// the same profile — the common case when iterating on a profile
// under test — skips every worker fork and reuses the prior C5
// verdicts. The cache is content-addressed and compressed the way
// bureau's lib/artifactstore addresses and compresses containers;
// unlike that cache's bounded eviction ring, this one never evicts —
// entries are small, and a coverage run controls its own cache
// directory's lifetime.
package cache
