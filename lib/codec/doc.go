// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides this module's standard CBOR encoding
// configuration.
//
// Two serialization formats are used with a clear boundary:
//
//   - JSON for external interfaces: rule-set and event documents read
//     from disk, and CLI output.
//   - CBOR for the internal protocol: the request the batch oracle's
//     parent writes to its worker (see internal/oracle).
//
// This package provides the shared CBOR encoding and decoding modes so
// every package encodes identically without duplicating configuration.
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. Same
// logical data always produces identical bytes. The oracle result cache
// (internal/cache) does not hash these bytes; it keys on its own hash
// of the policy text and event fields.
//
// For buffer-oriented operations (files, tokens):
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations (sockets, IPC):
//
//	encoder := codec.NewEncoder(conn)
//	decoder := codec.NewDecoder(conn)
//
// # Struct Tag Rules
//
// The struct tag on a type documents its serialization format:
//
//   - `cbor` tag: this type is ONLY ever serialized as CBOR. Examples:
//     the oracle worker's request/response envelopes.
//   - `json` tag: this type may be serialized as BOTH JSON and CBOR.
//     fxamacker/cbor v2 reads `json` tags as fallback when `cbor`
//     tags are absent, so a single `json` tag controls field naming
//     and omitempty for both formats. Example: Event, which is read
//     as JSON from disk but also travels inside the CBOR oracle
//     request.
//
// Never use both `cbor` and `json` tags on the same field. The tag
// choice documents the contract — doubling up is noise that obscures
// whether a type participates in JSON serialization.
package codec
