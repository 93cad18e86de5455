// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/blake3"

	"github.com/0xbf00/macos-sandbox-coverage/internal/event"
)

// Key is a 32-byte BLAKE3 digest identifying one (policy, event
// batch) pair.
type Key [32]byte

// String renders the key as lowercase hex, for the sharded path on
// disk and for log lines.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// domainKey separates this cache's keyspace from any other BLAKE3
// keyed hash in the module, ASCII-encoded and zero-padded to 32
// bytes, following lib/artifact's domain-separation convention.
var domainKey = [32]byte{
	's', 'b', 'c', 'o', 'v', 'e', 'r', 'a', 'g', 'e', '.', 'o', 'r', 'a', 'c', 'l',
	'e', '.', 'd', 'e', 'c', 'i', 's', 'i', 'o', 'n', 0, 0, 0, 0, 0, 0,
}

// NewKey computes the cache key for a policy and the event batch
// evaluated against it. Every event field that can change the
// oracle's verdict is fed into the hash, in order, length-prefixed so
// no two distinct batches can collide by concatenation alone.
func NewKey(policyText string, events []event.Event) Key {
	h, err := blake3.NewKeyed(domainKey[:])
	if err != nil {
		panic("cache: blake3 keyed init failed: " + err.Error())
	}

	writeLP(h, []byte(policyText))
	var countBuf [8]byte
	binary.LittleEndian.PutUint64(countBuf[:], uint64(len(events)))
	h.Write(countBuf[:])

	for _, ev := range events {
		writeLP(h, []byte(ev.Operation))
		writeLP(h, []byte(ev.Argument))
		h.Write([]byte{byte(ev.Action)})
	}

	var out Key
	copy(out[:], h.Sum(nil))
	return out
}

// writeLP writes a length-prefixed byte string so that, e.g., an
// operation of "ab" followed by argument "c" can never hash the same
// as operation "a" followed by argument "bc".
func writeLP(h *blake3.Hasher, b []byte) {
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(b)))
	h.Write(lenBuf[:])
	h.Write(b)
}
