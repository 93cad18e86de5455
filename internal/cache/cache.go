// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/0xbf00/macos-sandbox-coverage/internal/oracle"
)

// zstdEncoder and zstdDecoder are reused across Get/Put calls to
// avoid repeated initialization overhead, following
// lib/artifactstore's compress.go. Both are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("cache: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("cache: zstd decoder initialization failed: " + err.Error())
	}
}

// Store is an on-disk, content-addressed cache of oracle decision
// vectors. Entries never expire or get evicted; callers that want a
// fresh run delete the directory or pass a new one.
type Store struct {
	dir string
}

// Open returns a Store rooted at dir, creating it if necessary.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: creating %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Get returns the cached decisions for key, or ok=false on a miss or
// any read/decode failure — a corrupt cache entry is treated as
// absent rather than fatal, since the oracle can always recompute it.
func (s *Store) Get(key Key) (decisions oracle.Decisions, ok bool) {
	compressed, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}

	raw, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, false
	}

	out := make(oracle.Decisions, len(raw))
	for i, b := range raw {
		out[i] = oracle.Decision(b)
	}
	if !out.SentinelFree() {
		return nil, false
	}
	return out, true
}

// Put stores decisions under key, writing atomically via a temp file
// in the same directory followed by rename, the way
// lib/artifactstore.Cache.Pin writes pinned containers.
func (s *Store) Put(key Key, decisions oracle.Decisions) error {
	finalPath := s.path(key)
	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return fmt.Errorf("cache: creating shard directory: %w", err)
	}

	raw := make([]byte, len(decisions))
	for i, d := range decisions {
		raw[i] = byte(d)
	}
	compressed := zstdEncoder.EncodeAll(raw, nil)

	tmp, err := os.CreateTemp(s.dir, "entry-*.tmp")
	if err != nil {
		return fmt.Errorf("cache: creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		return fmt.Errorf("cache: writing entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cache: closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("cache: renaming entry into place: %w", err)
	}

	success = true
	return nil
}

// path returns the sharded filesystem path for key, two levels deep
// by hex prefix: <dir>/<hex[:2]>/<hex[2:4]>/<hex>.
func (s *Store) path(key Key) string {
	hex := key.String()
	return filepath.Join(s.dir, hex[:2], hex[2:4], hex)
}
