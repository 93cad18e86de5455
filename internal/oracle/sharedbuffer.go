// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oracle

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// sharedBuffer is the parent↔worker result channel: a page-aligned,
// MAP_SHARED mapping backed by an unlinked temp file. The file is
// unlinked immediately after mapping so no path survives the call —
// the mapping itself, inherited by the worker via cmd.ExtraFiles, is
// the only way to reach it (spec.md §5's "shared-resource policy").
//
// The original C implementation achieved the same sharing by mmap'ing
// MAP_ANONYMOUS memory before fork(); Go's runtime forbids raw fork()
// across its multiple OS threads, so this port re-execs into a fresh
// process instead and carries the mapping across exec via an inherited
// file descriptor rather than inherited address space.
type sharedBuffer struct {
	file *os.File
	mem  []byte
}

// newSharedBuffer allocates a buffer of n bytes, pre-filled with the
// sentinel byte, page-aligned per spec.md §4.5 step 1.
func newSharedBuffer(n int) (*sharedBuffer, error) {
	size := alignToPageSize(n)

	f, err := os.CreateTemp("", "sbcoverage-oracle-*")
	if err != nil {
		return nil, fmt.Errorf("oracle: creating shared result buffer: %w", err)
	}
	// Unlink immediately: the fd, not the path, is what the worker
	// inherits.
	path := f.Name()
	defer os.Remove(path)

	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, fmt.Errorf("oracle: sizing shared result buffer: %w", err)
	}

	mem, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("oracle: mapping shared result buffer: %w", err)
	}

	for i := range mem {
		mem[i] = byte(sentinel)
	}

	return &sharedBuffer{file: f, mem: mem}, nil
}

// Decisions returns the first n bytes of the mapping as a Decisions
// slice. Call only after the worker has exited.
func (b *sharedBuffer) Decisions(n int) Decisions {
	out := make(Decisions, n)
	for i := 0; i < n; i++ {
		out[i] = Decision(b.mem[i])
	}
	return out
}

// Close unmaps the buffer and closes the backing file descriptor.
func (b *sharedBuffer) Close() error {
	err := unix.Munmap(b.mem)
	if cerr := b.file.Close(); err == nil {
		err = cerr
	}
	return err
}

func alignToPageSize(n int) int {
	pageSize := os.Getpagesize()
	if n <= 0 {
		n = 1
	}
	return (n + pageSize - 1) &^ (pageSize - 1)
}
