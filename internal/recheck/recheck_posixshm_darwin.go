// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin

package recheck

/*
#include <sys/mman.h>
#include <sys/stat.h>
#include <fcntl.h>
#include <unistd.h>

static int sbcoverage_shm_open(const char *name, int oflag, mode_t mode) {
    return shm_open(name, oflag, mode);
}
static int sbcoverage_shm_unlink(const char *name) {
    return shm_unlink(name);
}
static int sbcoverage_close(int fd) {
    return close(fd);
}
static int sbcoverage_fstat_ok(int fd) {
    struct stat st;
    return fstat(fd, &st) == 0;
}
*/
import "C"

import (
	"syscall"
	"unsafe"

	"github.com/0xbf00/macos-sandbox-coverage/internal/oracle"
)

// shmOpenOrCreate mirrors shm_open_or_create in sandbox_utils/
// posix_shm.c: open the named object with oflag first (since the
// original process may already have closed it); if it does not
// exist, attempt to create it instead. EPERM on the open is a clean
// deny; failure to create after ENOENT is unresolved (the profile may
// allow opening existing objects but deny creating new ones).
func shmOpenOrCreate(name string, oflag C.int, keepOpen bool) (oracle.Decision, C.int) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	fd, err := C.sbcoverage_shm_open(cName, oflag, 0)
	if fd != -1 {
		if !keepOpen {
			C.sbcoverage_close(fd)
		}
		return oracle.Allow, fd
	}

	if isErrno(err, syscall.EPERM) {
		return oracle.Deny, -1
	}
	if isErrno(err, syscall.ENOENT) {
		fd, _ = C.sbcoverage_shm_open(cName, oflag|C.O_CREAT, 0777)
		if fd == -1 {
			return oracle.Unknown, -1
		}
		if !keepOpen {
			C.sbcoverage_close(fd)
		}
		return oracle.Allow, fd
	}
	return oracle.Error, -1
}

func isErrno(err error, target syscall.Errno) bool {
	errno, ok := err.(syscall.Errno)
	return ok && errno == target
}

// probePosixSHM dispatches the ipc-posix-shm-* family, each mirroring
// its namesake in posix_shm.c.
func probePosixSHM(operation, name string) oracle.Decision {
	switch operation {
	case "ipc-posix-shm-write-create":
		return shmWriteCreate(name)
	case "ipc-posix-shm-write-data":
		d, _ := shmOpenOrCreate(name, C.O_RDWR, false)
		return d
	case "ipc-posix-shm-write-unlink":
		return shmUnlink(name)
	case "ipc-posix-shm-read-data":
		d, _ := shmOpenOrCreate(name, C.O_RDONLY, false)
		return d
	case "ipc-posix-shm-read-metadata":
		return shmReadMetadata(name)
	default:
		return oracle.Unknown
	}
}

func shmWriteCreate(name string) oracle.Decision {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	existing, existingErr := C.sbcoverage_shm_open(cName, C.O_RDONLY, 0)
	if existing != -1 {
		C.sbcoverage_close(existing)
		if rc, unlinkErr := C.sbcoverage_shm_unlink(cName); rc != 0 {
			if isErrno(unlinkErr, syscall.EACCES) || isErrno(unlinkErr, syscall.EPERM) {
				return oracle.Deny
			}
			return oracle.Error
		}
	} else if isErrno(existingErr, syscall.EPERM) {
		return oracle.Error
	}

	fd, err := C.sbcoverage_shm_open(cName, C.O_RDWR|C.O_CREAT, 0777)
	if fd == -1 {
		if isErrno(err, syscall.EPERM) {
			return oracle.Deny
		}
		return oracle.Error
	}
	C.sbcoverage_close(fd)
	return oracle.Allow
}

func shmUnlink(name string) oracle.Decision {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	if rc, err := C.sbcoverage_shm_unlink(cName); rc != 0 {
		if isErrno(err, syscall.EPERM) {
			return oracle.Deny
		}
		return oracle.Error
	}
	return oracle.Allow
}

func shmReadMetadata(name string) oracle.Decision {
	decision, fd := shmOpenOrCreate(name, C.O_RDONLY, true)
	if fd == -1 {
		return decision
	}
	defer C.sbcoverage_close(fd)

	if C.sbcoverage_fstat_ok(fd) == 0 {
		return oracle.Deny
	}
	return oracle.Allow
}
