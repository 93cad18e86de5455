// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin

package recheck

/*
#include <semaphore.h>
#include <fcntl.h>

static sem_t *sbcoverage_sem_open_existing(const char *name) {
    return sem_open(name, 0);
}
static sem_t *sbcoverage_sem_create(const char *name) {
    return sem_open(name, O_CREAT, 0777, 1);
}
static int sbcoverage_sem_unlink(const char *name) {
    return sem_unlink(name);
}
static int sbcoverage_sem_close(sem_t *sem) {
    return sem_close(sem);
}
static int sbcoverage_sem_post(sem_t *sem) {
    return sem_post(sem);
}
static int sbcoverage_sem_trywait(sem_t *sem) {
    return sem_trywait(sem);
}

#define SBCOVERAGE_SEM_FAILED ((sem_t *) -1)
*/
import "C"

import (
	"syscall"
	"unsafe"

	"github.com/0xbf00/macos-sandbox-coverage/internal/oracle"
)

// probePosixSem dispatches the ipc-posix-sem-* family, each mirroring
// its namesake in posix_sem.c. sem-open has no sound active-probe
// strategy (design note §9's open question) and always returns Error.
func probePosixSem(operation, name string) oracle.Decision {
	switch operation {
	case "ipc-posix-sem-create":
		return semCreate(name)
	case "ipc-posix-sem-open":
		return oracle.Error
	case "ipc-posix-sem-post":
		return semPost(name)
	case "ipc-posix-sem-wait":
		return semWait(name)
	case "ipc-posix-sem-unlink":
		return semUnlink(name)
	default:
		return oracle.Unknown
	}
}

func semCreate(name string) oracle.Decision {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	existing, existErr := C.sbcoverage_sem_open_existing(cName)
	if existing != C.SBCOVERAGE_SEM_FAILED {
		if rc, _ := C.sbcoverage_sem_unlink(cName); rc != 0 {
			return oracle.Error
		}
	} else if isErrno(existErr, syscall.EPERM) {
		return oracle.Deny
	}

	sem, err := C.sbcoverage_sem_create(cName)
	if sem == C.SBCOVERAGE_SEM_FAILED {
		if isErrno(err, syscall.EPERM) {
			return oracle.Deny
		}
		return oracle.Error
	}
	C.sbcoverage_sem_close(sem)
	return oracle.Allow
}

func semPost(name string) oracle.Decision {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	sem := C.sbcoverage_sem_open_existing(cName)
	if sem == C.SBCOVERAGE_SEM_FAILED {
		return oracle.Error
	}
	defer C.sbcoverage_sem_close(sem)

	if rc, _ := C.sbcoverage_sem_post(sem); rc != 0 {
		return oracle.Deny
	}
	return oracle.Allow
}

func semWait(name string) oracle.Decision {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	sem := C.sbcoverage_sem_open_existing(cName)
	if sem == C.SBCOVERAGE_SEM_FAILED {
		return oracle.Error
	}
	defer C.sbcoverage_sem_close(sem)

	// sem_trywait, not sem_wait: a denied semaphore must not block the
	// worker forever (spec.md §4.6 table).
	rc, err := C.sbcoverage_sem_trywait(sem)
	if rc != 0 && !isErrno(err, syscall.EAGAIN) {
		return oracle.Deny
	}
	return oracle.Allow
}

func semUnlink(name string) oracle.Decision {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	rc, err := C.sbcoverage_sem_unlink(cName)
	if rc == -1 {
		if isErrno(err, syscall.EPERM) {
			return oracle.Deny
		}
		return oracle.Error
	}
	return oracle.Allow
}
