// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin

package recheck

/*
#cgo LDFLAGS: -lSystem
#include <stdlib.h>
#include <sys/types.h>

extern int proc_get_dirty(pid_t pid, uint32_t *flags);
extern int proc_setpcontrol(int control);
extern int proc_pidinfo(int pid, int flavor, uint64_t arg, void *buffer, int buffersize);

#define PROC_SELFSET_PCONTROL 2
#define PROC_DIRTYCONTROL_TRACK 1
*/
import "C"

import (
	"os"

	"github.com/0xbf00/macos-sandbox-coverage/internal/oracle"
)

// probeProcessInfo mirrors sandbox_check_dirtycontrol /
// sandbox_check_setcontrol / sandbox_check_pidinfo in
// sandbox_utils/process_info.c: each libproc entry point either
// succeeds or fails with EPERM when the profile denies it.
func probeProcessInfo(operation string) oracle.Decision {
	switch operation {
	case "process-info-dirtycontrol":
		return probeDirtyControl()
	case "process-info-setcontrol":
		return probeSetControl()
	case "process-info-pidinfo":
		return probePidInfo()
	default:
		return oracle.Unknown
	}
}

func probeDirtyControl() oracle.Decision {
	var flags C.uint32_t
	rc := C.proc_get_dirty(C.pid_t(os.Getpid()), &flags)
	if rc != 0 {
		return oracle.Deny
	}
	return oracle.Allow
}

func probeSetControl() oracle.Decision {
	rc := C.proc_setpcontrol(C.PROC_SELFSET_PCONTROL)
	if rc != 0 {
		return oracle.Deny
	}
	return oracle.Allow
}

func probePidInfo() oracle.Decision {
	var buf [4]byte
	rc := C.proc_pidinfo(C.int(os.Getpid()), C.PROC_DIRTYCONTROL_TRACK, 0, nil, C.int(len(buf)))
	if rc <= 0 {
		return oracle.Deny
	}
	return oracle.Allow
}
