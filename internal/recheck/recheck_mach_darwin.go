// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin

package recheck

/*
#cgo LDFLAGS: -lSystem
#include <stdlib.h>
#include <stdint.h>

extern int sandbox_check(pid_t pid, const char *operation, int type, ...);

static int sbcoverage_mach_register_check(pid_t pid, const char *name) {
    // SANDBOX_FILTER_GLOBAL_NAME, matching filtertype.GlobalName's
    // ordinal in filtertype.go.
    return sandbox_check(pid, "mach-register", 2, name);
}
*/
import "C"

import (
	"os"
	"unsafe"

	"github.com/0xbf00/macos-sandbox-coverage/internal/oracle"
)

// probeMachRegister mirrors sandbox_check_mach_register in
// sandbox_utils/mach.c: mach-register is checkable directly through
// sandbox_check with a global-name filter, no bootstrap registration
// required, since the kernel check happens before the name is
// actually claimed.
func probeMachRegister(serviceName string) oracle.Decision {
	cName := C.CString(serviceName)
	defer C.free(unsafe.Pointer(cName))

	rc := C.sbcoverage_mach_register_check(C.pid_t(os.Getpid()), cName)
	switch {
	case rc == 0:
		return oracle.Allow
	case rc == 1:
		return oracle.Deny
	default:
		return oracle.Error
	}
}
