// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin

package oracle

/*
#cgo LDFLAGS: -lSystem
#include <stdlib.h>
#include <unistd.h>
#include <sys/types.h>

// sandbox_init_with_parameters, sandbox_check, and SANDBOX_CHECK_NO_REPORT
// are private SPI: they ship in libsystem_sandbox.dylib but are not
// declared in any public SDK header, exactly as match_rules.cpp forward
// declares them itself.
extern int sandbox_init_with_parameters(const char *profile, uint64_t flags, const char *const parameters[], char **errorbuf);
extern int sandbox_check(pid_t pid, const char *operation, int type, ...);
extern const int SANDBOX_CHECK_NO_REPORT;

// sandbox_check is variadic; cgo cannot call variadic C functions
// directly, so these fixed-arity wrappers mirror the two call shapes
// sandbox_check_custom uses in the original (with and without an
// argument string).
static int sbcoverage_check_str(pid_t pid, const char *operation, int type, const char *argument) {
    return sandbox_check(pid, operation, type, argument);
}

static int sbcoverage_check_none(pid_t pid, const char *operation, int type) {
    return sandbox_check(pid, operation, type);
}

static int sbcoverage_no_report_flag(void) {
    return SANDBOX_CHECK_NO_REPORT;
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/0xbf00/macos-sandbox-coverage/internal/filtertype"
)

// installPolicy installs profileText on the calling process via the
// private sandbox_init_with_parameters SPI. Installation is one-way:
// once it succeeds the calling process can only ever tighten its
// sandbox further, never lift it (spec.md §5).
func installPolicy(profileText string) error {
	cProfile := C.CString(profileText)
	defer C.free(unsafe.Pointer(cProfile))

	var cErr *C.char
	rv := C.sandbox_init_with_parameters(cProfile, 0, nil, &cErr)
	if cErr != nil {
		msg := C.GoString(cErr)
		C.free(unsafe.Pointer(cErr))
		return fmt.Errorf("oracle: sandbox_init_with_parameters: %s", msg)
	}
	if rv != 0 {
		return fmt.Errorf("oracle: sandbox_init_with_parameters returned %d", int(rv))
	}
	return nil
}

// checkOnce queries the kernel sandbox oracle for a single
// (operation, filter type, argument) tuple, mirroring
// sandbox_check_custom's two call shapes in the original matcher.
func checkOnce(operation string, ft filtertype.FilterType, argument string) (allowed bool, err error) {
	cOp := C.CString(operation)
	defer C.free(unsafe.Pointer(cOp))

	flags := C.int(ft) | C.sbcoverage_no_report_flag()

	var rv C.int
	if ft == filtertype.None {
		rv = C.sbcoverage_check_none(C.getpid(), cOp, flags)
	} else {
		cArg := C.CString(argument)
		defer C.free(unsafe.Pointer(cArg))
		rv = C.sbcoverage_check_str(C.getpid(), cOp, flags, cArg)
	}

	switch rv {
	case 0:
		return true, nil
	case 1:
		return false, nil
	default:
		return false, fmt.Errorf("oracle: sandbox_check(%s) returned %d", operation, int(rv))
	}
}
