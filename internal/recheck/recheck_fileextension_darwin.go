// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin

package recheck

/*
#cgo LDFLAGS: -lSystem
#include <stdlib.h>

// sandbox_extension_issue_file is private SPI, declared the same way
// file.c forward-declares it.
extern char *sandbox_extension_issue_file(const char *extension_class, const char *path, uint32_t flags, int unused);
*/
import "C"

import (
	"unsafe"

	"github.com/0xbf00/macos-sandbox-coverage/internal/oracle"
)

// probeFileIssueExtension attempts to issue a sandbox extension for
// the target/class pair encoded in argument, mirroring
// sandbox_check_file_issue_extension in sandbox_utils/file.c: success
// issuing the extension means the operation is allowed.
func probeFileIssueExtension(argument string) oracle.Decision {
	target, class, ok := parseFileIssueExtensionArgument(argument)
	if !ok {
		return oracle.Error
	}

	extClass, ok := extensionClassFor(class)
	if !ok {
		return oracle.Error
	}

	cClass := C.CString(extClass)
	defer C.free(unsafe.Pointer(cClass))
	cTarget := C.CString(target)
	defer C.free(unsafe.Pointer(cTarget))

	token := C.sandbox_extension_issue_file(cClass, cTarget, 0, 0)
	if token == nil {
		return oracle.Deny
	}
	C.free(unsafe.Pointer(token))
	return oracle.Allow
}
