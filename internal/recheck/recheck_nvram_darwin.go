// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin

package recheck

/*
#cgo LDFLAGS: -framework IOKit -framework CoreFoundation
#include <IOKit/IOKitLib.h>
#include <CoreFoundation/CoreFoundation.h>
#include <stdlib.h>

static kern_return_t sbcoverage_nvram_get(const char *key, int *outFound) {
    io_registry_entry_t options = IORegistryEntryFromPath(kIOMasterPortDefault, "IODeviceTree:/options");
    if (options == IO_OBJECT_NULL) {
        return KERN_NOT_FOUND;
    }

    CFStringRef cfKey = CFStringCreateWithCString(kCFAllocatorDefault, key, kCFStringEncodingUTF8);
    CFTypeRef value = IORegistryEntryCreateCFProperty(options, cfKey, kCFAllocatorDefault, 0);
    CFRelease(cfKey);
    IOObjectRelease(options);

    *outFound = value != NULL;
    if (value != NULL) {
        CFRelease(value);
    }
    return KERN_SUCCESS;
}
*/
import "C"

import (
	"unsafe"

	"github.com/0xbf00/macos-sandbox-coverage/internal/oracle"
)

// probeNVRAMGet mirrors sandbox_check_nvram_get / nvram_root in
// sandbox_utils.c: reading the options registry entry under a live
// sandbox profile is itself the probe; a denied read surfaces as
// IORegistryEntryCreateCFProperty quietly returning NULL rather than
// an explicit sandbox error, so a missing key and a denied read are
// indistinguishable and both classify as Unknown.
func probeNVRAMGet(key string) oracle.Decision {
	cKey := C.CString(key)
	defer C.free(unsafe.Pointer(cKey))

	var found C.int
	kr := C.sbcoverage_nvram_get(cKey, &found)
	if kr != C.KERN_SUCCESS {
		return oracle.Error
	}
	if found != 0 {
		return oracle.Allow
	}
	return oracle.Unknown
}
