// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin

package recheck

/*
#cgo LDFLAGS: -framework IOKit -framework CoreFoundation
#include <IOKit/IOKitLib.h>
#include <CoreFoundation/CoreFoundation.h>
#include <stdlib.h>

static kern_return_t sbcoverage_iokit_open(const char *className, io_service_t *outService, io_connect_t *outConnect) {
    CFMutableDictionaryRef matching = IOServiceMatching(className);
    if (matching == NULL) {
        return KERN_INVALID_ARGUMENT;
    }
    io_service_t service = IOServiceGetMatchingService(kIOMasterPortDefault, matching);
    if (service == IO_OBJECT_NULL) {
        return KERN_NOT_FOUND;
    }
    *outService = service;

    io_connect_t connect = IO_OBJECT_NULL;
    kern_return_t kr = IOServiceOpen(service, mach_task_self(), 0, &connect);
    *outConnect = connect;
    return kr;
}
*/
import "C"

import (
	"unsafe"

	"github.com/0xbf00/macos-sandbox-coverage/internal/oracle"
)

// iokitUserClasses reverse-maps the argument logged for iokit-open (an
// IOKit user-client class name) onto the set of IOService classes
// known to vend it, ported from io_services_for_user_class's mappings
// table in sandbox_utils/iokit.c. A user-client class can be reached
// through more than one service across macOS versions, and the log
// never records which service the original open targeted, so every
// candidate must be tried.
var iokitUserClasses = map[string][]string{
	"AppleHVClient": {"AppleHV"},
	"AppleLMUClient": {"AppleLMUController"},
	"IOFramebufferSharedUserClient": {"IOGraphicsDevice", "AppleIntelFramebuffer"},
	"nvTeslaSurfaceTesla": {"NVKernel"},
	"SMCMotionSensorClient": {"SMCMotionSensor"},
	"AGPMClient": {"AGPM"},
	"AppleAPFSUserClient": {"AppleAPFSContainer"},
	"AppleActuatorDeviceUserClient": {"AppleActuatorDevice"},
	"AppleFDEKeyStoreUserClient": {"AppleFDEKeyStore"},
	"IOAudioEngineUserClient": {"AppleHDAEngineInput", "AppleHDAEngineOutput", "AppleHDAEngineOutputDP"},
	"AppleHSSPIControllerUserClient": {"AppleHSSPIController"},
	"IOHIDLibUserClient": {"AppleHSSPIHIDDriver", "AppleBluetoothHIDKeyboard", "AppleMikeyHIDDriver", "IOHIDUserDevice"},
	"AppleKeyStoreUserClient": {"AppleKeyStore"},
	"AppleMCCSUserClient": {"AppleMCCSControlModule"},
	"AppleMobileFileIntegrityUserClient": {"AppleMobileFileIntegrity"},
	"AppleMultitouchDeviceUserClient": {"AppleMultitouchDevice"},
	"ApplePlatformEnablerUserClient": {"ApplePlatformEnabler"},
	"AppleRTCUserClient": {"AppleRTC"},
	"AppleSMCClient": {"AppleSMC"},
	"AppleUpstreamUserClient": {"AppleUpstreamUserClientDriver"},
	"AudioAUUC": {"AudioAUUCDriver"},
	"IOAVBNubUserClient": {"IOAVBNub"},
	"IOAudioControlUserClient": {"IOAudioLevelControl", "IOAudioSelectorControl", "IOAudioToggleControl", "AppleHDAAudioSelectorControlDP"},
	"IOBluetoothHCIUserClient": {"IOBluetoothHCIController"},
	"IOAccelerationUserClient": {"IODisplayWrangler"},
	"IOI2CInterfaceUserClient": {"IOFramebufferI2CInterface"},
	"IOHIDParamUserClient": {"IOHIDSystem"},
	"RootDomainUserClient": {"IOPMrootDomain"},
	"IOReportUserClient": {"IOReportHub"},
	"IOSurfaceRootUserClient": {"IOSurfaceRoot"},
	"IOThunderboltFamilyUserClient": {"IOThunderboltController"},
	"IOTimeSyncClockManagerUserClient": {"IOTimeSyncClockManager"},
	"IGAccel2DContext": {"IntelAccelerator"},
	"IGAccelCLContext": {"IntelAccelerator"},
	"IGAccelCommandQueue": {"IntelAccelerator"},
	"IGAccelDevice": {"IntelAccelerator"},
	"IGAccelGLContext": {"IntelAccelerator"},
	"IGAccelSharedUserClient": {"IntelAccelerator"},
	"IGAccelSurface": {"IntelAccelerator"},
	"IGAccelVideoContextMain": {"IntelAccelerator"},
	"IGAccelVideoContextMedia": {"IntelAccelerator"},
	"IGAccelVideoContextVEBox": {"IntelAccelerator"},
	"IOAccelDisplayPipeUserClient2": {"IntelAccelerator"},
	"IOAccelMemoryInfoUserClient": {"IntelAccelerator"},
	"AppleGraphicsDeviceControlClient": {"IntelFBClientControl", "AGDPClientControl"},
	"AppleIntelMEUserClient": {"AppleIntelMEClientController"},
	"IOBluetoothDeviceUserClient": {"IOBluetoothDevice"},
	"IOBluetoothHCIPacketLogUserClient": {"IOBluetoothHCIController"},
	"AppleNVMeSMARTUserClient": {"IONVMeBlockStorageDevice"},
	"IOUSBDeviceUserClientV2": {"IOUSBDevice", "IOUSBRootHubDevice"},
	"IOUSBInterfaceUserClientV3": {"IOUSBInterface"},
	"AGDPUserClient": {"AGDPClientControl"},
	"AHCISMARTUserClient": {"AppleAHCIDiskDriver"},
	"IOBluetoothHostControllerUserClient": {"AppleBroadcomBluetoothHostController"},
	"AppleSNBFBUserClient": {"AppleMEClientController"},
	"IOBluetoothPacketLoggerUserClient": {"IOBluetoothPacketLogger"},
	"IOTimeSyncDomainUserClient": {"IOTimeSyncDomain"},
	"IOTimeSyncgPTPManagerUserClient": {"IOTimeSyncgPTPManager"},
	"AppleUSBHostInterfaceUserClient": {"IOUSBInterface"},
	"IOUSBMassStorageResourceUserClient": {"IOUSBMassStorageResource"},
	"AppleUSBLegacyDeviceUserClient": {"IOUSBRootHubDevice"},
	"IOAccelGLDrawableUserClient": {"IntelAccelerator"},
	"IOAccelSurfaceMTL": {"IntelAccelerator"},
}

// probeIOKitOpen attempts to open, in turn, every service class known
// to vend the user-client class named in argument, mirroring
// sandbox_check_iokit_open: the attempt succeeds (Allow) as soon as
// any candidate opens; if every candidate is tried and none opens, the
// result is Deny. A class absent from the table cannot be probed at
// all and returns Error.
func probeIOKitOpen(argument string) oracle.Decision {
	services, ok := iokitUserClasses[argument]
	if !ok {
		return oracle.Error
	}

	for _, service := range services {
		cClass := C.CString(service)
		kr, opened := tryIOKitOpen(cClass)
		C.free(unsafe.Pointer(cClass))
		if !opened {
			// KERN_NOT_FOUND: this service doesn't exist on the
			// running system. Try the next candidate, exactly as
			// sandbox_check_iokit_open skips services it can't match.
			continue
		}
		if kr == C.KERN_SUCCESS {
			return oracle.Allow
		}
	}
	return oracle.Deny
}

// tryIOKitOpen opens className and reports whether a matching service
// was found at all (as opposed to the open itself succeeding).
func tryIOKitOpen(cClass *C.char) (kr C.kern_return_t, foundService bool) {
	var service, connect C.io_service_t
	kr = C.sbcoverage_iokit_open(cClass, &service, &connect)
	if service != 0 {
		C.IOObjectRelease(service)
	}
	if kr == C.KERN_SUCCESS {
		C.IOServiceClose(connect)
	}
	return kr, kr != C.KERN_NOT_FOUND
}
