// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package filtertype

import "testing"

func TestForFileOperationsResolveToPath(t *testing.T) {
	cases := []string{"file-read-data", "file-write-create", "file-map-executable"}
	for _, op := range cases {
		if got := For(op); got != Path {
			t.Errorf("For(%q) = %v, want Path", op, got)
		}
	}
}

func TestForMachRegisterResolvesToGlobalName(t *testing.T) {
	if got := For("mach-register"); got != GlobalName {
		t.Errorf("For(mach-register) = %v, want GlobalName", got)
	}
}

func TestForArgumentlessOperationsResolveToNone(t *testing.T) {
	if got := For("process-fork"); got != None {
		t.Errorf("For(process-fork) = %v, want None", got)
	}
	if got := For("signal"); got != None {
		t.Errorf("For(signal) = %v, want None", got)
	}
}

func TestForUnclassifiedOperationResolvesToUnknown(t *testing.T) {
	if got := For("ipc-posix-shm-read-data"); got != Unknown {
		t.Errorf("For(ipc-posix-shm-read-data) = %v, want Unknown", got)
	}
}

func TestAllExcludesNoneAndUnknown(t *testing.T) {
	for _, ft := range All() {
		if ft == None || ft == Unknown {
			t.Errorf("All() contains %v, want only concrete filter types", ft)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	cases := map[FilterType]string{
		None:                   "none",
		Path:                   "path",
		GlobalName:             "global-name",
		LocalName:              "local-name",
		AppleEventDestination:  "appleevent-destination",
		RightName:              "right-name",
		PreferenceDomain:       "preference-domain",
		KextBundleID:           "kext-bundle-id",
		InfoType:               "info-type",
		Notification:           "notification",
		Unknown:                "unknown",
	}
	for ft, want := range cases {
		if got := ft.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", int(ft), got, want)
		}
	}
}
