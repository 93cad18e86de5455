// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package recheck

import (
	"testing"

	"github.com/0xbf00/macos-sandbox-coverage/internal/oracle"
)

func TestParseFileIssueExtensionArgument(t *testing.T) {
	cases := []struct {
		name       string
		argument   string
		wantTarget string
		wantClass  string
		wantOK     bool
	}{
		{
			name:       "well formed",
			argument:   "target: /Users/alice/Documents/file.txt class: com.apple.app-sandbox.read-write",
			wantTarget: "/Users/alice/Documents/file.txt",
			wantClass:  "com.apple.app-sandbox.read-write",
			wantOK:     true,
		},
		{
			name:     "missing class marker",
			argument: "target: /tmp/foo",
			wantOK:   false,
		},
		{
			name:     "missing target marker",
			argument: "class: com.apple.app-sandbox.read",
			wantOK:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target, class, ok := parseFileIssueExtensionArgument(tc.argument)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if target != tc.wantTarget {
				t.Errorf("target = %q, want %q", target, tc.wantTarget)
			}
			if class != tc.wantClass {
				t.Errorf("class = %q, want %q", class, tc.wantClass)
			}
		})
	}
}

func TestExtensionClassFor(t *testing.T) {
	if _, ok := extensionClassFor("com.apple.app-sandbox.read-write"); !ok {
		t.Error("expected read-write class to resolve")
	}
	if _, ok := extensionClassFor("com.apple.app-sandbox.read"); !ok {
		t.Error("expected read class to resolve")
	}
	if _, ok := extensionClassFor("com.apple.app-sandbox.bogus"); ok {
		t.Error("expected unknown class to be rejected")
	}
}

func TestHandlesMatchesProbeFamilies(t *testing.T) {
	handled := []string{
		"file-issue-extension",
		"ipc-posix-shm-write-create",
		"ipc-posix-shm-read-metadata",
		"ipc-posix-sem-create",
		"ipc-posix-sem-open",
		"iokit-open",
		"mach-register",
		"nvram-get",
		"process-info-dirtycontrol",
		"signal",
	}
	for _, op := range handled {
		if !Handles(op) {
			t.Errorf("Handles(%q) = false, want true", op)
		}
	}

	unhandled := []string{"file-read-data", "network-outbound", "mach-lookup"}
	for _, op := range unhandled {
		if Handles(op) {
			t.Errorf("Handles(%q) = true, want false", op)
		}
	}
}

func TestProbeUnknownOperationReturnsUnknown(t *testing.T) {
	if got := Probe("file-read-data", ""); got != oracle.Unknown {
		t.Errorf("Probe for unhandled operation = %v, want Unknown", got)
	}
}

func TestProbePosixSemOpenAlwaysErrors(t *testing.T) {
	if got := Probe("ipc-posix-sem-open", "/my-sem"); got != oracle.Error {
		t.Errorf("ipc-posix-sem-open = %v, want Error (no active-probe strategy)", got)
	}
}

func TestIsSignalProbeChild(t *testing.T) {
	if !IsSignalProbeChild([]string{"__signal-probe-child"}) {
		t.Error("expected subcommand to be recognized")
	}
	if IsSignalProbeChild([]string{"attribute"}) {
		t.Error("expected ordinary subcommand to be rejected")
	}
	if IsSignalProbeChild(nil) {
		t.Error("expected empty args to be rejected")
	}
}
