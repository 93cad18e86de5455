// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !darwin

package recheck

import "github.com/0xbf00/macos-sandbox-coverage/internal/oracle"

const signalProbeChildSubcommand = "__signal-probe-child"

// IsSignalProbeChild mirrors its darwin counterpart so cmd/ packages
// can wire it unconditionally regardless of build target.
func IsSignalProbeChild(args []string) bool {
	return len(args) > 0 && args[0] == signalProbeChildSubcommand
}

// RunSignalProbeChild never returns on darwin; off darwin there is no
// kernel to probe, so this is unreachable in practice.
func RunSignalProbeChild() {}

func probeFileIssueExtension(argument string) oracle.Decision {
	return oracle.Error
}

func probePosixSHM(operation, name string) oracle.Decision {
	return oracle.Error
}

func probePosixSem(operation, name string) oracle.Decision {
	return oracle.Error
}

func probeIOKitOpen(argument string) oracle.Decision {
	return oracle.Error
}

func probeMachRegister(serviceName string) oracle.Decision {
	return oracle.Error
}

func probeNVRAMGet(key string) oracle.Decision {
	return oracle.Error
}

func probeProcessInfo(operation string) oracle.Decision {
	return oracle.Error
}

func probeSignal() oracle.Decision {
	return oracle.Error
}
