// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !darwin

package oracle

import (
	"fmt"

	"github.com/0xbf00/macos-sandbox-coverage/internal/filtertype"
)

// installPolicy and checkOnce back the worker subcommand on every
// platform so the module builds everywhere; the real kernel oracle is
// a macOS-only SPI (sandbox_init_with_parameters, sandbox_check), so
// non-darwin builds can only ever use Fake.
func installPolicy(string) error {
	return fmt.Errorf("oracle: the kernel sandbox oracle is darwin-only")
}

func checkOnce(string, filtertype.FilterType, string) (bool, error) {
	return false, fmt.Errorf("oracle: the kernel sandbox oracle is darwin-only")
}
