// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/0xbf00/macos-sandbox-coverage/internal/attribution"
	"github.com/0xbf00/macos-sandbox-coverage/internal/config"
	"github.com/0xbf00/macos-sandbox-coverage/internal/event"
	"github.com/0xbf00/macos-sandbox-coverage/internal/oracle"
	"github.com/0xbf00/macos-sandbox-coverage/internal/recheck"
	"github.com/0xbf00/macos-sandbox-coverage/internal/ruleset"
	"github.com/0xbf00/macos-sandbox-coverage/lib/process"
	"github.com/0xbf00/macos-sandbox-coverage/lib/version"
)

// document is the combined stdin input shape (spec.md §6): a rule
// set and the event batch evaluated against it.
type document struct {
	SandboxProfile json.RawMessage `json:"sandbox_profile"`
	ProcessedLogs  json.RawMessage `json:"processed_logs"`
}

func main() {
	if oracle.IsWorker(os.Args[1:]) {
		oracle.SetRecheckProbe(recheck.Probe)
		oracle.RunWorker()
		return
	}
	if recheck.IsSignalProbeChild(os.Args[1:]) {
		recheck.RunSignalProbeChild()
		return
	}

	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	flagSet := pflag.NewFlagSet("sbcoverage-consistency", pflag.ContinueOnError)
	showVersion := flagSet.Bool("version", false, "print version information and exit")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if *showVersion {
		fmt.Println(version.Info())
		return nil
	}

	policy, events, err := readDocument(os.Stdin)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		return err
	}

	selfPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolving self path: %w", err)
	}

	engine := attribution.New(oracle.Real(selfPath, oracle.WithTimeout(timeout)))
	results, err := engine.Consistency(context.Background(), policy, events)
	if err != nil {
		return fmt.Errorf("consistency: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(results)
}

func readDocument(r io.Reader) (ruleset.RuleSet, []event.Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ruleset.RuleSet{}, nil, fmt.Errorf("reading standard input: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return ruleset.RuleSet{}, nil, fmt.Errorf("decoding input document: %w", err)
	}

	policy, err := ruleset.Load(doc.SandboxProfile)
	if err != nil {
		return ruleset.RuleSet{}, nil, err
	}
	events, err := event.Load(doc.ProcessedLogs)
	if err != nil {
		return ruleset.RuleSet{}, nil, err
	}
	return policy, events, nil
}
