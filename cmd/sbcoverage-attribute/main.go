// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/spf13/pflag"

	"github.com/0xbf00/macos-sandbox-coverage/internal/attribution"
	"github.com/0xbf00/macos-sandbox-coverage/internal/cache"
	"github.com/0xbf00/macos-sandbox-coverage/internal/config"
	"github.com/0xbf00/macos-sandbox-coverage/internal/event"
	"github.com/0xbf00/macos-sandbox-coverage/internal/oracle"
	"github.com/0xbf00/macos-sandbox-coverage/internal/recheck"
	"github.com/0xbf00/macos-sandbox-coverage/internal/report"
	"github.com/0xbf00/macos-sandbox-coverage/internal/ruleset"
	"github.com/0xbf00/macos-sandbox-coverage/lib/process"
	"github.com/0xbf00/macos-sandbox-coverage/lib/version"
)

func main() {
	// Both hidden subcommands are dispatched before any flag parsing:
	// neither argv[1] ("__oracle-worker", "__signal-probe-child") is a
	// flag and neither must ever reach pflag. SetRecheckProbe must be
	// called here too, since the worker itself may be the recheck
	// oracle's forked process.
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
	flagSet := pflag.NewFlagSet("sbcoverage-attribute", pflag.ContinueOnError)
	rematch := flagSet.Bool("rematch", false, "run the two-tier rematcher over inconsistent and mach-register events")
	verifyDefaultDeny := flagSet.Bool("verify-default-deny", false, "confirm default-deny attributions against a default-allow sibling policy")
	configPath := flagSet.String("config", "", "path to a JSONC tuning file (default: $SBCOVERAGE_CONFIG, or built-in defaults)")
	cacheDir := flagSet.String("cache-dir", "", "on-disk oracle decision cache directory (overrides the config file)")
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

	args := flagSet.Args()
	asReport := false
	if len(args) > 0 && args[0] == "report" {
		asReport = true
		args = args[1:]
	}
	if len(args) == 0 || len(args)%2 != 0 {
		return fmt.Errorf("usage: sbcoverage-attribute [flags] [report] <policy.json> <events.json> [<policy.json> <events.json> ...]")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *cacheDir != "" {
		cfg.CacheDir = *cacheDir
	}
	if *rematch {
		cfg.Rematch = true
	}
	if *verifyDefaultDeny {
		cfg.VerifyDefaultDeny = true
	}

	selfPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolving self path: %w", err)
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		return err
	}

	var queryOracle oracle.Oracle = oracle.Real(selfPath, oracle.WithTimeout(timeout))
	if cfg.CacheDir != "" {
		store, err := cache.Open(cfg.CacheDir)
		if err != nil {
			return err
		}
		queryOracle = cache.Oracle{Next: queryOracle, Store: store}
	}

	docs := make([]documentPair, len(args)/2)
	for i := range docs {
		docs[i] = documentPair{policyPath: args[2*i], eventsPath: args[2*i+1]}
	}

	ctx := context.Background()
	outcomes, err := runDocuments(ctx, docs, runDocumentOptions{
		oracle:   queryOracle,
		selfPath: selfPath,
		timeout:  timeout,
		cfg:      cfg,
		workers:  cfg.WorkerConcurrency,
	})
	if err != nil {
		return err
	}

	if asReport {
		for i, o := range outcomes {
			if len(outcomes) > 1 {
				fmt.Fprintf(os.Stdout, "== %s / %s ==\n", docs[i].policyPath, docs[i].eventsPath)
			}
			if err := report.Render(os.Stdout, o.policy, o.results); err != nil {
				return err
			}
		}
		return nil
	}

	if len(outcomes) == 1 {
		return writeAttributions(os.Stdout, outcomes[0].results)
	}
	allResults := make([][]attribution.Attribution, len(outcomes))
	for i, o := range outcomes {
		allResults[i] = o.results
	}
	return writeAttributionSets(os.Stdout, allResults)
}

// documentPair names one independent policy/event-batch input (spec.md
// §6 processes each such pair as a wholly separate attribution run).
type documentPair struct {
	policyPath string
	eventsPath string
}

// documentOutcome is one documentPair's loaded policy and the
// attributions (after any rematch) computed for it.
type documentOutcome struct {
	policy  ruleset.RuleSet
	results []attribution.Attribution
}

type runDocumentOptions struct {
	oracle   oracle.Oracle
	selfPath string
	timeout  time.Duration
	cfg      *config.Config
	workers  int
}

// runDocuments attributes every doc in docs, running up to opts.workers
// at once. config.WorkerConcurrency exists precisely to bound this: the
// four-phase engine itself is strictly sequential per run (spec.md §5),
// but nothing prevents unrelated policy/event pairs from running
// concurrently, each with its own forked oracle worker. Results are
// returned in input order regardless of completion order.
func runDocuments(ctx context.Context, docs []documentPair, opts runDocumentOptions) ([]documentOutcome, error) {
	workers := opts.workers
	if workers < 1 {
		workers = 1
	}

	outcomes := make([]documentOutcome, len(docs))
	errs := make([]error, len(docs))

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, doc := range docs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, doc documentPair) {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes[i], errs[i] = runDocument(ctx, doc, opts)
		}(i, doc)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%s / %s: %w", docs[i].policyPath, docs[i].eventsPath, err)
		}
	}
	return outcomes, nil
}

func runDocument(ctx context.Context, doc documentPair, opts runDocumentOptions) (documentOutcome, error) {
	policy, events, err := loadInputs(doc.policyPath, doc.eventsPath)
	if err != nil {
		return documentOutcome{}, err
	}

	engine := attribution.New(opts.oracle)
	engine.VerifyDefaultDeny = opts.cfg.VerifyDefaultDeny

	results, err := engine.Attribute(ctx, policy, events)
	if err != nil {
		return documentOutcome{}, fmt.Errorf("attribution: %w", err)
	}

	if opts.cfg.Rematch {
		recheckOracle := oracle.Real(opts.selfPath, oracle.WithRecheck(), oracle.WithTimeout(opts.timeout))
		results, err = engine.Rematch(ctx, recheckOracle, policy, events, results)
		if err != nil {
			return documentOutcome{}, fmt.Errorf("rematch: %w", err)
		}
	}

	return documentOutcome{policy: policy, results: results}, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func loadInputs(policyPath, eventsPath string) (ruleset.RuleSet, []event.Event, error) {
	policyBytes, err := os.ReadFile(policyPath)
	if err != nil {
		return ruleset.RuleSet{}, nil, fmt.Errorf("reading %s: %w", policyPath, err)
	}
	policy, err := ruleset.Load(policyBytes)
	if err != nil {
		return ruleset.RuleSet{}, nil, err
	}

	eventBytes, err := os.ReadFile(eventsPath)
	if err != nil {
		return ruleset.RuleSet{}, nil, fmt.Errorf("reading %s: %w", eventsPath, err)
	}
	events, err := event.Load(eventBytes)
	if err != nil {
		return ruleset.RuleSet{}, nil, err
	}

	return policy, events, nil
}

// attributionEntry renders one [event_index, rule_index|"inconsistent"|
// "external"] output element (spec.md §6).
type attributionEntry struct {
	index int
	value attribution.Attribution
}

func (e attributionEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.index, e.value})
}

func writeAttributions(w *os.File, results []attribution.Attribution) error {
	out := make([]attributionEntry, len(results))
	for i, a := range results {
		out[i] = attributionEntry{index: i, value: a}
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	slog.Debug("attribution complete", "events", len(results))
	return nil
}

// writeAttributionSets is writeAttributions for more than one input
// pair: one attribution array per document, in input order.
func writeAttributionSets(w *os.File, resultSets [][]attribution.Attribution) error {
	out := make([][]attributionEntry, len(resultSets))
	for i, results := range resultSets {
		entries := make([]attributionEntry, len(results))
		for j, a := range results {
			entries[j] = attributionEntry{index: j, value: a}
		}
		out[i] = entries
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	slog.Debug("attribution complete", "documents", len(resultSets))
	return nil
}
