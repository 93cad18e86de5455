// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.OracleTimeout != "30s" {
		t.Errorf("expected oracle_timeout=30s, got %s", cfg.OracleTimeout)
	}
	if cfg.WorkerConcurrency != 1 {
		t.Errorf("expected worker_concurrency=1, got %d", cfg.WorkerConcurrency)
	}
	if cfg.Rematch {
		t.Error("expected rematch=false by default")
	}
}

func TestLoad_WithoutEnvReturnsDefault(t *testing.T) {
	origConfig := os.Getenv(envVar)
	defer os.Setenv(envVar, origConfig)
	os.Unsetenv(envVar)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load() with no env var = %+v, want %+v", cfg, Default())
	}
}

func TestLoad_WithEnv(t *testing.T) {
	origConfig := os.Getenv(envVar)
	defer os.Setenv(envVar, origConfig)

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sbcoverage.jsonc")

	configContent := `{
		// cache under the test's temp dir
		"cache_dir": "` + tmpDir + `",
		"worker_concurrency": 4,
		"rematch": true,
	}`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}

	os.Setenv(envVar, configPath)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.CacheDir != tmpDir {
		t.Errorf("expected cache_dir=%s, got %s", tmpDir, cfg.CacheDir)
	}
	if cfg.WorkerConcurrency != 4 {
		t.Errorf("expected worker_concurrency=4, got %d", cfg.WorkerConcurrency)
	}
	if !cfg.Rematch {
		t.Error("expected rematch=true")
	}
	// OracleTimeout was not set in the file; Default()'s value survives.
	if cfg.OracleTimeout != "30s" {
		t.Errorf("expected oracle_timeout to keep its default, got %s", cfg.OracleTimeout)
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.jsonc"))
	if err == nil {
		t.Fatal("expected error for missing config file, got nil")
	}
}

func TestLoadFile_ClampsWorkerConcurrency(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sbcoverage.jsonc")
	if err := os.WriteFile(configPath, []byte(`{"worker_concurrency": 0}`), 0o644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.WorkerConcurrency != 1 {
		t.Errorf("expected worker_concurrency clamped to 1, got %d", cfg.WorkerConcurrency)
	}
}

func TestTimeout(t *testing.T) {
	cfg := Default()
	d, err := cfg.Timeout()
	if err != nil {
		t.Fatalf("Timeout() error = %v", err)
	}
	if d != 30*time.Second {
		t.Errorf("Timeout() = %v, want 30s", d)
	}

	cfg.OracleTimeout = ""
	d, err = cfg.Timeout()
	if err != nil || d != 0 {
		t.Errorf("Timeout() with empty string = %v, %v, want 0, nil", d, err)
	}

	cfg.OracleTimeout = "not-a-duration"
	if _, err := cfg.Timeout(); err == nil {
		t.Fatal("expected error for invalid oracle_timeout, got nil")
	}
}
