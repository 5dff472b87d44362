// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "atrium.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
environment: development
server:
  url: http://localhost:8000
  request_timeout: 10s
downloads:
  dir: /tmp/atrium-downloads
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Server.URL != "http://localhost:8000" {
		t.Errorf("Server.URL = %q", cfg.Server.URL)
	}
	if cfg.Downloads.Dir != "/tmp/atrium-downloads" {
		t.Errorf("Downloads.Dir = %q", cfg.Downloads.Dir)
	}

	timeout, err := cfg.RequestTimeout()
	if err != nil {
		t.Fatalf("RequestTimeout failed: %v", err)
	}
	if timeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", timeout)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
environment: production
server:
  url: http://localhost:8000
production:
  server:
    url: https://portal.example.com
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Server.URL != "https://portal.example.com" {
		t.Errorf("Server.URL = %q, want production override", cfg.Server.URL)
	}
	// The base timeout default survives when the override doesn't set it.
	if cfg.Server.RequestTimeout != "30s" {
		t.Errorf("Server.RequestTimeout = %q, want default 30s", cfg.Server.RequestTimeout)
	}
}

func TestOverridesForOtherEnvironmentIgnored(t *testing.T) {
	path := writeConfig(t, `
environment: development
server:
  url: http://localhost:8000
production:
  server:
    url: https://portal.example.com
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Server.URL != "http://localhost:8000" {
		t.Errorf("Server.URL = %q, want base value", cfg.Server.URL)
	}
}

func TestHomeExpansion(t *testing.T) {
	path := writeConfig(t, `
server:
  url: http://localhost:8000
downloads:
  dir: ${HOME}/portal-files
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	want := filepath.Join(homeDir, "portal-files")
	if cfg.Downloads.Dir != want {
		t.Errorf("Downloads.Dir = %q, want %q", cfg.Downloads.Dir, want)
	}
}

func TestLoadWithoutEnvVar(t *testing.T) {
	t.Setenv("ATRIUM_CONFIG", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when ATRIUM_CONFIG is unset")
	}
}
