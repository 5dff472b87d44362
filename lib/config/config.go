// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the atrium client.
//
// Configuration is loaded from a single file specified by:
//   - ATRIUM_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. This ensures deterministic,
// auditable configuration with no hidden overrides.
//
// The config file may contain environment-specific sections (development,
// staging, production) that override base values when the environment matches.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Config is the master configuration for the atrium client.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	// Server configures the portal server connection.
	Server ServerConfig `yaml:"server"`

	// Downloads configures where downloaded files are saved.
	Downloads DownloadsConfig `yaml:"downloads"`

	// Per-environment overrides, applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Server    *ServerConfig    `yaml:"server,omitempty"`
	Downloads *DownloadsConfig `yaml:"downloads,omitempty"`
}

// ServerConfig configures the portal server connection.
type ServerConfig struct {
	// URL is the base URL of the portal server
	// (e.g., "https://portal.internal.example.com").
	URL string `yaml:"url"`

	// RequestTimeout is the per-request timeout as a Go duration string.
	// Default: 30s
	RequestTimeout string `yaml:"request_timeout"`
}

// DownloadsConfig configures where downloaded files are saved.
type DownloadsConfig struct {
	// Dir is the directory downloaded files are written to.
	// Default: ${HOME}/Downloads
	Dir string `yaml:"dir"`
}

// Default returns the default configuration. These defaults are the base
// before loading the config file; the server URL has no default and must
// come from the file or the --server flag.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Environment: Development,
		Server: ServerConfig{
			RequestTimeout: "30s",
		},
		Downloads: DownloadsConfig{
			Dir: filepath.Join(homeDir, "Downloads"),
		},
	}
}

// Load loads configuration from the ATRIUM_CONFIG environment variable.
//
// This is the only way to load configuration without an explicit path.
// There are no fallbacks - if ATRIUM_CONFIG is not set, this fails.
func Load() (*Config, error) {
	configPath := os.Getenv("ATRIUM_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("ATRIUM_CONFIG environment variable not set; " +
			"set it to the path of your atrium.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment variables do
// not override config values. The only expansion performed is ${HOME} in
// paths for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

// RequestTimeout parses the configured request timeout.
func (c *Config) RequestTimeout() (time.Duration, error) {
	timeout, err := time.ParseDuration(c.Server.RequestTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid server.request_timeout %q: %w", c.Server.RequestTimeout, err)
	}
	return timeout, nil
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}

	if overrides == nil {
		return
	}

	if overrides.Server != nil {
		if overrides.Server.URL != "" {
			c.Server.URL = overrides.Server.URL
		}
		if overrides.Server.RequestTimeout != "" {
			c.Server.RequestTimeout = overrides.Server.RequestTimeout
		}
	}

	if overrides.Downloads != nil {
		if overrides.Downloads.Dir != "" {
			c.Downloads.Dir = overrides.Downloads.Dir
		}
	}
}

// expandVariables expands ${HOME} in path fields for portability.
func (c *Config) expandVariables() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return
	}
	c.Downloads.Dir = strings.ReplaceAll(c.Downloads.Dir, "${HOME}", homeDir)
}
