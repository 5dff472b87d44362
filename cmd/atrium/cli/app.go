// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"
	"net/http"

	"github.com/atriumworks/atrium/lib/config"
	"github.com/atriumworks/atrium/lib/portal"
	"github.com/atriumworks/atrium/lib/session"
)

// App bundles the shared state every command needs: the loaded
// configuration, a portal client, and the session controller that
// owns the access token.
type App struct {
	Config  *config.Config
	Client  *portal.Client
	Session *session.Controller
	Logger  *slog.Logger
}

// AppOptions carries the global flags into App construction.
type AppOptions struct {
	// ConfigPath overrides ATRIUM_CONFIG. Optional.
	ConfigPath string
	// ServerURL overrides the configured server URL. Optional, but
	// either the config file or this flag must name a server.
	ServerURL string
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// NewApp loads configuration and wires the client and session
// controller. The controller starts logged out; callers that need a
// live session call Session.Restore themselves so they can choose
// how to report a missing or rejected session.
func NewApp(options AppOptions) (*App, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var cfg *config.Config
	var err error
	if options.ConfigPath != "" {
		cfg, err = config.LoadFile(options.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		// --server alone is enough to run against; the rest of the
		// config keeps its defaults.
		if options.ServerURL == "" {
			return nil, Validation("loading config: %w", err)
		}
		cfg = config.Default()
	}

	serverURL := cfg.Server.URL
	if options.ServerURL != "" {
		serverURL = options.ServerURL
	}
	if serverURL == "" {
		return nil, Validation("no server URL: set server.url in the config file or pass --server")
	}

	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return nil, Validation("%w", err)
	}

	client, err := portal.NewClient(portal.ClientConfig{
		ServerURL:  serverURL,
		HTTPClient: &http.Client{Timeout: timeout},
		Logger:     logger,
	})
	if err != nil {
		return nil, Internal("create portal client: %w", err)
	}

	controller, err := session.NewController(session.ControllerConfig{
		Client:    client,
		ServerURL: serverURL,
		Logger:    logger,
	})
	if err != nil {
		return nil, Internal("create session controller: %w", err)
	}

	return &App{
		Config:  cfg,
		Client:  client,
		Session: controller,
		Logger:  logger,
	}, nil
}

// Close releases the app's resources: the in-memory token (the
// session file survives) and idle HTTP connections.
func (a *App) Close() {
	a.Session.Close()
	a.Client.CloseIdleConnections()
}
