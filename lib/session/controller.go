// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atriumworks/atrium/lib/portal"
	"github.com/atriumworks/atrium/lib/secret"
)

// Controller owns the in-memory authentication state: the bearer token
// and the profile of the account it belongs to. The two are held and
// dropped together, so there is never a token without an identity or an
// identity without a token.
//
// Restore fails closed: any failure to validate a stored token clears
// both the file and memory before returning. A doubtful session is
// treated as no session.
type Controller struct {
	client *portal.Client
	server string
	path   string
	logger *slog.Logger

	token   *secret.Buffer
	profile *portal.UserProfile
}

// ControllerConfig holds configuration for creating a Controller.
type ControllerConfig struct {
	// Client talks to the portal server. Required.
	Client *portal.Client
	// ServerURL is recorded in the session file so a stored token is
	// only replayed against the server that issued it. Required.
	ServerURL string
	// SessionPath overrides the session file location. If empty, the
	// well-known path from FilePath is used.
	SessionPath string
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// NewController creates a Controller in the logged-out state.
func NewController(config ControllerConfig) (*Controller, error) {
	if config.Client == nil {
		return nil, fmt.Errorf("session: Client is required")
	}
	if config.ServerURL == "" {
		return nil, fmt.Errorf("session: ServerURL is required")
	}

	path := config.SessionPath
	if path == "" {
		path = FilePath()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Controller{
		client: config.Client,
		server: config.ServerURL,
		path:   path,
		logger: logger,
	}, nil
}

// Authenticated reports whether the controller holds a validated session.
func (c *Controller) Authenticated() bool {
	return c.token != nil && c.profile != nil
}

// Token returns the current bearer token, or nil when logged out. The
// controller retains ownership; callers must not close it.
func (c *Controller) Token() *secret.Buffer {
	return c.token
}

// Profile returns the current account profile, or nil when logged out.
func (c *Controller) Profile() *portal.UserProfile {
	return c.profile
}

// Restore loads the stored session file and validates its token against
// the server. Returns the profile on success. Returns (nil, nil) when no
// session file exists. Any other failure — unreadable file, server for a
// different URL, dead token, unreachable server — clears the stored
// session and returns the error with the controller logged out.
func (c *Controller) Restore(ctx context.Context) (*portal.UserProfile, error) {
	stored, err := LoadFrom(c.path)
	if err != nil {
		c.logger.Debug("no restorable session", "error", err)
		c.drop()
		if clearErr := ClearAt(c.path); clearErr != nil {
			c.logger.Warn("failed to clear session file", "error", clearErr)
		}
		return nil, nil
	}

	if stored.Server != c.server {
		c.logger.Warn("stored session is for a different server, discarding",
			"stored", stored.Server, "configured", c.server)
		c.drop()
		if clearErr := ClearAt(c.path); clearErr != nil {
			c.logger.Warn("failed to clear session file", "error", clearErr)
		}
		return nil, nil
	}

	token, err := secret.NewFromString(stored.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("session: protecting restored token: %w", err)
	}

	profile, err := c.client.Me(ctx, token)
	if err != nil {
		token.Close()
		c.drop()
		if clearErr := ClearAt(c.path); clearErr != nil {
			c.logger.Warn("failed to clear session file", "error", clearErr)
		}
		return nil, fmt.Errorf("session: stored token rejected: %w", err)
	}

	c.token = token
	c.profile = profile
	c.logger.Info("restored portal session", "email", profile.Email, "role", profile.Role)
	return profile, nil
}

// Login authenticates with credentials, validates the resulting token,
// and persists the session. The password Buffer is read but not closed;
// the caller retains ownership. Replaces any existing session.
func (c *Controller) Login(ctx context.Context, email string, password *secret.Buffer) (*portal.UserProfile, error) {
	token, err := c.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	profile, err := c.client.Me(ctx, token)
	if err != nil {
		token.Close()
		return nil, fmt.Errorf("session: validating new token: %w", err)
	}

	stored := &StoredSession{
		Email:       profile.Email,
		AccessToken: token.String(),
		Server:      c.server,
	}
	if err := SaveTo(stored, c.path); err != nil {
		// The session still works for this process; persistence failed.
		c.logger.Warn("failed to persist session", "error", err)
	}

	c.drop()
	c.token = token
	c.profile = profile
	return profile, nil
}

// Logout clears the stored session file and the in-memory state. Safe to
// call when already logged out.
func (c *Controller) Logout() error {
	c.drop()
	return ClearAt(c.path)
}

// Expire drops the in-memory state and the stored file after the server
// rejected the token mid-session. Unlike Logout it preserves no error
// context; callers invoke it when they see a 401.
func (c *Controller) Expire() {
	c.drop()
	if err := ClearAt(c.path); err != nil {
		c.logger.Warn("failed to clear session file", "error", err)
	}
}

// Close releases the in-memory token without touching the session file.
// Call on process exit so the persisted session survives for next time.
func (c *Controller) Close() {
	c.drop()
}

func (c *Controller) drop() {
	if c.token != nil {
		c.token.Close()
		c.token = nil
	}
	c.profile = nil
}
