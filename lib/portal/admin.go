// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/atriumworks/atrium/lib/secret"
)

// ListUsers returns all accounts. Admin-only.
func (c *Client) ListUsers(ctx context.Context, token *secret.Buffer) ([]UserProfile, error) {
	if token == nil {
		return nil, fmt.Errorf("portal: token is required")
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/api/admin/users", token, nil)
	if err != nil {
		return nil, fmt.Errorf("portal: listing users failed: %w", err)
	}

	var users []UserProfile
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("portal: failed to parse user listing: %w", err)
	}
	return users, nil
}

// CreateUser creates an account with an explicit role. Admin-only.
func (c *Client) CreateUser(ctx context.Context, token *secret.Buffer, request CreateUserRequest) (*UserProfile, error) {
	if token == nil {
		return nil, fmt.Errorf("portal: token is required")
	}
	if request.Email == "" {
		return nil, fmt.Errorf("portal: email is required")
	}
	if request.Password == "" {
		return nil, fmt.Errorf("portal: password is required")
	}
	if request.Role != RoleAdmin && request.Role != RoleEmployee {
		return nil, fmt.Errorf("portal: invalid role %q", request.Role)
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/api/admin/users", token, request)
	if err != nil {
		return nil, fmt.Errorf("portal: creating user failed: %w", err)
	}

	var profile UserProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("portal: failed to parse create user response: %w", err)
	}

	c.logger.Info("created portal account", "email", profile.Email, "role", profile.Role)

	return &profile, nil
}

// DeleteUser removes an account. Admin-only. The server rejects deleting
// the calling account's own user.
func (c *Client) DeleteUser(ctx context.Context, token *secret.Buffer, userID int64) error {
	if token == nil {
		return fmt.Errorf("portal: token is required")
	}

	path := "/api/admin/users/" + strconv.FormatInt(userID, 10)
	if _, err := c.doRequest(ctx, http.MethodDelete, path, token, nil); err != nil {
		return fmt.Errorf("portal: deleting user %d failed: %w", userID, err)
	}
	return nil
}

// ListLogs returns the audit log, newest first as the server orders it.
// Admin-only.
func (c *Client) ListLogs(ctx context.Context, token *secret.Buffer) ([]LogEntry, error) {
	if token == nil {
		return nil, fmt.Errorf("portal: token is required")
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/api/admin/logs", token, nil)
	if err != nil {
		return nil, fmt.Errorf("portal: listing audit log failed: %w", err)
	}

	var entries []LogEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("portal: failed to parse audit log: %w", err)
	}
	return entries, nil
}
