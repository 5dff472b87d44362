// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/atriumworks/atrium/lib/secret"
)

// Login exchanges credentials for a bearer token. The password Buffer is
// read but not closed; the caller retains ownership. The returned token is
// held in mmap-backed memory and must be closed by the caller when the
// session ends.
func (c *Client) Login(ctx context.Context, email string, password *secret.Buffer) (*secret.Buffer, error) {
	if email == "" {
		return nil, fmt.Errorf("portal: email is required for login")
	}
	if password == nil {
		return nil, fmt.Errorf("portal: password is required for login")
	}

	// The token endpoint takes form-encoded credentials. The password is
	// converted to string at the encoding boundary; the heap copy is
	// short-lived and exists only during the HTTP call.
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password.String())

	body, err := c.doRequestForm(ctx, http.MethodPost, "/token", form)
	if err != nil {
		return nil, fmt.Errorf("portal: login failed: %w", err)
	}

	var response tokenResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("portal: failed to parse token response: %w", err)
	}
	if response.AccessToken == "" {
		return nil, fmt.Errorf("portal: token response missing access_token")
	}

	tokenBuffer, err := secret.NewFromBytes([]byte(response.AccessToken))
	if err != nil {
		return nil, fmt.Errorf("portal: protecting access token: %w", err)
	}

	c.logger.Info("logged in to portal", "email", email)

	return tokenBuffer, nil
}

// Register creates a new account. Registration is open: no token is
// required, and the server assigns the employee role. The new account is
// not logged in; callers follow up with Login.
func (c *Client) Register(ctx context.Context, request RegisterRequest) (*UserProfile, error) {
	if request.Email == "" {
		return nil, fmt.Errorf("portal: email is required for registration")
	}
	if request.Password == "" {
		return nil, fmt.Errorf("portal: password is required for registration")
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/api/register", nil, request)
	if err != nil {
		return nil, fmt.Errorf("portal: registration failed: %w", err)
	}

	var profile UserProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("portal: failed to parse register response: %w", err)
	}

	c.logger.Info("registered portal account", "email", profile.Email)

	return &profile, nil
}

// Me returns the profile of the account the token belongs to. This is the
// probe used to validate a restored token: a 401 means the token is dead
// and the stored session must be discarded.
func (c *Client) Me(ctx context.Context, token *secret.Buffer) (*UserProfile, error) {
	if token == nil {
		return nil, fmt.Errorf("portal: token is required")
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/api/users/me/", token, nil)
	if err != nil {
		return nil, fmt.Errorf("portal: fetching profile failed: %w", err)
	}

	var profile UserProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("portal: failed to parse profile response: %w", err)
	}
	return &profile, nil
}
