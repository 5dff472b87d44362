// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/atriumworks/atrium/lib/netutil"
	"github.com/atriumworks/atrium/lib/secret"
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// ServerURL is the base URL of the portal server (e.g., "http://localhost:8000").
	ServerURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client talks to the portal server. It holds the server URL and HTTP
// transport and is safe for concurrent use. Tokens are passed per call
// rather than stored, so one Client serves both the anonymous auth
// endpoints and the authenticated session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new portal client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.ServerURL == "" {
		return nil, fmt.Errorf("portal: ServerURL is required")
	}

	// Validate the URL structure. We store the string form (with trailing
	// slash stripped) and build request URLs by direct concatenation. This
	// avoids double-encoding issues with Go's url.URL.String(), which
	// re-encodes Path even when RawPath is set if it doesn't consider
	// RawPath a valid encoding of Path.
	if _, err := url.Parse(config.ServerURL); err != nil {
		return nil, fmt.Errorf("portal: invalid ServerURL %q: %w", config.ServerURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.ServerURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// CloseIdleConnections closes idle HTTP connections in the underlying
// transport's connection pool. Call this after a network disruption to
// force subsequent requests to establish fresh TCP connections instead
// of reusing a poisoned pooled connection.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// doRequest performs a JSON request to the server and returns the response body.
// On 2xx, returns the body. On 4xx/5xx, returns a *APIError.
// token may be nil for unauthenticated endpoints.
// query may be nil for endpoints without query parameters.
func (c *Client) doRequest(ctx context.Context, method, path string, token *secret.Buffer, requestBody any, query ...url.Values) ([]byte, error) {
	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("portal: failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	contentType := ""
	if requestBody != nil {
		contentType = "application/json"
	}
	return c.doRequestRaw(ctx, method, path, token, contentType, bodyReader, query...)
}

// doRequestForm performs a form-encoded request. The login endpoint takes
// its credentials this way rather than as JSON.
func (c *Client) doRequestForm(ctx context.Context, method, path string, form url.Values) ([]byte, error) {
	body := strings.NewReader(form.Encode())
	return c.doRequestRaw(ctx, method, path, nil, "application/x-www-form-urlencoded", body)
}

// doRequestRaw performs an HTTP request with a raw body (for multipart
// upload and file download).
func (c *Client) doRequestRaw(ctx context.Context, method, path string, token *secret.Buffer, contentType string, body io.Reader, query ...url.Values) ([]byte, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 && query[0] != nil {
		requestURL += "?" + query[0].Encode()
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("portal: failed to create request: %w", err)
	}

	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	if token != nil {
		request.Header.Set("Authorization", "Bearer "+token.String())
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("portal: request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		// All portal error responses use the same {"detail": ...} shape.
		raw := netutil.ErrorBody(response.Body)
		var apiErr APIError
		if jsonErr := json.Unmarshal([]byte(raw), &apiErr); jsonErr != nil || apiErr.Detail == "" {
			// Server returned a non-JSON error, likely from a proxy in front of
			// it. Fail loud with the raw body.
			return nil, fmt.Errorf("portal: unexpected %d response from %s %s: %s",
				response.StatusCode, method, path, raw)
		}
		apiErr.StatusCode = response.StatusCode
		return nil, &apiErr
	}

	responseBody, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("portal: failed to read response body: %w", err)
	}
	return responseBody, nil
}
