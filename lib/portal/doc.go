// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

// Package portal implements the HTTP client for the company portal API.
//
// A [Client] holds the server base URL and HTTP transport. All
// operations take a context and, except for Login and Register, a
// bearer token held in a secret.Buffer. The server is the source of
// truth for everything: token validity, role authority, file listing
// order, and search semantics. The client never caches and never
// patches server data locally.
//
// Server failures arrive as *[APIError] carrying the HTTP status code
// and the server's {"detail": ...} message, so callers can distinguish
// an expired token (401) from a forbidden action (403) with errors.As.
package portal
