// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

// Package portalui implements the interactive terminal client for the
// company portal: login and registration forms, the folder-grouped file
// repository with debounced search, and the admin views for user
// management and the audit log.
//
// The top-level [Model] is a bubbletea model. It owns the session
// lifecycle: it starts in a loading mode while a stored token is
// validated, shows the auth forms when logged out, and switches to the
// dashboard once a profile is known. A 401 from any operation drops the
// whole session and returns to the login form; the client never retries
// with a token the server has rejected.
//
// All data shown is the server's: the dashboard refetches after every
// mutation instead of patching local state.
package portalui
