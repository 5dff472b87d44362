// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package portalui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atriumworks/atrium/lib/portal"
)

// sessionRestoredMsg is sent when the startup token validation
// completes. profile is nil when there was no stored session or the
// stored token was rejected; err carries the rejection reason for the
// login form's notice line.
type sessionRestoredMsg struct {
	profile *portal.UserProfile
	err     error
}

// loginResultMsg is sent when an asynchronous login completes.
type loginResultMsg struct {
	profile *portal.UserProfile
	err     error
}

// registerResultMsg is sent when account creation completes. On
// success the user is returned to the login form with a notice; the
// portal does not auto-login new accounts.
type registerResultMsg struct {
	profile *portal.UserProfile
	err     error
}

// searchDebounceMsg fires when a search debounce timer expires. The
// generation identifies which keystroke armed the timer; only the
// newest generation triggers a fetch.
type searchDebounceMsg struct {
	generation int
}

// filesLoadedMsg is sent when a file listing fetch completes. query is
// the search term the fetch was dispatched with, so results that
// arrive after the query has moved on can be discarded.
type filesLoadedMsg struct {
	query   string
	records []portal.FileRecord
	err     error
}

// uploadResultMsg is sent when a file upload completes.
type uploadResultMsg struct {
	record *portal.FileRecord
	err    error
}

// downloadResultMsg is sent when a file download completes. digest is
// the BLAKE3 hash of the written file, shown in the status bar so the
// user can verify what landed on disk.
type downloadResultMsg struct {
	filename string
	path     string
	digest   string
	err      error
}

// fileDeletedMsg is sent when a file deletion completes.
type fileDeletedMsg struct {
	err error
}

// usersLoadedMsg is sent when the admin user listing fetch completes.
type usersLoadedMsg struct {
	users []portal.UserProfile
	err   error
}

// userCreatedMsg is sent when an admin account creation completes.
type userCreatedMsg struct {
	profile *portal.UserProfile
	err     error
}

// userDeletedMsg is sent when an account deletion completes.
type userDeletedMsg struct {
	err error
}

// logsLoadedMsg is sent when the audit log fetch completes.
type logsLoadedMsg struct {
	entries []portal.LogEntry
	err     error
}

// statusFadeMsg clears the status bar notice after a delay.
type statusFadeMsg struct{}

// statusFadeDelay is how long status notices stay visible.
const statusFadeDelay = 4 * time.Second

// fadeStatus schedules the status bar notice to clear.
func fadeStatus() tea.Cmd {
	return tea.Tick(statusFadeDelay, func(time.Time) tea.Msg {
		return statusFadeMsg{}
	})
}
