// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package portalui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the portal TUI.
type KeyMap struct {
	// List navigation.
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Tab switching. Users and Logs only respond for admin accounts.
	TabFiles key.Binding
	TabUsers key.Binding
	TabLogs  key.Binding

	// Search / filter.
	Search      key.Binding // Focus the search or filter input.
	SearchClear key.Binding // Clear and leave the input.

	// File actions.
	Upload   key.Binding
	Download key.Binding
	Delete   key.Binding // Admin only.
	Refresh  key.Binding

	// User management (admin only).
	AddUser key.Binding

	// Session.
	Logout key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style navigation
// (j/k) alongside standard arrow keys and page up/down.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("C-u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("C-d", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	TabFiles: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "files"),
	),
	TabUsers: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "users"),
	),
	TabLogs: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "logs"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	SearchClear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "clear"),
	),
	Upload: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "upload"),
	),
	Download: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "download"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	AddUser: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add user"),
	),
	Logout: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("C-x", "logout"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
