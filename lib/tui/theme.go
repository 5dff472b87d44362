// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette and visual properties for atrium's
// terminal UI. All colors use lipgloss ANSI 256-color codes for broad
// terminal compatibility.
//
// The fields cover both universal chrome (text, selection, borders)
// and portal semantics (roles, folder headers, outcome banners) that
// recur across views.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Role colors.
	RoleAdmin    lipgloss.Color
	RoleEmployee lipgloss.Color

	// Accent is the focus color: active pane borders, scrollbar
	// thumbs, the selected tab.
	Accent lipgloss.Color

	// Outcome banners.
	ErrorText   lipgloss.Color
	SuccessText lipgloss.Color

	// Folder group headers in the file listing.
	FolderHeader lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Search and filter match highlighting.
	SearchHighlightBackground lipgloss.Color

	// Modal boxes.
	ModalForeground lipgloss.Color
	ModalBackground lipgloss.Color
}

// RoleColor returns the color for a role string. Unknown roles get
// FaintText.
func (theme Theme) RoleColor(role string) lipgloss.Color {
	switch role {
	case "admin":
		return theme.RoleAdmin
	case "employee":
		return theme.RoleEmployee
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme. Designed for
// 256-color terminals with a dark background (the common case for
// development environments and tmux sessions).
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	RoleAdmin:    lipgloss.Color("208"), // orange: privileged
	RoleEmployee: lipgloss.Color("114"), // green: standard

	Accent: lipgloss.Color("75"), // blue

	ErrorText:   lipgloss.Color("196"), // bright red
	SuccessText: lipgloss.Color("114"), // green

	FolderHeader: lipgloss.Color("141"), // light purple

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	SearchHighlightBackground: lipgloss.Color("58"), // dark amber

	ModalForeground: lipgloss.Color("252"),
	ModalBackground: lipgloss.Color("237"), // slightly lighter than terminal background
}
