// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// ConfirmModal is a yes/no dialog rendered as a centered overlay. The
// cursor starts on "No" so a stray enter declines. The owner routes
// keyboard input to it while active and reads Affirmed on enter.
type ConfirmModal struct {
	// Title identifies the action being confirmed (e.g., "Delete file").
	Title string
	// Message describes the consequence (e.g., the filename about to
	// be removed).
	Message string
	// Affirmed is true when the cursor is on "Yes".
	Affirmed bool
}

// NewConfirmModal creates a ConfirmModal with the cursor on "No".
func NewConfirmModal(title, message string) ConfirmModal {
	return ConfirmModal{Title: title, Message: message}
}

// Toggle flips the cursor between "Yes" and "No".
func (modal *ConfirmModal) Toggle() {
	modal.Affirmed = !modal.Affirmed
}

// Render produces the dialog lines and anchor for overlay splicing.
func (modal ConfirmModal) Render(theme Theme, screenWidth, screenHeight int) ([]string, int, int) {
	textStyle := lipgloss.NewStyle().
		Foreground(theme.ModalForeground).
		Background(theme.ModalBackground)

	choiceStyle := lipgloss.NewStyle().
		Foreground(theme.FaintText).
		Background(theme.ModalBackground)

	selectedStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.SelectedForeground).
		Background(theme.SelectedBackground)

	yes := choiceStyle.Render("  Yes  ")
	no := selectedStyle.Render("  No  ")
	if modal.Affirmed {
		yes = selectedStyle.Render("  Yes  ")
		no = choiceStyle.Render("  No  ")
	}

	body := []string{
		textStyle.Render(modal.Message),
		"",
		yes + choiceStyle.Render("   ") + no,
	}

	return RenderModal(theme, modal.Title, body, "←/→ choose  Enter confirm  Esc cancel",
		screenWidth, screenHeight)
}
