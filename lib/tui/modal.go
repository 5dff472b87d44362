// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Modal chrome overhead: 2 columns border + 2 columns padding = 4
// columns horizontal; 2 lines border + 1 title + 1 footer = 4 lines
// vertical. The inner area gets the remainder.
const (
	modalChromeWidth = 4
	// Margin between the modal edge and the screen edge, so the user
	// can see the underlying view isn't gone. Collapses to 0 on very
	// small screens.
	modalMargin = 2
)

// RenderModal assembles a centered modal overlay: a rounded border
// around a bold title line, the given body lines, and a faint footer
// line with key hints. The modal width tracks the widest line, clamped
// to the screen minus a margin. Returns the rendered lines and the
// anchor position (top-left corner in screen coordinates) for splicing
// with SpliceOverlay.
func RenderModal(theme Theme, title string, bodyLines []string, footer string, screenWidth, screenHeight int) ([]string, int, int) {
	maxWidth := screenWidth - modalMargin*2 - modalChromeWidth
	if maxWidth < 10 {
		maxWidth = screenWidth - modalChromeWidth
	}

	innerWidth := ansi.StringWidth(title)
	if footerWidth := ansi.StringWidth(footer); footerWidth > innerWidth {
		innerWidth = footerWidth
	}
	for _, line := range bodyLines {
		if lineWidth := ansi.StringWidth(line); lineWidth > innerWidth {
			innerWidth = lineWidth
		}
	}
	if innerWidth > maxWidth {
		innerWidth = maxWidth
	}

	bgStyle := lipgloss.NewStyle().
		Background(theme.ModalBackground)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.HeaderForeground).
		Background(theme.ModalBackground)

	footerStyle := lipgloss.NewStyle().
		Foreground(theme.FaintText).
		Background(theme.ModalBackground)

	pad := func(styled string) string {
		width := ansi.StringWidth(styled)
		if width < innerWidth {
			return styled + bgStyle.Render(strings.Repeat(" ", innerWidth-width))
		}
		return styled
	}

	var inner []string
	inner = append(inner, pad(titleStyle.Render(ansi.Truncate(title, innerWidth, "…"))))
	inner = append(inner, pad(""))
	for _, line := range bodyLines {
		inner = append(inner, pad(ansi.Truncate(line, innerWidth, "…")))
	}
	inner = append(inner, pad(""))
	inner = append(inner, pad(footerStyle.Render(ansi.Truncate(footer, innerWidth, "…"))))

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		Background(theme.ModalBackground)

	rendered := borderStyle.Render(strings.Join(inner, "\n"))

	resultLines := strings.Split(rendered, "\n")
	renderedWidth := 0
	if len(resultLines) > 0 {
		renderedWidth = ansi.StringWidth(resultLines[0])
	}

	anchorX := (screenWidth - renderedWidth) / 2
	anchorY := (screenHeight - len(resultLines)) / 2
	if anchorX < 0 {
		anchorX = 0
	}
	if anchorY < 0 {
		anchorY = 0
	}

	return resultLines, anchorX, anchorY
}
