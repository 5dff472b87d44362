// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TextField is a single-line text editor with cursor tracking. It is
// the building block for the login form, the search box, and the modal
// forms. The owner routes key messages to Update while the field is
// focused and renders it with Render.
type TextField struct {
	// Label is shown left of the input area (e.g., "Email").
	Label string
	// Masked replaces every rune with '•' when rendering. Used for
	// password fields; the underlying value is unaffected.
	Masked bool

	runes  []rune
	cursor int
}

// NewTextField creates an empty TextField with the given label.
func NewTextField(label string) TextField {
	return TextField{Label: label}
}

// Value returns the current text content.
func (field TextField) Value() string {
	return string(field.runes)
}

// SetValue replaces the content and moves the cursor to the end.
func (field *TextField) SetValue(value string) {
	field.runes = []rune(value)
	field.cursor = len(field.runes)
}

// Clear empties the field.
func (field *TextField) Clear() {
	field.runes = nil
	field.cursor = 0
}

// Update processes a key message. Returns true if the message changed
// the field's value, so owners can react to edits (the search box uses
// this to restart its debounce timer).
func (field *TextField) Update(message tea.KeyMsg) bool {
	switch message.Type {
	case tea.KeyRunes, tea.KeySpace:
		for _, character := range message.Runes {
			field.insertRune(character)
		}
		return len(message.Runes) > 0

	case tea.KeyBackspace:
		if field.cursor > 0 {
			field.runes = append(field.runes[:field.cursor-1], field.runes[field.cursor:]...)
			field.cursor--
			return true
		}

	case tea.KeyDelete:
		if field.cursor < len(field.runes) {
			field.runes = append(field.runes[:field.cursor], field.runes[field.cursor+1:]...)
			return true
		}

	case tea.KeyCtrlU:
		if len(field.runes) > 0 {
			field.Clear()
			return true
		}

	case tea.KeyLeft:
		if field.cursor > 0 {
			field.cursor--
		}

	case tea.KeyRight:
		if field.cursor < len(field.runes) {
			field.cursor++
		}

	case tea.KeyHome, tea.KeyCtrlA:
		field.cursor = 0

	case tea.KeyEnd, tea.KeyCtrlE:
		field.cursor = len(field.runes)
	}
	return false
}

func (field *TextField) insertRune(character rune) {
	newRunes := make([]rune, len(field.runes)+1)
	copy(newRunes, field.runes[:field.cursor])
	newRunes[field.cursor] = character
	copy(newRunes[field.cursor+1:], field.runes[field.cursor:])
	field.runes = newRunes
	field.cursor++
}

// display returns the runes as shown, applying masking.
func (field TextField) display() []rune {
	if !field.Masked {
		return field.runes
	}
	masked := make([]rune, len(field.runes))
	for index := range masked {
		masked[index] = '•'
	}
	return masked
}

// Render produces the field as a single styled line: label, then the
// value with a block cursor when focused. contentWidth bounds the
// visible value area; long values scroll so the cursor stays visible.
func (field TextField) Render(theme Theme, contentWidth int, focused bool) string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.FaintText)
	textStyle := lipgloss.NewStyle().Foreground(theme.NormalText)
	cursorStyle := lipgloss.NewStyle().Reverse(true)

	label := ""
	if field.Label != "" {
		label = labelStyle.Render(field.Label + ": ")
	}

	shown := field.display()
	cursor := field.cursor

	// Scroll so the cursor is always within the visible window. The
	// cursor cell itself needs a column, hence the -1.
	if contentWidth > 0 && cursor > contentWidth-1 {
		start := cursor - (contentWidth - 1)
		shown = shown[start:]
		cursor -= start
	}
	if contentWidth > 0 && len(shown) > contentWidth {
		shown = shown[:contentWidth]
	}

	if !focused {
		return label + textStyle.Render(string(shown))
	}

	if cursor >= len(shown) {
		return label + textStyle.Render(string(shown)) + cursorStyle.Render(" ")
	}
	before := textStyle.Render(string(shown[:cursor]))
	atCursor := cursorStyle.Render(string(shown[cursor : cursor+1]))
	after := textStyle.Render(string(shown[cursor+1:]))
	return label + before + atCursor + after
}
