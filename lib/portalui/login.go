// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package portalui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atriumworks/atrium/lib/tui"
)

// LoginForm holds the email/password fields of the login view. Enter
// submits from either field; tab cycles focus. The owning Model issues
// the login command and delivers the result.
type LoginForm struct {
	Email    tui.TextField
	Password tui.TextField

	focus         int // 0 email, 1 password.
	Notice        string
	NoticeIsError bool
	Submitting    bool
}

// NewLoginForm creates an empty login form focused on the email field.
func NewLoginForm() LoginForm {
	password := tui.NewTextField("Password")
	password.Masked = true
	return LoginForm{
		Email:    tui.NewTextField("Email"),
		Password: password,
	}
}

// CycleFocus moves focus to the next field.
func (form *LoginForm) CycleFocus() {
	form.focus = (form.focus + 1) % 2
}

// Update routes a key message to the focused field. Submission keys
// (enter, tab) are handled by the owner before calling this.
func (form *LoginForm) Update(message tea.KeyMsg) {
	if form.focus == 0 {
		form.Email.Update(message)
	} else {
		form.Password.Update(message)
	}
}

// Validate checks the form is submittable.
func (form *LoginForm) Validate() error {
	if strings.TrimSpace(form.Email.Value()) == "" {
		return fmt.Errorf("email is required")
	}
	if form.Password.Value() == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// View renders the login form.
func (form LoginForm) View(theme tui.Theme, width int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground)
	helpStyle := lipgloss.NewStyle().Foreground(theme.HelpText)

	lines := []string{
		titleStyle.Render("Sign in"),
		"",
		form.Email.Render(theme, fieldWidth(width), form.focus == 0 && !form.Submitting),
		form.Password.Render(theme, fieldWidth(width), form.focus == 1 && !form.Submitting),
		"",
	}

	if form.Submitting {
		lines = append(lines, helpStyle.Render("Signing in…"))
	} else if form.Notice != "" {
		lines = append(lines, renderNotice(theme, form.Notice, form.NoticeIsError))
	}

	lines = append(lines, "", helpStyle.Render("Tab next field  Enter sign in  Ctrl+R register  q quit"))
	return strings.Join(lines, "\n")
}

// RegisterForm holds the fields of the registration view. Registration
// creates an employee account and returns to the login form; it never
// logs the new account in directly.
type RegisterForm struct {
	Email    tui.TextField
	FullName tui.TextField
	Password tui.TextField
	Confirm  tui.TextField

	focus         int // 0 email, 1 full name, 2 password, 3 confirm.
	Notice        string
	NoticeIsError bool
	Submitting    bool
}

// NewRegisterForm creates an empty registration form.
func NewRegisterForm() RegisterForm {
	password := tui.NewTextField("Password")
	password.Masked = true
	confirm := tui.NewTextField("Confirm password")
	confirm.Masked = true
	return RegisterForm{
		Email:    tui.NewTextField("Email"),
		FullName: tui.NewTextField("Full name"),
		Password: password,
		Confirm:  confirm,
	}
}

// CycleFocus moves focus to the next field.
func (form *RegisterForm) CycleFocus() {
	form.focus = (form.focus + 1) % 4
}

// Update routes a key message to the focused field.
func (form *RegisterForm) Update(message tea.KeyMsg) {
	switch form.focus {
	case 0:
		form.Email.Update(message)
	case 1:
		form.FullName.Update(message)
	case 2:
		form.Password.Update(message)
	case 3:
		form.Confirm.Update(message)
	}
}

// Validate checks the form is submittable. Password mismatch is caught
// here so it never reaches the server.
func (form *RegisterForm) Validate() error {
	if strings.TrimSpace(form.Email.Value()) == "" {
		return fmt.Errorf("email is required")
	}
	if strings.TrimSpace(form.FullName.Value()) == "" {
		return fmt.Errorf("full name is required")
	}
	if form.Password.Value() == "" {
		return fmt.Errorf("password is required")
	}
	if form.Password.Value() != form.Confirm.Value() {
		return fmt.Errorf("passwords do not match")
	}
	return nil
}

// View renders the registration form.
func (form RegisterForm) View(theme tui.Theme, width int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground)
	helpStyle := lipgloss.NewStyle().Foreground(theme.HelpText)

	lines := []string{
		titleStyle.Render("Create account"),
		"",
		form.Email.Render(theme, fieldWidth(width), form.focus == 0 && !form.Submitting),
		form.FullName.Render(theme, fieldWidth(width), form.focus == 1 && !form.Submitting),
		form.Password.Render(theme, fieldWidth(width), form.focus == 2 && !form.Submitting),
		form.Confirm.Render(theme, fieldWidth(width), form.focus == 3 && !form.Submitting),
		"",
	}

	if form.Submitting {
		lines = append(lines, helpStyle.Render("Creating account…"))
	} else if form.Notice != "" {
		lines = append(lines, renderNotice(theme, form.Notice, form.NoticeIsError))
	}

	lines = append(lines, "", helpStyle.Render("Tab next field  Enter submit  Esc back to sign in"))
	return strings.Join(lines, "\n")
}

// fieldWidth bounds the visible input area of form fields.
func fieldWidth(width int) int {
	const max = 48
	usable := width - 20
	if usable < 16 {
		usable = 16
	}
	if usable > max {
		usable = max
	}
	return usable
}

// renderNotice renders a status line in error or success coloring.
func renderNotice(theme tui.Theme, notice string, isError bool) string {
	color := theme.SuccessText
	if isError {
		color = theme.ErrorText
	}
	return lipgloss.NewStyle().Foreground(color).Render(notice)
}
