// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package portalui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atriumworks/atrium/lib/portal"
	"github.com/atriumworks/atrium/lib/session"
	"github.com/atriumworks/atrium/lib/tui"
)

// LogsModel is the admin view over the server audit log: a scrollable
// viewport of entries in the order the server returns them.
type LogsModel struct {
	client  *portal.Client
	session *session.Controller
	theme   tui.Theme
	keys    KeyMap

	width  int
	height int

	loading   bool
	loadError string
	entries   []portal.LogEntry
	viewport  viewport.Model
}

// NewLogsModel creates the logs view.
func NewLogsModel(client *portal.Client, controller *session.Controller, theme tui.Theme, keys KeyMap) LogsModel {
	return LogsModel{
		client:   client,
		session:  controller,
		theme:    theme,
		keys:     keys,
		viewport: viewport.New(0, 0),
	}
}

// SetSize updates the view dimensions.
func (model *LogsModel) SetSize(width, height int) {
	model.width = width
	model.height = height
	model.viewport.Width = width
	model.viewport.Height = model.visibleHeight()
	model.refreshContent()
}

// Activate dispatches an audit log fetch.
func (model *LogsModel) Activate() tea.Cmd {
	model.loading = true
	return model.fetchCmd()
}

func (model LogsModel) fetchCmd() tea.Cmd {
	client := model.client
	token := model.session.Token()
	return func() tea.Msg {
		entries, err := client.ListLogs(context.Background(), token)
		return logsLoadedMsg{entries: entries, err: err}
	}
}

// Update handles messages routed to the logs view.
func (model LogsModel) Update(message tea.Msg) (LogsModel, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		if key.Matches(message, model.keys.Refresh) {
			model.loading = true
			return model, model.fetchCmd()
		}
		var cmd tea.Cmd
		model.viewport, cmd = model.viewport.Update(message)
		return model, cmd

	case logsLoadedMsg:
		model.loading = false
		if message.err != nil {
			model.loadError = message.err.Error()
			model.entries = nil
		} else {
			model.loadError = ""
			model.entries = message.entries
		}
		model.refreshContent()
		return model, nil
	}

	return model, nil
}

// refreshContent rebuilds the viewport content from the entries.
func (model *LogsModel) refreshContent() {
	timeStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	actorStyle := lipgloss.NewStyle().Foreground(model.theme.Accent)
	actionStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.NormalText)
	detailStyle := lipgloss.NewStyle().Foreground(model.theme.NormalText)

	var lines []string
	for _, entry := range model.entries {
		lines = append(lines, fmt.Sprintf("%s  %s  %s  %s",
			timeStyle.Render(entry.Timestamp),
			actorStyle.Render(entry.ActorEmail),
			actionStyle.Render(entry.Action),
			detailStyle.Render(entry.Details),
		))
	}
	model.viewport.SetContent(strings.Join(lines, "\n"))
}

func (model LogsModel) visibleHeight() int {
	height := model.height - 2
	if height < 1 {
		height = 1
	}
	return height
}

// View renders the logs view.
func (model LogsModel) View() string {
	faintStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	errorStyle := lipgloss.NewStyle().Foreground(model.theme.ErrorText)
	helpStyle := lipgloss.NewStyle().Foreground(model.theme.HelpText)

	var body string
	switch {
	case model.loading:
		body = padListing([]string{faintStyle.Render("Loading audit log…")}, model.visibleHeight())
	case model.loadError != "":
		body = padListing([]string{
			errorStyle.Render("Failed to load audit log: " + model.loadError),
			faintStyle.Render("Press r to retry"),
		}, model.visibleHeight())
	case len(model.entries) == 0:
		body = padListing([]string{faintStyle.Render("No audit entries")}, model.visibleHeight())
	default:
		body = model.viewport.View()
	}

	return body + "\n" + helpStyle.Render("j/k scroll  r refresh")
}
