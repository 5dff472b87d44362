// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package portalui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atriumworks/atrium/lib/portal"
	"github.com/atriumworks/atrium/lib/secret"
	"github.com/atriumworks/atrium/lib/session"
	"github.com/atriumworks/atrium/lib/tui"
)

// Mode is the top-level view state. There is no authenticated mode
// without a validated profile, and no way back to the dashboard after
// the session drops except a fresh login.
type Mode int

const (
	// ModeLoading: a stored token is being validated at startup.
	ModeLoading Mode = iota
	// ModeLogin: logged out, showing the sign-in form.
	ModeLogin
	// ModeRegister: logged out, showing the registration form.
	ModeRegister
	// ModeDashboard: authenticated, showing the portal tabs.
	ModeDashboard
)

// Tab identifies a dashboard tab. Users and Logs exist only for admin
// accounts; the tab bar omits them for employees and the key bindings
// fall through.
type Tab int

const (
	TabFiles Tab = iota
	TabUsers
	TabLogs
)

// Config holds the dependencies for creating a Model.
type Config struct {
	// Client talks to the portal server. Required.
	Client *portal.Client
	// Session owns token and profile state. Required.
	Session *session.Controller
	// DownloadsDir is where downloaded files are written.
	DownloadsDir string
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Model is the top-level bubbletea model for the portal client.
type Model struct {
	client  *portal.Client
	session *session.Controller
	theme   tui.Theme
	keys    KeyMap
	logger  *slog.Logger

	width  int
	height int
	ready  bool

	mode      Mode
	activeTab Tab

	login    LoginForm
	register RegisterForm

	files FilesModel
	users UsersModel
	logs  LogsModel
}

// NewModel creates a Model in the loading mode. Init kicks off the
// stored-session validation.
func NewModel(config Config) Model {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	theme := tui.DefaultTheme
	keys := DefaultKeyMap

	return Model{
		client:  config.Client,
		session: config.Session,
		theme:   theme,
		keys:    keys,
		logger:  logger,
		mode:    ModeLoading,
		login:   NewLoginForm(),
		files:   NewFilesModel(config.Client, config.Session, config.DownloadsDir, theme, keys),
		users:   NewUsersModel(config.Client, config.Session, theme, keys),
		logs:    NewLogsModel(config.Client, config.Session, theme, keys),
	}
}

// Init implements tea.Model. Starts stored-session validation.
func (model Model) Init() tea.Cmd {
	controller := model.session
	return func() tea.Msg {
		profile, err := controller.Restore(context.Background())
		return sessionRestoredMsg{profile: profile, err: err}
	}
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		bodyHeight := message.Height - 2
		if bodyHeight < 1 {
			bodyHeight = 1
		}
		model.files.SetSize(message.Width, bodyHeight)
		model.users.SetSize(message.Width, bodyHeight)
		model.logs.SetSize(message.Width, bodyHeight)
		return model, nil

	case sessionRestoredMsg:
		if message.profile != nil {
			return model.enterDashboard()
		}
		model.mode = ModeLogin
		model.login = NewLoginForm()
		if message.err != nil {
			model.login.Notice = "Stored session rejected. Sign in again."
			model.login.NoticeIsError = true
		}
		return model, nil

	case loginResultMsg:
		model.login.Submitting = false
		if message.err != nil {
			model.login.Notice = loginFailureNotice(message.err)
			model.login.NoticeIsError = true
			return model, nil
		}
		return model.enterDashboard()

	case registerResultMsg:
		model.register.Submitting = false
		if message.err != nil {
			model.register.Notice = message.err.Error()
			model.register.NoticeIsError = true
			return model, nil
		}
		// Registration never logs in; hand the email to the login form.
		model.mode = ModeLogin
		model.login = NewLoginForm()
		model.login.Email.SetValue(message.profile.Email)
		model.login.Notice = fmt.Sprintf("Account created for %s. Sign in.", message.profile.Email)
		return model, nil

	case tea.KeyMsg:
		return model.handleKey(message)
	}

	// Everything else is a dashboard data message. A 401 on any of
	// them means the token died mid-session: drop everything.
	if err := messageError(message); err != nil && portal.IsUnauthorized(err) {
		return model.expireSession()
	}
	return model.routeToViews(message)
}

// routeToViews delivers a message to the view models that own it.
func (model Model) routeToViews(message tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch message.(type) {
	case searchDebounceMsg, filesLoadedMsg, uploadResultMsg, downloadResultMsg, fileDeletedMsg:
		model.files, cmd = model.files.Update(message)
		cmds = append(cmds, cmd)
	case usersLoadedMsg, userCreatedMsg, userDeletedMsg:
		model.users, cmd = model.users.Update(message)
		cmds = append(cmds, cmd)
	case logsLoadedMsg:
		model.logs, cmd = model.logs.Update(message)
		cmds = append(cmds, cmd)
	case statusFadeMsg:
		model.files, cmd = model.files.Update(message)
		cmds = append(cmds, cmd)
		model.users, cmd = model.users.Update(message)
		cmds = append(cmds, cmd)
	}

	return model, tea.Batch(cmds...)
}

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always quits, regardless of mode or focus.
	if message.Type == tea.KeyCtrlC {
		return model, tea.Quit
	}

	switch model.mode {
	case ModeLoading:
		return model, nil
	case ModeLogin:
		return model.handleLoginKey(message)
	case ModeRegister:
		return model.handleRegisterKey(message)
	case ModeDashboard:
		return model.handleDashboardKey(message)
	}
	return model, nil
}

func (model Model) handleLoginKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.login.Submitting {
		return model, nil
	}

	switch message.Type {
	case tea.KeyCtrlR:
		model.mode = ModeRegister
		model.register = NewRegisterForm()
		return model, nil

	case tea.KeyTab:
		model.login.CycleFocus()
		return model, nil

	case tea.KeyEnter:
		if err := model.login.Validate(); err != nil {
			model.login.Notice = err.Error()
			model.login.NoticeIsError = true
			return model, nil
		}
		model.login.Notice = ""
		model.login.Submitting = true
		return model, model.loginCmd(model.login.Email.Value(), model.login.Password.Value())
	}

	if message.Type == tea.KeyRunes && string(message.Runes) == "q" && model.login.Email.Value() == "" && model.login.Password.Value() == "" {
		// q quits only from a pristine form; otherwise it's input.
		return model, tea.Quit
	}

	model.login.Update(message)
	return model, nil
}

func (model Model) handleRegisterKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.register.Submitting {
		return model, nil
	}

	switch message.Type {
	case tea.KeyEscape:
		model.mode = ModeLogin
		model.login = NewLoginForm()
		return model, nil

	case tea.KeyTab:
		model.register.CycleFocus()
		return model, nil

	case tea.KeyEnter:
		if err := model.register.Validate(); err != nil {
			model.register.Notice = err.Error()
			model.register.NoticeIsError = true
			return model, nil
		}
		model.register.Notice = ""
		model.register.Submitting = true
		return model, model.registerCmd(portal.RegisterRequest{
			Email:    strings.TrimSpace(model.register.Email.Value()),
			FullName: strings.TrimSpace(model.register.FullName.Value()),
			Password: model.register.Password.Value(),
		})
	}

	model.register.Update(message)
	return model, nil
}

func (model Model) handleDashboardKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	profile := model.session.Profile()
	if profile == nil {
		// No authenticated rendering without an identity.
		return model.expireSession()
	}

	// While a text input or modal is capturing, only the capturing
	// view sees keys.
	if !model.captureActive() {
		switch {
		case key.Matches(message, model.keys.Quit):
			return model, tea.Quit

		case key.Matches(message, model.keys.Logout):
			return model.logout()

		case key.Matches(message, model.keys.TabFiles):
			model.activeTab = TabFiles
			cmd := model.files.Activate()
			return model, cmd

		case key.Matches(message, model.keys.TabUsers):
			if profile.IsAdmin() {
				model.activeTab = TabUsers
				cmd := model.users.Activate()
				return model, cmd
			}
			return model, nil

		case key.Matches(message, model.keys.TabLogs):
			if profile.IsAdmin() {
				model.activeTab = TabLogs
				cmd := model.logs.Activate()
				return model, cmd
			}
			return model, nil
		}
	}

	var cmd tea.Cmd
	switch model.activeTab {
	case TabFiles:
		model.files, cmd = model.files.Update(message)
	case TabUsers:
		model.users, cmd = model.users.Update(message)
	case TabLogs:
		model.logs, cmd = model.logs.Update(message)
	}
	return model, cmd
}

// captureActive reports whether a text input or modal on the active
// tab is consuming keystrokes.
func (model Model) captureActive() bool {
	switch model.activeTab {
	case TabFiles:
		return model.files.searchFocused || model.files.upload != nil || model.files.confirm != nil
	case TabUsers:
		return model.users.filterFocused || model.users.addForm != nil || model.users.confirm != nil
	}
	return false
}

// enterDashboard switches to the dashboard after authentication and
// kicks off the initial files fetch.
func (model Model) enterDashboard() (tea.Model, tea.Cmd) {
	model.mode = ModeDashboard
	model.activeTab = TabFiles
	cmd := model.files.Activate()
	return model, cmd
}

// expireSession tears down a session the server stopped honoring.
func (model Model) expireSession() (tea.Model, tea.Cmd) {
	model.logger.Info("session expired, returning to login")
	model.session.Expire()
	model.mode = ModeLogin
	model.login = NewLoginForm()
	model.login.Notice = "Session expired. Sign in again."
	model.login.NoticeIsError = true
	return model, nil
}

// logout drops the session deliberately.
func (model Model) logout() (tea.Model, tea.Cmd) {
	if err := model.session.Logout(); err != nil {
		model.logger.Warn("logout cleanup failed", "error", err)
	}
	model.mode = ModeLogin
	model.login = NewLoginForm()
	model.login.Notice = "Signed out."
	return model, nil
}

// loginCmd authenticates asynchronously. The password is moved into
// protected memory for the duration of the call.
func (model Model) loginCmd(email, password string) tea.Cmd {
	controller := model.session
	return func() tea.Msg {
		buffer, err := secret.NewFromString(password)
		if err != nil {
			return loginResultMsg{err: fmt.Errorf("protecting password: %w", err)}
		}
		defer buffer.Close()

		profile, err := controller.Login(context.Background(), strings.TrimSpace(email), buffer)
		return loginResultMsg{profile: profile, err: err}
	}
}

// registerCmd creates an account asynchronously.
func (model Model) registerCmd(request portal.RegisterRequest) tea.Cmd {
	client := model.client
	return func() tea.Msg {
		profile, err := client.Register(context.Background(), request)
		return registerResultMsg{profile: profile, err: err}
	}
}

// messageError extracts the error from a dashboard data message, or
// nil for messages that carry none.
func messageError(message tea.Msg) error {
	switch message := message.(type) {
	case filesLoadedMsg:
		return message.err
	case uploadResultMsg:
		return message.err
	case downloadResultMsg:
		return message.err
	case fileDeletedMsg:
		return message.err
	case usersLoadedMsg:
		return message.err
	case userCreatedMsg:
		return message.err
	case userDeletedMsg:
		return message.err
	case logsLoadedMsg:
		return message.err
	}
	return nil
}

// loginFailureNotice maps a login error to the form notice. Bad
// credentials get a friendly message; everything else shows the error.
func loginFailureNotice(err error) string {
	if portal.IsUnauthorized(err) {
		return "Incorrect email or password"
	}
	return err.Error()
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return ""
	}

	faintStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	switch model.mode {
	case ModeLoading:
		return "\n  " + faintStyle.Render("Validating session…")
	case ModeLogin:
		return "\n" + indent(model.login.View(model.theme, model.width))
	case ModeRegister:
		return "\n" + indent(model.register.View(model.theme, model.width))
	}

	var body string
	switch model.activeTab {
	case TabFiles:
		body = model.files.View()
	case TabUsers:
		body = model.users.View()
	case TabLogs:
		body = model.logs.View()
	}

	return model.renderHeader() + "\n" + body
}

// renderHeader renders the tab bar and the identity badge.
func (model Model) renderHeader() string {
	profile := model.session.Profile()

	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.Accent)
	inactiveStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	renderTab := func(tab Tab, label string) string {
		if tab == model.activeTab {
			return activeStyle.Render(label)
		}
		return inactiveStyle.Render(label)
	}

	tabs := []string{renderTab(TabFiles, "1 Files")}
	if profile != nil && profile.IsAdmin() {
		tabs = append(tabs, renderTab(TabUsers, "2 Users"), renderTab(TabLogs, "3 Logs"))
	}

	left := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground).Render("atrium") +
		"  " + strings.Join(tabs, "  ")

	badge := ""
	if profile != nil {
		roleStyle := lipgloss.NewStyle().Foreground(model.theme.RoleColor(string(profile.Role)))
		badge = inactiveStyle.Render(profile.Email+" ") + roleStyle.Render(string(profile.Role))
	}

	gap := model.width - lipgloss.Width(left) - lipgloss.Width(badge)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + badge
}

// indent prefixes every line with two spaces.
func indent(text string) string {
	lines := strings.Split(text, "\n")
	for index := range lines {
		lines[index] = "  " + lines[index]
	}
	return strings.Join(lines, "\n")
}
