// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package portalui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/junegunn/fzf/src/util"

	"github.com/atriumworks/atrium/lib/portal"
	"github.com/atriumworks/atrium/lib/session"
	"github.com/atriumworks/atrium/lib/tui"
)

// UserForm is the modal form for an admin creating an account. The
// role row opens a dropdown; everything else is a text field.
type UserForm struct {
	Email    tui.TextField
	FullName tui.TextField
	Password tui.TextField
	Role     portal.Role

	focus      int // 0 email, 1 full name, 2 password, 3 role.
	dropdown   *tui.DropdownOverlay
	Notice     string
	Submitting bool
}

func newUserForm() *UserForm {
	password := tui.NewTextField("Password")
	password.Masked = true
	return &UserForm{
		Email:    tui.NewTextField("Email"),
		FullName: tui.NewTextField("Full name"),
		Password: password,
		Role:     portal.RoleEmployee,
	}
}

// UsersModel is the admin view over portal accounts: a fuzzy-filtered
// user list, account creation, and account deletion.
type UsersModel struct {
	client  *portal.Client
	session *session.Controller
	theme   tui.Theme
	keys    KeyMap

	width  int
	height int

	loading   bool
	loadError string
	users     []portal.UserProfile

	// Quick filter over email and full name. filtered holds indexes
	// into users ordered by match score; highlights maps user ID to
	// matched rune positions in the display string.
	filter        tui.TextField
	filterFocused bool
	filtered      []int
	highlights    map[int64][]int
	slab          *util.Slab

	cursor       int
	scrollOffset int

	addForm       *UserForm
	confirm       *tui.ConfirmModal
	confirmUserID int64

	notice        string
	noticeIsError bool
}

// NewUsersModel creates the users view.
func NewUsersModel(client *portal.Client, controller *session.Controller, theme tui.Theme, keys KeyMap) UsersModel {
	return UsersModel{
		client:  client,
		session: controller,
		theme:   theme,
		keys:    keys,
		filter:  tui.NewTextField("Filter"),
		slab:    tui.NewSlab(),
	}
}

// SetSize updates the view dimensions.
func (model *UsersModel) SetSize(width, height int) {
	model.width = width
	model.height = height
}

// Activate dispatches a user listing fetch.
func (model *UsersModel) Activate() tea.Cmd {
	model.loading = true
	return model.fetchCmd()
}

func (model UsersModel) fetchCmd() tea.Cmd {
	client := model.client
	token := model.session.Token()
	return func() tea.Msg {
		users, err := client.ListUsers(context.Background(), token)
		return usersLoadedMsg{users: users, err: err}
	}
}

// Update handles messages routed to the users view.
func (model UsersModel) Update(message tea.Msg) (UsersModel, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return model.handleKey(message)

	case usersLoadedMsg:
		model.loading = false
		if message.err != nil {
			model.loadError = message.err.Error()
			model.users = nil
			model.filtered = nil
			return model, nil
		}
		model.loadError = ""
		model.users = message.users
		model.applyFilter()
		return model, nil

	case userCreatedMsg:
		if model.addForm != nil {
			model.addForm.Submitting = false
		}
		if message.err != nil {
			if model.addForm != nil {
				model.addForm.Notice = message.err.Error()
			}
			return model, nil
		}
		model.addForm = nil
		model.notice = fmt.Sprintf("Created %s (%s)", message.profile.Email, message.profile.Role)
		model.noticeIsError = false
		model.loading = true
		return model, tea.Batch(model.fetchCmd(), fadeStatus())

	case userDeletedMsg:
		if message.err != nil {
			model.notice = message.err.Error()
			model.noticeIsError = true
			return model, fadeStatus()
		}
		model.notice = "Account deleted"
		model.noticeIsError = false
		model.loading = true
		return model, tea.Batch(model.fetchCmd(), fadeStatus())

	case statusFadeMsg:
		model.notice = ""
		return model, nil
	}

	return model, nil
}

func (model UsersModel) handleKey(message tea.KeyMsg) (UsersModel, tea.Cmd) {
	if model.confirm != nil {
		return model.handleConfirmKey(message)
	}
	if model.addForm != nil {
		return model.handleFormKey(message)
	}
	if model.filterFocused {
		return model.handleFilterKey(message)
	}

	switch {
	case key.Matches(message, model.keys.Search):
		model.filterFocused = true
		return model, nil

	case key.Matches(message, model.keys.AddUser):
		model.addForm = newUserForm()
		return model, nil

	case key.Matches(message, model.keys.Refresh):
		model.loading = true
		return model, model.fetchCmd()

	case key.Matches(message, model.keys.Delete):
		target, ok := model.selectedUser()
		if !ok {
			return model, nil
		}
		// Self-deletion is rejected server-side too; catching it here
		// gives a clearer message than a round trip.
		if current := model.session.Profile(); current != nil && current.ID == target.ID {
			model.notice = "You cannot delete your own account"
			model.noticeIsError = true
			return model, fadeStatus()
		}
		confirm := tui.NewConfirmModal("Delete account", target.Email)
		model.confirm = &confirm
		model.confirmUserID = target.ID
		return model, nil

	case key.Matches(message, model.keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}
		model.clampScroll()
	case key.Matches(message, model.keys.Down):
		if model.cursor < len(model.filtered)-1 {
			model.cursor++
		}
		model.clampScroll()
	case key.Matches(message, model.keys.Home):
		model.cursor = 0
		model.clampScroll()
	case key.Matches(message, model.keys.End):
		model.cursor = len(model.filtered) - 1
		if model.cursor < 0 {
			model.cursor = 0
		}
		model.clampScroll()
	}
	return model, nil
}

func (model UsersModel) handleFilterKey(message tea.KeyMsg) (UsersModel, tea.Cmd) {
	switch message.Type {
	case tea.KeyEscape:
		model.filterFocused = false
		model.filter.Clear()
		model.applyFilter()
		return model, nil
	case tea.KeyEnter:
		model.filterFocused = false
		return model, nil
	}

	if model.filter.Update(message) {
		model.applyFilter()
	}
	return model, nil
}

func (model UsersModel) handleFormKey(message tea.KeyMsg) (UsersModel, tea.Cmd) {
	form := model.addForm
	if form.Submitting {
		return model, nil
	}

	// The role dropdown captures everything while open.
	if form.dropdown != nil {
		switch message.Type {
		case tea.KeyEscape:
			form.dropdown = nil
		case tea.KeyUp:
			form.dropdown.MoveUp()
		case tea.KeyDown:
			form.dropdown.MoveDown()
		case tea.KeyEnter:
			form.Role = portal.Role(form.dropdown.Selected().Value)
			form.dropdown = nil
		}
		return model, nil
	}

	switch message.Type {
	case tea.KeyEscape:
		model.addForm = nil
		return model, nil

	case tea.KeyTab:
		form.focus = (form.focus + 1) % 4
		return model, nil

	case tea.KeyEnter:
		if form.focus == 3 {
			cursor := 0
			if form.Role == portal.RoleAdmin {
				cursor = 1
			}
			form.dropdown = &tui.DropdownOverlay{
				Options: []tui.DropdownOption{
					{Label: "Employee", Value: string(portal.RoleEmployee)},
					{Label: "Admin", Value: string(portal.RoleAdmin)},
				},
				Cursor: cursor,
			}
			return model, nil
		}

		request := portal.CreateUserRequest{
			Email:    strings.TrimSpace(form.Email.Value()),
			FullName: strings.TrimSpace(form.FullName.Value()),
			Password: form.Password.Value(),
			Role:     form.Role,
		}
		if request.Email == "" || request.Password == "" {
			form.Notice = "email and password are required"
			return model, nil
		}
		form.Notice = ""
		form.Submitting = true
		return model, model.createCmd(request)
	}

	switch form.focus {
	case 0:
		form.Email.Update(message)
	case 1:
		form.FullName.Update(message)
	case 2:
		form.Password.Update(message)
	}
	return model, nil
}

func (model UsersModel) handleConfirmKey(message tea.KeyMsg) (UsersModel, tea.Cmd) {
	switch message.Type {
	case tea.KeyEscape:
		model.confirm = nil
		return model, nil
	case tea.KeyLeft, tea.KeyRight, tea.KeyTab:
		model.confirm.Toggle()
		return model, nil
	case tea.KeyEnter:
		affirmed := model.confirm.Affirmed
		userID := model.confirmUserID
		model.confirm = nil
		if !affirmed {
			return model, nil
		}
		return model, model.deleteCmd(userID)
	}
	return model, nil
}

func (model UsersModel) createCmd(request portal.CreateUserRequest) tea.Cmd {
	client := model.client
	token := model.session.Token()
	return func() tea.Msg {
		profile, err := client.CreateUser(context.Background(), token, request)
		return userCreatedMsg{profile: profile, err: err}
	}
}

func (model UsersModel) deleteCmd(userID int64) tea.Cmd {
	client := model.client
	token := model.session.Token()
	return func() tea.Msg {
		return userDeletedMsg{err: client.DeleteUser(context.Background(), token, userID)}
	}
}

// applyFilter recomputes the filtered index list. An empty filter
// shows everyone in server order; otherwise users are fuzzy-matched on
// "email full name" and ordered by score.
func (model *UsersModel) applyFilter() {
	pattern := []rune(model.filter.Value())
	model.highlights = nil
	model.filtered = model.filtered[:0]

	if len(pattern) == 0 {
		for index := range model.users {
			model.filtered = append(model.filtered, index)
		}
		model.cursor = 0
		model.scrollOffset = 0
		return
	}

	model.highlights = make(map[int64][]int)
	scores := make(map[int]int)
	for index, user := range model.users {
		result := tui.FuzzyMatch(userDisplay(user), pattern, model.slab)
		if result.Score <= 0 {
			continue
		}
		model.filtered = append(model.filtered, index)
		scores[index] = result.Score
		model.highlights[user.ID] = result.Positions
	}

	sort.SliceStable(model.filtered, func(a, b int) bool {
		return scores[model.filtered[a]] > scores[model.filtered[b]]
	})
	model.cursor = 0
	model.scrollOffset = 0
}

// userDisplay is the string users are matched and rendered with.
func userDisplay(user portal.UserProfile) string {
	return user.Email + "  " + user.FullName
}

func (model UsersModel) selectedUser() (portal.UserProfile, bool) {
	if model.cursor < 0 || model.cursor >= len(model.filtered) {
		return portal.UserProfile{}, false
	}
	return model.users[model.filtered[model.cursor]], true
}

func (model *UsersModel) clampScroll() {
	visible := model.visibleHeight()
	if visible <= 0 {
		return
	}
	if model.cursor < model.scrollOffset {
		model.scrollOffset = model.cursor
	}
	if model.cursor >= model.scrollOffset+visible {
		model.scrollOffset = model.cursor - visible + 1
	}
}

func (model UsersModel) visibleHeight() int {
	height := model.height - 3
	if height < 1 {
		height = 1
	}
	return height
}

// View renders the users view.
func (model UsersModel) View() string {
	var sections []string

	sections = append(sections, model.filter.Render(model.theme, fieldWidth(model.width), model.filterFocused))
	sections = append(sections, model.renderList())

	if model.notice != "" {
		sections = append(sections, renderNotice(model.theme, model.notice, model.noticeIsError))
	} else {
		helpStyle := lipgloss.NewStyle().Foreground(model.theme.HelpText)
		sections = append(sections, helpStyle.Render("/ filter  a add user  d delete  r refresh"))
	}

	view := strings.Join(sections, "\n")

	if model.addForm != nil {
		view = model.spliceForm(view)
	}
	if model.confirm != nil {
		lines, anchorX, anchorY := model.confirm.Render(model.theme, model.width, model.height)
		view = tui.SpliceOverlay(view, lines, anchorX, anchorY)
	}

	return view
}

func (model UsersModel) renderList() string {
	faintStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	errorStyle := lipgloss.NewStyle().Foreground(model.theme.ErrorText)

	visible := model.visibleHeight()

	if model.loading {
		return padListing([]string{faintStyle.Render("Loading users…")}, visible)
	}
	if model.loadError != "" {
		return padListing([]string{
			errorStyle.Render("Failed to load users: " + model.loadError),
			faintStyle.Render("Press r to retry"),
		}, visible)
	}
	if len(model.filtered) == 0 {
		if model.filter.Value() != "" {
			return padListing([]string{faintStyle.Render(
				fmt.Sprintf("No accounts match %q", model.filter.Value()))}, visible)
		}
		return padListing([]string{faintStyle.Render("No accounts")}, visible)
	}

	selectedStyle := lipgloss.NewStyle().
		Background(model.theme.SelectedBackground).
		Foreground(model.theme.SelectedForeground)

	var rows []string
	end := model.scrollOffset + visible
	if end > len(model.filtered) {
		end = len(model.filtered)
	}
	for position := model.scrollOffset; position < end; position++ {
		user := model.users[model.filtered[position]]
		display := truncate(userDisplay(user), model.width-14)

		roleBadge := lipgloss.NewStyle().
			Foreground(model.theme.RoleColor(string(user.Role))).
			Render(fmt.Sprintf("%-8s", user.Role))

		if position == model.cursor {
			rows = append(rows, selectedStyle.Render("  "+display)+"  "+roleBadge)
			continue
		}

		line := display
		if positions, ok := model.highlights[user.ID]; ok {
			line = tui.HighlightPositions(model.theme, display, positions)
		}
		rows = append(rows, "  "+line+"  "+roleBadge)
	}

	listing := padListing(rows, visible)
	scrollbar := tui.RenderScrollbar(model.theme, visible, len(model.filtered), visible, model.scrollOffset, !model.filterFocused)
	return lipgloss.JoinHorizontal(lipgloss.Top, listing, " ", scrollbar)
}

func (model UsersModel) spliceForm(view string) string {
	form := model.addForm

	roleStyle := lipgloss.NewStyle().Foreground(model.theme.RoleColor(string(form.Role)))
	roleLabel := lipgloss.NewStyle().Foreground(model.theme.FaintText).Render("Role: ")
	roleRow := roleLabel + roleStyle.Render(string(form.Role))
	if form.focus == 3 {
		roleRow += lipgloss.NewStyle().Foreground(model.theme.Accent).Render("  (Enter to change)")
	}

	body := []string{
		form.Email.Render(model.theme, fieldWidth(model.width), form.focus == 0 && !form.Submitting),
		form.FullName.Render(model.theme, fieldWidth(model.width), form.focus == 1 && !form.Submitting),
		form.Password.Render(model.theme, fieldWidth(model.width), form.focus == 2 && !form.Submitting),
		roleRow,
	}
	if form.Submitting {
		body = append(body, "", lipgloss.NewStyle().Foreground(model.theme.FaintText).Render("Creating…"))
	} else if form.Notice != "" {
		body = append(body, "", lipgloss.NewStyle().Foreground(model.theme.ErrorText).Render(form.Notice))
	}

	lines, anchorX, anchorY := tui.RenderModal(model.theme, "Add account", body,
		"Tab next field  Enter submit  Esc cancel", model.width, model.height)
	view = tui.SpliceOverlay(view, lines, anchorX, anchorY)

	if form.dropdown != nil {
		form.dropdown.AnchorX = anchorX + 2
		form.dropdown.AnchorY = anchorY + 5
		view = tui.SpliceOverlay(view, form.dropdown.Render(model.theme), form.dropdown.AnchorX, form.dropdown.AnchorY)
	}

	return view
}
