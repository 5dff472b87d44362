// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package portalui

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zeebo/blake3"

	"github.com/atriumworks/atrium/lib/portal"
	"github.com/atriumworks/atrium/lib/session"
	"github.com/atriumworks/atrium/lib/tui"
)

// searchDebounce is how long the search input must be quiet before a
// fetch is dispatched. Every keystroke restarts the window.
const searchDebounce = 500 * time.Millisecond

// listState tracks the file listing's fetch cycle.
type listState int

const (
	// listIdle: no fetch dispatched yet.
	listIdle listState = iota
	// listLoading: a fetch is in flight for the settled query.
	listLoading
	// listReady: the listing reflects the settled query. It may be
	// empty; an empty result is a normal outcome, not a failure.
	listReady
	// listFailed: the fetch failed. The previous listing is discarded
	// rather than shown as if it answered the current query.
	listFailed
)

// UploadForm is the modal form for uploading a file: a local path and
// a destination folder. A blank folder lands in the server's default.
type UploadForm struct {
	Path   tui.TextField
	Folder tui.TextField

	focus      int // 0 path, 1 folder.
	Notice     string
	Submitting bool
}

// newUploadForm creates an empty upload form.
func newUploadForm() *UploadForm {
	return &UploadForm{
		Path:   tui.NewTextField("File"),
		Folder: tui.NewTextField("Folder"),
	}
}

// FilesModel is the file repository view: debounced search over the
// server listing, folder-grouped rows, upload, download, and
// admin-only delete.
type FilesModel struct {
	client       *portal.Client
	session      *session.Controller
	theme        tui.Theme
	keys         KeyMap
	downloadsDir string

	width  int
	height int

	// Search. debounceGeneration counts keystrokes; a debounce timer
	// carries the generation that armed it, and only the newest
	// generation dispatches a fetch. settledQuery is the term the
	// current fetch (and listing) belongs to.
	search             tui.TextField
	searchFocused      bool
	debounceGeneration int
	settledQuery       string

	state     listState
	loadError string
	records   []portal.FileRecord
	items     []ListItem

	cursor       int
	scrollOffset int

	upload        *UploadForm
	confirm       *tui.ConfirmModal
	confirmFileID int64

	notice        string
	noticeIsError bool
}

// NewFilesModel creates the files view in the idle state. Activate
// dispatches the first fetch.
func NewFilesModel(client *portal.Client, controller *session.Controller, downloadsDir string, theme tui.Theme, keys KeyMap) FilesModel {
	return FilesModel{
		client:       client,
		session:      controller,
		theme:        theme,
		keys:         keys,
		downloadsDir: downloadsDir,
		search:       tui.NewTextField("Search"),
	}
}

// SetSize updates the view dimensions.
func (model *FilesModel) SetSize(width, height int) {
	model.width = width
	model.height = height
}

// Activate dispatches the initial unfiltered fetch. Called when the
// dashboard appears and when the files tab regains focus after a
// session change.
func (model *FilesModel) Activate() tea.Cmd {
	model.state = listLoading
	model.settledQuery = model.search.Value()
	return model.fetchCmd(model.settledQuery)
}

// fetchCmd fetches the listing for a query. The query rides along in
// the result message so stale completions can be discarded.
func (model FilesModel) fetchCmd(query string) tea.Cmd {
	client := model.client
	token := model.session.Token()
	return func() tea.Msg {
		records, err := client.ListFiles(context.Background(), token, query)
		return filesLoadedMsg{query: query, records: records, err: err}
	}
}

// debounceCmd arms a debounce timer for the given generation.
func debounceCmd(generation int) tea.Cmd {
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{generation: generation}
	})
}

// Update handles messages routed to the files view.
func (model FilesModel) Update(message tea.Msg) (FilesModel, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return model.handleKey(message)

	case searchDebounceMsg:
		// A newer keystroke armed a newer timer; this one is obsolete.
		if message.generation != model.debounceGeneration {
			return model, nil
		}
		model.settledQuery = model.search.Value()
		model.state = listLoading
		return model, model.fetchCmd(model.settledQuery)

	case filesLoadedMsg:
		// Out-of-order completion for a query the user has left behind.
		if message.query != model.settledQuery {
			return model, nil
		}
		if message.err != nil {
			model.state = listFailed
			model.loadError = message.err.Error()
			model.records = nil
			model.items = nil
			return model, nil
		}
		model.state = listReady
		model.loadError = ""
		model.records = message.records
		model.items = BuildListItems(GroupByFolder(message.records))
		model.clampCursor()
		return model, nil

	case uploadResultMsg:
		if model.upload != nil {
			model.upload.Submitting = false
		}
		if message.err != nil {
			if model.upload != nil {
				model.upload.Notice = message.err.Error()
			}
			return model, nil
		}
		model.upload = nil
		model.notice = fmt.Sprintf("Uploaded %s to %s", message.record.Filename, message.record.Folder)
		model.noticeIsError = false
		// The listing is server truth; refetch rather than patch.
		model.state = listLoading
		return model, tea.Batch(model.fetchCmd(model.settledQuery), fadeStatus())

	case downloadResultMsg:
		if message.err != nil {
			model.notice = message.err.Error()
			model.noticeIsError = true
			return model, fadeStatus()
		}
		model.notice = fmt.Sprintf("Saved %s (blake3 %s)", message.path, message.digest)
		model.noticeIsError = false
		return model, fadeStatus()

	case fileDeletedMsg:
		if message.err != nil {
			model.notice = message.err.Error()
			model.noticeIsError = true
			return model, fadeStatus()
		}
		model.notice = "File deleted"
		model.noticeIsError = false
		model.state = listLoading
		return model, tea.Batch(model.fetchCmd(model.settledQuery), fadeStatus())

	case statusFadeMsg:
		model.notice = ""
		return model, nil
	}

	return model, nil
}

func (model FilesModel) handleKey(message tea.KeyMsg) (FilesModel, tea.Cmd) {
	// Modal layers capture all input while visible.
	if model.confirm != nil {
		return model.handleConfirmKey(message)
	}
	if model.upload != nil {
		return model.handleUploadKey(message)
	}
	if model.searchFocused {
		return model.handleSearchKey(message)
	}

	switch {
	case key.Matches(message, model.keys.Search):
		model.searchFocused = true
		return model, nil

	case key.Matches(message, model.keys.Upload):
		model.upload = newUploadForm()
		return model, nil

	case key.Matches(message, model.keys.Refresh):
		model.state = listLoading
		return model, model.fetchCmd(model.settledQuery)

	case key.Matches(message, model.keys.Download):
		if record, ok := model.selectedRecord(); ok {
			return model, model.downloadCmd(record)
		}
		return model, nil

	case key.Matches(message, model.keys.Delete):
		// Employees never see delete controls; the key does nothing.
		profile := model.session.Profile()
		if profile == nil || !profile.IsAdmin() {
			return model, nil
		}
		if record, ok := model.selectedRecord(); ok {
			confirm := tui.NewConfirmModal("Delete file", record.Filename)
			model.confirm = &confirm
			model.confirmFileID = record.ID
		}
		return model, nil

	case key.Matches(message, model.keys.Up):
		model.moveCursor(-1)
	case key.Matches(message, model.keys.Down):
		model.moveCursor(1)
	case key.Matches(message, model.keys.PageUp):
		model.moveCursor(-model.visibleHeight())
	case key.Matches(message, model.keys.PageDown):
		model.moveCursor(model.visibleHeight())
	case key.Matches(message, model.keys.Home):
		model.cursor = 0
		model.clampCursor()
	case key.Matches(message, model.keys.End):
		model.cursor = len(model.items) - 1
		model.clampCursor()
	}
	return model, nil
}

func (model FilesModel) handleSearchKey(message tea.KeyMsg) (FilesModel, tea.Cmd) {
	switch message.Type {
	case tea.KeyEscape:
		model.searchFocused = false
		if model.search.Value() == "" {
			return model, nil
		}
		// Clearing the search is an edit like any other: it settles
		// through the same debounce window to an unfiltered fetch.
		model.search.Clear()
		model.debounceGeneration++
		return model, debounceCmd(model.debounceGeneration)

	case tea.KeyEnter:
		model.searchFocused = false
		return model, nil
	}

	if model.search.Update(message) {
		model.debounceGeneration++
		return model, debounceCmd(model.debounceGeneration)
	}
	return model, nil
}

func (model FilesModel) handleUploadKey(message tea.KeyMsg) (FilesModel, tea.Cmd) {
	form := model.upload
	if form.Submitting {
		return model, nil
	}

	switch message.Type {
	case tea.KeyEscape:
		model.upload = nil
		return model, nil

	case tea.KeyTab:
		form.focus = (form.focus + 1) % 2
		return model, nil

	case tea.KeyEnter:
		path := strings.TrimSpace(form.Path.Value())
		if path == "" {
			form.Notice = "file path is required"
			return model, nil
		}
		form.Notice = ""
		form.Submitting = true
		return model, model.uploadCmd(path, strings.TrimSpace(form.Folder.Value()))
	}

	if form.focus == 0 {
		form.Path.Update(message)
	} else {
		form.Folder.Update(message)
	}
	return model, nil
}

func (model FilesModel) handleConfirmKey(message tea.KeyMsg) (FilesModel, tea.Cmd) {
	switch message.Type {
	case tea.KeyEscape:
		model.confirm = nil
		return model, nil

	case tea.KeyLeft, tea.KeyRight, tea.KeyTab:
		model.confirm.Toggle()
		return model, nil

	case tea.KeyEnter:
		affirmed := model.confirm.Affirmed
		fileID := model.confirmFileID
		model.confirm = nil
		// Declining leaves the listing untouched; no request is sent.
		if !affirmed {
			return model, nil
		}
		return model, model.deleteCmd(fileID)
	}
	return model, nil
}

// uploadCmd reads a local file and uploads it.
func (model FilesModel) uploadCmd(path, folder string) tea.Cmd {
	client := model.client
	token := model.session.Token()
	return func() tea.Msg {
		content, err := os.ReadFile(path)
		if err != nil {
			return uploadResultMsg{err: fmt.Errorf("reading %s: %w", path, err)}
		}
		record, err := client.UploadFile(context.Background(), token,
			filepath.Base(path), folder, bytes.NewReader(content))
		return uploadResultMsg{record: record, err: err}
	}
}

// downloadCmd fetches a file's content, writes it under the downloads
// directory, and reports the BLAKE3 digest of what was written.
func (model FilesModel) downloadCmd(record portal.FileRecord) tea.Cmd {
	client := model.client
	token := model.session.Token()
	downloadsDir := model.downloadsDir
	return func() tea.Msg {
		content, err := client.DownloadFile(context.Background(), token, record.ID)
		if err != nil {
			return downloadResultMsg{filename: record.Filename, err: err}
		}

		if err := os.MkdirAll(downloadsDir, 0755); err != nil {
			return downloadResultMsg{filename: record.Filename, err: fmt.Errorf("creating %s: %w", downloadsDir, err)}
		}
		path := filepath.Join(downloadsDir, portal.SanitizeFilename(record.Filename))
		if err := os.WriteFile(path, content, 0644); err != nil {
			return downloadResultMsg{filename: record.Filename, err: fmt.Errorf("writing %s: %w", path, err)}
		}

		digest := blake3.Sum256(content)
		return downloadResultMsg{
			filename: record.Filename,
			path:     path,
			digest:   hex.EncodeToString(digest[:8]),
		}
	}
}

// deleteCmd removes a file server-side.
func (model FilesModel) deleteCmd(fileID int64) tea.Cmd {
	client := model.client
	token := model.session.Token()
	return func() tea.Msg {
		return fileDeletedMsg{err: client.DeleteFile(context.Background(), token, fileID)}
	}
}

// selectedRecord returns the file record under the cursor, if the
// cursor is on a file row.
func (model FilesModel) selectedRecord() (portal.FileRecord, bool) {
	if model.cursor < 0 || model.cursor >= len(model.items) {
		return portal.FileRecord{}, false
	}
	item := model.items[model.cursor]
	if item.IsHeader {
		return portal.FileRecord{}, false
	}
	return item.Record, true
}

// moveCursor moves the cursor by delta rows, skipping folder headers
// in the direction of travel.
func (model *FilesModel) moveCursor(delta int) {
	if len(model.items) == 0 {
		return
	}

	step := 1
	if delta < 0 {
		step = -1
		delta = -delta
	}

	cursor := model.cursor
	for moved := 0; moved < delta; moved++ {
		next := cursor + step
		// Walk past headers without consuming movement.
		for next >= 0 && next < len(model.items) && model.items[next].IsHeader {
			next += step
		}
		if next < 0 || next >= len(model.items) {
			break
		}
		cursor = next
	}
	model.cursor = cursor
	model.clampCursor()
}

// clampCursor keeps the cursor on a file row and the scroll window
// around it. After a refetch the cursor lands on the first file row.
func (model *FilesModel) clampCursor() {
	if len(model.items) == 0 {
		model.cursor = 0
		model.scrollOffset = 0
		return
	}
	if model.cursor >= len(model.items) {
		model.cursor = len(model.items) - 1
	}
	if model.cursor < 0 {
		model.cursor = 0
	}
	// Settle on a file row, searching forward then backward.
	if model.items[model.cursor].IsHeader {
		for index := model.cursor; index < len(model.items); index++ {
			if !model.items[index].IsHeader {
				model.cursor = index
				break
			}
		}
	}
	if model.items[model.cursor].IsHeader {
		for index := model.cursor; index >= 0; index-- {
			if !model.items[index].IsHeader {
				model.cursor = index
				break
			}
		}
	}

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

// visibleHeight is the number of listing rows that fit on screen:
// total height minus search line, state line, and notice line.
func (model FilesModel) visibleHeight() int {
	height := model.height - 3
	if height < 1 {
		height = 1
	}
	return height
}

// View renders the files view.
func (model FilesModel) View() string {
	var sections []string

	sections = append(sections, model.search.Render(model.theme, fieldWidth(model.width), model.searchFocused))
	sections = append(sections, model.renderListing())

	if model.notice != "" {
		sections = append(sections, renderNotice(model.theme, model.notice, model.noticeIsError))
	} else {
		helpStyle := lipgloss.NewStyle().Foreground(model.theme.HelpText)
		help := "/ search  u upload  Enter download  r refresh"
		if profile := model.session.Profile(); profile != nil && profile.IsAdmin() {
			help += "  d delete"
		}
		sections = append(sections, helpStyle.Render(help))
	}

	view := strings.Join(sections, "\n")

	if model.upload != nil {
		view = model.spliceUploadModal(view)
	}
	if model.confirm != nil {
		lines, anchorX, anchorY := model.confirm.Render(model.theme, model.width, model.height)
		view = tui.SpliceOverlay(view, lines, anchorX, anchorY)
	}

	return view
}

func (model FilesModel) renderListing() string {
	faintStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	errorStyle := lipgloss.NewStyle().Foreground(model.theme.ErrorText)

	visible := model.visibleHeight()

	switch model.state {
	case listIdle, listLoading:
		return padListing([]string{faintStyle.Render("Loading files…")}, visible)
	case listFailed:
		return padListing([]string{
			errorStyle.Render("Failed to load files: " + model.loadError),
			faintStyle.Render("Press r to retry"),
		}, visible)
	}

	if len(model.items) == 0 {
		if model.settledQuery != "" {
			return padListing([]string{faintStyle.Render(
				fmt.Sprintf("No files match %q", model.settledQuery))}, visible)
		}
		return padListing([]string{faintStyle.Render(
			"No files in the repository yet. Press u to upload.")}, visible)
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.FolderHeader)
	normalStyle := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	metaStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	selectedStyle := lipgloss.NewStyle().
		Background(model.theme.SelectedBackground).
		Foreground(model.theme.SelectedForeground)

	var rows []string
	end := model.scrollOffset + visible
	if end > len(model.items) {
		end = len(model.items)
	}
	for index := model.scrollOffset; index < end; index++ {
		item := model.items[index]
		if item.IsHeader {
			rows = append(rows, headerStyle.Render(fmt.Sprintf("▸ %s (%d)", item.Folder, item.Count)))
			continue
		}

		line := fmt.Sprintf("  %-40s", truncate(item.Record.Filename, 40))
		meta := fmt.Sprintf("  %s  %s", item.Record.UploadedBy, item.Record.UploadDate)
		if index == model.cursor {
			rows = append(rows, selectedStyle.Render(line+meta))
		} else {
			rows = append(rows, normalStyle.Render(line)+metaStyle.Render(meta))
		}
	}

	listing := padListing(rows, visible)
	scrollbar := tui.RenderScrollbar(model.theme, visible, len(model.items), visible, model.scrollOffset, !model.searchFocused)
	return lipgloss.JoinHorizontal(lipgloss.Top, listing, " ", scrollbar)
}

func (model FilesModel) spliceUploadModal(view string) string {
	form := model.upload

	body := []string{
		form.Path.Render(model.theme, fieldWidth(model.width), form.focus == 0 && !form.Submitting),
		form.Folder.Render(model.theme, fieldWidth(model.width), form.focus == 1 && !form.Submitting),
	}
	if form.Submitting {
		body = append(body, "", lipgloss.NewStyle().Foreground(model.theme.FaintText).Render("Uploading…"))
	} else if form.Notice != "" {
		body = append(body, "", lipgloss.NewStyle().Foreground(model.theme.ErrorText).Render(form.Notice))
	}

	lines, anchorX, anchorY := tui.RenderModal(model.theme, "Upload file", body,
		"Tab next field  Enter upload  Esc cancel", model.width, model.height)
	return tui.SpliceOverlay(view, lines, anchorX, anchorY)
}

// padListing pads rendered rows with blank lines to the full listing
// height so the layout below doesn't jump as content changes.
func padListing(rows []string, height int) string {
	for len(rows) < height {
		rows = append(rows, "")
	}
	return strings.Join(rows[:height], "\n")
}

// truncate shortens a string to at most width runes.
func truncate(text string, width int) string {
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width < 1 {
		return ""
	}
	return string(runes[:width-1]) + "…"
}
