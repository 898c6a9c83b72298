// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

package adminui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fathomline/studioctl/lib/session"
	"github.com/fathomline/studioctl/lib/studio"
	"github.com/fathomline/studioctl/lib/tui"
)

// phase is the route guard's state: which top-level screen is shown.
type phase int

const (
	// phaseChecking runs while a stored session is being verified.
	// Nothing behind the guard renders yet.
	phaseChecking phase = iota

	// phaseLogin shows the credential screen.
	phaseLogin

	// phaseBrowse is the authenticated console.
	phaseBrowse
)

// guardResultMsg is the outcome of the startup session check.
type guardResultMsg struct {
	status session.Status
	err    error
}

// sessionEventMsg is a session store transition observed through the
// subscriber channel, e.g. mid-session expiry triggered by a 401 on
// any screen's request.
type sessionEventMsg struct {
	status session.Status
}

// resourceChangedMsg announces that a mutation on the named
// collection succeeded and its list must re-fetch. The reload is this
// explicit message, not a side effect buried in the mutation path.
type resourceChangedMsg struct {
	collection string
}

// Config holds the dependencies for creating the console model.
type Config struct {
	// Client is the content API client. Required.
	Client *studio.Client

	// Store is the session store. Required.
	Store *session.Store

	// Logger receives console lifecycle logs. If nil, slog.Default()
	// is used. Under tea.WithAltScreen the caller should point this
	// away from the terminal.
	Logger *slog.Logger

	// PageSize overrides the paginated collections' window.
	PageSize int

	// Theme overrides the color scheme. Nil means tui.DefaultTheme.
	Theme *tui.Theme

	// Collections overrides the tab set. Nil means the default tabs
	// for the authenticated user's role.
	Collections []Collection
}

// Model is the root bubbletea model: route guard, tab set, and modal
// shell.
type Model struct {
	client   *studio.Client
	store    *session.Store
	logger   *slog.Logger
	theme    tui.Theme
	keys     KeyMap
	pageSize int

	collectionsOverride []Collection

	phase     phase
	login     LoginModel
	tabs      []ListModel
	activeTab int

	modal   *formModal
	confirm *confirmModal
	preview *previewModal

	sessionEvents <-chan session.Status
	width, height int
}

// NewModel creates the console model.
func NewModel(config Config) (Model, error) {
	if config.Client == nil {
		return Model{}, fmt.Errorf("Client is required")
	}
	if config.Store == nil {
		return Model{}, fmt.Errorf("Store is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	theme := tui.DefaultTheme
	if config.Theme != nil {
		theme = *config.Theme
	}
	return Model{
		client:              config.Client,
		store:               config.Store,
		logger:              logger,
		theme:               theme,
		keys:                DefaultKeyMap(),
		pageSize:            config.PageSize,
		collectionsOverride: config.Collections,
		phase:               phaseChecking,
		login:               NewLoginModel(config.Store),
		sessionEvents:       config.Store.Subscribe(),
		width:               80,
		height:              24,
	}, nil
}

// Init starts the session check and the session event listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(checkSessionCmd(m.store), waitForSessionEvent(m.sessionEvents))
}

func checkSessionCmd(store *session.Store) tea.Cmd {
	return func() tea.Msg {
		status, err := store.Initialize(context.Background())
		return guardResultMsg{status: status, err: err}
	}
}

// waitForSessionEvent blocks on the subscriber channel and re-arms
// itself after every delivery.
func waitForSessionEvent(events <-chan session.Status) tea.Cmd {
	return func() tea.Msg {
		status, ok := <-events
		if !ok {
			return nil
		}
		return sessionEventMsg{status: status}
	}
}

// Update is the message loop.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for index := range m.tabs {
			m.tabs[index].SetSize(m.width, m.listHeight())
		}
		return m, nil

	case guardResultMsg:
		if msg.status == session.StatusAuthenticated {
			return m.enterBrowse()
		}
		m.phase = phaseLogin
		if msg.err != nil {
			m.login.SetNotice("Could not verify the saved session: " + msg.err.Error())
		}
		return m, nil

	case sessionEventMsg:
		rearm := waitForSessionEvent(m.sessionEvents)
		if msg.status == session.StatusExpired && m.phase == phaseBrowse {
			m.logger.Info("session expired, returning to login")
			m = m.becomeLoggedOut("Session expired — please log in again.")
		}
		return m, rearm

	case loginResultMsg:
		m.login.HandleResult(msg)
		if msg.err == nil {
			return m.enterBrowse()
		}
		return m, nil

	case listLoadedMsg:
		// Results landing after logout, or from a superseded load,
		// change nothing.
		if m.phase != phaseBrowse {
			return m, nil
		}
		for index := range m.tabs {
			if m.tabs[index].Collection.Name() == msg.collection {
				m.tabs[index].HandleLoaded(msg)
			}
		}
		return m, nil

	case formResultMsg:
		// A result for a dismissed modal is a no-op: the record may
		// have been written, and the next reload will show it.
		if m.phase != phaseBrowse || m.modal == nil ||
			m.modal.form.collection.Name() != msg.collection {
			return m, nil
		}
		return m, m.modal.form.HandleResult(msg)

	case formSavedTickMsg:
		if m.phase != phaseBrowse || m.modal == nil || m.modal.form.Status() != FormSaved {
			return m, nil
		}
		m.modal = nil
		name := msg.collection
		return m, func() tea.Msg { return resourceChangedMsg{collection: name} }

	case resourceChangedMsg:
		if m.phase != phaseBrowse {
			return m, nil
		}
		for index := range m.tabs {
			if m.tabs[index].Collection.Name() == msg.collection {
				return m, m.tabs[index].Reload()
			}
		}
		return m, nil

	case deleteResultMsg:
		if m.phase != phaseBrowse || m.confirm == nil ||
			m.confirm.collection.Name() != msg.collection {
			return m, nil
		}
		if msg.err != nil {
			m.confirm.deleting = false
			m.confirm.errorMessage = msg.err.Error()
			return m, nil
		}
		m.confirm = nil
		for index := range m.tabs {
			if m.tabs[index].Collection.Name() == msg.collection {
				return m, m.tabs[index].LoadPage(m.tabs[index].PageAfterDeletion())
			}
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	// Everything else (cursor blink and friends) goes to whichever
	// input currently has focus.
	switch {
	case m.modal != nil:
		return m, m.modal.form.HandleInput(message)
	case m.phase == phaseLogin:
		return m, m.login.Update(message)
	}
	return m, nil
}

// enterBrowse builds the tab set for the authenticated user and loads
// the first tab.
func (m Model) enterBrowse() (tea.Model, tea.Cmd) {
	user := m.store.User()
	if user == nil {
		m.phase = phaseLogin
		return m, nil
	}
	collections := m.collectionsOverride
	if collections == nil {
		deps := CollectionDeps{
			Client:   m.client,
			Store:    m.store,
			PageSize: m.pageSize,
			Theme:    m.theme,
		}
		collections = DefaultCollections(deps, user.Role)
	}

	m.tabs = nil
	for _, collection := range collections {
		list := NewListModel(collection, m.theme)
		list.SetSize(m.width, m.listHeight())
		m.tabs = append(m.tabs, list)
	}
	m.activeTab = 0
	m.phase = phaseBrowse
	m.modal = nil
	m.confirm = nil
	m.preview = nil
	m.logger.Info("console ready", "user", user.Email, "role", user.Role)
	return m, m.tabs[0].LoadPage(1)
}

// becomeLoggedOut drops every authenticated screen and shows the
// login form with an explanatory notice.
func (m Model) becomeLoggedOut(notice string) Model {
	m.phase = phaseLogin
	m.tabs = nil
	m.modal = nil
	m.confirm = nil
	m.preview = nil
	m.login = NewLoginModel(m.store)
	m.login.SetNotice(notice)
	return m
}

func (m *Model) activeList() *ListModel {
	if m.activeTab < 0 || m.activeTab >= len(m.tabs) {
		return nil
	}
	return &m.tabs[m.activeTab]
}

// ensureLoaded issues the first load when a tab is visited before it
// has any data.
func (m *Model) ensureLoaded() tea.Cmd {
	list := m.activeList()
	if list == nil || list.Status() != ListIdle {
		return nil
	}
	return list.LoadPage(1)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.phase {
	case phaseChecking:
		return m, nil
	case phaseLogin:
		return m, m.login.Update(msg)
	}

	switch {
	case m.modal != nil:
		return m.handleModalKey(msg)
	case m.confirm != nil:
		return m.handleConfirmKey(msg)
	case m.preview != nil:
		return m.handlePreviewKey(msg)
	}

	list := m.activeList()
	if list == nil {
		return m, nil
	}
	if list.Filter().Active {
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		list.MoveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		list.MoveCursor(1)

	case key.Matches(msg, m.keys.NextTab):
		m.activeTab = (m.activeTab + 1) % len(m.tabs)
		return m, m.ensureLoaded()

	case key.Matches(msg, m.keys.PrevTab):
		m.activeTab = (m.activeTab - 1 + len(m.tabs)) % len(m.tabs)
		return m, m.ensureLoaded()

	case key.Matches(msg, m.keys.NextPage):
		return m, list.NextPage()

	case key.Matches(msg, m.keys.PrevPage):
		return m, list.PreviousPage()

	case key.Matches(msg, m.keys.Reload):
		return m, list.Reload()

	case key.Matches(msg, m.keys.Filter):
		list.Filter().Active = true

	case key.Matches(msg, m.keys.New):
		if mutable(list.Collection) {
			return m.openForm(FormCreate, nil)
		}

	case key.Matches(msg, m.keys.Edit):
		if selected := list.Selected(); mutable(list.Collection) && selected != nil {
			return m.openForm(FormEdit, selected)
		}

	case key.Matches(msg, m.keys.Delete):
		if selected := list.Selected(); mutable(list.Collection) && selected != nil {
			label := selected.ID
			if len(selected.Cells) > 0 {
				label = selected.Cells[0]
			}
			m.confirm = &confirmModal{
				collection: list.Collection,
				rowID:      selected.ID,
				rowLabel:   label,
			}
		}

	case key.Matches(msg, m.keys.Preview):
		if selected := list.Selected(); selected != nil {
			width, height := m.previewSize()
			content := list.Collection.Preview(*selected, width)
			if content != "" {
				m.preview = newPreviewModal(list.Collection.Name(), content, width, height)
			}
		}

	default:
		// Direct tab selection by number.
		text := msg.String()
		if len(text) == 1 && text[0] >= '1' && int(text[0]-'1') < len(m.tabs) {
			m.activeTab = int(text[0] - '1')
			return m, m.ensureLoaded()
		}
	}
	return m, nil
}

func (m Model) openForm(mode FormMode, row *Row) (tea.Model, tea.Cmd) {
	list := m.activeList()
	form := NewFormModel(list.Collection, mode, row)
	m.modal = &formModal{form: form}
	return m, m.modal.form.FocusFirst()
}

func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form := &m.modal.form
	switch {
	case key.Matches(msg, m.keys.Cancel):
		// Dismissal while a submit is in flight is allowed; the late
		// result will find no modal and do nothing.
		m.modal = nil
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m, form.Submit()

	case msg.String() == "tab":
		return m, form.CycleFocus(1)

	case msg.String() == "shift+tab":
		return m, form.CycleFocus(-1)
	}
	return m, form.HandleInput(msg)
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		return m, m.confirm.confirm()
	case "n", "esc":
		// Declined: no request was or will be issued for this prompt.
		m.confirm = nil
	}
	return m, nil
}

func (m Model) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter":
		m.preview = nil
		return m, nil
	}
	return m, m.preview.update(msg)
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	list := m.activeList()
	filter := list.Filter()
	switch msg.String() {
	case "esc":
		filter.Clear()
		list.MoveCursor(0)
		return m, nil
	case "enter":
		// Keep the query, return focus to the list.
		filter.Active = false
		return m, nil
	case "backspace":
		filter.HandleBackspace()
		list.MoveCursor(0)
		return m, nil
	case "up":
		list.MoveCursor(-1)
		return m, nil
	case "down":
		list.MoveCursor(1)
		return m, nil
	}
	if msg.Type == tea.KeyRunes {
		for _, character := range msg.Runes {
			filter.HandleRune(character)
		}
		list.MoveCursor(0)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.phase != phaseBrowse {
		return m, nil
	}

	// Wheel scrolling goes to the preview when it is open, otherwise
	// to the list.
	if msg.Action == tea.MouseActionPress &&
		(msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown) {
		delta := 3
		if msg.Button == tea.MouseButtonWheelUp {
			delta = -3
		}
		if m.preview != nil {
			return m, m.preview.update(msg)
		}
		if m.modal == nil && m.confirm == nil {
			if list := m.activeList(); list != nil {
				list.MoveCursor(delta)
			}
		}
		return m, nil
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	// A click outside an open overlay dismisses it; a click inside is
	// consumed by the overlay and never reaches the screen behind it.
	switch {
	case m.modal != nil:
		if !m.pointInOverlay(msg.X, msg.Y, m.formModalLines()) {
			m.modal = nil
		}
	case m.confirm != nil:
		if !m.pointInOverlay(msg.X, msg.Y, m.confirmModalLines()) {
			m.confirm = nil
		}
	case m.preview != nil:
		if !m.pointInOverlay(msg.X, msg.Y, m.previewModalLines()) {
			m.preview = nil
		}
	}
	return m, nil
}
