// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

package adminui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fathomline/studioctl/lib/session"
	"github.com/fathomline/studioctl/lib/studio"
)

// loginResultMsg carries a login attempt's outcome.
type loginResultMsg struct {
	user *studio.User
	err  error
}

// LoginModel is the credential screen shown whenever no verified
// session exists: on first start, after logout, and after mid-session
// expiry.
type LoginModel struct {
	store *session.Store

	email    textinput.Model
	password textinput.Model
	focus    int

	submitting   bool
	errorMessage string

	// notice is contextual text above the form, e.g. the
	// session-expired explanation.
	notice string
}

// NewLoginModel builds the login screen.
func NewLoginModel(store *session.Store) LoginModel {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 0

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 0

	model := LoginModel{store: store, email: email, password: password}
	model.email.Focus()
	return model
}

// SetNotice sets the contextual banner above the form.
func (m *LoginModel) SetNotice(notice string) {
	m.notice = notice
}

// Update handles input while the login screen is frontmost. Non-key
// messages (cursor blinks) are forwarded to the focused input.
func (m *LoginModel) Update(msg tea.Msg) tea.Cmd {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		var cmd tea.Cmd
		if m.focus == 0 {
			m.email, cmd = m.email.Update(msg)
		} else {
			m.password, cmd = m.password.Update(msg)
		}
		return cmd
	}
	if m.submitting {
		return nil
	}

	switch keyMsg.String() {
	case "tab", "shift+tab", "down", "up":
		m.focus = 1 - m.focus
		if m.focus == 0 {
			m.password.Blur()
			return m.email.Focus()
		}
		m.email.Blur()
		return m.password.Focus()

	case "enter":
		if m.focus == 0 {
			m.focus = 1
			m.email.Blur()
			return m.password.Focus()
		}
		return m.submit()
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return cmd
}

func (m *LoginModel) submit() tea.Cmd {
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()
	if email == "" || password == "" {
		m.errorMessage = "email and password are required"
		return nil
	}

	m.submitting = true
	m.errorMessage = ""
	store := m.store
	return func() tea.Msg {
		user, err := store.Login(context.Background(), email, password)
		return loginResultMsg{user: user, err: err}
	}
}

// HandleResult applies a login outcome. On failure the error shows on
// the form, the email stays put for correction, and the password is
// cleared; the session store was left untouched by the failed attempt.
func (m *LoginModel) HandleResult(msg loginResultMsg) {
	m.submitting = false
	if msg.err != nil {
		m.errorMessage = msg.err.Error()
		m.password.SetValue("")
		return
	}
	m.errorMessage = ""
	m.notice = ""
}
