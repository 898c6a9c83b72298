// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

package adminui

import (
	"context"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// The modal shell: at most one overlay is open at a time — the form,
// the delete confirmation, or the read-only preview. The shell owns
// dismissal (esc, click outside) and keeps late async results from
// closed modals harmless: once a modal is gone, its messages fall
// through Update without effect.

// formModal hosts the create/edit form.
type formModal struct {
	form FormModel
}

// confirmModal asks before a delete. Nothing is sent to the backend
// until the user confirms; declining or dismissing issues no request.
type confirmModal struct {
	collection   Collection
	rowID        string
	rowLabel     string
	deleting     bool
	errorMessage string
}

// deleteResultMsg carries a delete outcome back into the Update loop.
type deleteResultMsg struct {
	collection string
	err        error
}

// confirm issues the DELETE. Further confirms while one is in flight
// are no-ops.
func (m *confirmModal) confirm() tea.Cmd {
	if m.deleting {
		return nil
	}
	m.deleting = true
	m.errorMessage = ""
	collection := m.collection
	rowID := m.rowID
	return func() tea.Msg {
		err := collection.Delete(context.Background(), rowID)
		return deleteResultMsg{collection: collection.Name(), err: err}
	}
}

// previewModal is the scrollable read-only record view.
type previewModal struct {
	title    string
	viewport viewport.Model
}

func newPreviewModal(title, content string, width, height int) *previewModal {
	vp := viewport.New(width, height)
	vp.SetContent(content)
	return &previewModal{title: title, viewport: vp}
}

func (m *previewModal) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}
