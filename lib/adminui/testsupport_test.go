// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

package adminui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fathomline/studioctl/lib/studio"
)

// fakeCollection is an in-memory Collection with scriptable results
// and recorded mutation calls.
type fakeCollection struct {
	mutex sync.Mutex

	name     string
	pageSize int
	fields   []Field
	seed     map[string]string

	pages   map[int]Page
	loadErr error

	createErr error
	updateErr error
	deleteErr error

	loadCalls   int
	createCalls []map[string]string
	updateCalls []recordedUpdate
	deleteCalls []string

	attachments []*studio.FileAttachment
}

type recordedUpdate struct {
	id     string
	values map[string]string
}

func (c *fakeCollection) Name() string { return c.name }

func (c *fakeCollection) Columns() []Column {
	return []Column{{Title: "Title", Weight: 3}, {Title: "Detail", Weight: 2}}
}

func (c *fakeCollection) PageSize() int { return c.pageSize }

func (c *fakeCollection) Load(_ context.Context, page int) (Page, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.loadCalls++
	if c.loadErr != nil {
		return Page{}, c.loadErr
	}
	return c.pages[page], nil
}

func (c *fakeCollection) Fields() []Field { return c.fields }

func (c *fakeCollection) Seed(Row) map[string]string { return c.seed }

func (c *fakeCollection) Create(_ context.Context, values map[string]string, attachment *studio.FileAttachment) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.createCalls = append(c.createCalls, values)
	c.attachments = append(c.attachments, attachment)
	return c.createErr
}

func (c *fakeCollection) Update(_ context.Context, id string, values map[string]string, attachment *studio.FileAttachment) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.updateCalls = append(c.updateCalls, recordedUpdate{id: id, values: values})
	c.attachments = append(c.attachments, attachment)
	return c.updateErr
}

func (c *fakeCollection) Delete(_ context.Context, id string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.deleteCalls = append(c.deleteCalls, id)
	return c.deleteErr
}

func (c *fakeCollection) Preview(row Row, _ int) string {
	if len(row.Cells) == 0 {
		return ""
	}
	return "preview of " + row.Cells[0]
}

// makeRows builds n rows with predictable ids and cells.
func makeRows(prefix string, n int) []Row {
	rows := make([]Row, 0, n)
	for index := 0; index < n; index++ {
		id := fmt.Sprintf("%s-%d", prefix, index)
		rows = append(rows, Row{
			ID:    id,
			Cells: []string{fmt.Sprintf("%s title %d", prefix, index), "detail"},
		})
	}
	return rows
}

// runCmd executes a command synchronously and returns its message.
func runCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

// drive feeds a message to the model and returns the updated model.
func drive(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func keyPress(text string) tea.KeyMsg {
	switch text {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
	}
}
