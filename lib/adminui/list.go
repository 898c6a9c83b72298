// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

package adminui

import (
	"context"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fathomline/studioctl/lib/tui"
)

// ListStatus is the list controller's lifecycle state.
type ListStatus int

const (
	// ListIdle means no load has been issued yet.
	ListIdle ListStatus = iota

	// ListLoading means a load is in flight. Previously loaded rows
	// stay on screen behind the loading indicator.
	ListLoading

	// ListReady means the last load succeeded.
	ListReady

	// ListFailed means the last load failed; ErrorMessage says why.
	ListFailed
)

// listLoadedMsg carries one load result back into the Update loop.
type listLoadedMsg struct {
	collection string
	instance   int64
	generation int
	pageNumber int
	page       Page
	err        error
}

// listInstances distinguishes ListModels created at different times.
// Results are routed by collection name, and generation counters
// restart at 1 for every new list, so without the instance token a
// load still in flight from a list torn down at logout could be
// accepted by the list built after the next login.
var listInstances atomic.Int64

// ListModel is the generic list controller: one instance per tab. It
// owns the loaded rows, the cursor, the scroll window, the filter,
// and the request generation counter that makes overlapping loads
// safe.
type ListModel struct {
	Collection Collection

	theme    tui.Theme
	status   ListStatus
	instance int64

	rows       []Row
	totalCount int
	pageNumber int

	// generation counts issued loads. A result whose generation is
	// not the latest issued is stale and discarded, so the winner of
	// two overlapping loads is always the most recently requested,
	// regardless of response order.
	generation int

	errorMessage string

	cursor       int
	scrollOffset int

	filter FilterModel

	width, height int
}

// NewListModel creates an idle list for a collection.
func NewListModel(collection Collection, theme tui.Theme) ListModel {
	return ListModel{
		Collection: collection,
		theme:      theme,
		instance:   listInstances.Add(1),
		pageNumber: 1,
	}
}

// Status returns the current lifecycle state.
func (m *ListModel) Status() ListStatus { return m.status }

// ErrorMessage returns the last load failure, or "".
func (m *ListModel) ErrorMessage() string { return m.errorMessage }

// PageNumber returns the 1-based current page.
func (m *ListModel) PageNumber() int { return m.pageNumber }

// TotalCount returns the collection-wide row count from the last
// successful load.
func (m *ListModel) TotalCount() int { return m.totalCount }

// SetSize updates the viewport dimensions.
func (m *ListModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampScroll()
}

// LoadPage issues a load for the given 1-based page and returns the
// command that performs it. The generation counter advances so any
// still-in-flight earlier load becomes stale.
func (m *ListModel) LoadPage(pageNumber int) tea.Cmd {
	if pageNumber < 1 {
		pageNumber = 1
	}
	m.generation++
	m.status = ListLoading
	m.errorMessage = ""
	m.pageNumber = pageNumber

	instance := m.instance
	generation := m.generation
	collection := m.Collection
	name := collection.Name()
	return func() tea.Msg {
		page, err := collection.Load(context.Background(), pageNumber)
		return listLoadedMsg{
			collection: name,
			instance:   instance,
			generation: generation,
			pageNumber: pageNumber,
			page:       page,
			err:        err,
		}
	}
}

// Reload re-fetches the current page.
func (m *ListModel) Reload() tea.Cmd {
	return m.LoadPage(m.pageNumber)
}

// HandleLoaded applies a load result. Stale results — an earlier
// generation than the latest issued, or any load issued by a previous
// incarnation of this tab — are discarded and the method reports
// false.
func (m *ListModel) HandleLoaded(msg listLoadedMsg) bool {
	if msg.instance != m.instance || msg.generation != m.generation {
		return false
	}
	if msg.err != nil {
		// Keep whatever rows were on screen; the error banner
		// explains why they may be out of date.
		m.status = ListFailed
		m.errorMessage = msg.err.Error()
		return true
	}

	var selectedID string
	if selected := m.Selected(); selected != nil {
		selectedID = selected.ID
	}

	m.status = ListReady
	m.errorMessage = ""
	m.rows = msg.page.Rows
	m.totalCount = msg.page.TotalCount
	m.pageNumber = msg.pageNumber
	m.restoreSelection(selectedID)
	return true
}

// restoreSelection keeps the cursor on the previously selected record
// when it survived the reload, otherwise clamps it into range.
func (m *ListModel) restoreSelection(selectedID string) {
	visible := m.VisibleRows()
	if selectedID != "" {
		for index, row := range visible {
			if row.ID == selectedID {
				m.cursor = index
				m.clampScroll()
				return
			}
		}
	}
	if m.cursor >= len(visible) {
		m.cursor = len(visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.clampScroll()
}

// VisibleRows returns the loaded rows after filtering.
func (m *ListModel) VisibleRows() []Row {
	return m.filter.Apply(m.rows)
}

// Selected returns the row under the cursor, or nil when the visible
// set is empty.
func (m *ListModel) Selected() *Row {
	visible := m.VisibleRows()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return nil
	}
	row := visible[m.cursor]
	return &row
}

// MoveCursor moves the selection by delta, clamped to the visible
// rows, and keeps the scroll window around it.
func (m *ListModel) MoveCursor(delta int) {
	visible := len(m.VisibleRows())
	if visible == 0 {
		m.cursor = 0
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= visible {
		m.cursor = visible - 1
	}
	m.clampScroll()
}

func (m *ListModel) clampScroll() {
	if m.height <= 0 {
		return
	}
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+m.height {
		m.scrollOffset = m.cursor - m.height + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

// TotalPages derives the page count from the server-side total. An
// unpaginated collection is always a single page.
func (m *ListModel) TotalPages() int {
	size := m.Collection.PageSize()
	if size <= 0 {
		return 1
	}
	pages := (m.totalCount + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	return pages
}

// NextPage loads the following page, if any.
func (m *ListModel) NextPage() tea.Cmd {
	if m.pageNumber >= m.TotalPages() {
		return nil
	}
	return m.LoadPage(m.pageNumber + 1)
}

// PreviousPage loads the preceding page, if any.
func (m *ListModel) PreviousPage() tea.Cmd {
	if m.pageNumber <= 1 {
		return nil
	}
	return m.LoadPage(m.pageNumber - 1)
}

// PageAfterDeletion returns the page to reload after removing one
// record: the current page, clamped to the new final page so deleting
// the last row of the last page cannot strand the view past the end.
func (m *ListModel) PageAfterDeletion() int {
	size := m.Collection.PageSize()
	if size <= 0 {
		return 1
	}
	remaining := m.totalCount - 1
	if remaining < 0 {
		remaining = 0
	}
	lastPage := (remaining + size - 1) / size
	if lastPage < 1 {
		lastPage = 1
	}
	if m.pageNumber < lastPage {
		return m.pageNumber
	}
	return lastPage
}

// Filter exposes the filter for key routing.
func (m *ListModel) Filter() *FilterModel { return &m.filter }
