// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

package adminui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/fathomline/studioctl/lib/tui"
)

const (
	// Rows consumed by chrome above and below the list: header, tab
	// bar, column headers, status line, help line.
	chromeRows = 5

	modalWidth = 60
)

func (m Model) listHeight() int {
	height := m.height - chromeRows
	if height < 1 {
		height = 1
	}
	return height
}

func (m Model) previewSize() (int, int) {
	width := m.width - 10
	if width > 100 {
		width = 100
	}
	if width < 20 {
		width = 20
	}
	height := m.height - 6
	if height < 5 {
		height = 5
	}
	return width, height
}

// View renders the whole screen for the current phase, then splices
// whichever overlay is open on top.
func (m Model) View() string {
	switch m.phase {
	case phaseChecking:
		return m.renderCentered("Checking session…")
	case phaseLogin:
		return m.renderLogin()
	}

	view := m.renderBrowse()
	switch {
	case m.modal != nil:
		view = m.spliceOverlay(view, m.formModalLines())
	case m.confirm != nil:
		view = m.spliceOverlay(view, m.confirmModalLines())
	case m.preview != nil:
		view = m.spliceOverlay(view, m.previewModalLines())
	}
	return view
}

func (m Model) renderCentered(text string) string {
	styled := lipgloss.NewStyle().Foreground(m.theme.FaintText).Render(text)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, styled)
}

func (m Model) renderLogin() string {
	theme := m.theme
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).
		Render("studioctl — Fathomline admin"))
	b.WriteString("\n\n")

	if m.login.notice != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.LoadingText).Render(m.login.notice))
		b.WriteString("\n\n")
	}

	label := lipgloss.NewStyle().Foreground(theme.FaintText)
	b.WriteString(label.Render("Email") + "\n")
	b.WriteString(m.login.email.View() + "\n\n")
	b.WriteString(label.Render("Password") + "\n")
	b.WriteString(m.login.password.View() + "\n\n")

	switch {
	case m.login.submitting:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.LoadingText).Render("Signing in…"))
	case m.login.errorMessage != "":
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ErrorText).Render(m.login.errorMessage))
	default:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.HelpText).Render("enter: sign in • ctrl+c: quit"))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		Padding(1, 2).
		Width(44).
		Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderBrowse() string {
	list := m.activeList()
	if list == nil {
		return m.renderCentered("No collections available")
	}

	var lines []string
	lines = append(lines, m.renderHeader())
	lines = append(lines, m.renderTabBar())
	lines = append(lines, m.renderColumnHeader(list))
	lines = append(lines, m.renderRows(list)...)
	lines = append(lines, m.renderStatusLine(list))
	lines = append(lines, m.renderHelpLine(list))

	// Pad to the full height so overlay anchoring is stable.
	for len(lines) < m.height {
		lines = append(lines, "")
	}
	return strings.Join(lines[:m.height], "\n")
}

func (m Model) renderHeader() string {
	theme := m.theme
	title := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).Render("studioctl")
	user := m.store.User()
	identity := ""
	if user != nil {
		role := lipgloss.NewStyle().Foreground(theme.RoleColor(user.Role)).Render(string(user.Role))
		identity = lipgloss.NewStyle().Foreground(theme.FaintText).Render(user.Email+" ") + role
	}
	gap := m.width - ansi.StringWidth(title) - ansi.StringWidth(identity)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + identity
}

func (m Model) renderTabBar() string {
	theme := m.theme
	var parts []string
	for index := range m.tabs {
		name := fmt.Sprintf("%d:%s", index+1, m.tabs[index].Collection.Name())
		style := lipgloss.NewStyle().Foreground(theme.TabInactiveForeground)
		if index == m.activeTab {
			style = lipgloss.NewStyle().Foreground(theme.TabActiveForeground).Bold(true).Underline(true)
		}
		parts = append(parts, style.Render(name))
	}
	return strings.Join(parts, "  ")
}

// columnWidths distributes the usable width across the collection's
// columns by weight, with a single-cell gap between columns.
func (m Model) columnWidths(list *ListModel) []int {
	columns := list.Collection.Columns()
	gaps := len(columns) - 1
	usable := m.width - 2 - gaps // scrollbar column + gaps
	if usable < len(columns) {
		usable = len(columns)
	}
	totalWeight := 0
	for _, column := range columns {
		totalWeight += column.Weight
	}
	if totalWeight == 0 {
		totalWeight = len(columns)
	}

	widths := make([]int, len(columns))
	used := 0
	for index, column := range columns {
		weight := column.Weight
		if weight == 0 {
			weight = 1
		}
		widths[index] = usable * weight / totalWeight
		if widths[index] < 4 {
			widths[index] = 4
		}
		used += widths[index]
	}
	// Give rounding leftovers to the first column.
	if used < usable {
		widths[0] += usable - used
	}
	return widths
}

func padCell(text string, width int) string {
	truncated := ansi.Truncate(text, width, "…")
	return truncated + strings.Repeat(" ", width-ansi.StringWidth(truncated))
}

func (m Model) renderColumnHeader(list *ListModel) string {
	widths := m.columnWidths(list)
	style := lipgloss.NewStyle().Foreground(m.theme.HeaderForeground).Bold(true)
	var cells []string
	for index, column := range list.Collection.Columns() {
		cells = append(cells, style.Render(padCell(column.Title, widths[index])))
	}
	return strings.Join(cells, " ")
}

func (m Model) renderRows(list *ListModel) []string {
	theme := m.theme
	widths := m.columnWidths(list)
	visible := list.VisibleRows()
	height := m.listHeight()

	lines := make([]string, 0, height)
	scrollbar := strings.Split(
		tui.Scrollbar(theme, height, len(visible), height, list.scrollOffset, true), "\n")

	for rowIndex := 0; rowIndex < height; rowIndex++ {
		sourceIndex := list.scrollOffset + rowIndex
		var line string
		if sourceIndex < len(visible) {
			row := visible[sourceIndex]
			var cells []string
			for cellIndex := range widths {
				text := ""
				if cellIndex < len(row.Cells) {
					text = row.Cells[cellIndex]
				}
				cells = append(cells, padCell(text, widths[cellIndex]))
			}
			line = strings.Join(cells, " ")
			if sourceIndex == list.cursor {
				line = lipgloss.NewStyle().
					Background(theme.SelectedBackground).
					Foreground(theme.SelectedForeground).
					Render(line)
			} else {
				line = lipgloss.NewStyle().Foreground(theme.NormalText).Render(line)
			}
		} else if sourceIndex == 0 && list.Status() == ListReady {
			line = lipgloss.NewStyle().Foreground(theme.FaintText).Render("(no records)")
		}
		suffix := " "
		if rowIndex < len(scrollbar) {
			suffix = scrollbar[rowIndex]
		}
		lines = append(lines, line+" "+suffix)
	}
	return lines
}

func (m Model) renderStatusLine(list *ListModel) string {
	theme := m.theme
	filter := list.Filter()

	var left string
	switch {
	case filter.Active:
		left = lipgloss.NewStyle().Foreground(theme.AccentText).Render("/" + filter.Input + "▌")
	case filter.Input != "":
		left = lipgloss.NewStyle().Foreground(theme.AccentText).Render("/" + filter.Input)
	case list.Status() == ListLoading:
		left = lipgloss.NewStyle().Foreground(theme.LoadingText).Render("Loading…")
	case list.Status() == ListFailed:
		left = lipgloss.NewStyle().Foreground(theme.ErrorText).Render("Error: " + list.ErrorMessage())
	default:
		left = lipgloss.NewStyle().Foreground(theme.FaintText).
			Render(fmt.Sprintf("%d records", list.TotalCount()))
	}

	right := ""
	if list.Collection.PageSize() > 0 {
		right = lipgloss.NewStyle().Foreground(theme.FaintText).
			Render(fmt.Sprintf("page %d/%d", list.PageNumber(), list.TotalPages()))
	}

	gap := m.width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderHelpLine(list *ListModel) string {
	help := "↑/↓: move • tab: switch • r: reload • /: filter • enter: preview • q: quit"
	if mutable(list.Collection) {
		help = "↑/↓: move • n: new • e: edit • d: delete • /: filter • enter: preview • q: quit"
	}
	return lipgloss.NewStyle().Foreground(m.theme.HelpText).Render(ansi.Truncate(help, m.width, "…"))
}

// boxLines renders content inside the standard modal border and
// returns it as lines for splicing.
func (m Model) boxLines(content string, width int) []string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.BorderColor).
		Padding(0, 1).
		Width(width).
		Render(content)
	return strings.Split(box, "\n")
}

// formModalLines renders the form modal. Also used for click
// hit-testing, so it must be a pure function of the model.
func (m Model) formModalLines() []string {
	theme := m.theme
	form := &m.modal.form
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).Render(form.Title()))
	b.WriteString("\n\n")

	label := lipgloss.NewStyle().Foreground(theme.FaintText)
	for index := range form.inputs {
		input := &form.inputs[index]
		name := input.field.Label
		if input.field.Required && !(form.mode == FormEdit && input.field.KeepCurrentWhenBlank) {
			name += " *"
		}
		b.WriteString(label.Render(name) + "\n")
		if input.field.Kind == FieldMultiline {
			b.WriteString(input.area.View())
		} else {
			b.WriteString(input.text.View())
		}
		b.WriteString("\n")
	}

	for _, problem := range form.Problems() {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ErrorText).Render("• "+problem) + "\n")
	}

	b.WriteString("\n")
	switch form.Status() {
	case FormSubmitting:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.LoadingText).Render("Saving…"))
	case FormSaved:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.SuccessText).Render(form.SavedNotice()))
	case FormFailed:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ErrorText).Render(form.ErrorMessage()))
	default:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.HelpText).
			Render("tab: next field • ctrl+s: save • esc: cancel"))
	}

	return m.boxLines(b.String(), modalWidth)
}

// confirmModalLines renders the delete confirmation.
func (m Model) confirmModalLines() []string {
	theme := m.theme
	confirm := m.confirm
	noun := strings.TrimSuffix(strings.ToLower(confirm.collection.Name()), "s")

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).
		Render(fmt.Sprintf("Delete %s?", noun)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.NormalText).
		Render(ansi.Truncate("“"+confirm.rowLabel+"”", modalWidth-6, "…")))
	b.WriteString("\n\n")
	switch {
	case confirm.deleting:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.LoadingText).Render("Deleting…"))
	case confirm.errorMessage != "":
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ErrorText).Render(confirm.errorMessage))
	default:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.HelpText).Render("y: delete • n: cancel"))
	}
	return m.boxLines(b.String(), 46)
}

// previewModalLines renders the read-only record view.
func (m Model) previewModalLines() []string {
	theme := m.theme
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).Render(m.preview.title))
	b.WriteString("\n\n")
	b.WriteString(m.preview.viewport.View())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.HelpText).Render("↑/↓: scroll • esc: close"))
	return m.boxLines(b.String(), m.preview.viewport.Width+2)
}

// spliceOverlay centers the overlay lines and paints them over the
// base view.
func (m Model) spliceOverlay(view string, lines []string) string {
	if len(lines) == 0 {
		return view
	}
	blockWidth := ansi.StringWidth(lines[0])
	anchorX, anchorY := tui.CenterAnchor(m.width, m.height, blockWidth, len(lines))
	return tui.SpliceOverlay(view, lines, anchorX, anchorY)
}

// pointInOverlay reports whether a screen coordinate falls inside the
// centered overlay described by lines.
func (m Model) pointInOverlay(x, y int, lines []string) bool {
	if len(lines) == 0 {
		return false
	}
	blockWidth := ansi.StringWidth(lines[0])
	anchorX, anchorY := tui.CenterAnchor(m.width, m.height, blockWidth, len(lines))
	return x >= anchorX && x < anchorX+blockWidth &&
		y >= anchorY && y < anchorY+len(lines)
}
