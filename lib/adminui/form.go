// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

package adminui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fathomline/studioctl/lib/studio"
)

// FormMode distinguishes creating a record from editing one.
type FormMode int

const (
	FormCreate FormMode = iota
	FormEdit
)

// FormStatus is the form controller's lifecycle state.
type FormStatus int

const (
	// FormEditing accepts input.
	FormEditing FormStatus = iota

	// FormSubmitting has a mutation in flight; input and further
	// submits are ignored until the result lands.
	FormSubmitting

	// FormSaved shows the success notice before the modal closes.
	FormSaved

	// FormFailed shows the backend's rejection; the draft is intact
	// and editable.
	FormFailed
)

// savedNoticeDuration is how long the success notice stays up before
// the modal closes and the list reloads.
const savedNoticeDuration = 1500 * time.Millisecond

// formResultMsg carries a submit outcome back into the Update loop.
type formResultMsg struct {
	collection string
	err        error
}

// formSavedTickMsg fires when the success notice has been shown long
// enough.
type formSavedTickMsg struct {
	collection string
}

// fieldInput pairs a field definition with its input widget.
type fieldInput struct {
	field Field
	text  textinput.Model
	area  textarea.Model
}

func (f *fieldInput) value() string {
	if f.field.Kind == FieldMultiline {
		return f.area.Value()
	}
	return f.text.Value()
}

func (f *fieldInput) setValue(value string) {
	if f.field.Kind == FieldMultiline {
		f.area.SetValue(value)
		return
	}
	f.text.SetValue(value)
}

func (f *fieldInput) focus() tea.Cmd {
	if f.field.Kind == FieldMultiline {
		return f.area.Focus()
	}
	return f.text.Focus()
}

func (f *fieldInput) blur() {
	if f.field.Kind == FieldMultiline {
		f.area.Blur()
		return
	}
	f.text.Blur()
}

func (f *fieldInput) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.field.Kind == FieldMultiline {
		f.area, cmd = f.area.Update(msg)
	} else {
		f.text, cmd = f.text.Update(msg)
	}
	return cmd
}

// FormModel is the generic form controller inside the modal shell.
type FormModel struct {
	collection Collection
	mode       FormMode
	recordID   string

	inputs []fieldInput
	focus  int

	status       FormStatus
	problems     []string
	errorMessage string

	width int
}

// NewFormModel builds a form for the collection. In edit mode the
// inputs are seeded from the selected row.
func NewFormModel(collection Collection, mode FormMode, row *Row) FormModel {
	form := FormModel{
		collection: collection,
		mode:       mode,
		width:      56,
	}
	var seed map[string]string
	if mode == FormEdit && row != nil {
		form.recordID = row.ID
		seed = collection.Seed(*row)
	}

	for _, field := range collection.Fields() {
		input := fieldInput{field: field}
		if field.Kind == FieldMultiline {
			input.area = textarea.New()
			input.area.SetWidth(form.width - 4)
			input.area.SetHeight(6)
			input.area.CharLimit = 0
		} else {
			input.text = textinput.New()
			input.text.CharLimit = 0
			if field.Kind == FieldSecret {
				input.text.EchoMode = textinput.EchoPassword
			}
			if field.Kind == FieldSecret && mode == FormEdit && field.KeepCurrentWhenBlank {
				input.text.Placeholder = "leave blank to keep current"
			}
			if field.Kind == FieldFile {
				input.text.Placeholder = "path to file (optional)"
			}
		}
		input.setValue(seed[field.Name])
		form.inputs = append(form.inputs, input)
	}
	return form
}

// Status returns the current lifecycle state.
func (m *FormModel) Status() FormStatus { return m.status }

// Mode returns whether the form creates or edits.
func (m *FormModel) Mode() FormMode { return m.mode }

// Problems returns the client-side validation failures from the last
// submit attempt.
func (m *FormModel) Problems() []string { return m.problems }

// ErrorMessage returns the backend rejection shown under the form.
func (m *FormModel) ErrorMessage() string { return m.errorMessage }

// Value returns the current draft value of the named field.
func (m *FormModel) Value(name string) string {
	for index := range m.inputs {
		if m.inputs[index].field.Name == name {
			return m.inputs[index].value()
		}
	}
	return ""
}

// SetValue overwrites a draft field; used by tests and by seeding.
func (m *FormModel) SetValue(name, value string) {
	for index := range m.inputs {
		if m.inputs[index].field.Name == name {
			m.inputs[index].setValue(value)
			return
		}
	}
}

// FocusFirst gives keyboard focus to the first input.
func (m *FormModel) FocusFirst() tea.Cmd {
	m.focus = 0
	return m.syncFocus()
}

// CycleFocus moves focus by delta across the inputs, wrapping.
func (m *FormModel) CycleFocus(delta int) tea.Cmd {
	if len(m.inputs) == 0 {
		return nil
	}
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	return m.syncFocus()
}

func (m *FormModel) syncFocus() tea.Cmd {
	var cmd tea.Cmd
	for index := range m.inputs {
		if index == m.focus {
			cmd = m.inputs[index].focus()
		} else {
			m.inputs[index].blur()
		}
	}
	return cmd
}

// HandleInput routes a message to the focused input. Input is frozen
// while a submit is in flight and after success.
func (m *FormModel) HandleInput(msg tea.Msg) tea.Cmd {
	if m.status == FormSubmitting || m.status == FormSaved {
		return nil
	}
	if _, isKey := msg.(tea.KeyMsg); isKey && m.status == FormFailed {
		// A keystroke after a rejection returns the form to the
		// editing state. Ambient messages (cursor blink ticks) are
		// still forwarded below but leave the error banner up.
		m.status = FormEditing
	}
	if m.focus < 0 || m.focus >= len(m.inputs) {
		return nil
	}
	return m.inputs[m.focus].update(msg)
}

// validate returns the unmet requirements, in field order.
func (m *FormModel) validate() []string {
	var problems []string
	for index := range m.inputs {
		field := m.inputs[index].field
		required := field.Required
		if field.KeepCurrentWhenBlank && m.mode == FormEdit {
			required = false
		}
		if required && strings.TrimSpace(m.inputs[index].value()) == "" {
			problems = append(problems, fmt.Sprintf("%s is required", field.Label))
		}
	}
	return problems
}

// Submit validates the draft and, if clean, issues the mutation. A
// submit while one is already in flight is a no-op.
func (m *FormModel) Submit() tea.Cmd {
	if m.status == FormSubmitting || m.status == FormSaved {
		return nil
	}
	m.problems = m.validate()
	if len(m.problems) > 0 {
		m.status = FormEditing
		return nil
	}

	values := make(map[string]string)
	var attachmentPath string
	for index := range m.inputs {
		field := m.inputs[index].field
		value := m.inputs[index].value()
		if field.Kind == FieldFile {
			attachmentPath = strings.TrimSpace(value)
			continue
		}
		values[field.Name] = value
	}

	m.status = FormSubmitting
	m.errorMessage = ""

	collection := m.collection
	name := collection.Name()
	mode := m.mode
	recordID := m.recordID
	return func() tea.Msg {
		attachment, closeAttachment, err := openAttachment(attachmentPath)
		if err != nil {
			return formResultMsg{collection: name, err: err}
		}
		defer closeAttachment()

		if mode == FormCreate {
			err = collection.Create(context.Background(), values, attachment)
		} else {
			err = collection.Update(context.Background(), recordID, values, attachment)
		}
		return formResultMsg{collection: name, err: err}
	}
}

// openAttachment opens the file behind a form's file field. An empty
// path means no attachment.
func openAttachment(path string) (*studio.FileAttachment, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open attachment: %w", err)
	}
	attachment := &studio.FileAttachment{
		Name:   filepath.Base(path),
		Reader: file,
	}
	return attachment, func() { file.Close() }, nil
}

// HandleResult applies a submit outcome. On success the form flips to
// the saved notice and arms the timer that will close the modal; on
// failure the draft stays editable under the error banner.
func (m *FormModel) HandleResult(msg formResultMsg) tea.Cmd {
	if m.status != FormSubmitting {
		return nil
	}
	if msg.err != nil {
		m.status = FormFailed
		m.errorMessage = msg.err.Error()
		return nil
	}
	m.status = FormSaved
	name := msg.collection
	return tea.Tick(savedNoticeDuration, func(time.Time) tea.Msg {
		return formSavedTickMsg{collection: name}
	})
}

// Title returns the modal heading.
func (m *FormModel) Title() string {
	noun := strings.TrimSuffix(strings.ToLower(m.collection.Name()), "s")
	if m.mode == FormCreate {
		return "New " + noun
	}
	return "Edit " + noun
}

// SavedNotice returns the success banner text.
func (m *FormModel) SavedNotice() string {
	noun := strings.TrimSuffix(m.collection.Name(), "s")
	return fmt.Sprintf("%s saved successfully!", noun)
}
