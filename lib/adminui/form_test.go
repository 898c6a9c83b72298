// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

package adminui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
)

func blogLikeFields() []Field {
	return []Field{
		{Name: "title", Label: "Title", Kind: FieldText, Required: true},
		{Name: "content", Label: "Content", Kind: FieldMultiline, Required: true},
		{Name: "cover", Label: "Cover image path", Kind: FieldFile},
	}
}

func adminLikeFields() []Field {
	return []Field{
		{Name: "name", Label: "Name", Kind: FieldText, Required: true},
		{Name: "email", Label: "Email", Kind: FieldText, Required: true},
		{Name: "password", Label: "Password", Kind: FieldSecret, Required: true, KeepCurrentWhenBlank: true},
	}
}

func TestValidationBlocksSubmit(t *testing.T) {
	collection := &fakeCollection{name: "Blogs", fields: blogLikeFields()}
	form := NewFormModel(collection, FormCreate, nil)
	form.SetValue("title", "Has a title")
	// content left blank

	if cmd := form.Submit(); cmd != nil {
		t.Fatal("submit must not issue a request with unmet requirements")
	}
	if form.Status() != FormEditing {
		t.Errorf("status = %v, want editing", form.Status())
	}
	problems := form.Problems()
	if len(problems) != 1 || !strings.Contains(problems[0], "Content") {
		t.Errorf("problems = %v", problems)
	}
	if len(collection.createCalls) != 0 {
		t.Error("create called despite validation failure")
	}
}

func TestSubmitCreateSendsValues(t *testing.T) {
	collection := &fakeCollection{name: "Blogs", fields: blogLikeFields()}
	form := NewFormModel(collection, FormCreate, nil)
	form.SetValue("title", "Shipping the redesign")
	form.SetValue("content", "# Hello")

	cmd := form.Submit()
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	if form.Status() != FormSubmitting {
		t.Fatalf("status = %v, want submitting", form.Status())
	}

	msg := runCmd(cmd).(formResultMsg)
	if msg.err != nil {
		t.Fatalf("submit: %v", msg.err)
	}
	if len(collection.createCalls) != 1 {
		t.Fatalf("create calls = %d", len(collection.createCalls))
	}
	values := collection.createCalls[0]
	if values["title"] != "Shipping the redesign" || values["content"] != "# Hello" {
		t.Errorf("values = %v", values)
	}
	if collection.attachments[0] != nil {
		t.Error("no attachment expected for a blank file field")
	}

	tick := form.HandleResult(msg)
	if form.Status() != FormSaved {
		t.Errorf("status = %v, want saved", form.Status())
	}
	if tick == nil {
		t.Error("success must arm the close timer")
	}
}

func TestSubmitOpensAttachment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cover.png")
	if err := os.WriteFile(path, []byte("png-bytes"), 0o644); err != nil {
		t.Fatalf("write attachment: %v", err)
	}

	collection := &fakeCollection{name: "Blogs", fields: blogLikeFields()}
	form := NewFormModel(collection, FormCreate, nil)
	form.SetValue("title", "t")
	form.SetValue("content", "c")
	form.SetValue("cover", path)

	msg := runCmd(form.Submit()).(formResultMsg)
	if msg.err != nil {
		t.Fatalf("submit: %v", msg.err)
	}
	attachment := collection.attachments[0]
	if attachment == nil {
		t.Fatal("attachment missing")
	}
	if attachment.Name != "cover.png" {
		t.Errorf("attachment name = %q", attachment.Name)
	}
}

func TestSubmitMissingAttachmentFails(t *testing.T) {
	collection := &fakeCollection{name: "Blogs", fields: blogLikeFields()}
	form := NewFormModel(collection, FormCreate, nil)
	form.SetValue("title", "t")
	form.SetValue("content", "c")
	form.SetValue("cover", filepath.Join(t.TempDir(), "missing.png"))

	msg := runCmd(form.Submit()).(formResultMsg)
	if msg.err == nil {
		t.Fatal("expected an error for a missing attachment file")
	}
	if len(collection.createCalls) != 0 {
		t.Error("create must not be called when the attachment cannot be read")
	}

	form.HandleResult(msg)
	if form.Status() != FormFailed {
		t.Errorf("status = %v, want failed", form.Status())
	}
	// The draft survives for correction.
	if form.Value("title") != "t" {
		t.Error("draft lost after failure")
	}
}

func TestSubmitFailureKeepsDraftEditable(t *testing.T) {
	collection := &fakeCollection{
		name:      "Blogs",
		fields:    blogLikeFields(),
		createErr: errors.New("validation failed"),
	}
	form := NewFormModel(collection, FormCreate, nil)
	form.SetValue("title", "t")
	form.SetValue("content", "c")

	msg := runCmd(form.Submit()).(formResultMsg)
	form.HandleResult(msg)
	if form.Status() != FormFailed {
		t.Fatalf("status = %v, want failed", form.Status())
	}
	if form.ErrorMessage() == "" {
		t.Error("error message missing")
	}
	if form.Value("title") != "t" || form.Value("content") != "c" {
		t.Error("draft lost after backend rejection")
	}

	// A second submit is allowed after failure.
	if cmd := form.Submit(); cmd == nil {
		t.Error("resubmit after failure must be possible")
	}
}

func TestBlinkTickKeepsFailureBanner(t *testing.T) {
	collection := &fakeCollection{
		name:      "Blogs",
		fields:    blogLikeFields(),
		createErr: errors.New("validation failed"),
	}
	form := NewFormModel(collection, FormCreate, nil)
	form.FocusFirst()
	form.SetValue("title", "t")
	form.SetValue("content", "c")
	form.HandleResult(runCmd(form.Submit()).(formResultMsg))
	if form.Status() != FormFailed {
		t.Fatalf("status = %v, want failed", form.Status())
	}

	// Cursor blink ticks keep arriving while an input is focused; they
	// must not clear the rejection without any user edit.
	form.HandleInput(cursor.BlinkMsg{})
	if form.Status() != FormFailed {
		t.Fatal("blink tick cleared the error banner")
	}
	if form.ErrorMessage() == "" {
		t.Error("error message lost on a blink tick")
	}

	// An actual keystroke resumes editing.
	form.HandleInput(keyPress("x"))
	if form.Status() != FormEditing {
		t.Errorf("status = %v after a keystroke, want editing", form.Status())
	}
}

func TestDoubleSubmitIgnoredWhileInFlight(t *testing.T) {
	collection := &fakeCollection{name: "Blogs", fields: blogLikeFields()}
	form := NewFormModel(collection, FormCreate, nil)
	form.SetValue("title", "t")
	form.SetValue("content", "c")

	first := form.Submit()
	if first == nil {
		t.Fatal("expected a submit command")
	}
	if second := form.Submit(); second != nil {
		t.Error("second submit while in flight must be a no-op")
	}
}

func TestEditSeedsValues(t *testing.T) {
	collection := &fakeCollection{
		name:   "Blogs",
		fields: blogLikeFields(),
		seed:   map[string]string{"title": "Existing", "content": "Body"},
	}
	row := Row{ID: "b1", Cells: []string{"Existing", "x"}}
	form := NewFormModel(collection, FormEdit, &row)

	if form.Value("title") != "Existing" || form.Value("content") != "Body" {
		t.Errorf("seeded values: title=%q content=%q", form.Value("title"), form.Value("content"))
	}

	msg := runCmd(form.Submit()).(formResultMsg)
	if msg.err != nil {
		t.Fatalf("submit: %v", msg.err)
	}
	if len(collection.updateCalls) != 1 || collection.updateCalls[0].id != "b1" {
		t.Errorf("update calls = %+v", collection.updateCalls)
	}
}

func TestPasswordRequiredOnCreateOnly(t *testing.T) {
	collection := &fakeCollection{name: "Admins", fields: adminLikeFields()}

	create := NewFormModel(collection, FormCreate, nil)
	create.SetValue("name", "Rui")
	create.SetValue("email", "rui@fathomline.dev")
	if cmd := create.Submit(); cmd != nil {
		t.Error("blank password must fail validation on create")
	}

	row := Row{ID: "u2"}
	edit := NewFormModel(collection, FormEdit, &row)
	edit.SetValue("name", "Rui")
	edit.SetValue("email", "rui@fathomline.dev")
	cmd := edit.Submit()
	if cmd == nil {
		t.Fatal("blank password must be allowed on edit")
	}
	msg := runCmd(cmd).(formResultMsg)
	if msg.err != nil {
		t.Fatalf("submit: %v", msg.err)
	}
	// The blank password still travels as a value; the collection
	// omits the key from the payload (covered by the studio tests).
	if got := collection.updateCalls[0].values["password"]; got != "" {
		t.Errorf("password value = %q, want empty", got)
	}
}
