// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

// Package adminui is the studioctl admin console: a bubbletea program
// with one tab per backend collection (blogs, portfolio, admins,
// contact messages), a generic list/form controller pair driving all
// of them, modal overlays for editing and delete confirmation, and a
// session guard that drops to the login screen whenever the token
// dies.
package adminui

import (
	"context"

	"github.com/fathomline/studioctl/lib/studio"
)

// Column describes one list column.
type Column struct {
	// Title is the header label.
	Title string

	// Weight distributes the available width between columns.
	Weight int
}

// Row is one list entry, already projected to display cells.
type Row struct {
	// ID is the backend record id, used for edit and delete calls and
	// for keeping the cursor on the same record across reloads.
	ID string

	// Cells align with the collection's Columns.
	Cells []string

	// Record is the underlying typed record, for seeding the edit
	// form and rendering the preview.
	Record any
}

// Page is one load result: the visible rows plus the collection-wide
// total the pagination footer needs.
type Page struct {
	Rows       []Row
	TotalCount int
}

// FieldKind selects the input widget for a form field.
type FieldKind int

const (
	// FieldText is a single-line text input.
	FieldText FieldKind = iota

	// FieldMultiline is a multi-line editor.
	FieldMultiline

	// FieldSecret is a masked single-line input.
	FieldSecret

	// FieldFile is a filesystem path; the file is read at submit time
	// and uploaded as the record's attachment.
	FieldFile
)

// Field describes one form field of a collection.
type Field struct {
	// Name is the payload key the collection expects in the values
	// map handed to Create and Update.
	Name string

	// Label is the human-readable form label.
	Label string

	Kind FieldKind

	// Required fields must be non-blank before submit.
	Required bool

	// KeepCurrentWhenBlank marks a field that may be left blank when
	// editing, meaning "keep the stored value" (the admin password).
	// Such a field is still required on create, and the collection
	// omits it from the update payload when blank.
	KeepCurrentWhenBlank bool
}

// Collection adapts one backend resource to the generic list and form
// controllers. A collection returning no Fields is read-only: the
// console offers neither create, edit, nor delete on it.
type Collection interface {
	// Name is the tab label, e.g. "Blogs".
	Name() string

	Columns() []Column

	// PageSize returns the server-side page window, or 0 when the
	// backend returns the full collection in one response.
	PageSize() int

	// Load fetches one page. page is 1-based and ignored by
	// unpaginated collections. A page past the end of the collection
	// yields an empty Page with the true TotalCount, not an error.
	Load(ctx context.Context, page int) (Page, error)

	Fields() []Field

	// Seed maps an existing record to initial form values for edit
	// mode, keyed by Field.Name.
	Seed(row Row) map[string]string

	Create(ctx context.Context, values map[string]string, attachment *studio.FileAttachment) error
	Update(ctx context.Context, id string, values map[string]string, attachment *studio.FileAttachment) error
	Delete(ctx context.Context, id string) error

	// Preview renders a read-only detail view of a record, or ""
	// when the collection has none.
	Preview(row Row, width int) string
}

// mutable reports whether the collection supports create/edit/delete.
func mutable(collection Collection) bool {
	return len(collection.Fields()) > 0
}
