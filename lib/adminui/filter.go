// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

package adminui

import (
	"strings"

	"github.com/junegunn/fzf/src/util"

	"github.com/fathomline/studioctl/lib/tui"
)

// FilterModel is the client-side fuzzy filter over the loaded page.
// It narrows what is displayed; it never round-trips to the backend,
// and the pagination footer keeps reporting the server-side totals.
type FilterModel struct {
	// Input is the current filter query text.
	Input string

	// Active is true while the filter input has keyboard focus (the
	// user pressed / to start typing).
	Active bool

	slab *util.Slab
}

// Apply returns the rows matching the current query, scored with
// fzf's matcher against the row's concatenated cells. Row order is
// preserved; the filter narrows, it does not re-rank.
func (filter *FilterModel) Apply(rows []Row) []Row {
	if filter.Input == "" {
		return rows
	}
	if filter.slab == nil {
		filter.slab = tui.NewSlab()
	}
	pattern := []rune(strings.ToLower(filter.Input))

	var matched []Row
	for _, row := range rows {
		haystack := strings.Join(row.Cells, " ")
		if tui.FuzzyMatch(haystack, pattern, filter.slab).Matched {
			matched = append(matched, row)
		}
	}
	return matched
}

// HandleRune appends a typed character to the query.
func (filter *FilterModel) HandleRune(character rune) {
	filter.Input += string(character)
}

// HandleBackspace removes the last character. Returns false when the
// query was already empty.
func (filter *FilterModel) HandleBackspace() bool {
	if filter.Input == "" {
		return false
	}
	runes := []rune(filter.Input)
	filter.Input = string(runes[:len(runes)-1])
	return true
}

// Clear resets the query and drops focus.
func (filter *FilterModel) Clear() {
	filter.Input = ""
	filter.Active = false
}
