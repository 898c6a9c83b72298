// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

package adminui

import (
	"errors"
	"testing"

	"github.com/fathomline/studioctl/lib/tui"
)

func newListFixture(pages map[int]Page, pageSize int) (*fakeCollection, ListModel) {
	collection := &fakeCollection{name: "Things", pages: pages, pageSize: pageSize}
	list := NewListModel(collection, tui.DefaultTheme)
	list.SetSize(80, 10)
	return collection, list
}

func TestLoadPopulatesRows(t *testing.T) {
	_, list := newListFixture(map[int]Page{
		1: {Rows: makeRows("a", 3), TotalCount: 3},
	}, 0)

	cmd := list.LoadPage(1)
	if list.Status() != ListLoading {
		t.Fatalf("status = %v, want loading", list.Status())
	}
	msg := runCmd(cmd).(listLoadedMsg)
	if !list.HandleLoaded(msg) {
		t.Fatal("fresh result discarded")
	}
	if list.Status() != ListReady {
		t.Errorf("status = %v, want ready", list.Status())
	}
	if len(list.VisibleRows()) != 3 || list.TotalCount() != 3 {
		t.Errorf("rows = %d, total = %d", len(list.VisibleRows()), list.TotalCount())
	}
}

func TestOverlappingLoadsLatestIssuedWins(t *testing.T) {
	_, list := newListFixture(map[int]Page{
		1: {Rows: makeRows("first", 2), TotalCount: 2},
		2: {Rows: makeRows("second", 5), TotalCount: 5},
	}, 0)

	firstCmd := list.LoadPage(1)
	secondCmd := list.LoadPage(2)
	firstMsg := runCmd(firstCmd).(listLoadedMsg)
	secondMsg := runCmd(secondCmd).(listLoadedMsg)

	// Responses arrive out of order: the later-issued load completes
	// first. Its result must stick, and the earlier one must be
	// discarded when it finally lands.
	if !list.HandleLoaded(secondMsg) {
		t.Fatal("latest-issued result discarded")
	}
	if list.HandleLoaded(firstMsg) {
		t.Fatal("stale result applied")
	}
	if len(list.VisibleRows()) != 5 {
		t.Errorf("rows = %d, want the 5 from the latest load", len(list.VisibleRows()))
	}

	// Same property when responses arrive in issue order.
	thirdCmd := list.LoadPage(1)
	fourthCmd := list.LoadPage(2)
	if list.HandleLoaded(runCmd(thirdCmd).(listLoadedMsg)) {
		t.Fatal("superseded result applied")
	}
	if !list.HandleLoaded(runCmd(fourthCmd).(listLoadedMsg)) {
		t.Fatal("latest result discarded")
	}
}

func TestLoadFromReplacedListIsDiscarded(t *testing.T) {
	collection := &fakeCollection{
		name: "Things",
		pages: map[int]Page{
			1: {Rows: makeRows("current", 3), TotalCount: 3},
		},
	}
	first := NewListModel(collection, tui.DefaultTheme)
	first.SetSize(80, 10)
	inFlight := first.LoadPage(1)

	// Logout tears the tab down; the list built after the next login
	// also issues generation 1 for the same collection name, so only
	// the instance token tells the two loads apart.
	second := NewListModel(collection, tui.DefaultTheme)
	second.SetSize(80, 10)
	if !second.HandleLoaded(runCmd(second.LoadPage(1)).(listLoadedMsg)) {
		t.Fatal("fresh list's own load discarded")
	}

	if second.HandleLoaded(runCmd(inFlight).(listLoadedMsg)) {
		t.Fatal("load issued by the replaced list was accepted")
	}
	if len(second.VisibleRows()) != 3 {
		t.Errorf("rows = %d after stale delivery, want 3", len(second.VisibleRows()))
	}
}

func TestLoadFailureKeepsPreviousRows(t *testing.T) {
	collection, list := newListFixture(map[int]Page{
		1: {Rows: makeRows("a", 3), TotalCount: 3},
	}, 0)
	list.HandleLoaded(runCmd(list.LoadPage(1)).(listLoadedMsg))

	collection.mutex.Lock()
	collection.loadErr = errors.New("backend unreachable")
	collection.mutex.Unlock()

	list.HandleLoaded(runCmd(list.Reload()).(listLoadedMsg))
	if list.Status() != ListFailed {
		t.Fatalf("status = %v, want failed", list.Status())
	}
	if list.ErrorMessage() == "" {
		t.Error("error message missing")
	}
	if len(list.VisibleRows()) != 3 {
		t.Errorf("previous rows dropped on failure: %d left", len(list.VisibleRows()))
	}
}

func TestEmptyPageBeyondEndIsReadyNotFailed(t *testing.T) {
	_, list := newListFixture(map[int]Page{
		9: {Rows: nil, TotalCount: 17},
	}, 15)

	list.HandleLoaded(runCmd(list.LoadPage(9)).(listLoadedMsg))
	if list.Status() != ListReady {
		t.Errorf("status = %v, want ready", list.Status())
	}
	if list.TotalCount() != 17 {
		t.Errorf("total = %d, want 17", list.TotalCount())
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total, size, want int
	}{
		{0, 15, 1},
		{15, 15, 1},
		{16, 15, 2},
		{45, 15, 3},
		{5, 0, 1}, // unpaginated
	}
	for _, tc := range cases {
		_, list := newListFixture(map[int]Page{
			1: {Rows: nil, TotalCount: tc.total},
		}, tc.size)
		list.HandleLoaded(runCmd(list.LoadPage(1)).(listLoadedMsg))
		if got := list.TotalPages(); got != tc.want {
			t.Errorf("TotalPages(total=%d, size=%d) = %d, want %d", tc.total, tc.size, got, tc.want)
		}
	}
}

func TestPageAfterDeletionClampsToLastPage(t *testing.T) {
	// 16 records, page size 15: page 2 holds a single record. After
	// deleting it, the reload must land on page 1, not an empty page 2.
	_, list := newListFixture(map[int]Page{
		2: {Rows: makeRows("tail", 1), TotalCount: 16},
	}, 15)
	list.HandleLoaded(runCmd(list.LoadPage(2)).(listLoadedMsg))

	if got := list.PageAfterDeletion(); got != 1 {
		t.Errorf("PageAfterDeletion = %d, want 1", got)
	}
}

func TestPageAfterDeletionStaysWhenPageStillExists(t *testing.T) {
	_, list := newListFixture(map[int]Page{
		2: {Rows: makeRows("mid", 15), TotalCount: 45},
	}, 15)
	list.HandleLoaded(runCmd(list.LoadPage(2)).(listLoadedMsg))

	if got := list.PageAfterDeletion(); got != 2 {
		t.Errorf("PageAfterDeletion = %d, want 2", got)
	}
}

func TestPageAfterDeletionOnEmptiedCollection(t *testing.T) {
	_, list := newListFixture(map[int]Page{
		1: {Rows: makeRows("only", 1), TotalCount: 1},
	}, 15)
	list.HandleLoaded(runCmd(list.LoadPage(1)).(listLoadedMsg))

	if got := list.PageAfterDeletion(); got != 1 {
		t.Errorf("PageAfterDeletion = %d, want 1", got)
	}
}

func TestFilterNarrowsVisibleRows(t *testing.T) {
	_, list := newListFixture(map[int]Page{
		1: {
			Rows: []Row{
				{ID: "1", Cells: []string{"Shipping the redesign", "Engineering"}},
				{ID: "2", Cells: []string{"Quarterly retrospective", "Process"}},
				{ID: "3", Cells: []string{"Redesigning the brand", "Design"}},
			},
			TotalCount: 3,
		},
	}, 0)
	list.HandleLoaded(runCmd(list.LoadPage(1)).(listLoadedMsg))

	list.Filter().Input = "redesign"
	visible := list.VisibleRows()
	if len(visible) != 2 {
		t.Fatalf("visible = %d, want 2", len(visible))
	}
	for _, row := range visible {
		if row.ID == "2" {
			t.Error("non-matching row survived the filter")
		}
	}

	list.Filter().Clear()
	if len(list.VisibleRows()) != 3 {
		t.Error("clearing the filter must restore all rows")
	}
}

func TestReloadKeepsSelectionByID(t *testing.T) {
	_, list := newListFixture(map[int]Page{
		1: {Rows: makeRows("a", 5), TotalCount: 5},
	}, 0)
	list.HandleLoaded(runCmd(list.LoadPage(1)).(listLoadedMsg))
	list.MoveCursor(3)
	selected := list.Selected()
	if selected == nil || selected.ID != "a-3" {
		t.Fatalf("selected = %+v", selected)
	}

	// The reload returns the rows in a different order.
	reordered := []Row{
		{ID: "a-3", Cells: []string{"a title 3", "detail"}},
		{ID: "a-0", Cells: []string{"a title 0", "detail"}},
		{ID: "a-1", Cells: []string{"a title 1", "detail"}},
	}
	list.HandleLoaded(listLoadedMsg{
		collection: "Things",
		instance:   list.instance,
		generation: list.generation,
		pageNumber: 1,
		page:       Page{Rows: reordered, TotalCount: 3},
	})
	selected = list.Selected()
	if selected == nil || selected.ID != "a-3" {
		t.Errorf("selection lost across reload: %+v", selected)
	}
}
