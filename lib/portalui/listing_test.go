// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package portalui

import (
	"testing"

	"github.com/atriumworks/atrium/lib/portal"
)

func TestGroupByFolderPartition(t *testing.T) {
	records := []portal.FileRecord{
		{ID: 1, Filename: "a.pdf", Folder: "finance"},
		{ID: 2, Filename: "b.pdf", Folder: "hr"},
		{ID: 3, Filename: "c.pdf", Folder: "finance"},
		{ID: 4, Filename: "d.pdf", Folder: "general"},
		{ID: 5, Filename: "e.pdf", Folder: "hr"},
	}

	groups := GroupByFolder(records)

	// First-appearance folder order.
	wantOrder := []string{"finance", "hr", "general"}
	if len(groups) != len(wantOrder) {
		t.Fatalf("got %d groups, want %d", len(groups), len(wantOrder))
	}
	for index, want := range wantOrder {
		if groups[index].Name != want {
			t.Errorf("groups[%d].Name = %q, want %q", index, groups[index].Name, want)
		}
	}

	// Total partition: every record appears exactly once.
	seen := make(map[int64]int)
	total := 0
	for _, group := range groups {
		for _, record := range group.Records {
			seen[record.ID]++
			total++
		}
	}
	if total != len(records) {
		t.Errorf("grouped %d records, want %d", total, len(records))
	}
	for id, count := range seen {
		if count != 1 {
			t.Errorf("record %d appears %d times", id, count)
		}
	}

	// Relative order preserved within a group.
	if groups[0].Records[0].ID != 1 || groups[0].Records[1].ID != 3 {
		t.Errorf("finance order = %v", groups[0].Records)
	}
}

func TestGroupByFolderEmpty(t *testing.T) {
	if groups := GroupByFolder(nil); len(groups) != 0 {
		t.Errorf("got %d groups for empty listing, want 0", len(groups))
	}
}

func TestGroupByFolderBlankFolder(t *testing.T) {
	groups := GroupByFolder([]portal.FileRecord{
		{ID: 1, Filename: "a.pdf", Folder: ""},
	})
	if len(groups) != 1 || groups[0].Name != portal.DefaultFolder {
		t.Fatalf("groups = %+v, want one %q group", groups, portal.DefaultFolder)
	}
}

func TestBuildListItems(t *testing.T) {
	groups := GroupByFolder([]portal.FileRecord{
		{ID: 1, Filename: "a.pdf", Folder: "finance"},
		{ID: 2, Filename: "b.pdf", Folder: "finance"},
		{ID: 3, Filename: "c.pdf", Folder: "hr"},
	})

	items := BuildListItems(groups)
	if len(items) != 5 {
		t.Fatalf("got %d items, want 5", len(items))
	}
	if !items[0].IsHeader || items[0].Folder != "finance" || items[0].Count != 2 {
		t.Errorf("items[0] = %+v", items[0])
	}
	if items[1].IsHeader || items[1].Record.ID != 1 {
		t.Errorf("items[1] = %+v", items[1])
	}
	if !items[3].IsHeader || items[3].Folder != "hr" || items[3].Count != 1 {
		t.Errorf("items[3] = %+v", items[3])
	}
}
