// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package portalui

import (
	"github.com/atriumworks/atrium/lib/portal"
)

// FolderGroup is one folder's worth of the file listing: the folder
// name and the records filed under it, in server order.
type FolderGroup struct {
	Name    string
	Records []portal.FileRecord
}

// GroupByFolder folds a flat server listing into folder groups. Folders
// appear in order of first appearance in the listing, and records keep
// their relative order within each group. The result is a partition:
// every record lands in exactly one group, and an empty listing yields
// no groups. Records with a blank folder are grouped under the default
// folder name.
func GroupByFolder(records []portal.FileRecord) []FolderGroup {
	var groups []FolderGroup
	groupIndex := make(map[string]int)

	for _, record := range records {
		folder := record.Folder
		if folder == "" {
			folder = portal.DefaultFolder
		}

		index, seen := groupIndex[folder]
		if !seen {
			index = len(groups)
			groupIndex[folder] = index
			groups = append(groups, FolderGroup{Name: folder})
		}
		groups[index].Records = append(groups[index].Records, record)
	}

	return groups
}

// ListItem is a single row in the rendered file list: either a folder
// header or a file entry.
type ListItem struct {
	// IsHeader is true for folder header rows.
	IsHeader bool

	// For headers: the folder name and how many files it holds.
	Folder string
	Count  int

	// For file rows: the record.
	Record portal.FileRecord
}

// BuildListItems flattens folder groups into display rows: a header row
// per folder followed by its file rows.
func BuildListItems(groups []FolderGroup) []ListItem {
	var items []ListItem
	for _, group := range groups {
		items = append(items, ListItem{
			IsHeader: true,
			Folder:   group.Name,
			Count:    len(group.Records),
		})
		for _, record := range group.Records {
			items = append(items, ListItem{Record: record})
		}
	}
	return items
}
