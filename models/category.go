// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pavel Avdeyev

package models

// Category identifies one independently synchronized slice of the dataset.
// Each category owns exactly one file in the remote store and its own
// merge policy; there is no cross-category transaction.
type Category string

const (
	// CategoryNotes holds the note collection.
	// The only category with full conflict detection.
	CategoryNotes Category = "notes"

	// CategoryTasks holds the to-do list, merged union-by-id.
	CategoryTasks Category = "tasks"

	// CategoryFolders holds the folder tree, merged union-by-id.
	CategoryFolders Category = "folders"

	// CategorySections holds folder sections, merged union-by-id.
	CategorySections Category = "sections"

	// CategorySettings holds user preferences, merged by shallow key union.
	CategorySettings Category = "settings"

	// CategoryActivity holds the append-only usage log, merged by union
	// and never pruned during sync.
	CategoryActivity Category = "activity"

	// CategoryMediaIndex holds the attachment catalog,
	// replaced as a whole document.
	CategoryMediaIndex Category = "media_index"

	// CategoryAppLock holds the PIN/biometric lock configuration,
	// replaced as a whole document with the local copy authoritative.
	CategoryAppLock Category = "app_lock"
)

// AllCategories returns every sync category in a stable order.
// The order is informational only; categories sync independently.
func AllCategories() []Category {
	return []Category{
		CategoryNotes,
		CategoryTasks,
		CategoryFolders,
		CategorySections,
		CategorySettings,
		CategoryActivity,
		CategoryMediaIndex,
		CategoryAppLock,
	}
}

// FileName returns the fixed name of the category's file
// in the remote store.
func (c Category) FileName() string {
	return string(c) + "_sync.json"
}

// Valid reports whether c is one of the known sync categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryNotes, CategoryTasks, CategoryFolders, CategorySections,
		CategorySettings, CategoryActivity, CategoryMediaIndex, CategoryAppLock:
		return true
	}
	return false
}
