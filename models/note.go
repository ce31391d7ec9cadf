package models

import "time"

// Note is the primary user-facing entity of the application.
// It is the only category with full conflict detection: concurrent edits
// on different devices are reconciled through SyncVersion and IsDirty
// instead of silently overwriting either side.
type Note struct {
	// ID is the globally unique identifier of the note,
	// generated on the device that created it.
	ID string `json:"id"`

	// Title is the display title of the note.
	Title string `json:"title"`

	// Content is the note body. The sync layer treats it as opaque text;
	// rich-text structure is the editor's concern.
	Content string `json:"content"`

	// FolderID optionally places the note inside a folder.
	FolderID *string `json:"folder_id,omitempty"`

	// SectionID optionally places the note inside a section of its folder.
	SectionID *string `json:"section_id,omitempty"`

	// Pinned marks the note as pinned to the top of listings.
	Pinned bool `json:"pinned"`

	// Archived hides the note from the main listing without deleting it.
	Archived bool `json:"archived"`

	// CreatedAt is the timestamp when the note was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the last local modification.
	UpdatedAt time.Time `json:"updated_at"`

	// SyncVersion is a monotonically increasing counter bumped every time
	// a merged state of this note is confirmed against the remote store.
	// Local edits never bump it directly.
	SyncVersion int64 `json:"sync_version"`

	// IsDirty is true when the note has local modifications that have not
	// been confirmed by a completed sync cycle.
	IsDirty bool `json:"is_dirty"`

	// SyncStatus reflects the note's position in the sync lifecycle.
	SyncStatus SyncStatus `json:"sync_status"`

	// LastSyncedAt is the timestamp of the last sync cycle that
	// confirmed this note, nil if it has never synced.
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`

	// HasConflict is true while an unresolved conflict copy exists for
	// this note. When true, ConflictCopyID references that copy.
	HasConflict bool `json:"has_conflict"`

	// ConflictCopyID references the unresolved ConflictCopy preserving
	// the losing side of a detected conflict.
	ConflictCopyID *string `json:"conflict_copy_id,omitempty"`

	// DeviceID identifies the device that produced the current revision.
	DeviceID string `json:"device_id"`
}

// TableName returns the name of the local database table
// associated with the Note model.
func (n *Note) TableName() string {
	return "notes"
}

// Key returns the merge identity of the note.
func (n Note) Key() string { return n.ID }

// CompareAt returns the recency timestamp used by merge tie-breaking.
func (n Note) CompareAt() time.Time { return n.UpdatedAt }

// SyncStatus describes where an entity stands in the sync lifecycle.
type SyncStatus string

const (
	// StatusSynced means the entity matches the last confirmed merged state.
	StatusSynced SyncStatus = "synced"

	// StatusPending means the entity has local changes awaiting sync.
	StatusPending SyncStatus = "pending"

	// StatusConflict means concurrent edits were detected and an
	// unresolved conflict copy exists for the entity.
	StatusConflict SyncStatus = "conflict"

	// StatusFailed means sync attempts for the entity exhausted their
	// retry budget; the entity stays usable locally.
	StatusFailed SyncStatus = "failed"
)
