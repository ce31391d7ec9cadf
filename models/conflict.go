package models

import "time"

// ConflictCopy preserves the losing side of a detected note conflict so
// the user can recover it later. The local note keeps its content and
// points at the copy through ConflictCopyID until resolution.
type ConflictCopy struct {
	// ID is the unique identifier of the conflict copy.
	ID string `json:"id"`

	// NoteID is the note whose concurrent edit produced this copy.
	NoteID string `json:"note_id"`

	// Title is the losing side's title at detection time.
	Title string `json:"title"`

	// Content is the losing side's body at detection time.
	Content string `json:"content"`

	// SyncVersion is the losing side's version at detection time.
	SyncVersion int64 `json:"sync_version"`

	// DeviceID identifies the device that produced the losing revision.
	DeviceID string `json:"device_id"`

	// CreatedAt is when the conflict was detected. Retention of resolved
	// copies is measured against this timestamp.
	CreatedAt time.Time `json:"created_at"`

	// Resolved is true once the user has chosen a resolution.
	// Unresolved copies are kept indefinitely.
	Resolved bool `json:"resolved"`
}

// TableName returns the name of the local database table
// associated with the ConflictCopy model.
func (c *ConflictCopy) TableName() string {
	return "conflict_copies"
}

// ResolutionChoice is the user's decision for one conflict copy.
type ResolutionChoice string

const (
	// ResolutionKeepLocal keeps the surviving note as is and
	// discards the copy's content.
	ResolutionKeepLocal ResolutionChoice = "keep_local"

	// ResolutionUseRemote overwrites the surviving note with the
	// copy's content.
	ResolutionUseRemote ResolutionChoice = "use_remote"

	// ResolutionKeepBoth keeps the surviving note and turns the copy
	// into an independent duplicate note.
	ResolutionKeepBoth ResolutionChoice = "keep_both"
)

// Valid reports whether r is a known resolution choice.
func (r ResolutionChoice) Valid() bool {
	return r == ResolutionKeepLocal || r == ResolutionUseRemote || r == ResolutionKeepBoth
}
