package models

import "time"

// SyncMetadata is attached to every remote category file. For the notes
// category the per-entity SyncVersion is authoritative and this block is
// informational; for whole-document categories Version orders writes.
type SyncMetadata struct {
	// LastSyncTime is the moment the writing device produced the payload.
	LastSyncTime time.Time `json:"last_sync_time"`

	// DeviceID identifies the device that wrote the file.
	DeviceID string `json:"device_id"`

	// Version counts confirmed writes of the category file.
	Version int64 `json:"version"`

	// Cursor is an opaque incremental-sync position, empty when unused.
	Cursor string `json:"cursor,omitempty"`
}

// FilePayload is the wire envelope of one remote category file:
// the category's data plus its sync metadata.
type FilePayload[T any] struct {
	Data     T            `json:"data"`
	Metadata SyncMetadata `json:"metadata"`
}

// FileRef identifies a file in the remote store. It is returned by
// FindFile and consumed by ReadFile, WriteFile and DeleteFile, keeping
// the lookup-by-name round trip out of the data operations.
type FileRef struct {
	// ID is the store-assigned identifier of the file.
	ID string `json:"id"`

	// Name is the fixed category file name.
	Name string `json:"name"`

	// ModifiedAt is the store's last-modification timestamp.
	ModifiedAt time.Time `json:"modified_at"`

	// Size is the content length in bytes, when the store reports it.
	Size int64 `json:"size"`
}

// Mergeable constrains entity types that merge by identity and recency:
// tasks, folders, sections, activity entries and notes all qualify.
type Mergeable interface {
	// Key returns the stable merge identity of the entity.
	Key() string

	// CompareAt returns the timestamp used for latest-wins tie-breaking.
	CompareAt() time.Time
}
