package models

import "time"

// MediaEntry describes one attachment referenced by the media index.
// The binary content itself lives outside the sync payloads.
type MediaEntry struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	NoteID    string    `json:"note_id"`
	CreatedAt time.Time `json:"created_at"`
}

// MediaIndex is the attachment catalog. It syncs as a whole document:
// the local copy replaces the remote one, and the remote copy is adopted
// only when no local index exists yet.
type MediaIndex struct {
	Entries   []MediaEntry `json:"entries"`
	Revision  int64        `json:"revision"`
	UpdatedAt time.Time    `json:"updated_at"`
}
