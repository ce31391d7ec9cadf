package models

import "time"

// Task is a to-do item. Tasks merge by union-by-id with per-item
// latest-wins, so concurrent edits to the same task keep the newer side.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Notes       string     `json:"notes,omitempty"`
	Done        bool       `json:"done"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	FolderID    *string    `json:"folder_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (t Task) Key() string          { return t.ID }
func (t Task) CompareAt() time.Time { return t.UpdatedAt }
