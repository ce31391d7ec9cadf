package models

import "time"

// Folder groups notes and tasks. Folders merge by union-by-id.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (f Folder) Key() string          { return f.ID }
func (f Folder) CompareAt() time.Time { return f.UpdatedAt }

// Section subdivides a folder. Sections merge by union-by-id.
type Section struct {
	ID        string    `json:"id"`
	FolderID  string    `json:"folder_id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s Section) Key() string          { return s.ID }
func (s Section) CompareAt() time.Time { return s.UpdatedAt }
