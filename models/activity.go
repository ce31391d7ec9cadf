package models

import "time"

// Activity event kinds recorded by the app.
const (
	ActivityNoteCreated  = "note_created"
	ActivityNoteUpdated  = "note_updated"
	ActivityNoteArchived = "note_archived"
	ActivityTaskDone     = "task_done"
	ActivityAppOpened    = "app_opened"
)

// ActivityEntry is one row of the append-only usage log. Entries merge by
// union and are never deleted during sync.
type ActivityEntry struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	EntityID  *string   `json:"entity_id,omitempty"`
	DeviceID  string    `json:"device_id"`
	Timestamp time.Time `json:"timestamp"`
}

func (a ActivityEntry) Key() string          { return a.ID }
func (a ActivityEntry) CompareAt() time.Time { return a.Timestamp }
