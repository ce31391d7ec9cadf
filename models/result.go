package models

import "time"

// SyncResult is the outcome of one full sync pass across all categories.
type SyncResult struct {
	// Success is true only when every category synced.
	Success bool `json:"success"`

	// Partial is true when some categories synced and some failed.
	Partial bool `json:"partial"`

	// Errors lists the categories that failed, empty on full success.
	Errors []Category `json:"errors,omitempty"`

	// Synced lists the categories that completed.
	Synced []Category `json:"synced,omitempty"`

	// AlreadyRunning is true when the pass was skipped because another
	// full sync was in flight; all other fields are zero in that case.
	AlreadyRunning bool `json:"already_running,omitempty"`

	// StartedAt and FinishedAt bound the pass.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Failed reports whether the pass produced no successful category at all.
func (r SyncResult) Failed() bool {
	return !r.Success && !r.Partial && !r.AlreadyRunning
}

// SyncState is the engine-level status shown by the shell's indicator.
type SyncState string

const (
	// StateIdle means no cycle is running and the last one succeeded.
	StateIdle SyncState = "idle"

	// StateSyncing means a sync pass is in flight.
	StateSyncing SyncState = "syncing"

	// StateError means the last pass failed for at least one category.
	StateError SyncState = "error"

	// StateOffline means the engine has no usable credential.
	StateOffline SyncState = "offline"
)
