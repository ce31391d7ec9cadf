// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pavel Avdeyev

package models

import "time"

// SyncAction is the kind of pending mutation a queue item represents.
type SyncAction string

const (
	ActionCreate SyncAction = "create"
	ActionUpdate SyncAction = "update"
	ActionDelete SyncAction = "delete"
)

// Valid reports whether a is a known sync action.
func (a SyncAction) Valid() bool {
	return a == ActionCreate || a == ActionUpdate || a == ActionDelete
}

// QueueStatus is the processing state of a sync queue item.
type QueueStatus string

const (
	// QueuePending means the item awaits its next sync attempt.
	QueuePending QueueStatus = "pending"

	// QueueProcessing means a sync cycle is currently working the item.
	QueueProcessing QueueStatus = "processing"

	// QueueFailed means the last attempt failed; the item stays
	// retryable until the retry ceiling is reached.
	QueueFailed QueueStatus = "failed"

	// QueueCompleted means the item's mutation reached the remote store.
	QueueCompleted QueueStatus = "completed"
)

// SyncQueueItem is one durable unit of pending sync work. The queue keeps
// at most one live item per entity: re-enqueueing an entity replaces the
// previous item instead of appending a duplicate.
type SyncQueueItem struct {
	// ID is the unique identifier of the queue item.
	ID string `json:"id"`

	// EntityID is the id of the entity whose mutation is pending.
	EntityID string `json:"entity_id"`

	// Category is the sync category the entity belongs to.
	Category Category `json:"category"`

	// Action is the kind of mutation to replay.
	Action SyncAction `json:"action"`

	// Timestamp is when the item was (re-)enqueued.
	Timestamp time.Time `json:"timestamp"`

	// RetryCount is the number of failed attempts so far.
	RetryCount int `json:"retry_count"`

	// LastError is the message of the most recent failure, nil when none.
	LastError *string `json:"last_error,omitempty"`

	// Status is the item's processing state.
	Status QueueStatus `json:"status"`
}

// TableName returns the name of the local database table
// associated with the SyncQueueItem model.
func (i *SyncQueueItem) TableName() string {
	return "sync_queue"
}
