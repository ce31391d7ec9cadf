package store

import (
	"context"
	"time"

	"github.com/avdeyev/go-note-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// NoteRepository is the local notes table. Notes are the only category
// stored row-per-entity; every other category lives in [DocumentRepository]
// as a single JSON document.
type NoteRepository interface {
	// Save upserts one or more notes by id.
	Save(ctx context.Context, notes ...models.Note) error
	// Get returns the note with the given id or [ErrNoteNotFound].
	Get(ctx context.Context, id string) (models.Note, error)
	// GetAll returns every local note, most recently updated first.
	GetAll(ctx context.Context) ([]models.Note, error)
	// Delete removes the note with the given id.
	Delete(ctx context.Context, id string) error
	// ReplaceAll atomically swaps the whole table for the given set.
	// Used to persist the result of a merge.
	ReplaceAll(ctx context.Context, notes []models.Note) error
	// MarkSynced clears the dirty flag and stamps last_synced_at on the
	// given ids. Notes in conflict state are the caller's job to exclude.
	MarkSynced(ctx context.Context, syncedAt time.Time, ids ...string) error
}

// DocumentRepository stores one opaque JSON document per sync category.
type DocumentRepository interface {
	// Get returns the raw document for the category or [ErrDocumentNotFound].
	Get(ctx context.Context, category models.Category) ([]byte, error)
	// Put upserts the document for the category.
	Put(ctx context.Context, category models.Category, payload []byte) error
}

// KVRepository is a small string key/value table for engine state that
// does not warrant its own schema: device id, last full sync, per-category
// sync markers.
type KVRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// QueueRepository is the durable sync queue table.
type QueueRepository interface {
	// Upsert inserts the item, replacing any existing item for the same
	// entity id. The queue holds at most one item per entity.
	Upsert(ctx context.Context, item models.SyncQueueItem) error
	// List returns items matching the filter, oldest first.
	List(ctx context.Context, filter QueueFilter) ([]models.SyncQueueItem, error)
	// Update rewrites the mutable fields of an existing item by id.
	Update(ctx context.Context, item models.SyncQueueItem) error
	// Delete removes the item with the given id.
	Delete(ctx context.Context, id string) error
	// DeleteByCategory removes every item of the category. Called after a
	// category syncs successfully.
	DeleteByCategory(ctx context.Context, category models.Category) error
}

// QueueFilter narrows a [QueueRepository.List] call. Zero-valued fields
// apply no filter.
type QueueFilter struct {
	Category models.Category
	EntityID string
	Statuses []models.QueueStatus
	Actions  []models.SyncAction
}

// ConflictRepository is the conflict copies table.
type ConflictRepository interface {
	Save(ctx context.Context, cc models.ConflictCopy) error
	// Get returns the copy with the given id or [ErrConflictCopyNotFound].
	Get(ctx context.Context, id string) (models.ConflictCopy, error)
	// List returns copies matching the filter, newest first.
	List(ctx context.Context, filter ConflictFilter) ([]models.ConflictCopy, error)
	// Resolve marks the copy resolved. The row is retained until purged.
	Resolve(ctx context.Context, id string) error
	// PurgeResolved deletes resolved copies created before the cutoff and
	// returns the number of rows removed. Unresolved copies are never purged.
	PurgeResolved(ctx context.Context, olderThan time.Time) (int64, error)
}

// ConflictFilter narrows a [ConflictRepository.List] call. Zero-valued
// fields apply no filter; Resolved nil means both resolved and unresolved.
type ConflictFilter struct {
	NoteID   string
	Resolved *bool
}
