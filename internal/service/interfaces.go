// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pavel Avdeyev

// Package service contains the sync engine proper: the per-category merge
// policies, the durable sync queue with capped-backoff retry bookkeeping,
// the conflict store, the sync manager that orchestrates read-merge-write
// cycles against the remote file store, and the thin data services the
// application shell mutates local state through.
//
// The engine is a library. It opens no listeners and renders nothing; the
// shell drives it through [SyncEngine] and hears back through [Observer].
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avdeyev/go-note-sync/models"
)

// TokenRefreshFunc asks the platform's identity collaborator for a fresh
// bearer token. The sync manager invokes it at most once per sync cycle
// when the remote store rejects the current credential.
type TokenRefreshFunc func(ctx context.Context) (string, error)

// Observer receives engine-level notifications. Implementations are called
// synchronously from sync goroutines and must return quickly; anything
// slow belongs on the observer's own goroutine.
type Observer interface {
	// CategoryRestored fires after a category's merged result has been
	// persisted locally. The shell should reload that category's data
	// from the local store.
	CategoryRestored(category models.Category)

	// ConflictsDetected fires when a notes merge produced new conflict
	// copies, carrying how many were created in that cycle.
	ConflictsDetected(count int)

	// SyncCompleted fires at the end of every SyncAll pass that actually
	// ran (skipped re-entrant passes do not notify), carrying the
	// full/partial/failure classification and per-category breakdown.
	SyncCompleted(result models.SyncResult)
}

// SyncEngine is the orchestration surface of the sync subsystem. One
// instance is constructed at application start and injected into every
// consumer; it holds the credential, the in-flight guard and the
// background poll as ordinary fields.
type SyncEngine interface {
	// SyncOne synchronizes a single category end to end: validate the
	// credential, look up the category's remote file, merge remote state
	// with local state under the category's policy, and persist the
	// merged result both remotely and locally. When the remote file does
	// not exist yet, local data is uploaded verbatim as the authoritative
	// first copy. Returns false on any failure; errors never escape, they
	// are logged and recorded into the sync queue for retry.
	SyncOne(ctx context.Context, category models.Category) bool

	// SyncAll runs SyncOne for every category concurrently. A second
	// caller while a pass is in flight gets a result with AlreadyRunning
	// set and nothing else happens. The pass always completes and reports
	// which categories succeeded and which failed; one category's failure
	// never rolls back another's committed write.
	SyncAll(ctx context.Context) models.SyncResult

	// InstantSync is the reaction to a local data-changed signal: an
	// immediate SyncOne with no debounce or batching. Lowest-latency
	// propagation is chosen deliberately over request coalescing.
	InstantSync(ctx context.Context, category models.Category) bool

	// RetryPending re-syncs only the categories that have queue items due
	// under the capped exponential backoff schedule. Shells that do not
	// run the aggressive background poll can drive recovery through this
	// instead. Returns how many queue items were due.
	RetryPending(ctx context.Context) (int, error)

	// StartBackgroundSync launches the poll goroutine that calls SyncAll
	// every interval (DefaultSyncInterval when zero). Called on sign-in.
	// A ticking pass is skipped while a credential is missing or a sync
	// is already in flight.
	StartBackgroundSync(ctx context.Context, interval time.Duration)

	// StopBackgroundSync cancels the poll goroutine and waits for it to
	// exit. An in-flight sync pass is not aborted; the cleared credential
	// makes the next attempt fail fast instead. Called on sign-out.
	StopBackgroundSync()

	// SetToken installs the bearer credential used for all remote calls.
	SetToken(token string)

	// ClearToken drops the credential, moving the engine to the offline
	// state. Sign-out calls this together with StopBackgroundSync.
	ClearToken()

	// Subscribe registers an observer for engine notifications.
	Subscribe(observer Observer)

	// State reports the engine-level status for the shell's indicator:
	// offline without a credential, syncing while a pass runs, error when
	// the last pass had failures, idle otherwise.
	State() models.SyncState

	// LastFullSync returns when the last non-failed SyncAll pass
	// finished, or the zero time when no pass has completed yet.
	LastFullSync(ctx context.Context) (time.Time, error)

	// LastCategorySync returns when the category last synced
	// successfully, or the zero time when it never has.
	LastCategorySync(ctx context.Context, category models.Category) (time.Time, error)
}

// InstantSyncer is the slice of [SyncEngine] the data services use to push
// a category right after a local mutation.
type InstantSyncer interface {
	InstantSync(ctx context.Context, category models.Category) bool
}

// SyncQueueService is the durable record of pending local mutations and of
// unresolved conflict copies. The queue holds at most one live item per
// entity: re-enqueueing an entity replaces its previous item.
type SyncQueueService interface {
	// Enqueue records a pending mutation for the entity, replacing any
	// existing item for the same entity id with a fresh retry cycle
	// (status pending, retry count zero, timestamp now).
	Enqueue(ctx context.Context, entityID string, category models.Category, action models.SyncAction) error

	// Dequeue removes the entity's queue item. Called on confirmed sync
	// success. A missing item is not an error.
	Dequeue(ctx context.Context, entityID string) error

	// MarkFailed increments the entity's retry count, stamps the attempt
	// time and failure message, and sets status failed without removing
	// the item. When the retry count reaches the ceiling the entity is
	// abandoned: for notes, the note's own sync status is set to failed
	// so the condition surfaces to the user.
	MarkFailed(ctx context.Context, entityID string, cause error) error

	// FailCategory applies MarkFailed semantics to every live (pending or
	// processing) item of the category. Called when a category sync fails
	// as a whole.
	FailCategory(ctx context.Context, category models.Category, cause error) error

	// ListRetryable returns items still worth retrying at the given
	// moment: not completed, retry count under the ceiling, and at least
	// backoff(retryCount) elapsed since the last attempt, where
	// backoff(n) doubles from one second up to a one-minute cap.
	ListRetryable(ctx context.Context, now time.Time) ([]models.SyncQueueItem, error)

	// MarkProcessing flags the given items as taken by a running sync so
	// concurrent sweeps do not pick them twice.
	MarkProcessing(ctx context.Context, items ...models.SyncQueueItem) error

	// PendingDeletes returns the entity ids of the category that have a
	// delete action queued. The sync manager filters these out of merge
	// input and output so a locally deleted entity is not resurrected by
	// its own sync.
	PendingDeletes(ctx context.Context, category models.Category) (map[string]struct{}, error)

	// ClearCategory drops every queue item of the category after it
	// synced successfully.
	ClearCategory(ctx context.Context, category models.Category) error

	// CreateConflictCopy persists a new conflict copy capturing the
	// remote (losing) side of a detected note divergence and returns it.
	CreateConflictCopy(ctx context.Context, local, remote models.Note) (models.ConflictCopy, error)

	// ResolveConflictCopy marks the copy resolved. The row is retained
	// for the seven-day audit window rather than deleted immediately.
	ResolveConflictCopy(ctx context.Context, id string) error

	// CleanupConflicts purges resolved copies older than the seven-day
	// retention window and returns how many were removed. Unresolved
	// copies are kept indefinitely regardless of age.
	CleanupConflicts(ctx context.Context, now time.Time) (int64, error)
}

// ConflictResolutionService is the storage contract behind the conflict
// resolution UI: list what needs a human decision, then apply it.
type ConflictResolutionService interface {
	// ListUnresolvedConflicts returns unresolved copies, newest first,
	// optionally narrowed to one note. An empty noteID means all notes.
	ListUnresolvedConflicts(ctx context.Context, noteID string) ([]models.ConflictCopy, error)

	// Resolve applies the user's choice to one conflict copy. keep-local
	// keeps the surviving note's content, use-remote overwrites it with
	// the copy's content, keep-both additionally creates an independent
	// duplicate note from the copy. Every choice marks the copy resolved,
	// clears the note's conflict flag and re-enqueues the note so the
	// outcome syncs.
	Resolve(ctx context.Context, conflictID string, choice models.ResolutionChoice) error
}

// NotesService is the local mutation surface for notes. Every write marks
// the note dirty, enqueues sync work and triggers an instant sync of the
// notes category.
type NotesService interface {
	// Create stores a new note (version 1, dirty, authored by this
	// device) and returns it.
	Create(ctx context.Context, draft NoteDraft) (models.Note, error)

	// Update applies the draft to an existing note. Conflict flags are
	// preserved: editing a conflicted note keeps it conflicted until the
	// user resolves it.
	Update(ctx context.Context, id string, draft NoteDraft) (models.Note, error)

	// Archive hides the note from the main listing without deleting it.
	Archive(ctx context.Context, id string) error

	// Delete removes the note locally and queues the deletion for remote
	// propagation.
	Delete(ctx context.Context, id string) error

	// Get returns one note by id.
	Get(ctx context.Context, id string) (models.Note, error)

	// List returns all local notes, most recently updated first.
	List(ctx context.Context) ([]models.Note, error)
}

// NoteDraft carries the user-editable fields of a note.
type NoteDraft struct {
	Title     string
	Content   string
	FolderID  *string
	SectionID *string
	Pinned    bool
}

// CollectionsService is the local mutation surface for the union-merged
// collection categories. The shell hands over whole replacement
// collections; the service diffs them against the stored state to queue
// per-entity deletions and category sync work.
type CollectionsService interface {
	Tasks(ctx context.Context) ([]models.Task, error)
	PutTasks(ctx context.Context, tasks []models.Task) error
	Folders(ctx context.Context) ([]models.Folder, error)
	PutFolders(ctx context.Context, folders []models.Folder) error
	Sections(ctx context.Context) ([]models.Section, error)
	PutSections(ctx context.Context, sections []models.Section) error
}

// SettingsService is the local mutation surface for user preferences.
// Values are opaque JSON; a key removed locally can reappear after a merge
// because the settings policy is a key union.
type SettingsService interface {
	All(ctx context.Context) (models.Settings, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	Remove(ctx context.Context, key string) error
}

// MediaService maintains the attachment catalog. The index syncs as a
// whole document with the local copy authoritative, so entry removal does
// propagate, unlike the union-merged categories.
type MediaService interface {
	Index(ctx context.Context) (models.MediaIndex, error)
	AddEntry(ctx context.Context, entry models.MediaEntry) (models.MediaEntry, error)
	RemoveEntry(ctx context.Context, id string) error
}

// ActivityService records and lists the append-only usage log.
type ActivityService interface {
	// Record appends one entry stamped with this device and the current
	// time. entityID may be empty for app-level events.
	Record(ctx context.Context, kind string, entityID string) error

	// List returns the log, newest first.
	List(ctx context.Context) ([]models.ActivityEntry, error)
}

// AppLockService manages the PIN/biometric lock configuration. The PIN
// itself never leaves the device; only its argon2id digest and salt are
// stored and synced.
type AppLockService interface {
	// Enable turns the lock on with the given PIN.
	Enable(ctx context.Context, pin string, biometrics bool) error

	// Disable turns the lock off, keeping no digest.
	Disable(ctx context.Context) error

	// Verify reports whether the PIN matches the stored digest. Returns
	// [ErrAppLockDisabled] when the lock is not enabled.
	Verify(ctx context.Context, pin string) (bool, error)

	// Config returns the current lock configuration.
	Config(ctx context.Context) (models.AppLockConfig, error)
}
