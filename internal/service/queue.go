// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pavel Avdeyev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avdeyev/go-note-sync/internal/logger"
	"github.com/avdeyev/go-note-sync/internal/store"
	"github.com/avdeyev/go-note-sync/models"
)

const (
	// RetryCeiling is the attempt count after which an entity is
	// abandoned: its queue item stays in failed status, excluded from
	// further automatic retries, and the condition surfaces through the
	// entity's own sync status instead of retrying forever.
	RetryCeiling = 5

	backoffBase = time.Second
	backoffCap  = time.Minute

	// conflictRetention is how long resolved conflict copies are kept
	// for audit and undo before cleanup purges them.
	conflictRetention = 7 * 24 * time.Hour
)

// backoff returns the wait before the next retry after n failed attempts:
// min(1s * 2^n, 60s). Capped exponential growth prevents thundering-herd
// retries while bounding worst-case latency at one minute.
func backoff(n int) time.Duration {
	if n < 0 {
		n = 0
	}
	if n > 6 {
		return backoffCap
	}
	d := backoffBase << uint(n)
	if d > backoffCap {
		return backoffCap
	}
	return d
}

// queueService is the concrete implementation of [SyncQueueService] over
// the durable sync_queue and conflict_copies tables.
type queueService struct {
	queue     store.QueueRepository
	conflicts store.ConflictRepository
	notes     store.NoteRepository
}

// NewSyncQueueService constructs a [SyncQueueService]. The note
// repository is needed to surface queue exhaustion on the note itself.
func NewSyncQueueService(queue store.QueueRepository, conflicts store.ConflictRepository, notes store.NoteRepository) SyncQueueService {
	return &queueService{queue: queue, conflicts: conflicts, notes: notes}
}

// Enqueue implements [SyncQueueService]. The underlying upsert replaces
// any existing item for the entity, so re-queueing a dirty entity resets
// its retry cycle instead of duplicating work.
func (q *queueService) Enqueue(ctx context.Context, entityID string, category models.Category, action models.SyncAction) error {
	if entityID == "" {
		return fmt.Errorf("enqueue: empty entity id")
	}
	if !category.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	if !action.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	item := models.SyncQueueItem{
		ID:        uuid.NewString(),
		EntityID:  entityID,
		Category:  category,
		Action:    action,
		Timestamp: time.Now(),
		Status:    models.QueuePending,
	}
	if err := q.queue.Upsert(ctx, item); err != nil {
		return fmt.Errorf("enqueue %s for entity %s: %w", action, entityID, err)
	}
	return nil
}

// Dequeue implements [SyncQueueService]. A missing item is fine: the
// entity simply had nothing pending.
func (q *queueService) Dequeue(ctx context.Context, entityID string) error {
	items, err := q.queue.List(ctx, store.QueueFilter{EntityID: entityID})
	if err != nil {
		return fmt.Errorf("dequeue entity %s: %w", entityID, err)
	}
	for _, item := range items {
		if err := q.queue.Delete(ctx, item.ID); err != nil {
			return fmt.Errorf("dequeue entity %s: %w", entityID, err)
		}
	}
	return nil
}

// MarkFailed implements [SyncQueueService].
func (q *queueService) MarkFailed(ctx context.Context, entityID string, cause error) error {
	items, err := q.queue.List(ctx, store.QueueFilter{EntityID: entityID})
	if err != nil {
		return fmt.Errorf("load queue item for entity %s: %w", entityID, err)
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: %s", ErrQueueItemMissing, entityID)
	}
	return q.failItem(ctx, items[0], cause, time.Now())
}

// FailCategory implements [SyncQueueService].
func (q *queueService) FailCategory(ctx context.Context, category models.Category, cause error) error {
	items, err := q.queue.List(ctx, store.QueueFilter{
		Category: category,
		Statuses: []models.QueueStatus{models.QueuePending, models.QueueProcessing},
	})
	if err != nil {
		return fmt.Errorf("load live queue items for %s: %w", category, err)
	}

	now := time.Now()
	for _, item := range items {
		if err := q.failItem(ctx, item, cause, now); err != nil {
			return err
		}
	}
	return nil
}

// failItem records one failed attempt: retry count up, attempt time and
// message stamped, status failed, row kept. Crossing the ceiling abandons
// the entity.
func (q *queueService) failItem(ctx context.Context, item models.SyncQueueItem, cause error, now time.Time) error {
	item.RetryCount++
	item.Status = models.QueueFailed
	item.Timestamp = now
	msg := cause.Error()
	item.LastError = &msg

	if err := q.queue.Update(ctx, item); err != nil {
		return fmt.Errorf("mark queue item failed for entity %s: %w", item.EntityID, err)
	}

	if item.RetryCount >= RetryCeiling {
		q.abandonEntity(ctx, item)
	}
	return nil
}

// abandonEntity surfaces queue exhaustion on the entity itself. Only
// notes carry a per-entity sync status; for other categories the failed
// queue row is the whole record. Best effort: the failure is already
// durable in the queue.
func (q *queueService) abandonEntity(ctx context.Context, item models.SyncQueueItem) {
	log := logger.FromContext(ctx)
	log.Warn().
		Str("entity_id", item.EntityID).
		Str("category", string(item.Category)).
		Int("retry_count", item.RetryCount).
		Msg("retry ceiling reached, entity abandoned")

	if item.Category != models.CategoryNotes {
		return
	}

	note, err := q.notes.Get(ctx, item.EntityID)
	if err != nil {
		log.Warn().Err(err).Str("entity_id", item.EntityID).Msg("cannot flag abandoned note")
		return
	}
	note.SyncStatus = models.StatusFailed
	if err := q.notes.Save(ctx, note); err != nil {
		log.Warn().Err(err).Str("entity_id", item.EntityID).Msg("cannot flag abandoned note")
	}
}

// ListRetryable implements [SyncQueueService].
func (q *queueService) ListRetryable(ctx context.Context, now time.Time) ([]models.SyncQueueItem, error) {
	items, err := q.queue.List(ctx, store.QueueFilter{
		Statuses: []models.QueueStatus{models.QueuePending, models.QueueProcessing, models.QueueFailed},
	})
	if err != nil {
		return nil, fmt.Errorf("list queue items: %w", err)
	}

	var due []models.SyncQueueItem
	for _, item := range items {
		if item.RetryCount >= RetryCeiling {
			continue
		}
		if now.Sub(item.Timestamp) >= backoff(item.RetryCount) {
			due = append(due, item)
		}
	}
	return due, nil
}

// MarkProcessing implements [SyncQueueService].
func (q *queueService) MarkProcessing(ctx context.Context, items ...models.SyncQueueItem) error {
	for _, item := range items {
		item.Status = models.QueueProcessing
		if err := q.queue.Update(ctx, item); err != nil {
			return fmt.Errorf("mark queue item processing for entity %s: %w", item.EntityID, err)
		}
	}
	return nil
}

// PendingDeletes implements [SyncQueueService].
func (q *queueService) PendingDeletes(ctx context.Context, category models.Category) (map[string]struct{}, error) {
	items, err := q.queue.List(ctx, store.QueueFilter{
		Category: category,
		Actions:  []models.SyncAction{models.ActionDelete},
	})
	if err != nil {
		return nil, fmt.Errorf("list pending deletes for %s: %w", category, err)
	}

	ids := make(map[string]struct{}, len(items))
	for _, item := range items {
		ids[item.EntityID] = struct{}{}
	}
	return ids, nil
}

// ClearCategory implements [SyncQueueService].
func (q *queueService) ClearCategory(ctx context.Context, category models.Category) error {
	if err := q.queue.DeleteByCategory(ctx, category); err != nil {
		return fmt.Errorf("clear queue for %s: %w", category, err)
	}
	return nil
}

// CreateConflictCopy implements [SyncQueueService]. The copy captures the
// remote side, which lost the merge: its content, its sync version and
// the device that produced it.
func (q *queueService) CreateConflictCopy(ctx context.Context, local, remote models.Note) (models.ConflictCopy, error) {
	cc := models.ConflictCopy{
		ID:          uuid.NewString(),
		NoteID:      local.ID,
		Title:       remote.Title,
		Content:     remote.Content,
		SyncVersion: remote.SyncVersion,
		DeviceID:    remote.DeviceID,
		CreatedAt:   time.Now(),
	}
	if err := q.conflicts.Save(ctx, cc); err != nil {
		return models.ConflictCopy{}, fmt.Errorf("save conflict copy for note %s: %w", local.ID, err)
	}
	return cc, nil
}

// ResolveConflictCopy implements [SyncQueueService].
func (q *queueService) ResolveConflictCopy(ctx context.Context, id string) error {
	if err := q.conflicts.Resolve(ctx, id); err != nil {
		return fmt.Errorf("resolve conflict copy %s: %w", id, err)
	}
	return nil
}

// CleanupConflicts implements [SyncQueueService].
func (q *queueService) CleanupConflicts(ctx context.Context, now time.Time) (int64, error) {
	purged, err := q.conflicts.PurgeResolved(ctx, now.Add(-conflictRetention))
	if err != nil {
		return 0, fmt.Errorf("purge resolved conflict copies: %w", err)
	}
	return purged, nil
}
