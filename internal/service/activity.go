package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avdeyev/go-note-sync/internal/store"
	"github.com/avdeyev/go-note-sync/models"
)

// activityService maintains the append-only usage log. Entries accumulate
// locally between syncs; no instant push, the next pass carries them.
type activityService struct {
	docs     store.DocumentRepository
	queue    SyncQueueService
	deviceID string
}

// NewActivityService constructs an [ActivityService].
func NewActivityService(docs store.DocumentRepository, queue SyncQueueService, deviceID string) ActivityService {
	return &activityService{docs: docs, queue: queue, deviceID: deviceID}
}

// Record implements [ActivityService]. The stored metadata is left
// untouched: appending an entry is a local mutation, not a sync.
func (s *activityService) Record(ctx context.Context, kind string, entityID string) error {
	if kind == "" {
		return fmt.Errorf("record activity: empty kind")
	}

	entries, meta, _, err := loadDocument[[]models.ActivityEntry](ctx, s.docs, models.CategoryActivity)
	if err != nil {
		return err
	}

	entry := models.ActivityEntry{
		ID:        uuid.NewString(),
		Kind:      kind,
		DeviceID:  s.deviceID,
		Timestamp: time.Now(),
	}
	if entityID != "" {
		entry.EntityID = &entityID
	}

	body, err := encodeEnvelope(append(entries, entry), meta)
	if err != nil {
		return err
	}
	if err := s.docs.Put(ctx, models.CategoryActivity, body); err != nil {
		return fmt.Errorf("store activity locally: %w", err)
	}
	return s.queue.Enqueue(ctx, entry.ID, models.CategoryActivity, models.ActionCreate)
}

// List implements [ActivityService].
func (s *activityService) List(ctx context.Context) ([]models.ActivityEntry, error) {
	entries, _, _, err := loadDocument[[]models.ActivityEntry](ctx, s.docs, models.CategoryActivity)
	if err != nil {
		return nil, err
	}
	return MergeActivity(entries, nil), nil
}
