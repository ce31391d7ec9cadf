package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avdeyev/go-note-sync/internal/store"
	"github.com/avdeyev/go-note-sync/models"
)

// mediaService maintains the attachment catalog. The index is the one
// collection whose removals genuinely propagate, because its category
// syncs as a whole document with the local copy authoritative.
type mediaService struct {
	docs   store.DocumentRepository
	queue  SyncQueueService
	syncer InstantSyncer
}

// NewMediaService constructs a [MediaService].
func NewMediaService(docs store.DocumentRepository, queue SyncQueueService, syncer InstantSyncer) MediaService {
	return &mediaService{docs: docs, queue: queue, syncer: syncer}
}

// Index implements [MediaService].
func (s *mediaService) Index(ctx context.Context) (models.MediaIndex, error) {
	idx, _, _, err := loadDocument[models.MediaIndex](ctx, s.docs, models.CategoryMediaIndex)
	if err != nil {
		return models.MediaIndex{}, err
	}
	return idx, nil
}

// AddEntry implements [MediaService]. A missing id or creation time is
// filled in; the returned entry carries the final values.
func (s *mediaService) AddEntry(ctx context.Context, entry models.MediaEntry) (models.MediaEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	idx, meta, _, err := loadDocument[models.MediaIndex](ctx, s.docs, models.CategoryMediaIndex)
	if err != nil {
		return models.MediaEntry{}, err
	}

	idx.Entries = append(idx.Entries, entry)
	idx.Revision++
	idx.UpdatedAt = time.Now()

	if err := s.save(ctx, idx, meta); err != nil {
		return models.MediaEntry{}, err
	}
	if err := s.queue.Enqueue(ctx, entry.ID, models.CategoryMediaIndex, models.ActionCreate); err != nil {
		return models.MediaEntry{}, err
	}

	s.syncer.InstantSync(ctx, models.CategoryMediaIndex)
	return entry, nil
}

// RemoveEntry implements [MediaService].
func (s *mediaService) RemoveEntry(ctx context.Context, id string) error {
	idx, meta, _, err := loadDocument[models.MediaIndex](ctx, s.docs, models.CategoryMediaIndex)
	if err != nil {
		return err
	}

	kept := make([]models.MediaEntry, 0, len(idx.Entries))
	for _, e := range idx.Entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(idx.Entries) {
		return fmt.Errorf("%w: %s", ErrMediaEntryNotFound, id)
	}

	idx.Entries = kept
	idx.Revision++
	idx.UpdatedAt = time.Now()

	if err := s.save(ctx, idx, meta); err != nil {
		return err
	}
	if err := s.queue.Enqueue(ctx, id, models.CategoryMediaIndex, models.ActionDelete); err != nil {
		return err
	}

	s.syncer.InstantSync(ctx, models.CategoryMediaIndex)
	return nil
}

func (s *mediaService) save(ctx context.Context, idx models.MediaIndex, meta models.SyncMetadata) error {
	body, err := encodeEnvelope(idx, meta)
	if err != nil {
		return err
	}
	if err := s.docs.Put(ctx, models.CategoryMediaIndex, body); err != nil {
		return fmt.Errorf("store media index locally: %w", err)
	}
	return nil
}
