package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avdeyev/go-note-sync/internal/store"
	"github.com/avdeyev/go-note-sync/models"
)

// settingsService is the concrete implementation of [SettingsService].
type settingsService struct {
	docs   store.DocumentRepository
	queue  SyncQueueService
	syncer InstantSyncer
}

// NewSettingsService constructs a [SettingsService].
func NewSettingsService(docs store.DocumentRepository, queue SyncQueueService, syncer InstantSyncer) SettingsService {
	return &settingsService{docs: docs, queue: queue, syncer: syncer}
}

// All implements [SettingsService].
func (s *settingsService) All(ctx context.Context) (models.Settings, error) {
	cfg, _, _, err := loadDocument[models.Settings](ctx, s.docs, models.CategorySettings)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = models.Settings{}
	}
	return cfg, nil
}

// Set implements [SettingsService].
func (s *settingsService) Set(ctx context.Context, key string, value json.RawMessage) error {
	if key == "" {
		return ErrEmptySettingsKey
	}

	cfg, meta, _, err := loadDocument[models.Settings](ctx, s.docs, models.CategorySettings)
	if err != nil {
		return err
	}
	if cfg == nil {
		cfg = models.Settings{}
	}
	cfg[key] = value

	if err := s.save(ctx, cfg, meta); err != nil {
		return err
	}
	if err := s.queue.Enqueue(ctx, key, models.CategorySettings, models.ActionUpdate); err != nil {
		return err
	}

	s.syncer.InstantSync(ctx, models.CategorySettings)
	return nil
}

// Remove implements [SettingsService]. Removal is local-best-effort: the
// merge policy is a key union, so a key another device still carries
// comes back on the next sync.
func (s *settingsService) Remove(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptySettingsKey
	}

	cfg, meta, _, err := loadDocument[models.Settings](ctx, s.docs, models.CategorySettings)
	if err != nil {
		return err
	}
	if _, ok := cfg[key]; !ok {
		return nil
	}
	delete(cfg, key)

	if err := s.save(ctx, cfg, meta); err != nil {
		return err
	}
	if err := s.queue.Enqueue(ctx, key, models.CategorySettings, models.ActionDelete); err != nil {
		return err
	}

	s.syncer.InstantSync(ctx, models.CategorySettings)
	return nil
}

func (s *settingsService) save(ctx context.Context, cfg models.Settings, meta models.SyncMetadata) error {
	body, err := encodeEnvelope(cfg, meta)
	if err != nil {
		return err
	}
	if err := s.docs.Put(ctx, models.CategorySettings, body); err != nil {
		return fmt.Errorf("store settings locally: %w", err)
	}
	return nil
}
