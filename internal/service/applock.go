// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pavel Avdeyev

package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/avdeyev/go-note-sync/internal/crypto"
	"github.com/avdeyev/go-note-sync/internal/store"
	"github.com/avdeyev/go-note-sync/models"
)

// appLockService is the concrete implementation of [AppLockService]. Only
// the argon2id digest and its salt are ever persisted or synced; the PIN
// itself exists in memory for the duration of a call.
type appLockService struct {
	docs   store.DocumentRepository
	queue  SyncQueueService
	hasher crypto.PINHasher
	syncer InstantSyncer
}

// NewAppLockService constructs an [AppLockService].
func NewAppLockService(
	docs store.DocumentRepository,
	queue SyncQueueService,
	hasher crypto.PINHasher,
	syncer InstantSyncer,
) AppLockService {
	return &appLockService{docs: docs, queue: queue, hasher: hasher, syncer: syncer}
}

// Enable implements [AppLockService].
func (s *appLockService) Enable(ctx context.Context, pin string, biometrics bool) error {
	if pin == "" {
		return ErrEmptyPIN
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return fmt.Errorf("generate pin salt: %w", err)
	}
	digest := s.hasher.Hash(pin, salt)

	cfg := models.AppLockConfig{
		Enabled:           true,
		PINHash:           base64.StdEncoding.EncodeToString(digest),
		PINSalt:           base64.StdEncoding.EncodeToString(salt),
		BiometricsEnabled: biometrics,
		UpdatedAt:         time.Now(),
	}
	return s.save(ctx, cfg)
}

// Disable implements [AppLockService]. The stored config is replaced by a
// bare disabled one: no digest, no salt, nothing to attack offline.
func (s *appLockService) Disable(ctx context.Context) error {
	cfg := models.AppLockConfig{
		Enabled:   false,
		UpdatedAt: time.Now(),
	}
	return s.save(ctx, cfg)
}

// Verify implements [AppLockService].
func (s *appLockService) Verify(ctx context.Context, pin string) (bool, error) {
	if pin == "" {
		return false, ErrEmptyPIN
	}

	cfg, _, found, err := loadDocument[models.AppLockConfig](ctx, s.docs, models.CategoryAppLock)
	if err != nil {
		return false, err
	}
	if !found || !cfg.Enabled {
		return false, ErrAppLockDisabled
	}

	salt, err := base64.StdEncoding.DecodeString(cfg.PINSalt)
	if err != nil {
		return false, fmt.Errorf("decode pin salt: %w", err)
	}
	digest, err := base64.StdEncoding.DecodeString(cfg.PINHash)
	if err != nil {
		return false, fmt.Errorf("decode pin digest: %w", err)
	}
	return s.hasher.Verify(pin, salt, digest), nil
}

// Config implements [AppLockService]. A device that never configured the
// lock reports the zero (disabled) configuration.
func (s *appLockService) Config(ctx context.Context) (models.AppLockConfig, error) {
	cfg, _, _, err := loadDocument[models.AppLockConfig](ctx, s.docs, models.CategoryAppLock)
	if err != nil {
		return models.AppLockConfig{}, err
	}
	return cfg, nil
}

func (s *appLockService) save(ctx context.Context, cfg models.AppLockConfig) error {
	_, meta, _, err := loadDocument[models.AppLockConfig](ctx, s.docs, models.CategoryAppLock)
	if err != nil {
		return err
	}

	body, err := encodeEnvelope(cfg, meta)
	if err != nil {
		return err
	}
	if err := s.docs.Put(ctx, models.CategoryAppLock, body); err != nil {
		return fmt.Errorf("store app lock locally: %w", err)
	}
	if err := s.queue.Enqueue(ctx, string(models.CategoryAppLock), models.CategoryAppLock, models.ActionUpdate); err != nil {
		return err
	}

	s.syncer.InstantSync(ctx, models.CategoryAppLock)
	return nil
}
