// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pavel Avdeyev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/avdeyev/go-note-sync/internal/adapter"
	"github.com/avdeyev/go-note-sync/internal/logger"
	"github.com/avdeyev/go-note-sync/internal/store"
	"github.com/avdeyev/go-note-sync/models"
)

// SyncManager orchestrates read-merge-write cycles between the local
// store and the remote file store. It implements [SyncEngine].
//
// One instance is built at application start and injected everywhere a
// sync trigger lives; all cross-cutting state (credential, in-flight
// guard, observers, background job) is held in fields, never in package
// globals.
type SyncManager struct {
	remote   adapter.RemoteFileStore
	notes    store.NoteRepository
	docs     store.DocumentRepository
	kv       store.KVRepository
	queue    SyncQueueService
	refresh  TokenRefreshFunc
	deviceID string
	log      *logger.Logger

	// inFlight serialises SyncAll passes: only one runs at a time,
	// concurrent callers get an AlreadyRunning result.
	inFlight atomic.Bool

	// catLocks serialise work per category. Different categories sync in
	// parallel; two syncs of the same category never interleave.
	catLocks map[models.Category]*sync.Mutex

	mu         sync.RWMutex
	observers  []Observer
	lastFailed bool

	job *syncJob
}

// NewSyncManager wires the sync engine. The refresh callback may be nil
// when the platform has no way to renew tokens; a rejected credential
// then fails the cycle immediately.
func NewSyncManager(
	remote adapter.RemoteFileStore,
	storages *store.Storages,
	queue SyncQueueService,
	deviceID string,
	refresh TokenRefreshFunc,
	log *logger.Logger,
) *SyncManager {
	locks := make(map[models.Category]*sync.Mutex, len(models.AllCategories()))
	for _, c := range models.AllCategories() {
		locks[c] = &sync.Mutex{}
	}

	m := &SyncManager{
		remote:   remote,
		notes:    storages.Notes,
		docs:     storages.Documents,
		kv:       storages.KV,
		queue:    queue,
		refresh:  refresh,
		deviceID: deviceID,
		log:      log,
		catLocks: locks,
	}
	m.job = newSyncJob(m)
	return m
}

// SyncOne implements [SyncEngine].
func (m *SyncManager) SyncOne(ctx context.Context, category models.Category) bool {
	log := logger.FromContext(ctx)

	if !category.Valid() {
		log.Error().Str("category", string(category)).Msg("unknown sync category")
		return false
	}
	if err := m.ensureValidToken(ctx); err != nil {
		log.Warn().Err(err).Str("category", string(category)).Msg("category sync skipped")
		return false
	}
	return m.runCategory(ctx, category)
}

// SyncAll implements [SyncEngine]. Categories run concurrently; the pass
// waits for all of them and reports the full breakdown. A category
// failure is recorded in the queue and the result, never propagated as
// an error.
func (m *SyncManager) SyncAll(ctx context.Context) models.SyncResult {
	if !m.inFlight.CompareAndSwap(false, true) {
		return models.SyncResult{AlreadyRunning: true}
	}
	defer m.inFlight.Store(false)

	log := logger.FromContext(ctx)
	started := time.Now()

	// One credential check for the whole pass. Eight concurrent probes
	// would trigger eight refresh attempts on an expired token.
	if err := m.ensureValidToken(ctx); err != nil {
		if !errors.Is(err, ErrNoCredential) {
			log.Warn().Err(err).Msg("sync pass skipped")
		}
		res := models.SyncResult{StartedAt: started, FinishedAt: time.Now()}
		m.setLastResult(res)
		return res
	}

	cats := models.AllCategories()
	okFlags := make([]bool, len(cats))

	g, gctx := errgroup.WithContext(ctx)
	for i, cat := range cats {
		g.Go(func() error {
			// Always nil: one category's failure must not cancel the
			// siblings via the group context.
			okFlags[i] = m.runCategory(gctx, cat)
			return nil
		})
	}
	_ = g.Wait()

	res := models.SyncResult{StartedAt: started}
	for i, ok := range okFlags {
		if ok {
			res.Synced = append(res.Synced, cats[i])
		} else {
			res.Errors = append(res.Errors, cats[i])
		}
	}
	res.Success = len(res.Errors) == 0
	res.Partial = !res.Success && len(res.Synced) > 0
	res.FinishedAt = time.Now()

	if res.Success || res.Partial {
		if err := m.kv.Set(ctx, store.KeyLastFullSync, res.FinishedAt.Format(time.RFC3339Nano)); err != nil {
			log.Warn().Err(err).Msg("cannot persist last full sync marker")
		}
	}

	m.setLastResult(res)
	m.notifyCompleted(res)

	log.Info().
		Bool("success", res.Success).
		Bool("partial", res.Partial).
		Int("synced", len(res.Synced)).
		Int("failed", len(res.Errors)).
		Dur("took", res.FinishedAt.Sub(started)).
		Msg("sync pass finished")
	return res
}

// InstantSync implements [SyncEngine]. No debounce, no batching: the
// point is lowest-latency propagation of a local change.
func (m *SyncManager) InstantSync(ctx context.Context, category models.Category) bool {
	logger.FromContext(ctx).Debug().Str("category", string(category)).Msg("instant sync")
	return m.SyncOne(ctx, category)
}

// RetryPending implements [SyncEngine].
func (m *SyncManager) RetryPending(ctx context.Context) (int, error) {
	items, err := m.queue.ListRetryable(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("list retryable queue items: %w", err)
	}
	if len(items) == 0 {
		return 0, nil
	}
	if err := m.queue.MarkProcessing(ctx, items...); err != nil {
		return 0, fmt.Errorf("mark queue items processing: %w", err)
	}

	// Queue items resolve at category granularity: one SyncOne per
	// distinct category covers every due entity in it.
	seen := make(map[models.Category]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		m.SyncOne(ctx, item.Category)
	}
	return len(items), nil
}

// StartBackgroundSync implements [SyncEngine].
func (m *SyncManager) StartBackgroundSync(ctx context.Context, interval time.Duration) {
	m.log.Info().Dur("interval", interval).Msg("starting background sync")
	m.job.Start(m.log.WithContext(ctx), interval)
}

// StopBackgroundSync implements [SyncEngine].
func (m *SyncManager) StopBackgroundSync() {
	m.job.Stop()
	m.log.Info().Msg("background sync stopped")
}

// SetToken implements [SyncEngine].
func (m *SyncManager) SetToken(token string) {
	m.remote.SetToken(token)
}

// ClearToken implements [SyncEngine].
func (m *SyncManager) ClearToken() {
	m.remote.SetToken("")
}

// Subscribe implements [SyncEngine].
func (m *SyncManager) Subscribe(observer Observer) {
	m.mu.Lock()
	m.observers = append(m.observers, observer)
	m.mu.Unlock()
}

// State implements [SyncEngine].
func (m *SyncManager) State() models.SyncState {
	if m.remote.Token() == "" {
		return models.StateOffline
	}
	if m.inFlight.Load() {
		return models.StateSyncing
	}

	m.mu.RLock()
	failed := m.lastFailed
	m.mu.RUnlock()
	if failed {
		return models.StateError
	}
	return models.StateIdle
}

// LastFullSync implements [SyncEngine].
func (m *SyncManager) LastFullSync(ctx context.Context) (time.Time, error) {
	return m.kvTime(ctx, store.KeyLastFullSync)
}

// LastCategorySync implements [SyncEngine].
func (m *SyncManager) LastCategorySync(ctx context.Context, category models.Category) (time.Time, error) {
	return m.kvTime(ctx, store.KeyLastSyncPrefix+string(category))
}

// runCategory executes one category sync and converts its error into the
// bool contract: failures are logged and recorded in the queue for the
// backoff schedule, never returned.
func (m *SyncManager) runCategory(ctx context.Context, category models.Category) bool {
	log := logger.FromContext(ctx)

	if err := m.syncCategory(ctx, category); err != nil {
		log.Error().Err(err).Str("category", string(category)).Msg("category sync failed")
		if qerr := m.queue.FailCategory(ctx, category, err); qerr != nil {
			log.Warn().Err(qerr).Str("category", string(category)).Msg("cannot record category failure in queue")
		}
		return false
	}
	return true
}

// ensureValidToken verifies the stored credential with a probe request.
// On rejection it invokes the refresh callback exactly once, installs the
// new token and probes again; a second rejection fails the cycle rather
// than looping.
func (m *SyncManager) ensureValidToken(ctx context.Context) error {
	if m.remote.Token() == "" {
		return ErrNoCredential
	}

	err := m.remote.Ping(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, adapter.ErrUnauthorized) {
		return fmt.Errorf("remote store probe: %w", err)
	}
	if m.refresh == nil {
		return fmt.Errorf("%w: no refresh callback", ErrTokenRefreshFailed)
	}

	logger.FromContext(ctx).Info().Msg("credential rejected, refreshing token")

	token, err := m.refresh(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTokenRefreshFailed, err)
	}
	m.remote.SetToken(token)

	if err := m.remote.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrTokenRefreshFailed, err)
	}
	return nil
}

func (m *SyncManager) setLastResult(res models.SyncResult) {
	m.mu.Lock()
	m.lastFailed = len(res.Errors) > 0 || res.Failed()
	m.mu.Unlock()
}

// kvTime reads an RFC 3339 timestamp marker, mapping a missing key to the
// zero time.
func (m *SyncManager) kvTime(ctx context.Context, key string) (time.Time, error) {
	raw, err := m.kv.Get(ctx, key)
	if errors.Is(err, store.ErrKeyNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read sync marker %s: %w", key, err)
	}

	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse sync marker %s: %w", key, err)
	}
	return ts, nil
}

func (m *SyncManager) snapshotObservers() []Observer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obs := make([]Observer, len(m.observers))
	copy(obs, m.observers)
	return obs
}

func (m *SyncManager) notifyRestored(category models.Category) {
	for _, o := range m.snapshotObservers() {
		o.CategoryRestored(category)
	}
}

func (m *SyncManager) notifyConflicts(count int) {
	if count == 0 {
		return
	}
	for _, o := range m.snapshotObservers() {
		o.ConflictsDetected(count)
	}
}

func (m *SyncManager) notifyCompleted(res models.SyncResult) {
	for _, o := range m.snapshotObservers() {
		o.SyncCompleted(res)
	}
}
