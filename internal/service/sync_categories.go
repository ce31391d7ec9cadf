// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pavel Avdeyev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avdeyev/go-note-sync/internal/logger"
	"github.com/avdeyev/go-note-sync/internal/store"
	"github.com/avdeyev/go-note-sync/models"
)

// syncCategory runs one category's read-merge-write cycle under its
// category lock. Different categories proceed in parallel; two cycles of
// the same category never interleave.
func (m *SyncManager) syncCategory(ctx context.Context, category models.Category) error {
	lock, ok := m.catLocks[category]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	lock.Lock()
	defer lock.Unlock()

	switch category {
	case models.CategoryNotes:
		return m.syncNotes(ctx)
	case models.CategoryTasks:
		return syncCollection[models.Task](ctx, m, category)
	case models.CategoryFolders:
		return syncCollection[models.Folder](ctx, m, category)
	case models.CategorySections:
		return syncCollection[models.Section](ctx, m, category)
	case models.CategorySettings:
		return m.syncSettings(ctx)
	case models.CategoryActivity:
		return m.syncActivity(ctx)
	case models.CategoryMediaIndex:
		return m.syncWholeDoc(ctx, category)
	case models.CategoryAppLock:
		return m.syncAppLock(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
}

// syncNotes runs the conflict-aware notes cycle. Notes are the only
// category where both sides can lose data to a careless merge, so a true
// divergence freezes the local note, preserves the remote revision as a
// conflict copy and waits for the user.
func (m *SyncManager) syncNotes(ctx context.Context) error {
	name := models.CategoryNotes.FileName()
	log := logger.FromContext(ctx)

	all, err := m.notes.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load local notes: %w", err)
	}
	deletes, err := m.queue.PendingDeletes(ctx, models.CategoryNotes)
	if err != nil {
		return fmt.Errorf("load pending note deletes: %w", err)
	}
	local := dropKeys(all, deletes)

	ref, err := m.remote.FindFile(ctx, name)
	if err != nil {
		return fmt.Errorf("find %s: %w", name, err)
	}
	if ref == nil {
		return m.bootstrapNotes(ctx, local, nil, models.SyncMetadata{})
	}

	raw, err := m.remote.ReadFile(ctx, *ref)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	payload, err := decodeEnvelope[[]models.Note](raw)
	if err != nil {
		// A corrupt file must not pass for an empty one: merging against
		// nothing would drop every clean synced note as a remote
		// deletion. Rebuild the file from local state instead.
		log.Warn().Err(err).Msg("corrupt remote notes file, rebuilding from local state")
		return m.bootstrapNotes(ctx, local, ref, models.SyncMetadata{})
	}

	now := time.Now()
	remote := dropKeys(payload.Data, deletes)
	merged, pairs := MergeNotes(local, remote, m.deviceID, now)

	for _, pair := range pairs {
		cc, err := m.queue.CreateConflictCopy(ctx, pair.Local, pair.Remote)
		if err != nil {
			return fmt.Errorf("create conflict copy for note %s: %w", pair.Local.ID, err)
		}
		for i := range merged {
			if merged[i].ID == cc.NoteID {
				copyID := cc.ID
				merged[i].ConflictCopyID = &copyID
				break
			}
		}
	}

	body, err := encodeEnvelope(uploadableNotes(merged, remote), nextMetadata(m.deviceID, now, models.SyncMetadata{}, payload.Metadata))
	if err != nil {
		return err
	}
	if _, err := m.remote.WriteFile(ctx, name, body, ref); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := m.notes.ReplaceAll(ctx, merged); err != nil {
		return fmt.Errorf("replace local notes: %w", err)
	}

	if len(pairs) > 0 {
		log.Warn().Int("conflicts", len(pairs)).Msg("note conflicts detected")
		m.notifyConflicts(len(pairs))
	}
	m.finishCategory(ctx, models.CategoryNotes, now)
	return nil
}

// bootstrapNotes publishes local state as the authoritative first copy.
// Used when the remote file does not exist yet and as the recovery path
// for a corrupt one. Sync versions are kept verbatim: a bootstrap
// confirms existing notes, it does not author new revisions.
func (m *SyncManager) bootstrapNotes(ctx context.Context, local []models.Note, ref *models.FileRef, remoteMeta models.SyncMetadata) error {
	name := models.CategoryNotes.FileName()
	now := time.Now()

	upload := make([]models.Note, 0, len(local))
	ids := make([]string, 0, len(local))
	for _, n := range local {
		if n.HasConflict {
			continue
		}
		syncedAt := now
		n.IsDirty = false
		n.SyncStatus = models.StatusSynced
		n.LastSyncedAt = &syncedAt
		upload = append(upload, n)
		ids = append(ids, n.ID)
	}

	body, err := encodeEnvelope(upload, nextMetadata(m.deviceID, now, models.SyncMetadata{}, remoteMeta))
	if err != nil {
		return err
	}
	if _, err := m.remote.WriteFile(ctx, name, body, ref); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if len(ids) > 0 {
		if err := m.notes.MarkSynced(ctx, now, ids...); err != nil {
			return fmt.Errorf("mark notes synced: %w", err)
		}
	}

	logger.FromContext(ctx).Info().Int("notes", len(upload)).Msg("bootstrapped remote notes file")
	m.finishCategory(ctx, models.CategoryNotes, now)
	return nil
}

// uploadableNotes builds the payload published to the remote notes file.
// A conflicted note's local content stays device-local until resolved;
// the file keeps carrying the revision the other device confirmed, so
// sibling devices neither regress nor take the note for deleted.
func uploadableNotes(merged, remote []models.Note) []models.Note {
	remoteByID := make(map[string]models.Note, len(remote))
	for _, r := range remote {
		remoteByID[r.ID] = r
	}

	upload := make([]models.Note, 0, len(merged))
	for _, n := range merged {
		if !n.HasConflict {
			upload = append(upload, n)
			continue
		}
		if r, ok := remoteByID[n.ID]; ok {
			upload = append(upload, r)
		}
		// A conflicted note absent from the remote file stays local
		// until resolution republishes it.
	}
	return upload
}

// syncCollection runs the union-by-id cycle shared by tasks, folders and
// sections: pull both sides, drop entities with queued deletions, merge
// with local priority on recency ties, publish the union to both stores.
func syncCollection[T models.Mergeable](ctx context.Context, m *SyncManager, category models.Category) error {
	name := category.FileName()

	local, localMeta, _, err := loadDocument[[]T](ctx, m.docs, category)
	if err != nil {
		return err
	}

	ref, err := m.remote.FindFile(ctx, name)
	if err != nil {
		return fmt.Errorf("find %s: %w", name, err)
	}

	var remote []T
	var remoteMeta models.SyncMetadata
	if ref != nil {
		raw, err := m.remote.ReadFile(ctx, *ref)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		payload, derr := decodeEnvelope[[]T](raw)
		if derr != nil {
			// A union merge cannot lose local entities, so a corrupt
			// remote file degrades to an empty one and gets rebuilt.
			logger.FromContext(ctx).Warn().Err(derr).Str("category", string(category)).Msg("corrupt remote file, rebuilding from local state")
		} else {
			remote = payload.Data
			remoteMeta = payload.Metadata
		}
	}

	deletes, err := m.queue.PendingDeletes(ctx, category)
	if err != nil {
		return fmt.Errorf("load pending deletes for %s: %w", category, err)
	}

	merged := MergeByID(dropKeys(local, deletes), dropKeys(remote, deletes))

	now := time.Now()
	body, err := encodeEnvelope(merged, nextMetadata(m.deviceID, now, localMeta, remoteMeta))
	if err != nil {
		return err
	}

	if _, err := m.remote.WriteFile(ctx, name, body, ref); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := m.docs.Put(ctx, category, body); err != nil {
		return fmt.Errorf("store %s locally: %w", category, err)
	}

	m.finishCategory(ctx, category, now)
	return nil
}

// syncSettings runs the shallow key-union cycle. Values are opaque; a key
// present on both sides keeps the local value.
func (m *SyncManager) syncSettings(ctx context.Context) error {
	name := models.CategorySettings.FileName()

	local, localMeta, _, err := loadDocument[models.Settings](ctx, m.docs, models.CategorySettings)
	if err != nil {
		return err
	}

	ref, err := m.remote.FindFile(ctx, name)
	if err != nil {
		return fmt.Errorf("find %s: %w", name, err)
	}

	var remote models.Settings
	var remoteMeta models.SyncMetadata
	if ref != nil {
		raw, err := m.remote.ReadFile(ctx, *ref)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		payload, derr := decodeEnvelope[models.Settings](raw)
		if derr != nil {
			logger.FromContext(ctx).Warn().Err(derr).Msg("corrupt remote settings file, rebuilding from local state")
		} else {
			remote = payload.Data
			remoteMeta = payload.Metadata
		}
	}

	merged := MergeSettings(local, remote)

	now := time.Now()
	body, err := encodeEnvelope(merged, nextMetadata(m.deviceID, now, localMeta, remoteMeta))
	if err != nil {
		return err
	}

	if _, err := m.remote.WriteFile(ctx, name, body, ref); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := m.docs.Put(ctx, models.CategorySettings, body); err != nil {
		return fmt.Errorf("store settings locally: %w", err)
	}

	m.finishCategory(ctx, models.CategorySettings, now)
	return nil
}

// syncActivity runs the append-only union cycle. Entries are never
// deleted during sync, only accumulated and re-sorted newest first.
func (m *SyncManager) syncActivity(ctx context.Context) error {
	name := models.CategoryActivity.FileName()

	local, localMeta, _, err := loadDocument[[]models.ActivityEntry](ctx, m.docs, models.CategoryActivity)
	if err != nil {
		return err
	}

	ref, err := m.remote.FindFile(ctx, name)
	if err != nil {
		return fmt.Errorf("find %s: %w", name, err)
	}

	var remote []models.ActivityEntry
	var remoteMeta models.SyncMetadata
	if ref != nil {
		raw, err := m.remote.ReadFile(ctx, *ref)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		payload, derr := decodeEnvelope[[]models.ActivityEntry](raw)
		if derr != nil {
			logger.FromContext(ctx).Warn().Err(derr).Msg("corrupt remote activity file, rebuilding from local state")
		} else {
			remote = payload.Data
			remoteMeta = payload.Metadata
		}
	}

	merged := MergeActivity(local, remote)

	now := time.Now()
	body, err := encodeEnvelope(merged, nextMetadata(m.deviceID, now, localMeta, remoteMeta))
	if err != nil {
		return err
	}

	if _, err := m.remote.WriteFile(ctx, name, body, ref); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := m.docs.Put(ctx, models.CategoryActivity, body); err != nil {
		return fmt.Errorf("store activity locally: %w", err)
	}

	m.finishCategory(ctx, models.CategoryActivity, now)
	return nil
}

// syncWholeDoc runs the local-authoritative replacement cycle for the
// media index. The local document, when present, replaces the remote one
// wholesale; the remote copy is adopted only on a device that has no
// local document yet.
func (m *SyncManager) syncWholeDoc(ctx context.Context, category models.Category) error {
	name := category.FileName()

	local, localMeta, hasLocal, err := loadDocument[json.RawMessage](ctx, m.docs, category)
	if err != nil {
		return err
	}

	ref, err := m.remote.FindFile(ctx, name)
	if err != nil {
		return fmt.Errorf("find %s: %w", name, err)
	}

	var (
		rawRemote  []byte
		remote     json.RawMessage
		remoteMeta models.SyncMetadata
		remoteOK   bool
	)
	if ref != nil {
		rawRemote, err = m.remote.ReadFile(ctx, *ref)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		payload, derr := decodeEnvelope[json.RawMessage](rawRemote)
		if derr != nil {
			logger.FromContext(ctx).Warn().Err(derr).Str("category", string(category)).Msg("corrupt remote file")
		} else {
			remote = payload.Data
			remoteMeta = payload.Metadata
			remoteOK = true
		}
	}

	now := time.Now()

	if !hasLocal {
		if remoteOK {
			// First sight of the document on this device: adopt the
			// remote envelope verbatim, claiming no new revision.
			if err := m.docs.Put(ctx, category, rawRemote); err != nil {
				return fmt.Errorf("store %s locally: %w", category, err)
			}
		}
		m.finishCategory(ctx, category, now)
		return nil
	}

	chosen := ReplaceWholeDoc(local, remote)
	body, err := encodeEnvelope(json.RawMessage(chosen), nextMetadata(m.deviceID, now, localMeta, remoteMeta))
	if err != nil {
		return err
	}

	if _, err := m.remote.WriteFile(ctx, name, body, ref); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := m.docs.Put(ctx, category, body); err != nil {
		return fmt.Errorf("store %s locally: %w", category, err)
	}

	m.finishCategory(ctx, category, now)
	return nil
}

// syncAppLock runs the whole-document cycle for the lock configuration
// with one extra guard: the remote file is never created by a device
// whose lock is disabled. Devices that never enabled the lock leave no
// trace of it in the remote store.
func (m *SyncManager) syncAppLock(ctx context.Context) error {
	name := models.CategoryAppLock.FileName()

	local, localMeta, hasLocal, err := loadDocument[models.AppLockConfig](ctx, m.docs, models.CategoryAppLock)
	if err != nil {
		return err
	}

	ref, err := m.remote.FindFile(ctx, name)
	if err != nil {
		return fmt.Errorf("find %s: %w", name, err)
	}

	now := time.Now()

	if !hasLocal {
		if ref != nil {
			raw, err := m.remote.ReadFile(ctx, *ref)
			if err != nil {
				return fmt.Errorf("read %s: %w", name, err)
			}
			if _, derr := decodeEnvelope[models.AppLockConfig](raw); derr != nil {
				logger.FromContext(ctx).Warn().Err(derr).Msg("corrupt remote app lock file, nothing local to rebuild from")
			} else if err := m.docs.Put(ctx, models.CategoryAppLock, raw); err != nil {
				return fmt.Errorf("store app lock locally: %w", err)
			}
		}
		m.finishCategory(ctx, models.CategoryAppLock, now)
		return nil
	}

	if !local.Enabled && ref == nil {
		// Never publish a disabled lock: the remote copy exists only
		// once some device enables it.
		m.finishCategory(ctx, models.CategoryAppLock, now)
		return nil
	}

	var remoteMeta models.SyncMetadata
	if ref != nil {
		raw, err := m.remote.ReadFile(ctx, *ref)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if payload, derr := decodeEnvelope[models.AppLockConfig](raw); derr == nil {
			remoteMeta = payload.Metadata
		} else {
			logger.FromContext(ctx).Warn().Err(derr).Msg("corrupt remote app lock file, overwriting with local state")
		}
	}

	body, err := encodeEnvelope(local, nextMetadata(m.deviceID, now, localMeta, remoteMeta))
	if err != nil {
		return err
	}

	if _, err := m.remote.WriteFile(ctx, name, body, ref); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := m.docs.Put(ctx, models.CategoryAppLock, body); err != nil {
		return fmt.Errorf("store app lock locally: %w", err)
	}

	m.finishCategory(ctx, models.CategoryAppLock, now)
	return nil
}

// finishCategory commits the bookkeeping of a confirmed category sync:
// queue items cleared, sync marker stamped, observers told to reload.
// All best effort; the data itself is already committed on both sides.
func (m *SyncManager) finishCategory(ctx context.Context, category models.Category, syncedAt time.Time) {
	log := logger.FromContext(ctx)

	if err := m.queue.ClearCategory(ctx, category); err != nil {
		log.Warn().Err(err).Str("category", string(category)).Msg("cannot clear synced queue items")
	}
	if err := m.kv.Set(ctx, store.KeyLastSyncPrefix+string(category), syncedAt.Format(time.RFC3339Nano)); err != nil {
		log.Warn().Err(err).Str("category", string(category)).Msg("cannot persist category sync marker")
	}
	m.notifyRestored(category)
}

// loadDocument reads the locally stored envelope of a category. A
// category never written on this device comes back as the zero payload
// with found false.
func loadDocument[T any](ctx context.Context, docs store.DocumentRepository, category models.Category) (T, models.SyncMetadata, bool, error) {
	var zero T

	raw, err := docs.Get(ctx, category)
	if errors.Is(err, store.ErrDocumentNotFound) {
		return zero, models.SyncMetadata{}, false, nil
	}
	if err != nil {
		return zero, models.SyncMetadata{}, false, fmt.Errorf("load local %s document: %w", category, err)
	}

	payload, err := decodeEnvelope[T](raw)
	if err != nil {
		return zero, models.SyncMetadata{}, false, fmt.Errorf("local %s document: %w", category, err)
	}
	return payload.Data, payload.Metadata, true, nil
}

// dropKeys filters out entities whose merge key is in the drop set.
func dropKeys[T models.Mergeable](items []T, drop map[string]struct{}) []T {
	if len(drop) == 0 || len(items) == 0 {
		return items
	}
	kept := make([]T, 0, len(items))
	for _, it := range items {
		if _, gone := drop[it.Key()]; gone {
			continue
		}
		kept = append(kept, it)
	}
	return kept
}
