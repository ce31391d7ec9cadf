// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pavel Avdeyev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avdeyev/go-note-sync/internal/store"
	"github.com/avdeyev/go-note-sync/models"
)

// resolutionService applies user decisions to conflict copies. It is the
// concrete implementation of [ConflictResolutionService].
type resolutionService struct {
	notes     store.NoteRepository
	conflicts store.ConflictRepository
	queue     SyncQueueService
	syncer    InstantSyncer
	deviceID  string
}

// NewConflictResolutionService constructs a [ConflictResolutionService].
func NewConflictResolutionService(
	notes store.NoteRepository,
	conflicts store.ConflictRepository,
	queue SyncQueueService,
	syncer InstantSyncer,
	deviceID string,
) ConflictResolutionService {
	return &resolutionService{
		notes:     notes,
		conflicts: conflicts,
		queue:     queue,
		syncer:    syncer,
		deviceID:  deviceID,
	}
}

// ListUnresolvedConflicts implements [ConflictResolutionService].
func (s *resolutionService) ListUnresolvedConflicts(ctx context.Context, noteID string) ([]models.ConflictCopy, error) {
	resolved := false
	copies, err := s.conflicts.List(ctx, store.ConflictFilter{NoteID: noteID, Resolved: &resolved})
	if err != nil {
		return nil, fmt.Errorf("list unresolved conflicts: %w", err)
	}
	return copies, nil
}

// Resolve implements [ConflictResolutionService]. Whatever the choice,
// the copy ends up resolved, the note sheds its conflict flag at the
// highest version either side has seen and the outcome is queued and
// pushed so sibling devices converge on it.
func (s *resolutionService) Resolve(ctx context.Context, conflictID string, choice models.ResolutionChoice) error {
	if !choice.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownResolutionChoice, choice)
	}

	cc, err := s.conflicts.Get(ctx, conflictID)
	if err != nil {
		return fmt.Errorf("load conflict copy %s: %w", conflictID, err)
	}
	if cc.Resolved {
		return fmt.Errorf("%w: %s", ErrConflictAlreadyResolved, conflictID)
	}

	note, err := s.notes.Get(ctx, cc.NoteID)
	noteGone := errors.Is(err, store.ErrNoteNotFound)
	if err != nil && !noteGone {
		return fmt.Errorf("load note %s: %w", cc.NoteID, err)
	}

	now := time.Now()
	var save []models.Note
	var dup *models.Note

	if noteGone {
		// The note was deleted while the conflict sat unresolved. The
		// deletion stands; only keep-both still has content to rescue.
		if choice == models.ResolutionKeepBoth {
			d := duplicateFromCopy(models.Note{}, cc, s.deviceID, now)
			dup = &d
			save = append(save, d)
		}
	} else {
		note = clearConflict(note, cc, now)
		switch choice {
		case models.ResolutionUseRemote:
			note.Title = cc.Title
			note.Content = cc.Content
		case models.ResolutionKeepBoth:
			d := duplicateFromCopy(note, cc, s.deviceID, now)
			dup = &d
			save = append(save, d)
		}
		save = append(save, note)
	}

	if len(save) > 0 {
		if err := s.notes.Save(ctx, save...); err != nil {
			return fmt.Errorf("save resolution outcome for note %s: %w", cc.NoteID, err)
		}
	}
	if err := s.queue.ResolveConflictCopy(ctx, cc.ID); err != nil {
		return err
	}

	if !noteGone {
		if err := s.queue.Enqueue(ctx, cc.NoteID, models.CategoryNotes, models.ActionUpdate); err != nil {
			return err
		}
	}
	if dup != nil {
		if err := s.queue.Enqueue(ctx, dup.ID, models.CategoryNotes, models.ActionCreate); err != nil {
			return err
		}
	}

	s.syncer.InstantSync(ctx, models.CategoryNotes)
	return nil
}

// clearConflict lifts the frozen state off a note once the user has
// decided. The note adopts the highest sync version either side reached,
// so the next merge sees no divergence and publishes it cleanly.
func clearConflict(n models.Note, cc models.ConflictCopy, now time.Time) models.Note {
	n.HasConflict = false
	n.ConflictCopyID = nil
	if cc.SyncVersion > n.SyncVersion {
		n.SyncVersion = cc.SyncVersion
	}
	n.IsDirty = true
	n.SyncStatus = models.StatusPending
	n.UpdatedAt = now
	return n
}

// duplicateFromCopy materialises a conflict copy as an independent note.
// The duplicate keeps the original's placement but starts its own sync
// history at version one.
func duplicateFromCopy(original models.Note, cc models.ConflictCopy, deviceID string, now time.Time) models.Note {
	return models.Note{
		ID:          uuid.NewString(),
		Title:       cc.Title + " (copy)",
		Content:     cc.Content,
		FolderID:    original.FolderID,
		SectionID:   original.SectionID,
		CreatedAt:   now,
		UpdatedAt:   now,
		SyncVersion: 1,
		IsDirty:     true,
		SyncStatus:  models.StatusPending,
		DeviceID:    deviceID,
	}
}
