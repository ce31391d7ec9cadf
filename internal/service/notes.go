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

// notesService is the concrete implementation of [NotesService]. Every
// mutation follows the same offline-first shape: commit locally, queue
// the sync work, push the category.
type notesService struct {
	notes    store.NoteRepository
	queue    SyncQueueService
	activity ActivityService
	syncer   InstantSyncer
	deviceID string
}

// NewNotesService constructs a [NotesService].
func NewNotesService(
	notes store.NoteRepository,
	queue SyncQueueService,
	activity ActivityService,
	syncer InstantSyncer,
	deviceID string,
) NotesService {
	return &notesService{
		notes:    notes,
		queue:    queue,
		activity: activity,
		syncer:   syncer,
		deviceID: deviceID,
	}
}

// Create implements [NotesService].
func (s *notesService) Create(ctx context.Context, draft NoteDraft) (models.Note, error) {
	now := time.Now()
	note := models.Note{
		ID:          uuid.NewString(),
		Title:       draft.Title,
		Content:     draft.Content,
		FolderID:    draft.FolderID,
		SectionID:   draft.SectionID,
		Pinned:      draft.Pinned,
		CreatedAt:   now,
		UpdatedAt:   now,
		SyncVersion: 1,
		IsDirty:     true,
		SyncStatus:  models.StatusPending,
		DeviceID:    s.deviceID,
	}

	if err := s.notes.Save(ctx, note); err != nil {
		return models.Note{}, fmt.Errorf("create note: %w", err)
	}
	if err := s.queue.Enqueue(ctx, note.ID, models.CategoryNotes, models.ActionCreate); err != nil {
		return models.Note{}, err
	}

	s.recordActivity(ctx, models.ActivityNoteCreated, note.ID)
	s.syncer.InstantSync(ctx, models.CategoryNotes)
	return note, nil
}

// Update implements [NotesService]. Conflict flags survive the edit: a
// conflicted note stays frozen until the user resolves it, however many
// times it is edited meanwhile.
func (s *notesService) Update(ctx context.Context, id string, draft NoteDraft) (models.Note, error) {
	note, err := s.notes.Get(ctx, id)
	if err != nil {
		return models.Note{}, fmt.Errorf("load note %s: %w", id, err)
	}

	note.Title = draft.Title
	note.Content = draft.Content
	note.FolderID = draft.FolderID
	note.SectionID = draft.SectionID
	note.Pinned = draft.Pinned
	note.UpdatedAt = time.Now()
	note.IsDirty = true
	note.DeviceID = s.deviceID
	if !note.HasConflict {
		note.SyncStatus = models.StatusPending
	}

	if err := s.notes.Save(ctx, note); err != nil {
		return models.Note{}, fmt.Errorf("update note %s: %w", id, err)
	}
	if err := s.queue.Enqueue(ctx, note.ID, models.CategoryNotes, models.ActionUpdate); err != nil {
		return models.Note{}, err
	}

	s.recordActivity(ctx, models.ActivityNoteUpdated, note.ID)
	s.syncer.InstantSync(ctx, models.CategoryNotes)
	return note, nil
}

// Archive implements [NotesService].
func (s *notesService) Archive(ctx context.Context, id string) error {
	note, err := s.notes.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load note %s: %w", id, err)
	}
	if note.Archived {
		return nil
	}

	note.Archived = true
	note.UpdatedAt = time.Now()
	note.IsDirty = true
	note.DeviceID = s.deviceID
	if !note.HasConflict {
		note.SyncStatus = models.StatusPending
	}

	if err := s.notes.Save(ctx, note); err != nil {
		return fmt.Errorf("archive note %s: %w", id, err)
	}
	if err := s.queue.Enqueue(ctx, note.ID, models.CategoryNotes, models.ActionUpdate); err != nil {
		return err
	}

	s.recordActivity(ctx, models.ActivityNoteArchived, note.ID)
	s.syncer.InstantSync(ctx, models.CategoryNotes)
	return nil
}

// Delete implements [NotesService]. The local row goes away immediately;
// the queued delete keeps the note out of subsequent merges so no sync
// resurrects it before the deletion reaches the remote file.
func (s *notesService) Delete(ctx context.Context, id string) error {
	if err := s.notes.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete note %s: %w", id, err)
	}
	if err := s.queue.Enqueue(ctx, id, models.CategoryNotes, models.ActionDelete); err != nil {
		return err
	}

	s.syncer.InstantSync(ctx, models.CategoryNotes)
	return nil
}

// Get implements [NotesService].
func (s *notesService) Get(ctx context.Context, id string) (models.Note, error) {
	note, err := s.notes.Get(ctx, id)
	if err != nil {
		return models.Note{}, fmt.Errorf("load note %s: %w", id, err)
	}
	return note, nil
}

// List implements [NotesService].
func (s *notesService) List(ctx context.Context) ([]models.Note, error) {
	notes, err := s.notes.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// recordActivity is best effort: the usage log never blocks a mutation.
func (s *notesService) recordActivity(ctx context.Context, kind, entityID string) {
	if err := s.activity.Record(ctx, kind, entityID); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("kind", kind).Msg("cannot record activity")
	}
}
