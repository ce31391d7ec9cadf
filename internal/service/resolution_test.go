// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pavel Avdeyev

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeyev/go-note-sync/models"
)

type resolutionFixture struct {
	svc       ConflictResolutionService
	notes     *memNotes
	conflicts *memConflicts
	queue     *stubQueue
	syncer    *stubSyncer
}

func newResolutionFixture(notes []models.Note, copies ...models.ConflictCopy) resolutionFixture {
	f := resolutionFixture{
		notes:     newMemNotes(notes...),
		conflicts: newMemConflicts(copies...),
		queue:     &stubQueue{},
		syncer:    &stubSyncer{},
	}
	f.svc = NewConflictResolutionService(f.notes, f.conflicts, f.queue, f.syncer, testDeviceID)
	return f
}

func frozenNote(copyID string) models.Note {
	n := testNote("n1", 2, true)
	n.Title = "Groceries"
	n.Content = "milk, eggs"
	n.HasConflict = true
	n.SyncStatus = models.StatusConflict
	n.ConflictCopyID = &copyID
	return n
}

func remoteCopy(id, noteID string) models.ConflictCopy {
	return models.ConflictCopy{
		ID:          id,
		NoteID:      noteID,
		Title:       "Groceries",
		Content:     "milk, eggs, butter",
		SyncVersion: 3,
		DeviceID:    otherDeviceID,
		CreatedAt:   mergeBase,
	}
}

func TestResolve_KeepLocal(t *testing.T) {
	cc := remoteCopy("cc1", "n1")
	f := newResolutionFixture([]models.Note{frozenNote("cc1")}, cc)

	require.NoError(t, f.svc.Resolve(testCtx(), "cc1", models.ResolutionKeepLocal))

	note, err := f.notes.Get(testCtx(), "n1")
	require.NoError(t, err)
	assert.Equal(t, "milk, eggs", note.Content, "local content survives")
	assert.False(t, note.HasConflict)
	assert.Nil(t, note.ConflictCopyID)
	assert.Equal(t, int64(3), note.SyncVersion, "note adopts the copy's higher version")
	assert.True(t, note.IsDirty)
	assert.Equal(t, models.StatusPending, note.SyncStatus)

	assert.Equal(t, []string{"cc1"}, f.queue.resolved)
	require.Len(t, f.queue.enqueuedFor("n1"), 1)
	assert.Equal(t, models.ActionUpdate, f.queue.enqueuedFor("n1")[0].Action)
	assert.Equal(t, []models.Category{models.CategoryNotes}, f.syncer.Calls())
}

func TestResolve_UseRemote(t *testing.T) {
	cc := remoteCopy("cc1", "n1")
	f := newResolutionFixture([]models.Note{frozenNote("cc1")}, cc)

	require.NoError(t, f.svc.Resolve(testCtx(), "cc1", models.ResolutionUseRemote))

	note, err := f.notes.Get(testCtx(), "n1")
	require.NoError(t, err)
	assert.Equal(t, "milk, eggs, butter", note.Content, "copy content overwrites the note")
	assert.False(t, note.HasConflict)
	assert.True(t, note.IsDirty)
}

func TestResolve_KeepBoth(t *testing.T) {
	folderID := "f1"
	orig := frozenNote("cc1")
	orig.FolderID = &folderID
	cc := remoteCopy("cc1", "n1")
	f := newResolutionFixture([]models.Note{orig}, cc)

	require.NoError(t, f.svc.Resolve(testCtx(), "cc1", models.ResolutionKeepBoth))

	note, err := f.notes.Get(testCtx(), "n1")
	require.NoError(t, err)
	assert.Equal(t, "milk, eggs", note.Content, "original keeps local content")
	assert.False(t, note.HasConflict)

	all, err := f.notes.GetAll(testCtx())
	require.NoError(t, err)
	require.Len(t, all, 2)

	var dup models.Note
	for _, n := range all {
		if n.ID != "n1" {
			dup = n
		}
	}
	assert.Equal(t, "Groceries (copy)", dup.Title)
	assert.Equal(t, "milk, eggs, butter", dup.Content)
	require.NotNil(t, dup.FolderID)
	assert.Equal(t, folderID, *dup.FolderID, "duplicate keeps the original's placement")
	assert.Equal(t, int64(1), dup.SyncVersion, "duplicate starts its own sync history")
	assert.True(t, dup.IsDirty)
	assert.Equal(t, testDeviceID, dup.DeviceID)

	require.Len(t, f.queue.enqueuedFor(dup.ID), 1)
	assert.Equal(t, models.ActionCreate, f.queue.enqueuedFor(dup.ID)[0].Action)
	require.Len(t, f.queue.enqueuedFor("n1"), 1)
	assert.Equal(t, models.ActionUpdate, f.queue.enqueuedFor("n1")[0].Action)
}

func TestResolve_NoteGone(t *testing.T) {
	t.Run("keep local honours the deletion", func(t *testing.T) {
		f := newResolutionFixture(nil, remoteCopy("cc1", "n1"))

		require.NoError(t, f.svc.Resolve(testCtx(), "cc1", models.ResolutionKeepLocal))

		all, err := f.notes.GetAll(testCtx())
		require.NoError(t, err)
		assert.Empty(t, all, "a resolved deletion does not resurrect the note")
		assert.Equal(t, []string{"cc1"}, f.queue.resolved)
		assert.Empty(t, f.queue.enqueued)
	})

	t.Run("keep both still rescues the copy", func(t *testing.T) {
		f := newResolutionFixture(nil, remoteCopy("cc1", "n1"))

		require.NoError(t, f.svc.Resolve(testCtx(), "cc1", models.ResolutionKeepBoth))

		all, err := f.notes.GetAll(testCtx())
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "Groceries (copy)", all[0].Title)
		assert.NotEqual(t, "n1", all[0].ID)

		require.Len(t, f.queue.enqueued, 1)
		assert.Equal(t, models.ActionCreate, f.queue.enqueued[0].Action)
	})
}

func TestResolve_AlreadyResolved(t *testing.T) {
	cc := remoteCopy("cc1", "n1")
	cc.Resolved = true
	f := newResolutionFixture([]models.Note{frozenNote("cc1")}, cc)

	err := f.svc.Resolve(testCtx(), "cc1", models.ResolutionKeepLocal)
	assert.ErrorIs(t, err, ErrConflictAlreadyResolved)
	assert.Empty(t, f.syncer.Calls())
}

func TestResolve_UnknownChoice(t *testing.T) {
	f := newResolutionFixture([]models.Note{frozenNote("cc1")}, remoteCopy("cc1", "n1"))

	err := f.svc.Resolve(testCtx(), "cc1", models.ResolutionChoice("coin_flip"))
	assert.ErrorIs(t, err, ErrUnknownResolutionChoice)
}

func TestResolve_MissingCopy(t *testing.T) {
	f := newResolutionFixture(nil)

	err := f.svc.Resolve(testCtx(), "nope", models.ResolutionKeepLocal)
	assert.Error(t, err)
}

func TestListUnresolvedConflicts(t *testing.T) {
	older := remoteCopy("cc1", "n1")
	older.CreatedAt = mergeBase.Add(-time.Hour)
	newer := remoteCopy("cc2", "n1")
	done := remoteCopy("cc3", "n1")
	done.Resolved = true
	other := remoteCopy("cc4", "n2")

	f := newResolutionFixture(nil, older, newer, done, other)

	copies, err := f.svc.ListUnresolvedConflicts(testCtx(), "n1")
	require.NoError(t, err)
	require.Len(t, copies, 2)
	assert.Equal(t, "cc2", copies[0].ID, "newest first")
	assert.Equal(t, "cc1", copies[1].ID)
}
