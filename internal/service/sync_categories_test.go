// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pavel Avdeyev

package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeyev/go-note-sync/models"
)

func putLocalDoc[T any](t *testing.T, docs *memDocs, category models.Category, data T, meta models.SyncMetadata) {
	t.Helper()
	body, err := encodeEnvelope(data, meta)
	require.NoError(t, err)
	require.NoError(t, docs.Put(testCtx(), category, body))
}

func putRemoteDoc[T any](t *testing.T, remote *fakeRemote, category models.Category, data T, meta models.SyncMetadata) {
	t.Helper()
	body, err := encodeEnvelope(data, meta)
	require.NoError(t, err)
	remote.files[category.FileName()] = body
}

func localDoc[T any](t *testing.T, docs *memDocs, category models.Category) models.FilePayload[T] {
	t.Helper()
	raw, err := docs.Get(testCtx(), category)
	require.NoError(t, err)
	payload, err := decodeEnvelope[T](raw)
	require.NoError(t, err)
	return payload
}

func remoteDoc[T any](t *testing.T, remote *fakeRemote, category models.Category) models.FilePayload[T] {
	t.Helper()
	raw, ok := remote.files[category.FileName()]
	require.True(t, ok, "remote %s file must exist", category)
	payload, err := decodeEnvelope[T](raw)
	require.NoError(t, err)
	return payload
}

// ── union-by-id collections ──────────────────────────────────────────────────

func TestSyncCollection_Union(t *testing.T) {
	f := newTestManager(t, nil)

	localTask := testTask("a", mergeBase.Add(time.Minute))
	localTask.Title = "edited here, later"
	localOnly := testTask("b", mergeBase)
	putLocalDoc(t, f.docs, models.CategoryTasks,
		[]models.Task{localTask, localOnly}, models.SyncMetadata{Version: 2})

	remoteTask := testTask("a", mergeBase)
	remoteOnly := testTask("c", mergeBase)
	putRemoteDoc(t, f.remote, models.CategoryTasks,
		[]models.Task{remoteTask, remoteOnly}, models.SyncMetadata{Version: 4, DeviceID: otherDeviceID})

	require.True(t, f.manager.SyncOne(testCtx(), models.CategoryTasks))

	payload := remoteDoc[[]models.Task](t, f.remote, models.CategoryTasks)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, taskIDs(payload.Data))
	assert.Equal(t, "edited here, later", findTask(t, payload.Data, "a").Title)
	assert.Equal(t, int64(5), payload.Metadata.Version)
	assert.Equal(t, testDeviceID, payload.Metadata.DeviceID)

	// The merged union lands locally too.
	local := localDoc[[]models.Task](t, f.docs, models.CategoryTasks)
	assert.ElementsMatch(t, taskIDs(payload.Data), taskIDs(local.Data))
}

func TestSyncCollection_PendingDeletesHeldOut(t *testing.T) {
	f := newTestManager(t, nil)
	f.queue.pendingDeletes = map[models.Category]map[string]struct{}{
		models.CategoryTasks: {"a": {}},
	}

	putLocalDoc(t, f.docs, models.CategoryTasks, []models.Task{testTask("b", mergeBase)}, models.SyncMetadata{})
	putRemoteDoc(t, f.remote, models.CategoryTasks,
		[]models.Task{testTask("a", mergeBase), testTask("b", mergeBase)}, models.SyncMetadata{Version: 1})

	require.True(t, f.manager.SyncOne(testCtx(), models.CategoryTasks))

	payload := remoteDoc[[]models.Task](t, f.remote, models.CategoryTasks)
	assert.ElementsMatch(t, []string{"b"}, taskIDs(payload.Data),
		"an entity with a queued delete is held out of merge input and output")
}

func TestSyncCollection_BootstrapAndBookkeeping(t *testing.T) {
	f := newTestManager(t, nil)
	putLocalDoc(t, f.docs, models.CategoryFolders,
		[]models.Folder{{ID: "f1", Name: "Inbox", UpdatedAt: mergeBase}}, models.SyncMetadata{})

	require.True(t, f.manager.SyncOne(testCtx(), models.CategoryFolders))

	payload := remoteDoc[[]models.Folder](t, f.remote, models.CategoryFolders)
	require.Len(t, payload.Data, 1)
	assert.Equal(t, "Inbox", payload.Data[0].Name)

	assert.Contains(t, f.queue.cleared, models.CategoryFolders, "queue items of a synced category are cleared")
}

// ── settings ─────────────────────────────────────────────────────────────────

func TestSyncSettings_KeyUnionLocalWins(t *testing.T) {
	f := newTestManager(t, nil)

	putLocalDoc(t, f.docs, models.CategorySettings,
		models.Settings{"theme": json.RawMessage(`"dark"`)}, models.SyncMetadata{})
	putRemoteDoc(t, f.remote, models.CategorySettings,
		models.Settings{
			"theme":    json.RawMessage(`"light"`),
			"language": json.RawMessage(`"de"`),
		}, models.SyncMetadata{Version: 1})

	require.True(t, f.manager.SyncOne(testCtx(), models.CategorySettings))

	payload := remoteDoc[models.Settings](t, f.remote, models.CategorySettings)
	assert.Equal(t, json.RawMessage(`"dark"`), payload.Data["theme"])
	assert.Equal(t, json.RawMessage(`"de"`), payload.Data["language"])
}

// ── activity log ─────────────────────────────────────────────────────────────

func TestSyncActivity_UnionNeverDeletes(t *testing.T) {
	f := newTestManager(t, nil)

	putLocalDoc(t, f.docs, models.CategoryActivity,
		[]models.ActivityEntry{{ID: "e1", Kind: models.ActivityNoteCreated, Timestamp: mergeBase}},
		models.SyncMetadata{})
	putRemoteDoc(t, f.remote, models.CategoryActivity,
		[]models.ActivityEntry{{ID: "e2", Kind: models.ActivityAppOpened, Timestamp: mergeBase.Add(time.Minute)}},
		models.SyncMetadata{Version: 2})

	require.True(t, f.manager.SyncOne(testCtx(), models.CategoryActivity))

	payload := remoteDoc[[]models.ActivityEntry](t, f.remote, models.CategoryActivity)
	require.Len(t, payload.Data, 2)
	assert.Equal(t, "e2", payload.Data[0].ID, "newest first")
	assert.Equal(t, "e1", payload.Data[1].ID)
}

// ── whole-document categories ────────────────────────────────────────────────

func TestSyncMediaIndex_LocalAuthoritative(t *testing.T) {
	f := newTestManager(t, nil)

	localIdx := models.MediaIndex{
		Entries:  []models.MediaEntry{{ID: "m1", FileName: "photo.jpg"}},
		Revision: 4,
	}
	putLocalDoc(t, f.docs, models.CategoryMediaIndex, localIdx, models.SyncMetadata{Version: 4})
	putRemoteDoc(t, f.remote, models.CategoryMediaIndex,
		models.MediaIndex{Entries: []models.MediaEntry{{ID: "m9"}}, Revision: 9},
		models.SyncMetadata{Version: 9, DeviceID: otherDeviceID})

	require.True(t, f.manager.SyncOne(testCtx(), models.CategoryMediaIndex))

	payload := remoteDoc[models.MediaIndex](t, f.remote, models.CategoryMediaIndex)
	assert.Equal(t, int64(4), payload.Data.Revision, "local document replaces the remote one wholesale")
	require.Len(t, payload.Data.Entries, 1)
	assert.Equal(t, "m1", payload.Data.Entries[0].ID)
	assert.Equal(t, int64(10), payload.Metadata.Version)
}

func TestSyncMediaIndex_AdoptRemoteWhenLocalAbsent(t *testing.T) {
	f := newTestManager(t, nil)

	putRemoteDoc(t, f.remote, models.CategoryMediaIndex,
		models.MediaIndex{Entries: []models.MediaEntry{{ID: "m9"}}, Revision: 9},
		models.SyncMetadata{Version: 9, DeviceID: otherDeviceID})

	require.True(t, f.manager.SyncOne(testCtx(), models.CategoryMediaIndex))

	local := localDoc[models.MediaIndex](t, f.docs, models.CategoryMediaIndex)
	assert.Equal(t, int64(9), local.Data.Revision)
	// Adoption claims no new revision.
	assert.Equal(t, int64(9), local.Metadata.Version)
	assert.Equal(t, otherDeviceID, local.Metadata.DeviceID)
	assert.Equal(t, 0, f.remote.writeCount(models.CategoryMediaIndex.FileName()))
}

// ── app lock ─────────────────────────────────────────────────────────────────

func TestSyncAppLock_DisabledNeverPublished(t *testing.T) {
	f := newTestManager(t, nil)

	putLocalDoc(t, f.docs, models.CategoryAppLock,
		models.AppLockConfig{Enabled: false, UpdatedAt: mergeBase}, models.SyncMetadata{})

	require.True(t, f.manager.SyncOne(testCtx(), models.CategoryAppLock))

	_, exists := f.remote.files[models.CategoryAppLock.FileName()]
	assert.False(t, exists, "a disabled lock leaves no trace in the remote store")
}

func TestSyncAppLock_EnabledPublished(t *testing.T) {
	f := newTestManager(t, nil)

	putLocalDoc(t, f.docs, models.CategoryAppLock,
		models.AppLockConfig{Enabled: true, PINHash: "aGFzaA==", PINSalt: "c2FsdA==", UpdatedAt: mergeBase},
		models.SyncMetadata{})

	require.True(t, f.manager.SyncOne(testCtx(), models.CategoryAppLock))

	payload := remoteDoc[models.AppLockConfig](t, f.remote, models.CategoryAppLock)
	assert.True(t, payload.Data.Enabled)
	assert.Equal(t, "aGFzaA==", payload.Data.PINHash)
}

func TestSyncAppLock_AdoptRemoteWhenLocalAbsent(t *testing.T) {
	f := newTestManager(t, nil)

	putRemoteDoc(t, f.remote, models.CategoryAppLock,
		models.AppLockConfig{Enabled: true, PINHash: "aGFzaA==", PINSalt: "c2FsdA=="},
		models.SyncMetadata{Version: 2, DeviceID: otherDeviceID})

	require.True(t, f.manager.SyncOne(testCtx(), models.CategoryAppLock))

	local := localDoc[models.AppLockConfig](t, f.docs, models.CategoryAppLock)
	assert.True(t, local.Data.Enabled)
	assert.Equal(t, 0, f.remote.writeCount(models.CategoryAppLock.FileName()))
}

func findTask(t *testing.T, tasks []models.Task, id string) models.Task {
	t.Helper()
	for _, task := range tasks {
		if task.ID == id {
			return task
		}
	}
	t.Fatalf("task %s not in result", id)
	return models.Task{}
}
