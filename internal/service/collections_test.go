package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeyev/go-note-sync/models"
)

type collectionsFixture struct {
	svc      CollectionsService
	docs     *memDocs
	queue    *stubQueue
	activity *stubActivity
	syncer   *stubSyncer
}

func newCollectionsFixture() collectionsFixture {
	f := collectionsFixture{
		docs:     newMemDocs(),
		queue:    &stubQueue{},
		activity: &stubActivity{},
		syncer:   &stubSyncer{},
	}
	f.svc = NewCollectionsService(f.docs, f.queue, f.activity, f.syncer)
	return f
}

func TestCollections_RoundTrip(t *testing.T) {
	f := newCollectionsFixture()

	tasks, err := f.svc.Tasks(testCtx())
	require.NoError(t, err)
	assert.Empty(t, tasks, "a fresh device has no stored collection")

	put := []models.Task{testTask("a", mergeBase), testTask("b", mergeBase)}
	require.NoError(t, f.svc.PutTasks(testCtx(), put))

	got, err := f.svc.Tasks(testCtx())
	require.NoError(t, err)
	assert.ElementsMatch(t, taskIDs(put), taskIDs(got))

	assert.Equal(t, []models.Category{models.CategoryTasks}, f.syncer.Calls())
	calls := f.queue.enqueuedFor(string(models.CategoryTasks))
	require.Len(t, calls, 1)
	assert.Equal(t, models.ActionUpdate, calls[0].Action)
}

func TestCollections_DroppedEntityQueuesDelete(t *testing.T) {
	f := newCollectionsFixture()
	require.NoError(t, f.svc.PutTasks(testCtx(), []models.Task{
		testTask("a", mergeBase), testTask("b", mergeBase),
	}))

	require.NoError(t, f.svc.PutTasks(testCtx(), []models.Task{testTask("a", mergeBase)}))

	calls := f.queue.enqueuedFor("b")
	require.Len(t, calls, 1)
	assert.Equal(t, models.ActionDelete, calls[0].Action,
		"a dropped entity gets a delete item so the union merge does not resurrect it")
}

func TestCollections_ReAddedEntityDequeuesDelete(t *testing.T) {
	f := newCollectionsFixture()
	f.queue.pendingDeletes = map[models.Category]map[string]struct{}{
		models.CategoryTasks: {"a": {}},
	}

	require.NoError(t, f.svc.PutTasks(testCtx(), []models.Task{testTask("a", mergeBase)}))

	assert.Equal(t, []string{"a"}, f.queue.dequeued,
		"re-adding before the deletion synced must clear the stale delete item")
}

func TestCollections_TaskCompletionRecorded(t *testing.T) {
	f := newCollectionsFixture()
	open := testTask("a", mergeBase)
	require.NoError(t, f.svc.PutTasks(testCtx(), []models.Task{open}))

	done := open
	done.Done = true
	require.NoError(t, f.svc.PutTasks(testCtx(), []models.Task{done}))

	assert.Equal(t, []string{models.ActivityTaskDone + ":a"}, f.activity.records)

	// Re-storing an already-done task is not a second completion.
	require.NoError(t, f.svc.PutTasks(testCtx(), []models.Task{done}))
	assert.Len(t, f.activity.records, 1)
}

func TestCollections_FoldersAndSections(t *testing.T) {
	f := newCollectionsFixture()

	require.NoError(t, f.svc.PutFolders(testCtx(), []models.Folder{
		{ID: "f1", Name: "Inbox", Position: 0, UpdatedAt: mergeBase},
	}))
	require.NoError(t, f.svc.PutSections(testCtx(), []models.Section{
		{ID: "s1", FolderID: "f1", Name: "Today", UpdatedAt: mergeBase},
	}))

	folders, err := f.svc.Folders(testCtx())
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "Inbox", folders[0].Name)

	sections, err := f.svc.Sections(testCtx())
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "f1", sections[0].FolderID)

	assert.ElementsMatch(t,
		[]models.Category{models.CategoryFolders, models.CategorySections},
		f.syncer.Calls())
}
