package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeyev/go-note-sync/models"
)

func newSettingsFixture() (SettingsService, *memDocs, *stubQueue, *stubSyncer) {
	docs := newMemDocs()
	queue := &stubQueue{}
	syncer := &stubSyncer{}
	return NewSettingsService(docs, queue, syncer), docs, queue, syncer
}

func TestSettings_SetAndGet(t *testing.T) {
	svc, _, queue, syncer := newSettingsFixture()

	require.NoError(t, svc.Set(testCtx(), "theme", json.RawMessage(`"dark"`)))
	require.NoError(t, svc.Set(testCtx(), "font_size", json.RawMessage(`14`)))

	all, err := svc.All(testCtx())
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`"dark"`), all["theme"])
	assert.Equal(t, json.RawMessage(`14`), all["font_size"])

	calls := queue.enqueuedFor("theme")
	require.Len(t, calls, 1)
	assert.Equal(t, models.ActionUpdate, calls[0].Action)
	assert.Equal(t, models.CategorySettings, calls[0].Category)
	assert.Len(t, syncer.Calls(), 2)
}

func TestSettings_Remove(t *testing.T) {
	svc, _, queue, _ := newSettingsFixture()
	require.NoError(t, svc.Set(testCtx(), "theme", json.RawMessage(`"dark"`)))

	require.NoError(t, svc.Remove(testCtx(), "theme"))

	all, err := svc.All(testCtx())
	require.NoError(t, err)
	assert.NotContains(t, all, "theme")

	calls := queue.enqueuedFor("theme")
	require.Len(t, calls, 2)
	assert.Equal(t, models.ActionDelete, calls[1].Action)
}

func TestSettings_RemoveMissingKeyIsNoop(t *testing.T) {
	svc, _, queue, syncer := newSettingsFixture()

	require.NoError(t, svc.Remove(testCtx(), "ghost"))

	assert.Empty(t, queue.enqueued)
	assert.Empty(t, syncer.Calls())
}

func TestSettings_EmptyKeyRejected(t *testing.T) {
	svc, _, _, _ := newSettingsFixture()

	assert.ErrorIs(t, svc.Set(testCtx(), "", json.RawMessage(`1`)), ErrEmptySettingsKey)
	assert.ErrorIs(t, svc.Remove(testCtx(), ""), ErrEmptySettingsKey)
}

func TestSettings_AllOnFreshDevice(t *testing.T) {
	svc, _, _, _ := newSettingsFixture()

	all, err := svc.All(testCtx())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}
