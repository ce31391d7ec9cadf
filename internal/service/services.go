package service

import (
	"github.com/avdeyev/go-note-sync/internal/adapter"
	"github.com/avdeyev/go-note-sync/internal/crypto"
	"github.com/avdeyev/go-note-sync/internal/logger"
	"github.com/avdeyev/go-note-sync/internal/store"
)

// Services bundles the whole service layer behind one value. The shell
// receives it fully wired and never constructs a service on its own.
type Services struct {
	Queue       SyncQueueService
	Engine      SyncEngine
	Notes       NotesService
	Collections CollectionsService
	Settings    SettingsService
	Media       MediaService
	Activity    ActivityService
	AppLock     AppLockService
	Resolution  ConflictResolutionService
}

// NewServices wires every service against the shared storages and the
// remote file store. deviceID stamps everything this install authors;
// refresh may be nil on platforms without token renewal.
func NewServices(
	storages *store.Storages,
	remote adapter.RemoteFileStore,
	hasher crypto.PINHasher,
	deviceID string,
	refresh TokenRefreshFunc,
	log *logger.Logger,
) *Services {
	queueSvc := NewSyncQueueService(storages.Queue, storages.Conflicts, storages.Notes)
	engine := NewSyncManager(remote, storages, queueSvc, deviceID, refresh, log)

	activitySvc := NewActivityService(storages.Documents, queueSvc, deviceID)

	return &Services{
		Queue:       queueSvc,
		Engine:      engine,
		Notes:       NewNotesService(storages.Notes, queueSvc, activitySvc, engine, deviceID),
		Collections: NewCollectionsService(storages.Documents, queueSvc, activitySvc, engine),
		Settings:    NewSettingsService(storages.Documents, queueSvc, engine),
		Media:       NewMediaService(storages.Documents, queueSvc, engine),
		Activity:    activitySvc,
		AppLock:     NewAppLockService(storages.Documents, queueSvc, hasher, engine),
		Resolution:  NewConflictResolutionService(storages.Notes, storages.Conflicts, queueSvc, engine, deviceID),
	}
}
