package service

import (
	"context"
	"fmt"

	"github.com/avdeyev/go-note-sync/internal/logger"
	"github.com/avdeyev/go-note-sync/internal/store"
	"github.com/avdeyev/go-note-sync/models"
)

// collectionsService is the concrete implementation of
// [CollectionsService]. The shell replaces a collection wholesale; the
// service diffs the replacement against the stored document so its own
// deletions propagate through the queue despite the union merge.
type collectionsService struct {
	docs     store.DocumentRepository
	queue    SyncQueueService
	activity ActivityService
	syncer   InstantSyncer
}

// NewCollectionsService constructs a [CollectionsService].
func NewCollectionsService(
	docs store.DocumentRepository,
	queue SyncQueueService,
	activity ActivityService,
	syncer InstantSyncer,
) CollectionsService {
	return &collectionsService{
		docs:     docs,
		queue:    queue,
		activity: activity,
		syncer:   syncer,
	}
}

// Tasks implements [CollectionsService].
func (s *collectionsService) Tasks(ctx context.Context) ([]models.Task, error) {
	return readCollection[models.Task](ctx, s, models.CategoryTasks)
}

// PutTasks implements [CollectionsService]. Completing a task leaves a
// trace in the usage log.
func (s *collectionsService) PutTasks(ctx context.Context, tasks []models.Task) error {
	prev, _, _, err := loadDocument[[]models.Task](ctx, s.docs, models.CategoryTasks)
	if err != nil {
		return err
	}

	wasDone := make(map[string]bool, len(prev))
	for _, t := range prev {
		wasDone[t.ID] = t.Done
	}
	for _, t := range tasks {
		if t.Done && !wasDone[t.ID] {
			s.recordActivity(ctx, models.ActivityTaskDone, t.ID)
		}
	}

	return storeCollection(ctx, s, models.CategoryTasks, tasks)
}

// Folders implements [CollectionsService].
func (s *collectionsService) Folders(ctx context.Context) ([]models.Folder, error) {
	return readCollection[models.Folder](ctx, s, models.CategoryFolders)
}

// PutFolders implements [CollectionsService].
func (s *collectionsService) PutFolders(ctx context.Context, folders []models.Folder) error {
	return storeCollection(ctx, s, models.CategoryFolders, folders)
}

// Sections implements [CollectionsService].
func (s *collectionsService) Sections(ctx context.Context) ([]models.Section, error) {
	return readCollection[models.Section](ctx, s, models.CategorySections)
}

// PutSections implements [CollectionsService].
func (s *collectionsService) PutSections(ctx context.Context, sections []models.Section) error {
	return storeCollection(ctx, s, models.CategorySections, sections)
}

func (s *collectionsService) recordActivity(ctx context.Context, kind, entityID string) {
	if err := s.activity.Record(ctx, kind, entityID); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("kind", kind).Msg("cannot record activity")
	}
}

// readCollection returns the locally stored entities of a collection
// category, empty when none were ever stored.
func readCollection[T models.Mergeable](ctx context.Context, s *collectionsService, category models.Category) ([]T, error) {
	items, _, _, err := loadDocument[[]T](ctx, s.docs, category)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// storeCollection persists a replacement collection and queues the sync
// work: delete items for entities the replacement dropped, cleared
// deletes for entities it brought back, one category-level update.
func storeCollection[T models.Mergeable](ctx context.Context, s *collectionsService, category models.Category, next []T) error {
	prev, meta, _, err := loadDocument[[]T](ctx, s.docs, category)
	if err != nil {
		return err
	}

	pending, err := s.queue.PendingDeletes(ctx, category)
	if err != nil {
		return err
	}

	nextKeys := make(map[string]struct{}, len(next))
	for _, it := range next {
		nextKeys[it.Key()] = struct{}{}
		if _, ok := pending[it.Key()]; ok {
			// Re-added before its deletion synced: the stale delete item
			// must not outlive the entity's return.
			if err := s.queue.Dequeue(ctx, it.Key()); err != nil {
				return err
			}
		}
	}
	for _, it := range prev {
		if _, ok := nextKeys[it.Key()]; !ok {
			// Dropped from the replacement set: queue the deletion so
			// the union merge does not resurrect it from the remote file.
			if err := s.queue.Enqueue(ctx, it.Key(), category, models.ActionDelete); err != nil {
				return err
			}
		}
	}

	body, err := encodeEnvelope(next, meta)
	if err != nil {
		return err
	}
	if err := s.docs.Put(ctx, category, body); err != nil {
		return fmt.Errorf("store %s locally: %w", category, err)
	}
	if err := s.queue.Enqueue(ctx, string(category), category, models.ActionUpdate); err != nil {
		return err
	}

	s.syncer.InstantSync(ctx, category)
	return nil
}
