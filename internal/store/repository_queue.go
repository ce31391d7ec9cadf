package store

import (
	"context"
	"fmt"

	"github.com/avdeyev/go-note-sync/internal/logger"
	"github.com/avdeyev/go-note-sync/models"
)

// queueRepository is the SQLite-backed implementation of [QueueRepository].
// The sync_queue table carries a UNIQUE constraint over entity_id; Upsert
// leans on it to enforce the one-item-per-entity invariant at the schema
// level rather than in application code.
type queueRepository struct {
	*DB
	logger *logger.Logger
}

// NewQueueRepository constructs a [QueueRepository] backed by the provided
// database connection and logger.
func NewQueueRepository(db *DB, logger *logger.Logger) QueueRepository {
	return &queueRepository{
		DB:     db,
		logger: logger,
	}
}

// Upsert inserts the item, replacing any existing item for the same entity
// id. A replaced item loses its retry history: the new mutation starts a
// fresh attempt cycle.
func (q *queueRepository) Upsert(ctx context.Context, item models.SyncQueueItem) error {
	log := logger.FromContext(ctx)

	_, err := q.DB.ExecContext(ctx, upsertQueueItem,
		item.ID,
		item.EntityID,
		item.Category,
		item.Action,
		item.Timestamp,
		item.RetryCount,
		item.LastError,
		item.Status,
	)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.Upsert").
			Str("entity_id", item.EntityID).
			Str("category", string(item.Category)).
			Str("action", string(item.Action)).
			Msg("failed to execute upsert for queue item")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// List returns items matching the filter, oldest first.
// Returns an empty slice when nothing matches.
func (q *queueRepository) List(ctx context.Context, filter QueueFilter) ([]models.SyncQueueItem, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListQueueQuery(filter)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.List").
			Msg("failed to build list query")
		return nil, err
	}

	rows, queryErr := q.DB.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "queueRepository.List").
			Str("category", string(filter.Category)).
			Msg("failed to execute query for listing queue items")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	items := make([]models.SyncQueueItem, 0, 20)

	for rows.Next() {
		var item models.SyncQueueItem

		scanErr := rows.Scan(
			&item.ID,
			&item.EntityID,
			&item.Category,
			&item.Action,
			&item.Timestamp,
			&item.RetryCount,
			&item.LastError,
			&item.Status,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "queueRepository.List").
				Msg("failed to scan queue item row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		items = append(items, item)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "queueRepository.List").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return items, nil
}

// Update rewrites the mutable fields (timestamp, retry count, last error,
// status) of an existing item. Returns [ErrQueueItemNotFound] when no row
// matches the id.
func (q *queueRepository) Update(ctx context.Context, item models.SyncQueueItem) error {
	log := logger.FromContext(ctx)

	result, err := q.DB.ExecContext(ctx, updateQueueItem,
		item.Timestamp,
		item.RetryCount,
		item.LastError,
		item.Status,
		item.ID,
	)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.Update").
			Str("id", item.ID).
			Msg("failed to execute update for queue item")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.Update").
			Str("id", item.ID).
			Msg("failed to get rows affected after update")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if rowsAffected == 0 {
		log.Warn().
			Str("func", "queueRepository.Update").
			Str("id", item.ID).
			Msg("no rows affected during update: queue item not found")
		return ErrQueueItemNotFound
	}

	return nil
}

// Delete removes the item with the given id. Deleting an absent id is not
// an error.
func (q *queueRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	_, err := q.DB.ExecContext(ctx, deleteQueueItem, id)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.Delete").
			Str("id", id).
			Msg("failed to execute delete for queue item")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// DeleteByCategory removes every item of the category in one statement.
func (q *queueRepository) DeleteByCategory(ctx context.Context, category models.Category) error {
	log := logger.FromContext(ctx)

	_, err := q.DB.ExecContext(ctx, deleteQueueItemsByCategory, category)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.DeleteByCategory").
			Str("category", string(category)).
			Msg("failed to execute delete for category queue items")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}
