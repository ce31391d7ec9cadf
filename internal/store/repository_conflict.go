package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avdeyev/go-note-sync/internal/logger"
	"github.com/avdeyev/go-note-sync/models"
)

// conflictRepository is the SQLite-backed implementation of
// [ConflictRepository].
type conflictRepository struct {
	*DB
	logger *logger.Logger
}

// NewConflictRepository constructs a [ConflictRepository] backed by the
// provided database connection and logger.
func NewConflictRepository(db *DB, logger *logger.Logger) ConflictRepository {
	return &conflictRepository{
		DB:     db,
		logger: logger,
	}
}

// Save inserts a new conflict copy.
func (c *conflictRepository) Save(ctx context.Context, cc models.ConflictCopy) error {
	log := logger.FromContext(ctx)

	_, err := c.DB.ExecContext(ctx, saveConflictCopy,
		cc.ID,
		cc.NoteID,
		cc.Title,
		cc.Content,
		cc.SyncVersion,
		cc.DeviceID,
		cc.CreatedAt,
		cc.Resolved,
	)
	if err != nil {
		log.Err(err).
			Str("func", "conflictRepository.Save").
			Str("id", cc.ID).
			Str("note_id", cc.NoteID).
			Msg("failed to execute insert for conflict copy")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// Get returns the copy with the given id or [ErrConflictCopyNotFound].
func (c *conflictRepository) Get(ctx context.Context, id string) (models.ConflictCopy, error) {
	log := logger.FromContext(ctx)

	var cc models.ConflictCopy
	scanErr := c.DB.QueryRowContext(ctx, getConflictCopy, id).Scan(
		&cc.ID,
		&cc.NoteID,
		&cc.Title,
		&cc.Content,
		&cc.SyncVersion,
		&cc.DeviceID,
		&cc.CreatedAt,
		&cc.Resolved,
	)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return models.ConflictCopy{}, ErrConflictCopyNotFound
		}

		log.Err(scanErr).
			Str("func", "conflictRepository.Get").
			Str("id", id).
			Msg("failed to scan conflict copy row")
		return models.ConflictCopy{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	return cc, nil
}

// List returns copies matching the filter, newest first.
// Returns an empty slice when nothing matches.
func (c *conflictRepository) List(ctx context.Context, filter ConflictFilter) ([]models.ConflictCopy, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListConflictsQuery(filter)
	if err != nil {
		log.Err(err).
			Str("func", "conflictRepository.List").
			Msg("failed to build list query")
		return nil, err
	}

	rows, queryErr := c.DB.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "conflictRepository.List").
			Str("note_id", filter.NoteID).
			Msg("failed to execute query for listing conflict copies")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	copies := make([]models.ConflictCopy, 0, 10)

	for rows.Next() {
		var cc models.ConflictCopy

		scanErr := rows.Scan(
			&cc.ID,
			&cc.NoteID,
			&cc.Title,
			&cc.Content,
			&cc.SyncVersion,
			&cc.DeviceID,
			&cc.CreatedAt,
			&cc.Resolved,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "conflictRepository.List").
				Msg("failed to scan conflict copy row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		copies = append(copies, cc)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "conflictRepository.List").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return copies, nil
}

// Resolve marks the copy resolved. Returns [ErrConflictCopyNotFound] when
// no row matches the id.
func (c *conflictRepository) Resolve(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	result, err := c.DB.ExecContext(ctx, resolveConflictCopy, id)
	if err != nil {
		log.Err(err).
			Str("func", "conflictRepository.Resolve").
			Str("id", id).
			Msg("failed to execute resolve for conflict copy")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).
			Str("func", "conflictRepository.Resolve").
			Str("id", id).
			Msg("failed to get rows affected after resolve")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if rowsAffected == 0 {
		log.Warn().
			Str("func", "conflictRepository.Resolve").
			Str("id", id).
			Msg("no rows affected during resolve: conflict copy not found")
		return ErrConflictCopyNotFound
	}

	return nil
}

// PurgeResolved deletes resolved copies created before the cutoff and
// returns the number of rows removed. Unresolved copies are kept
// regardless of age.
func (c *conflictRepository) PurgeResolved(ctx context.Context, olderThan time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := c.DB.ExecContext(ctx, purgeResolvedConflicts, olderThan)
	if err != nil {
		log.Err(err).
			Str("func", "conflictRepository.PurgeResolved").
			Time("older_than", olderThan).
			Msg("failed to execute purge for resolved conflict copies")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	purged, err := result.RowsAffected()
	if err != nil {
		log.Err(err).
			Str("func", "conflictRepository.PurgeResolved").
			Msg("failed to get rows affected after purge")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if purged > 0 {
		log.Debug().
			Str("func", "conflictRepository.PurgeResolved").
			Int64("purged", purged).
			Msg("purged resolved conflict copies past retention")
	}

	return purged, nil
}
