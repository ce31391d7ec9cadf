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

// noteRepository is the SQLite-backed implementation of [NoteRepository].
// It executes all note CRUD operations directly against the "notes" table
// using the embedded [*DB] connection.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced
// with structured fields (note id, batch sizes, iteration index, etc.).
type noteRepository struct {
	*DB
	logger *logger.Logger
}

// NewNoteRepository constructs a [NoteRepository] backed by the provided
// database connection and logger.
func NewNoteRepository(db *DB, logger *logger.Logger) NoteRepository {
	return &noteRepository{
		DB:     db,
		logger: logger,
	}
}

// Save upserts one or more notes by id.
//
// Routing strategy:
//   - Exactly one note → plain INSERT … ON CONFLICT (no transaction overhead).
//   - Two or more notes → transaction with a prepared statement.
func (n *noteRepository) Save(ctx context.Context, notes ...models.Note) error {
	if len(notes) == 1 {
		return n.saveSingleNote(ctx, notes[0])
	}

	return n.saveMultipleNotes(ctx, notes)
}

func (n *noteRepository) saveSingleNote(ctx context.Context, note models.Note) error {
	log := logger.FromContext(ctx)

	_, err := n.DB.ExecContext(ctx, upsertNote, noteArgs(note)...)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.saveSingleNote").
			Str("note_id", note.ID).
			Msg("failed to execute upsert for note")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (n *noteRepository) saveMultipleNotes(ctx context.Context, notes []models.Note) error {
	log := logger.FromContext(ctx)

	tx, err := n.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.saveMultipleNotes").
			Int("count", len(notes)).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertNote)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.saveMultipleNotes").
			Int("count", len(notes)).
			Msg("failed to prepare statement")
		return fmt.Errorf("%w: %w", ErrPreparingStatement, err)
	}
	defer stmt.Close()

	for idx, note := range notes {
		log.Debug().
			Str("func", "noteRepository.saveMultipleNotes").
			Int("iteration", idx+1).
			Int("total", len(notes)).
			Str("note_id", note.ID).
			Msg("saving note in transaction")

		if _, execErr := stmt.ExecContext(ctx, noteArgs(note)...); execErr != nil {
			log.Err(execErr).
				Str("func", "noteRepository.saveMultipleNotes").
				Int("iteration", idx+1).
				Str("note_id", note.ID).
				Msg("failed to execute prepared statement")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "noteRepository.saveMultipleNotes").
			Int("count", len(notes)).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return nil
}

// Get returns the note with the given id or [ErrNoteNotFound].
func (n *noteRepository) Get(ctx context.Context, id string) (models.Note, error) {
	log := logger.FromContext(ctx)

	var note models.Note
	row := n.DB.QueryRowContext(ctx, getNote, id)

	scanErr := scanNote(row.Scan, &note)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return models.Note{}, ErrNoteNotFound
		}

		log.Err(scanErr).
			Str("func", "noteRepository.Get").
			Str("note_id", id).
			Msg("failed to scan note row")
		return models.Note{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	return note, nil
}

// GetAll returns every local note, most recently updated first.
// Returns an empty slice when the table is empty.
func (n *noteRepository) GetAll(ctx context.Context) ([]models.Note, error) {
	log := logger.FromContext(ctx)

	rows, err := n.DB.QueryContext(ctx, getAllNotes)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.GetAll").
			Msg("failed to execute query for getting all notes")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	notes := make([]models.Note, 0, 50)

	for rows.Next() {
		var note models.Note

		if scanErr := scanNote(rows.Scan, &note); scanErr != nil {
			log.Err(scanErr).
				Str("func", "noteRepository.GetAll").
				Msg("failed to scan note row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		notes = append(notes, note)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "noteRepository.GetAll").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return notes, nil
}

// Delete removes the note with the given id. Deleting an absent id is not
// an error: the desired end state is already true.
func (n *noteRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	_, err := n.DB.ExecContext(ctx, deleteNote, id)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.Delete").
			Str("note_id", id).
			Msg("failed to execute delete for note")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// ReplaceAll atomically swaps the whole notes table for the given set
// inside a single transaction. This is how a merged category state is
// persisted: the merge result is the new local truth.
func (n *noteRepository) ReplaceAll(ctx context.Context, notes []models.Note) error {
	log := logger.FromContext(ctx)

	tx, err := n.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.ReplaceAll").
			Int("count", len(notes)).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, execErr := tx.ExecContext(ctx, deleteAllNotes); execErr != nil {
		log.Err(execErr).
			Str("func", "noteRepository.ReplaceAll").
			Msg("failed to clear notes table")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, execErr)
	}

	stmt, err := tx.PrepareContext(ctx, upsertNote)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.ReplaceAll").
			Int("count", len(notes)).
			Msg("failed to prepare statement")
		return fmt.Errorf("%w: %w", ErrPreparingStatement, err)
	}
	defer stmt.Close()

	for idx, note := range notes {
		if _, execErr := stmt.ExecContext(ctx, noteArgs(note)...); execErr != nil {
			log.Err(execErr).
				Str("func", "noteRepository.ReplaceAll").
				Int("iteration", idx+1).
				Str("note_id", note.ID).
				Msg("failed to execute prepared statement")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "noteRepository.ReplaceAll").
			Int("count", len(notes)).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	log.Debug().
		Str("func", "noteRepository.ReplaceAll").
		Int("count", len(notes)).
		Msg("replaced notes table with merged set")

	return nil
}

// MarkSynced clears the dirty flag, sets sync_status to synced and stamps
// last_synced_at on the given ids inside a single transaction.
func (n *noteRepository) MarkSynced(ctx context.Context, syncedAt time.Time, ids ...string) error {
	log := logger.FromContext(ctx)

	if len(ids) == 0 {
		return nil
	}

	tx, err := n.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.MarkSynced").
			Int("count", len(ids)).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, markNoteSynced)
	if err != nil {
		log.Err(err).
			Str("func", "noteRepository.MarkSynced").
			Int("count", len(ids)).
			Msg("failed to prepare statement")
		return fmt.Errorf("%w: %w", ErrPreparingStatement, err)
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, execErr := stmt.ExecContext(ctx, syncedAt, id); execErr != nil {
			log.Err(execErr).
				Str("func", "noteRepository.MarkSynced").
				Str("note_id", id).
				Msg("failed to execute prepared statement")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "noteRepository.MarkSynced").
			Int("count", len(ids)).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return nil
}

// noteArgs returns the positional arguments of [upsertNote] in column order.
func noteArgs(note models.Note) []any {
	return []any{
		note.ID,
		note.Title,
		note.Content,
		note.FolderID,
		note.SectionID,
		note.Pinned,
		note.Archived,
		note.CreatedAt,
		note.UpdatedAt,
		note.SyncVersion,
		note.IsDirty,
		note.SyncStatus,
		note.LastSyncedAt,
		note.HasConflict,
		note.ConflictCopyID,
		note.DeviceID,
	}
}

// scanNote reads one notes row into note using the given scan function,
// keeping the column order of [getNote] in a single place.
func scanNote(scan func(dest ...any) error, note *models.Note) error {
	return scan(
		&note.ID,
		&note.Title,
		&note.Content,
		&note.FolderID,
		&note.SectionID,
		&note.Pinned,
		&note.Archived,
		&note.CreatedAt,
		&note.UpdatedAt,
		&note.SyncVersion,
		&note.IsDirty,
		&note.SyncStatus,
		&note.LastSyncedAt,
		&note.HasConflict,
		&note.ConflictCopyID,
		&note.DeviceID,
	)
}
