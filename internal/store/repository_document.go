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

// documentRepository is the SQLite-backed implementation of
// [DocumentRepository]. Each non-notes sync category is persisted as a
// single JSON document in the "documents" table; the repository never
// inspects the payload.
type documentRepository struct {
	*DB
	logger *logger.Logger
}

// NewDocumentRepository constructs a [DocumentRepository] backed by the
// provided database connection and logger.
func NewDocumentRepository(db *DB, logger *logger.Logger) DocumentRepository {
	return &documentRepository{
		DB:     db,
		logger: logger,
	}
}

// Get returns the raw document for the category or [ErrDocumentNotFound]
// when no document has been stored yet.
func (d *documentRepository) Get(ctx context.Context, category models.Category) ([]byte, error) {
	log := logger.FromContext(ctx)

	var payload []byte
	err := d.DB.QueryRowContext(ctx, getDocument, category).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}

		log.Err(err).
			Str("func", "documentRepository.Get").
			Str("category", string(category)).
			Msg("failed to scan document row")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return payload, nil
}

// Put upserts the document for the category, stamping the write time.
func (d *documentRepository) Put(ctx context.Context, category models.Category, payload []byte) error {
	log := logger.FromContext(ctx)

	_, err := d.DB.ExecContext(ctx, upsertDocument, category, payload, time.Now())
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.Put").
			Str("category", string(category)).
			Int("payload_bytes", len(payload)).
			Msg("failed to execute upsert for document")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}
