package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avdeyev/go-note-sync/internal/logger"
)

// Well-known keys of the kv table.
const (
	// KeyDeviceID holds the persisted per-device UUID.
	KeyDeviceID = "device_id"

	// KeyLastFullSync holds the RFC 3339 timestamp of the last fully
	// successful SyncAll cycle.
	KeyLastFullSync = "last_full_sync"

	// KeyLastSyncPrefix prefixes per-category last-sync markers,
	// e.g. "last_sync.notes".
	KeyLastSyncPrefix = "last_sync."
)

// kvRepository is the SQLite-backed implementation of [KVRepository].
type kvRepository struct {
	*DB
	logger *logger.Logger
}

// NewKVRepository constructs a [KVRepository] backed by the provided
// database connection and logger.
func NewKVRepository(db *DB, logger *logger.Logger) KVRepository {
	return &kvRepository{
		DB:     db,
		logger: logger,
	}
}

// Get returns the value stored under key or [ErrKeyNotFound].
func (k *kvRepository) Get(ctx context.Context, key string) (string, error) {
	log := logger.FromContext(ctx)

	var value string
	err := k.DB.QueryRowContext(ctx, getKV, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrKeyNotFound
		}

		log.Err(err).
			Str("func", "kvRepository.Get").
			Str("key", key).
			Msg("failed to scan kv row")
		return "", fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return value, nil
}

// Set upserts the value under key.
func (k *kvRepository) Set(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx)

	_, err := k.DB.ExecContext(ctx, upsertKV, key, value)
	if err != nil {
		log.Err(err).
			Str("func", "kvRepository.Set").
			Str("key", key).
			Msg("failed to execute upsert for kv")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// Delete removes the key. Deleting an absent key is not an error.
func (k *kvRepository) Delete(ctx context.Context, key string) error {
	log := logger.FromContext(ctx)

	_, err := k.DB.ExecContext(ctx, deleteKV, key)
	if err != nil {
		log.Err(err).
			Str("func", "kvRepository.Delete").
			Str("key", key).
			Msg("failed to execute delete for kv")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}
