package store

import (
	"context"
	"fmt"

	"github.com/avdeyev/go-note-sync/internal/config"
	"github.com/avdeyev/go-note-sync/internal/logger"
)

// Storages groups all local repositories into a single value that can be
// passed to the service layer.
type Storages struct {
	// Notes is the row-per-entity notes table.
	Notes NoteRepository

	// Documents holds one JSON document per non-notes category.
	Documents DocumentRepository

	// KV holds small engine state: device id, sync markers.
	KV KVRepository

	// Queue is the durable sync queue.
	Queue QueueRepository

	// Conflicts is the conflict copies table.
	Conflicts ConflictRepository
}

// NewStorages initialises the local storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path specified in cfg.DB.DSN,
//     creating the database file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Constructs and returns a [Storages] value wired to fresh repositories
//     sharing the one connection.
//
// Returns an error if the database connection cannot be established or if
// migration fails.
func NewStorages(cfg config.ClientStorage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(context.Background(), cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		Notes:     NewNoteRepository(db, logger),
		Documents: NewDocumentRepository(db, logger),
		KV:        NewKVRepository(db, logger),
		Queue:     NewQueueRepository(db, logger),
		Conflicts: NewConflictRepository(db, logger),
	}, nil
}
