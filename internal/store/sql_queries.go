// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pavel Avdeyev

package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

const (
	upsertNote = `
		INSERT INTO notes (
			id,
			title,
			content,
			folder_id,
			section_id,
			pinned,
			archived,
			created_at,
			updated_at,
			sync_version,
			is_dirty,
			sync_status,
			last_synced_at,
			has_conflict,
			conflict_copy_id,
			device_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			title            = excluded.title,
			content          = excluded.content,
			folder_id        = excluded.folder_id,
			section_id       = excluded.section_id,
			pinned           = excluded.pinned,
			archived         = excluded.archived,
			updated_at       = excluded.updated_at,
			sync_version     = excluded.sync_version,
			is_dirty         = excluded.is_dirty,
			sync_status      = excluded.sync_status,
			last_synced_at   = excluded.last_synced_at,
			has_conflict     = excluded.has_conflict,
			conflict_copy_id = excluded.conflict_copy_id,
			device_id        = excluded.device_id;`

	getNote = `
		SELECT
			id,
			title,
			content,
			folder_id,
			section_id,
			pinned,
			archived,
			created_at,
			updated_at,
			sync_version,
			is_dirty,
			sync_status,
			last_synced_at,
			has_conflict,
			conflict_copy_id,
			device_id
		FROM notes
		WHERE id = $1;`

	getAllNotes = `
		SELECT
			id,
			title,
			content,
			folder_id,
			section_id,
			pinned,
			archived,
			created_at,
			updated_at,
			sync_version,
			is_dirty,
			sync_status,
			last_synced_at,
			has_conflict,
			conflict_copy_id,
			device_id
		FROM notes
		ORDER BY updated_at DESC;`

	deleteNote = `
		DELETE FROM notes
		WHERE id = $1;`

	deleteAllNotes = `
		DELETE FROM notes;`

	markNoteSynced = `
		UPDATE notes SET
			is_dirty       = false,
			sync_status    = 'synced',
			last_synced_at = $1
		WHERE id = $2;`

	upsertDocument = `
		INSERT INTO documents (category, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (category) DO UPDATE SET
			payload    = excluded.payload,
			updated_at = excluded.updated_at;`

	getDocument = `
		SELECT payload
		FROM documents
		WHERE category = $1;`

	upsertKV = `
		INSERT INTO kv (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value;`

	getKV = `
		SELECT value
		FROM kv
		WHERE key = $1;`

	deleteKV = `
		DELETE FROM kv
		WHERE key = $1;`

	upsertQueueItem = `
		INSERT INTO sync_queue (
			id,
			entity_id,
			category,
			action,
			timestamp,
			retry_count,
			last_error,
			status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (entity_id) DO UPDATE SET
			id          = excluded.id,
			category    = excluded.category,
			action      = excluded.action,
			timestamp   = excluded.timestamp,
			retry_count = excluded.retry_count,
			last_error  = excluded.last_error,
			status      = excluded.status;`

	updateQueueItem = `
		UPDATE sync_queue SET
			timestamp   = $1,
			retry_count = $2,
			last_error  = $3,
			status      = $4
		WHERE id = $5;`

	deleteQueueItem = `
		DELETE FROM sync_queue
		WHERE id = $1;`

	deleteQueueItemsByCategory = `
		DELETE FROM sync_queue
		WHERE category = $1;`

	saveConflictCopy = `
		INSERT INTO conflict_copies (
			id,
			note_id,
			title,
			content,
			sync_version,
			device_id,
			created_at,
			resolved
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`

	getConflictCopy = `
		SELECT
			id,
			note_id,
			title,
			content,
			sync_version,
			device_id,
			created_at,
			resolved
		FROM conflict_copies
		WHERE id = $1;`

	resolveConflictCopy = `
		UPDATE conflict_copies
		SET resolved = true
		WHERE id = $1;`

	purgeResolvedConflicts = `
		DELETE FROM conflict_copies
		WHERE resolved = true
		  AND created_at < $1;`
)

// queueColumns lists the sync_queue columns in scan order.
var queueColumns = []string{"id", "entity_id", "category", "action", "timestamp", "retry_count", "last_error", "status"}

// conflictColumns lists the conflict_copies columns in scan order.
var conflictColumns = []string{"id", "note_id", "title", "content", "sync_version", "device_id", "created_at", "resolved"}

// buildListQueueQuery dynamically builds the SELECT for [QueueRepository.List].
// Filters are added only for non-zero fields; results come back oldest first
// so retry processing preserves enqueue order.
func buildListQueueQuery(filter QueueFilter) (string, []any, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(queueColumns...).
		From("sync_queue").
		OrderBy("timestamp ASC")

	if filter.Category != "" {
		builder = builder.Where(sq.Eq{"category": filter.Category})
	}

	if filter.EntityID != "" {
		builder = builder.Where(sq.Eq{"entity_id": filter.EntityID})
	}

	if len(filter.Statuses) > 0 {
		builder = builder.Where(sq.Eq{"status": filter.Statuses})
	}

	if len(filter.Actions) > 0 {
		builder = builder.Where(sq.Eq{"action": filter.Actions})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildListConflictsQuery dynamically builds the SELECT for
// [ConflictRepository.List]. Results come back newest first.
func buildListConflictsQuery(filter ConflictFilter) (string, []any, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(conflictColumns...).
		From("conflict_copies").
		OrderBy("created_at DESC")

	if filter.NoteID != "" {
		builder = builder.Where(sq.Eq{"note_id": filter.NoteID})
	}

	if filter.Resolved != nil {
		builder = builder.Where(sq.Eq{"resolved": *filter.Resolved})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
