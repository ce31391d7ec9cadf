package store

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeyev/go-note-sync/internal/logger"
	"github.com/avdeyev/go-note-sync/models"
)

const selectQueueSQL = `SELECT id, entity_id, category, action, timestamp, retry_count, last_error, status FROM sync_queue`

func queueValues(i models.SyncQueueItem) []driver.Value {
	return []driver.Value{
		i.ID, i.EntityID, string(i.Category), string(i.Action),
		i.Timestamp, i.RetryCount, strPtrValue(i.LastError), string(i.Status),
	}
}

func testQueueItem(id, entityID string) models.SyncQueueItem {
	return models.SyncQueueItem{
		ID:        id,
		EntityID:  entityID,
		Category:  models.CategoryNotes,
		Action:    models.ActionUpdate,
		Timestamp: time.Now().Truncate(time.Millisecond),
		Status:    models.QueuePending,
	}
}

func TestQueueUpsert(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewQueueRepository(newDBFromSQL(db), logger.Nop())

	item := testQueueItem("q-1", "note-1")

	mock.ExpectExec(regexp.QuoteMeta(upsertQueueItem)).
		WithArgs(queueValues(item)...).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(testContext(), item)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueUpsert_ExecError(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewQueueRepository(newDBFromSQL(db), logger.Nop())

	item := testQueueItem("q-1", "note-1")

	mock.ExpectExec(regexp.QuoteMeta(upsertQueueItem)).
		WithArgs(queueValues(item)...).
		WillReturnError(errors.New("database is locked"))

	err := repo.Upsert(testContext(), item)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecutingQuery)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueList(t *testing.T) {
	pending := testQueueItem("q-1", "note-1")
	failed := testQueueItem("q-2", "note-2")
	failed.Status = models.QueueFailed
	failed.RetryCount = 3
	lastErr := "remote write failed"
	failed.LastError = &lastErr

	tests := []struct {
		name     string
		filter   QueueFilter
		query    string
		args     []driver.Value
		rows     func() *sqlmock.Rows
		queryErr error
		wantErr  error
		wantLen  int
	}{
		{
			name:   "success: no filter returns everything",
			filter: QueueFilter{},
			query:  selectQueueSQL + ` ORDER BY timestamp ASC`,
			args:   nil,
			rows: func() *sqlmock.Rows {
				return sqlmock.NewRows(queueColumns).AddRow(queueValues(pending)...).AddRow(queueValues(failed)...)
			},
			wantLen: 2,
		},
		{
			name:    "success: category and statuses filter",
			filter:  QueueFilter{Category: models.CategoryNotes, Statuses: []models.QueueStatus{models.QueuePending, models.QueueFailed}},
			query:   selectQueueSQL + ` WHERE category = $1 AND status IN ($2,$3) ORDER BY timestamp ASC`,
			args:    []driver.Value{"notes", "pending", "failed"},
			rows:    func() *sqlmock.Rows { return sqlmock.NewRows(queueColumns).AddRow(queueValues(pending)...) },
			wantLen: 1,
		},
		{
			name:    "success: entity and action filter",
			filter:  QueueFilter{EntityID: "note-1", Actions: []models.SyncAction{models.ActionDelete}},
			query:   selectQueueSQL + ` WHERE entity_id = $1 AND action IN ($2) ORDER BY timestamp ASC`,
			args:    []driver.Value{"note-1", "delete"},
			rows:    func() *sqlmock.Rows { return sqlmock.NewRows(queueColumns) },
			wantLen: 0,
		},
		{
			name:     "error: query fails",
			filter:   QueueFilter{Category: models.CategoryNotes},
			query:    selectQueueSQL + ` WHERE category = $1 ORDER BY timestamp ASC`,
			args:     []driver.Value{"notes"},
			queryErr: errors.New("database is locked"),
			wantErr:  ErrExecutingQuery,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newTestDB(t)
			repo := NewQueueRepository(newDBFromSQL(db), logger.Nop())

			expectation := mock.ExpectQuery(regexp.QuoteMeta(tc.query)).WithArgs(tc.args...)
			if tc.queryErr != nil {
				expectation.WillReturnError(tc.queryErr)
			} else {
				expectation.WillReturnRows(tc.rows())
			}

			got, err := repo.List(testContext(), tc.filter)

			if tc.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
				assert.Len(t, got, tc.wantLen)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestQueueList_ScansAllFields(t *testing.T) {
	item := testQueueItem("q-1", "note-1")
	item.RetryCount = 2
	lastErr := "timeout"
	item.LastError = &lastErr
	item.Status = models.QueueFailed

	db, mock := newTestDB(t)
	repo := NewQueueRepository(newDBFromSQL(db), logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta(selectQueueSQL + ` ORDER BY timestamp ASC`)).
		WillReturnRows(sqlmock.NewRows(queueColumns).AddRow(queueValues(item)...))

	got, err := repo.List(testContext(), QueueFilter{})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, item, got[0])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueUpdate_Success(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewQueueRepository(newDBFromSQL(db), logger.Nop())

	item := testQueueItem("q-1", "note-1")
	item.RetryCount = 1
	lastErr := "remote write failed"
	item.LastError = &lastErr
	item.Status = models.QueueFailed

	mock.ExpectExec(regexp.QuoteMeta(updateQueueItem)).
		WithArgs(item.Timestamp, item.RetryCount, lastErr, string(item.Status), item.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(testContext(), item)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueUpdate_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewQueueRepository(newDBFromSQL(db), logger.Nop())

	item := testQueueItem("q-missing", "note-1")

	mock.ExpectExec(regexp.QuoteMeta(updateQueueItem)).
		WithArgs(item.Timestamp, item.RetryCount, nil, string(item.Status), item.ID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(testContext(), item)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQueueItemNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueDelete(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewQueueRepository(newDBFromSQL(db), logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta(deleteQueueItem)).
		WithArgs("q-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(testContext(), "q-1")

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueDeleteByCategory(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewQueueRepository(newDBFromSQL(db), logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta(deleteQueueItemsByCategory)).
		WithArgs("notes").
		WillReturnResult(sqlmock.NewResult(0, 4))

	err := repo.DeleteByCategory(testContext(), models.CategoryNotes)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
