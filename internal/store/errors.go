package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrNoteNotFound is returned when a query targets a note id that does
	// not exist in the local database.
	ErrNoteNotFound = errors.New("note was not found")

	// ErrDocumentNotFound is returned when no document has been stored yet
	// for the requested sync category.
	ErrDocumentNotFound = errors.New("category document was not found")

	// ErrKeyNotFound is returned when a key/value lookup finds no row for
	// the requested key.
	ErrKeyNotFound = errors.New("key was not found")

	// ErrQueueItemNotFound is returned when an update or delete targets a
	// sync queue item that does not exist.
	ErrQueueItemNotFound = errors.New("sync queue item was not found")

	// ErrConflictCopyNotFound is returned when a query or resolution targets
	// a conflict copy that does not exist.
	ErrConflictCopyNotFound = errors.New("conflict copy was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrPreparingStatement is returned when a SQL statement cannot be
	// prepared (e.g. syntax error or connection issue).
	ErrPreparingStatement = errors.New("failed to prepare statement")

	// ErrExecutingStatement is returned when executing a prepared DML
	// statement (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
