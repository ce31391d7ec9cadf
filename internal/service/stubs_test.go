package service

// Hand-written fakes for in-package tests. The service interfaces cannot
// be mockgen'd into internal/mock without an import cycle, so the tests
// drive the engine through these stubs and through the generated mocks of
// the store and adapter layers.

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/avdeyev/go-note-sync/internal/store"
	"github.com/avdeyev/go-note-sync/models"
)

// ── sync trigger / observer stubs ────────────────────────────────────────────

type stubSyncer struct {
	mu    sync.Mutex
	calls []models.Category
}

func (s *stubSyncer) InstantSync(_ context.Context, category models.Category) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, category)
	return true
}

func (s *stubSyncer) Calls() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Category(nil), s.calls...)
}

type recorderObserver struct {
	mu        sync.Mutex
	restored  []models.Category
	conflicts []int
	completed []models.SyncResult
}

func (o *recorderObserver) CategoryRestored(category models.Category) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.restored = append(o.restored, category)
}

func (o *recorderObserver) ConflictsDetected(count int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.conflicts = append(o.conflicts, count)
}

func (o *recorderObserver) SyncCompleted(result models.SyncResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.completed = append(o.completed, result)
}

type stubActivity struct {
	mu      sync.Mutex
	records []string // "kind:entityID"
	err     error
}

func (a *stubActivity) Record(_ context.Context, kind, entityID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.records = append(a.records, kind+":"+entityID)
	return nil
}

func (a *stubActivity) List(context.Context) ([]models.ActivityEntry, error) {
	return nil, nil
}

// ── queue service stub ───────────────────────────────────────────────────────

type enqueueCall struct {
	EntityID string
	Category models.Category
	Action   models.SyncAction
}

// stubQueue records every SyncQueueService call the engine makes. Inputs
// the engine reads back (pending deletes, retryable items) are plain
// fields the test seeds up front.
type stubQueue struct {
	mu sync.Mutex

	enqueued  []enqueueCall
	dequeued  []string
	failed    []models.Category
	cleared   []models.Category
	resolved  []string
	copies    []models.ConflictCopy
	processed []models.SyncQueueItem

	pendingDeletes map[models.Category]map[string]struct{}
	retryable      []models.SyncQueueItem

	enqueueErr error
}

func (q *stubQueue) Enqueue(_ context.Context, entityID string, category models.Category, action models.SyncAction) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.enqueueErr != nil {
		return q.enqueueErr
	}
	q.enqueued = append(q.enqueued, enqueueCall{EntityID: entityID, Category: category, Action: action})
	return nil
}

func (q *stubQueue) Dequeue(_ context.Context, entityID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.dequeued = append(q.dequeued, entityID)
	return nil
}

func (q *stubQueue) MarkFailed(context.Context, string, error) error { return nil }

func (q *stubQueue) FailCategory(_ context.Context, category models.Category, _ error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.failed = append(q.failed, category)
	return nil
}

func (q *stubQueue) ListRetryable(context.Context, time.Time) ([]models.SyncQueueItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]models.SyncQueueItem(nil), q.retryable...), nil
}

func (q *stubQueue) MarkProcessing(_ context.Context, items ...models.SyncQueueItem) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.processed = append(q.processed, items...)
	return nil
}

func (q *stubQueue) PendingDeletes(_ context.Context, category models.Category) (map[string]struct{}, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	ids := make(map[string]struct{}, len(q.pendingDeletes[category]))
	for id := range q.pendingDeletes[category] {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (q *stubQueue) ClearCategory(_ context.Context, category models.Category) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.cleared = append(q.cleared, category)
	return nil
}

func (q *stubQueue) CreateConflictCopy(_ context.Context, local, remote models.Note) (models.ConflictCopy, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	cc := models.ConflictCopy{
		ID:          fmt.Sprintf("cc-%s-%d", local.ID, len(q.copies)+1),
		NoteID:      local.ID,
		Title:       remote.Title,
		Content:     remote.Content,
		SyncVersion: remote.SyncVersion,
		DeviceID:    remote.DeviceID,
		CreatedAt:   time.Now(),
	}
	q.copies = append(q.copies, cc)
	return cc, nil
}

func (q *stubQueue) ResolveConflictCopy(_ context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.resolved = append(q.resolved, id)
	return nil
}

func (q *stubQueue) CleanupConflicts(context.Context, time.Time) (int64, error) { return 0, nil }

func (q *stubQueue) enqueuedFor(entityID string) []enqueueCall {
	q.mu.Lock()
	defer q.mu.Unlock()
	var calls []enqueueCall
	for _, c := range q.enqueued {
		if c.EntityID == entityID {
			calls = append(calls, c)
		}
	}
	return calls
}

// ── in-memory remote file store ──────────────────────────────────────────────

// fakeRemote is an in-memory [adapter.RemoteFileStore]. Failures are
// injected per file name; Ping errors are consumed in order, so a test can
// stage "first probe rejected, second accepted".
type fakeRemote struct {
	mu    sync.Mutex
	token string

	files  map[string][]byte
	writes map[string]int

	findErr  map[string]error
	writeErr map[string]error
	pingErrs []error
}

func newFakeRemote(token string) *fakeRemote {
	return &fakeRemote{
		token:    token,
		files:    make(map[string][]byte),
		writes:   make(map[string]int),
		findErr:  make(map[string]error),
		writeErr: make(map[string]error),
	}
}

func (r *fakeRemote) SetToken(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token = strings.TrimSpace(token)
}

func (r *fakeRemote) Token() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.token
}

func (r *fakeRemote) Ping(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pingErrs) == 0 {
		return nil
	}
	err := r.pingErrs[0]
	r.pingErrs = r.pingErrs[1:]
	return err
}

func (r *fakeRemote) FindFile(_ context.Context, name string) (*models.FileRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.findErr[name]; err != nil {
		return nil, err
	}
	content, ok := r.files[name]
	if !ok {
		return nil, nil
	}
	return &models.FileRef{ID: "ref-" + name, Name: name, Size: int64(len(content))}, nil
}

func (r *fakeRemote) ReadFile(_ context.Context, ref models.FileRef) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	content, ok := r.files[ref.Name]
	if !ok {
		return nil, fmt.Errorf("fake remote: %s: not found", ref.Name)
	}
	return append([]byte(nil), content...), nil
}

func (r *fakeRemote) WriteFile(_ context.Context, name string, content []byte, _ *models.FileRef) (models.FileRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.writeErr[name]; err != nil {
		return models.FileRef{}, err
	}
	r.files[name] = append([]byte(nil), content...)
	r.writes[name]++
	return models.FileRef{ID: "ref-" + name, Name: name, Size: int64(len(content))}, nil
}

func (r *fakeRemote) DeleteFile(_ context.Context, ref models.FileRef) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.files, ref.Name)
	return nil
}

func (r *fakeRemote) writeCount(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes[name]
}

// ── in-memory repositories ───────────────────────────────────────────────────

type memNotes struct {
	mu   sync.Mutex
	byID map[string]models.Note
}

func newMemNotes(notes ...models.Note) *memNotes {
	m := &memNotes{byID: make(map[string]models.Note, len(notes))}
	for _, n := range notes {
		m.byID[n.ID] = n
	}
	return m
}

func (m *memNotes) Save(_ context.Context, notes ...models.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range notes {
		m.byID[n.ID] = n
	}
	return nil
}

func (m *memNotes) Get(_ context.Context, id string) (models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.byID[id]
	if !ok {
		return models.Note{}, store.ErrNoteNotFound
	}
	return n, nil
}

func (m *memNotes) GetAll(context.Context) ([]models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	notes := make([]models.Note, 0, len(m.byID))
	for _, n := range m.byID {
		notes = append(notes, n)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].UpdatedAt.After(notes[j].UpdatedAt) })
	return notes, nil
}

func (m *memNotes) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

func (m *memNotes) ReplaceAll(_ context.Context, notes []models.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID = make(map[string]models.Note, len(notes))
	for _, n := range notes {
		m.byID[n.ID] = n
	}
	return nil
}

func (m *memNotes) MarkSynced(_ context.Context, syncedAt time.Time, ids ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		n, ok := m.byID[id]
		if !ok {
			continue
		}
		at := syncedAt
		n.IsDirty = false
		n.SyncStatus = models.StatusSynced
		n.LastSyncedAt = &at
		m.byID[id] = n
	}
	return nil
}

type memDocs struct {
	mu     sync.Mutex
	byCat  map[models.Category][]byte
	putErr error
}

func newMemDocs() *memDocs {
	return &memDocs{byCat: make(map[models.Category][]byte)}
}

func (m *memDocs) Get(_ context.Context, category models.Category) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.byCat[category]
	if !ok {
		return nil, store.ErrDocumentNotFound
	}
	return append([]byte(nil), raw...), nil
}

func (m *memDocs) Put(_ context.Context, category models.Category, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.byCat[category] = append([]byte(nil), payload...)
	return nil
}

type memKV struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemKV() *memKV {
	return &memKV{values: make(map[string]string)}
}

func (m *memKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", store.ErrKeyNotFound
	}
	return v, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

type memConflicts struct {
	mu   sync.Mutex
	byID map[string]models.ConflictCopy
}

func newMemConflicts(copies ...models.ConflictCopy) *memConflicts {
	m := &memConflicts{byID: make(map[string]models.ConflictCopy, len(copies))}
	for _, cc := range copies {
		m.byID[cc.ID] = cc
	}
	return m
}

func (m *memConflicts) Save(_ context.Context, cc models.ConflictCopy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[cc.ID] = cc
	return nil
}

func (m *memConflicts) Get(_ context.Context, id string) (models.ConflictCopy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cc, ok := m.byID[id]
	if !ok {
		return models.ConflictCopy{}, store.ErrConflictCopyNotFound
	}
	return cc, nil
}

func (m *memConflicts) List(_ context.Context, filter store.ConflictFilter) ([]models.ConflictCopy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var copies []models.ConflictCopy
	for _, cc := range m.byID {
		if filter.NoteID != "" && cc.NoteID != filter.NoteID {
			continue
		}
		if filter.Resolved != nil && cc.Resolved != *filter.Resolved {
			continue
		}
		copies = append(copies, cc)
	}
	sort.Slice(copies, func(i, j int) bool { return copies[i].CreatedAt.After(copies[j].CreatedAt) })
	return copies, nil
}

func (m *memConflicts) Resolve(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cc, ok := m.byID[id]
	if !ok {
		return store.ErrConflictCopyNotFound
	}
	cc.Resolved = true
	m.byID[id] = cc
	return nil
}

func (m *memConflicts) PurgeResolved(_ context.Context, olderThan time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var purged int64
	for id, cc := range m.byID {
		if cc.Resolved && cc.CreatedAt.Before(olderThan) {
			delete(m.byID, id)
			purged++
		}
	}
	return purged, nil
}
