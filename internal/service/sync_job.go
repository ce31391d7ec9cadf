package service

import (
	"context"
	"sync"
	"time"

	"github.com/avdeyev/go-note-sync/internal/logger"
	"github.com/avdeyev/go-note-sync/models"
)

// DefaultSyncInterval is how often the background job runs a full sync
// pass when the caller does not pick an interval.
const DefaultSyncInterval = time.Second

// syncRunner is the slice of the engine the background job needs. Kept
// small so tests can drive the job with a spy.
type syncRunner interface {
	SyncAll(ctx context.Context) models.SyncResult
}

type syncJob struct {
	runner syncRunner

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// newSyncJob creates a syncJob that calls runner.SyncAll on a ticker. The
// job is idle until Start is called.
func newSyncJob(runner syncRunner) *syncJob {
	return &syncJob{runner: runner}
}

// Start stops any previously running job, then launches a background
// goroutine that runs a full sync every interval. If interval is zero or
// negative it defaults to DefaultSyncInterval. The goroutine exits when
// ctx is cancelled or Stop is called.
func (j *syncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				res := j.runner.SyncAll(jobCtx)
				if res.Failed() {
					logger.FromContext(jobCtx).Debug().
						Int("failed_categories", len(res.Errors)).
						Msg("background sync pass failed")
				}
			}
		}
	}()
}

// Stop cancels the background goroutine's context and blocks until the
// goroutine has fully exited. Safe to call when the job is not running
// (no-op in that case).
func (j *syncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
