// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pavel Avdeyev

package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/avdeyev/go-note-sync/internal/adapter"
	"github.com/avdeyev/go-note-sync/internal/config"
	"github.com/avdeyev/go-note-sync/internal/crypto"
	"github.com/avdeyev/go-note-sync/internal/logger"
	"github.com/avdeyev/go-note-sync/internal/service"
	"github.com/avdeyev/go-note-sync/internal/store"
	"github.com/avdeyev/go-note-sync/internal/utils"
	"github.com/avdeyev/go-note-sync/models"
)

// Environment variables the shell reads directly. The structured config
// covers engine settings; the credential comes from the platform sign-in
// flow, which this stand-in approximates with the environment.
const (
	// EnvToken is the bearer token for the remote file store.
	EnvToken = "NOTESYNC_TOKEN"

	// EnvIDToken optionally carries the platform identity token whose
	// claims label the session in logs.
	EnvIDToken = "NOTESYNC_ID_TOKEN"
)

// App is the engine runtime: config, storage, remote store and the service
// layer wired together, driven from the process lifecycle.
type App struct {
	cfg      *config.ClientConfig
	log      *logger.Logger
	services *service.Services
}

// NewApp builds the fully wired engine runtime. The storage layer is
// opened (and migrated) immediately; the remote store stays offline until
// a credential is installed in Run.
func NewApp(cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	storages, err := store.NewStorages(cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	remote, err := newRemoteStore(cfg, log)
	if err != nil {
		return nil, err
	}

	deviceID, err := ensureDeviceID(context.Background(), storages.KV)
	if err != nil {
		return nil, fmt.Errorf("bootstrap device id: %w", err)
	}
	log.Info().Str("device_id", deviceID).Str("backend", cfg.Remote.Backend).Msg("engine runtime assembled")

	services := service.NewServices(storages, remote, crypto.NewPINHasher(), deviceID, refreshFromEnv, log)
	return &App{cfg: cfg, log: log, services: services}, nil
}

// Run implements [Client]. It signs in from the environment, runs one
// immediate full pass, then hands off to the background job until the
// process receives an interrupt.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = a.log.WithContext(ctx)

	a.services.Engine.Subscribe(&loggingObserver{log: a.log})

	a.signIn()

	if res := a.services.Engine.SyncAll(ctx); res.Failed() {
		a.log.Warn().Interface("failed_categories", res.Errors).Msg("initial sync pass failed, background job will retry")
	}

	a.services.Engine.StartBackgroundSync(ctx, a.cfg.Sync.Interval)
	defer a.services.Engine.StopBackgroundSync()

	<-ctx.Done()
	a.log.Info().Msg("shutdown signal received")
	return nil
}

// signIn installs the credential from the environment. Running without one
// is allowed: the engine stays offline and every local mutation keeps
// accumulating in the queue until a token shows up on restart.
func (a *App) signIn() {
	token := os.Getenv(EnvToken)
	if token == "" {
		a.log.Warn().Msgf("%s not set, engine starts offline", EnvToken)
		return
	}
	a.services.Engine.SetToken(token)

	if idToken := os.Getenv(EnvIDToken); idToken != "" {
		session, err := utils.ParseIDTokenClaims(idToken)
		if err != nil {
			a.log.Warn().Err(err).Msg("cannot parse identity token claims")
			return
		}
		a.log.Info().Str("user_id", session.UserID).Str("email", session.Email).Msg("signed in")
	}
}

// newRemoteStore builds the adapter selected by the config.
func newRemoteStore(cfg *config.ClientConfig, log *logger.Logger) (adapter.RemoteFileStore, error) {
	switch cfg.Remote.Backend {
	case config.BackendDrive:
		return adapter.NewDriveFileStore(log), nil
	case config.BackendHTTP:
		return adapter.NewHTTPFileStore(cfg.Remote, log)
	default:
		return nil, fmt.Errorf("unknown remote backend %q", cfg.Remote.Backend)
	}
}

// ensureDeviceID returns the persisted per-install UUID, minting and
// storing one on first launch.
func ensureDeviceID(ctx context.Context, kv store.KVRepository) (string, error) {
	id, err := kv.Get(ctx, store.KeyDeviceID)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, store.ErrKeyNotFound) {
		return "", err
	}

	id = utils.NewUUIDGenerator().Generate()
	if err := kv.Set(ctx, store.KeyDeviceID, id); err != nil {
		return "", err
	}
	return id, nil
}

// refreshFromEnv is the [service.TokenRefreshFunc] of the shell stand-in:
// a real app asks its platform identity collaborator, this one re-reads
// the environment so an operator can rotate the credential in place.
func refreshFromEnv(context.Context) (string, error) {
	token := os.Getenv(EnvToken)
	if token == "" {
		return "", fmt.Errorf("%s is empty, cannot refresh credential", EnvToken)
	}
	return token, nil
}

// loggingObserver is the shell-side [service.Observer]: every engine
// notification becomes a log line instead of a UI update.
type loggingObserver struct {
	log *logger.Logger
}

func (o *loggingObserver) CategoryRestored(category models.Category) {
	o.log.Debug().Str("category", string(category)).Msg("category data refreshed")
}

func (o *loggingObserver) ConflictsDetected(count int) {
	o.log.Warn().Int("count", count).Msg("note conflicts await resolution")
}

func (o *loggingObserver) SyncCompleted(result models.SyncResult) {
	o.log.Info().
		Bool("success", result.Success).
		Bool("partial", result.Partial).
		Int("synced", len(result.Synced)).
		Interface("failed_categories", result.Errors).
		Msg("sync pass completed")
}
