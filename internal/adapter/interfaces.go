// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pavel Avdeyev

// Package adapter provides transport-layer abstractions for the app-private
// remote file store that holds the per-category sync files.
//
// The primary abstraction is [RemoteFileStore], which decouples the sync
// engine from the underlying storage protocol. The package ships two
// implementations: Google Drive's appDataFolder space ([NewDriveFileStore])
// and a self-hosted blob-file API ([NewHTTPFileStore]).
//
// Error values defined in errors.go are mapped from transport status codes
// by the errors mapper so that callers can use [errors.Is] for
// transport-agnostic error handling (e.g. [ErrUnauthorized] for a rejected
// credential, which triggers the sync manager's single token refresh).
package adapter

import (
	"context"

	"github.com/avdeyev/go-note-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_file_store_mock.go -package=mock

// RemoteFileStore defines storage-agnostic access to the app-private remote
// folder. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel
// values defined in this package.
//
// All content passed through this interface is opaque bytes; envelope
// encoding and merging happen in the service layer.
type RemoteFileStore interface {
	// SetToken stores the bearer token that will be attached to all
	// subsequent requests. It is called on sign-in and after a successful
	// token refresh; an empty token returns the store to the
	// unauthenticated state.
	SetToken(token string)

	// Token returns the bearer token currently stored, or an empty string
	// if no token has been set yet.
	Token() string

	// FindFile looks up a file by its exact name inside the app-private
	// folder. Returns (nil, nil) when no such file exists: absence is an
	// expected outcome (first sync of a category), not an error.
	FindFile(ctx context.Context, name string) (*models.FileRef, error)

	// ReadFile downloads the full content of the file identified by ref.
	// Returns [ErrNotFound] (wrapped) if the file disappeared between
	// lookup and read.
	ReadFile(ctx context.Context, ref models.FileRef) ([]byte, error)

	// WriteFile uploads content under the given name. When existing is
	// nil a new file is created; otherwise the referenced file is
	// overwritten in place. Returns the resulting file reference.
	WriteFile(ctx context.Context, name string, content []byte, existing *models.FileRef) (models.FileRef, error)

	// DeleteFile removes the file identified by ref from the store.
	DeleteFile(ctx context.Context, ref models.FileRef) error

	// Ping performs a lightweight authenticated probe. It is used to
	// validate the stored token before a sync pass; [ErrUnauthorized]
	// (wrapped) signals that a refresh is needed.
	Ping(ctx context.Context) error
}
