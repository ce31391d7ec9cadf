// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pavel Avdeyev

package config

import (
	"time"
)

// Remote store backend identifiers accepted by Remote.Backend.
const (
	// BackendDrive selects the Google Drive appDataFolder implementation.
	BackendDrive = "drive"

	// BackendHTTP selects the self-hosted blob-file API implementation.
	BackendHTTP = "http"
)

// StructuredConfig is the top-level configuration container for the
// go-note-sync engine. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line
// flags, an optional JSON file, and built-in defaults.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the version string.
	App App `envPrefix:"APP_"`

	// Remote holds the remote file store backend selection and its
	// transport settings.
	Remote Remote `envPrefix:"REMOTE_"`

	// Storage holds configuration for the local persistence backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Sync holds background synchronization settings.
	Sync Sync `envPrefix:"SYNC_"`

	// Logging holds log output settings.
	Logging Logging `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged after the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Version is the semantic version string of the running engine
	// (e.g. "1.2.3"). Recorded in logs and remote file metadata.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Remote holds the remote file store selection and transport settings.
type Remote struct {
	// Backend selects the remote store implementation:
	// "drive" (default) or "http".
	// Env: REMOTE_BACKEND
	Backend string `env:"BACKEND"`

	// HTTPAddress is the base URL of the self-hosted blob-file API,
	// required when Backend is "http" (e.g. "https://files.example.com").
	// Env: REMOTE_HTTP_ADDRESS
	HTTPAddress string `env:"HTTP_ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single remote
	// store request (e.g. "30s", "1m").
	// Env: REMOTE_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage groups the configuration for the local persistence backend.
type Storage struct {
	// DB holds the local database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database.
type DB struct {
	// DSN is the SQLite Data Source Name, normally a file path
	// (e.g. "notesync.db" or "file:notesync.db?_fk=1").
	// In-memory DSNs are rejected: the sync queue must survive restarts.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Sync holds background synchronization settings.
type Sync struct {
	// Interval is the background poll interval. The default of one second
	// approximates real-time sync without a push channel.
	// Env: SYNC_INTERVAL
	Interval time.Duration `env:"INTERVAL"`
}

// Logging holds log output settings.
type Logging struct {
	// FilePath is the rotated engine log file. Empty means stdout.
	// Env: LOG_FILE
	FilePath string `env:"FILE"`
}

// GetStructuredConfig loads, merges, and validates the engine
// configuration from all available sources in the following priority order
// (the first source to set a field wins):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
