package config

import (
	"fmt"
	"time"
)

// ClientApp holds application-level settings derived from the shared
// structured config.
type ClientApp struct {
	// Version is the engine version string.
	Version string
}

// RemoteStore holds the remote file store selection and transport settings
// used by the adapter layer.
type RemoteStore struct {
	// Backend selects the remote store implementation ("drive" or "http").
	Backend string
	// HTTPAddress is the blob-file API base URL for the "http" backend.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound store requests.
	RequestTimeout time.Duration
}

// ClientDB contains local database connection settings.
type ClientDB struct {
	// DSN is the SQLite connection string.
	DSN string
}

// ClientStorage groups local storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// SyncSettings contains background sync job settings.
type SyncSettings struct {
	// Interval defines how often the background sync job should run.
	Interval time.Duration
}

// ClientLogging contains log output settings.
type ClientLogging struct {
	// FilePath is the rotated engine log file, empty for stdout.
	FilePath string
}

// ClientConfig is the top-level engine configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains application-level settings.
	App ClientApp
	// Remote contains remote store selection and transport settings.
	Remote RemoteStore
	// Storage contains local storage settings.
	Storage ClientStorage
	// Sync contains background job settings.
	Sync SyncSettings
	// Logging contains log output settings.
	Logging ClientLogging
}

// GetClientConfig builds and validates the engine-facing config view from
// the merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the engine runtime, and validates the resulting
// [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		App: ClientApp{
			Version: cfg.App.Version,
		},
		Remote: RemoteStore{
			Backend:        cfg.Remote.Backend,
			HTTPAddress:    cfg.Remote.HTTPAddress,
			RequestTimeout: cfg.Remote.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Sync: SyncSettings{Interval: cfg.Sync.Interval},
		Logging: ClientLogging{
			FilePath: cfg.Logging.FilePath,
		},
	}

	return clientCfg, clientCfg.validate()
}
