package config

import "errors"

// Validation errors returned by [ClientConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidRemoteConfigs indicates invalid remote store settings
	// (for example, an unknown backend or a missing HTTP address).
	ErrInvalidRemoteConfigs = errors.New("invalid remote store configuration")
	// ErrInvalidStorageConfigs indicates invalid local storage settings
	// (for example, empty DSN or unsupported in-memory DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidSyncConfigs indicates invalid background sync settings
	// (for example, a non-positive poll interval).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
)
