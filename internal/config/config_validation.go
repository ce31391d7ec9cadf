// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pavel Avdeyev

package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies all
// engine invariants before it is used at startup.
//
// Currently a no-op placeholder; the engine-facing checks live on
// [ClientConfig.validate], which runs on the mapped view.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *ClientConfig) validate() error {
	// the durable sync queue must survive restarts
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	switch cfg.Remote.Backend {
	case BackendDrive:
	case BackendHTTP:
		if cfg.Remote.HTTPAddress == "" || cfg.Remote.RequestTimeout == 0 {
			return ErrInvalidRemoteConfigs
		}
	default:
		return ErrInvalidRemoteConfigs
	}

	if cfg.Sync.Interval <= 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}
