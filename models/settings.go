// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pavel Avdeyev

package models

import (
	"encoding/json"
	"time"
)

// Settings is the user preference document. Values are opaque to the sync
// layer; merging is a shallow union of keys where the local value wins
// for keys present on both sides.
type Settings map[string]json.RawMessage

// AppLockConfig is the PIN/biometric lock configuration. It syncs as a
// whole document with the local copy authoritative: a device never adopts
// a remote lock config over an existing local one, and the remote copy is
// only created when the lock is enabled locally.
type AppLockConfig struct {
	// Enabled reports whether the app lock is active on this device.
	Enabled bool `json:"enabled"`

	// PINHash is the argon2id digest of the user's PIN.
	// The PIN itself never leaves the device.
	PINHash string `json:"pin_hash,omitempty"`

	// PINSalt is the per-install random salt used for the PIN digest,
	// base64 encoded.
	PINSalt string `json:"pin_salt,omitempty"`

	// BiometricsEnabled allows unlocking through the platform
	// biometric prompt instead of the PIN.
	BiometricsEnabled bool `json:"biometrics_enabled"`

	// UpdatedAt is the timestamp of the last configuration change.
	UpdatedAt time.Time `json:"updated_at"`
}
