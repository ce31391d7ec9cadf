// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pavel Avdeyev

package client

// Client defines the minimal lifecycle contract for runnable engine
// shells.
type Client interface {
	// Run starts the runtime and blocks until exit.
	Run() error
}
