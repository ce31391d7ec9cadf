// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pavel Avdeyev

// Package client implements the engine's application runtime.
//
// It wires configuration, local storage, the remote file store adapter and
// the service layer into a single process lifecycle: sign-in, one immediate
// full sync, then background synchronization until shutdown.
package client
