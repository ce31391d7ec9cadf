// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pavel Avdeyev

package service

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/avdeyev/go-note-sync/internal/mock"
	"github.com/avdeyev/go-note-sync/models"
)

type appLockFixture struct {
	svc    AppLockService
	hasher *mock.MockPINHasher
	queue  *stubQueue
	syncer *stubSyncer
}

func newAppLockFixture(t *testing.T) appLockFixture {
	ctrl := gomock.NewController(t)
	f := appLockFixture{
		hasher: mock.NewMockPINHasher(ctrl),
		queue:  &stubQueue{},
		syncer: &stubSyncer{},
	}
	f.svc = NewAppLockService(newMemDocs(), f.queue, f.hasher, f.syncer)
	return f
}

func TestAppLock_EnableVerifyDisable(t *testing.T) {
	f := newAppLockFixture(t)
	salt := []byte("0123456789abcdef")
	digest := []byte("fixed-digest")

	f.hasher.EXPECT().GenerateSalt().Return(salt, nil)
	f.hasher.EXPECT().Hash("2468", salt).Return(digest)
	require.NoError(t, f.svc.Enable(testCtx(), "2468", true))

	cfg, err := f.svc.Config(testCtx())
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.BiometricsEnabled)
	assert.Equal(t, base64.StdEncoding.EncodeToString(digest), cfg.PINHash)
	assert.Equal(t, base64.StdEncoding.EncodeToString(salt), cfg.PINSalt)

	f.hasher.EXPECT().Verify("2468", salt, digest).Return(true)
	ok, err := f.svc.Verify(testCtx(), "2468")
	require.NoError(t, err)
	assert.True(t, ok)

	f.hasher.EXPECT().Verify("1111", salt, digest).Return(false)
	ok, err = f.svc.Verify(testCtx(), "1111")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, f.svc.Disable(testCtx()))

	cfg, err = f.svc.Config(testCtx())
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.Empty(t, cfg.PINHash, "disabling wipes the digest")
	assert.Empty(t, cfg.PINSalt)

	_, err = f.svc.Verify(testCtx(), "2468")
	assert.ErrorIs(t, err, ErrAppLockDisabled)
}

func TestAppLock_VerifyWithoutConfig(t *testing.T) {
	f := newAppLockFixture(t)

	_, err := f.svc.Verify(testCtx(), "2468")
	assert.ErrorIs(t, err, ErrAppLockDisabled)
}

func TestAppLock_EmptyPIN(t *testing.T) {
	f := newAppLockFixture(t)

	assert.ErrorIs(t, f.svc.Enable(testCtx(), "", false), ErrEmptyPIN)

	_, err := f.svc.Verify(testCtx(), "")
	assert.ErrorIs(t, err, ErrEmptyPIN)
}

func TestAppLock_EnableQueuesAndPushes(t *testing.T) {
	f := newAppLockFixture(t)
	f.hasher.EXPECT().GenerateSalt().Return([]byte("0123456789abcdef"), nil)
	f.hasher.EXPECT().Hash(gomock.Any(), gomock.Any()).Return([]byte("d"))

	require.NoError(t, f.svc.Enable(testCtx(), "2468", false))

	calls := f.queue.enqueuedFor(string(models.CategoryAppLock))
	require.Len(t, calls, 1)
	assert.Equal(t, models.ActionUpdate, calls[0].Action)
	assert.Equal(t, []models.Category{models.CategoryAppLock}, f.syncer.Calls())
}
