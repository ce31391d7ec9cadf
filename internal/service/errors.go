package service

import "errors"

var (
	ErrNoCredential       = errors.New("no credential available")
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	ErrUnknownCategory   = errors.New("unknown sync category")
	ErrUnknownAction     = errors.New("unknown sync action")
	ErrCorruptRemoteFile = errors.New("corrupt remote file payload")

	ErrQueueItemMissing = errors.New("no queue item for entity")

	ErrConflictAlreadyResolved = errors.New("conflict copy already resolved")
	ErrUnknownResolutionChoice = errors.New("unknown resolution choice")

	ErrEmptySettingsKey   = errors.New("empty settings key")
	ErrMediaEntryNotFound = errors.New("media entry not found")

	ErrEmptyPIN        = errors.New("empty pin")
	ErrAppLockDisabled = errors.New("app lock is not enabled")
)
