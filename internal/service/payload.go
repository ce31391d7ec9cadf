package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/avdeyev/go-note-sync/models"
)

// decodeEnvelope parses one category file body into its typed payload.
func decodeEnvelope[T any](raw []byte) (models.FilePayload[T], error) {
	var payload models.FilePayload[T]
	if err := json.Unmarshal(raw, &payload); err != nil {
		return models.FilePayload[T]{}, fmt.Errorf("%w: %w", ErrCorruptRemoteFile, err)
	}
	return payload, nil
}

// encodeEnvelope wraps data and metadata into a category file body.
func encodeEnvelope[T any](data T, meta models.SyncMetadata) ([]byte, error) {
	raw, err := json.Marshal(models.FilePayload[T]{Data: data, Metadata: meta})
	if err != nil {
		return nil, fmt.Errorf("encode category payload: %w", err)
	}
	return raw, nil
}

// nextMetadata stamps the envelope a confirmed sync writes: this device,
// this moment, version advanced past whatever either side had seen.
func nextMetadata(deviceID string, now time.Time, local, remote models.SyncMetadata) models.SyncMetadata {
	version := local.Version
	if remote.Version > version {
		version = remote.Version
	}
	return models.SyncMetadata{
		LastSyncTime: now,
		DeviceID:     deviceID,
		Version:      version + 1,
		Cursor:       remote.Cursor,
	}
}
