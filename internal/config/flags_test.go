package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNetAddress_String tests the String method of NetAddress
func TestNetAddress_String(t *testing.T) {
	tests := []struct {
		name     string
		addr     NetAddress
		expected string
	}{
		{
			name:     "empty address",
			addr:     NetAddress{},
			expected: "",
		},
		{
			name:     "localhost with port",
			addr:     NetAddress{Host: "localhost", Port: 8080},
			expected: "localhost:8080",
		},
		{
			name:     "IP address with port",
			addr:     NetAddress{Host: "127.0.0.1", Port: 9090},
			expected: "127.0.0.1:9090",
		},
		{
			name:     "only port no host",
			addr:     NetAddress{Host: "", Port: 8080},
			expected: ":8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.addr.String()
			assert.Equal(t, tt.expected, result)
		})
	}
}

// TestNetAddress_Set tests parsing and validation of host:port strings
func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  bool
		expected NetAddress
	}{
		{
			name:     "valid localhost",
			input:    "localhost:8080",
			expected: NetAddress{Host: "localhost", Port: 8080},
		},
		{
			name:     "valid IP",
			input:    "192.168.0.10:9000",
			expected: NetAddress{Host: "192.168.0.10", Port: 9000},
		},
		{
			name:    "missing port",
			input:   "localhost",
			wantErr: true,
		},
		{
			name:    "non-numeric port",
			input:   "localhost:http",
			wantErr: true,
		},
		{
			name:    "zero port",
			input:   "localhost:0",
			wantErr: true,
		},
		{
			name:    "bad host",
			input:   "not_an_ip:8080",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var addr NetAddress
			err := addr.Set(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, addr)
		})
	}
}

// TestClientConfigValidate tests the engine-view validation rules
func TestClientConfigValidate(t *testing.T) {
	valid := func() *ClientConfig {
		return &ClientConfig{
			Remote:  RemoteStore{Backend: BackendDrive},
			Storage: ClientStorage{DB: ClientDB{DSN: "notesync.db"}},
			Sync:    SyncSettings{Interval: 1000000000},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*ClientConfig)
		wantErr error
	}{
		{
			name:   "valid drive backend",
			mutate: func(cfg *ClientConfig) {},
		},
		{
			name: "valid http backend",
			mutate: func(cfg *ClientConfig) {
				cfg.Remote = RemoteStore{Backend: BackendHTTP, HTTPAddress: "files:8080", RequestTimeout: 1000000000}
			},
		},
		{
			name:    "empty dsn",
			mutate:  func(cfg *ClientConfig) { cfg.Storage.DB.DSN = "" },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "in-memory dsn rejected",
			mutate:  func(cfg *ClientConfig) { cfg.Storage.DB.DSN = "file::memory:?cache=shared" },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "unknown backend",
			mutate:  func(cfg *ClientConfig) { cfg.Remote.Backend = "ftp" },
			wantErr: ErrInvalidRemoteConfigs,
		},
		{
			name:    "http backend without address",
			mutate:  func(cfg *ClientConfig) { cfg.Remote.Backend = BackendHTTP },
			wantErr: ErrInvalidRemoteConfigs,
		},
		{
			name:    "zero sync interval",
			mutate:  func(cfg *ClientConfig) { cfg.Sync.Interval = 0 },
			wantErr: ErrInvalidSyncConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
