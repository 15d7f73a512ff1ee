package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tagay1n/yadisk-client/internal/config"
)

func TestNewRemoteStoreFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.StoreConfig
		wantErr bool
	}{
		{
			name: "memory store",
			cfg:  config.StoreConfig{Type: "memory"},
		},
		{
			name: "filesystem store",
			cfg: config.StoreConfig{
				Type: "filesystem",
				Root: filepath.Join(t.TempDir(), "store"),
			},
		},
		{
			name:    "filesystem store without root",
			cfg:     config.StoreConfig{Type: "filesystem"},
			wantErr: true,
		},
		{
			name: "s3 store",
			cfg: config.StoreConfig{
				Type:     "s3",
				S3Bucket: "my-bucket",
				S3Region: "us-east-1",
			},
		},
		{
			name:    "s3 store without bucket",
			cfg:     config.StoreConfig{Type: "s3"},
			wantErr: true,
		},
		{
			name:    "unknown store type",
			cfg:     config.StoreConfig{Type: "unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewRemoteStoreFromConfig(context.Background(), tt.cfg)

			if (err != nil) != tt.wantErr {
				t.Errorf("NewRemoteStoreFromConfig() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if (got == nil) != tt.wantErr {
				t.Errorf("NewRemoteStoreFromConfig() returned nil = %v, wantErr %v", got == nil, tt.wantErr)
			}
		})
	}
}
