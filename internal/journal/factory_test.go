package journal

import (
	"path/filepath"
	"testing"

	"github.com/tagay1n/yadisk-client/internal/config"
)

func TestNewJournalFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.JournalConfig
		wantErr bool
	}{
		{
			name: "memory journal",
			cfg:  config.JournalConfig{Type: "memory"},
		},
		{
			name: "sqlite journal",
			cfg: config.JournalConfig{
				Type:    "sqlite",
				DataDir: filepath.Join(t.TempDir(), "data"),
			},
		},
		{
			name:    "sqlite journal without data dir",
			cfg:     config.JournalConfig{Type: "sqlite"},
			wantErr: true,
		},
		{
			name:    "unknown journal type",
			cfg:     config.JournalConfig{Type: "redis"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewJournalFromConfig(tt.cfg)

			if (err != nil) != tt.wantErr {
				t.Errorf("NewJournalFromConfig() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err == nil {
				got.Close()
			}
		})
	}
}
