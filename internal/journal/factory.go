package journal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tagay1n/yadisk-client/internal/config"
	"github.com/tagay1n/yadisk-client/internal/disk"
)

// NewJournalFromConfig creates a Journal implementation based on the journal config type.
func NewJournalFromConfig(cfg config.JournalConfig) (disk.Journal, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite journal")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating journal data dir: %w", err)
		}
		return NewSQLiteJournal(filepath.Join(cfg.DataDir, "transfers.db"))
	case "memory":
		return NewMemoryJournal(), nil
	default:
		return nil, fmt.Errorf("unknown journal type: %s", cfg.Type)
	}
}
