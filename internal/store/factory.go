package store

import (
	"context"
	"fmt"
	"os"

	"github.com/tagay1n/yadisk-client/internal/config"
	"github.com/tagay1n/yadisk-client/internal/disk"
)

// s3SecretKeyEnv holds the S3 secret key; it is deliberately never
// part of the config file.
const s3SecretKeyEnv = "YDISK_S3_SECRET_KEY"

// NewRemoteStoreFromConfig creates a RemoteStore implementation based
// on the store config type.
func NewRemoteStoreFromConfig(ctx context.Context, cfg config.StoreConfig) (disk.RemoteStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "filesystem":
		if cfg.Root == "" {
			return nil, fmt.Errorf("filesystem store requires root to be set")
		}
		return NewFileStore(cfg.Root)
	case "s3":
		return NewS3Store(ctx, S3Options{
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: os.Getenv(s3SecretKeyEnv),
		})
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}
