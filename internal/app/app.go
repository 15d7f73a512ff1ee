package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tagay1n/yadisk-client/internal/config"
	"github.com/tagay1n/yadisk-client/internal/disk"
	"github.com/tagay1n/yadisk-client/internal/journal"
	"github.com/tagay1n/yadisk-client/internal/store"
)

// App is the application layer between the CLI and the Uploader.
// It constructs all dependencies from config, exposes high-level
// operations, and manages the journal lifecycle on Close.
type App struct {
	cfg      *config.Config
	remote   disk.RemoteStore
	journal  disk.Journal
	uploader *disk.Uploader
	logFile  *os.File
}

// NewApp creates a fully wired App from the given config.
// operation identifies the CLI command being run (e.g. "Push", "Link").
// The caller must call Close when done.
func NewApp(ctx context.Context, cfg *config.Config, operation string) (*App, error) {
	remote, err := store.NewRemoteStoreFromConfig(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("creating remote store: %w", err)
	}

	jrnl, err := journal.NewJournalFromConfig(cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("creating journal: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z") + "-" + operation
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		jrnl.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	uploader := disk.NewUploader(
		remote,
		jrnl,
		&slogAdapter{l: logger},
		disk.RealClock{},
		disk.UUIDGenerator{},
		cfg.DigestBufferSize,
	)

	return &App{
		cfg:      cfg,
		remote:   remote,
		journal:  jrnl,
		uploader: uploader,
		logFile:  logFile,
	}, nil
}

// Push uploads a local file into a remote directory under the given
// policy name ("" means the configured default).
func (a *App) Push(ctx context.Context, localFile, remoteDir, policyName string) (*disk.UploadResult, error) {
	if policyName == "" {
		policyName = a.cfg.DefaultPolicy
	}
	policy, err := disk.ParsePolicy(policyName)
	if err != nil {
		return nil, err
	}

	return a.uploader.UploadOrReplace(ctx, localFile, remoteDir, policy)
}

// Link resolves a remote path to a shareable download URL.
func (a *App) Link(ctx context.Context, remotePath string) (string, error) {
	return a.uploader.PublicDownloadLinkByPath(ctx, remotePath)
}

// History lists journal records for a remote path, newest first.
func (a *App) History(ctx context.Context, remotePath string, limit int) ([]*disk.TransferRecord, error) {
	path, err := disk.NormalizePath(remotePath)
	if err != nil {
		return nil, err
	}
	return a.journal.ListByRemotePath(ctx, path, limit)
}

// Close releases the journal and the log file.
func (a *App) Close() error {
	var firstErr error
	if err := a.journal.Close(); err != nil {
		firstErr = err
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
