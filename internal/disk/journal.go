package disk

import (
	"context"
	"time"
)

// Transfer actions recorded in the journal.
const (
	ActionUploaded = "uploaded"
	ActionSkipped  = "skipped"
)

// TransferRecord is one journal entry: the outcome of a single
// UploadOrReplace call.
type TransferRecord struct {
	ID         string
	LocalFile  string
	RemotePath string
	Policy     string
	// Action is "uploaded" if content was transferred, "skipped" if
	// the existing remote content was kept.
	Action    string
	MD5       string
	CreatedAt time.Time
}

// Journal persists transfer records. Journal failures are advisory:
// the uploader logs them and keeps going, so implementations should
// not assume a failed Record aborts anything.
type Journal interface {
	Record(ctx context.Context, rec *TransferRecord) error

	// ListByRemotePath returns records for a remote path, newest
	// first. limit <= 0 means no limit.
	ListByRemotePath(ctx context.Context, remotePath string, limit int) ([]*TransferRecord, error)

	Close() error
}
