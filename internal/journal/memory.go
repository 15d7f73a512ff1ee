package journal

import (
	"context"
	"sync"

	"github.com/tagay1n/yadisk-client/internal/disk"
)

// MemoryJournal is an in-memory implementation of the Journal
// interface, used by tests and the "memory" config type. Safe for
// concurrent use.
type MemoryJournal struct {
	mu      sync.RWMutex
	records []*disk.TransferRecord
}

// NewMemoryJournal creates an empty in-memory journal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

// Record appends a transfer record.
func (j *MemoryJournal) Record(_ context.Context, rec *disk.TransferRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	cp := *rec
	j.records = append(j.records, &cp)
	return nil
}

// ListByRemotePath returns records for a remote path, newest first.
// limit <= 0 means no limit.
func (j *MemoryJournal) ListByRemotePath(_ context.Context, remotePath string, limit int) ([]*disk.TransferRecord, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var out []*disk.TransferRecord
	for i := len(j.records) - 1; i >= 0; i-- {
		if j.records[i].RemotePath != remotePath {
			continue
		}
		cp := *j.records[i]
		out = append(out, &cp)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// All returns every record in insertion order. For tests.
func (j *MemoryJournal) All() []*disk.TransferRecord {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]*disk.TransferRecord, len(j.records))
	for i, rec := range j.records {
		cp := *rec
		out[i] = &cp
	}
	return out
}

// Close is a no-op for the in-memory journal.
func (j *MemoryJournal) Close() error { return nil }

// Compile-time check that MemoryJournal implements the Journal interface
var _ disk.Journal = (*MemoryJournal)(nil)
