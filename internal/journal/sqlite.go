package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tagay1n/yadisk-client/internal/disk"
	"github.com/tagay1n/yadisk-client/internal/journal/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteJournal implements the Journal interface using SQLite.
type SQLiteJournal struct {
	db   *sql.DB
	path string
}

// NewSQLiteJournal opens (or creates) a journal database at path and
// brings its schema to the latest version. path can be a file path or
// ":memory:" for an in-memory database.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating journal schema: %w", err)
	}

	return &SQLiteJournal{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite connection with appropriate PRAGMAs.
// This is exported for use in tests that need a properly configured SQLite connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// Record appends a transfer record.
func (j *SQLiteJournal) Record(ctx context.Context, rec *disk.TransferRecord) error {
	const query = `
		INSERT INTO transfers (id, local_file, remote_path, policy, action, md5, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := j.db.ExecContext(ctx, query,
		rec.ID,
		rec.LocalFile,
		rec.RemotePath,
		rec.Policy,
		rec.Action,
		rec.MD5,
		rec.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("inserting transfer record: %w", err)
	}
	return nil
}

// ListByRemotePath returns records for a remote path, newest first.
// limit <= 0 means no limit.
func (j *SQLiteJournal) ListByRemotePath(ctx context.Context, remotePath string, limit int) ([]*disk.TransferRecord, error) {
	query := `
		SELECT id, local_file, remote_path, policy, action, md5, created_at
		FROM transfers
		WHERE remote_path = ?
		ORDER BY created_at DESC, id DESC
	`
	args := []any{remotePath}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transfer records: %w", err)
	}
	defer rows.Close()

	var records []*disk.TransferRecord
	for rows.Next() {
		rec, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading transfer records: %w", err)
	}
	return records, nil
}

// unixUTC converts a stored unix timestamp back to a UTC time.
func unixUTC(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func scanTransfer(rows *sql.Rows) (*disk.TransferRecord, error) {
	var rec disk.TransferRecord
	var createdAt int64

	err := rows.Scan(
		&rec.ID,
		&rec.LocalFile,
		&rec.RemotePath,
		&rec.Policy,
		&rec.Action,
		&rec.MD5,
		&createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning transfer record: %w", err)
	}

	rec.CreatedAt = unixUTC(createdAt)
	return &rec, nil
}

// Close closes the underlying database connection.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// Compile-time check that SQLiteJournal implements the Journal interface
var _ disk.Journal = (*SQLiteJournal)(nil)
