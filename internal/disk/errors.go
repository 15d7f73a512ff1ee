package disk

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a remote path does not exist. RemoteStore
// implementations wrap it so callers can test with errors.Is; StatOrNil
// converts it to an absent result.
var ErrNotFound = errors.New("remote path not found")

// ConflictError reports a file/directory type clash at a remote path,
// e.g. an upload target that already exists as a directory, or a
// directory ancestor that already exists as a file.
type ConflictError struct {
	Path   string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict at %s: %s", e.Path, e.Reason)
}

// NewConflictError creates a ConflictError for the given path.
func NewConflictError(path, reason string) *ConflictError {
	return &ConflictError{Path: path, Reason: reason}
}

// IsNotFound reports whether err indicates a missing remote path.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
