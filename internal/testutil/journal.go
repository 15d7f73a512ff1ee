package testutil

import (
	"github.com/tagay1n/yadisk-client/internal/journal"
)

// NewTestJournal creates a new in-memory journal for testing.
func NewTestJournal() *journal.MemoryJournal {
	return journal.NewMemoryJournal()
}
