package testutil

import (
	"github.com/tagay1n/yadisk-client/internal/store"
)

// NewTestStore creates a new in-memory remote store for testing.
func NewTestStore() *store.MemoryStore {
	return store.NewMemoryStore()
}
