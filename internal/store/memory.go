package store

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"sync"

	"github.com/tagay1n/yadisk-client/internal/disk"
)

// MemoryStore is an in-memory implementation of the RemoteStore
// interface. It keeps the whole hierarchy in maps, making it useful
// for testing and for the "memory" config type. This implementation is
// safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	files   map[string]*memoryEntry // remote path -> file
	dirs    map[string]bool         // remote path -> exists
	uploads int
}

type memoryEntry struct {
	data      []byte
	md5       string
	publicKey string
}

// NewMemoryStore creates an empty in-memory remote store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		files: make(map[string]*memoryEntry),
		dirs:  make(map[string]bool),
	}
}

// Exists reports whether path exists as a file or a directory.
func (m *MemoryStore) Exists(_ context.Context, path string) (bool, error) {
	path, err := disk.NormalizePath(path)
	if err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, isFile := m.files[path]
	return isFile || m.dirs[path], nil
}

// Mkdir creates a single directory. The parent must already exist and
// the path must not be taken by a file or another directory.
func (m *MemoryStore) Mkdir(_ context.Context, path string) error {
	path, err := disk.NormalizePath(path)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[path]; ok {
		return fmt.Errorf("path already exists as a file: %s", path)
	}
	if m.dirs[path] {
		return fmt.Errorf("directory already exists: %s", path)
	}
	if parent := parentPath(path); parent != "" && !m.dirs[parent] {
		return fmt.Errorf("parent directory does not exist: %s", parent)
	}

	m.dirs[path] = true
	return nil
}

// Stat returns metadata for path. The fields hint is ignored; the full
// record is always returned.
func (m *MemoryStore) Stat(_ context.Context, path string, _ ...string) (*disk.Metadata, error) {
	path, err := disk.NormalizePath(path)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if e, ok := m.files[path]; ok {
		return &disk.Metadata{
			Type:      disk.ResourceFile,
			MD5:       e.md5,
			Size:      int64(len(e.data)),
			PublicKey: e.publicKey,
		}, nil
	}
	if m.dirs[path] {
		return &disk.Metadata{Type: disk.ResourceDir}, nil
	}
	return nil, fmt.Errorf("stat %s: %w", path, disk.ErrNotFound)
}

// Upload stores the local file's content at remotePath. Every uploaded
// file is assigned a public key so link passthrough can be exercised.
func (m *MemoryStore) Upload(_ context.Context, localFile, remotePath string, overwrite bool) error {
	remotePath, err := disk.NormalizePath(remotePath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(localFile)
	if err != nil {
		return fmt.Errorf("reading local file: %w", err)
	}
	md5sum, err := disk.MD5File(localFile)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dirs[remotePath] {
		return fmt.Errorf("path already exists as a directory: %s", remotePath)
	}
	if _, ok := m.files[remotePath]; ok && !overwrite {
		return fmt.Errorf("file already exists: %s", remotePath)
	}

	m.files[remotePath] = &memoryEntry{
		data:      data,
		md5:       md5sum,
		publicKey: "pub:" + remotePath,
	}
	m.uploads++
	return nil
}

// PublicDownloadLink resolves a public key to a fake shareable URL.
func (m *MemoryStore) PublicDownloadLink(_ context.Context, publicKey string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, e := range m.files {
		if e.publicKey == publicKey {
			return "https://disk.example/d/" + publicKey, nil
		}
	}
	return "", fmt.Errorf("public key %s: %w", publicKey, disk.ErrNotFound)
}

// UploadCount returns how many uploads were performed. For tests.
func (m *MemoryStore) UploadCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.uploads
}

// SeedDir registers a directory (and its ancestors) without going
// through Mkdir ordering checks. For tests.
func (m *MemoryStore) SeedDir(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, prefix := range disk.PathPrefixes(path) {
		m.dirs[prefix] = true
	}
}

// SeedFile registers a file with the given content without counting as
// an upload. Ancestor directories are created. For tests.
func (m *MemoryStore) SeedFile(path string, data []byte) {
	md5sum := md5Hex(data)

	m.mu.Lock()
	defer m.mu.Unlock()

	prefixes := disk.PathPrefixes(path)
	for _, prefix := range prefixes[:len(prefixes)-1] {
		m.dirs[prefix] = true
	}
	m.files[disk.JoinPath(path)] = &memoryEntry{
		data:      data,
		md5:       md5sum,
		publicKey: "pub:" + disk.JoinPath(path),
	}
}

func md5Hex(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// parentPath returns the path one level up, or "" for a root entry.
func parentPath(path string) string {
	segments := disk.SplitPath(path)
	if len(segments) <= 1 {
		return ""
	}
	return disk.JoinPath(segments[:len(segments)-1]...)
}

// Compile-time check that MemoryStore implements the RemoteStore interface
var _ disk.RemoteStore = (*MemoryStore)(nil)
