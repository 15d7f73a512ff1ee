package store

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/tagay1n/yadisk-client/internal/disk"
)

// FileStore is a filesystem-based implementation of the RemoteStore
// interface. Remote paths map directly onto files under a local root
// directory, so "a/b/c.txt" lives at <root>/a/b/c.txt. Digests are
// computed from the stored bytes, which keeps the reported MD5 the
// authoritative one for whatever content actually landed on disk.
type FileStore struct {
	root string
}

// NewFileStore creates a store rooted at the given directory, creating
// it if needed.
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store root: %w", err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving store root: %w", err)
	}
	return &FileStore{root: abs}, nil
}

// localPath maps a remote path onto the backing filesystem.
func (v *FileStore) localPath(remotePath string) (string, error) {
	p, err := disk.NormalizePath(remotePath)
	if err != nil {
		return "", err
	}
	return filepath.Join(v.root, filepath.FromSlash(p)), nil
}

// Exists reports whether the remote path exists.
func (v *FileStore) Exists(_ context.Context, path string) (bool, error) {
	local, err := v.localPath(path)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(local); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return true, nil
}

// Mkdir creates a single directory. os.Mkdir gives the exact contract:
// it fails when the parent is missing or the path is already taken.
func (v *FileStore) Mkdir(_ context.Context, path string) error {
	local, err := v.localPath(path)
	if err != nil {
		return err
	}
	if err := os.Mkdir(local, 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}

// Stat returns metadata for the remote path. The fields hint is
// ignored. The public key of a file is its remote path.
func (v *FileStore) Stat(_ context.Context, path string, _ ...string) (*disk.Metadata, error) {
	local, err := v.localPath(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(local)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("stat %s: %w", path, disk.ErrNotFound)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if info.IsDir() {
		return &disk.Metadata{Type: disk.ResourceDir}, nil
	}

	md5sum, err := disk.MD5File(local)
	if err != nil {
		return nil, fmt.Errorf("digesting stored file %s: %w", path, err)
	}

	normalized, _ := disk.NormalizePath(path)
	return &disk.Metadata{
		Type:      disk.ResourceFile,
		MD5:       md5sum,
		Size:      info.Size(),
		PublicKey: normalized,
	}, nil
}

// Upload copies the local file into the store. The write goes through
// a temp file and a rename so a failed transfer never leaves a partial
// file at the target path.
func (v *FileStore) Upload(_ context.Context, localFile, remotePath string, overwrite bool) error {
	target, err := v.localPath(remotePath)
	if err != nil {
		return err
	}

	if info, err := os.Stat(target); err == nil {
		if info.IsDir() {
			return fmt.Errorf("path already exists as a directory: %s", remotePath)
		}
		if !overwrite {
			return fmt.Errorf("file already exists: %s", remotePath)
		}
	}

	src, err := os.Open(localFile)
	if err != nil {
		return fmt.Errorf("opening local file: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("moving content into place: %w", err)
	}
	return nil
}

// PublicDownloadLink resolves a public key (the remote path, for this
// backend) to a file:// URL.
func (v *FileStore) PublicDownloadLink(_ context.Context, publicKey string) (string, error) {
	local, err := v.localPath(publicKey)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(local); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("public key %s: %w", publicKey, disk.ErrNotFound)
		}
		return "", fmt.Errorf("stat %s: %w", publicKey, err)
	}

	u := url.URL{Scheme: "file", Path: "/" + strings.TrimPrefix(filepath.ToSlash(local), "/")}
	return u.String(), nil
}

// Compile-time check that FileStore implements the RemoteStore interface
var _ disk.RemoteStore = (*FileStore)(nil)
