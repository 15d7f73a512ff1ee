package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tagay1n/yadisk-client/internal/disk"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "store"))
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return s
}

func TestFileStore_MkdirAndExists(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	// Leaf before parent must fail.
	if err := s.Mkdir(ctx, "a/b"); err == nil {
		t.Error("Mkdir(a/b) without parent expected error, got nil")
	}

	if err := s.Mkdir(ctx, "a"); err != nil {
		t.Fatalf("Mkdir(a) error = %v", err)
	}
	if err := s.Mkdir(ctx, "a/b"); err != nil {
		t.Fatalf("Mkdir(a/b) error = %v", err)
	}

	for _, path := range []string{"a", "a/b"} {
		ok, err := s.Exists(ctx, path)
		if err != nil {
			t.Fatalf("Exists(%q) error = %v", path, err)
		}
		if !ok {
			t.Errorf("Exists(%q) = false, want true", path)
		}
	}

	ok, err := s.Exists(ctx, "a/missing")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if ok {
		t.Error("Exists(a/missing) = true, want false")
	}
}

func TestFileStore_UploadAndStat(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	if err := s.Mkdir(ctx, "docs"); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}

	local := writeLocal(t, "hello world")
	if err := s.Upload(ctx, local, "docs/hello.txt", true); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	meta, err := s.Stat(ctx, "docs/hello.txt")
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if meta.Type != disk.ResourceFile {
		t.Errorf("Type = %q, want %q", meta.Type, disk.ResourceFile)
	}
	if meta.MD5 != "5eb63bbbe01eeed093cb22bb8f5acdc3" {
		t.Errorf("MD5 = %q, want %q", meta.MD5, "5eb63bbbe01eeed093cb22bb8f5acdc3")
	}

	dirMeta, err := s.Stat(ctx, "docs")
	if err != nil {
		t.Fatalf("Stat(docs) error = %v", err)
	}
	if dirMeta.Type != disk.ResourceDir {
		t.Errorf("Type = %q, want %q", dirMeta.Type, disk.ResourceDir)
	}
}

func TestFileStore_UploadOverwriteSemantics(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	local := writeLocal(t, "first")
	if err := s.Upload(ctx, local, "f.txt", true); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if err := s.Upload(ctx, local, "f.txt", false); err == nil {
		t.Error("Upload(overwrite=false) over existing file expected error, got nil")
	}

	replaced := writeLocal(t, "second")
	if err := s.Upload(ctx, replaced, "f.txt", true); err != nil {
		t.Fatalf("Upload(overwrite=true) error = %v", err)
	}

	meta, err := s.Stat(ctx, "f.txt")
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if want := md5Hex([]byte("second")); meta.MD5 != want {
		t.Errorf("MD5 after overwrite = %q, want %q", meta.MD5, want)
	}
}

func TestFileStore_UploadOverDirectory(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	if err := s.Mkdir(ctx, "target"); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}

	local := writeLocal(t, "content")
	if err := s.Upload(ctx, local, "target", true); err == nil {
		t.Error("Upload over a directory expected error, got nil")
	}
}

func TestFileStore_StatNotFound(t *testing.T) {
	s := newTestFileStore(t)

	_, err := s.Stat(context.Background(), "missing")
	if !disk.IsNotFound(err) {
		t.Errorf("Stat() error = %v, want not-found", err)
	}
}

func TestFileStore_PublicDownloadLink(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	local := writeLocal(t, "content")
	if err := s.Upload(ctx, local, "f.txt", true); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	meta, err := s.Stat(ctx, "f.txt")
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}

	url, err := s.PublicDownloadLink(ctx, meta.PublicKey)
	if err != nil {
		t.Fatalf("PublicDownloadLink() error = %v", err)
	}
	if !strings.HasPrefix(url, "file://") {
		t.Errorf("link = %q, want file:// URL", url)
	}

	if _, err := s.PublicDownloadLink(ctx, "missing"); !disk.IsNotFound(err) {
		t.Errorf("PublicDownloadLink(missing) error = %v, want not-found", err)
	}
}

func TestFileStore_NoPartialFileOnFailedUpload(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	missing := filepath.Join(t.TempDir(), "missing.txt")
	if err := s.Upload(ctx, missing, "f.txt", true); err == nil {
		t.Fatal("Upload() of missing local file expected error, got nil")
	}

	if _, err := s.Stat(ctx, "f.txt"); !disk.IsNotFound(err) {
		t.Errorf("Stat() after failed upload = %v, want not-found", err)
	}

	// No stray temp files either.
	entries, err := os.ReadDir(s.root)
	if err != nil {
		t.Fatalf("reading store root: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("store root has %d entries after failed upload, want 0", len(entries))
	}
}
