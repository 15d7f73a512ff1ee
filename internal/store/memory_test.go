package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tagay1n/yadisk-client/internal/disk"
)

func writeLocal(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "local.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing local file: %v", err)
	}
	return path
}

func TestMemoryStore_MkdirOrdering(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	// A leaf before its parent must fail.
	if err := s.Mkdir(ctx, "a/b"); err == nil {
		t.Error("Mkdir(a/b) without parent expected error, got nil")
	}

	if err := s.Mkdir(ctx, "a"); err != nil {
		t.Fatalf("Mkdir(a) error = %v", err)
	}
	if err := s.Mkdir(ctx, "a/b"); err != nil {
		t.Fatalf("Mkdir(a/b) error = %v", err)
	}

	// Re-creating an existing directory fails, like the real store.
	if err := s.Mkdir(ctx, "a"); err == nil {
		t.Error("Mkdir(a) twice expected error, got nil")
	}
}

func TestMemoryStore_MkdirOverFile(t *testing.T) {
	s := NewMemoryStore()
	s.SeedFile("a", []byte("file"))

	if err := s.Mkdir(context.Background(), "a"); err == nil {
		t.Error("Mkdir over a file expected error, got nil")
	}
}

func TestMemoryStore_UploadAndStat(t *testing.T) {
	s := NewMemoryStore()
	s.SeedDir("docs")
	ctx := context.Background()

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
	if meta.Size != int64(len("hello world")) {
		t.Errorf("Size = %d, want %d", meta.Size, len("hello world"))
	}
	if meta.PublicKey == "" {
		t.Error("PublicKey is empty, want a generated key")
	}
}

func TestMemoryStore_UploadNoOverwrite(t *testing.T) {
	s := NewMemoryStore()
	s.SeedFile("docs/hello.txt", []byte("old"))

	local := writeLocal(t, "new")
	if err := s.Upload(context.Background(), local, "docs/hello.txt", false); err == nil {
		t.Error("Upload(overwrite=false) over existing file expected error, got nil")
	}
	if err := s.Upload(context.Background(), local, "docs/hello.txt", true); err != nil {
		t.Errorf("Upload(overwrite=true) error = %v", err)
	}
}

func TestMemoryStore_StatNotFound(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Stat(context.Background(), "missing")
	if !disk.IsNotFound(err) {
		t.Errorf("Stat() error = %v, want not-found", err)
	}
}

func TestMemoryStore_Exists(t *testing.T) {
	s := NewMemoryStore()
	s.SeedDir("a")
	s.SeedFile("a/f.txt", []byte("x"))
	ctx := context.Background()

	tests := []struct {
		path string
		want bool
	}{
		{path: "a", want: true},
		{path: "a/f.txt", want: true},
		{path: "a/missing", want: false},
		{path: "/a/", want: true}, // normalization applies
	}
	for _, tt := range tests {
		got, err := s.Exists(ctx, tt.path)
		if err != nil {
			t.Fatalf("Exists(%q) error = %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("Exists(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestMemoryStore_PublicDownloadLink(t *testing.T) {
	s := NewMemoryStore()
	s.SeedFile("docs/hello.txt", []byte("x"))
	ctx := context.Background()

	meta, err := s.Stat(ctx, "docs/hello.txt")
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}

	url, err := s.PublicDownloadLink(ctx, meta.PublicKey)
	if err != nil {
		t.Fatalf("PublicDownloadLink() error = %v", err)
	}
	if url == "" {
		t.Error("PublicDownloadLink() returned empty URL")
	}

	if _, err := s.PublicDownloadLink(ctx, "pub:unknown"); !disk.IsNotFound(err) {
		t.Errorf("PublicDownloadLink(unknown) error = %v, want not-found", err)
	}
}
