package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tagay1n/yadisk-client/internal/config"
	"github.com/tagay1n/yadisk-client/internal/disk"
)

// newMemoryApp wires an App against in-memory store and journal.
func newMemoryApp(t *testing.T) *App {
	t.Helper()

	cfg := config.NewConfig(t.TempDir())
	cfg.Store = config.StoreConfig{Type: "memory"}
	cfg.Journal = config.JournalConfig{Type: "memory"}

	a, err := NewApp(context.Background(), cfg, "Test")
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func localFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing local file: %v", err)
	}
	return path
}

func TestApp_PushLinkHistory(t *testing.T) {
	a := newMemoryApp(t)
	ctx := context.Background()

	local := localFile(t, "report.pdf", "annual report")

	// First push uploads.
	result, err := a.Push(ctx, local, "backups/2024", "")
	if err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	if result.RemotePath != "backups/2024/report.pdf" {
		t.Errorf("RemotePath = %q, want %q", result.RemotePath, "backups/2024/report.pdf")
	}
	if !result.Uploaded() {
		t.Error("first Push() did not upload")
	}

	// Second push with identical content is a no-op under the default
	// policy.
	result, err = a.Push(ctx, local, "backups/2024", "")
	if err != nil {
		t.Fatalf("second Push() error = %v", err)
	}
	if result.Uploaded() {
		t.Error("second Push() uploaded unchanged content")
	}

	// The uploaded file resolves to a shareable link.
	url, err := a.Link(ctx, "backups/2024/report.pdf")
	if err != nil {
		t.Fatalf("Link() error = %v", err)
	}
	if !strings.Contains(url, "pub:backups/2024/report.pdf") {
		t.Errorf("Link() = %q, want link derived from the public key", url)
	}

	// Both pushes are in the history, newest first.
	records, err := a.History(ctx, "backups/2024/report.pdf", 0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("History() returned %d records, want 2", len(records))
	}
	if records[0].Action != disk.ActionSkipped || records[1].Action != disk.ActionUploaded {
		t.Errorf("history actions = [%s, %s], want [skipped, uploaded]", records[0].Action, records[1].Action)
	}
}

func TestApp_PushPolicyOverride(t *testing.T) {
	a := newMemoryApp(t)
	ctx := context.Background()

	local := localFile(t, "notes.txt", "content")
	if _, err := a.Push(ctx, local, "docs", ""); err != nil {
		t.Fatalf("Push() error = %v", err)
	}

	// always-replace forces a second upload of identical content.
	result, err := a.Push(ctx, local, "docs", "always-replace")
	if err != nil {
		t.Fatalf("Push(always-replace) error = %v", err)
	}
	if !result.Uploaded() {
		t.Error("Push(always-replace) did not upload")
	}
}

func TestApp_PushRejectsUnknownPolicy(t *testing.T) {
	a := newMemoryApp(t)

	local := localFile(t, "notes.txt", "content")
	if _, err := a.Push(context.Background(), local, "docs", "merge"); err == nil {
		t.Error("Push() with unknown policy expected error, got nil")
	}
}
