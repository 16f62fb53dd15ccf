package vault_test

import (
	"os"
	"path/filepath"
	"testing"

	"shelver/internal/testsupport"
	"shelver/internal/vault"
)

func TestUniquePathSuffixesCollisions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.md")

	if got := vault.UniquePath(path); got != path {
		t.Fatalf("free path should come back unchanged, got %q", got)
	}
	testsupport.WriteFile(t, path, "a")
	if got := vault.UniquePath(path); got != filepath.Join(dir, "note (1).md") {
		t.Fatalf("got %q", got)
	}
	testsupport.WriteFile(t, filepath.Join(dir, "note (1).md"), "b")
	if got := vault.UniquePath(path); got != filepath.Join(dir, "note (2).md") {
		t.Fatalf("got %q", got)
	}
}

func TestRenameWithinDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "old.md")
	testsupport.WriteFile(t, path, "content")

	moved, err := vault.New().Rename(path, "new.md")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if moved != filepath.Join(dir, "new.md") {
		t.Fatalf("got %q", moved)
	}
	if testsupport.ReadFile(t, moved) != "content" {
		t.Fatal("content lost in rename")
	}
}

func TestRenameAvoidsOverwriting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "old.md")
	testsupport.WriteFile(t, path, "new content")
	testsupport.WriteFile(t, filepath.Join(dir, "taken.md"), "existing")

	moved, err := vault.New().Rename(path, "taken.md")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if moved != filepath.Join(dir, "taken (1).md") {
		t.Fatalf("got %q", moved)
	}
	if testsupport.ReadFile(t, filepath.Join(dir, "taken.md")) != "existing" {
		t.Fatal("existing file was overwritten")
	}
}

func TestMoveToCreatesDestination(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.md")
	testsupport.WriteFile(t, path, "content")
	dest := filepath.Join(dir, "library", "notes")

	moved, err := vault.New().MoveTo(path, dest)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved != filepath.Join(dest, "note.md") {
		t.Fatalf("got %q", moved)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("source should be gone")
	}
	if testsupport.ReadFile(t, moved) != "content" {
		t.Fatal("content lost in move")
	}
}

func TestWriteTextPreservesMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.md")
	if err := os.WriteFile(path, []byte("a"), 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	if err := vault.New().WriteText(path, "b"); err != nil {
		t.Fatalf("write: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v, want 0600", info.Mode().Perm())
	}
}
