package stages_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"shelver/internal/records"
	"shelver/internal/stages"
	"shelver/internal/testsupport"
	"shelver/internal/vault"
)

func TestApplyTagsCreatesFrontmatter(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path := filepath.Join(cfg.Paths.InboxDir, "note.md")
	testsupport.WriteFile(t, path, "# Title\nbody\n")

	stage := stages.NewApplyTags(vault.New())
	record := &records.FileRecord{
		CurrentPath:    path,
		Classification: "meeting",
		Tags:           []string{"standup", "planning"},
	}
	if err := stage.Execute(context.Background(), record); err != nil {
		t.Fatalf("execute: %v", err)
	}

	content := testsupport.ReadFile(t, path)
	if !strings.HasPrefix(content, "---\n") {
		t.Fatalf("frontmatter block missing: %q", content)
	}
	for _, want := range []string{"classification: meeting", "standup", "planning", "# Title\nbody\n"} {
		if !strings.Contains(content, want) {
			t.Fatalf("content missing %q: %q", want, content)
		}
	}
	if record.ExtractedText != content {
		t.Fatal("extracted text should track the rewritten document")
	}
}

func TestApplyTagsPreservesExistingKeys(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path := filepath.Join(cfg.Paths.InboxDir, "note.md")
	testsupport.WriteFile(t, path, "---\nauthor: ada\n---\n\nbody\n")

	stage := stages.NewApplyTags(vault.New())
	record := &records.FileRecord{CurrentPath: path, Classification: "note", Tags: []string{"math"}}
	if err := stage.Execute(context.Background(), record); err != nil {
		t.Fatalf("execute: %v", err)
	}

	content := testsupport.ReadFile(t, path)
	for _, want := range []string{"author: ada", "classification: note", "math", "body\n"} {
		if !strings.Contains(content, want) {
			t.Fatalf("content missing %q: %q", want, content)
		}
	}
}

func TestApplyTagsNoopWithoutMetadata(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path := filepath.Join(cfg.Paths.InboxDir, "note.md")
	testsupport.WriteFile(t, path, "body\n")

	stage := stages.NewApplyTags(vault.New())
	if err := stage.Execute(context.Background(), &records.FileRecord{CurrentPath: path}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := testsupport.ReadFile(t, path); got != "body\n" {
		t.Fatalf("document must be untouched, got %q", got)
	}
}
