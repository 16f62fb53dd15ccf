package stages_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"shelver/internal/records"
	"shelver/internal/services"
	"shelver/internal/stages"
	"shelver/internal/testsupport"
	"shelver/internal/vault"
)

func TestExtractReadsTextContent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path := filepath.Join(cfg.Paths.InboxDir, "note.md")
	testsupport.WriteFile(t, path, "# Heading\nbody\n")

	stage := stages.NewExtract(cfg, vault.New())
	record := &records.FileRecord{CurrentPath: path}
	if err := stage.Execute(context.Background(), record); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if record.ExtractedText != "# Heading\nbody\n" {
		t.Fatalf("unexpected extracted text %q", record.ExtractedText)
	}
}

func TestExtractBypassesUnsupportedFormats(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path := filepath.Join(cfg.Paths.InboxDir, "scan.pdf")
	testsupport.WriteFile(t, path, "%PDF-1.4")

	stage := stages.NewExtract(cfg, vault.New())
	err := stage.Execute(context.Background(), &records.FileRecord{CurrentPath: path})
	if !services.IsBypass(err) {
		t.Fatalf("expected bypass, got %v", err)
	}
	if !strings.Contains(services.Message(err), ".pdf") {
		t.Fatalf("bypass reason should name the extension, got %q", services.Message(err))
	}
}
