package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shelver/internal/pipeline"
	"shelver/internal/records"
	"shelver/internal/stages"
	"shelver/internal/testsupport"
	"shelver/internal/vault"
)

// scriptedCompleter replays canned LLM payloads in call order.
type scriptedCompleter struct {
	payloads []string
	calls    int
}

func (c *scriptedCompleter) CompleteJSON(context.Context, string, string) (string, error) {
	if c.calls >= len(c.payloads) {
		return "", errors.New("unexpected completion request")
	}
	payload := c.payloads[c.calls]
	c.calls++
	return payload, nil
}

func (c *scriptedCompleter) Configured() bool { return true }

func TestPipelineFilesMarkdownEndToEnd(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWorkers(1))
	store := testsupport.MustOpenStore(t)

	source := filepath.Join(cfg.Paths.InboxDir, "Untitled.md")
	testsupport.WriteFile(t, source, "standup notes  \ndiscussed roadmap\n\n\n")

	completer := &scriptedCompleter{payloads: []string{
		`{"classification": "meeting"}`,
		`{"tags": ["#Standup", "roadmap"]}`,
		`{"name": "roadmap standup"}`,
		`{"content": "# Roadmap Standup\n\ndiscussed roadmap"}`,
	}}
	handlers := stages.BuildAll(cfg, vault.New(), completer)
	sched := pipeline.New(cfg, store, handlers, nil)

	ids, err := sched.Enqueue(context.Background(), []string{source})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	startScheduler(t, sched)

	record := waitForTerminal(t, store, ids[0])
	if record.Status != records.StatusCompleted {
		t.Fatalf("status = %s (error %q), want completed", record.Status, record.ErrorMessage())
	}
	if record.Classification != "meeting" {
		t.Fatalf("classification = %q", record.Classification)
	}
	if len(record.Tags) != 2 || record.Tags[0] != "standup" || record.Tags[1] != "roadmap" {
		t.Fatalf("tags = %v", record.Tags)
	}

	finalDir := filepath.Join(cfg.Paths.LibraryDir, "meeting")
	if filepath.Dir(record.NewPath) != finalDir {
		t.Fatalf("final path %q not under %q", record.NewPath, finalDir)
	}
	if base := filepath.Base(record.NewPath); base != "Roadmap Standup.md" {
		t.Fatalf("final name = %q", base)
	}
	content, err := os.ReadFile(record.NewPath)
	if err != nil {
		t.Fatalf("read final file: %v", err)
	}
	text := string(content)
	if !strings.Contains(text, "# Roadmap Standup") {
		t.Fatalf("formatted content missing: %q", text)
	}
	if _, err := os.Stat(source); !os.IsNotExist(err) {
		t.Fatal("source file should have left the inbox")
	}
	if record.SourcePath != source {
		t.Fatalf("source path = %q, want %q", record.SourcePath, source)
	}
}

func TestPipelineBypassesBinaryFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWorkers(1))
	store := testsupport.MustOpenStore(t)

	source := filepath.Join(cfg.Paths.InboxDir, "scan.pdf")
	testsupport.WriteFile(t, source, "%PDF-1.4")

	handlers := stages.BuildAll(cfg, vault.New(), &scriptedCompleter{})
	sched := pipeline.New(cfg, store, handlers, nil)

	ids, err := sched.Enqueue(context.Background(), []string{source})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	startScheduler(t, sched)

	record := waitForTerminal(t, store, ids[0])
	if record.Status != records.StatusBypassed {
		t.Fatalf("status = %s, want bypassed", record.Status)
	}
	if !strings.Contains(record.BypassReason, ".pdf") {
		t.Fatalf("bypass reason = %q", record.BypassReason)
	}
	if _, err := os.Stat(source); err != nil {
		t.Fatal("bypassed file must stay in the inbox")
	}
}
