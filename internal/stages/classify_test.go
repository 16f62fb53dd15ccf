package stages_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"shelver/internal/records"
	"shelver/internal/services"
	"shelver/internal/stages"
	"shelver/internal/testsupport"
)

func TestClassifyAcceptsAllowedClassification(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	completer := &fakeCompleter{payloads: []string{`{"classification": "Meeting"}`}}

	stage := stages.NewClassify(cfg, completer)
	record := &records.FileRecord{CurrentPath: "/inbox/standup.md", ExtractedText: "weekly standup notes"}
	if err := stage.Execute(context.Background(), record); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if record.Classification != "meeting" {
		t.Fatalf("expected normalized classification, got %q", record.Classification)
	}
	if len(completer.userSeen) != 1 || !strings.Contains(completer.userSeen[0], "weekly standup notes") {
		t.Fatal("extracted text should be part of the prompt")
	}
}

func TestClassifyRejectsUnknownClassification(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	completer := &fakeCompleter{payloads: []string{`{"classification": "poetry"}`}}

	stage := stages.NewClassify(cfg, completer)
	err := stage.Execute(context.Background(), &records.FileRecord{CurrentPath: "/inbox/a.md"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClassifyRequiresConfiguredClient(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	stage := stages.NewClassify(cfg, unconfiguredCompleter{})
	err := stage.Execute(context.Background(), &records.FileRecord{CurrentPath: "/inbox/a.md"})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestClassifyWrapsTransportFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	completer := &fakeCompleter{err: errors.New("upstream down")}

	stage := stages.NewClassify(cfg, completer)
	err := stage.Execute(context.Background(), &records.FileRecord{CurrentPath: "/inbox/a.md"})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}
