package services

import (
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	err := Wrap(ErrValidation, "classify", "llm request", "bad payload", errors.New("underlying"))
	if !errors.Is(err, ErrValidation) {
		t.Fatal("expected validation marker")
	}
	if errors.Is(err, ErrTransient) {
		t.Fatal("unexpected transient marker")
	}
}

func TestWrapNilMarkerDefaultsTransient(t *testing.T) {
	err := Wrap(nil, "moving", "", "failed", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatal("expected transient fallback marker")
	}
}

func TestBypassSignal(t *testing.T) {
	err := Bypass("extract", "unsupported format (.pdf)")
	if !IsBypass(err) {
		t.Fatal("expected bypass signal")
	}
	if IsBypass(Wrap(ErrValidation, "extract", "", "bad", nil)) {
		t.Fatal("validation error must not read as bypass")
	}
	if got := Message(err); got != "extract: unsupported format (.pdf)" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestMessageStripsMarkerPrefix(t *testing.T) {
	err := Wrap(ErrExternalTool, "tagging", "llm request", "request failed", nil)
	if got := Message(err); got != "tagging: llm request: request failed" {
		t.Fatalf("unexpected message %q", got)
	}
	if Message(nil) != "" {
		t.Fatal("nil error must map to empty message")
	}
}
