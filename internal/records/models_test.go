package records

import (
	"testing"
	"time"
)

func TestDeriveStatusQueuedByDefault(t *testing.T) {
	record := &FileRecord{}
	if got := DeriveStatus(record); got != StatusQueued {
		t.Fatalf("expected queued, got %s", got)
	}
}

func TestDeriveStatusProcessingWhenDispatched(t *testing.T) {
	record := &FileRecord{Dispatched: true}
	if got := DeriveStatus(record); got != StatusProcessing {
		t.Fatalf("expected processing, got %s", got)
	}
}

func TestDeriveStatusErrorOnFailedEntry(t *testing.T) {
	record := &FileRecord{Dispatched: true}
	record.AppendLog(ActionCleanup, LogEntry{Timestamp: time.Now(), Completed: true})
	record.AppendLog(ActionExtract, LogEntry{Timestamp: time.Now(), Completed: false, Error: "boom"})
	if got := DeriveStatus(record); got != StatusError {
		t.Fatalf("expected error, got %s", got)
	}
	action, failed := record.FailedAction()
	if !failed || action != ActionExtract {
		t.Fatalf("expected failed extract, got %s failed=%v", action, failed)
	}
	if record.ErrorMessage() != "boom" {
		t.Fatalf("unexpected error message %q", record.ErrorMessage())
	}
}

func TestDeriveStatusCompletedAfterMarker(t *testing.T) {
	record := &FileRecord{Dispatched: true}
	for _, action := range ExecutableActions() {
		record.AppendLog(action, LogEntry{Timestamp: time.Now(), Completed: true})
	}
	if got := DeriveStatus(record); got != StatusProcessing {
		t.Fatalf("expected processing before marker, got %s", got)
	}
	record.AppendLog(ActionCompleted, LogEntry{Timestamp: time.Now(), Completed: true})
	if got := DeriveStatus(record); got != StatusCompleted {
		t.Fatalf("expected completed, got %s", got)
	}
}

func TestDeriveStatusBypassWinsOverLogs(t *testing.T) {
	record := &FileRecord{Dispatched: true, Bypassed: true, BypassReason: "unsupported format"}
	record.AppendLog(ActionCleanup, LogEntry{Timestamp: time.Now(), Completed: true})
	if got := DeriveStatus(record); got != StatusBypassed {
		t.Fatalf("expected bypassed, got %s", got)
	}
}

func TestOrderedLogsFollowExecutionOrder(t *testing.T) {
	record := &FileRecord{}
	// Insert out of order on purpose.
	record.AppendLog(ActionClassify, LogEntry{Completed: true})
	record.AppendLog(ActionCleanup, LogEntry{Completed: true})
	record.AppendLog(ActionExtract, LogEntry{Completed: true})

	ordered := record.OrderedLogs()
	want := []Action{ActionCleanup, ActionExtract, ActionClassify}
	if len(ordered) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(ordered))
	}
	for i, attempt := range ordered {
		if attempt.Action != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], attempt.Action)
		}
	}
}

func TestExecutableActionsExcludeCompletedMarker(t *testing.T) {
	actions := ExecutableActions()
	if len(actions) != len(AllActions())-1 {
		t.Fatalf("expected %d executable actions, got %d", len(AllActions())-1, len(actions))
	}
	for _, action := range actions {
		if action == ActionCompleted {
			t.Fatal("completed marker must not be executable")
		}
	}
	if actions[0] != ActionCleanup || actions[len(actions)-1] != ActionMoving {
		t.Fatalf("unexpected ordering: first=%s last=%s", actions[0], actions[len(actions)-1])
	}
}

func TestParseActionAndLabel(t *testing.T) {
	action, ok := ParseAction(" Extract ")
	if !ok || action != ActionExtract {
		t.Fatalf("parse failed: %s ok=%v", action, ok)
	}
	if action.Label() != "text extracted" {
		t.Fatalf("unexpected label %q", action.Label())
	}
	if _, ok := ParseAction("nonsense"); ok {
		t.Fatal("expected unknown action to fail parsing")
	}
}

func TestParseStatus(t *testing.T) {
	status, ok := ParseStatus("Processing")
	if !ok || status != StatusProcessing {
		t.Fatalf("parse failed: %s ok=%v", status, ok)
	}
	if !StatusError.IsTerminal() || StatusQueued.IsTerminal() {
		t.Fatal("terminal classification wrong")
	}
}
