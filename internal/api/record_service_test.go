package api_test

import (
	"context"
	"testing"
	"time"

	"shelver/internal/api"
	"shelver/internal/records"
	"shelver/internal/testsupport"
)

func TestDescribeResolvesUniquePrefix(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	record := testsupport.NewRecord(t, store, "/inbox/a.md")

	svc := api.NewRecordService(store)
	view, err := svc.Describe(context.Background(), record.ID[:8])
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if view == nil || view.ID != record.ID {
		t.Fatalf("view = %+v, want record %s", view, record.ID)
	}
}

func TestDescribeUnknownIDReturnsNil(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	testsupport.NewRecord(t, store, "/inbox/a.md")

	svc := api.NewRecordService(store)
	view, err := svc.Describe(context.Background(), "zzzzzzzz")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if view != nil {
		t.Fatalf("expected nil view, got %+v", view)
	}
}

func TestClearScopes(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	ctx := context.Background()
	testsupport.NewRecord(t, store, "/inbox/queued.md")
	done := testsupport.NewRecord(t, store, "/inbox/done.md")
	if _, err := store.Update(ctx, done.ID, func(r *records.FileRecord) error {
		r.AppendLog(records.ActionCompleted, records.LogEntry{Timestamp: time.Now().UTC(), Completed: true})
		return nil
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	svc := api.NewRecordService(store)
	removed, err := svc.Clear(ctx, api.ClearScopeCompleted)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, err := svc.Clear(ctx, api.ClearScope("bogus")); err == nil {
		t.Fatal("unknown scope must fail")
	}
}

func TestFromRecordCarriesOrderedLogsAndLabels(t *testing.T) {
	record := &records.FileRecord{
		ID:          "abc",
		CurrentPath: "/inbox/a.md",
		Status:      records.StatusError,
	}
	record.AppendLog(records.ActionExtract, records.LogEntry{Completed: true})
	record.AppendLog(records.ActionClassify, records.LogEntry{Completed: false, Error: "boom"})
	record.AppendLog(records.ActionCleanup, records.LogEntry{Completed: true})

	view := api.FromRecord(record)
	if len(view.Logs) != 3 {
		t.Fatalf("logs = %+v", view.Logs)
	}
	if view.Logs[0].Action != "cleanup" || view.Logs[1].Action != "extract" || view.Logs[2].Action != "classify" {
		t.Fatalf("logs out of execution order: %+v", view.Logs)
	}
	if view.Logs[1].Label != "text extracted" {
		t.Fatalf("label = %q", view.Logs[1].Label)
	}
	if view.ErrorMessage != "boom" {
		t.Fatalf("error message = %q", view.ErrorMessage)
	}
}
