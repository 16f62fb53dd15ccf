package pipeline_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"shelver/internal/pipeline"
	"shelver/internal/records"
	"shelver/internal/services"
	"shelver/internal/stage"
	"shelver/internal/testsupport"
)

// stubHandler runs an arbitrary function as a stage.
type stubHandler struct {
	name string
	fn   func(ctx context.Context, rec *records.FileRecord) error
}

func (h stubHandler) Execute(ctx context.Context, rec *records.FileRecord) error {
	if h.fn == nil {
		return nil
	}
	return h.fn(ctx, rec)
}

func (h stubHandler) HealthCheck(context.Context) stage.Health {
	return stage.Healthy(h.name)
}

// noopHandlers builds a full handler set of no-ops with optional overrides.
func noopHandlers(overrides map[records.Action]stage.Handler) map[records.Action]stage.Handler {
	handlers := make(map[records.Action]stage.Handler, len(records.ExecutableActions()))
	for _, action := range records.ExecutableActions() {
		handlers[action] = stubHandler{name: string(action)}
	}
	for action, handler := range overrides {
		handlers[action] = handler
	}
	return handlers
}

// waitForTerminal polls until the record leaves the active statuses.
func waitForTerminal(t *testing.T, store *records.Store, id string) *records.FileRecord {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		record, err := store.Get(context.Background(), id)
		if err != nil {
			t.Fatalf("get record: %v", err)
		}
		if record.Status.IsTerminal() {
			return record
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("record %s never reached a terminal status", id)
	return nil
}

func startScheduler(t *testing.T, sched *pipeline.Scheduler) {
	t.Helper()

	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("start scheduler: %v", err)
	}
	t.Cleanup(sched.Stop)
}

func TestSchedulerRunsAllStagesInOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWorkers(1))
	store := testsupport.MustOpenStore(t)

	sched := pipeline.New(cfg, store, noopHandlers(nil), nil)
	ids, err := sched.Enqueue(context.Background(), []string{"/inbox/a.md"})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	startScheduler(t, sched)

	record := waitForTerminal(t, store, ids[0])
	if record.Status != records.StatusCompleted {
		t.Fatalf("status = %s, want completed", record.Status)
	}
	logs := record.OrderedLogs()
	want := records.AllActions()
	if len(logs) != len(want) {
		t.Fatalf("got %d log entries, want %d", len(logs), len(want))
	}
	for i, attempt := range logs {
		if attempt.Action != want[i] {
			t.Fatalf("log[%d] = %s, want %s", i, attempt.Action, want[i])
		}
		if !attempt.Entry.Completed {
			t.Fatalf("stage %s not marked completed", attempt.Action)
		}
		if attempt.Entry.Timestamp.IsZero() {
			t.Fatalf("stage %s has no timestamp", attempt.Action)
		}
		if i > 0 && attempt.Entry.Timestamp.Before(logs[i-1].Entry.Timestamp) {
			t.Fatalf("stage %s timestamped before %s", attempt.Action, logs[i-1].Action)
		}
	}
}

func TestSchedulerStopsAtFirstFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWorkers(1))
	store := testsupport.MustOpenStore(t)

	handlers := noopHandlers(map[records.Action]stage.Handler{
		records.ActionClassify: stubHandler{
			name: "classify",
			fn: func(context.Context, *records.FileRecord) error {
				return services.Wrap(services.ErrExternalTool, "classify", "llm request", "model unavailable", nil)
			},
		},
	})
	sched := pipeline.New(cfg, store, handlers, nil)
	ids, err := sched.Enqueue(context.Background(), []string{"/inbox/a.md"})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	startScheduler(t, sched)

	record := waitForTerminal(t, store, ids[0])
	if record.Status != records.StatusError {
		t.Fatalf("status = %s, want error", record.Status)
	}
	failed, ok := record.FailedAction()
	if !ok || failed != records.ActionClassify {
		t.Fatalf("failed action = %s, want classify", failed)
	}
	if record.ErrorMessage() == "" {
		t.Fatal("failure must carry a message")
	}
	// Nothing past the failed stage may have run.
	for _, attempt := range record.OrderedLogs() {
		if attempt.Action.Index() > records.ActionClassify.Index() {
			t.Fatalf("stage %s ran after the failure", attempt.Action)
		}
	}
}

func TestSchedulerBypassLeavesNoFailureEntry(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWorkers(1))
	store := testsupport.MustOpenStore(t)

	handlers := noopHandlers(map[records.Action]stage.Handler{
		records.ActionExtract: stubHandler{
			name: "extract",
			fn: func(context.Context, *records.FileRecord) error {
				return services.Bypass("extract", "unsupported format (.zip)")
			},
		},
	})
	sched := pipeline.New(cfg, store, handlers, nil)
	ids, err := sched.Enqueue(context.Background(), []string{"/inbox/archive.zip"})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	startScheduler(t, sched)

	record := waitForTerminal(t, store, ids[0])
	if record.Status != records.StatusBypassed {
		t.Fatalf("status = %s, want bypassed", record.Status)
	}
	if !record.Bypassed || record.BypassReason == "" {
		t.Fatalf("bypass flags not set: %+v", record)
	}
	if _, ok := record.Logs[records.ActionExtract]; ok {
		t.Fatal("bypassed stage must not write a log entry")
	}
	if record.ErrorMessage() != "" {
		t.Fatal("bypass is not a failure")
	}
}

func TestSchedulerPersistsStageMutations(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWorkers(1))
	store := testsupport.MustOpenStore(t)

	handlers := noopHandlers(map[records.Action]stage.Handler{
		records.ActionClassify: stubHandler{
			name: "classify",
			fn: func(_ context.Context, rec *records.FileRecord) error {
				rec.Classification = "meeting"
				return nil
			},
		},
		records.ActionTagging: stubHandler{
			name: "tagging",
			fn: func(_ context.Context, rec *records.FileRecord) error {
				rec.Tags = []string{"standup"}
				return nil
			},
		},
	})
	sched := pipeline.New(cfg, store, handlers, nil)
	ids, err := sched.Enqueue(context.Background(), []string{"/inbox/a.md"})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	startScheduler(t, sched)

	record := waitForTerminal(t, store, ids[0])
	if record.Classification != "meeting" {
		t.Fatalf("classification = %q, want meeting", record.Classification)
	}
	if len(record.Tags) != 1 || record.Tags[0] != "standup" {
		t.Fatalf("tags = %v, want [standup]", record.Tags)
	}
}

func TestSchedulerProcessesManyRecords(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWorkers(4))
	store := testsupport.MustOpenStore(t)

	sched := pipeline.New(cfg, store, noopHandlers(nil), nil)
	paths := make([]string, 8)
	for i := range paths {
		paths[i] = fmt.Sprintf("/inbox/file-%d.md", i)
	}
	ids, err := sched.Enqueue(context.Background(), paths)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	startScheduler(t, sched)

	for _, id := range ids {
		record := waitForTerminal(t, store, id)
		if record.Status != records.StatusCompleted {
			t.Fatalf("record %s status = %s, want completed", id, record.Status)
		}
	}
}

func TestEnqueueDeduplicatesActivePaths(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t)

	sched := pipeline.New(cfg, store, noopHandlers(nil), nil)
	first, err := sched.Enqueue(context.Background(), []string{"/inbox/a.md"})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	second, err := sched.Enqueue(context.Background(), []string{"/inbox/a.md"})
	if err != nil {
		t.Fatalf("enqueue again: %v", err)
	}
	if first[0] != second[0] {
		t.Fatalf("expected dedup to the same record, got %s and %s", first[0], second[0])
	}
	all, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one record, got %d", len(all))
	}
}

func TestSchedulerStartValidatesHandlers(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t)

	handlers := noopHandlers(nil)
	delete(handlers, records.ActionMoving)
	sched := pipeline.New(cfg, store, handlers, nil)
	if err := sched.Start(context.Background()); err == nil {
		sched.Stop()
		t.Fatal("expected start to fail with a missing handler")
	}
}

func TestSchedulerStartIsExclusive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t)

	sched := pipeline.New(cfg, store, noopHandlers(nil), nil)
	startScheduler(t, sched)
	if err := sched.Start(context.Background()); err == nil {
		t.Fatal("second start must fail while running")
	}
	if !sched.Running() {
		t.Fatal("scheduler should report running")
	}
}

func TestSchedulerHealthReportsEveryStage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t)

	sched := pipeline.New(cfg, store, noopHandlers(nil), nil)
	health := sched.Health(context.Background())
	if len(health) != len(records.ExecutableActions()) {
		t.Fatalf("got %d health entries, want %d", len(health), len(records.ExecutableActions()))
	}
	for _, h := range health {
		if !h.Ready {
			t.Fatalf("stage %s unexpectedly unhealthy", h.Name)
		}
	}
}
