package ipc_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"shelver/internal/daemon"
	"shelver/internal/ipc"
	"shelver/internal/pipeline"
	"shelver/internal/records"
	"shelver/internal/stage"
	"shelver/internal/testsupport"
)

type stubStage struct{ name string }

func (s stubStage) Execute(context.Context, *records.FileRecord) error { return nil }

func (s stubStage) HealthCheck(context.Context) stage.Health { return stage.Healthy(s.name) }

func newTestClient(t *testing.T) *ipc.Client {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t)
	handlers := make(map[records.Action]stage.Handler)
	for _, action := range records.ExecutableActions() {
		handlers[action] = stubStage{name: string(action)}
	}
	sched := pipeline.New(cfg, store, handlers, nil)
	d, err := daemon.New(cfg, store, sched, nil)
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}

	socket := filepath.Join(cfg.Paths.LogDir, "test.sock")
	server, err := ipc.NewServer(context.Background(), socket, d, nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	server.Serve()
	t.Cleanup(server.Close)

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestIPCRoundTrip(t *testing.T) {
	client := newTestClient(t)

	status, err := client.Status()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Running {
		t.Fatal("daemon not started; running must be false")
	}

	enqueued, err := client.Enqueue([]string{"/inbox/a.md"})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if len(enqueued.IDs) != 1 {
		t.Fatalf("ids = %v", enqueued.IDs)
	}

	list, err := client.RecordList(nil)
	if err != nil {
		t.Fatalf("record list: %v", err)
	}
	if len(list.Records) != 1 || list.Records[0].ID != enqueued.IDs[0] {
		t.Fatalf("records = %+v", list.Records)
	}

	described, err := client.RecordDescribe(enqueued.IDs[0])
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if described.Record.CurrentPath != "/inbox/a.md" {
		t.Fatalf("record path = %q", described.Record.CurrentPath)
	}

	analytics, err := client.Analytics()
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if analytics.Total != 1 {
		t.Fatalf("total = %d", analytics.Total)
	}

	cleared, err := client.Clear("all")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if cleared.Removed != 1 {
		t.Fatalf("removed = %d", cleared.Removed)
	}
}

func TestIPCErrorsSurfaceToCaller(t *testing.T) {
	client := newTestClient(t)

	if _, err := client.Enqueue(nil); err == nil {
		t.Fatal("enqueue without paths must fail")
	}
	if _, err := client.RecordDescribe("missing"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
	if _, err := client.RecordList([]string{"bogus"}); err == nil {
		t.Fatal("unknown status filter must fail")
	}
}
