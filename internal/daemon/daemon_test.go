package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"shelver/internal/pipeline"
	"shelver/internal/records"
	"shelver/internal/testsupport"
)

func TestDaemonLifecycle(t *testing.T) {
	d, _ := newTestDaemon(t)
	ctx := context.Background()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer d.Stop()

	status := d.Status(ctx)
	if !status.Running {
		t.Fatal("status should report running")
	}
	if _, err := os.Stat(d.lockPath); err != nil {
		t.Fatalf("lock file missing: %v", err)
	}
	if err := d.Start(ctx); err == nil {
		t.Fatal("second start of the same daemon must fail")
	}

	d.Stop()
	if d.Status(ctx).Running {
		t.Fatal("status should report stopped")
	}
	if _, err := os.Stat(d.lockPath); !os.IsNotExist(err) {
		t.Fatal("lock file should be removed on stop")
	}
}

func TestDaemonLockIsExclusive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t)
	ctx := context.Background()

	first, err := New(cfg, store, pipeline.New(cfg, store, stubHandlers(), nil), nil)
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	if err := first.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer first.Stop()

	second, err := New(cfg, store, pipeline.New(cfg, store, stubHandlers(), nil), nil)
	if err != nil {
		t.Fatalf("new second daemon: %v", err)
	}
	if err := second.Start(ctx); err == nil {
		second.Stop()
		t.Fatal("second instance must fail to acquire the lock")
	}
}

func TestDaemonPicksUpDroppedFiles(t *testing.T) {
	d, store := newTestDaemon(t)
	ctx := context.Background()

	// A file already in the inbox before startup is caught by the scan.
	preexisting := filepath.Join(d.cfg.Paths.InboxDir, "early.md")
	testsupport.WriteFile(t, preexisting, "content")

	if err := d.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer d.Stop()

	waitForRecord(t, store, preexisting)

	dropped := filepath.Join(d.cfg.Paths.InboxDir, "late.md")
	testsupport.WriteFile(t, dropped, "content")
	waitForRecord(t, store, dropped)
}

func waitForRecord(t *testing.T, store *records.Store, path string) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		all, err := store.List(context.Background())
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		for _, record := range all {
			if record.SourcePath == path {
				return
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("no record ever appeared for %s", path)
}
