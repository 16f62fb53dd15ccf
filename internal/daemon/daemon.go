package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"shelver/internal/analytics"
	"shelver/internal/api"
	"shelver/internal/config"
	"shelver/internal/logging"
	"shelver/internal/pipeline"
	"shelver/internal/records"
	"shelver/internal/vault"
)

// Daemon owns the runtime components of the shelver process.
type Daemon struct {
	cfg       *config.Config
	store     *records.Store
	scheduler *pipeline.Scheduler
	watcher   *vault.Watcher
	aggreg    *analytics.Aggregator
	recordSvc *api.RecordService
	logger    *slog.Logger

	lock     *flock.Flock
	lockPath string
	api      *apiServer

	mu      sync.Mutex
	started bool
}

// New wires a daemon from its components. Call Start to bring it up.
func New(cfg *config.Config, store *records.Store, scheduler *pipeline.Scheduler, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || scheduler == nil {
		return nil, errors.New("daemon requires config, store, and scheduler")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	d := &Daemon{
		cfg:       cfg,
		store:     store,
		scheduler: scheduler,
		aggreg:    analytics.New(store),
		recordSvc: api.NewRecordService(store),
		logger:    logger.With(logging.String(logging.FieldComponent, "daemon")),
		lockPath:  filepath.Join(cfg.Paths.LogDir, "shelverd.lock"),
	}
	d.watcher = vault.NewWatcher(cfg.Paths.InboxDir, d.enqueueFromWatcher, logger)

	server, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = server
	return d, nil
}

// Start acquires the single-instance lock and brings up the scheduler,
// watcher, and API server.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return errors.New("daemon already started")
	}

	if err := d.cfg.EnsureDirectories(); err != nil {
		return err
	}
	d.lock = flock.New(d.lockPath)
	locked, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", d.lockPath, err)
	}
	if !locked {
		return fmt.Errorf("another shelverd instance holds %s", d.lockPath)
	}

	if err := d.scheduler.Start(ctx); err != nil {
		d.releaseLock()
		return err
	}
	if err := d.watcher.Start(ctx); err != nil {
		d.scheduler.Stop()
		d.releaseLock()
		return err
	}
	if err := d.watcher.ScanExisting(ctx); err != nil {
		d.logger.Warn("initial inbox scan failed", logging.Error(err))
	}
	if d.api != nil {
		if err := d.api.start(ctx); err != nil {
			d.watcher.Stop()
			d.scheduler.Stop()
			d.releaseLock()
			return err
		}
	}

	d.started = true
	d.logger.Info("daemon started",
		logging.String("inbox", d.cfg.Paths.InboxDir),
		logging.Int("pid", os.Getpid()),
	)
	return nil
}

// Stop shuts everything down in reverse order and releases the lock.
func (d *Daemon) Stop() {
	d.mu.Lock()
	if !d.started {
		d.mu.Unlock()
		return
	}
	d.started = false
	d.mu.Unlock()

	if d.api != nil {
		d.api.stop()
	}
	d.watcher.Stop()
	d.scheduler.Stop()
	d.releaseLock()
	d.logger.Info("daemon stopped")
}

// Enqueue submits paths for processing.
func (d *Daemon) Enqueue(ctx context.Context, paths []string) ([]string, error) {
	return d.scheduler.Enqueue(ctx, paths)
}

// Records returns the record read service.
func (d *Daemon) Records() *api.RecordService {
	return d.recordSvc
}

// Analytics returns the current aggregate snapshot.
func (d *Daemon) Analytics(ctx context.Context) (api.AnalyticsView, error) {
	snapshot, err := d.aggreg.Snapshot(ctx)
	if err != nil {
		return api.AnalyticsView{}, err
	}
	return api.FromSnapshot(snapshot), nil
}

// Status reports the combined daemon snapshot.
func (d *Daemon) Status(ctx context.Context) api.DaemonStatus {
	d.mu.Lock()
	running := d.started
	d.mu.Unlock()

	status := api.DaemonStatus{
		Running:      running,
		PID:          os.Getpid(),
		LockFilePath: d.lockPath,
		InboxDir:     d.cfg.Paths.InboxDir,
		Workers:      d.cfg.Workflow.Workers,
		StageHealth:  api.FromStageHealth(d.scheduler.Health(ctx)),
	}
	if view, err := d.Analytics(ctx); err == nil {
		status.Analytics = view
	}
	return status
}

func (d *Daemon) enqueueFromWatcher(ctx context.Context, path string) {
	if _, err := d.scheduler.Enqueue(ctx, []string{path}); err != nil {
		d.logger.Error("failed to enqueue watched file",
			logging.Error(err),
			logging.String("path", path),
			logging.String(logging.FieldErrorHint, "check record store access"),
		)
	}
}

func (d *Daemon) releaseLock() {
	if d.lock == nil {
		return
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release lock", logging.Error(err))
	}
	_ = os.Remove(d.lockPath)
	d.lock = nil
}
