package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"shelver/internal/config"
	"shelver/internal/logging"
	"shelver/internal/records"
	"shelver/internal/stage"
)

// Scheduler owns the worker pool that drives records through the stages.
// Construct once in main and pass by handle.
type Scheduler struct {
	cfg      *config.Config
	store    *records.Store
	handlers map[records.Action]stage.Handler
	logger   *slog.Logger

	workers       int
	pollInterval  time.Duration
	retryInterval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	group   *errgroup.Group
}

// New constructs a scheduler over the given store and stage handlers.
func New(cfg *config.Config, store *records.Store, handlers map[records.Action]stage.Handler, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = logging.NewNop()
	}
	workers := cfg.Workflow.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Scheduler{
		cfg:           cfg,
		store:         store,
		handlers:      handlers,
		logger:        logger.With(logging.String(logging.FieldComponent, "pipeline")),
		workers:       workers,
		pollInterval:  time.Duration(cfg.Workflow.QueuePollInterval) * time.Second,
		retryInterval: time.Duration(cfg.Workflow.ErrorRetryInterval) * time.Second,
	}
}

// Start launches the worker pool. Workers run until ctx is cancelled or Stop
// is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return errors.New("scheduler already running")
	}
	if len(s.handlers) == 0 {
		return errors.New("no stage handlers configured")
	}
	for _, action := range records.ExecutableActions() {
		if s.handlers[action] == nil {
			return fmt.Errorf("missing handler for stage %s", action)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	group, groupCtx := errgroup.WithContext(runCtx)
	for i := 0; i < s.workers; i++ {
		worker := i
		group.Go(func() error {
			s.runWorker(groupCtx, worker)
			return nil
		})
	}
	s.cancel = cancel
	s.group = group
	s.running = true
	s.logger.Info("scheduler started", logging.Int("workers", s.workers))
	return nil
}

// Stop terminates the worker pool and waits for in-flight stages to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	group := s.group
	s.running = false
	s.cancel = nil
	s.group = nil
	s.mu.Unlock()

	cancel()
	_ = group.Wait()
	s.logger.Info("scheduler stopped")
}

// Enqueue creates queued records for the given paths and returns their IDs.
// Paths already referenced by an in-flight record are deduplicated to the
// existing record. Workers pick the records up asynchronously.
func (s *Scheduler) Enqueue(ctx context.Context, paths []string) ([]string, error) {
	ids := make([]string, 0, len(paths))
	for _, path := range paths {
		record, created, err := s.store.CreateUnlessActive(ctx, path)
		if err != nil {
			return ids, fmt.Errorf("enqueue %s: %w", path, err)
		}
		if created {
			s.logger.Info("file enqueued",
				logging.String(logging.FieldRecordID, record.ID),
				logging.String("path", path),
			)
		} else {
			s.logger.Debug("enqueue deduplicated to in-flight record",
				logging.String(logging.FieldRecordID, record.ID),
				logging.String("path", path),
			)
		}
		ids = append(ids, record.ID)
	}
	return ids, nil
}

// Health reports the readiness of every executable stage in order.
func (s *Scheduler) Health(ctx context.Context) []stage.Health {
	out := make([]stage.Health, 0, len(s.handlers))
	for _, action := range records.ExecutableActions() {
		handler := s.handlers[action]
		if handler == nil {
			out = append(out, stage.Unhealthy(string(action), "handler not configured"))
			continue
		}
		out = append(out, handler.HealthCheck(ctx))
	}
	return out
}

// Running reports whether the worker pool is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
