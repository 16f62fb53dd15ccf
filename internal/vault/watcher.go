package vault

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"shelver/internal/logging"
)

const defaultSettleDelay = 500 * time.Millisecond

// EnqueueFunc receives paths of files that appeared in the watched directory.
type EnqueueFunc func(ctx context.Context, path string)

// Watcher observes the inbox directory and reports files created or renamed
// into it. Events are debounced briefly so partially written files settle
// before the pipeline picks them up.
type Watcher struct {
	dir         string
	enqueue     EnqueueFunc
	logger      *slog.Logger
	settleDelay time.Duration

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// NewWatcher constructs a watcher for dir that forwards new files to enqueue.
func NewWatcher(dir string, enqueue EnqueueFunc, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{
		dir:         dir,
		enqueue:     enqueue,
		logger:      logger.With(logging.String(logging.FieldComponent, "watcher")),
		settleDelay: defaultSettleDelay,
	}
}

// Start begins watching. It scans the directory once for files already
// present, then reacts to filesystem events until ctx is cancelled or Stop
// is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return fmt.Errorf("watcher already started")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	runCtx, cancel := context.WithCancel(ctx)
	w.fsw = fsw
	w.cancel = cancel
	w.done = make(chan struct{})
	w.started = true

	go w.run(runCtx)
	w.logger.Info("watching inbox", logging.String("dir", w.dir))
	return nil
}

// Stop halts the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	cancel := w.cancel
	done := w.done
	fsw := w.fsw
	w.started = false
	w.mu.Unlock()

	cancel()
	_ = fsw.Close()
	<-done
}

// ScanExisting enqueues regular files already sitting in the inbox. Called
// once at daemon startup so files dropped while the daemon was down are not
// missed.
func (w *Watcher) ScanExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("scan %s: %w", w.dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || hidden(entry.Name()) {
			continue
		}
		w.enqueue(ctx, filepath.Join(w.dir, entry.Name()))
	}
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			w.handlePath(ctx, event.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", logging.Error(err))
		}
	}
}

func (w *Watcher) handlePath(ctx context.Context, path string) {
	if hidden(filepath.Base(path)) {
		return
	}
	// Rename events also fire for the old name leaving the directory; only
	// paths that still exist as regular files are inbox arrivals.
	timer := time.NewTimer(w.settleDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	w.logger.Info("inbox file detected", logging.String("path", path))
	w.enqueue(ctx, path)
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
