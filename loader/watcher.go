package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a reload fires.
const DefaultDebounce = 100 * time.Millisecond

// Watcher watches one rule file and triggers reloads, debounced so an
// editor's write-rename-chmod burst produces a single reload.
//
// The parent directory is watched rather than the file, so replacing the
// file by rename is seen too.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce *Debouncer

	closeOnce sync.Once
	closeErr  error
}

// NewWatcher creates a watcher for path. interval <= 0 uses DefaultDebounce.
func NewWatcher(path string, interval time.Duration) (*Watcher, error) {
	if interval <= 0 {
		interval = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		path:     abs,
		watcher:  fw,
		debounce: NewDebouncer(interval),
	}, nil
}

// Watch blocks until ctx is cancelled, calling onReload after each burst of
// changes to the file. Reload errors are logged and watching continues.
// The watcher is closed when Watch returns.
func (w *Watcher) Watch(ctx context.Context, onReload func() error) error {
	defer w.Close()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}
	slog.Info("rule file watcher started", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			slog.Info("rule file watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			slog.Debug("rule file event", "path", event.Name, "op", event.Op.String())

			w.debounce.Trigger(func() {
				slog.Info("reloading rule file", "path", w.path)
				if err := onReload(); err != nil {
					slog.Error("rule file reload failed", "path", w.path, "error", err)
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			slog.Error("rule file watcher error", "error", err)
		}
	}
}

// Close releases the watcher and cancels a pending reload. It is safe to
// call more than once.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		w.debounce.Stop()
		w.closeErr = w.watcher.Close()
	})
	return w.closeErr
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	return filepath.Clean(event.Name) == w.path
}

// Debouncer collects rapid events and runs the latest callback only after a
// quiet period.
type Debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
	stopped  bool
}

func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Trigger (re)starts the quiet period with callback as the pending action.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.callback = callback
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		cb := d.callback
		d.callback = nil
		stopped := d.stopped
		d.mu.Unlock()

		if cb != nil && !stopped {
			cb()
		}
	})
}

// Stop cancels any pending callback; later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
