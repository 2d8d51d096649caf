package fs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/agentchanti/kbregistry/pkg/core"
)

// Watch observes content files matching pattern and emits change
// events until ctx is cancelled. Events are debounced per path.
func (r *Registry) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "**/*"
	}
	events := make(chan core.Event, 64)
	w := newWatchWorker(r, pattern, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

type watchWorker struct {
	*worker.BaseWorker
	reg       *Registry
	pattern   string
	events    chan core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
}

func newWatchWorker(reg *Registry, pattern string, events chan core.Event) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("corpus-watcher"),
		reg:        reg,
		pattern:    pattern,
		events:     events,
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := w.reg.recursiveAdd(watcher); err != nil {
		_ = watcher.Close()
		return err
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(50 * time.Millisecond)
	w.reg.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

// run is the main event loop for the watcher worker.
func (w *watchWorker) run(ctx context.Context) (err error) {
	logger := w.reg.config.Logger
	defer func() {
		if recovered := recover(); recovered != nil {
			panicErr := fmt.Errorf("watcher panic: %v", recovered)

			var stack string
			if logger.Enabled(ctx, slog.LevelDebug) {
				stack = string(debug.Stack())
			}
			if stack != "" {
				logger.Error("watcher panic", "error", panicErr, "stack", stack)
			} else {
				logger.Error("watcher panic", "error", panicErr)
			}
			err = panicErr
		}
	}()
	defer w.reg.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.mainEventLoop(ctx)

	// Stop accepting new events and wait for in-flight timers before
	// closing the channel downstream consumers range over.
	w.debouncer.stopAndWait(5 * time.Second)
	close(w.events)

	return err
}

func (w *watchWorker) mainEventLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.processFilesystemEvent(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.handleWatcherError(wErr)
		}
	}
}

// processFilesystemEvent filters, maps, and debounces one fsnotify
// event. Returns true if the event was forwarded.
func (w *watchWorker) processFilesystemEvent(ctx context.Context, event fsnotify.Event) (processed bool) {
	logger := w.reg.config.Logger
	logger.Debug("event received", "name", event.Name)

	// New directories must be watched as they appear.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.watcher.Add(event.Name)
			return false
		}
	}

	rel := w.reg.relPath(event.Name)
	if w.reg.shouldIgnore(rel, w.pattern) {
		return false
	}

	eType := mapEventType(event)
	if eType == "" {
		return false
	}

	w.sendEvent(ctx, core.Event{
		Type:      eType,
		Path:      rel,
		Timestamp: time.Now().Unix(),
	})
	return true
}

// sendEvent enqueues an event via the debouncer, protecting against
// channel closure during shutdown.
func (w *watchWorker) sendEvent(ctx context.Context, event core.Event) {
	w.debouncer.add(event, func(e core.Event) {
		defer func() {
			// Recover if the channel was closed while stopping.
			_ = recover()
		}()
		select {
		case w.events <- e:
		case <-ctx.Done():
		}
	})
}

func (w *watchWorker) handleWatcherError(err error) {
	w.reg.config.Logger.Error("fsnotify error", "error", err)
	if w.reg.config.ErrorHandler != nil {
		w.reg.config.ErrorHandler(err)
	}
}

// recursiveAdd registers the corpus root and every content directory
// below it with the fsnotify watcher.
func (r *Registry) recursiveAdd(watcher *fsnotify.Watcher) error {
	if err := watcher.Add(r.Path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", r.Path, err)
	}

	dirs := make([]string, 0, len(r.config.MarkdownDirs)+1)
	for dir := range r.config.MarkdownDirs {
		dirs = append(dirs, dir)
	}
	dirs = append(dirs, r.config.ErrorsDir)

	for _, dir := range dirs {
		root := filepath.Join(r.Path, dir)
		if _, err := os.Stat(root); os.IsNotExist(err) {
			continue
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", root, err)
		}
	}
	return nil
}

// shouldIgnore filters out non-content paths: temp files from atomic
// writes, hidden files, and anything not matching the watch pattern.
func (r *Registry) shouldIgnore(rel, pattern string) bool {
	base := filepath.Base(rel)
	if strings.HasPrefix(base, TempFilePrefix) || strings.HasPrefix(base, ".") {
		return true
	}

	switch filepath.Ext(base) {
	case ".md", ".yml", ".yaml", ".json":
	default:
		return true
	}

	ok, err := doublestar.Match(pattern, rel)
	if err != nil || !ok {
		return true
	}
	return false
}

func mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	default:
		return ""
	}
}

var _ core.Watchable = (*Registry)(nil)
