// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch turns an inbox directory into a drop zone: media files
// written there are validated once they settle and handed to a Handler.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pdiddy/equalearn/internal/logger"
	"github.com/pdiddy/equalearn/internal/media"
	"github.com/pdiddy/equalearn/pkg/types"
)

// DefaultDebounce is how long a file must go without events before it is
// processed.
const DefaultDebounce = 500 * time.Millisecond

// Handler receives validated media files.
type Handler interface {
	HandleFile(ctx context.Context, f media.File) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, f media.File) error

func (fn HandlerFunc) HandleFile(ctx context.Context, f media.File) error { return fn(ctx, f) }

// RejectFunc is told about files that failed validation.
type RejectFunc func(path string, err error)

// Stats tracks watcher activity.
type Stats struct {
	Events    int
	Processed int
	Rejected  int
	Failed    int
	Errors    int
	LastPath  string
	LastEvent time.Time
}

// Watcher watches one inbox directory.
type Watcher struct {
	mu        sync.Mutex
	fsw       *fsnotify.Watcher
	dir       string
	handler   Handler
	onReject  RejectFunc
	maxSize   int64
	debounce  time.Duration
	tick      time.Duration
	pending   map[string]time.Time
	stopCh    chan struct{}
	doneCh    chan struct{}
	running   bool
	closeOnce sync.Once
	stats     Stats
	log       *logger.Logger
}

// Option customizes a Watcher.
type Option func(*Watcher)

// WithLogger attaches a logger.
func WithLogger(l *logger.Logger) Option { return func(w *Watcher) { w.log = l } }

// WithRejectFunc sets a callback for files that are not accepted media.
func WithRejectFunc(fn RejectFunc) Option { return func(w *Watcher) { w.onReject = fn } }

// WithMaxFileSize sets the upload limit applied during validation.
func WithMaxFileSize(n int64) Option { return func(w *Watcher) { w.maxSize = n } }

// New creates a Watcher for cfg.Dir. Call Start to begin watching.
func New(cfg types.WatchConfig, h Handler, opts ...Option) (*Watcher, error) {
	if cfg.Dir == "" {
		return nil, errors.New("watch directory not configured")
	}
	if h == nil {
		return nil, errors.New("watch handler is nil")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	tick := 100 * time.Millisecond
	if debounce/2 < tick {
		tick = debounce / 2
	}

	w := &Watcher{
		fsw:      fsw,
		dir:      cfg.Dir,
		handler:  h,
		debounce: debounce,
		tick:     tick,
		pending:  make(map[string]time.Time),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, o := range opts {
		o(w)
	}
	return w, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string { return w.dir }

// Start creates the inbox if needed and begins watching. It returns
// immediately; events are processed on a background goroutine until ctx
// is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("creating inbox %s: %w", w.dir, err)
	}
	if err := w.fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	w.running = true
	go w.run(ctx)
	w.log.Info("watching inbox", "dir", w.dir, "debounce", w.debounce)
	return nil
}

// Stop ends watching and waits for the event loop to exit. It is safe to
// call more than once, and without Start.
func (w *Watcher) Stop() {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		w.closeOnce.Do(func() { close(w.stopCh) })
		<-w.doneCh
	}
	if err := w.fsw.Close(); err != nil {
		w.log.Warn("closing file watcher", "error", err)
	}
}

// Stats returns a snapshot of the counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Error("watch error", "error", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.processSettled(ctx)
		}
	}
}

// handleEvent records create and write events for debouncing. Removals
// drop any pending entry.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if ignored(event.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		w.pending[event.Name] = time.Now()
		w.stats.Events++
		w.stats.LastPath = event.Name
		w.stats.LastEvent = time.Now()
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		delete(w.pending, event.Name)
	}
}

// ignored skips hidden, temporary and editor backup files.
func ignored(path string) bool {
	name := filepath.Base(path)
	return strings.HasPrefix(name, ".") ||
		strings.HasSuffix(name, ".tmp") ||
		strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".part") ||
		strings.HasSuffix(name, ".crdownload")
}

func (w *Watcher) processSettled(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		w.process(ctx, path)
	}
}

func (w *Watcher) process(ctx context.Context, path string) {
	f, err := media.Inspect(path, w.maxSize)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return
		}
		w.log.Warn("rejected inbox file", "path", path, "error", err)
		w.mu.Lock()
		w.stats.Rejected++
		w.mu.Unlock()
		if w.onReject != nil {
			w.onReject(path, err)
		}
		return
	}

	w.log.Info("processing inbox file", "path", path, "mime", f.MIME, "size", media.FormatSize(f.Size))
	if err := w.handler.HandleFile(ctx, f); err != nil {
		w.log.Error("handling inbox file", "path", path, "error", err)
		w.mu.Lock()
		w.stats.Failed++
		w.mu.Unlock()
		return
	}

	w.mu.Lock()
	w.stats.Processed++
	w.mu.Unlock()
}
