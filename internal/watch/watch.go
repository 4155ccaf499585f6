// Package watch hands screenshots dropped into a directory to a handler.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/markis/gh-coach/internal/image"
)

// DefaultSettle is how long a file must stay unchanged before it is read.
const DefaultSettle = 250 * time.Millisecond

// Handler processes one screenshot.
type Handler func(ctx context.Context, img image.Image) error

// Limiter admits one request at a time.
type Limiter interface {
	TryAcquire() (release func(), ok bool)
}

// Watcher watches a directory for new screenshots.
type Watcher struct {
	dir     string
	handler Handler
	limiter Limiter
	settle  time.Duration
	logger  *slog.Logger

	skipped atomic.Int64
	wg      sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithSettle overrides DefaultSettle.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		w.settle = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

// New creates a Watcher. Screenshots arriving while limiter is held are skipped.
func New(dir string, handler Handler, limiter Limiter, opts ...Option) *Watcher {
	w := &Watcher{
		dir:     dir,
		handler: handler,
		limiter: limiter,
		settle:  DefaultSettle,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Skipped returns how many screenshots were dropped because a request was in flight.
func (w *Watcher) Skipped() int64 {
	return w.skipped.Load()
}

// Run watches until ctx is done, then waits for running handlers.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching for screenshots", "dir", w.dir)

	ready := make(chan string)
	pending := map[string]*time.Timer{}
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
		w.wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !image.HasImageExtension(ev.Name) {
				continue
			}
			path := ev.Name
			if t, ok := pending[path]; ok {
				t.Reset(w.settle)
				continue
			}
			pending[path] = time.AfterFunc(w.settle, func() {
				select {
				case ready <- path:
				case <-ctx.Done():
				}
			})

		case path := <-ready:
			delete(pending, path)
			w.dispatch(ctx, path)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) dispatch(ctx context.Context, path string) {
	release, ok := w.limiter.TryAcquire()
	if !ok {
		w.skipped.Add(1)
		w.logger.Info("request in flight, skipping screenshot", "path", path)
		return
	}

	img, err := image.Load(path)
	if err != nil {
		release()
		w.logger.Warn("failed to load screenshot", "path", path, "error", err)
		return
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer release()
		if err := w.handler(ctx, img); err != nil {
			w.logger.Error("failed to handle screenshot", "path", path, "error", err)
		}
	}()
}
