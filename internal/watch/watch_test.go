package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markis/gh-coach/internal/image"
)

var png = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type limiter struct {
	mu   sync.Mutex
	busy bool
}

func (l *limiter) TryAcquire() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.busy {
		return nil, false
	}
	l.busy = true
	return func() {
		l.mu.Lock()
		l.busy = false
		l.mu.Unlock()
	}, true
}

func startWatcher(t *testing.T, dir string, handler Handler, lim Limiter) *Watcher {
	t.Helper()
	w := New(dir, handler, lim, WithSettle(20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})

	// Give fsnotify a moment to register the directory.
	time.Sleep(50 * time.Millisecond)
	return w
}

func TestWatcher_HandlesNewScreenshot(t *testing.T) {
	dir := t.TempDir()
	got := make(chan image.Image, 4)

	startWatcher(t, dir, func(_ context.Context, img image.Image) error {
		got <- img
		return nil
	}, &limiter{})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o600))
	path := filepath.Join(dir, "shot.png")
	require.NoError(t, os.WriteFile(path, png, 0o600))

	select {
	case img := <-got:
		assert.Equal(t, path, img.Path)
		assert.Equal(t, "image/png", img.MimeType)
	case <-time.After(5 * time.Second):
		t.Fatal("handler not called")
	}

	select {
	case img := <-got:
		t.Fatalf("unexpected second call for %s", img.Path)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_SkipsWhileBusy(t *testing.T) {
	dir := t.TempDir()
	lim := &limiter{busy: true}
	called := make(chan struct{}, 1)

	w := startWatcher(t, dir, func(context.Context, image.Image) error {
		called <- struct{}{}
		return nil
	}, lim)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "shot.png"), png, 0o600))

	assert.Eventually(t, func() bool { return w.Skipped() == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Empty(t, called)
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "nope"), nil, &limiter{})

	err := w.Run(context.Background())

	assert.Error(t, err)
}
