package application_test

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allyaudit/ally/internal/application"
)

// syncBuffer makes bytes.Buffer safe for the watcher goroutines.
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func startWatch(t *testing.T, svc *application.WatchService, root string, opts application.WatchOptions) (cancel func()) {
	t.Helper()
	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx, root, opts) }()

	// Give the watcher a moment to register the directory tree.
	time.Sleep(200 * time.Millisecond)

	return func() {
		stop()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("watch session did not shut down")
		}
	}
}

func TestWatchRescansChangedFile(t *testing.T) {
	dir := t.TempDir()
	page := writeFile(t, dir, "a.html", "<html></html>")

	eng := &fakeEngine{rules: imageAltRule}
	out := &syncBuffer{}
	svc := application.NewWatchService(newTestService(eng, &fakeStore{}, &fakeHistory{}), out)

	stop := startWatch(t, svc, dir, application.WatchOptions{Debounce: 20 * time.Millisecond})
	defer stop()

	require.NoError(t, os.WriteFile(page, []byte(`<html><img src="hero.png"></html>`), 0644))

	assert.Eventually(t, func() bool {
		return svc.Stats().Scans >= 1
	}, 5*time.Second, 20*time.Millisecond, "a write should trigger a debounced scan")

	assert.Equal(t, 85, svc.Stats().LastScore)
	assert.Contains(t, out.String(), "a.html")
}

func TestWatchDebounceCoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	page := writeFile(t, dir, "a.html", "<html></html>")

	eng := &fakeEngine{}
	svc := application.NewWatchService(newTestService(eng, &fakeStore{}, &fakeHistory{}), &syncBuffer{})

	stop := startWatch(t, svc, dir, application.WatchOptions{Debounce: 150 * time.Millisecond})
	defer stop()

	// A burst of writes inside one debounce window.
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(page, []byte("<html></html>"), 0644))
		time.Sleep(10 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return svc.Stats().Scans >= 1
	}, 5*time.Second, 20*time.Millisecond)

	// Let any stray timers fire before counting.
	time.Sleep(400 * time.Millisecond)
	assert.LessOrEqual(t, svc.Stats().Scans, 2, "burst must coalesce into at most scan plus one queued follow-up")
}

func TestWatchAutoFixPatchesAndRescans(t *testing.T) {
	dir := t.TempDir()
	page := writeFile(t, dir, "a.html", "<html></html>")

	eng := &fakeEngine{rules: imageAltRule}
	out := &syncBuffer{}
	svc := application.NewWatchService(newTestService(eng, &fakeStore{}, &fakeHistory{}), out)

	stop := startWatch(t, svc, dir, application.WatchOptions{
		AutoFix:   true,
		Threshold: 0.5,
		Debounce:  20 * time.Millisecond,
	})
	defer stop()

	require.NoError(t, os.WriteFile(page, []byte(`<html><img src="hero.png"></html>`), 0644))

	assert.Eventually(t, func() bool {
		return svc.Stats().FixesApplied >= 1
	}, 5*time.Second, 20*time.Millisecond, "auto-fix should patch the broken image")

	data, err := os.ReadFile(page)
	require.NoError(t, err)
	assert.Contains(t, string(data), `alt="hero"`)

	assert.Eventually(t, func() bool {
		return svc.Stats().LastScore == 100
	}, 5*time.Second, 20*time.Millisecond, "the post-fix rescan should report a clean page")
}

func TestWatchIgnoresExcludedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".allyignore", "*.test.html\n")
	writeFile(t, dir, "a.test.html", "<html></html>")

	eng := &fakeEngine{}
	svc := application.NewWatchService(newTestService(eng, &fakeStore{}, &fakeHistory{}), &syncBuffer{})

	stop := startWatch(t, svc, dir, application.WatchOptions{Debounce: 20 * time.Millisecond})

	require.NoError(t, os.WriteFile(dir+"/a.test.html", []byte("<html>changed</html>"), 0644))
	time.Sleep(500 * time.Millisecond)

	stop()
	assert.Equal(t, 0, svc.Stats().Scans)
}

func TestWatchRejectsInvalidThreshold(t *testing.T) {
	svc := application.NewWatchService(newTestService(&fakeEngine{}, &fakeStore{}, &fakeHistory{}), &syncBuffer{})
	err := svc.Run(context.Background(), t.TempDir(), application.WatchOptions{AutoFix: true, Threshold: 2})
	require.Error(t, err)
}
