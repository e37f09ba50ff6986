package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	exts := []string{"cpp", "h"}

	assert.True(t, relevant("src/a.cpp", exts))
	assert.True(t, relevant(`src\a.CPP`, exts))
	assert.True(t, relevant("include/x.h", exts))
	assert.False(t, relevant("notes.txt", exts))
	assert.False(t, relevant("Makefile", exts))
	assert.False(t, relevant("src/a.cpp", nil))
}

// startRun launches Run over root with a short debounce and a counting
// sync callback. It returns a sampler for the sync count, the context
// cancel, and the channel Run's result lands on.
func startRun(t *testing.T, root string) (func() int, context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	var mu sync.Mutex
	syncs := 0

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Options{
			Root:       root,
			Extensions: []string{"cpp"},
			Debounce:   50 * time.Millisecond,
			Logger:     logger,
		}, func() error {
			mu.Lock()
			syncs++
			mu.Unlock()
			return nil
		})
	}()

	// give the watcher time to register root before the test mutates it
	time.Sleep(100 * time.Millisecond)

	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return syncs
	}
	return count, cancel, done
}

// eventually polls fn every tick until it returns true or timeout
// elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Fatal(msg)
}

func TestRun_SyncAfterSourceChange(t *testing.T) {
	root := t.TempDir()
	count, cancel, done := startRun(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.cpp"), []byte("int a;\n"), 0o644))
	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool { return count() >= 1 },
		"sync did not run after source change")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

func TestRun_NewDirWatched(t *testing.T) {
	root := t.TempDir()
	count, _, _ := startRun(t, root)

	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool { return count() >= 1 },
		"sync did not run after new directory")

	// the first sync ran, so the new directory is on the watch list
	require.NoError(t, os.WriteFile(filepath.Join(sub, "deep.cpp"), []byte("int d;\n"), 0o644))
	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool { return count() >= 2 },
		"change inside new directory not seen")
}
