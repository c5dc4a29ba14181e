package registry

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yggdrasil-au/remake-operator/internal/config"
)

func TestWatcherDebouncesBurstsIntoOneCallback(t *testing.T) {
	root := t.TempDir()
	gamesDir := filepath.Join(root, "EngineApps", "Games")
	require.NoError(t, os.MkdirAll(gamesDir, 0o755))

	var calls int32
	w, err := NewWatcher(config.NewPaths(root), 100, func() { atomic.AddInt32(&calls, 1) })
	require.NoError(t, err)
	defer w.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(gamesDir, "touch.txt"), []byte("x"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestWatcherToleratesMissingGamesDir(t *testing.T) {
	root := t.TempDir()
	w, err := NewWatcher(config.NewPaths(root), 50, func() {})
	require.NoError(t, err)
	defer w.Close()
}

func TestWatcherCloseStopsDelivery(t *testing.T) {
	root := t.TempDir()
	gamesDir := filepath.Join(root, "EngineApps", "Games")
	require.NoError(t, os.MkdirAll(gamesDir, 0o755))

	var calls int32
	w, err := NewWatcher(config.NewPaths(root), 50, func() { atomic.AddInt32(&calls, 1) })
	require.NoError(t, err)
	require.NoError(t, w.Close())

	require.NoError(t, os.WriteFile(filepath.Join(gamesDir, "after-close.txt"), []byte("x"), 0o644))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}
