package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tghp/wpgraphql-mb/internal/engine"
	"github.com/tghp/wpgraphql-mb/internal/site"
)

func start(t *testing.T, w *Watcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("watcher did not stop")
		}
	})
}

func TestRunReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("contentTypes: []\n"), 0o644))

	var reloads atomic.Int32
	start(t, New(path, func(context.Context) error {
		reloads.Add(1)
		return nil
	}, WithDebounce(10*time.Millisecond)))

	// The watch is registered asynchronously, so keep writing until noticed.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("contentTypes: []\n"), 0o644)
		return reloads.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)
}

func TestRunIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	other := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	var reloads atomic.Int32
	start(t, New(path, func(context.Context) error {
		reloads.Add(1)
		return nil
	}, WithDebounce(5*time.Millisecond)))

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
		time.Sleep(20 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, reloads.Load())
}

func TestRunMissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing", "site.yaml"), func(context.Context) error { return nil })
	assert.Error(t, w.Run(context.Background()))
}

func TestEngineReloader(t *testing.T) {
	fixture, err := os.ReadFile("../site/testdata/site.yaml")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, fixture, 0o644))

	s, err := site.Load(path)
	require.NoError(t, err)
	schema, err := engine.Build(context.Background(), s)
	require.NoError(t, err)
	e := engine.New(schema)

	reload := EngineReloader(path, e)
	require.NoError(t, reload(context.Background()))
	assert.NotSame(t, schema, e.Schema())

	served := e.Schema()
	require.NoError(t, os.WriteFile(path, []byte("fieldGroups: ["), 0o644))
	assert.Error(t, reload(context.Background()))
	assert.Same(t, served, e.Schema(), "failed reload keeps the served schema")
}
