package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdhtml/internal/build"
	"git.home.luguber.info/inful/mdhtml/internal/config"
)

func testBuilder(t *testing.T) (*build.Builder, *config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Directory = filepath.Join(t.TempDir(), "site")
	b, err := build.New(cfg)
	require.NoError(t, err)
	return b, cfg
}

func TestRun_InitialBuildAndShutdown(t *testing.T) {
	b, cfg := testBuilder(t)
	srcDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.md"), []byte("# A"), 0o644))

	w, err := New(b, srcDir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// The initial build runs before the event loop; give it a moment.
	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(cfg.Output.Directory, "a.html"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestRun_RebuildsOnChange(t *testing.T) {
	b, cfg := testBuilder(t)
	srcDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.md"), []byte("# A"), 0o644))

	w, err := New(b, srcDir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	out := filepath.Join(cfg.Output.Directory, "a.html")
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(out)
		return err == nil && string(data) == "<h1>A</h1>"
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.md"), []byte("# Changed"), 0o644))

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(out)
		return err == nil && string(data) == "<h1>Changed</h1>"
	}, 10*time.Second, 50*time.Millisecond)
}
