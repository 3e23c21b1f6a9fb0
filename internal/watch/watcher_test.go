package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func write(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
}

// receive waits for one path or fails the test.
func receive(t *testing.T, ch <-chan string, within time.Duration) string {
	t.Helper()
	select {
	case p, ok := <-ch:
		require.True(t, ok, "channel closed early")
		return p
	case <-time.After(within):
		t.Fatal("timed out waiting for watcher event")
		return ""
	}
}

func TestStartEmitsCreatedFile(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	paths, _, err := Start(ctx, Config{Dir: dir, Ext: ".pdf"}, testLogger())
	require.NoError(t, err)

	write(t, filepath.Join(dir, "incoming.pdf"))

	got := receive(t, paths, 3*time.Second)
	assert.Equal(t, filepath.Join(dir, "incoming.pdf"), got)
}

func TestStartInitialScanEmitsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "already-here.pdf"))
	write(t, filepath.Join(dir, "ignored.txt"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	paths, _, err := Start(ctx, Config{Dir: dir, Ext: ".pdf", InitialScan: true}, testLogger())
	require.NoError(t, err)

	got := receive(t, paths, 3*time.Second)
	assert.Equal(t, filepath.Join(dir, "already-here.pdf"), got)
}

func TestStartIgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	paths, _, err := Start(ctx, Config{Dir: dir, Ext: ".pdf"}, testLogger())
	require.NoError(t, err)

	write(t, filepath.Join(dir, "notes.txt"))

	select {
	case p := <-paths:
		t.Fatalf("unexpected event for %s", p)
	case <-time.After(300 * time.Millisecond):
	}

	write(t, filepath.Join(dir, "real.pdf"))
	got := receive(t, paths, 3*time.Second)
	assert.Equal(t, filepath.Join(dir, "real.pdf"), got)
}

func TestStartDebounceCoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	paths, _, err := Start(ctx, Config{Dir: dir, Ext: ".pdf", Debounce: 150 * time.Millisecond}, testLogger())
	require.NoError(t, err)

	target := filepath.Join(dir, "burst.pdf")
	for range 3 {
		write(t, target)
		time.Sleep(20 * time.Millisecond)
	}

	got := receive(t, paths, 3*time.Second)
	assert.Equal(t, target, got)

	select {
	case p := <-paths:
		t.Fatalf("burst emitted twice: %s", p)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestStartClosesChannelsOnCancel(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	paths, errs, err := Start(ctx, Config{Dir: dir, Ext: ".pdf"}, testLogger())
	require.NoError(t, err)

	cancel()

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-paths:
			return !ok
		default:
			return false
		}
	}, 3*time.Second, 20*time.Millisecond, "paths channel should close")

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-errs:
			return !ok
		default:
			return false
		}
	}, 3*time.Second, 20*time.Millisecond, "errors channel should close")
}

func TestStartMissingDirFails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, _, err := Start(ctx, Config{Dir: filepath.Join(t.TempDir(), "absent"), Ext: ".pdf"}, testLogger())
	assert.Error(t, err)
}
