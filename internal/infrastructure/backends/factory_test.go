package backends

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/grocerdata/pricecache/configs"
	"github.com/grocerdata/pricecache/internal/core/domain/cache"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestNewMemoryBackend(t *testing.T) {
	b, err := New(&configs.CacheConfig{Backend: "memory", MaxEntries: 50}, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	require.Equal(t, cache.BackendMemory, b.Kind())

	stats, err := b.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 50, stats.MaxEntries)
}

func TestNewDiskBackend(t *testing.T) {
	b, err := New(&configs.CacheConfig{Backend: "disk", Dir: t.TempDir()}, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	require.Equal(t, cache.BackendDisk, b.Kind())
}

func TestNewDiskFallsBackToMemory(t *testing.T) {
	cfg := &configs.CacheConfig{Backend: "disk", Dir: "/dev/null/not-a-dir", MaxEntries: 25}

	b, err := New(cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	require.Equal(t, cache.BackendMemory, b.Kind())

	// The substitute still serves reads and writes.
	ctx := context.Background()
	require.NoError(t, b.Set(ctx, "k", []byte("v"), time.Hour))
	got, ok, err := b.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v"), got)

	stats, err := b.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 25, stats.MaxEntries)
}

func TestNewDiskFallbackStaysBounded(t *testing.T) {
	// A disk config never passes MaxEntries validation, so it may be zero.
	cfg := &configs.CacheConfig{Backend: "disk", Dir: "/dev/null/not-a-dir"}

	b, err := New(cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	require.Equal(t, cache.BackendMemory, b.Kind())

	stats, err := b.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, fallbackMaxEntries, stats.MaxEntries)
}

func TestNewSQLiteBackend(t *testing.T) {
	cfg := &configs.CacheConfig{Backend: "sqlite", DBPath: filepath.Join(t.TempDir(), "cache.db")}

	b, err := New(cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	require.Equal(t, cache.BackendEmbeddedDB, b.Kind())
}

func TestNewSQLiteFailureIsFatal(t *testing.T) {
	cfg := &configs.CacheConfig{Backend: "sqlite", DBPath: "/dev/null/not-a-dir/cache.db"}

	_, err := New(cfg, testLogger())
	require.Error(t, err)
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(&configs.CacheConfig{Backend: "memcached"}, testLogger())
	require.Error(t, err)
	require.Contains(t, err.Error(), "memcached")
}
