package disk

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := New(t.TempDir(), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestDiskRoundTrip(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "products:1", []byte(`{"name":"milk"}`), time.Hour))

	got, ok, err := b.Get(ctx, "products:1")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"name":"milk"}`, string(got))

	_, ok, err = b.Get(ctx, "products:2")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDiskOpaquePayload(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	// Payloads are opaque bytes, not necessarily JSON.
	payload := []byte("v\x00\xff not json")
	require.NoError(t, b.Set(ctx, "k", payload, time.Hour))

	got, ok, err := b.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, payload, got)
}

func TestDiskExpiry(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "k", []byte("v"), 50*time.Millisecond))
	time.Sleep(120 * time.Millisecond)

	_, ok, err := b.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDiskDeletePrefix(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "a:x", []byte("1"), time.Hour))
	require.NoError(t, b.Set(ctx, "a:y", []byte("2"), time.Hour))
	require.NoError(t, b.Set(ctx, "b:x", []byte("3"), time.Hour))

	require.NoError(t, b.DeletePrefix(ctx, "a:"))

	_, ok, _ := b.Get(ctx, "a:x")
	require.False(t, ok)
	_, ok, _ = b.Get(ctx, "a:y")
	require.False(t, ok)
	_, ok, _ = b.Get(ctx, "b:x")
	require.True(t, ok)
}

func TestDiskOverwrite(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "k", []byte("1"), time.Hour))
	require.NoError(t, b.Set(ctx, "k", []byte("2"), time.Hour))

	got, ok, _ := b.Get(ctx, "k")
	require.True(t, ok)
	require.Equal(t, []byte("2"), got)
}

func TestDiskStats(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "a:x", []byte("1"), time.Hour))
	require.NoError(t, b.Set(ctx, "a:y", []byte("2"), time.Hour))

	stats, err := b.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Entries)
}

func TestDiskOpenInvalidDirFails(t *testing.T) {
	_, err := New("/dev/null/not-a-dir", 0)
	require.Error(t, err)
}
