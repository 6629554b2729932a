package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/grocerdata/pricecache/internal/application/services"
	"github.com/grocerdata/pricecache/internal/infrastructure/backends/memory"
)

func TestInitializeFirstWriterWins(t *testing.T) {
	services.ResetForTesting()
	t.Cleanup(services.ResetForTesting)

	first := services.Initialize(memory.New(5), time.Minute, testLogger())
	second := services.Initialize(memory.New(500), time.Hour, testLogger())

	require.Same(t, first, second)

	// The first configuration is the one in effect.
	stats := first.Stats(context.Background())
	require.Equal(t, 5, stats.Backend.MaxEntries)
	require.Equal(t, float64(60), stats.DefaultTTLSeconds)
}

func TestInstanceBeforeInitialize(t *testing.T) {
	services.ResetForTesting()
	t.Cleanup(services.ResetForTesting)

	m, ok := services.Instance()
	require.False(t, ok)
	require.Nil(t, m)
}

func TestResetForTestingAllowsReinitialize(t *testing.T) {
	services.ResetForTesting()
	t.Cleanup(services.ResetForTesting)

	first := services.Initialize(memory.New(5), time.Minute, testLogger())
	services.ResetForTesting()

	second := services.Initialize(memory.New(500), time.Hour, testLogger())
	require.NotSame(t, first, second)

	m, ok := services.Instance()
	require.True(t, ok)
	require.Same(t, second, m)
	require.Equal(t, 500, m.Stats(context.Background()).Backend.MaxEntries)
}
