package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/grocerdata/pricecache/internal/core/domain/cache"
	"github.com/grocerdata/pricecache/internal/core/ports"
)

type cacheServiceMock struct {
	invalidateFn func(ctx context.Context, namespace, identifier string, params map[string]any)
	statsFn      func(ctx context.Context) cache.Stats
}

func (m *cacheServiceMock) Get(context.Context, string, string, map[string]any) ([]byte, bool) {
	return nil, false
}

func (m *cacheServiceMock) Set(context.Context, string, string, any, time.Duration, map[string]any) bool {
	return true
}

func (m *cacheServiceMock) Invalidate(ctx context.Context, namespace, identifier string, params map[string]any) {
	if m.invalidateFn != nil {
		m.invalidateFn(ctx, namespace, identifier, params)
	}
}

func (m *cacheServiceMock) Stats(ctx context.Context) cache.Stats {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return cache.Stats{}
}

func (m *cacheServiceMock) GetOrLoad(context.Context, string, string, map[string]any, time.Duration, func(context.Context) (any, error)) ([]byte, error) {
	return nil, nil
}

func newTestServer(svc ports.CacheService) *Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewServer(&ServerConfig{Host: "127.0.0.1", Port: "0"}, logger, ServerDeps{
		CacheService: svc,
	})
}

func TestGetCacheStats(t *testing.T) {
	svc := &cacheServiceMock{statsFn: func(context.Context) cache.Stats {
		return cache.Stats{
			Backend: cache.BackendStats{
				Kind:       cache.BackendMemory,
				Entries:    3,
				MaxEntries: 100,
			},
			DefaultTTLSeconds: 3600,
			Hits:              12,
			Misses:            4,
		}
	}}
	server := newTestServer(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cache/stats", nil)
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got cache.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, cache.BackendMemory, got.Backend.Kind)
	require.Equal(t, 3, got.Backend.Entries)
	require.Equal(t, uint64(12), got.Hits)
	require.Equal(t, uint64(4), got.Misses)
}

func TestInvalidateNamespace(t *testing.T) {
	var gotNamespace, gotIdentifier string
	svc := &cacheServiceMock{invalidateFn: func(_ context.Context, namespace, identifier string, _ map[string]any) {
		gotNamespace = namespace
		gotIdentifier = identifier
	}}
	server := newTestServer(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cache/products", nil)
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "products", gotNamespace)
	require.Empty(t, gotIdentifier)
}

func TestInvalidateKey(t *testing.T) {
	var gotNamespace, gotIdentifier string
	svc := &cacheServiceMock{invalidateFn: func(_ context.Context, namespace, identifier string, _ map[string]any) {
		gotNamespace = namespace
		gotIdentifier = identifier
	}}
	server := newTestServer(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cache/products/shufersal:3", nil)
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "products", gotNamespace)
	require.Equal(t, "shufersal:3", gotIdentifier)
}

func TestHealthCheck(t *testing.T) {
	server := newTestServer(&cacheServiceMock{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "healthy", body["status"])
}
