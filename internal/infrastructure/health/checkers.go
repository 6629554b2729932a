package health

import (
	"context"

	"github.com/grocerdata/pricecache/internal/core/ports"
)

// backendHealthChecker probes the cache backend by asking it for stats;
// a backend that cannot report stats cannot serve reads either.
type backendHealthChecker struct {
	backend ports.Backend
}

func (b *backendHealthChecker) Name() string { return "cache_backend" }

func (b *backendHealthChecker) Check(ctx context.Context) error {
	_, err := b.backend.Stats(ctx)
	return err
}

// NewBackendHealthChecker creates a health checker for the cache backend.
func NewBackendHealthChecker(backend ports.Backend) ports.HealthChecker {
	return &backendHealthChecker{backend: backend}
}
