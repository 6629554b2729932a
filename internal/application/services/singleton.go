package services

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/grocerdata/pricecache/internal/core/ports"
)

// The process-wide manager. Construction is first-writer-wins: the first
// Initialize call decides the backend and default TTL for the process
// lifetime, later calls return the existing instance unchanged. Prefer
// passing a *Manager explicitly; the accessor exists for callers that need
// global reachability.
var (
	instanceMu sync.Mutex
	instance   *Manager
)

// Initialize builds the shared manager on first call. If one already exists
// the provided backend is not adopted and the caller keeps ownership of it.
func Initialize(backend ports.Backend, defaultTTL time.Duration, logger *logrus.Logger) *Manager {
	instanceMu.Lock()
	defer instanceMu.Unlock()

	if instance != nil {
		logger.Warn("cache manager already initialized, ignoring new configuration")
		return instance
	}
	instance = NewManager(backend, defaultTTL, logger)
	return instance
}

// Instance returns the shared manager. ok=false when Initialize has not
// been called.
func Instance() (*Manager, bool) {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	return instance, instance != nil
}

// ResetForTesting discards the shared manager and closes its backend so the
// next Initialize starts from a fresh configuration.
func ResetForTesting() {
	instanceMu.Lock()
	defer instanceMu.Unlock()

	if instance != nil {
		_ = instance.Close()
		instance = nil
	}
}
