package backends

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/grocerdata/pricecache/configs"
	"github.com/grocerdata/pricecache/internal/core/domain/cache"
	"github.com/grocerdata/pricecache/internal/core/ports"
	"github.com/grocerdata/pricecache/internal/infrastructure/backends/disk"
	"github.com/grocerdata/pricecache/internal/infrastructure/backends/embedded"
	"github.com/grocerdata/pricecache/internal/infrastructure/backends/memory"
)

// fallbackMaxEntries bounds the memory cache substituted for an unopenable
// disk store when the config carries no usable memory sizing.
const fallbackMaxEntries = 1000

// New constructs the backend selected by cfg.
//
// A disk store that cannot be opened downgrades to the memory backend with a
// warning: availability over configuration fidelity. The embedded database
// backend has no such fallback; an unopenable database is fatal. An unknown
// backend name is a configuration error.
func New(cfg *configs.CacheConfig, logger *logrus.Logger) (ports.Backend, error) {
	switch cache.BackendKind(cfg.Backend) {
	case cache.BackendMemory:
		logger.WithField("max_entries", cfg.MaxEntries).Info("initialized memory cache backend")
		return memory.New(cfg.MaxEntries), nil

	case cache.BackendDisk:
		b, err := disk.New(cfg.Dir, cfg.SizeLimitBytes)
		if err != nil {
			// MaxEntries is only validated for memory configs, so a disk
			// config may carry zero here; the fallback cache must stay
			// bounded regardless.
			maxEntries := cfg.MaxEntries
			if maxEntries < 1 {
				maxEntries = fallbackMaxEntries
			}
			logger.WithError(err).Warn("disk cache unavailable, falling back to memory backend")
			return memory.New(maxEntries), nil
		}
		logger.WithField("dir", cfg.Dir).Info("initialized disk cache backend")
		return b, nil

	case cache.BackendEmbeddedDB:
		b, err := embedded.New(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		logger.WithField("db_path", cfg.DBPath).Info("initialized sqlite cache backend")
		return b, nil

	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
