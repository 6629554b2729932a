package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	Cache  CacheConfig
	Log    LogConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
}

// CacheConfig selects and sizes the storage backend. Backend is fixed for
// the process lifetime once the cache manager is constructed from it.
type CacheConfig struct {
	Backend    string // memory, disk or sqlite
	DefaultTTL time.Duration
	// Memory backend
	MaxEntries int
	// Disk backend
	Dir            string
	SizeLimitBytes int64
	// Embedded database backend
	DBPath string
}

type LogConfig struct {
	Level  string
	Format string // json or text
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			TLSCertFile:  getEnv("TLS_CERT_FILE", ""),
			TLSKeyFile:   getEnv("TLS_KEY_FILE", ""),
		},
		Cache: CacheConfig{
			Backend:        getEnv("CACHE_BACKEND", "memory"),
			DefaultTTL:     getDurationEnv("CACHE_DEFAULT_TTL", time.Hour),
			MaxEntries:     getIntEnv("CACHE_MAX_ENTRIES", 1000),
			Dir:            getEnv("CACHE_DIR", "./cache"),
			SizeLimitBytes: getInt64Env("CACHE_SIZE_LIMIT_BYTES", 1<<30),
			DBPath:         getEnv("CACHE_DB_PATH", "./cache.db"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "memory", "disk", "sqlite":
	default:
		return fmt.Errorf("CACHE_BACKEND must be 'memory', 'disk' or 'sqlite', got %q", c.Cache.Backend)
	}
	if c.Cache.DefaultTTL <= 0 {
		return fmt.Errorf("CACHE_DEFAULT_TTL must be positive")
	}
	if c.Cache.Backend == "memory" && c.Cache.MaxEntries < 1 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must be at least 1 for the memory backend")
	}
	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("SERVER_PORT must be a valid port number")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
