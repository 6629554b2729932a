package embedded

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/grocerdata/pricecache/internal/core/domain/cache"
	"github.com/grocerdata/pricecache/internal/core/ports"
)

// Backend stores entries in a single SQLite table keyed by cache key, with
// creation time and TTL as separate columns. The created_at index supports
// bulk-expiry sweeps should one ever be added; current expiry is lazy, on
// lookup.
type Backend struct {
	db   *sqlx.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key        TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	ttl_ns     INTEGER NOT NULL,
	size_bytes INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cache_entries_created_at ON cache_entries(created_at);
`

type entryRow struct {
	Key       string `db:"key"`
	Data      []byte `db:"data"`
	CreatedAt int64  `db:"created_at"`
	TTLNanos  int64  `db:"ttl_ns"`
	SizeBytes int64  `db:"size_bytes"`
}

// New opens (or creates) the SQLite database at path and ensures the cache
// schema exists. An unopenable or unwritable path is a fatal configuration
// error for this backend.
func New(path string) (*Backend, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite cache at %s: %w", path, err)
	}
	// SQLite serializes writers; a single connection avoids lock contention
	// between concurrent upserts.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite cache at %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize sqlite cache schema: %w", err)
	}
	return &Backend{db: db, path: path}, nil
}

func (b *Backend) Kind() cache.BackendKind { return cache.BackendEmbeddedDB }

func (b *Backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var row entryRow
	query := `SELECT key, data, created_at, ttl_ns, size_bytes FROM cache_entries WHERE key = ?`
	err := b.db.GetContext(ctx, &row, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlite cache get %s: %w", key, err)
	}

	createdAt := time.Unix(0, row.CreatedAt)
	if time.Now().After(createdAt.Add(time.Duration(row.TTLNanos))) {
		if _, err := b.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
			return nil, false, fmt.Errorf("sqlite cache purge %s: %w", key, err)
		}
		return nil, false, nil
	}
	return row.Data, true, nil
}

func (b *Backend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	query := `
		INSERT OR REPLACE INTO cache_entries (key, data, created_at, ttl_ns, size_bytes)
		VALUES (?, ?, ?, ?, ?)`
	_, err := b.db.ExecContext(ctx, query, key, value, time.Now().UnixNano(), int64(ttl), int64(len(value)))
	if err != nil {
		return fmt.Errorf("sqlite cache set %s: %w", key, err)
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("sqlite cache delete %s: %w", key, err)
	}
	return nil
}

// DeletePrefix removes a whole namespace with a single pattern delete.
func (b *Backend) DeletePrefix(ctx context.Context, prefix string) error {
	query := `DELETE FROM cache_entries WHERE key LIKE ? ESCAPE '\'`
	if _, err := b.db.ExecContext(ctx, query, escapeLike(prefix)+"%"); err != nil {
		return fmt.Errorf("sqlite cache delete prefix %s: %w", prefix, err)
	}
	return nil
}

func (b *Backend) Stats(ctx context.Context) (cache.BackendStats, error) {
	var row struct {
		Entries   int   `db:"entries"`
		SizeBytes int64 `db:"size_bytes"`
	}
	query := `SELECT COUNT(*) AS entries, COALESCE(SUM(size_bytes), 0) AS size_bytes FROM cache_entries`
	if err := b.db.GetContext(ctx, &row, query); err != nil {
		return cache.BackendStats{}, fmt.Errorf("sqlite cache stats: %w", err)
	}
	return cache.BackendStats{
		Kind:      cache.BackendEmbeddedDB,
		Entries:   row.Entries,
		SizeBytes: row.SizeBytes,
	}, nil
}

func (b *Backend) Close() error { return b.db.Close() }

// escapeLike neutralizes LIKE wildcards in caller-supplied namespaces.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

var _ ports.Backend = (*Backend)(nil)
