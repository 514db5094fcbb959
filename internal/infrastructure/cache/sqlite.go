package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/voicecart/backend/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteCache is a persistent cache backed by a single SQLite table.
// Expired rows are treated as misses on read and deleted by Purge, which runs
// at open and then every purge interval until Close.
type SQLiteCache struct {
	db *sql.DB

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// OpenSQLiteCache opens (or creates) the SQLite database at path and ensures
// the cache_entries table exists. Expired rows are purged every purgeInterval
// (10 minutes when zero).
func OpenSQLiteCache(path string, purgeInterval time.Duration) (*SQLiteCache, error) {
	if purgeInterval <= 0 {
		purgeInterval = defaultCleanupInterval
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	const ddl = `CREATE TABLE IF NOT EXISTS cache_entries (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		expires_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache_entries table: %w", err)
	}

	cache := &SQLiteCache{
		db:   db,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	if _, err := cache.Purge(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	go cache.purgeExpired(purgeInterval)

	return cache, nil
}

// Close stops the purge goroutine and closes the SQLite connection. It is safe
// to call more than once.
func (c *SQLiteCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
	return c.db.Close()
}

// purgeExpired deletes expired rows periodically until Close
func (c *SQLiteCache) purgeExpired(interval time.Duration) {
	defer close(c.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			// A failed sweep is retried on the next tick
			_, _ = c.Purge(context.Background())
		}
	}
}

// Get retrieves a value from the cache
func (c *SQLiteCache) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT value FROM cache_entries WHERE key = ? AND expires_at > ?`,
		key, time.Now().UnixNano(),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return value, nil
}

// Set stores a value in the cache with TTL, replacing any previous entry
func (c *SQLiteCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	expiresAt := time.Now().Add(ttl).UnixNano()
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO cache_entries (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Delete removes a value from the cache
func (c *SQLiteCache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Exists checks if a key exists in the cache and is not expired
func (c *SQLiteCache) Exists(ctx context.Context, key string) (bool, error) {
	var n int
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cache_entries WHERE key = ? AND expires_at > ?`,
		key, time.Now().UnixNano(),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return n > 0, nil
}

// Purge deletes expired rows and returns how many were removed.
func (c *SQLiteCache) Purge(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE expires_at <= ?`, time.Now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("purge cache: %w", err)
	}
	return res.RowsAffected()
}
