// Package sqlite implements ports.RenderCache on a SQLite database using the
// pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/tehbilly/intellij-markdown/pkg/ports"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Cache implements ports.RenderCache on SQLite.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

type Option func(*Cache)

// WithTTL sets the expiration for cached renders. Zero keeps entries forever.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithClock replaces the time source used for expiration.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// Open opens (creating if needed) the database at path and applies the schema.
// An empty path or MemoryPath uses an in-memory database.
func Open(path string, opts ...Option) (*Cache, error) {
	memory := path == "" || path == MemoryPath

	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)",
		path,
	)
	if memory {
		dsn = "file::memory:"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if memory {
		// every connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	return New(db, opts...), nil
}

// New wraps an existing database handle. The schema must already be applied.
func New(db *sql.DB, opts ...Option) *Cache {
	c := &Cache{
		db:  db,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ ports.RenderCache = (*Cache)(nil)

// Get returns the cached HTML for key.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	var html string
	err := c.db.QueryRowContext(ctx,
		`SELECT html FROM renders WHERE key = ? AND (expires_at = 0 OR expires_at > ?)`,
		key, c.now().UnixNano(),
	).Scan(&html)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ports.ErrCacheMiss
		}
		return "", fmt.Errorf("select render: %w", err)
	}
	return html, nil
}

// Set stores html under key.
func (c *Cache) Set(ctx context.Context, key, html string) error {
	var expires int64
	if c.ttl > 0 {
		expires = c.now().Add(c.ttl).UnixNano()
	}

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO renders (key, html, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET html = excluded.html, expires_at = excluded.expires_at`,
		key, html, expires,
	)
	if err != nil {
		return fmt.Errorf("upsert render: %w", err)
	}
	return nil
}

// Delete removes the entry.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM renders WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete render: %w", err)
	}
	return nil
}

// Keys prunes expired rows and returns the remaining keys in order.
func (c *Cache) Keys(ctx context.Context) ([]string, error) {
	_, err := c.db.ExecContext(ctx,
		`DELETE FROM renders WHERE expires_at != 0 AND expires_at <= ?`, c.now().UnixNano())
	if err != nil {
		return nil, fmt.Errorf("prune renders: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, `SELECT key FROM renders ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list renders: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan render key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}
