// Package sqlite implements the persistence interfaces on a local SQLite
// database used as a key-value store: one table, one value per key, values
// overwritten wholesale. This mirrors the whole-collection load/save contract
// the repository layer is built on.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/studydeck/studydeck-api/internal/store"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL,
    updated_at DATETIME NOT NULL
);
`

// KV is a wrapper around the SQL database connection exposing key-value
// get/put/delete semantics.
type KV struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*KV, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &KV{conn: db}, nil
}

// Close closes the database connection.
func (kv *KV) Close() error {
	return kv.conn.Close()
}

// Get returns the value stored under key, or store.ErrNoValue if the key has
// never been written.
func (kv *KV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	row := kv.conn.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoValue
		}
		return nil, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return value, nil
}

// Put overwrites the value stored under key.
func (kv *KV) Put(ctx context.Context, key string, value []byte) error {
	_, err := kv.conn.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

// Delete removes the value stored under key. Deleting a missing key is a no-op.
func (kv *KV) Delete(ctx context.Context, key string) error {
	if _, err := kv.conn.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}
