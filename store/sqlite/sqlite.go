/*
Package sqlite provides a SQLite-backed implementation of the hotel.KV
storage interface.

PURPOSE:
  Persists the front-desk state snapshots in a single key-value table.
  Each well-known key (rooms, bookingHistory, ingredients, ...) maps to one
  JSON-encoded row that is replaced wholesale on every write, matching the
  engine's full-collection snapshot contract.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Readers don't block the single writer
  - Better crash recovery for the best-effort snapshot writes

CONCURRENCY:
  Uses sync.RWMutex for thread-safety around the connection. The engine is
  effectively single-actor, so contention is nil in practice.

USAGE:
  kv, err := sqlite.New("./data/frontdesk.db")
  if err != nil {
      log.Fatal(err)
  }
  defer kv.Close()

  st, err := hotel.Open(ctx, kv)

MIGRATION:
  Schema is auto-migrated on New(). Use ":memory:" for tests.

SEE ALSO:
  - hotel/store.go: Interface definition and key layout
  - hotel/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// KV implements hotel.KV using SQLite.
type KV struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*KV, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	kv := &KV{db: db}
	if err := kv.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return kv, nil
}

// Close closes the database connection.
func (kv *KV) Close() error {
	return kv.db.Close()
}

func (kv *KV) migrate() error {
	schema := `
	-- State snapshots, one row per well-known key
	CREATE TABLE IF NOT EXISTS state (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := kv.db.Exec(schema)
	return err
}

func (kv *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()

	var value []byte
	err := kv.db.QueryRowContext(ctx, `SELECT value FROM state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (kv *KV) Put(ctx context.Context, key string, value []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	_, err := kv.db.ExecContext(ctx, `
		INSERT INTO state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}
