// Package database wraps the sale-record store's SQLite connection. A
// monthly clearing run only ever appends rows (there is no mid-run
// deletion or update), so the safety pragmas favor durability over
// write throughput the way a ledger would.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB with the pragmas and shutdown bookkeeping the
// append-only sale-record store needs.
type DB struct {
	*sql.DB
	path string

	mu     sync.RWMutex
	closed bool
}

// Open creates or opens the SQLite database at path with WAL mode and
// foreign keys enabled, then runs the sale_records migration.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	connStr := fmt.Sprintf("file:%s?_txlock=immediate&_timeout=5000&_fk=true", path)
	sqlDB, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	db := &DB{DB: sqlDB, path: path}

	if err := db.initPragmas(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("initializing pragmas: %w", err)
	}

	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return db, nil
}

func (db *DB) initPragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}
	return nil
}

func (db *DB) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS sale_records (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	months_since_epoch INTEGER NOT NULL,
	price          REAL NOT NULL,
	rooms          INTEGER NOT NULL,
	square_footage REAL NOT NULL,
	zone           INTEGER NOT NULL,
	dist_subway    REAL NOT NULL,
	dist_regional  REAL NOT NULL,
	residential    REAL NOT NULL,
	commerce       REAL NOT NULL,
	dwelling_type  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sale_records_month ON sale_records(months_since_epoch);
CREATE INDEX IF NOT EXISTS idx_sale_records_type ON sale_records(dwelling_type);
`
	_, err := db.Exec(schema)
	return err
}

// Close gracefully closes the database, checkpointing the WAL first.
func (db *DB) Close() error {
	db.mu.Lock()
	if db.closed {
		db.mu.Unlock()
		return nil
	}
	db.closed = true
	db.mu.Unlock()

	if _, err := db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		slog.Warn("final checkpoint failed", "error", err)
	}

	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// IsClosed reports whether Close has been called.
func (db *DB) IsClosed() bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.closed
}

// HealthCheck verifies the connection still answers queries.
func (db *DB) HealthCheck(ctx context.Context) error {
	if db.IsClosed() {
		return errors.New("database is closed")
	}
	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("health check query: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}
