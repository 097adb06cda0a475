// Package sqlite persists the earnings ledger in an embedded SQLite
// database (pure-Go driver, no CGO). It implements domain.LedgerStore.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection for the ledger store.
type DB struct {
	db *sql.DB
}

// Open creates (if needed) and opens the ledger database inside dir,
// applying all migrations.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	path := filepath.Join(dir, "remotask.db")
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// Single logical writer; serialize access at the pool level.
	conn.SetMaxOpenConns(1)

	db := &DB{db: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error { return db.db.Close() }

// Migrations returns the schema migration statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		// Monetary scalars: balance, referral earnings, credited earnings
		`CREATE TABLE IF NOT EXISTS monetary (
			name  TEXT PRIMARY KEY,
			value REAL NOT NULL DEFAULT 0
		)`,

		// Integer counters: share count, total referrals
		`CREATE TABLE IF NOT EXISTS counters (
			name  TEXT PRIMARY KEY,
			value INTEGER NOT NULL DEFAULT 0
		)`,

		// Presence flags: activation, upgrade (row exists = flag set)
		`CREATE TABLE IF NOT EXISTS flags (
			name   TEXT PRIMARY KEY,
			set_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,

		// Withdrawal transactions, append order preserved
		`CREATE TABLE IF NOT EXISTS transactions (
			pos     INTEGER PRIMARY KEY AUTOINCREMENT,
			id      TEXT NOT NULL UNIQUE,
			date    TEXT NOT NULL DEFAULT '--/--/----',
			amount  REAL NOT NULL DEFAULT 0,
			status  TEXT NOT NULL DEFAULT 'Pending',
			method  TEXT NOT NULL DEFAULT '',
			account TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tx_status ON transactions(status)`,

		// Pending delayed-effect envelopes, at most one per kind
		`CREATE TABLE IF NOT EXISTS pending_effects (
			kind        TEXT PRIMARY KEY,
			amount      REAL NOT NULL DEFAULT 0,
			deadline_ms INTEGER NOT NULL
		)`,

		// Profile strings: referral code
		`CREATE TABLE IF NOT EXISTS profile (
			name  TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
}

func (db *DB) migrate() error {
	for _, stmt := range Migrations() {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
