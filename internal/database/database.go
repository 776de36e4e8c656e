package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists scrape runs and the profiles they found
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens the SQLite database at path
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open with DSN options for SQLite pragmas
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify database connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return NewStore(db), nil
}

// NewStore wraps an already migrated connection
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RunMigrations creates all necessary tables
func RunMigrations(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		keyword TEXT NOT NULL,
		query TEXT NOT NULL,
		engine TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'running',
		profile_count INTEGER NOT NULL DEFAULT 0,
		started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		finished_at DATETIME,
		CHECK(status IN ('running', 'completed', 'failed', 'cancelled', 'blocked'))
	);

	CREATE TABLE IF NOT EXISTS profiles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL,
		source TEXT NOT NULL DEFAULT 'LinkedIn',
		emails TEXT NOT NULL DEFAULT '[]', -- JSON array
		phones TEXT NOT NULL DEFAULT '[]', -- JSON array
		page INTEGER NOT NULL DEFAULT 1,
		scraped_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(run_id, url),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_profiles_run_id ON profiles(run_id);
	CREATE INDEX IF NOT EXISTS idx_profiles_url ON profiles(url);
	`

	_, err := db.Exec(schema)
	return err
}
