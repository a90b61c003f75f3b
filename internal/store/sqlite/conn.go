package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/chillpill/chillpill/internal/store/sqlstore"
)

// Dialect is the SQLite flavour of the entry table.
var Dialect = sqlstore.Dialect{
	Name:        "sqlite",
	Placeholder: func(int) string { return "?" },
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS journal_entries (
            entry_seq INTEGER PRIMARY KEY AUTOINCREMENT,
            entry_id TEXT NOT NULL UNIQUE,
            body TEXT NOT NULL,
            sentiment TEXT,
            created_at TEXT NOT NULL,
            last_updated_at TEXT
        );`,
	},
}

// Open opens (or creates) a SQLite database at the given path and enables WAL journal mode.
func Open(path string) (*sql.DB, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// A single writer keeps SQLite free of SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// New opens the database at path and ensures the schema exists.
func New(ctx context.Context, path string) (*sqlstore.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	s := sqlstore.New(db, Dialect)
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
