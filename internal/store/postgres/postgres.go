package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/chillpill/chillpill/internal/store/sqlstore"
)

// Dialect is the PostgreSQL flavour of the entry table.
var Dialect = sqlstore.Dialect{
	Name:        "postgres",
	Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS journal_entries (
            entry_seq BIGSERIAL PRIMARY KEY,
            entry_id TEXT NOT NULL UNIQUE,
            body TEXT NOT NULL,
            sentiment TEXT,
            created_at TEXT NOT NULL,
            last_updated_at TEXT
        )`,
	},
}

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB wraps an open connection and ensures the schema exists.
func NewWithDB(ctx context.Context, db *sql.DB) (*sqlstore.Store, error) {
	s := sqlstore.New(db, Dialect)
	if err := s.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}
