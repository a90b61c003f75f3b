// Package sqlstore implements store.Store on database/sql. The sqlite and
// postgres packages supply the driver connection and a Dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/chillpill/chillpill/internal/model"
	"github.com/chillpill/chillpill/internal/store"
)

// Dialect captures the SQL differences between drivers.
type Dialect struct {
	Name string
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string
	// Schema holds idempotent DDL statements.
	Schema []string
}

var columns = map[model.Field]string{
	model.FieldBody:          "body",
	model.FieldSentiment:     "sentiment",
	model.FieldTimestamp:     "created_at",
	model.FieldLastTimestamp: "last_updated_at",
}

const selectColumns = `entry_id, body, sentiment, created_at, last_updated_at`

// Store is a database/sql backed store.Store.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New wraps an open connection. Call EnsureSchema before first use.
func New(db *sql.DB, d Dialect) *Store { return &Store{db: db, dialect: d} }

// DB exposes the underlying connection.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Entries() store.Entries { return s }
func (s *Store) Close() error           { return s.db.Close() }

// HealthPing implements health.HealthPinger.
func (s *Store) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }

// EnsureSchema creates the entry table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range s.dialect.Schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s schema: %w", s.dialect.Name, err)
		}
	}
	return nil
}

func (s *Store) ph(n int) string { return s.dialect.Placeholder(n) }

func (s *Store) Create(ctx context.Context, e *model.JournalEntry) (string, error) {
	id := uuid.New().String()
	q := fmt.Sprintf(`INSERT INTO journal_entries (entry_id, body, sentiment, created_at, last_updated_at)
        VALUES (%s,%s,%s,%s,%s)`, s.ph(1), s.ph(2), s.ph(3), s.ph(4), s.ph(5))
	if _, err := s.db.ExecContext(ctx, q, id, e.Body, nullable(e.Sentiment), e.Timestamp, nullable(e.LastTimestamp)); err != nil {
		return "", fmt.Errorf("insert entry: %w", err)
	}
	return id, nil
}

func (s *Store) List(ctx context.Context) ([]*model.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM journal_entries ORDER BY entry_seq`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []*model.JournalEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (*model.JournalEntry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM journal_entries WHERE entry_id=`+s.ph(1), id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	return e, err
}

func (s *Store) Update(ctx context.Context, id string, fields model.Fields) error {
	if err := fields.Validate(); err != nil {
		return err
	}
	if len(fields) == 0 {
		_, err := s.Get(ctx, id)
		return err
	}
	var sets []string
	var args []interface{}
	for _, f := range sortedFields(fields) {
		args = append(args, nullable(fields[f]))
		sets = append(sets, fmt.Sprintf("%s=%s", columns[f], s.ph(len(args))))
	}
	args = append(args, id)
	q := fmt.Sprintf(`UPDATE journal_entries SET %s WHERE entry_id=%s`, strings.Join(sets, ", "), s.ph(len(args)))
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM journal_entries WHERE entry_id=`+s.ph(1), id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, q model.Fields) (bool, error) {
	if err := q.Validate(); err != nil {
		return false, err
	}
	query := `SELECT 1 FROM journal_entries`
	var conds []string
	var args []interface{}
	for _, f := range sortedFields(q) {
		if q[f] == nil {
			conds = append(conds, columns[f]+" IS NULL")
			continue
		}
		args = append(args, *q[f])
		conds = append(conds, fmt.Sprintf("%s=%s", columns[f], s.ph(len(args))))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " LIMIT 1"

	var one int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("exists query: %w", err)
	}
	return true, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (*model.JournalEntry, error) {
	var e model.JournalEntry
	var sentiment, last sql.NullString
	if err := row.Scan(&e.ID, &e.Body, &sentiment, &e.Timestamp, &last); err != nil {
		return nil, err
	}
	if sentiment.Valid {
		e.Sentiment = model.String(sentiment.String)
	}
	if last.Valid {
		e.LastTimestamp = model.String(last.String)
	}
	return &e, nil
}

func sortedFields(f model.Fields) []model.Field {
	keys := make([]model.Field, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func nullable(p *string) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
