// Package store is the SQL persistence layer for events, participants,
// categories, expenses and debts. The same queries run on MySQL and SQLite;
// the few places where the dialects differ check Store.Dialect.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a row looked up by id does not exist.
var ErrNotFound = errors.New("not found")

const (
	DialectMySQL  = "mysql"
	DialectSQLite = "sqlite"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db      *sql.DB
	tx      *sql.Tx
	q       DBTX
	dialect string
}

func New(db *sql.DB, dialect string) *Store {
	return &Store{db: db, q: db, dialect: dialect}
}

func (s *Store) Dialect() string { return s.dialect }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// WithTx runs fn inside a transaction and commits when it returns nil.
// Called on a Store that is already inside a transaction, fn joins it.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.runTx(ctx, nil, fn)
}

// ReadTx runs fn against one consistent snapshot. MySQL gets a read-only
// transaction; SQLite transactions are already isolated from writers.
func (s *Store) ReadTx(ctx context.Context, fn func(tx *Store) error) error {
	var opts *sql.TxOptions
	if s.dialect == DialectMySQL {
		opts = &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead}
	}
	return s.runTx(ctx, opts, fn)
}

func (s *Store) runTx(ctx context.Context, opts *sql.TxOptions, fn func(tx *Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txStore := &Store{db: s.db, tx: tx, q: tx, dialect: s.dialect}
	if err := fn(txStore); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// forUpdate appends a row lock where the dialect supports one.
func (s *Store) forUpdate(query string) string {
	if s.dialect == DialectMySQL && s.tx != nil {
		return query + " FOR UPDATE"
	}
	return query
}

const timeLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

var timeLayouts = []string{
	timeLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// nullTime scans DATETIME columns from MySQL (time.Time with parseTime) and
// TEXT columns from SQLite alike.
type nullTime struct {
	Time  time.Time
	Valid bool
}

func (n *nullTime) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		n.Time, n.Valid = time.Time{}, false
		return nil
	case time.Time:
		n.Time, n.Valid = v.UTC(), true
		return nil
	case []byte:
		return n.parse(string(v))
	case string:
		return n.parse(v)
	default:
		return fmt.Errorf("cannot scan %T into a timestamp", value)
	}
}

func (n *nullTime) parse(raw string) error {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			n.Time, n.Valid = t.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", raw)
}

func (n nullTime) ptr() *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func scanNullableID(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}
