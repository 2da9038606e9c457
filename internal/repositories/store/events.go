package store

import (
	"context"
	"cuentas_claras/internal/models"
	"database/sql"
	"errors"
)

const eventColumns = "id, name, description, status, created_at"

func scanEvent(row interface{ Scan(...any) error }) (models.Event, error) {
	var (
		e       models.Event
		created nullTime
	)
	if err := row.Scan(&e.ID, &e.Name, &e.Description, &e.Status, &created); err != nil {
		return e, err
	}
	e.CreatedAt = created.Time
	return e, nil
}

func (s *Store) CreateEvent(ctx context.Context, e *models.Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now()
	}
	if e.Status == "" {
		e.Status = models.EventStatusActive
	}

	res, err := s.q.ExecContext(ctx,
		"INSERT INTO events (name, description, status, created_at) VALUES (?, ?, ?, ?)",
		e.Name, e.Description, e.Status, formatTime(e.CreatedAt))
	if err != nil {
		return err
	}
	e.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetEvent(ctx context.Context, id int64) (models.Event, error) {
	e, err := scanEvent(s.q.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM events WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return e, ErrNotFound
	}
	return e, err
}

// LockEvent reads an event and, on MySQL inside a transaction, holds its row
// lock until the transaction ends.
func (s *Store) LockEvent(ctx context.Context, id int64) (models.Event, error) {
	e, err := scanEvent(s.q.QueryRowContext(ctx, s.forUpdate("SELECT "+eventColumns+" FROM events WHERE id = ?"), id))
	if errors.Is(err, sql.ErrNoRows) {
		return e, ErrNotFound
	}
	return e, err
}

func (s *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	rows, err := s.q.QueryContext(ctx, "SELECT "+eventColumns+" FROM events ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Store) UpdateEvent(ctx context.Context, e models.Event) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE events SET name = ?, description = ?, status = ? WHERE id = ?",
		e.Name, e.Description, e.Status, e.ID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// DeleteEvent removes an event together with its debts, expenses and
// participants. Callers run it inside WithTx.
func (s *Store) DeleteEvent(ctx context.Context, id int64) error {
	for _, q := range []string{
		"DELETE FROM debts WHERE event_id = ?",
		"DELETE FROM expenses WHERE event_id = ?",
		"DELETE FROM participants WHERE event_id = ?",
	} {
		if _, err := s.q.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}

	res, err := s.q.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// expectRow turns an UPDATE or DELETE that matched nothing into ErrNotFound.
// MySQL connections are opened with clientFoundRows so an UPDATE that
// changes nothing still counts its matched row.
func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
