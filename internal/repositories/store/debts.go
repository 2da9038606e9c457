package store

import (
	"context"
	"cuentas_claras/internal/models"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const debtSelect = `
	SELECT d.id, d.event_id, d.expense_id, d.participant_id, p.name, d.owed_to_participant_id, o.name,
		d.amount, d.status, d.created_at, d.paid_at
	FROM debts d
	JOIN participants p ON p.id = d.participant_id
	JOIN participants o ON o.id = d.owed_to_participant_id`

func scanDebt(row interface{ Scan(...any) error }) (models.Debt, error) {
	var (
		d       models.Debt
		created nullTime
		paid    nullTime
	)
	err := row.Scan(&d.ID, &d.EventID, &d.ExpenseID, &d.ParticipantID, &d.ParticipantName,
		&d.OwedToParticipantID, &d.OwedToDescription, &d.Amount, &d.Status, &created, &paid)
	if err != nil {
		return d, err
	}
	d.CreatedAt = created.Time
	d.PaidAt = paid.ptr()
	return d, nil
}

func (s *Store) CreateDebt(ctx context.Context, d *models.Debt) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now()
	}
	if d.Status == "" {
		d.Status = models.DebtStatusPending
	}

	res, err := s.q.ExecContext(ctx, `
		INSERT INTO debts (event_id, expense_id, participant_id, owed_to_participant_id, amount, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.EventID, d.ExpenseID, d.ParticipantID, d.OwedToParticipantID, d.Amount, d.Status, formatTime(d.CreatedAt))
	if err != nil {
		return err
	}
	d.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetDebt(ctx context.Context, id int64) (models.Debt, error) {
	d, err := scanDebt(s.q.QueryRowContext(ctx, debtSelect+" WHERE d.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrNotFound
	}
	return d, err
}

// ListDebts returns the debts matching f, oldest first.
func (s *Store) ListDebts(ctx context.Context, f models.DebtFilter) ([]models.Debt, error) {
	var (
		where []string
		args  []any
	)
	if f.EventID != 0 {
		where = append(where, "d.event_id = ?")
		args = append(args, f.EventID)
	}
	if f.ParticipantID != 0 {
		where = append(where, "d.participant_id = ?")
		args = append(args, f.ParticipantID)
	}
	if f.Status != "" {
		where = append(where, "d.status = ?")
		args = append(args, f.Status)
	}

	query := debtSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY d.id"

	return s.queryDebts(ctx, query, args...)
}

func (s *Store) ListDebtsByExpense(ctx context.Context, expenseID int64) ([]models.Debt, error) {
	return s.queryDebts(ctx, debtSelect+" WHERE d.expense_id = ? ORDER BY d.id", expenseID)
}

func (s *Store) queryDebts(ctx context.Context, query string, args ...any) ([]models.Debt, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	debts := []models.Debt{}
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

func (s *Store) CountPaidDebts(ctx context.Context, expenseID int64) (int, error) {
	var n int
	err := s.q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM debts WHERE expense_id = ? AND status = ?", expenseID, models.DebtStatusPaid).Scan(&n)
	return n, err
}

// MarkDebtPaid flips a pending debt to paid. It reports false when the debt
// was not pending, leaving the caller to tell a missing debt from a paid one.
func (s *Store) MarkDebtPaid(ctx context.Context, id int64, at time.Time) (bool, error) {
	res, err := s.q.ExecContext(ctx,
		"UPDATE debts SET status = ?, paid_at = ? WHERE id = ? AND status = ?",
		models.DebtStatusPaid, formatTime(at), id, models.DebtStatusPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// PendingReminder is one pending debt of a participant that has an e-mail
// address.
type PendingReminder struct {
	ParticipantID int64
	Name          string
	Email         string
	EventName     string
	OwedTo        string
	Amount        decimal.Decimal
	Since         time.Time
}

func (s *Store) PendingReminders(ctx context.Context) ([]PendingReminder, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT p.id, p.name, p.email, e.name, o.name, d.amount, d.created_at
		FROM debts d
		JOIN participants p ON p.id = d.participant_id
		JOIN participants o ON o.id = d.owed_to_participant_id
		JOIN events e ON e.id = d.event_id
		WHERE d.status = ? AND p.email <> ''
		ORDER BY p.id, d.id`, models.DebtStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []PendingReminder
	for rows.Next() {
		var (
			r     PendingReminder
			since nullTime
		)
		if err := rows.Scan(&r.ParticipantID, &r.Name, &r.Email, &r.EventName, &r.OwedTo, &r.Amount, &since); err != nil {
			return nil, err
		}
		r.Since = since.Time
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}
