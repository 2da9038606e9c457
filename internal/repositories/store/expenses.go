package store

import (
	"context"
	"cuentas_claras/internal/models"
	"database/sql"
	"errors"
)

const expenseColumns = "id, event_id, participant_id, category_id, description, amount, split_strategy, created_at"

func scanExpense(row interface{ Scan(...any) error }) (models.Expense, error) {
	var (
		e        models.Expense
		category sql.NullInt64
		created  nullTime
	)
	err := row.Scan(&e.ID, &e.EventID, &e.ParticipantID, &category, &e.Description, &e.Amount, &e.SplitStrategy, &created)
	if err != nil {
		return e, err
	}
	e.CategoryID = scanNullableID(category)
	e.CreatedAt = created.Time
	return e, nil
}

func (s *Store) CreateExpense(ctx context.Context, e *models.Expense) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now()
	}

	res, err := s.q.ExecContext(ctx, `
		INSERT INTO expenses (event_id, participant_id, category_id, description, amount, split_strategy, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.EventID, e.ParticipantID, nullableID(e.CategoryID), e.Description, e.Amount, e.SplitStrategy, formatTime(e.CreatedAt))
	if err != nil {
		return err
	}
	e.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetExpense(ctx context.Context, id int64) (models.Expense, error) {
	e, err := scanExpense(s.q.QueryRowContext(ctx, "SELECT "+expenseColumns+" FROM expenses WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return e, ErrNotFound
	}
	return e, err
}

// ListExpenses returns the expenses of eventID, or of every event when
// eventID is zero, newest first.
func (s *Store) ListExpenses(ctx context.Context, eventID int64) ([]models.Expense, error) {
	query := "SELECT " + expenseColumns + " FROM expenses"
	var args []any
	if eventID != 0 {
		query += " WHERE event_id = ?"
		args = append(args, eventID)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// DeleteExpense removes an expense and its debts. Callers run it inside
// WithTx after checking that none of the debts is paid.
func (s *Store) DeleteExpense(ctx context.Context, id int64) error {
	if _, err := s.q.ExecContext(ctx, "DELETE FROM debts WHERE expense_id = ?", id); err != nil {
		return err
	}
	res, err := s.q.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectRow(res)
}
