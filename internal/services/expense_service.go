package services

import (
	"context"
	"cuentas_claras/internal/apperrors"
	"cuentas_claras/internal/events"
	"cuentas_claras/internal/metrics"
	"cuentas_claras/internal/models"
	"cuentas_claras/internal/repositories/store"
	"cuentas_claras/internal/settlement"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type NewExpense struct {
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	EventID       int64           `json:"eventId"`
	ParticipantID int64           `json:"participantId"`
	CategoryID    *int64          `json:"categoryId"`
	SplitStrategy string          `json:"splitStrategy"`
}

// CreateExpense records an expense and the debts it generates in one
// transaction. Every participant of the event at this moment takes a share;
// the payer's own share is retained rather than recorded as a debt.
func (l *Ledger) CreateExpense(ctx context.Context, in NewExpense) (models.Expense, error) {
	description, err := requireName("description", in.Description, maxNameLength)
	if err != nil {
		return models.Expense{}, err
	}
	if !in.Amount.IsPositive() {
		return models.Expense{}, apperrors.Validation("amount", "must be greater than zero")
	}
	if in.Amount.GreaterThan(maxAmount) {
		return models.Expense{}, apperrors.Validation("amount", "must not exceed %s", maxAmount.StringFixed(2))
	}
	if !settlement.HasCents(in.Amount) {
		return models.Expense{}, apperrors.Validation("amount", "must not have more than two decimals")
	}
	if err := requireID("eventId", in.EventID); err != nil {
		return models.Expense{}, err
	}
	if err := requireID("participantId", in.ParticipantID); err != nil {
		return models.Expense{}, err
	}
	if in.CategoryID != nil {
		if err := requireID("categoryId", *in.CategoryID); err != nil {
			return models.Expense{}, err
		}
	}
	strategy, err := settlement.LookupStrategy(strings.TrimSpace(in.SplitStrategy))
	if err != nil {
		return models.Expense{}, err
	}

	unlock := l.locks.Lock(in.EventID)
	defer unlock()

	exp := models.Expense{
		EventID:       in.EventID,
		ParticipantID: in.ParticipantID,
		CategoryID:    in.CategoryID,
		Description:   description,
		Amount:        in.Amount,
		SplitStrategy: strategy.Name(),
	}
	err = l.store.WithTx(ctx, func(tx *store.Store) error {
		event, err := tx.LockEvent(ctx, in.EventID)
		if err != nil {
			return referenceErr(err, "eventId", "event", in.EventID)
		}
		if event.Status == models.EventStatusFinalized {
			return apperrors.InvalidState("event %d is finalized and does not accept expenses", event.ID)
		}

		payer, err := tx.GetParticipant(ctx, in.ParticipantID)
		if err != nil {
			return referenceErr(err, "participantId", "participant", in.ParticipantID)
		}
		if payer.EventID != event.ID {
			return apperrors.Validation("participantId", "participant %d does not belong to event %d", payer.ID, event.ID)
		}
		if in.CategoryID != nil {
			if _, err := tx.GetCategory(ctx, *in.CategoryID); err != nil {
				return referenceErr(err, "categoryId", "category", *in.CategoryID)
			}
		}

		roster, err := tx.ListParticipants(ctx, event.ID)
		if err != nil {
			return err
		}
		if err := tx.CreateExpense(ctx, &exp); err != nil {
			return fmt.Errorf("insert expense: %w", err)
		}

		debts, err := settlement.DeriveDebts(exp, roster, strategy)
		if err != nil {
			return err
		}
		for i := range debts {
			debts[i].CreatedAt = exp.CreatedAt
			if err := tx.CreateDebt(ctx, &debts[i]); err != nil {
				return fmt.Errorf("insert debt: %w", err)
			}
		}
		// Re-read so names of both parties are filled in.
		if exp.Debts, err = tx.ListDebtsByExpense(ctx, exp.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return models.Expense{}, err
	}

	metrics.ExpensesCreated.Inc()
	metrics.DebtsGenerated.Add(float64(len(exp.Debts)))

	msg := events.NewMessage(events.ExpenseCreated, exp.EventID).WithAmount(exp.Amount)
	msg.ExpenseID = exp.ID
	msg.DebtCount = len(exp.Debts)
	l.afterEventWrite(ctx, exp.EventID, &msg)

	return exp, nil
}

// GetExpense returns an expense with its debts.
func (l *Ledger) GetExpense(ctx context.Context, id int64) (models.Expense, error) {
	var exp models.Expense
	err := l.store.ReadTx(ctx, func(tx *store.Store) error {
		var err error
		if exp, err = tx.GetExpense(ctx, id); err != nil {
			return lookupErr(err, "expense", id)
		}
		exp.Debts, err = tx.ListDebtsByExpense(ctx, id)
		return err
	})
	return exp, err
}

// ListExpenses lists one event's expenses, or all of them when eventID is
// zero.
func (l *Ledger) ListExpenses(ctx context.Context, eventID int64) ([]models.Expense, error) {
	if eventID != 0 {
		if _, err := l.GetEvent(ctx, eventID); err != nil {
			return nil, err
		}
	}
	list, err := l.store.ListExpenses(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return list, nil
}

// DeleteExpense removes an expense and its debts. It is refused once any of
// those debts has been paid.
func (l *Ledger) DeleteExpense(ctx context.Context, id int64) error {
	exp, err := l.store.GetExpense(ctx, id)
	if err != nil {
		return lookupErr(err, "expense", id)
	}

	unlock := l.locks.Lock(exp.EventID)
	defer unlock()

	err = l.store.WithTx(ctx, func(tx *store.Store) error {
		if _, err := tx.LockEvent(ctx, exp.EventID); err != nil {
			return lookupErr(err, "event", exp.EventID)
		}
		paid, err := tx.CountPaidDebts(ctx, id)
		if err != nil {
			return err
		}
		if paid > 0 {
			return apperrors.InvalidState("expense %d has %d paid debt(s) and cannot be deleted", id, paid)
		}
		if err := tx.DeleteExpense(ctx, id); err != nil {
			return lookupErr(err, "expense", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	msg := events.NewMessage(events.ExpenseDeleted, exp.EventID).WithAmount(exp.Amount)
	msg.ExpenseID = id
	l.afterEventWrite(ctx, exp.EventID, &msg)
	return nil
}
