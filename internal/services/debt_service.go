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
	"time"

	"github.com/shopspring/decimal"
)

// ListDebts returns the debts matching f. Unknown event or participant ids
// are reported as not found rather than as an empty list.
func (l *Ledger) ListDebts(ctx context.Context, f models.DebtFilter) ([]models.Debt, error) {
	f.Status = strings.ToLower(strings.TrimSpace(f.Status))
	if f.Status != "" && !models.ValidDebtStatus(f.Status) {
		return nil, apperrors.Validation("status", "must be %q or %q", models.DebtStatusPending, models.DebtStatusPaid)
	}
	if f.EventID != 0 {
		if _, err := l.GetEvent(ctx, f.EventID); err != nil {
			return nil, err
		}
	}
	if f.ParticipantID != 0 {
		if _, err := l.GetParticipant(ctx, f.ParticipantID); err != nil {
			return nil, err
		}
	}

	list, err := l.store.ListDebts(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	return list, nil
}

// PendingTotal sums the pending debts matching f.
func (l *Ledger) PendingTotal(ctx context.Context, f models.DebtFilter) (decimal.Decimal, error) {
	f.Status = models.DebtStatusPending
	list, err := l.ListDebts(ctx, f)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, d := range list {
		total = total.Add(d.Amount)
	}
	return settlement.Round2(total), nil
}

// PayDebt marks a pending debt as paid. Paying it a second time is an
// InvalidStateError.
func (l *Ledger) PayDebt(ctx context.Context, id int64) (models.Debt, error) {
	debt, err := l.store.GetDebt(ctx, id)
	if err != nil {
		return debt, lookupErr(err, "debt", id)
	}

	unlock := l.locks.Lock(debt.EventID)
	defer unlock()

	err = l.store.WithTx(ctx, func(tx *store.Store) error {
		if _, err := tx.LockEvent(ctx, debt.EventID); err != nil {
			// The event went away with its debts.
			return lookupErr(err, "debt", id)
		}
		ok, err := tx.MarkDebtPaid(ctx, id, time.Now().UTC().Truncate(time.Second))
		if err != nil {
			return err
		}
		if debt, err = tx.GetDebt(ctx, id); err != nil {
			return lookupErr(err, "debt", id)
		}
		if !ok {
			return apperrors.InvalidState("debt %d is already %s", id, debt.Status)
		}
		return nil
	})
	if err != nil {
		return models.Debt{}, err
	}

	metrics.DebtsPaid.Inc()

	msg := events.NewMessage(events.DebtPaid, debt.EventID).WithAmount(debt.Amount)
	msg.ExpenseID = debt.ExpenseID
	msg.DebtID = debt.ID
	l.afterEventWrite(ctx, debt.EventID, &msg)

	return debt, nil
}
