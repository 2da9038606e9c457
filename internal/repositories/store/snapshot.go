package store

import (
	"context"
	"cuentas_claras/internal/models"
)

// LoadEventSnapshot reads everything the per-event reports need in one
// transaction.
func (s *Store) LoadEventSnapshot(ctx context.Context, eventID int64) (models.EventSnapshot, error) {
	var snap models.EventSnapshot
	err := s.ReadTx(ctx, func(tx *Store) error {
		var err error
		if snap.Event, err = tx.GetEvent(ctx, eventID); err != nil {
			return err
		}
		if snap.Participants, err = tx.ListParticipants(ctx, eventID); err != nil {
			return err
		}
		if snap.Expenses, err = tx.ListExpenses(ctx, eventID); err != nil {
			return err
		}
		if snap.Debts, err = tx.ListDebts(ctx, models.DebtFilter{EventID: eventID}); err != nil {
			return err
		}
		snap.Categories, err = tx.CategoryNames(ctx)
		return err
	})
	return snap, err
}

// LoadLedgerSnapshot reads every event with its participants, expenses and
// debts in one transaction.
func (s *Store) LoadLedgerSnapshot(ctx context.Context) (models.LedgerSnapshot, error) {
	var snap models.LedgerSnapshot
	err := s.ReadTx(ctx, func(tx *Store) error {
		var err error
		if snap.Events, err = tx.ListEvents(ctx); err != nil {
			return err
		}
		if snap.Participants, err = tx.ListParticipants(ctx, 0); err != nil {
			return err
		}
		if snap.Expenses, err = tx.ListExpenses(ctx, 0); err != nil {
			return err
		}
		snap.Debts, err = tx.ListDebts(ctx, models.DebtFilter{})
		return err
	})
	return snap, err
}
