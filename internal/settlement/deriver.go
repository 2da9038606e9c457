package settlement

import (
	"cuentas_claras/internal/apperrors"
	"cuentas_claras/internal/models"

	"github.com/shopspring/decimal"
)

// DeriveDebts splits exp across participants with strategy and returns one
// pending debt per non-payer whose share is above zero. The payer's own
// share never becomes a debt. The split is checked against the expense
// amount before anything is returned.
func DeriveDebts(exp models.Expense, participants []models.Participant, strategy Strategy) ([]models.Debt, error) {
	ids := make([]int64, 0, len(participants))
	names := make(map[int64]string, len(participants))
	for _, p := range participants {
		if p.EventID != exp.EventID {
			return nil, apperrors.Computation("participant %d belongs to event %d, not %d", p.ID, p.EventID, exp.EventID)
		}
		ids = append(ids, p.ID)
		names[p.ID] = p.Name
	}

	shares, err := strategy.Split(exp.Amount, exp.ParticipantID, ids)
	if err != nil {
		return nil, err
	}
	if err := reconcileShares(exp, ids, shares); err != nil {
		return nil, err
	}

	debts := make([]models.Debt, 0, len(shares))
	for _, s := range shares {
		if s.ParticipantID == exp.ParticipantID || s.Amount.IsZero() {
			continue
		}
		debts = append(debts, models.Debt{
			EventID:             exp.EventID,
			ExpenseID:           exp.ID,
			ParticipantID:       s.ParticipantID,
			ParticipantName:     names[s.ParticipantID],
			OwedToParticipantID: exp.ParticipantID,
			OwedToDescription:   names[exp.ParticipantID],
			Amount:              s.Amount,
			Status:              models.DebtStatusPending,
		})
	}
	return debts, nil
}

func reconcileShares(exp models.Expense, ids []int64, shares []Share) error {
	expected := make(map[int64]bool, len(ids))
	for _, id := range ids {
		expected[id] = true
	}

	total := decimal.Zero
	for _, s := range shares {
		if !expected[s.ParticipantID] {
			return apperrors.Computation("expense %d: share for unexpected participant %d", exp.ID, s.ParticipantID)
		}
		delete(expected, s.ParticipantID)
		if s.Amount.IsNegative() {
			return apperrors.Computation("expense %d: negative share %s for participant %d", exp.ID, s.Amount, s.ParticipantID)
		}
		if !HasCents(s.Amount) {
			return apperrors.Computation("expense %d: share %s is not a whole number of cents", exp.ID, s.Amount)
		}
		total = total.Add(s.Amount)
	}
	if len(expected) > 0 {
		return apperrors.Computation("expense %d: %d participants left without a share", exp.ID, len(expected))
	}
	if !total.Equal(exp.Amount) {
		return apperrors.Computation("expense %d: shares add up to %s, expense is %s", exp.ID, total, exp.Amount)
	}
	return nil
}

// RetainedShares returns, per expense, the part its payer keeps: the amount
// minus every debt recorded against it, paid or not. It fails when a debt
// points at an unknown expense, is owed by the payer, or when the debts of an
// expense exceed its amount.
func RetainedShares(expenses []models.Expense, debts []models.Debt) (map[int64]decimal.Decimal, error) {
	byID := make(map[int64]models.Expense, len(expenses))
	retained := make(map[int64]decimal.Decimal, len(expenses))
	for _, e := range expenses {
		byID[e.ID] = e
		retained[e.ID] = e.Amount
	}

	for _, d := range debts {
		e, ok := byID[d.ExpenseID]
		if !ok {
			return nil, apperrors.Computation("debt %d references unknown expense %d", d.ID, d.ExpenseID)
		}
		if d.ParticipantID == e.ParticipantID {
			return nil, apperrors.Computation("debt %d is owed by the payer of expense %d", d.ID, e.ID)
		}
		if !d.Amount.IsPositive() {
			return nil, apperrors.Computation("debt %d has non-positive amount %s", d.ID, d.Amount)
		}
		retained[e.ID] = retained[e.ID].Sub(d.Amount)
	}

	for id, r := range retained {
		if r.IsNegative() {
			return nil, apperrors.Computation("debts of expense %d exceed its amount by %s", id, r.Neg())
		}
	}
	return retained, nil
}
