package settlement

import (
	"cuentas_claras/internal/apperrors"
	"cuentas_claras/internal/models"

	"github.com/shopspring/decimal"
)

// Balances computes every participant's position in one event. Shares come
// from the recorded debts plus what each payer retained, so the result
// always agrees with the debt table and the balances add up to zero.
// Output follows the order of participants.
func Balances(participants []models.Participant, expenses []models.Expense, debts []models.Debt) ([]models.ParticipantBalance, error) {
	retained, err := RetainedShares(expenses, debts)
	if err != nil {
		return nil, err
	}

	known := make(map[int64]bool, len(participants))
	for _, p := range participants {
		known[p.ID] = true
	}

	paid := make(map[int64]decimal.Decimal)
	owed := make(map[int64]decimal.Decimal)
	count := make(map[int64]int)

	for _, e := range expenses {
		if !known[e.ParticipantID] {
			return nil, apperrors.Computation("expense %d paid by participant %d outside the event", e.ID, e.ParticipantID)
		}
		paid[e.ParticipantID] = paid[e.ParticipantID].Add(e.Amount)
		owed[e.ParticipantID] = owed[e.ParticipantID].Add(retained[e.ID])
		count[e.ParticipantID]++
	}
	for _, d := range debts {
		if !known[d.ParticipantID] {
			return nil, apperrors.Computation("debt %d owed by participant %d outside the event", d.ID, d.ParticipantID)
		}
		owed[d.ParticipantID] = owed[d.ParticipantID].Add(d.Amount)
	}

	out := make([]models.ParticipantBalance, 0, len(participants))
	for _, p := range participants {
		balance := paid[p.ID].Sub(owed[p.ID])
		out = append(out, models.ParticipantBalance{
			ParticipantID: p.ID,
			Name:          p.Name,
			TotalPaid:     Round2(paid[p.ID]),
			TotalOwed:     Round2(owed[p.ID]),
			Balance:       Round2(balance),
			ExpensesPaid:  count[p.ID],
			State:         balanceState(balance),
		})
	}
	return out, nil
}

func balanceState(balance decimal.Decimal) string {
	switch balance.Sign() {
	case 1:
		return models.BalanceCreditor
	case -1:
		return models.BalanceDebtor
	default:
		return models.BalanceSettled
	}
}
