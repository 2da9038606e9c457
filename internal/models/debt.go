package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DebtStatusPending = "pending"
	DebtStatusPaid    = "paid"
)

// Debt is one participant's share of a single expense, owed to its payer.
type Debt struct {
	ID                  int64           `json:"id" db:"id"`
	EventID             int64           `json:"eventId" db:"event_id"`
	ExpenseID           int64           `json:"expenseId" db:"expense_id"`
	ParticipantID       int64           `json:"participantId" db:"participant_id"`
	ParticipantName     string          `json:"participantName,omitempty" db:"participant_name"`
	OwedToParticipantID int64           `json:"owedToParticipantId" db:"owed_to_participant_id"`
	OwedToDescription   string          `json:"owedToDescription,omitempty" db:"owed_to_name"`
	Amount              decimal.Decimal `json:"amount" db:"amount"`
	Status              string          `json:"status" db:"status"`
	CreatedAt           time.Time       `json:"createdAt" db:"created_at"`
	PaidAt              *time.Time      `json:"paidAt,omitempty" db:"paid_at"`
}

func ValidDebtStatus(status string) bool {
	return status == DebtStatusPending || status == DebtStatusPaid
}

// DebtFilter narrows a debt listing. Zero values mean "any".
type DebtFilter struct {
	EventID       int64
	ParticipantID int64
	Status        string
}
