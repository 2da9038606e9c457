package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID            int64           `json:"id" db:"id"`
	EventID       int64           `json:"eventId" db:"event_id"`
	ParticipantID int64           `json:"participantId" db:"participant_id"`
	CategoryID    *int64          `json:"categoryId" db:"category_id"`
	Description   string          `json:"description" db:"description"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	SplitStrategy string          `json:"splitStrategy" db:"split_strategy"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	Debts         []Debt          `json:"debts,omitempty" db:"-"`
}
