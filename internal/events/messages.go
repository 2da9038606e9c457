package events

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Routing keys of the ledger's domain events.
const (
	ExpenseCreated = "expense.created"
	ExpenseDeleted = "expense.deleted"
	DebtPaid       = "debt.paid"
	EventDeleted   = "event.deleted"
)

type Message struct {
	Type       string           `json:"type"`
	EventID    int64            `json:"event_id"`
	ExpenseID  int64            `json:"expense_id,omitempty"`
	DebtID     int64            `json:"debt_id,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	DebtCount  int              `json:"debt_count,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

func NewMessage(kind string, eventID int64) Message {
	return Message{Type: kind, EventID: eventID, OccurredAt: time.Now().UTC()}
}

func (m Message) WithAmount(d decimal.Decimal) Message {
	m.Amount = &d
	return m
}

func (m Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
