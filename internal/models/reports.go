package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type EventSummary struct {
	EventID               int64           `json:"id_evento"`
	EventName             string          `json:"nombre_evento"`
	TotalSpent            decimal.Decimal `json:"total_gastado"`
	ExpenseCount          int             `json:"cantidad_gastos"`
	ParticipantCount      int             `json:"cantidad_participantes"`
	AveragePerParticipant decimal.Decimal `json:"promedio_por_persona"`
	PendingDebtTotal      decimal.Decimal `json:"total_deudas_pendientes"`
	PaidDebtTotal         decimal.Decimal `json:"total_deudas_pagadas"`
	PaidPercentage        decimal.Decimal `json:"porcentaje_pagado"`
}

type CategoryTotal struct {
	CategoryID   *int64          `json:"id_categoria"`
	CategoryName string          `json:"nombre_categoria"`
	Total        decimal.Decimal `json:"total"`
	ExpenseCount int             `json:"cantidad_gastos"`
	Percentage   decimal.Decimal `json:"porcentaje"`
}

const (
	BalanceCreditor = "a favor"
	BalanceDebtor   = "a pagar"
	BalanceSettled  = "saldado"
)

type ParticipantBalance struct {
	ParticipantID int64           `json:"id_participante"`
	Name          string          `json:"nombre"`
	TotalPaid     decimal.Decimal `json:"total_pagado"`
	TotalOwed     decimal.Decimal `json:"total_debe"`
	Balance       decimal.Decimal `json:"balance"`
	ExpensesPaid  int             `json:"cantidad_gastos_realizados"`
	State         string          `json:"estado"`
}

type PeriodTotal struct {
	Period     string          `json:"periodo"`
	EventCount int             `json:"cantidad_eventos"`
	TotalSpent decimal.Decimal `json:"total_gastado"`
}

type GeneralStats struct {
	TotalEvents        int             `json:"total_eventos"`
	TotalExpenses      int             `json:"total_gastos_registrados"`
	TotalSpent         decimal.Decimal `json:"monto_total_gastado"`
	UniqueParticipants int             `json:"total_participantes_unicos"`
	ActiveEvents       int             `json:"eventos_activos"`
	FinalizedEvents    int             `json:"eventos_finalizados"`
	PendingDebtTotal   decimal.Decimal `json:"deudas_pendientes"`
	PaidDebtTotal      decimal.Decimal `json:"deudas_pagadas"`
}

type EventListItem struct {
	EventID   int64     `json:"id_evento"`
	Name      string    `json:"nombre"`
	Status    string    `json:"estado"`
	CreatedAt time.Time `json:"fecha_creacion"`
}

// EventSnapshot is everything the per-event reports read, loaded in one
// transaction.
type EventSnapshot struct {
	Event        Event
	Participants []Participant
	Expenses     []Expense
	Debts        []Debt
	Categories   map[int64]string
}

// LedgerSnapshot is the cross-event counterpart of EventSnapshot.
type LedgerSnapshot struct {
	Events       []Event
	Participants []Participant
	Expenses     []Expense
	Debts        []Debt
}
