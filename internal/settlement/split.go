package settlement

import (
	"cuentas_claras/internal/apperrors"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// StrategyEqual divides an expense evenly among every participant of its event.
const StrategyEqual = "equal"

// Share is the part of an expense that falls on one participant. The payer's
// share is the amount they keep for themselves.
type Share struct {
	ParticipantID int64
	Amount        decimal.Decimal
}

// Strategy splits an expense across the participants of its event. The
// returned shares must cover every participant exactly once and add up to
// amount.
type Strategy interface {
	Name() string
	Split(amount decimal.Decimal, payerID int64, participantIDs []int64) ([]Share, error)
}

var strategies = map[string]Strategy{
	StrategyEqual: EqualSplit{},
}

// LookupStrategy returns the registered strategy for name. An empty name
// selects the equal split.
func LookupStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = StrategyEqual
	}
	s, ok := strategies[name]
	if !ok {
		return nil, apperrors.Validation("splitStrategy", "unknown split strategy %q, must be one of: %s",
			name, strings.Join(StrategyNames(), ", "))
	}
	return s, nil
}

// StrategyNames lists the registered strategies in a stable order.
func StrategyNames() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EqualSplit charges every non-payer Round2(amount / n) and leaves the
// rounding remainder with the payer, so no cent is lost or invented.
// $10.00 over three people is 3.33 + 3.33 owed and 3.34 kept by the payer.
type EqualSplit struct{}

func (EqualSplit) Name() string { return StrategyEqual }

func (EqualSplit) Split(amount decimal.Decimal, payerID int64, participantIDs []int64) ([]Share, error) {
	if err := validateSplitInput(amount, payerID, participantIDs); err != nil {
		return nil, err
	}

	n := decimal.NewFromInt(int64(len(participantIDs)))
	each := Round2(amount.Div(n))
	// For tiny amounts rounding up can charge the others more than was
	// spent. Truncate instead so the payer never keeps a negative share.
	if each.Mul(n.Sub(decimal.NewFromInt(1))).GreaterThan(amount) {
		each = amount.Div(n).Truncate(2)
	}

	shares := make([]Share, 0, len(participantIDs))
	owed := decimal.Zero
	for _, id := range participantIDs {
		if id == payerID {
			continue
		}
		shares = append(shares, Share{ParticipantID: id, Amount: each})
		owed = owed.Add(each)
	}

	retained := amount.Sub(owed)
	if retained.IsNegative() {
		return nil, apperrors.Computation("equal split of %s over %d participants leaves payer with %s",
			amount, len(participantIDs), retained)
	}

	return append([]Share{{ParticipantID: payerID, Amount: retained}}, shares...), nil
}

func validateSplitInput(amount decimal.Decimal, payerID int64, participantIDs []int64) error {
	if !amount.IsPositive() {
		return apperrors.Validation("amount", "must be greater than 0")
	}
	if len(participantIDs) == 0 {
		return apperrors.Validation("participants", "event has no participants")
	}

	seen := make(map[int64]bool, len(participantIDs))
	payerFound := false
	for _, id := range participantIDs {
		if seen[id] {
			return apperrors.Computation("participant %d listed twice", id)
		}
		seen[id] = true
		if id == payerID {
			payerFound = true
		}
	}
	if !payerFound {
		return apperrors.Validation("participantId", "payer %d does not belong to the event", payerID)
	}
	return nil
}
