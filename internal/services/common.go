package services

import (
	"context"
	"cuentas_claras/internal/apperrors"
	"cuentas_claras/internal/models"
	"cuentas_claras/internal/repositories/store"
	"cuentas_claras/pkg/utils"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Column limits of the MySQL schema.
const (
	maxNameLength         = 255
	maxCategoryNameLength = 100
	maxEmailLength        = 255
)

// maxAmount is the largest value a DECIMAL(12,2) column holds.
var maxAmount = decimal.RequireFromString("9999999999.99")

// Invalidator drops cached reports after a write.
type Invalidator interface {
	InvalidateEvent(ctx context.Context, eventID int64)
	InvalidateAll(ctx context.Context)
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateEvent(context.Context, int64) {}
func (noopInvalidator) InvalidateAll(context.Context)          {}

// lookupErr turns a store miss into a NotFoundError and wraps anything else.
func lookupErr(err error, entity string, id int64) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound(entity, id)
	}
	return fmt.Errorf("load %s %d: %w", entity, id, err)
}

// referenceErr is lookupErr for ids supplied in a request body, where a
// missing row is the caller's mistake.
func referenceErr(err error, field, entity string, id int64) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.Validation(field, "%s %d does not exist", entity, id)
	}
	return fmt.Errorf("load %s %d: %w", entity, id, err)
}

func requireName(field, value string, limit int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperrors.Validation(field, "is required")
	}
	if utf8.RuneCountInString(value) > limit {
		return "", apperrors.Validation(field, "must be at most %d characters", limit)
	}
	return value, nil
}

func requireID(field string, id int64) error {
	if id <= 0 {
		return apperrors.Validation(field, "must be a positive id")
	}
	return nil
}

func logPublishErr(ctx context.Context, err error, kind string) {
	if err != nil {
		utils.LoggerFrom(ctx).WithError(err).WithField("type", kind).Warn("failed to publish domain event")
	}
}

func debtTotals(debts []models.Debt) (pending, paid decimal.Decimal) {
	for _, d := range debts {
		if d.Status == models.DebtStatusPaid {
			paid = paid.Add(d.Amount)
		} else {
			pending = pending.Add(d.Amount)
		}
	}
	return pending, paid
}
