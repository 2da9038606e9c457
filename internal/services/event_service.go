package services

import (
	"context"
	"cuentas_claras/internal/apperrors"
	"cuentas_claras/internal/events"
	"cuentas_claras/internal/models"
	"cuentas_claras/internal/repositories/store"
	"fmt"
	"strings"
)

type NewEvent struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// EventUpdate is a partial update; nil fields are left unchanged.
type EventUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (l *Ledger) CreateEvent(ctx context.Context, in NewEvent) (models.Event, error) {
	name, err := requireName("name", in.Name, maxNameLength)
	if err != nil {
		return models.Event{}, err
	}
	status, err := eventStatus(in.Status)
	if err != nil {
		return models.Event{}, err
	}

	e := models.Event{Name: name, Description: strings.TrimSpace(in.Description), Status: status}
	if err := l.store.CreateEvent(ctx, &e); err != nil {
		return models.Event{}, fmt.Errorf("create event: %w", err)
	}

	l.reports.InvalidateEvent(ctx, e.ID)
	return e, nil
}

func (l *Ledger) GetEvent(ctx context.Context, id int64) (models.Event, error) {
	e, err := l.store.GetEvent(ctx, id)
	if err != nil {
		return e, lookupErr(err, "event", id)
	}
	return e, nil
}

func (l *Ledger) ListEvents(ctx context.Context) ([]models.Event, error) {
	list, err := l.store.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return list, nil
}

func (l *Ledger) UpdateEvent(ctx context.Context, id int64, in EventUpdate) (models.Event, error) {
	if in.Name == nil && in.Description == nil && in.Status == nil {
		return models.Event{}, apperrors.Validation("body", "no fields to update")
	}

	unlock := l.locks.Lock(id)
	defer unlock()

	var updated models.Event
	err := l.store.WithTx(ctx, func(tx *store.Store) error {
		e, err := tx.LockEvent(ctx, id)
		if err != nil {
			return lookupErr(err, "event", id)
		}
		if in.Name != nil {
			if e.Name, err = requireName("name", *in.Name, maxNameLength); err != nil {
				return err
			}
		}
		if in.Description != nil {
			e.Description = strings.TrimSpace(*in.Description)
		}
		if in.Status != nil {
			if e.Status, err = eventStatus(*in.Status); err != nil {
				return err
			}
		}
		if err := tx.UpdateEvent(ctx, e); err != nil {
			return lookupErr(err, "event", id)
		}
		updated = e
		return nil
	})
	if err != nil {
		return models.Event{}, err
	}

	l.afterEventWrite(ctx, id, nil)
	return updated, nil
}

// DeleteEvent removes an event together with its participants, expenses and
// debts.
func (l *Ledger) DeleteEvent(ctx context.Context, id int64) error {
	unlock := l.locks.Lock(id)
	defer unlock()

	err := l.store.WithTx(ctx, func(tx *store.Store) error {
		if _, err := tx.LockEvent(ctx, id); err != nil {
			return lookupErr(err, "event", id)
		}
		return tx.DeleteEvent(ctx, id)
	})
	if err != nil {
		return err
	}

	msg := events.NewMessage(events.EventDeleted, id)
	l.afterEventWrite(ctx, id, &msg)
	return nil
}

func eventStatus(raw string) (string, error) {
	status := strings.ToLower(strings.TrimSpace(raw))
	if status == "" {
		return models.EventStatusActive, nil
	}
	if !models.ValidEventStatus(status) {
		return "", apperrors.Validation("status", "must be %q or %q", models.EventStatusActive, models.EventStatusFinalized)
	}
	return status, nil
}
