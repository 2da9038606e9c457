package services

import (
	"context"
	"cuentas_claras/internal/apperrors"
	"cuentas_claras/internal/models"
	"cuentas_claras/internal/repositories/store"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

type NewParticipant struct {
	EventID int64  `json:"eventId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// AddParticipant joins a person to an event. Names are unique within an
// event, ignoring case and surrounding blanks. Expenses recorded earlier are
// not re-split.
func (l *Ledger) AddParticipant(ctx context.Context, in NewParticipant) (models.Participant, error) {
	if err := requireID("eventId", in.EventID); err != nil {
		return models.Participant{}, err
	}
	name, err := requireName("name", in.Name, maxNameLength)
	if err != nil {
		return models.Participant{}, err
	}
	email := strings.TrimSpace(in.Email)
	if email != "" {
		addr, err := mail.ParseAddress(email)
		if err != nil {
			return models.Participant{}, apperrors.Validation("email", "is not a valid address")
		}
		email = addr.Address
		if utf8.RuneCountInString(email) > maxEmailLength {
			return models.Participant{}, apperrors.Validation("email", "must be at most %d characters", maxEmailLength)
		}
	}

	unlock := l.locks.Lock(in.EventID)
	defer unlock()

	p := models.Participant{EventID: in.EventID, Name: name, Email: email}
	err = l.store.WithTx(ctx, func(tx *store.Store) error {
		if _, err := tx.LockEvent(ctx, in.EventID); err != nil {
			return referenceErr(err, "eventId", "event", in.EventID)
		}
		existing, err := tx.ListParticipants(ctx, in.EventID)
		if err != nil {
			return err
		}
		for _, other := range existing {
			if strings.EqualFold(strings.TrimSpace(other.Name), name) {
				return apperrors.InvalidState("participant %q already belongs to event %d", name, in.EventID)
			}
		}
		return tx.CreateParticipant(ctx, &p)
	})
	if err != nil {
		return models.Participant{}, err
	}

	l.afterEventWrite(ctx, in.EventID, nil)
	return p, nil
}

func (l *Ledger) GetParticipant(ctx context.Context, id int64) (models.Participant, error) {
	p, err := l.store.GetParticipant(ctx, id)
	if err != nil {
		return p, lookupErr(err, "participant", id)
	}
	return p, nil
}

// ListParticipants lists one event's participants, or everyone when eventID
// is zero.
func (l *Ledger) ListParticipants(ctx context.Context, eventID int64) ([]models.Participant, error) {
	if eventID != 0 {
		if _, err := l.GetEvent(ctx, eventID); err != nil {
			return nil, err
		}
	}
	list, err := l.store.ListParticipants(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return list, nil
}

// RemoveParticipant deletes a participant that has not paid an expense and
// owes or is owed nothing.
func (l *Ledger) RemoveParticipant(ctx context.Context, id int64) error {
	p, err := l.GetParticipant(ctx, id)
	if err != nil {
		return err
	}

	unlock := l.locks.Lock(p.EventID)
	defer unlock()

	err = l.store.WithTx(ctx, func(tx *store.Store) error {
		if _, err := tx.LockEvent(ctx, p.EventID); err != nil {
			return lookupErr(err, "participant", id)
		}
		inUse, err := tx.ParticipantInUse(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return apperrors.InvalidState("participant %d has expenses or debts and cannot be removed", id)
		}
		if err := tx.DeleteParticipant(ctx, id); err != nil {
			return lookupErr(err, "participant", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	l.afterEventWrite(ctx, p.EventID, nil)
	return nil
}
