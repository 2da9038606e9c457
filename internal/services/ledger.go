// Package services implements the ledger operations on top of the store:
// validation, per-event write serialization, debt derivation, cache
// invalidation and domain events. Reports live in ReportService.
package services

import (
	"context"
	"cuentas_claras/internal/events"
	"cuentas_claras/internal/repositories/store"
)

type Ledger struct {
	store     *store.Store
	locks     *EventLocks
	reports   Invalidator
	publisher events.Publisher
}

func NewLedger(st *store.Store, reports Invalidator, publisher events.Publisher) *Ledger {
	if reports == nil {
		reports = noopInvalidator{}
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Ledger{
		store:     st,
		locks:     NewEventLocks(),
		reports:   reports,
		publisher: publisher,
	}
}

// afterEventWrite runs once a write touching eventID has committed.
func (l *Ledger) afterEventWrite(ctx context.Context, eventID int64, msg *events.Message) {
	l.reports.InvalidateEvent(ctx, eventID)
	if msg != nil {
		logPublishErr(ctx, l.publisher.Publish(ctx, *msg), msg.Type)
	}
}
