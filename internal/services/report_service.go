package services

import (
	"context"
	"cuentas_claras/internal/cache"
	"cuentas_claras/internal/metrics"
	"cuentas_claras/internal/models"
	"cuentas_claras/internal/repositories/store"
	"cuentas_claras/internal/settlement"
	"cuentas_claras/pkg/utils"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

const (
	reportSummary    = "summary"
	reportCategories = "categories"
	reportBalance    = "balance"
	reportStats      = "stats"
	reportEventsList = "events-list"
)

// ReportService answers the read-only reports. Results are cached per event
// and dropped by the ledger after every committed write; concurrent misses
// for the same key share one load.
type ReportService struct {
	store *store.Store
	cache cache.ReportCache
	group singleflight.Group
	// generation changes on every invalidation; a report loaded under an
	// older generation is never left in the cache.
	generation  atomic.Uint64
	loadTimeout time.Duration
}

const defaultReportLoadTimeout = 30 * time.Second

func NewReportService(st *store.Store, c cache.ReportCache) *ReportService {
	return &ReportService{store: st, cache: c, loadTimeout: defaultReportLoadTimeout}
}

func (s *ReportService) InvalidateEvent(ctx context.Context, eventID int64) {
	s.generation.Add(1)
	s.dropPrefix(ctx, cache.EventPrefix(eventID))
	s.dropPrefix(ctx, cache.GlobalPrefix())
}

func (s *ReportService) InvalidateAll(ctx context.Context) {
	s.generation.Add(1)
	s.dropPrefix(ctx, cache.AllPrefix())
}

func (s *ReportService) dropPrefix(ctx context.Context, prefix string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, prefix); err != nil {
		utils.LoggerFrom(ctx).WithError(err).WithField("prefix", prefix).Warn("failed to invalidate report cache")
	}
}

// cachedReport serves key from the cache or runs load once for all callers
// waiting on it. The load belongs to no single caller: it runs detached with
// its own timeout, and a caller whose ctx ends only stops waiting.
func cachedReport[T any](ctx context.Context, s *ReportService, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T
	log := utils.LoggerFrom(ctx).WithField("key", key)

	if s.cache != nil {
		raw, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			metrics.ReportCache.WithLabelValues("error").Inc()
			log.WithError(err).Warn("report cache read failed")
		case ok:
			var v T
			if err := json.Unmarshal(raw, &v); err == nil {
				metrics.ReportCache.WithLabelValues("hit").Inc()
				return v, nil
			}
			log.Warn("discarding undecodable cached report")
		}
	}
	metrics.ReportCache.WithLabelValues("miss").Inc()

	gen := s.generation.Load()
	ch := s.group.DoChan(fmt.Sprintf("%s@%d", key, gen), func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()

		v, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		s.keep(loadCtx, key, gen, v)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// keep caches a report loaded at generation gen. An invalidation that lands
// between the generation check and the write has already run its delete, so
// the generation is checked again once the value is stored.
func (s *ReportService) keep(ctx context.Context, key string, gen uint64, v any) {
	if s.cache == nil || s.generation.Load() != gen {
		return
	}
	log := utils.LoggerFrom(ctx).WithField("key", key)

	raw, err := json.Marshal(v)
	if err != nil {
		log.WithError(err).Warn("cannot encode report for the cache")
		return
	}
	if err := s.cache.Set(ctx, key, raw); err != nil {
		log.WithError(err).Warn("report cache write failed")
		return
	}
	if s.generation.Load() != gen {
		if err := s.cache.Delete(ctx, key); err != nil {
			log.WithError(err).Warn("failed to drop report cached during a write")
		}
	}
}

func (s *ReportService) eventSnapshot(ctx context.Context, eventID int64) (models.EventSnapshot, error) {
	snap, err := s.store.LoadEventSnapshot(ctx, eventID)
	if err != nil {
		return snap, lookupErr(err, "event", eventID)
	}
	return snap, nil
}

func (s *ReportService) ledgerSnapshot(ctx context.Context) (models.LedgerSnapshot, error) {
	snap, err := s.store.LoadLedgerSnapshot(ctx)
	if err != nil {
		return snap, fmt.Errorf("load ledger snapshot: %w", err)
	}
	return snap, nil
}

// EventSummary reports the totals of one event.
func (s *ReportService) EventSummary(ctx context.Context, eventID int64) (models.EventSummary, error) {
	return cachedReport(ctx, s, cache.EventKey(eventID, reportSummary), func(ctx context.Context) (models.EventSummary, error) {
		snap, err := s.eventSnapshot(ctx, eventID)
		if err != nil {
			return models.EventSummary{}, err
		}
		return Summarize(snap)
	})
}

// EventCategories reports one event's spending per category.
func (s *ReportService) EventCategories(ctx context.Context, eventID int64) ([]models.CategoryTotal, error) {
	return cachedReport(ctx, s, cache.EventKey(eventID, reportCategories), func(ctx context.Context) ([]models.CategoryTotal, error) {
		snap, err := s.eventSnapshot(ctx, eventID)
		if err != nil {
			return nil, err
		}
		return settlement.ByCategory(snap.Expenses, snap.Categories), nil
	})
}

// EventBalance reports what each participant of an event paid and owes.
func (s *ReportService) EventBalance(ctx context.Context, eventID int64) ([]models.ParticipantBalance, error) {
	return cachedReport(ctx, s, cache.EventKey(eventID, reportBalance), func(ctx context.Context) ([]models.ParticipantBalance, error) {
		snap, err := s.eventSnapshot(ctx, eventID)
		if err != nil {
			return nil, err
		}
		return settlement.Balances(snap.Participants, snap.Expenses, snap.Debts)
	})
}

// EventsByPeriod buckets events by month or year of creation.
func (s *ReportService) EventsByPeriod(ctx context.Context, tipo, desde, hasta string) ([]models.PeriodTotal, error) {
	f, err := settlement.ParsePeriodFilter(tipo, desde, hasta)
	if err != nil {
		return nil, err
	}

	key := cache.GlobalKey(fmt.Sprintf("periods:%s:%s:%s", f.Granularity, strings.TrimSpace(desde), strings.TrimSpace(hasta)))
	return cachedReport(ctx, s, key, func(ctx context.Context) ([]models.PeriodTotal, error) {
		snap, err := s.ledgerSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		return settlement.ByPeriod(snap.Events, settlement.TotalsByEvent(snap.Expenses), f), nil
	})
}

// GeneralStats reports totals across every event.
func (s *ReportService) GeneralStats(ctx context.Context) (models.GeneralStats, error) {
	return cachedReport(ctx, s, cache.GlobalKey(reportStats), func(ctx context.Context) (models.GeneralStats, error) {
		snap, err := s.ledgerSnapshot(ctx)
		if err != nil {
			return models.GeneralStats{}, err
		}
		return Stats(snap), nil
	})
}

// EventsList lists every event, newest first.
func (s *ReportService) EventsList(ctx context.Context) ([]models.EventListItem, error) {
	return cachedReport(ctx, s, cache.GlobalKey(reportEventsList), func(ctx context.Context) ([]models.EventListItem, error) {
		list, err := s.store.ListEvents(ctx)
		if err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
		items := make([]models.EventListItem, 0, len(list))
		for _, e := range list {
			items = append(items, models.EventListItem{EventID: e.ID, Name: e.Name, Status: e.Status, CreatedAt: e.CreatedAt})
		}
		return items, nil
	})
}

// Summarize builds an event summary and checks that the recorded debts
// still reconcile with the expenses.
func Summarize(snap models.EventSnapshot) (models.EventSummary, error) {
	if _, err := settlement.RetainedShares(snap.Expenses, snap.Debts); err != nil {
		return models.EventSummary{}, err
	}

	total := decimal.Zero
	for _, e := range snap.Expenses {
		total = total.Add(e.Amount)
	}
	pending, paid := debtTotals(snap.Debts)

	return models.EventSummary{
		EventID:               snap.Event.ID,
		EventName:             snap.Event.Name,
		TotalSpent:            settlement.Round2(total),
		ExpenseCount:          len(snap.Expenses),
		ParticipantCount:      len(snap.Participants),
		AveragePerParticipant: settlement.Average(total, len(snap.Participants)),
		PendingDebtTotal:      settlement.Round2(pending),
		PaidDebtTotal:         settlement.Round2(paid),
		PaidPercentage:        settlement.Percent(paid, pending.Add(paid)),
	}, nil
}

// Stats builds the cross-event statistics. Participants are counted once
// per distinct name, ignoring case and surrounding blanks.
func Stats(snap models.LedgerSnapshot) models.GeneralStats {
	stats := models.GeneralStats{
		TotalEvents:   len(snap.Events),
		TotalExpenses: len(snap.Expenses),
	}
	for _, e := range snap.Events {
		if e.Status == models.EventStatusFinalized {
			stats.FinalizedEvents++
		} else {
			stats.ActiveEvents++
		}
	}

	total := decimal.Zero
	for _, e := range snap.Expenses {
		total = total.Add(e.Amount)
	}
	stats.TotalSpent = settlement.Round2(total)

	names := make(map[string]struct{}, len(snap.Participants))
	for _, p := range snap.Participants {
		names[strings.ToLower(strings.TrimSpace(p.Name))] = struct{}{}
	}
	stats.UniqueParticipants = len(names)

	pending, paid := debtTotals(snap.Debts)
	stats.PendingDebtTotal = settlement.Round2(pending)
	stats.PaidDebtTotal = settlement.Round2(paid)
	return stats
}
