package settlement

import (
	"cuentas_claras/internal/apperrors"
	"cuentas_claras/internal/models"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Granularity is the size of the buckets of a period report. Its values are
// the ones accepted in the tipo query parameter.
type Granularity string

const (
	// ByMonth buckets events by calendar month, keyed "2006-01".
	ByMonth Granularity = "mes"
	// ByYear buckets events by calendar year, keyed "2006".
	ByYear Granularity = "anio"
)

const dateLayout = "2006-01-02"

// PeriodFilter selects events by creation date. From and To are inclusive
// calendar days in UTC; a nil bound is open.
type PeriodFilter struct {
	Granularity Granularity
	From        *time.Time
	To          *time.Time
}

// ParsePeriodFilter validates the raw query values of a period report.
func ParsePeriodFilter(tipo, desde, hasta string) (PeriodFilter, error) {
	var f PeriodFilter

	switch g := Granularity(strings.ToLower(strings.TrimSpace(tipo))); g {
	case ByMonth, ByYear:
		f.Granularity = g
	case "":
		f.Granularity = ByMonth
	default:
		return f, apperrors.Validation("tipo", "must be %q or %q", ByMonth, ByYear)
	}

	var err error
	if f.From, err = parseDay("desde", desde); err != nil {
		return f, err
	}
	if f.To, err = parseDay("hasta", hasta); err != nil {
		return f, err
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return f, apperrors.Validation("desde", "must not be after hasta")
	}
	return f, nil
}

func parseDay(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return nil, apperrors.Validation(field, "must be a date formatted as YYYY-MM-DD")
	}
	return &t, nil
}

func (f PeriodFilter) includes(t time.Time) bool {
	t = t.UTC()
	if f.From != nil && t.Before(*f.From) {
		return false
	}
	if f.To != nil && !t.Before(f.To.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

func (g Granularity) key(t time.Time) string {
	if g == ByYear {
		return t.UTC().Format("2006")
	}
	return t.UTC().Format("2006-01")
}

// ByPeriod buckets events by creation date. totals holds the amount spent
// per event id; events without an entry count as zero. Buckets are ordered
// by period ascending.
func ByPeriod(events []models.Event, totals map[int64]decimal.Decimal, f PeriodFilter) []models.PeriodTotal {
	g := f.Granularity
	if g == "" {
		g = ByMonth
	}

	type bucket struct {
		count int
		total decimal.Decimal
	}
	buckets := make(map[string]*bucket)

	for _, e := range events {
		if !f.includes(e.CreatedAt) {
			continue
		}
		k := g.key(e.CreatedAt)
		b := buckets[k]
		if b == nil {
			b = &bucket{}
			buckets[k] = b
		}
		b.count++
		b.total = b.total.Add(totals[e.ID])
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]models.PeriodTotal, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.PeriodTotal{
			Period:     k,
			EventCount: buckets[k].count,
			TotalSpent: Round2(buckets[k].total),
		})
	}
	return out
}

// TotalsByEvent sums expense amounts per event.
func TotalsByEvent(expenses []models.Expense) map[int64]decimal.Decimal {
	totals := make(map[int64]decimal.Decimal)
	for _, e := range expenses {
		totals[e.EventID] = totals[e.EventID].Add(e.Amount)
	}
	return totals
}
