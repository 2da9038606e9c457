package settlement

import (
	"cuentas_claras/internal/models"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// UncategorizedLabel names the bucket for expenses without a category.
const UncategorizedLabel = "Sin categoría"

// ByCategory groups an event's expenses by category. names maps category ids
// to display names; an id missing from it is shown as "#<id>". Groups are
// ordered by total, largest first, then by name.
func ByCategory(expenses []models.Expense, names map[int64]string) []models.CategoryTotal {
	type bucket struct {
		id    *int64
		name  string
		total decimal.Decimal
		count int
	}

	eventTotal := decimal.Zero
	buckets := make(map[int64]*bucket)
	var uncategorized *bucket

	for _, e := range expenses {
		eventTotal = eventTotal.Add(e.Amount)

		var b *bucket
		if e.CategoryID == nil {
			if uncategorized == nil {
				uncategorized = &bucket{name: UncategorizedLabel}
			}
			b = uncategorized
		} else {
			id := *e.CategoryID
			b = buckets[id]
			if b == nil {
				name, ok := names[id]
				if !ok {
					name = "#" + strconv.FormatInt(id, 10)
				}
				b = &bucket{id: &id, name: name}
				buckets[id] = b
			}
		}
		b.total = b.total.Add(e.Amount)
		b.count++
	}

	all := make([]*bucket, 0, len(buckets)+1)
	for _, b := range buckets {
		all = append(all, b)
	}
	if uncategorized != nil {
		all = append(all, uncategorized)
	}

	sort.Slice(all, func(i, j int) bool {
		if c := all[i].total.Cmp(all[j].total); c != 0 {
			return c > 0
		}
		return all[i].name < all[j].name
	})

	out := make([]models.CategoryTotal, 0, len(all))
	for _, b := range all {
		out = append(out, models.CategoryTotal{
			CategoryID:   b.id,
			CategoryName: b.name,
			Total:        Round2(b.total),
			ExpenseCount: b.count,
			Percentage:   Percent(b.total, eventTotal),
		})
	}
	return out
}
