// Package settlement holds the pure computations behind the ledger: money
// rounding, splitting expenses into debts, and the balance, category and
// period aggregates. Nothing here touches storage.
package settlement

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Round2 rounds to the nearest cent, halves away from zero. Rounding is done
// on the exact decimal value, so Round2(10.005) is 10.01.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FromAny coerces loosely typed input into a decimal. nil, unparseable
// strings, NaN, infinities and unsupported types all become zero.
func FromAny(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		return *x
	case decimal.NullDecimal:
		if !x.Valid {
			return decimal.Zero
		}
		return x.Decimal
	case int:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt32(x)
	case int64:
		return decimal.NewFromInt(x)
	case float32:
		return fromFloat(float64(x))
	case float64:
		return fromFloat(x)
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decimal.Zero
		}
		return d
	case []byte:
		return FromAny(string(x))
	default:
		return decimal.Zero
	}
}

func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// Format renders v with exactly two decimals. Format(nil) is "0.00".
func Format(v any) string {
	return FromAny(v).StringFixed(2)
}

// Percent is Round2(100 * part / whole), or zero when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return Round2(part.Mul(hundred).Div(whole))
}

// Average is Round2(total / n), or zero when n is not positive.
func Average(total decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	return Round2(total.Div(decimal.NewFromInt(int64(n))))
}

// HasCents reports whether d carries no precision beyond cents.
func HasCents(d decimal.Decimal) bool {
	return d.Equal(Round2(d))
}
