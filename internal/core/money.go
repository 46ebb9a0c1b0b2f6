package core

import "github.com/shopspring/decimal"

// Tolerance is the largest difference at which two currency totals are
// considered equal.
var Tolerance = decimal.New(1, -2)

var hundred = decimal.NewFromInt(100)

// Percent returns pct% of base rounded to two places.
func Percent(pct, base decimal.Decimal) decimal.Decimal {
	return pct.Div(hundred).Mul(base).Round(2)
}

// WithinTolerance reports whether |a - b| <= Tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Sum adds up the given amounts.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
