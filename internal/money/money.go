// Package money provides exact decimal helpers for monetary amounts.
//
// All monetary values in splitboard are shopspring decimals; float64 never
// touches a money path. Persisted share amounts are rounded to two decimal
// places, and the allocation helpers guarantee that a set of shares sums
// back to the original total exactly.
package money

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	cent    = decimal.New(1, -2) // 0.01
)

// Round2 rounds an amount to two decimal places (half-up).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MustParse parses a decimal string and panics on failure.
// Intended for literals in tests and seeds.
func MustParse(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// SplitEven divides total into n shares of two decimal places that sum to
// total exactly. Each share starts at total/n rounded down to a cent; the
// leftover cents are handed out one each to the first shares in order, so
// the distribution is deterministic for a stable participant order.
// Returns nil when n is not positive.
func SplitEven(total decimal.Decimal, n int) []decimal.Decimal {
	if n <= 0 {
		return nil
	}
	base := total.Div(decimal.NewFromInt(int64(n))).RoundDown(2)
	shares := make([]decimal.Decimal, n)
	for i := range shares {
		shares[i] = base
	}

	remainder := total.Sub(base.Mul(decimal.NewFromInt(int64(n))))
	cents := remainder.Div(cent).IntPart()
	for i := int64(0); i < cents && i < int64(n); i++ {
		shares[i] = shares[i].Add(cent)
	}

	// Sub-cent residue only occurs for totals finer than two decimal
	// places; fold it into the first share to keep the sum exact.
	residue := remainder.Sub(cent.Mul(decimal.NewFromInt(cents)))
	if !residue.IsZero() {
		shares[0] = shares[0].Add(residue)
	}
	return shares
}

// AllocateByPercent computes percent-of-total shares that sum to total
// exactly. Each share starts at pct/100*total rounded down to a cent;
// leftover cents go to the first shares in order. Percentages are assumed
// to sum to 100 (validated by the caller).
func AllocateByPercent(total decimal.Decimal, percents []decimal.Decimal) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(percents))
	allocated := decimal.Zero
	for i, pct := range percents {
		shares[i] = pct.Mul(total).Div(hundred).RoundDown(2)
		allocated = allocated.Add(shares[i])
	}

	remainder := total.Sub(allocated)
	cents := remainder.Div(cent).IntPart()
	for i := int64(0); i < cents && i < int64(len(shares)); i++ {
		shares[i] = shares[i].Add(cent)
	}
	residue := remainder.Sub(cent.Mul(decimal.NewFromInt(cents)))
	if !residue.IsZero() && len(shares) > 0 {
		shares[0] = shares[0].Add(residue)
	}
	return shares
}

// Sum adds a slice of amounts.
func Sum(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
