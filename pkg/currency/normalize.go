package currency

import "github.com/shopspring/decimal"

// Normalize converts a base-currency amount into the display currency of
// the given rate, rounded to 2 decimal places (half away from zero). The
// stored amount is never mutated; the result is a display-only value.
func Normalize(amount decimal.Decimal, rate Rate) decimal.Decimal {
	return amount.Mul(rate.Rate).Round(2)
}

// NormalizeAll applies Normalize to every element of amounts.
func NormalizeAll(amounts []decimal.Decimal, rate Rate) []decimal.Decimal {
	normalized := make([]decimal.Decimal, 0, len(amounts))
	for _, amount := range amounts {
		normalized = append(normalized, Normalize(amount, rate))
	}
	return normalized
}
