package currency

import (
	"time"

	"github.com/shopspring/decimal"
)

// BaseCurrency is the currency all amounts are persisted in. Display
// values in any other currency are derived at read time and never stored.
const BaseCurrency = "USD"

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"PKR": "₨",
	"INR": "₹",
	"AUD": "A$",
	"CAD": "CA$",
	"JPY": "¥",
	"CNY": "¥",
	"CHF": "CHF",
}

// Symbol returns the display glyph for a currency code. Codes without a
// known glyph fall back to the code itself.
func Symbol(code string) string {
	if s, ok := symbols[code]; ok {
		return s
	}
	return code
}

// Snapshot is a point-in-time table of conversion rates relative to the
// base currency. It is held in process memory only and replaced as a
// whole on refresh.
type Snapshot struct {
	Base      string
	Rates     map[string]decimal.Decimal
	FetchedAt time.Time
}

// Rate is the result of a rate lookup for a single target currency.
type Rate struct {
	Rate      decimal.Decimal
	Base      string
	Symbol    string
	FetchedAt time.Time
}
