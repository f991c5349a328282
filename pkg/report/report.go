package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary bundles the reporting views for a date range. All amounts are
// expressed in the user's preferred currency.
type Summary struct {
	Currency         string
	Symbol           string
	MonthlyBreakdown []MonthlyEntry
	CategorySpending []CategoryEntry
	CashFlow         []CashFlowEntry
}

type MonthlyEntry struct {
	Year    int
	Month   time.Month
	Income  decimal.Decimal
	Expense decimal.Decimal
}

type CategoryEntry struct {
	Category string
	Amount   decimal.Decimal
}

type CashFlowEntry struct {
	Year    int
	Month   time.Month
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}
