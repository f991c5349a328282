package dashboard

import (
	"github.com/shopspring/decimal"
)

// Overview is the aggregated home-screen view. All amounts are expressed in
// the user's preferred currency.
type Overview struct {
	Income            decimal.Decimal
	Expense           decimal.Decimal
	Balance           decimal.Decimal
	TotalTransactions int64
	Currency          string
	Symbol            string
	Categories        []CategorySpend
}

type CategorySpend struct {
	Category string
	Amount   decimal.Decimal
	Currency string
	Symbol   string
}
