package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// Recurring marks a transaction as a template for the recurring
// transactions job, which clones it once per period.
type Recurring struct {
	IsRecurring    bool
	Frequency      Frequency
	NextOccurrence *time.Time
}

type Attachment struct {
	FileURL  string
	FileType string
}

// Transaction is a single money movement. Amount is always persisted in
// the base currency; converted display values are derived per request and
// never written back.
type Transaction struct {
	ID          uuid.UUID
	Type        Type
	Amount      decimal.Decimal
	BudgetID    *uuid.UUID
	Category    string
	Date        time.Time
	Notes       string
	Recurring   Recurring
	Attachments []Attachment
	// SourceID links an occurrence generated by the recurring job back to
	// its template transaction.
	SourceID  *uuid.UUID
	CreatedAt time.Time
}

// OwnedTransaction carries the owner alongside the transaction for
// cross-user scans (the recurring job).
type OwnedTransaction struct {
	UserId int
	Transaction
}

// Totals is a grouped income/expense aggregate over a user's transactions.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Count   int64
}

type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

type MonthlyTotal struct {
	Year    int
	Month   time.Month
	Income  decimal.Decimal
	Expense decimal.Decimal
}
