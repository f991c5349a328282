package budget

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Period is the recurrence window against which a budget's spend is
// measured.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// IsValid reports whether p is one of the known period values.
func (p Period) IsValid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// WindowStart resolves the lower bound of the current spend window for
// this period. All boundaries are midnight UTC; weeks start on Sunday.
// An unknown or empty period means "all time" and resolves to the epoch.
// The window's upper bound is always the caller's "now".
func (p Period) WindowStart(now time.Time) time.Time {
	now = now.UTC()
	switch p {
	case PeriodDaily:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	case PeriodWeekly:
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return midnight.AddDate(0, 0, -int(now.Weekday()))
	case PeriodMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	case PeriodYearly:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Unix(0, 0).UTC()
	}
}

// Budget is a spending cap on a category. Limit is stored in the base
// currency; spend against it is always derived, never persisted.
type Budget struct {
	ID       uuid.UUID
	Category string
	Limit    decimal.Decimal
	Period   Period
}

// BudgetWithSpend is a budget together with the expense total of its
// current period window.
type BudgetWithSpend struct {
	Budget
	Spent decimal.Decimal
}

// Status describes how a budget is doing within its current window.
type Status struct {
	Category     string
	Period       Period
	Limit        decimal.Decimal
	Spent        decimal.Decimal
	Remaining    decimal.Decimal
	WithinBudget bool
}

// NormalizeCategory trims surrounding whitespace from a category label.
func NormalizeCategory(category string) string {
	return strings.TrimSpace(category)
}
