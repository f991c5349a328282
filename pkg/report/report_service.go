package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fintrack/fintrack/pkg/currency"
	"github.com/fintrack/fintrack/pkg/transaction"
	"github.com/fintrack/fintrack/pkg/user"
)

type Service interface {
	FinancialSummary(ctx context.Context, from, to time.Time) (Summary, error)
}

type ServiceImpl struct {
	transactions transaction.Repo
	rates        *currency.RateCache
}

func NewService(transactions transaction.Repo, rates *currency.RateCache) *ServiceImpl {
	return &ServiceImpl{transactions: transactions, rates: rates}
}

// FinancialSummary builds the monthly breakdown, category spending and cash
// flow views for the given range. Zero-valued bounds mean an unbounded range.
func (s *ServiceImpl) FinancialSummary(ctx context.Context, from, to time.Time) (Summary, error) {
	current, err := user.CurrentUser(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to get current user: %w", err)
	}

	code := strings.ToUpper(strings.TrimSpace(current.Settings.Currency))
	if code == "" {
		code = currency.BaseCurrency
	}
	rate := s.rates.GetRate(ctx, code)

	monthly, err := s.transactions.MonthlyTotals(ctx, current.Id, from, to)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to aggregate monthly totals: %w", err)
	}
	byCategory, err := s.transactions.ExpensesByCategory(ctx, current.Id, from, to)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to aggregate expenses by category: %w", err)
	}

	summary := Summary{
		Currency:         code,
		Symbol:           rate.Symbol,
		MonthlyBreakdown: make([]MonthlyEntry, 0, len(monthly)),
		CategorySpending: make([]CategoryEntry, 0, len(byCategory)),
		CashFlow:         make([]CashFlowEntry, 0, len(monthly)),
	}
	for _, month := range monthly {
		income := currency.Normalize(month.Income, rate)
		expense := currency.Normalize(month.Expense, rate)
		summary.MonthlyBreakdown = append(summary.MonthlyBreakdown, MonthlyEntry{
			Year:    month.Year,
			Month:   month.Month,
			Income:  income,
			Expense: expense,
		})
		summary.CashFlow = append(summary.CashFlow, CashFlowEntry{
			Year:    month.Year,
			Month:   month.Month,
			Income:  income,
			Expense: expense,
			Net:     income.Sub(expense),
		})
	}
	for _, categoryTotal := range byCategory {
		summary.CategorySpending = append(summary.CategorySpending, CategoryEntry{
			Category: categoryTotal.Category,
			Amount:   currency.Normalize(categoryTotal.Amount, rate),
		})
	}
	return summary, nil
}
