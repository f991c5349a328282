package dashboard

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
	Overview(ctx context.Context) (Overview, error)
}

type ServiceImpl struct {
	transactions transaction.Repo
	rates        *currency.RateCache
}

func NewService(transactions transaction.Repo, rates *currency.RateCache) *ServiceImpl {
	return &ServiceImpl{transactions: transactions, rates: rates}
}

// Overview sums the user's transactions by type and by expense category and
// converts every amount into the user's preferred currency. Reading never
// mutates anything, so repeated calls against unchanged data return the same
// result.
func (s *ServiceImpl) Overview(ctx context.Context) (Overview, error) {
	current, err := user.CurrentUser(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("failed to get current user: %w", err)
	}

	code := strings.ToUpper(strings.TrimSpace(current.Settings.Currency))
	if code == "" {
		code = currency.BaseCurrency
	}
	rate := s.rates.GetRate(ctx, code)

	totals, err := s.transactions.TotalsByType(ctx, current.Id)
	if err != nil {
		return Overview{}, fmt.Errorf("failed to aggregate transaction totals: %w", err)
	}

	byCategory, err := s.transactions.ExpensesByCategory(ctx, current.Id, time.Time{}, time.Time{})
	if err != nil {
		return Overview{}, fmt.Errorf("failed to aggregate expenses by category: %w", err)
	}

	// Balance is converted from the base-currency difference, not computed
	// from the two rounded totals.
	overview := Overview{
		Income:            currency.Normalize(totals.Income, rate),
		Expense:           currency.Normalize(totals.Expense, rate),
		Balance:           currency.Normalize(totals.Income.Sub(totals.Expense), rate),
		TotalTransactions: totals.Count,
		Currency:          code,
		Symbol:            rate.Symbol,
		Categories:        make([]CategorySpend, 0, len(byCategory)),
	}
	for _, categoryTotal := range byCategory {
		overview.Categories = append(overview.Categories, CategorySpend{
			Category: categoryTotal.Category,
			Amount:   currency.Normalize(categoryTotal.Amount, rate),
			Currency: code,
			Symbol:   rate.Symbol,
		})
	}
	return overview, nil
}
