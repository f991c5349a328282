package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack/internal/utils"
	"github.com/fintrack/fintrack/pkg/currency"
	"github.com/fintrack/fintrack/pkg/transaction"
	"github.com/fintrack/fintrack/pkg/user"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func setupService(rates map[string]float64, preferred string) (*ServiceImpl, *transaction.StubRepo, context.Context) {
	repo := transaction.NewStubRepo()
	clock := &utils.MockClock{FixedNow: testNow}
	cache := currency.NewRateCache(currency.NewStubRateProvider(rates), currency.DefaultTTL, clock)
	service := NewService(repo, cache)
	ctx := user.WithUser(context.Background(), user.User{
		Id:       1,
		Settings: user.Settings{Currency: preferred},
	})
	return service, repo, ctx
}

func addTransaction(t *testing.T, repo *transaction.StubRepo, txType transaction.Type, amount float64, category string, date time.Time) {
	t.Helper()
	err := repo.Store(context.Background(), 1, transaction.Transaction{
		ID:       uuid.New(),
		Type:     txType,
		Amount:   decimal.NewFromFloat(amount),
		Category: category,
		Date:     date,
	})
	require.NoError(t, err)
}

func TestFinancialSummaryMonthlyBreakdown(t *testing.T) {
	service, repo, ctx := setupService(nil, "USD")
	january := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	february := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	addTransaction(t, repo, transaction.TypeIncome, 1000, "Salary", january)
	addTransaction(t, repo, transaction.TypeExpense, 400, "Rent", january)
	addTransaction(t, repo, transaction.TypeIncome, 1000, "Salary", february)
	addTransaction(t, repo, transaction.TypeExpense, 1100, "Rent", february)

	summary, err := service.FinancialSummary(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)

	require.Len(t, summary.MonthlyBreakdown, 2)
	assert.Equal(t, time.January, summary.MonthlyBreakdown[0].Month)
	assert.True(t, summary.MonthlyBreakdown[0].Income.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, time.February, summary.MonthlyBreakdown[1].Month)
	assert.True(t, summary.MonthlyBreakdown[1].Expense.Equal(decimal.NewFromInt(1100)))

	require.Len(t, summary.CashFlow, 2)
	assert.True(t, summary.CashFlow[0].Net.Equal(decimal.NewFromInt(600)))
	assert.True(t, summary.CashFlow[1].Net.Equal(decimal.NewFromInt(-100)))
}

func TestFinancialSummaryCategorySpending(t *testing.T) {
	service, repo, ctx := setupService(nil, "USD")
	addTransaction(t, repo, transaction.TypeExpense, 200, "Groceries", testNow)
	addTransaction(t, repo, transaction.TypeExpense, 350, "Rent", testNow)
	addTransaction(t, repo, transaction.TypeIncome, 1000, "Salary", testNow)

	summary, err := service.FinancialSummary(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)

	require.Len(t, summary.CategorySpending, 2)
	assert.Equal(t, "Rent", summary.CategorySpending[0].Category)
	assert.True(t, summary.CategorySpending[0].Amount.Equal(decimal.NewFromInt(350)))
	assert.Equal(t, "Groceries", summary.CategorySpending[1].Category)
}

func TestFinancialSummaryRespectsRange(t *testing.T) {
	service, repo, ctx := setupService(nil, "USD")
	addTransaction(t, repo, transaction.TypeExpense, 100, "Groceries", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	addTransaction(t, repo, transaction.TypeExpense, 200, "Groceries", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)
	summary, err := service.FinancialSummary(ctx, from, to)
	require.NoError(t, err)

	require.Len(t, summary.MonthlyBreakdown, 1)
	assert.Equal(t, time.March, summary.MonthlyBreakdown[0].Month)
	require.Len(t, summary.CategorySpending, 1)
	assert.True(t, summary.CategorySpending[0].Amount.Equal(decimal.NewFromInt(200)))
}

func TestFinancialSummaryConvertsCurrency(t *testing.T) {
	service, repo, ctx := setupService(map[string]float64{"GBP": 0.5}, "GBP")
	addTransaction(t, repo, transaction.TypeIncome, 1000, "Salary", testNow)
	addTransaction(t, repo, transaction.TypeExpense, 300, "Rent", testNow)

	summary, err := service.FinancialSummary(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, "GBP", summary.Currency)
	assert.Equal(t, "£", summary.Symbol)
	require.Len(t, summary.CashFlow, 1)
	assert.True(t, summary.CashFlow[0].Income.Equal(decimal.NewFromInt(500)))
	assert.True(t, summary.CashFlow[0].Expense.Equal(decimal.NewFromInt(150)))
	assert.True(t, summary.CashFlow[0].Net.Equal(decimal.NewFromInt(350)))
}

func TestFinancialSummaryEmpty(t *testing.T) {
	service, _, ctx := setupService(nil, "USD")

	summary, err := service.FinancialSummary(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, summary.MonthlyBreakdown)
	assert.Empty(t, summary.CategorySpending)
	assert.Empty(t, summary.CashFlow)
}

func TestFinancialSummaryRequiresUser(t *testing.T) {
	service, _, _ := setupService(nil, "USD")

	_, err := service.FinancialSummary(context.Background(), time.Time{}, time.Time{})
	assert.ErrorIs(t, err, user.ErrNoUser)
}
