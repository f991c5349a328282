package budget

import (
	"context"
	"testing"
	"time"

	"github.com/fintrack/fintrack/internal/utils"
	"github.com/fintrack/fintrack/pkg/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var serviceNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func setupService(t *testing.T) (*BudgetServiceImpl, *StubBudgetRepo, context.Context, func()) {
	repo := NewStubBudgetRepo()
	clock := &utils.MockClock{FixedNow: serviceNow}
	service := NewBudgetService(repo, clock)
	ctx := user.WithUser(context.Background(), user.User{
		Id:    1,
		Uid:   uuid.NewString(),
		Email: "test-user-1@example.com",
	})
	return service, repo, ctx, func() {
		t.Log("Teardown after test")
		repo.Cleanup()
	}
}

func TestBudgetService_Get(t *testing.T) {
	service, _, ctx, teardown := setupService(t)
	defer teardown()

	// given
	created, err := service.Create(ctx, Budget{Category: "Food", Limit: decimal.NewFromInt(500), Period: PeriodMonthly})
	require.NoError(t, err)

	// when
	fetched, err := service.Get(ctx, created.ID)

	// then
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Food", fetched.Category)
	assert.True(t, fetched.Limit.Equal(decimal.NewFromInt(500)))

	// and a foreign user never sees it
	foreignCtx := user.WithUser(context.Background(), user.User{Id: 2})
	_, err = service.Get(foreignCtx, created.ID)
	assert.ErrorIs(t, err, ErrBudgetNotFound)
}

func TestBudgetService_StatusWithinLimit(t *testing.T) {
	service, repo, ctx, teardown := setupService(t)
	defer teardown()

	// given
	created, err := service.Create(ctx, Budget{Category: "Food", Limit: decimal.NewFromInt(500), Period: PeriodMonthly})
	require.NoError(t, err)
	repo.AddExpense(1, &created.ID, "Food", 120, serviceNow.AddDate(0, 0, -3))
	repo.AddExpense(1, &created.ID, "Food", 200, serviceNow.AddDate(0, 0, -1))

	// when
	status, err := service.Status(ctx, created.ID)

	// then
	require.NoError(t, err)
	assert.True(t, status.Spent.Equal(decimal.NewFromInt(320)), "spent = %s", status.Spent)
	assert.True(t, status.Remaining.Equal(decimal.NewFromInt(180)), "remaining = %s", status.Remaining)
	assert.True(t, status.WithinBudget)
}

func TestBudgetService_StatusOverLimit(t *testing.T) {
	service, repo, ctx, teardown := setupService(t)
	defer teardown()

	created, err := service.Create(ctx, Budget{Category: "Food", Limit: decimal.NewFromInt(500), Period: PeriodMonthly})
	require.NoError(t, err)
	repo.AddExpense(1, &created.ID, "Food", 320, serviceNow.AddDate(0, 0, -3))
	repo.AddExpense(1, &created.ID, "Food", 200, serviceNow.AddDate(0, 0, -1))

	status, err := service.Status(ctx, created.ID)

	require.NoError(t, err)
	assert.True(t, status.Spent.Equal(decimal.NewFromInt(520)))
	assert.True(t, status.Remaining.Equal(decimal.NewFromInt(-20)))
	assert.False(t, status.WithinBudget)
}

func TestBudgetService_StatusNoTransactions(t *testing.T) {
	service, _, ctx, teardown := setupService(t)
	defer teardown()

	created, err := service.Create(ctx, Budget{Category: "Travel", Limit: decimal.NewFromInt(250)})
	require.NoError(t, err)

	status, err := service.Status(ctx, created.ID)

	require.NoError(t, err)
	assert.True(t, status.Spent.IsZero())
	assert.True(t, status.Remaining.Equal(decimal.NewFromInt(250)))
	assert.True(t, status.WithinBudget)
	assert.Equal(t, PeriodMonthly, status.Period)
}

func TestBudgetService_StatusIgnoresExpensesOutsideWindow(t *testing.T) {
	service, repo, ctx, teardown := setupService(t)
	defer teardown()

	created, err := service.Create(ctx, Budget{Category: "Food", Limit: decimal.NewFromInt(500), Period: PeriodMonthly})
	require.NoError(t, err)
	// previous month, outside the March window
	repo.AddExpense(1, &created.ID, "Food", 999, time.Date(2024, time.February, 20, 0, 0, 0, 0, time.UTC))
	repo.AddExpense(1, &created.ID, "Food", 50, serviceNow.AddDate(0, 0, -1))

	status, err := service.Status(ctx, created.ID)

	require.NoError(t, err)
	assert.True(t, status.Spent.Equal(decimal.NewFromInt(50)))
}

func TestBudgetService_StatusCountsCategoryMatchOnlyWithoutBudgetLink(t *testing.T) {
	service, repo, ctx, teardown := setupService(t)
	defer teardown()

	created, err := service.Create(ctx, Budget{Category: "Food", Limit: decimal.NewFromInt(500), Period: PeriodMonthly})
	require.NoError(t, err)
	otherBudget := uuid.New()
	// legacy transaction with no budget link but a matching category
	repo.AddExpense(1, nil, "Food", 40, serviceNow.AddDate(0, 0, -2))
	// linked to a different budget despite the same category label
	repo.AddExpense(1, &otherBudget, "Food", 70, serviceNow.AddDate(0, 0, -2))

	status, err := service.Status(ctx, created.ID)

	require.NoError(t, err)
	assert.True(t, status.Spent.Equal(decimal.NewFromInt(40)), "spent = %s", status.Spent)
}

func TestBudgetService_StatusNotFoundForForeignBudget(t *testing.T) {
	service, _, ctx, teardown := setupService(t)
	defer teardown()

	created, err := service.Create(ctx, Budget{Category: "Food", Limit: decimal.NewFromInt(500)})
	require.NoError(t, err)

	otherCtx := user.WithUser(context.Background(), user.User{Id: 2, Uid: uuid.NewString()})
	_, err = service.Status(otherCtx, created.ID)

	assert.ErrorIs(t, err, ErrBudgetNotFound)
}

func TestBudgetService_GetAllWithSpendComputesPerBudget(t *testing.T) {
	service, repo, ctx, teardown := setupService(t)
	defer teardown()

	food, err := service.Create(ctx, Budget{Category: "Food", Limit: decimal.NewFromInt(500), Period: PeriodMonthly})
	require.NoError(t, err)
	bills, err := service.Create(ctx, Budget{Category: "Bills", Limit: decimal.NewFromInt(300), Period: PeriodMonthly})
	require.NoError(t, err)
	repo.AddExpense(1, &food.ID, "Food", 100, serviceNow.AddDate(0, 0, -1))
	repo.AddExpense(1, &bills.ID, "Bills", 30, serviceNow.AddDate(0, 0, -1))

	withSpend, err := service.GetAllWithSpend(ctx)

	require.NoError(t, err)
	require.Len(t, withSpend, 2)
	spentByCategory := map[string]decimal.Decimal{}
	for _, b := range withSpend {
		spentByCategory[b.Category] = b.Spent
	}
	assert.True(t, spentByCategory["Food"].Equal(decimal.NewFromInt(100)))
	assert.True(t, spentByCategory["Bills"].Equal(decimal.NewFromInt(30)))
}

func TestBudgetService_CreateDefaultsToMonthlyAndTrimsCategory(t *testing.T) {
	service, _, ctx, teardown := setupService(t)
	defer teardown()

	created, err := service.Create(ctx, Budget{Category: "  Groceries ", Limit: decimal.NewFromInt(100)})

	require.NoError(t, err)
	assert.Equal(t, PeriodMonthly, created.Period)
	assert.Equal(t, "Groceries", created.Category)
	assert.NotEqual(t, uuid.Nil, created.ID)
}
