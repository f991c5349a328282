package budget

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/fintrack/fintrack/internal/testutils"
)

var pgContainer *postgres.PostgresContainer
var openDb func() *pgxpool.Pool

func TestMain(m *testing.M) {
	pgContainer, openDb = testutils.TestWithDB()
	defer func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			log.Errorf("failed to terminate container: %s", err)
		}
	}()
	code := m.Run()
	os.Exit(code)
}

func setupTestRepository(t *testing.T) (context.Context, *BudgetRepoImpl, *pgxpool.Pool) {
	ctx := context.Background()
	db := openDb()
	repository := NewBudgetRepo(db)
	t.Cleanup(func() {
		db.Close()
		err := pgContainer.Restore(ctx)
		require.NoError(t, err)
	})
	return ctx, repository, db
}

func createTestUser(t *testing.T, ctx context.Context, db *pgxpool.Pool, email string) int {
	t.Helper()
	var id int
	err := db.QueryRow(ctx,
		"INSERT INTO users (uid, email, display_name) VALUES ($1, $2, $3) RETURNING id",
		uuid.NewString(), email, "Test User",
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func insertExpense(t *testing.T, ctx context.Context, db *pgxpool.Pool, userId int, budgetId *uuid.UUID, category string, amount float64, date time.Time) {
	t.Helper()
	_, err := db.Exec(ctx,
		`INSERT INTO transactions (id, user_id, type, amount, budget_id, category, occurred_on)
			VALUES ($1, $2, 'expense', $3, $4, $5, $6)`,
		uuid.New(), userId, decimal.NewFromFloat(amount), budgetId, category, date,
	)
	require.NoError(t, err)
}

func TestBudgetRepoCrud(t *testing.T) {
	t.Run("should store, update and delete a budget", func(t *testing.T) {
		// given
		ctx, repo, db := setupTestRepository(t)
		userId := createTestUser(t, ctx, db, "crud@example.com")
		budget := Budget{
			ID:       uuid.New(),
			Category: "Groceries",
			Limit:    decimal.NewFromInt(500),
			Period:   PeriodMonthly,
		}

		// when
		err := repo.Store(ctx, userId, budget)

		// then
		require.NoError(t, err)
		stored, err := repo.Get(ctx, userId, budget.ID)
		require.NoError(t, err)
		assert.Equal(t, "Groceries", stored.Category)
		assert.True(t, stored.Limit.Equal(decimal.NewFromInt(500)))

		budget.Limit = decimal.NewFromInt(600)
		updated, err := repo.Update(ctx, userId, budget)
		require.NoError(t, err)
		assert.True(t, updated)

		deleted, err := repo.Delete(ctx, userId, budget.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = repo.Get(ctx, userId, budget.ID)
		assert.ErrorIs(t, err, ErrBudgetNotFound)
	})

	t.Run("should not expose another user's budget", func(t *testing.T) {
		// given
		ctx, repo, db := setupTestRepository(t)
		owner := createTestUser(t, ctx, db, "owner@example.com")
		other := createTestUser(t, ctx, db, "other@example.com")
		budget := Budget{ID: uuid.New(), Category: "Rent", Limit: decimal.NewFromInt(1000), Period: PeriodMonthly}
		require.NoError(t, repo.Store(ctx, owner, budget))

		// when
		_, err := repo.Get(ctx, other, budget.ID)

		// then
		assert.ErrorIs(t, err, ErrBudgetNotFound)

		deleted, err := repo.Delete(ctx, other, budget.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestBudgetRepoSumExpenses(t *testing.T) {
	t.Run("should sum linked and unlinked matching expenses within window", func(t *testing.T) {
		// given
		ctx, repo, db := setupTestRepository(t)
		userId := createTestUser(t, ctx, db, "sum@example.com")
		budget := Budget{ID: uuid.New(), Category: "Food", Limit: decimal.NewFromInt(500), Period: PeriodMonthly}
		require.NoError(t, repo.Store(ctx, userId, budget))

		inWindow := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
		beforeWindow := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)
		insertExpense(t, ctx, db, userId, &budget.ID, "anything", 120, inWindow)
		insertExpense(t, ctx, db, userId, nil, "Food", 60, inWindow)
		insertExpense(t, ctx, db, userId, nil, "Transport", 40, inWindow)
		insertExpense(t, ctx, db, userId, &budget.ID, "anything", 500, beforeWindow)

		from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

		// when
		spent, err := repo.SumExpenses(ctx, userId, budget.ID, budget.Category, from, to)

		// then
		require.NoError(t, err)
		assert.True(t, spent.Equal(decimal.NewFromInt(180)), "spent %s", spent)
	})

	t.Run("should not count another user's expenses with the same category", func(t *testing.T) {
		// given
		ctx, repo, db := setupTestRepository(t)
		owner := createTestUser(t, ctx, db, "sum-owner@example.com")
		other := createTestUser(t, ctx, db, "sum-other@example.com")
		budget := Budget{ID: uuid.New(), Category: "Food", Limit: decimal.NewFromInt(500), Period: PeriodMonthly}
		require.NoError(t, repo.Store(ctx, owner, budget))

		date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
		insertExpense(t, ctx, db, owner, nil, "Food", 50, date)
		insertExpense(t, ctx, db, other, nil, "Food", 999, date)

		from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

		// when
		spent, err := repo.SumExpenses(ctx, owner, budget.ID, budget.Category, from, to)

		// then
		require.NoError(t, err)
		assert.True(t, spent.Equal(decimal.NewFromInt(50)), "spent %s", spent)
	})

	t.Run("should return zero without matching expenses", func(t *testing.T) {
		// given
		ctx, repo, db := setupTestRepository(t)
		userId := createTestUser(t, ctx, db, "zero@example.com")
		budget := Budget{ID: uuid.New(), Category: "Travel", Limit: decimal.NewFromInt(300), Period: PeriodYearly}
		require.NoError(t, repo.Store(ctx, userId, budget))

		// when
		spent, err := repo.SumExpenses(ctx, userId, budget.ID, budget.Category,
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))

		// then
		require.NoError(t, err)
		assert.True(t, spent.IsZero())
	})
}
