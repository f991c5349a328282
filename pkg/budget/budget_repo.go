package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrBudgetNotFound = errors.New("budget not found")

type BudgetRepo interface {
	Store(ctx context.Context, userId int, budget Budget) error
	GetAll(ctx context.Context, userId int) ([]Budget, error)
	Get(ctx context.Context, userId int, budgetId uuid.UUID) (Budget, error)
	Update(ctx context.Context, userId int, budget Budget) (bool, error)
	Delete(ctx context.Context, userId int, budgetId uuid.UUID) (bool, error)
	// SumExpenses aggregates the user's expense transactions linked to the
	// budget within [from, to]. A transaction counts when it references the
	// budget directly or, lacking any budget link, when its category label
	// matches. The sum is computed in the store, in base currency.
	SumExpenses(ctx context.Context, userId int, budgetId uuid.UUID, category string, from, to time.Time) (decimal.Decimal, error)
}

type BudgetRepoImpl struct {
	db *pgxpool.Pool
}

func NewBudgetRepo(db *pgxpool.Pool) *BudgetRepoImpl {
	return &BudgetRepoImpl{db: db}
}

func (r *BudgetRepoImpl) Store(ctx context.Context, userId int, budget Budget) error {
	query := `INSERT INTO budgets (id, user_id, category, limit_amount, period) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Exec(ctx, query, budget.ID, userId, budget.Category, budget.Limit, string(budget.Period))
	if err != nil {
		err := fmt.Errorf("could not store budget: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *BudgetRepoImpl) GetAll(ctx context.Context, userId int) ([]Budget, error) {
	query := `SELECT id, category, limit_amount, period FROM budgets WHERE user_id = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query budgets: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var budgets []Budget
	for rows.Next() {
		var budget Budget
		var period string
		if err := rows.Scan(&budget.ID, &budget.Category, &budget.Limit, &period); err != nil {
			err := fmt.Errorf("could not scan budget: %w", err)
			log.Error(err)
			return nil, err
		}
		budget.Period = Period(period)
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over budgets: %w", err)
		log.Error(err)
		return nil, err
	}
	return budgets, nil
}

func (r *BudgetRepoImpl) Get(ctx context.Context, userId int, budgetId uuid.UUID) (Budget, error) {
	query := `SELECT id, category, limit_amount, period FROM budgets WHERE id = $1 AND user_id = $2`
	var budget Budget
	var period string
	err := r.db.QueryRow(ctx, query, budgetId, userId).
		Scan(&budget.ID, &budget.Category, &budget.Limit, &period)
	if errors.Is(err, pgx.ErrNoRows) {
		return Budget{}, ErrBudgetNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get budget: %w", err)
		log.Error(err)
		return Budget{}, err
	}
	budget.Period = Period(period)
	return budget, nil
}

func (r *BudgetRepoImpl) Update(ctx context.Context, userId int, budget Budget) (bool, error) {
	query := `UPDATE budgets SET category = $1, limit_amount = $2, period = $3, updated_at = now()
				WHERE id = $4 AND user_id = $5`
	tag, err := r.db.Exec(ctx, query, budget.Category, budget.Limit, string(budget.Period), budget.ID, userId)
	if err != nil {
		err := fmt.Errorf("could not update budget: %w", err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *BudgetRepoImpl) Delete(ctx context.Context, userId int, budgetId uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM budgets WHERE id = $1 AND user_id = $2", budgetId, userId)
	if err != nil {
		err := fmt.Errorf("could not delete budget: %w", err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *BudgetRepoImpl) SumExpenses(ctx context.Context, userId int, budgetId uuid.UUID, category string, from, to time.Time) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0)
				FROM transactions
				WHERE user_id = $1
				  AND type = 'expense'
				  AND (budget_id = $2 OR (budget_id IS NULL AND category = $3))
				  AND occurred_on >= $4 AND occurred_on <= $5`
	var spent decimal.Decimal
	err := r.db.QueryRow(ctx, query, userId, budgetId, category, from, to).Scan(&spent)
	if err != nil {
		err := fmt.Errorf("could not sum expenses for budget %s: %w", budgetId, err)
		log.Error(err)
		return decimal.Zero, err
	}
	return spent, nil
}
