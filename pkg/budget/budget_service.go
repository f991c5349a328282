package budget

import (
	"context"
	"fmt"

	"github.com/fintrack/fintrack/internal/utils"
	"github.com/fintrack/fintrack/pkg/user"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type BudgetService interface {
	Create(ctx context.Context, budget Budget) (Budget, error)
	GetAllWithSpend(ctx context.Context) ([]BudgetWithSpend, error)
	Get(ctx context.Context, id uuid.UUID) (Budget, error)
	Update(ctx context.Context, budget Budget) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Status(ctx context.Context, id uuid.UUID) (Status, error)
}

type BudgetServiceImpl struct {
	repo  BudgetRepo
	clock utils.Clock
}

func NewBudgetService(repo BudgetRepo, clock utils.Clock) *BudgetServiceImpl {
	return &BudgetServiceImpl{repo: repo, clock: clock}
}

func (s *BudgetServiceImpl) Create(ctx context.Context, budget Budget) (Budget, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Budget{}, fmt.Errorf("failed to get current user: %w", err)
	}

	budget.ID = uuid.New()
	budget.Category = NormalizeCategory(budget.Category)
	if budget.Period == "" {
		budget.Period = PeriodMonthly
	}

	if err := s.repo.Store(ctx, userId, budget); err != nil {
		return Budget{}, err
	}
	return budget, nil
}

// GetAllWithSpend lists the user's budgets, each with the expense total of
// its current period window. Spend is computed per budget independently:
// the budget id is the grouping key, so two budgets sharing a category
// label never double count each other's linked transactions.
func (s *BudgetServiceImpl) GetAllWithSpend(ctx context.Context) ([]BudgetWithSpend, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	budgets, err := s.repo.GetAll(ctx, userId)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	withSpend := make([]BudgetWithSpend, 0, len(budgets))
	for _, budget := range budgets {
		spent, err := s.repo.SumExpenses(ctx, userId, budget.ID, budget.Category, budget.Period.WindowStart(now), now)
		if err != nil {
			return nil, err
		}
		withSpend = append(withSpend, BudgetWithSpend{Budget: budget, Spent: spent})
	}
	return withSpend, nil
}

func (s *BudgetServiceImpl) Get(ctx context.Context, id uuid.UUID) (Budget, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Budget{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, id)
}

func (s *BudgetServiceImpl) Update(ctx context.Context, budget Budget) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}

	budget.Category = NormalizeCategory(budget.Category)
	updated, err := s.repo.Update(ctx, userId, budget)
	if err != nil {
		return false, err
	}
	if !updated {
		log.Warnf("budget not updated, probably because it does not exist (%s) or the user (%d) is not the owner", budget.ID, userId)
		return false, nil
	}
	return true, nil
}

func (s *BudgetServiceImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}

	deleted, err := s.repo.Delete(ctx, userId, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		log.Warnf("budget not deleted, probably because it does not exist (%s) or the user (%d) is not the owner", id, userId)
		return false, nil
	}
	return true, nil
}

// Status computes spent/remaining/withinBudget for one budget over its
// current period window, in base currency. A budget with no matching
// transactions yields spent 0 and remaining equal to the limit.
func (s *BudgetServiceImpl) Status(ctx context.Context, id uuid.UUID) (Status, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("failed to get current user: %w", err)
	}

	budget, err := s.repo.Get(ctx, userId, id)
	if err != nil {
		return Status{}, err
	}

	now := s.clock.Now()
	spent, err := s.repo.SumExpenses(ctx, userId, budget.ID, budget.Category, budget.Period.WindowStart(now), now)
	if err != nil {
		return Status{}, err
	}

	remaining := budget.Limit.Sub(spent)
	return Status{
		Category:     budget.Category,
		Period:       budget.Period,
		Limit:        budget.Limit,
		Spent:        spent,
		Remaining:    remaining,
		WithinBudget: !remaining.IsNegative(),
	}, nil
}
