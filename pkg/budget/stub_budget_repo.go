package budget

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type stubExpense struct {
	UserId   int
	BudgetId *uuid.UUID
	Category string
	Amount   decimal.Decimal
	Date     time.Time
}

type StubBudgetRepo struct {
	data     map[uuid.UUID]Budget
	owners   map[uuid.UUID]int
	expenses []stubExpense
}

func NewStubBudgetRepo() *StubBudgetRepo {
	return &StubBudgetRepo{
		data:   map[uuid.UUID]Budget{},
		owners: map[uuid.UUID]int{},
	}
}

func (s *StubBudgetRepo) Store(ctx context.Context, userId int, budget Budget) error {
	s.data[budget.ID] = budget
	s.owners[budget.ID] = userId
	return nil
}

func (s *StubBudgetRepo) GetAll(ctx context.Context, userId int) ([]Budget, error) {
	var budgets []Budget
	for id, budget := range s.data {
		if s.owners[id] == userId {
			budgets = append(budgets, budget)
		}
	}
	return budgets, nil
}

func (s *StubBudgetRepo) Get(ctx context.Context, userId int, budgetId uuid.UUID) (Budget, error) {
	budget, ok := s.data[budgetId]
	if !ok || s.owners[budgetId] != userId {
		return Budget{}, ErrBudgetNotFound
	}
	return budget, nil
}

func (s *StubBudgetRepo) Update(ctx context.Context, userId int, budget Budget) (bool, error) {
	if _, ok := s.data[budget.ID]; !ok || s.owners[budget.ID] != userId {
		return false, nil
	}
	s.data[budget.ID] = budget
	return true, nil
}

func (s *StubBudgetRepo) Delete(ctx context.Context, userId int, budgetId uuid.UUID) (bool, error) {
	if _, ok := s.data[budgetId]; !ok || s.owners[budgetId] != userId {
		return false, nil
	}
	delete(s.data, budgetId)
	delete(s.owners, budgetId)
	return true, nil
}

func (s *StubBudgetRepo) SumExpenses(ctx context.Context, userId int, budgetId uuid.UUID, category string, from, to time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range s.expenses {
		if e.UserId != userId {
			continue
		}
		linked := (e.BudgetId != nil && *e.BudgetId == budgetId) ||
			(e.BudgetId == nil && e.Category == category)
		if !linked {
			continue
		}
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		sum = sum.Add(e.Amount)
	}
	return sum, nil
}

// AddExpense registers an expense transaction for SumExpenses to find.
func (s *StubBudgetRepo) AddExpense(userId int, budgetId *uuid.UUID, category string, amount float64, date time.Time) {
	s.expenses = append(s.expenses, stubExpense{
		UserId:   userId,
		BudgetId: budgetId,
		Category: category,
		Amount:   decimal.NewFromFloat(amount),
		Date:     date,
	})
}

func (s *StubBudgetRepo) Cleanup() {
	s.data = map[uuid.UUID]Budget{}
	s.owners = map[uuid.UUID]int{}
	s.expenses = nil
}
