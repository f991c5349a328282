package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/fintrack/fintrack/internal/utils"
	"github.com/fintrack/fintrack/pkg/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidType      = errors.New("transaction type must be income or expense")
	ErrNegativeAmount   = errors.New("transaction amount must not be negative")
	ErrInvalidFrequency = errors.New("invalid recurring frequency")
)

// Summary is the income/expense/balance aggregate for a user. A negative
// balance is a valid state, not an error.
type Summary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

type Service interface {
	Create(ctx context.Context, tx Transaction) (Transaction, error)
	GetAll(ctx context.Context) ([]Transaction, error)
	Get(ctx context.Context, id uuid.UUID) (Transaction, error)
	Update(ctx context.Context, tx Transaction) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Summary(ctx context.Context) (Summary, error)
}

type ServiceImpl struct {
	repo  Repo
	clock utils.Clock
}

func NewService(repo Repo, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func validate(tx Transaction) error {
	if !tx.Type.IsValid() {
		return ErrInvalidType
	}
	if tx.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if tx.Recurring.IsRecurring && !tx.Recurring.Frequency.IsValid() {
		return ErrInvalidFrequency
	}
	return nil
}

func (s *ServiceImpl) Create(ctx context.Context, tx Transaction) (Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := validate(tx); err != nil {
		return Transaction{}, err
	}

	tx.ID = uuid.New()
	if tx.Date.IsZero() {
		tx.Date = s.clock.Now()
	}

	if err := s.repo.Store(ctx, userId, tx); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId)
}

func (s *ServiceImpl) Get(ctx context.Context, id uuid.UUID) (Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Get(ctx, userId, id)
}

func (s *ServiceImpl) Update(ctx context.Context, tx Transaction) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	if tx.Amount.IsNegative() {
		return false, ErrNegativeAmount
	}
	if tx.Recurring.IsRecurring && !tx.Recurring.Frequency.IsValid() {
		return false, ErrInvalidFrequency
	}
	return s.repo.Update(ctx, userId, tx)
}

func (s *ServiceImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Delete(ctx, userId, id)
}

func (s *ServiceImpl) Summary(ctx context.Context) (Summary, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to get current user: %w", err)
	}
	totals, err := s.repo.TotalsByType(ctx, userId)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Income:  totals.Income,
		Expense: totals.Expense,
		Balance: totals.Income.Sub(totals.Expense),
	}, nil
}
