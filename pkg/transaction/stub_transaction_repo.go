package transaction

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StubRepo is an in-memory Repo for tests. Category grouping ignores the
// budget join and uses the transaction's own category label.
type StubRepo struct {
	data map[uuid.UUID]OwnedTransaction
}

func NewStubRepo() *StubRepo {
	return &StubRepo{data: map[uuid.UUID]OwnedTransaction{}}
}

func (s *StubRepo) Store(ctx context.Context, userId int, tx Transaction) error {
	s.data[tx.ID] = OwnedTransaction{UserId: userId, Transaction: tx}
	return nil
}

func (s *StubRepo) GetAll(ctx context.Context, userId int) ([]Transaction, error) {
	var transactions []Transaction
	for _, owned := range s.data {
		if owned.UserId == userId {
			transactions = append(transactions, owned.Transaction)
		}
	}
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})
	return transactions, nil
}

func (s *StubRepo) Get(ctx context.Context, userId int, id uuid.UUID) (Transaction, error) {
	owned, ok := s.data[id]
	if !ok || owned.UserId != userId {
		return Transaction{}, ErrTransactionNotFound
	}
	return owned.Transaction, nil
}

func (s *StubRepo) Update(ctx context.Context, userId int, tx Transaction) (bool, error) {
	owned, ok := s.data[tx.ID]
	if !ok || owned.UserId != userId {
		return false, nil
	}
	s.data[tx.ID] = OwnedTransaction{UserId: userId, Transaction: tx}
	return true, nil
}

func (s *StubRepo) Delete(ctx context.Context, userId int, id uuid.UUID) (bool, error) {
	owned, ok := s.data[id]
	if !ok || owned.UserId != userId {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubRepo) TotalsByType(ctx context.Context, userId int) (Totals, error) {
	totals := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, owned := range s.data {
		if owned.UserId != userId {
			continue
		}
		totals.Count++
		switch owned.Type {
		case TypeIncome:
			totals.Income = totals.Income.Add(owned.Amount)
		case TypeExpense:
			totals.Expense = totals.Expense.Add(owned.Amount)
		}
	}
	return totals, nil
}

func (s *StubRepo) ExpensesByCategory(ctx context.Context, userId int, from, to time.Time) ([]CategoryTotal, error) {
	from, to = boundsOrDefaults(from, to)
	byCategory := map[string]decimal.Decimal{}
	for _, owned := range s.data {
		if owned.UserId != userId || owned.Type != TypeExpense {
			continue
		}
		if owned.Date.Before(from) || owned.Date.After(to) {
			continue
		}
		byCategory[owned.Category] = byCategory[owned.Category].Add(owned.Amount)
	}
	totals := make([]CategoryTotal, 0, len(byCategory))
	for category, amount := range byCategory {
		totals = append(totals, CategoryTotal{Category: category, Amount: amount})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Amount.GreaterThan(totals[j].Amount)
	})
	return totals, nil
}

func (s *StubRepo) MonthlyTotals(ctx context.Context, userId int, from, to time.Time) ([]MonthlyTotal, error) {
	from, to = boundsOrDefaults(from, to)
	type key struct {
		year  int
		month time.Month
	}
	byMonth := map[key]*MonthlyTotal{}
	for _, owned := range s.data {
		if owned.UserId != userId {
			continue
		}
		if owned.Date.Before(from) || owned.Date.After(to) {
			continue
		}
		k := key{owned.Date.Year(), owned.Date.Month()}
		total, ok := byMonth[k]
		if !ok {
			total = &MonthlyTotal{Year: k.year, Month: k.month, Income: decimal.Zero, Expense: decimal.Zero}
			byMonth[k] = total
		}
		switch owned.Type {
		case TypeIncome:
			total.Income = total.Income.Add(owned.Amount)
		case TypeExpense:
			total.Expense = total.Expense.Add(owned.Amount)
		}
	}
	totals := make([]MonthlyTotal, 0, len(byMonth))
	for _, total := range byMonth {
		totals = append(totals, *total)
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Year != totals[j].Year {
			return totals[i].Year < totals[j].Year
		}
		return totals[i].Month < totals[j].Month
	})
	return totals, nil
}

func (s *StubRepo) ListRecurring(ctx context.Context) ([]OwnedTransaction, error) {
	var result []OwnedTransaction
	for _, owned := range s.data {
		if owned.Recurring.IsRecurring {
			result = append(result, owned)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *StubRepo) HasOccurrenceIn(ctx context.Context, userId int, sourceId uuid.UUID, from, to time.Time) (bool, error) {
	for _, owned := range s.data {
		if owned.UserId != userId || owned.SourceID == nil || *owned.SourceID != sourceId {
			continue
		}
		if !owned.Date.Before(from) && !owned.Date.After(to) {
			return true, nil
		}
	}
	return false, nil
}

func (s *StubRepo) Cleanup() {
	s.data = map[uuid.UUID]OwnedTransaction{}
}
