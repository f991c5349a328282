package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrTransactionNotFound = errors.New("transaction not found")

type Repo interface {
	Store(ctx context.Context, userId int, tx Transaction) error
	GetAll(ctx context.Context, userId int) ([]Transaction, error)
	Get(ctx context.Context, userId int, id uuid.UUID) (Transaction, error)
	Update(ctx context.Context, userId int, tx Transaction) (bool, error)
	Delete(ctx context.Context, userId int, id uuid.UUID) (bool, error)
	// TotalsByType sums income and expense amounts and counts all
	// transactions for a user in a single grouped query.
	TotalsByType(ctx context.Context, userId int) (Totals, error)
	// ExpensesByCategory sums expense amounts per budget category, falling
	// back to the transaction's own category label for unlinked rows.
	// Results are sorted by amount descending. Zero times mean unbounded.
	ExpensesByCategory(ctx context.Context, userId int, from, to time.Time) ([]CategoryTotal, error)
	// MonthlyTotals sums income and expense amounts per calendar month,
	// in chronological order. Zero times mean unbounded.
	MonthlyTotals(ctx context.Context, userId int, from, to time.Time) ([]MonthlyTotal, error)
	// ListRecurring returns every transaction flagged recurring, across
	// all users.
	ListRecurring(ctx context.Context) ([]OwnedTransaction, error)
	// HasOccurrenceIn reports whether a generated occurrence of sourceId
	// already exists within [from, to].
	HasOccurrenceIn(ctx context.Context, userId int, sourceId uuid.UUID, from, to time.Time) (bool, error)
}

type RepoImpl struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *RepoImpl {
	return &RepoImpl{db: db}
}

// boundsOrDefaults widens zero-valued bounds to cover all time.
func boundsOrDefaults(from, to time.Time) (time.Time, time.Time) {
	if from.IsZero() {
		from = time.Unix(0, 0).UTC()
	}
	if to.IsZero() {
		to = time.Date(9999, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return from, to
}

func (r *RepoImpl) Store(ctx context.Context, userId int, tx Transaction) error {
	dbTx, err := r.db.Begin(ctx)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %w", err)
		log.Error(err)
		return err
	}
	defer dbTx.Rollback(ctx)

	query := `INSERT INTO transactions (id, user_id, type, amount, budget_id, category, occurred_on, notes,
				is_recurring, recurring_frequency, next_occurrence, source_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	var frequency *string
	if tx.Recurring.Frequency != "" {
		f := string(tx.Recurring.Frequency)
		frequency = &f
	}
	_, err = dbTx.Exec(ctx, query,
		tx.ID,
		userId,
		string(tx.Type),
		tx.Amount,
		tx.BudgetID,
		tx.Category,
		tx.Date,
		tx.Notes,
		tx.Recurring.IsRecurring,
		frequency,
		tx.Recurring.NextOccurrence,
		tx.SourceID,
	)
	if err != nil {
		err := fmt.Errorf("could not store transaction: %w", err)
		log.Error(err)
		return err
	}

	for _, attachment := range tx.Attachments {
		_, err = dbTx.Exec(ctx,
			`INSERT INTO transaction_attachments (transaction_id, file_url, file_type) VALUES ($1, $2, $3)`,
			tx.ID, attachment.FileURL, attachment.FileType,
		)
		if err != nil {
			err := fmt.Errorf("could not store attachment: %w", err)
			log.Error(err)
			return err
		}
	}

	return dbTx.Commit(ctx)
}

const transactionColumns = `id, type, amount, budget_id, category, occurred_on, notes,
	is_recurring, recurring_frequency, next_occurrence, source_id, created_at`

func scanTransaction(row pgx.Row) (Transaction, error) {
	var tx Transaction
	var frequency *string
	if err := row.Scan(
		&tx.ID,
		&tx.Type,
		&tx.Amount,
		&tx.BudgetID,
		&tx.Category,
		&tx.Date,
		&tx.Notes,
		&tx.Recurring.IsRecurring,
		&frequency,
		&tx.Recurring.NextOccurrence,
		&tx.SourceID,
		&tx.CreatedAt,
	); err != nil {
		return Transaction{}, err
	}
	if frequency != nil {
		tx.Recurring.Frequency = Frequency(*frequency)
	}
	return tx, nil
}

func (r *RepoImpl) GetAll(ctx context.Context, userId int) ([]Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE user_id = $1 ORDER BY occurred_on DESC`, transactionColumns)
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query transactions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var transactions []Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			err := fmt.Errorf("could not scan transaction: %w", err)
			log.Error(err)
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over transactions: %w", err)
		log.Error(err)
		return nil, err
	}

	if err := r.loadAttachments(ctx, transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *RepoImpl) Get(ctx context.Context, userId int, id uuid.UUID) (Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE id = $1 AND user_id = $2`, transactionColumns)
	tx, err := scanTransaction(r.db.QueryRow(ctx, query, id, userId))
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, ErrTransactionNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get transaction: %w", err)
		log.Error(err)
		return Transaction{}, err
	}

	txs := []Transaction{tx}
	if err := r.loadAttachments(ctx, txs); err != nil {
		return Transaction{}, err
	}
	return txs[0], nil
}

func (r *RepoImpl) loadAttachments(ctx context.Context, transactions []Transaction) error {
	if len(transactions) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(transactions))
	for _, tx := range transactions {
		ids = append(ids, tx.ID)
	}
	rows, err := r.db.Query(ctx,
		`SELECT transaction_id, file_url, file_type FROM transaction_attachments WHERE transaction_id = ANY($1)`, ids)
	if err != nil {
		err := fmt.Errorf("could not query attachments: %w", err)
		log.Error(err)
		return err
	}
	defer rows.Close()

	byTransaction := map[uuid.UUID][]Attachment{}
	for rows.Next() {
		var txId uuid.UUID
		var attachment Attachment
		if err := rows.Scan(&txId, &attachment.FileURL, &attachment.FileType); err != nil {
			err := fmt.Errorf("could not scan attachment: %w", err)
			log.Error(err)
			return err
		}
		byTransaction[txId] = append(byTransaction[txId], attachment)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating over attachments: %w", err)
	}

	for i := range transactions {
		transactions[i].Attachments = byTransaction[transactions[i].ID]
	}
	return nil
}

func (r *RepoImpl) Update(ctx context.Context, userId int, tx Transaction) (bool, error) {
	query := `UPDATE transactions SET amount = $1, budget_id = $2, category = $3, occurred_on = $4, notes = $5,
				is_recurring = $6, recurring_frequency = $7, next_occurrence = $8
				WHERE id = $9 AND user_id = $10`
	var frequency *string
	if tx.Recurring.Frequency != "" {
		f := string(tx.Recurring.Frequency)
		frequency = &f
	}
	tag, err := r.db.Exec(ctx, query,
		tx.Amount,
		tx.BudgetID,
		tx.Category,
		tx.Date,
		tx.Notes,
		tx.Recurring.IsRecurring,
		frequency,
		tx.Recurring.NextOccurrence,
		tx.ID,
		userId,
	)
	if err != nil {
		err := fmt.Errorf("could not update transaction: %w", err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RepoImpl) Delete(ctx context.Context, userId int, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM transactions WHERE id = $1 AND user_id = $2", id, userId)
	if err != nil {
		err := fmt.Errorf("could not delete transaction: %w", err)
		log.Error(err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RepoImpl) TotalsByType(ctx context.Context, userId int) (Totals, error) {
	query := `SELECT
				COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
				COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0),
				COUNT(*)
				FROM transactions WHERE user_id = $1`
	var totals Totals
	err := r.db.QueryRow(ctx, query, userId).Scan(&totals.Income, &totals.Expense, &totals.Count)
	if err != nil {
		err := fmt.Errorf("could not compute totals: %w", err)
		log.Error(err)
		return Totals{}, err
	}
	return totals, nil
}

func (r *RepoImpl) ExpensesByCategory(ctx context.Context, userId int, from, to time.Time) ([]CategoryTotal, error) {
	from, to = boundsOrDefaults(from, to)
	query := `SELECT COALESCE(b.category, t.category) AS category, SUM(t.amount) AS total
				FROM transactions t
				LEFT JOIN budgets b ON t.budget_id = b.id
				WHERE t.user_id = $1 AND t.type = 'expense'
				  AND t.occurred_on >= $2 AND t.occurred_on <= $3
				GROUP BY COALESCE(b.category, t.category)
				ORDER BY total DESC`
	rows, err := r.db.Query(ctx, query, userId, from, to)
	if err != nil {
		err := fmt.Errorf("could not query category totals: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var total CategoryTotal
		if err := rows.Scan(&total.Category, &total.Amount); err != nil {
			err := fmt.Errorf("could not scan category total: %w", err)
			log.Error(err)
			return nil, err
		}
		totals = append(totals, total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over category totals: %w", err)
	}
	return totals, nil
}

func (r *RepoImpl) MonthlyTotals(ctx context.Context, userId int, from, to time.Time) ([]MonthlyTotal, error) {
	from, to = boundsOrDefaults(from, to)
	query := `SELECT
				EXTRACT(YEAR FROM occurred_on)::int AS year,
				EXTRACT(MONTH FROM occurred_on)::int AS month,
				COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0) AS income,
				COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0) AS expense
				FROM transactions
				WHERE user_id = $1 AND occurred_on >= $2 AND occurred_on <= $3
				GROUP BY 1, 2
				ORDER BY 1, 2`
	rows, err := r.db.Query(ctx, query, userId, from, to)
	if err != nil {
		err := fmt.Errorf("could not query monthly totals: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var totals []MonthlyTotal
	for rows.Next() {
		var total MonthlyTotal
		var month int
		if err := rows.Scan(&total.Year, &month, &total.Income, &total.Expense); err != nil {
			err := fmt.Errorf("could not scan monthly total: %w", err)
			log.Error(err)
			return nil, err
		}
		total.Month = time.Month(month)
		totals = append(totals, total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over monthly totals: %w", err)
	}
	return totals, nil
}

func (r *RepoImpl) ListRecurring(ctx context.Context) ([]OwnedTransaction, error) {
	query := fmt.Sprintf(`SELECT user_id, %s FROM transactions WHERE is_recurring = TRUE ORDER BY created_at`,
		transactionColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query recurring transactions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var result []OwnedTransaction
	for rows.Next() {
		var owned OwnedTransaction
		var frequency *string
		if err := rows.Scan(
			&owned.UserId,
			&owned.ID,
			&owned.Type,
			&owned.Amount,
			&owned.BudgetID,
			&owned.Category,
			&owned.Date,
			&owned.Notes,
			&owned.Recurring.IsRecurring,
			&frequency,
			&owned.Recurring.NextOccurrence,
			&owned.SourceID,
			&owned.CreatedAt,
		); err != nil {
			err := fmt.Errorf("could not scan recurring transaction: %w", err)
			log.Error(err)
			return nil, err
		}
		if frequency != nil {
			owned.Recurring.Frequency = Frequency(*frequency)
		}
		result = append(result, owned)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over recurring transactions: %w", err)
	}
	return result, nil
}

func (r *RepoImpl) HasOccurrenceIn(ctx context.Context, userId int, sourceId uuid.UUID, from, to time.Time) (bool, error) {
	query := `SELECT EXISTS (
				SELECT 1 FROM transactions
				WHERE user_id = $1 AND source_id = $2 AND occurred_on >= $3 AND occurred_on <= $4)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userId, sourceId, from, to).Scan(&exists); err != nil {
		err := fmt.Errorf("could not check for generated occurrence: %w", err)
		log.Error(err)
		return false, err
	}
	return exists, nil
}
