package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/fintrack/fintrack/internal/utils"
	"github.com/fintrack/fintrack/pkg/transaction"
)

// RecurringTransactionJob materializes a fresh occurrence of every
// transaction flagged recurring. Occurrences are keyed by their source
// transaction id; a source that already produced one in the current month is
// skipped, so firing the job twice in the same month is a no-op.
type RecurringTransactionJob struct {
	transactions transaction.Repo
	clock        utils.Clock
}

func NewRecurringTransactionJob(transactions transaction.Repo, clock utils.Clock) *RecurringTransactionJob {
	return &RecurringTransactionJob{transactions: transactions, clock: clock}
}

func (j *RecurringTransactionJob) Run(ctx context.Context) error {
	now := j.clock.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

	recurring, err := j.transactions.ListRecurring(ctx)
	if err != nil {
		return fmt.Errorf("failed to list recurring transactions: %w", err)
	}

	created := 0
	for _, owned := range recurring {
		sourceId := owned.ID
		if owned.SourceID != nil {
			sourceId = *owned.SourceID
		}

		exists, err := j.transactions.HasOccurrenceIn(ctx, owned.UserId, sourceId, monthStart, monthEnd)
		if err != nil {
			log.Errorf("failed to check occurrences for transaction %s: %v", owned.ID, err)
			continue
		}
		if exists {
			continue
		}

		occurrence := transaction.Transaction{
			ID:       uuid.New(),
			Type:     owned.Type,
			Amount:   owned.Amount,
			BudgetID: owned.BudgetID,
			Category: owned.Category,
			Date:     now,
			Notes:    owned.Notes,
			SourceID: &sourceId,
		}
		if err := j.transactions.Store(ctx, owned.UserId, occurrence); err != nil {
			log.Errorf("failed to store occurrence of transaction %s: %v", owned.ID, err)
			continue
		}
		created++
	}

	log.Infof("recurring transaction job finished, created %d occurrence(s)", created)
	return nil
}

// Scheduler runs registered jobs on cron schedules. Job panics and errors are
// logged and never propagate to the process.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

func (s *Scheduler) AddJob(schedule string, name string, run func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(schedule, func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("job %s panicked: %v", name, r)
			}
		}()
		if err := run(context.Background()); err != nil {
			log.Errorf("job %s failed: %v", name, err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}
