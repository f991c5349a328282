package app

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/utils"
	"github.com/fintrack/fintrack/pkg/budget"
	"github.com/fintrack/fintrack/pkg/currency"
	"github.com/fintrack/fintrack/pkg/dashboard"
	"github.com/fintrack/fintrack/pkg/report"
	"github.com/fintrack/fintrack/pkg/transaction"
	"github.com/fintrack/fintrack/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	UserService user.Service
	UserHandler *user.Handler

	RateProvider    currency.RateProvider
	RateCache       *currency.RateCache
	CurrencyHandler *currency.Handler

	BudgetRepo    budget.BudgetRepo
	BudgetService *budget.BudgetServiceImpl
	BudgetHandler *budget.BudgetHandler

	TransactionRepo    transaction.Repo
	TransactionService *transaction.ServiceImpl
	TransactionHandler *transaction.Handler

	DashboardService *dashboard.ServiceImpl
	DashboardHandler *dashboard.Handler

	ReportService *report.ServiceImpl
	ReportHandler *report.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.RateProvider = currency.NewHTTPRateProvider(cfg.Rates)
	deps.RateCache = currency.NewRateCache(deps.RateProvider, time.Duration(cfg.Rates.TTLMinutes)*time.Minute, deps.Clock)
	deps.CurrencyHandler = currency.NewHandler(deps.RateCache)

	deps.BudgetRepo = budget.NewBudgetRepo(db)
	deps.BudgetService = budget.NewBudgetService(deps.BudgetRepo, deps.Clock)
	deps.BudgetHandler = budget.NewBudgetHandler(deps.BudgetService)

	deps.TransactionRepo = transaction.NewRepo(db)
	deps.TransactionService = transaction.NewService(deps.TransactionRepo, deps.Clock)
	deps.TransactionHandler = transaction.NewHandler(deps.TransactionService)

	deps.DashboardService = dashboard.NewService(deps.TransactionRepo, deps.RateCache)
	deps.DashboardHandler = dashboard.NewHandler(deps.DashboardService)

	deps.ReportService = report.NewService(deps.TransactionRepo, deps.RateCache)
	deps.ReportHandler = report.NewHandler(deps.ReportService)

	return deps
}
