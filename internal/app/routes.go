package app

import (
	"github.com/gorilla/mux"

	"github.com/fintrack/fintrack/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Budgets
	r.HandleFunc("/api/budgets", deps.BudgetHandler.Create).Methods("POST")
	r.HandleFunc("/api/budgets", deps.BudgetHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/budgets/{id}", deps.BudgetHandler.Get).Methods("GET")
	r.HandleFunc("/api/budgets/{id}", deps.BudgetHandler.Update).Methods("PUT")
	r.HandleFunc("/api/budgets/{id}", deps.BudgetHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/budgets/{id}/status", deps.BudgetHandler.GetStatus).Methods("GET")

	// Transactions
	r.HandleFunc("/api/transactions", deps.TransactionHandler.Create).Methods("POST")
	r.HandleFunc("/api/transactions", deps.TransactionHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/transactions/summary", deps.TransactionHandler.GetSummary).Methods("GET")
	r.HandleFunc("/api/transactions/{id}", deps.TransactionHandler.Get).Methods("GET")
	r.HandleFunc("/api/transactions/{id}", deps.TransactionHandler.Update).Methods("PUT")
	r.HandleFunc("/api/transactions/{id}", deps.TransactionHandler.Delete).Methods("DELETE")

	// Dashboard
	r.HandleFunc("/api/dashboard", deps.DashboardHandler.GetOverview).Methods("GET")

	// Reports
	r.HandleFunc("/api/reports/summary", deps.ReportHandler.GetSummary).Methods("GET")

	// Currency conversion
	r.HandleFunc("/api/currency/convert", deps.CurrencyHandler.Convert).Methods("GET")

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.UpdateUser).Methods("PUT")
	r.HandleFunc("/api/user/current", deps.UserHandler.DeleteUser).Methods("DELETE")
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
}
