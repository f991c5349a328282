package budget

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type BudgetDTO struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Limit    float64 `json:"limit"`
	Period   string  `json:"period"`
	Spent    float64 `json:"spent,omitempty"`
}

type StatusDTO struct {
	Category     string  `json:"category"`
	Period       string  `json:"period"`
	Limit        float64 `json:"limit"`
	TotalSpent   float64 `json:"totalSpent"`
	Remaining    float64 `json:"remaining"`
	WithinBudget bool    `json:"withinBudget"`
}

type BudgetHandler struct {
	budgetService BudgetService
}

func NewBudgetHandler(budgetService BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService}
}

func (handler *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new budget")
	w.Header().Set("Content-Type", "application/json")

	var budgetDTO BudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&budgetDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	budget, err := dtoToBudget(budgetDTO)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := handler.budgetService.Create(r.Context(), budget)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(budgetToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (handler *BudgetHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	budgets, err := handler.budgetService.GetAllWithSpend(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	budgetsDTO := make([]BudgetDTO, 0, len(budgets))
	for _, budget := range budgets {
		dto := budgetToDTO(budget.Budget)
		dto.Spent = budget.Spent.InexactFloat64()
		budgetsDTO = append(budgetsDTO, dto)
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(budgetsDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (handler *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	budgetId, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	budget, err := handler.budgetService.Get(r.Context(), budgetId)
	if err != nil {
		if errors.Is(err, ErrBudgetNotFound) {
			http.Error(w, "Budget not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(budgetToDTO(budget)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (handler *BudgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	budgetId, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var budgetDTO BudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&budgetDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	budget, err := dtoToBudget(budgetDTO)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	budget.ID = budgetId

	ok, err := handler.budgetService.Update(r.Context(), budget)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Budget not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(budgetToDTO(budget)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (handler *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	budgetId, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := handler.budgetService.Delete(r.Context(), budgetId)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Budget not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetStatus reports spent/remaining/withinBudget for a single budget.
func (handler *BudgetHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	budgetId, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	status, err := handler.budgetService.Status(r.Context(), budgetId)
	if err != nil {
		if errors.Is(err, ErrBudgetNotFound) {
			http.Error(w, "Budget not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	statusDTO := StatusDTO{
		Category:     status.Category,
		Period:       string(status.Period),
		Limit:        status.Limit.InexactFloat64(),
		TotalSpent:   status.Spent.InexactFloat64(),
		Remaining:    status.Remaining.InexactFloat64(),
		WithinBudget: status.WithinBudget,
	}
	if err := json.NewEncoder(w).Encode(statusDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func budgetToDTO(budget Budget) BudgetDTO {
	return BudgetDTO{
		ID:       budget.ID.String(),
		Category: budget.Category,
		Limit:    budget.Limit.InexactFloat64(),
		Period:   string(budget.Period),
	}
}

func dtoToBudget(dto BudgetDTO) (Budget, error) {
	limit := decimal.NewFromFloat(dto.Limit)
	if limit.IsNegative() {
		return Budget{}, errors.New("budget limit must not be negative")
	}
	period := Period(dto.Period)
	if dto.Period == "" {
		period = PeriodMonthly
	} else if !period.IsValid() {
		return Budget{}, errors.New("invalid budget period")
	}

	var id uuid.UUID
	if dto.ID != "" {
		parsed, err := uuid.Parse(dto.ID)
		if err != nil {
			return Budget{}, errors.New("invalid budget id")
		}
		id = parsed
	}

	return Budget{
		ID:       id,
		Category: dto.Category,
		Limit:    limit,
		Period:   period,
	}, nil
}
