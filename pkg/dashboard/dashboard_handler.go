package dashboard

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type OverviewDTO struct {
	Income            float64            `json:"income"`
	Expense           float64            `json:"expense"`
	Balance           float64            `json:"balance"`
	TotalTransactions int64              `json:"totalTransactions"`
	Currency          string             `json:"currency"`
	Symbol            string             `json:"symbol"`
	Categories        []CategorySpendDTO `json:"categories"`
}

type CategorySpendDTO struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Symbol   string  `json:"symbol"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (handler *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	log.Debug("Building dashboard overview")
	w.Header().Set("Content-Type", "application/json")

	overview, err := handler.service.Overview(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(overviewToDTO(overview)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func overviewToDTO(overview Overview) OverviewDTO {
	dto := OverviewDTO{
		Income:            overview.Income.InexactFloat64(),
		Expense:           overview.Expense.InexactFloat64(),
		Balance:           overview.Balance.InexactFloat64(),
		TotalTransactions: overview.TotalTransactions,
		Currency:          overview.Currency,
		Symbol:            overview.Symbol,
		Categories:        make([]CategorySpendDTO, 0, len(overview.Categories)),
	}
	for _, category := range overview.Categories {
		dto.Categories = append(dto.Categories, CategorySpendDTO{
			Category: category.Category,
			Amount:   category.Amount.InexactFloat64(),
			Currency: category.Currency,
			Symbol:   category.Symbol,
		})
	}
	return dto
}
