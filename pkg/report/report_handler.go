package report

import (
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

type SummaryDTO struct {
	Currency         string        `json:"currency"`
	Symbol           string        `json:"symbol"`
	MonthlyBreakdown []MonthlyDTO  `json:"monthlyBreakdown"`
	CategorySpending []CategoryDTO `json:"categorySpending"`
	CashFlow         []CashFlowDTO `json:"cashFlow"`
}

type MonthlyDTO struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type CategoryDTO struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type CashFlowDTO struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (handler *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	log.Debug("Building financial summary report")
	w.Header().Set("Content-Type", "application/json")

	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")
	if (startDate == "") != (endDate == "") {
		http.Error(w, "startDate and endDate must be provided together", http.StatusBadRequest)
		return
	}

	var from, to time.Time
	if startDate != "" {
		var err error
		from, err = time.Parse(time.RFC3339, startDate)
		if err != nil {
			http.Error(w, "invalid startDate", http.StatusBadRequest)
			return
		}
		to, err = time.Parse(time.RFC3339, endDate)
		if err != nil {
			http.Error(w, "invalid endDate", http.StatusBadRequest)
			return
		}
		if to.Before(from) {
			http.Error(w, "endDate must not be before startDate", http.StatusBadRequest)
			return
		}
	}

	summary, err := handler.service.FinancialSummary(r.Context(), from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(summaryToDTO(summary)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func summaryToDTO(summary Summary) SummaryDTO {
	dto := SummaryDTO{
		Currency:         summary.Currency,
		Symbol:           summary.Symbol,
		MonthlyBreakdown: make([]MonthlyDTO, 0, len(summary.MonthlyBreakdown)),
		CategorySpending: make([]CategoryDTO, 0, len(summary.CategorySpending)),
		CashFlow:         make([]CashFlowDTO, 0, len(summary.CashFlow)),
	}
	for _, month := range summary.MonthlyBreakdown {
		dto.MonthlyBreakdown = append(dto.MonthlyBreakdown, MonthlyDTO{
			Year:    month.Year,
			Month:   int(month.Month),
			Income:  month.Income.InexactFloat64(),
			Expense: month.Expense.InexactFloat64(),
		})
	}
	for _, category := range summary.CategorySpending {
		dto.CategorySpending = append(dto.CategorySpending, CategoryDTO{
			Category: category.Category,
			Amount:   category.Amount.InexactFloat64(),
		})
	}
	for _, flow := range summary.CashFlow {
		dto.CashFlow = append(dto.CashFlow, CashFlowDTO{
			Year:    flow.Year,
			Month:   int(flow.Month),
			Income:  flow.Income.InexactFloat64(),
			Expense: flow.Expense.InexactFloat64(),
			Net:     flow.Net.InexactFloat64(),
		})
	}
	return dto
}
