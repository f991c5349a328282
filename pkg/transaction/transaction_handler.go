package transaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type RecurringDTO struct {
	IsRecurring    bool       `json:"isRecurring"`
	Frequency      string     `json:"frequency,omitempty"`
	NextOccurrence *time.Time `json:"nextOccurrence,omitempty"`
}

type AttachmentDTO struct {
	FileURL  string `json:"fileUrl"`
	FileType string `json:"fileType,omitempty"`
}

type TransactionDTO struct {
	ID          string          `json:"id,omitempty"`
	Type        string          `json:"type"`
	Amount      float64         `json:"amount"`
	BudgetID    string          `json:"budgetId,omitempty"`
	Category    string          `json:"category,omitempty"`
	Date        *time.Time      `json:"date,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Recurring   RecurringDTO    `json:"recurring"`
	Attachments []AttachmentDTO `json:"attachments,omitempty"`
	CreatedAt   *time.Time      `json:"createdAt,omitempty"`
}

type SummaryDTO struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new transaction")
	w.Header().Set("Content-Type", "application/json")

	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tx, err := dtoToTransaction(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), tx)
	if err != nil {
		if isValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(transactionToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	transactions, err := h.service.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]TransactionDTO, 0, len(transactions))
	for _, tx := range transactions {
		dtos = append(dtos, transactionToDTO(tx))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			http.Error(w, "Transaction not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(transactionToDTO(tx)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tx, err := dtoToTransaction(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tx.ID = id

	ok, err := h.service.Update(r.Context(), tx)
	if err != nil {
		if isValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Transaction not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(transactionToDTO(tx)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := h.service.Delete(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Transaction not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetSummary reports income, expense and balance totals in base currency.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	summary, err := h.service.Summary(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	dto := SummaryDTO{
		Income:  summary.Income.InexactFloat64(),
		Expense: summary.Expense.InexactFloat64(),
		Balance: summary.Balance.InexactFloat64(),
	}
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, ErrInvalidType) || errors.Is(err, ErrNegativeAmount) || errors.Is(err, ErrInvalidFrequency)
}

func transactionToDTO(tx Transaction) TransactionDTO {
	dto := TransactionDTO{
		ID:       tx.ID.String(),
		Type:     string(tx.Type),
		Amount:   tx.Amount.InexactFloat64(),
		Category: tx.Category,
		Notes:    tx.Notes,
		Recurring: RecurringDTO{
			IsRecurring:    tx.Recurring.IsRecurring,
			Frequency:      string(tx.Recurring.Frequency),
			NextOccurrence: tx.Recurring.NextOccurrence,
		},
	}
	if tx.BudgetID != nil {
		dto.BudgetID = tx.BudgetID.String()
	}
	if !tx.Date.IsZero() {
		date := tx.Date
		dto.Date = &date
	}
	if !tx.CreatedAt.IsZero() {
		createdAt := tx.CreatedAt
		dto.CreatedAt = &createdAt
	}
	for _, attachment := range tx.Attachments {
		dto.Attachments = append(dto.Attachments, AttachmentDTO{
			FileURL:  attachment.FileURL,
			FileType: attachment.FileType,
		})
	}
	return dto
}

func dtoToTransaction(dto TransactionDTO) (Transaction, error) {
	tx := Transaction{
		Type:     Type(dto.Type),
		Amount:   decimal.NewFromFloat(dto.Amount),
		Category: dto.Category,
		Notes:    dto.Notes,
		Recurring: Recurring{
			IsRecurring:    dto.Recurring.IsRecurring,
			Frequency:      Frequency(dto.Recurring.Frequency),
			NextOccurrence: dto.Recurring.NextOccurrence,
		},
	}
	if dto.BudgetID != "" {
		budgetId, err := uuid.Parse(dto.BudgetID)
		if err != nil {
			return Transaction{}, errors.New("invalid budget id")
		}
		tx.BudgetID = &budgetId
	}
	if dto.Date != nil {
		tx.Date = *dto.Date
	}
	for _, attachment := range dto.Attachments {
		tx.Attachments = append(tx.Attachments, Attachment{
			FileURL:  attachment.FileURL,
			FileType: attachment.FileType,
		})
	}
	return tx, nil
}
