package currency

import (
	"encoding/json"
	"net/http"

	"github.com/fintrack/fintrack/internal/rest"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type ConversionDTO struct {
	Amount    float64 `json:"amount"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Converted float64 `json:"converted"`
	Symbol    string  `json:"symbol"`
}

type Handler struct {
	cache *RateCache
}

func NewHandler(cache *RateCache) *Handler {
	return &Handler{cache: cache}
}

// Convert converts an amount between two currencies using the cached
// rate table. Both rates are expressed against the base currency.
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	query := r.URL.Query()
	amountParam := query.Get("amount")
	from := query.Get("from")
	to := query.Get("to")

	amount, err := decimal.NewFromString(amountParam)
	if err != nil {
		log.Debugf("invalid amount %q: %v", amountParam, err)
		w.WriteHeader(http.StatusBadRequest)
		if encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Invalid amount"}); encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}
	if from == "" || to == "" {
		w.WriteHeader(http.StatusBadRequest)
		if encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Both from and to currencies are required"}); encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	fromRate := h.cache.GetRate(r.Context(), from)
	toRate := h.cache.GetRate(r.Context(), to)

	// Rates are base->from and base->to, so cross-currency conversion is
	// amount * to / from. The cache guarantees non-zero rates.
	converted := amount.Mul(toRate.Rate).Div(fromRate.Rate).Round(2)

	w.WriteHeader(http.StatusOK)
	response := ConversionDTO{
		Amount:    amount.InexactFloat64(),
		From:      from,
		To:        to,
		Converted: converted.InexactFloat64(),
		Symbol:    toRate.Symbol,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
