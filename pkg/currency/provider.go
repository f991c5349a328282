package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fintrack/fintrack/internal/config"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// RateProvider fetches the latest conversion rates for the base currency.
type RateProvider interface {
	Latest(ctx context.Context) (Snapshot, error)
}

// HTTPRateProvider talks to an exchangerate-api compatible endpoint:
// GET {url}/{apiKey}/latest/{base} returning
// {"result": "success", "base_code": "USD", "conversion_rates": {...}}.
type HTTPRateProvider struct {
	url    string
	apiKey string
	client *http.Client
}

func NewHTTPRateProvider(cfg config.Rates) *HTTPRateProvider {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPRateProvider{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
	}
}

func (p *HTTPRateProvider) Latest(ctx context.Context) (Snapshot, error) {
	url := fmt.Sprintf("%s/%s/latest/%s", p.url, p.apiKey, BaseCurrency)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to create rate request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to fetch exchange rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("rate provider returned non-OK status: %d", resp.StatusCode)
		log.Warn(err)
		return Snapshot{}, err
	}

	var body struct {
		Result          string                     `json:"result"`
		BaseCode        string                     `json:"base_code"`
		ConversionRates map[string]decimal.Decimal `json:"conversion_rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode rate response: %w", err)
	}
	if body.Result != "success" || len(body.ConversionRates) == 0 {
		return Snapshot{}, fmt.Errorf("rate provider returned no usable rates (result=%q)", body.Result)
	}

	base := body.BaseCode
	if base == "" {
		base = BaseCurrency
	}
	return Snapshot{
		Base:  base,
		Rates: body.ConversionRates,
	}, nil
}
