package currency

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type StubRateProvider struct {
	Snapshot Snapshot
	Err      error
	Calls    int
}

func NewStubRateProvider(rates map[string]float64) *StubRateProvider {
	converted := make(map[string]decimal.Decimal, len(rates))
	for code, rate := range rates {
		converted[code] = decimal.NewFromFloat(rate)
	}
	return &StubRateProvider{
		Snapshot: Snapshot{Base: BaseCurrency, Rates: converted},
	}
}

func NewFailingRateProvider() *StubRateProvider {
	return &StubRateProvider{Err: errors.New("rate provider unreachable")}
}

func (s *StubRateProvider) Latest(ctx context.Context) (Snapshot, error) {
	s.Calls++
	if s.Err != nil {
		return Snapshot{}, s.Err
	}
	return s.Snapshot, nil
}
