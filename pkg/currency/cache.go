package currency

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fintrack/fintrack/internal/utils"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const DefaultTTL = time.Hour

// RateCache serves conversion rates out of a held snapshot, refreshing it
// from the provider at most once per TTL window. Lookups never fail: when
// no usable snapshot can be obtained the rate degrades to 1 against the
// base currency so that monetary displays survive a provider outage.
type RateCache struct {
	provider RateProvider
	ttl      time.Duration
	clock    utils.Clock

	mu       sync.Mutex
	snapshot *Snapshot
}

func NewRateCache(provider RateProvider, ttl time.Duration, clock utils.Clock) *RateCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RateCache{
		provider: provider,
		ttl:      ttl,
		clock:    clock,
	}
}

// GetRate returns the conversion rate from the base currency to target.
// An empty target defaults to the base currency.
func (c *RateCache) GetRate(ctx context.Context, target string) Rate {
	target = strings.ToUpper(strings.TrimSpace(target))
	if target == "" {
		target = BaseCurrency
	}

	now := c.clock.Now()

	if target == BaseCurrency {
		return Rate{Rate: decimal.NewFromInt(1), Base: BaseCurrency, Symbol: Symbol(BaseCurrency), FetchedAt: now}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot == nil || now.Sub(c.snapshot.FetchedAt) >= c.ttl {
		fresh, err := c.provider.Latest(ctx)
		if err != nil {
			log.Warnf("exchange rate refresh failed, keeping previous snapshot: %v", err)
		} else {
			fresh.FetchedAt = now
			c.snapshot = &fresh
		}
	}

	if c.snapshot == nil {
		return Rate{Rate: decimal.NewFromInt(1), Base: BaseCurrency, Symbol: Symbol(target), FetchedAt: now}
	}

	rate, ok := c.snapshot.Rates[target]
	if !ok || rate.IsZero() {
		if !ok {
			log.Debugf("no rate for %s in snapshot, falling back to 1", target)
		} else {
			log.Warnf("rate for %s was zero, falling back to 1", target)
		}
		rate = decimal.NewFromInt(1)
	}

	return Rate{
		Rate:      rate,
		Base:      c.snapshot.Base,
		Symbol:    Symbol(target),
		FetchedAt: c.snapshot.FetchedAt,
	}
}
