package wallet

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const quoteTTL = 30 * time.Second

// quoteCache holds the last crypto unit price fetched from the backend.
type quoteCache struct {
	mu        sync.RWMutex
	price     decimal.Decimal
	expiresAt time.Time
	now       func() time.Time
}

func newQuoteCache(now func() time.Time) *quoteCache {
	return &quoteCache{now: now}
}

func (c *quoteCache) get() (decimal.Decimal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.expiresAt.IsZero() || c.now().After(c.expiresAt) {
		return decimal.Zero, false
	}
	return c.price, true
}

func (c *quoteCache) set(price decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.price = price
	c.expiresAt = c.now().Add(quoteTTL)
}
