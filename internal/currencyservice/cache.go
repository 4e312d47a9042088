package currencyservice

import (
	"sync"
	"time"

	"github.com/go-petr/pet-bank-payments/internal/domain"
)

// Clock tells the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now returns f().
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

type pairKey struct {
	from, to string
}

// Cache keeps the latest known rate per currency pair.
type Cache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	clock Clock
	items map[pairKey]domain.CurrencyData
}

// NewCache returns an empty Cache whose entries are fresh for ttl.
func NewCache(ttl time.Duration, clock Clock) *Cache {
	return &Cache{
		ttl:   ttl,
		clock: clock,
		items: make(map[pairKey]domain.CurrencyData),
	}
}

// Get returns the cached rate of the pair and whether it is still fresh.
func (c *Cache) Get(from, to string) (rate domain.CurrencyData, fresh, ok bool) {
	c.mu.RLock()
	rate, ok = c.items[pairKey{from, to}]
	c.mu.RUnlock()

	if !ok {
		return rate, false, false
	}

	return rate, !rate.StaleAt(c.clock.Now(), c.ttl), true
}

// Set stores the rate unless a newer one is already cached.
func (c *Cache) Set(rate domain.CurrencyData) {
	k := pairKey{rate.From, rate.To}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.items[k]; ok && cur.FetchedAt.After(rate.FetchedAt) {
		return
	}

	c.items[k] = rate
}

// Fresh reports whether the rate is within ttl.
func (c *Cache) Fresh(rate domain.CurrencyData) bool {
	return !rate.StaleAt(c.clock.Now(), c.ttl)
}
