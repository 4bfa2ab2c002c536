// Package cache internal/infrastructure/cache/memory_cache.go
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/lrscard/currency-service/internal/domain/entity"
	"github.com/lrscard/currency-service/internal/domain/repository"
	"github.com/lrscard/currency-service/internal/infrastructure/logger"
)

// cacheEntry represents a cached rate snapshot with its storage time
type cacheEntry struct {
	rates    *entity.CurrencyRates
	storedAt time.Time
}

// MemoryRateCache is a thread-safe in-process rate cache. Entries are keyed
// by (date, base currency) and hold full unfiltered snapshots.
type MemoryRateCache struct {
	entries    map[string]cacheEntry
	expiration time.Duration
	mutex      sync.RWMutex
	logger     logger.Logger
}

// NewMemoryRateCache creates a new in-memory rate cache. A non-positive ttl
// falls back to the 24h default.
func NewMemoryRateCache(ttl time.Duration, log logger.Logger) *MemoryRateCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &MemoryRateCache{
		entries:    make(map[string]cacheEntry),
		expiration: ttl,
		logger:     log,
	}
}

// rateCacheKey builds the shared cache key for a date and base currency
func rateCacheKey(date time.Time, baseCurrency string) string {
	return "ExchangeRate:" + strings.ToUpper(baseCurrency) + ":" + date.Format("2006-01-02")
}

// Get retrieves a snapshot if present and not expired; nil means miss.
func (c *MemoryRateCache) Get(_ context.Context, date time.Time, baseCurrency string) *entity.CurrencyRates {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.entries[rateCacheKey(date, baseCurrency)]
	if !exists || time.Since(entry.storedAt) > c.expiration {
		return nil
	}

	return entry.rates
}

// Set stores a snapshot under the date and base currency.
func (c *MemoryRateCache) Set(_ context.Context, date time.Time, baseCurrency string, rates *entity.CurrencyRates) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[rateCacheKey(date, baseCurrency)] = cacheEntry{
		rates:    rates,
		storedAt: time.Now(),
	}
}

// Size returns the number of entries, expired ones included.
func (c *MemoryRateCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.entries)
}

// CleanExpired removes expired entries and returns how many were dropped.
func (c *MemoryRateCache) CleanExpired() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	count := 0
	now := time.Now()

	for key, entry := range c.entries {
		if now.Sub(entry.storedAt) > c.expiration {
			delete(c.entries, key)
			count++
		}
	}

	return count
}

var _ repository.RateCache = (*MemoryRateCache)(nil)
