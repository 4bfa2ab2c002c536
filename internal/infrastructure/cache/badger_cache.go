// Package cache internal/infrastructure/cache/badger_cache.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/lrscard/currency-service/internal/domain/entity"
	"github.com/lrscard/currency-service/internal/domain/repository"
	"github.com/lrscard/currency-service/internal/infrastructure/logger"
)

// BadgerRateCache is a persistent local rate cache backed by BadgerDB.
// Snapshots survive restarts without a network dependency; expiration uses
// Badger's native entry TTL. Like every RateCache, backing failures are
// absorbed as misses.
type BadgerRateCache struct {
	db     *badger.DB
	ttl    time.Duration
	logger logger.Logger
}

// NewBadgerRateCache creates a Badger-backed rate cache on an open database
// handle. A non-positive ttl falls back to 24h.
func NewBadgerRateCache(db *badger.DB, ttl time.Duration, log logger.Logger) *BadgerRateCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &BadgerRateCache{
		db:     db,
		ttl:    ttl,
		logger: log,
	}
}

// Get retrieves a snapshot; a missing or expired key is a plain miss.
func (c *BadgerRateCache) Get(_ context.Context, date time.Time, baseCurrency string) *entity.CurrencyRates {
	key := rateCacheKey(date, baseCurrency)

	var rates entity.CurrencyRates
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rates)
		})
	})

	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			c.logger.Error("Failed to read rate cache entry", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		return nil
	}

	return &rates
}

// Set stores a snapshot with the configured TTL; failures are logged and
// dropped.
func (c *BadgerRateCache) Set(_ context.Context, date time.Time, baseCurrency string, rates *entity.CurrencyRates) {
	key := rateCacheKey(date, baseCurrency)

	data, err := json.Marshal(rates)
	if err != nil {
		c.logger.Error("Failed to encode rate cache entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), data).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		c.logger.Error("Failed to write rate cache entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

var _ repository.RateCache = (*BadgerRateCache)(nil)
