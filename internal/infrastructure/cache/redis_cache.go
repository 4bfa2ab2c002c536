// Package cache internal/infrastructure/cache/redis_cache.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/lrscard/currency-service/internal/domain/entity"
	"github.com/lrscard/currency-service/internal/domain/repository"
	"github.com/lrscard/currency-service/internal/infrastructure/logger"
	"github.com/redis/go-redis/v9"
)

// RedisRateCache is a distributed rate cache backed by Redis. Snapshots are
// stored as JSON with a day-granularity expiration. Backing store failures
// are logged and reported as misses, never as request failures.
type RedisRateCache struct {
	client     *redis.Client
	expiration time.Duration
	logger     logger.Logger
}

// NewRedisRateCache creates a Redis-backed rate cache. A non-positive
// expirationDays falls back to 90 days.
func NewRedisRateCache(addr, password string, db, expirationDays int, log logger.Logger) *RedisRateCache {
	if expirationDays <= 0 {
		expirationDays = 90
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisRateCache{
		client:     client,
		expiration: time.Duration(expirationDays) * 24 * time.Hour,
		logger:     log,
	}
}

// Get retrieves a snapshot from Redis; any failure is a miss.
func (c *RedisRateCache) Get(ctx context.Context, date time.Time, baseCurrency string) *entity.CurrencyRates {
	key := rateCacheKey(date, baseCurrency)

	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Error("Failed to read rate cache entry", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		return nil
	}

	var rates entity.CurrencyRates
	if err := json.Unmarshal([]byte(val), &rates); err != nil {
		c.logger.Error("Failed to decode rate cache entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil
	}

	return &rates
}

// Set stores a snapshot in Redis; failures are logged and dropped.
func (c *RedisRateCache) Set(ctx context.Context, date time.Time, baseCurrency string, rates *entity.CurrencyRates) {
	key := rateCacheKey(date, baseCurrency)

	data, err := json.Marshal(rates)
	if err != nil {
		c.logger.Error("Failed to encode rate cache entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return
	}

	if err := c.client.Set(ctx, key, data, c.expiration).Err(); err != nil {
		c.logger.Error("Failed to write rate cache entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// Close releases the underlying Redis connection.
func (c *RedisRateCache) Close() error {
	return c.client.Close()
}

var _ repository.RateCache = (*RedisRateCache)(nil)
