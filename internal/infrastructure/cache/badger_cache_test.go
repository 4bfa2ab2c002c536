// Package cache internal/infrastructure/cache/badger_cache_test.go
package cache

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/lrscard/currency-service/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestBadger(t *testing.T) *badger.DB {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, db.Close())
	})

	return db
}

func TestBadgerRateCache(t *testing.T) {
	day := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	amount := 1.0
	snapshot := &entity.CurrencyRates{
		Amount: &amount,
		Base:   "USD",
		Date:   &day,
		Rates:  map[string]float64{"EUR": 0.92, "GBP": 0.79},
	}

	t.Run("set then get round-trips the snapshot", func(t *testing.T) {
		c := NewBadgerRateCache(openTestBadger(t), time.Hour, nil)

		c.Set(context.Background(), day, "USD", snapshot)
		got := c.Get(context.Background(), day, "USD")

		require.NotNil(t, got)
		assert.Equal(t, "USD", got.Base)
		assert.Equal(t, snapshot.Rates, got.Rates)
		require.NotNil(t, got.Date)
		assert.True(t, got.Date.Equal(day))
	})

	t.Run("missing key is a miss", func(t *testing.T) {
		c := NewBadgerRateCache(openTestBadger(t), time.Hour, nil)

		assert.Nil(t, c.Get(context.Background(), day, "USD"))
	})

	t.Run("entries are scoped by base currency", func(t *testing.T) {
		c := NewBadgerRateCache(openTestBadger(t), time.Hour, nil)

		c.Set(context.Background(), day, "USD", snapshot)

		assert.Nil(t, c.Get(context.Background(), day, "EUR"))
	})

	t.Run("entries expire with the configured ttl", func(t *testing.T) {
		c := NewBadgerRateCache(openTestBadger(t), time.Second, nil)

		c.Set(context.Background(), day, "USD", snapshot)
		require.NotNil(t, c.Get(context.Background(), day, "USD"))

		time.Sleep(1100 * time.Millisecond)

		assert.Nil(t, c.Get(context.Background(), day, "USD"))
	})
}
