// Package repository internal/domain/repository/rate_cache.go
package repository

import (
	"context"
	"time"

	"github.com/lrscard/currency-service/internal/domain/entity"
)

// RateCache defines the interface for cached rate snapshot access. Entries
// are keyed by (date, base currency) only and hold full unfiltered
// snapshots; amount and target-currency filtering happens after retrieval.
//
// Implementations must be safe for concurrent use and must absorb backing
// store failures: a Get that fails returns nil (a miss) and a Set that fails
// is logged and dropped. Cache trouble never becomes a request failure.
type RateCache interface {
	// Get returns the cached snapshot for the date and base currency, or
	// nil when there is none (or the entry expired).
	Get(ctx context.Context, date time.Time, baseCurrency string) *entity.CurrencyRates

	// Set stores a snapshot under the date and base currency, with the
	// implementation's configured expiration.
	Set(ctx context.Context, date time.Time, baseCurrency string, rates *entity.CurrencyRates)
}
