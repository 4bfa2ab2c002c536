// Package provider internal/domain/provider/provider.go
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lrscard/currency-service/internal/domain/entity"
)

// Type identifies an upstream exchange rate provider.
type Type string

const (
	// TypeFrankfurter is the only provider currently active.
	TypeFrankfurter Type = "frankfurter"
)

// ErrNotSupported is returned when a provider identifier has no registered
// implementation.
var ErrNotSupported = errors.New("currency provider is not supported")

// ParseType resolves a provider identifier from request input. An empty
// identifier maps to the default provider; matching is case-insensitive.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(TypeFrankfurter):
		return TypeFrankfurter, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrNotSupported, s)
	}
}

// RateQuery holds the parameters for a single point-in-time rate lookup.
// Nil Amount means the upstream default (1); nil Date means "latest
// available"; empty BaseCurrency and Symbols are simply not sent upstream.
type RateQuery struct {
	Amount       *float64
	Date         *time.Time
	BaseCurrency string
	Symbols      []string
}

// ExchangeRateProvider is the contract every upstream rate source client
// implements.
type ExchangeRateProvider interface {
	GetExchangeRate(ctx context.Context, query RateQuery) (*entity.CurrencyRates, error)
}

// TransientError marks a failure that is expected to succeed on retry:
// timeouts, network errors, and 5xx/429-class upstream responses.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// DataError marks an upstream response body that could not be parsed into
// the expected shape. Data errors are never retried.
type DataError struct {
	Err error
}

func (e *DataError) Error() string {
	return e.Err.Error()
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is retryable per the resiliency policy.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
