// Package entity internal/domain/entity/currency_rates_test.go
package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithDate(t *testing.T) {
	friday := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

	original := (&CurrencyRates{
		Base:  "USD",
		Rates: map[string]float64{"EUR": 0.92},
	}).WithDate(friday)

	pinned := original.WithDate(sunday)

	assert.True(t, pinned.Date.Equal(sunday))
	// The source snapshot keeps its own date
	assert.True(t, original.Date.Equal(friday))
	assert.Equal(t, original.Base, pinned.Base)
	assert.Equal(t, original.Rates, pinned.Rates)
}
