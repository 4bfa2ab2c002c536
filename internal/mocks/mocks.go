// internal/mocks/mocks.go
package mocks

import (
	"context"
	"time"

	"github.com/lrscard/currency-service/internal/domain/entity"
	"github.com/lrscard/currency-service/internal/domain/provider"
	"github.com/stretchr/testify/mock"
)

// MockExchangeRateProvider mocks the exchange rate provider interface
type MockExchangeRateProvider struct {
	mock.Mock
}

func (m *MockExchangeRateProvider) GetExchangeRate(ctx context.Context, query provider.RateQuery) (*entity.CurrencyRates, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CurrencyRates), args.Error(1)
}

// MockRateCache mocks the RateCache interface
type MockRateCache struct {
	mock.Mock
}

func (m *MockRateCache) Get(ctx context.Context, date time.Time, baseCurrency string) *entity.CurrencyRates {
	args := m.Called(ctx, date, baseCurrency)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*entity.CurrencyRates)
}

func (m *MockRateCache) Set(ctx context.Context, date time.Time, baseCurrency string, rates *entity.CurrencyRates) {
	m.Called(ctx, date, baseCurrency, rates)
}

// MockProviderFactory mocks provider resolution
type MockProviderFactory struct {
	mock.Mock
}

func (m *MockProviderFactory) GetProvider(t provider.Type) (provider.ExchangeRateProvider, error) {
	args := m.Called(t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(provider.ExchangeRateProvider), args.Error(1)
}
