// Package factory internal/infrastructure/factory/provider_factory_test.go
package factory

import (
	"errors"
	"testing"

	"github.com/lrscard/currency-service/internal/domain/provider"
	"github.com/lrscard/currency-service/internal/mocks"
	"github.com/stretchr/testify/assert"
)

func TestProviderFactory(t *testing.T) {
	t.Run("resolves a registered provider", func(t *testing.T) {
		f := NewProviderFactory()
		client := new(mocks.MockExchangeRateProvider)

		f.Register(provider.TypeFrankfurter, client)

		got, err := f.GetProvider(provider.TypeFrankfurter)
		assert.NoError(t, err)
		assert.Same(t, client, got)
	})

	t.Run("unknown identifier is not supported", func(t *testing.T) {
		f := NewProviderFactory()

		_, err := f.GetProvider(provider.Type("fixer"))

		assert.Error(t, err)
		assert.True(t, errors.Is(err, provider.ErrNotSupported))
	})

	t.Run("registering twice replaces the client", func(t *testing.T) {
		f := NewProviderFactory()
		first := new(mocks.MockExchangeRateProvider)
		second := new(mocks.MockExchangeRateProvider)

		f.Register(provider.TypeFrankfurter, first)
		f.Register(provider.TypeFrankfurter, second)

		got, err := f.GetProvider(provider.TypeFrankfurter)
		assert.NoError(t, err)
		assert.Same(t, second, got)
	})
}
