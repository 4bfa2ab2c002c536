// Package factory internal/infrastructure/factory/provider_factory.go
package factory

import (
	"fmt"
	"sync"

	"github.com/lrscard/currency-service/internal/domain/provider"
)

// ProviderFactory maps provider identifiers to their clients. Registration
// happens once during wiring; adding a provider is a registry entry, not a
// change to the orchestration service.
type ProviderFactory struct {
	mu        sync.RWMutex
	providers map[provider.Type]provider.ExchangeRateProvider
}

// NewProviderFactory creates an empty provider registry.
func NewProviderFactory() *ProviderFactory {
	return &ProviderFactory{
		providers: make(map[provider.Type]provider.ExchangeRateProvider),
	}
}

// Register adds (or replaces) the client for a provider identifier.
func (f *ProviderFactory) Register(t provider.Type, p provider.ExchangeRateProvider) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.providers[t] = p
}

// GetProvider resolves a provider identifier to its registered client.
func (f *ProviderFactory) GetProvider(t provider.Type) (provider.ExchangeRateProvider, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	p, ok := f.providers[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", provider.ErrNotSupported, t)
	}
	return p, nil
}
