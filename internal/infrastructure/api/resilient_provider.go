// Package api internal/infrastructure/api/resilient_provider.go
package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/lrscard/currency-service/internal/domain/entity"
	"github.com/lrscard/currency-service/internal/domain/provider"
	"github.com/lrscard/currency-service/internal/infrastructure/logger"
	"github.com/lrscard/currency-service/internal/infrastructure/metrics"
	"github.com/sony/gobreaker"
)

// ResiliencyConfig holds the retry and circuit breaker settings for
// upstream provider calls.
type ResiliencyConfig struct {
	// RetryCount is the maximum number of attempts per call.
	RetryCount int
	// BackoffBase makes the delay before attempt k equal to BackoffBase^k
	// units (2 gives 2s, 4s, 8s with the default unit).
	BackoffBase int
	// BackoffUnit scales the backoff delay; defaults to one second.
	BackoffUnit time.Duration
	// BreakerFailureThreshold is the number of consecutive transient
	// failures that opens the circuit.
	BreakerFailureThreshold uint32
	// BreakerOpenDuration is how long the circuit stays open before a
	// single half-open trial call is allowed.
	BreakerOpenDuration time.Duration
}

// DefaultResiliencyConfig returns the stock policy: 3 attempts with 2^k
// second backoff, circuit opens after 2 consecutive failures for 30s.
func DefaultResiliencyConfig() ResiliencyConfig {
	return ResiliencyConfig{
		RetryCount:              3,
		BackoffBase:             2,
		BackoffUnit:             time.Second,
		BreakerFailureThreshold: 2,
		BreakerOpenDuration:     30 * time.Second,
	}
}

// ResilientProvider decorates an ExchangeRateProvider with bounded retries
// and a circuit breaker. The breaker is shared state across requests, so a
// single ResilientProvider must wrap each provider for its whole lifetime,
// never one per call. Callers only ever observe eventual success or a
// terminal failure.
type ResilientProvider struct {
	inner   provider.ExchangeRateProvider
	breaker *gobreaker.CircuitBreaker
	config  ResiliencyConfig
	metrics *metrics.Metrics
	logger  logger.Logger

	// sleep is swappable so tests don't wait out real backoff delays
	sleep func(time.Duration)
}

// NewResilientProvider wraps inner with the retry and breaker policy.
// Metrics may be nil.
func NewResilientProvider(name string, inner provider.ExchangeRateProvider, cfg ResiliencyConfig, m *metrics.Metrics, log logger.Logger) *ResilientProvider {
	if cfg.RetryCount <= 0 {
		cfg.RetryCount = 3
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 2
	}
	if cfg.BackoffUnit <= 0 {
		cfg.BackoffUnit = time.Second
	}
	if cfg.BreakerFailureThreshold == 0 {
		cfg.BreakerFailureThreshold = 2
	}
	if cfg.BreakerOpenDuration <= 0 {
		cfg.BreakerOpenDuration = 30 * time.Second
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	settings := gobreaker.Settings{
		Name: name,
		// One trial call when half-open; success closes the circuit
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenDuration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed", map[string]interface{}{
				"provider": name,
				"from":     from.String(),
				"to":       to.String(),
			})
		},
	}

	return &ResilientProvider{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
		config:  cfg,
		metrics: m,
		logger:  log,
		sleep:   time.Sleep,
	}
}

// GetExchangeRate calls the wrapped provider under the resiliency policy.
// Transient failures are retried with exponential backoff; data errors and
// other terminal failures return immediately. While the circuit is open,
// attempts fail without reaching the network.
func (p *ResilientProvider) GetExchangeRate(ctx context.Context, query provider.RateQuery) (*entity.CurrencyRates, error) {
	var lastErr error

	for attempt := 1; attempt <= p.config.RetryCount; attempt++ {
		rates, err := p.execute(ctx, query)
		if err == nil {
			return rates, nil
		}
		lastErr = err

		if !isRetryableError(err) {
			return nil, err
		}

		if attempt < p.config.RetryCount {
			delay := p.backoffDelay(attempt)
			p.logger.Warn("Retrying provider call", map[string]interface{}{
				"provider": p.breaker.Name(),
				"attempt":  attempt,
				"of":       p.config.RetryCount,
				"delay":    delay.String(),
				"error":    err.Error(),
			})
			p.sleep(delay)
		}
	}

	return nil, fmt.Errorf("provider call failed after %d attempts: %w", p.config.RetryCount, lastErr)
}

// execute runs a single attempt through the circuit breaker. Terminal
// (non-transient) provider errors are carried around the breaker so they
// don't count toward tripping it, since the upstream did answer. The breaker
// records that pass as a success, so a terminal error between transient
// failures also resets the consecutive-failure count.
func (p *ResilientProvider) execute(ctx context.Context, query provider.RateQuery) (*entity.CurrencyRates, error) {
	var terminalErr error

	result, err := p.breaker.Execute(func() (interface{}, error) {
		p.metrics.IncProviderCall()
		rates, callErr := p.inner.GetExchangeRate(ctx, query)
		if callErr != nil && !provider.IsTransient(callErr) {
			terminalErr = callErr
			return nil, nil
		}
		return rates, callErr
	})

	if terminalErr != nil {
		p.metrics.IncProviderFailure()
		return nil, terminalErr
	}
	if err != nil {
		p.metrics.IncProviderFailure()
		return nil, err
	}
	return result.(*entity.CurrencyRates), nil
}

func (p *ResilientProvider) backoffDelay(attempt int) time.Duration {
	return time.Duration(math.Pow(float64(p.config.BackoffBase), float64(attempt))) * p.config.BackoffUnit
}

// isRetryableError reports whether the retry loop should try again:
// transient upstream failures and open-circuit rejections (the circuit may
// close again between attempts).
func isRetryableError(err error) bool {
	return provider.IsTransient(err) ||
		errors.Is(err, gobreaker.ErrOpenState) ||
		errors.Is(err, gobreaker.ErrTooManyRequests)
}

var _ provider.ExchangeRateProvider = (*ResilientProvider)(nil)
