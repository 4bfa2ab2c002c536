// Package service internal/application/service/exchange_rate_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lrscard/currency-service/internal/domain/currency"
	"github.com/lrscard/currency-service/internal/domain/entity"
	"github.com/lrscard/currency-service/internal/domain/provider"
	"github.com/lrscard/currency-service/internal/domain/repository"
	"github.com/lrscard/currency-service/internal/infrastructure/logger"
	"github.com/lrscard/currency-service/internal/infrastructure/metrics"
	"github.com/lrscard/currency-service/internal/infrastructure/middleware"
)

// GetExchangeRateRequest asks for the latest (or a dated) rate snapshot.
// Nil/empty fields are simply not sent to the provider.
type GetExchangeRateRequest struct {
	Amount       *float64
	Date         *time.Time
	BaseCurrency string
	Symbols      []string
	Provider     provider.Type
}

// GetCurrencyConversionRequest asks for a real-time conversion of an amount
// from the base currency into the destination currencies (empty = all
// available).
type GetCurrencyConversionRequest struct {
	Amount       float64
	BaseCurrency string
	Symbols      []string
	Provider     provider.Type
}

// GetHistoricalExchangeRateRequest asks for one page of per-day snapshots
// over the inclusive [InitialDate, EndDate] range.
type GetHistoricalExchangeRateRequest struct {
	BaseCurrency string
	InitialDate  time.Time
	EndDate      time.Time
	Pagination   Pagination
	Provider     provider.Type
}

// ProviderFactory resolves a provider identifier to its client.
type ProviderFactory interface {
	GetProvider(t provider.Type) (provider.ExchangeRateProvider, error)
}

// CurrencyExchangeRateService orchestrates rate retrieval: it decides
// between cache and provider, applies the currency block rules, and
// paginates historical ranges into per-day lookups.
type CurrencyExchangeRateService struct {
	providers ProviderFactory
	cache     repository.RateCache
	policy    *currency.Policy
	metrics   *metrics.Metrics
	logger    logger.Logger

	now func() time.Time
}

// NewCurrencyExchangeRateService creates a new rate orchestration service.
// Metrics may be nil.
func NewCurrencyExchangeRateService(
	providers ProviderFactory,
	cache repository.RateCache,
	policy *currency.Policy,
	m *metrics.Metrics,
	log logger.Logger,
) *CurrencyExchangeRateService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &CurrencyExchangeRateService{
		providers: providers,
		cache:     cache,
		policy:    policy,
		metrics:   m,
		logger:    log,
		now:       time.Now,
	}
}

// GetLatest retrieves a rate snapshot straight from the provider. Latest
// lookups are not cached; the snapshot's date is forced to the requested
// date, or to now when none was given.
func (s *CurrencyExchangeRateService) GetLatest(ctx context.Context, req GetExchangeRateRequest) (*entity.CurrencyRates, error) {
	requestID := middleware.GetRequestID(ctx)

	p, err := s.providers.GetProvider(req.Provider)
	if err != nil {
		return nil, err
	}

	rates, err := p.GetExchangeRate(ctx, provider.RateQuery{
		Amount:       req.Amount,
		Date:         req.Date,
		BaseCurrency: req.BaseCurrency,
		Symbols:      req.Symbols,
	})
	if err != nil {
		s.logger.Error("Failed to get latest exchange rate", map[string]interface{}{
			"request_id":    requestID,
			"base_currency": req.BaseCurrency,
			"provider":      string(req.Provider),
			"error":         err.Error(),
		})
		return nil, fmt.Errorf("failed to get exchange rate: %w", err)
	}

	if req.Date != nil {
		rates = rates.WithDate(*req.Date)
	} else {
		rates = rates.WithDate(s.now())
	}

	s.logger.Info("Latest exchange rate retrieved", map[string]interface{}{
		"request_id":    requestID,
		"base_currency": rates.Base,
		"rate_count":    len(rates.Rates),
	})

	return rates, nil
}

// GetConversion retrieves current rates for the requested amount and strips
// every blocked currency from the result. Conversion is a real-time
// operation: it is never cached and the snapshot date is always now. An
// empty rates map after filtering is a valid result.
func (s *CurrencyExchangeRateService) GetConversion(ctx context.Context, req GetCurrencyConversionRequest) (*entity.CurrencyRates, error) {
	requestID := middleware.GetRequestID(ctx)

	p, err := s.providers.GetProvider(req.Provider)
	if err != nil {
		return nil, err
	}

	amount := req.Amount
	rates, err := p.GetExchangeRate(ctx, provider.RateQuery{
		Amount:       &amount,
		BaseCurrency: req.BaseCurrency,
		Symbols:      req.Symbols,
	})
	if err != nil {
		s.logger.Error("Failed to get conversion rates", map[string]interface{}{
			"request_id":    requestID,
			"base_currency": req.BaseCurrency,
			"amount":        req.Amount,
			"provider":      string(req.Provider),
			"error":         err.Error(),
		})
		return nil, fmt.Errorf("failed to get conversion rates: %w", err)
	}

	rates = rates.WithDate(s.now())
	rates.Rates = s.policy.FilterBlocked(rates.Rates)

	s.logger.Info("Currency conversion completed", map[string]interface{}{
		"request_id":    requestID,
		"base_currency": rates.Base,
		"amount":        req.Amount,
		"rate_count":    len(rates.Rates),
	})

	return rates, nil
}

// GetHistoricalPaginated returns one page of per-day snapshots for the
// inclusive date range. Each day is looked up in the cache first; misses go
// to the provider and are cached for the next request. TotalCount is the
// number of calendar days in the whole range. A provider failure on any day
// aborts the request; days already cached stay cached.
func (s *CurrencyExchangeRateService) GetHistoricalPaginated(ctx context.Context, req GetHistoricalExchangeRateRequest) (*PaginationResult[*entity.CurrencyRates], error) {
	requestID := middleware.GetRequestID(ctx)

	p, err := s.providers.GetProvider(req.Provider)
	if err != nil {
		return nil, err
	}

	allDates := enumerateDays(req.InitialDate, req.EndDate)

	// Only the dates on the requested page need rates
	pagedDates := pageOf(allDates, req.Pagination)

	items := make([]*entity.CurrencyRates, 0, len(pagedDates))
	for _, date := range pagedDates {
		if cached := s.cache.Get(ctx, date, req.BaseCurrency); cached != nil {
			s.metrics.IncCacheHit()
			items = append(items, cached)
			continue
		}
		s.metrics.IncCacheMiss()

		day := date
		rates, err := p.GetExchangeRate(ctx, provider.RateQuery{
			Date:         &day,
			BaseCurrency: req.BaseCurrency,
		})
		if err != nil {
			s.logger.Error("Failed to get historical exchange rate", map[string]interface{}{
				"request_id":    requestID,
				"base_currency": req.BaseCurrency,
				"date":          date.Format("2006-01-02"),
				"provider":      string(req.Provider),
				"error":         err.Error(),
			})
			return nil, fmt.Errorf("failed to get exchange rate for %s: %w", date.Format("2006-01-02"), err)
		}

		// Providers substitute the prior business day for weekends and
		// holidays; pin the snapshot back to the requested day before it
		// is cached or returned.
		rates = rates.WithDate(date)

		s.cache.Set(ctx, date, req.BaseCurrency, rates)
		items = append(items, rates)
	}

	s.logger.Info("Historical exchange rates retrieved", map[string]interface{}{
		"request_id":    requestID,
		"base_currency": req.BaseCurrency,
		"initial_date":  req.InitialDate.Format("2006-01-02"),
		"end_date":      req.EndDate.Format("2006-01-02"),
		"page":          req.Pagination.Page,
		"page_size":     req.Pagination.PageSize,
		"total_count":   len(allDates),
		"item_count":    len(items),
	})

	return &PaginationResult[*entity.CurrencyRates]{
		Page:       req.Pagination.Page,
		PageSize:   req.Pagination.PageSize,
		TotalCount: len(allDates),
		Items:      items,
	}, nil
}

// enumerateDays lists every calendar day from initial to end inclusive.
func enumerateDays(initial, end time.Time) []time.Time {
	initial = truncateToDay(initial)
	end = truncateToDay(end)

	var days []time.Time
	for d := initial; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// pageOf returns the sub-sequence of dates belonging to the requested page.
// A non-positive page reads as the first page.
func pageOf(dates []time.Time, p Pagination) []time.Time {
	start := (p.Page - 1) * p.PageSize
	if start < 0 {
		start = 0
	}
	if start >= len(dates) {
		return nil
	}
	end := start + p.PageSize
	if end > len(dates) {
		end = len(dates)
	}
	return dates[start:end]
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
