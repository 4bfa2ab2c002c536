// Package handler internal/infrastructure/handler/exchange_rate_handler.go
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/lrscard/currency-service/internal/application/service"
	"github.com/lrscard/currency-service/internal/domain/currency"
	"github.com/lrscard/currency-service/internal/domain/entity"
	"github.com/lrscard/currency-service/internal/domain/provider"
	"github.com/lrscard/currency-service/internal/infrastructure/logger"
	"github.com/lrscard/currency-service/internal/infrastructure/metrics"
	"github.com/lrscard/currency-service/internal/infrastructure/middleware"
)

const (
	minPageSize = 1
	maxPageSize = 60
)

// RateService is the orchestration surface the handler depends on.
type RateService interface {
	GetLatest(ctx context.Context, req service.GetExchangeRateRequest) (*entity.CurrencyRates, error)
	GetConversion(ctx context.Context, req service.GetCurrencyConversionRequest) (*entity.CurrencyRates, error)
	GetHistoricalPaginated(ctx context.Context, req service.GetHistoricalExchangeRateRequest) (*service.PaginationResult[*entity.CurrencyRates], error)
}

// ExchangeRateHandler handles HTTP requests for exchange rate operations
type ExchangeRateHandler struct {
	service RateService
	policy  *currency.Policy
	metrics *metrics.Metrics
	logger  logger.Logger
}

// NewExchangeRateHandler creates a new exchange rate handler. Metrics may
// be nil.
func NewExchangeRateHandler(svc RateService, policy *currency.Policy, m *metrics.Metrics, log logger.Logger) *ExchangeRateHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ExchangeRateHandler{
		service: svc,
		policy:  policy,
		metrics: m,
		logger:  log,
	}
}

// GetLatest handles GET /latest?baseCurrency=USD[&provider=]
func (h *ExchangeRateHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	h.metrics.IncLatest()

	baseCurrency := r.URL.Query().Get("baseCurrency")
	if baseCurrency == "" {
		sendErrorResponse(w, h.logger, "Missing baseCurrency parameter",
			"The 'baseCurrency' query parameter is required", http.StatusBadRequest, requestID)
		return
	}
	if !h.policy.IsUsable(baseCurrency) {
		sendErrorResponse(w, h.logger, "Unsupported currency code",
			fmt.Sprintf("baseCurrency %q is not valid or not supported", baseCurrency),
			http.StatusBadRequest, requestID)
		return
	}

	providerType, err := provider.ParseType(r.URL.Query().Get("provider"))
	if err != nil {
		sendErrorResponse(w, h.logger, "Unsupported provider",
			err.Error(), http.StatusBadRequest, requestID)
		return
	}

	rates, err := h.service.GetLatest(r.Context(), service.GetExchangeRateRequest{
		BaseCurrency: strings.ToUpper(baseCurrency),
		Provider:     providerType,
	})
	if err != nil {
		h.handleServiceError(w, r, "GetLatest", err)
		return
	}

	sendJSONResponse(w, h.logger, http.StatusOK, newCurrencyRatesResponse(rates))
}

// GetHistory handles GET /history?baseCurrency=&initialDate=&endDate=&page=&pageSize=[&provider=]
func (h *ExchangeRateHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	h.metrics.IncHistorical()

	query := r.URL.Query()

	baseCurrency := query.Get("baseCurrency")
	if baseCurrency == "" {
		sendErrorResponse(w, h.logger, "Missing baseCurrency parameter",
			"The 'baseCurrency' query parameter is required", http.StatusBadRequest, requestID)
		return
	}
	if !h.policy.IsUsable(baseCurrency) {
		sendErrorResponse(w, h.logger, "Unsupported currency code",
			fmt.Sprintf("baseCurrency %q is not valid or not supported", baseCurrency),
			http.StatusBadRequest, requestID)
		return
	}

	initialDate, err := parseDateParam(query.Get("initialDate"))
	if err != nil {
		sendErrorResponse(w, h.logger, "Invalid initialDate parameter",
			"initialDate is required in YYYY-MM-DD format", http.StatusBadRequest, requestID)
		return
	}
	endDate, err := parseDateParam(query.Get("endDate"))
	if err != nil {
		sendErrorResponse(w, h.logger, "Invalid endDate parameter",
			"endDate is required in YYYY-MM-DD format", http.StatusBadRequest, requestID)
		return
	}
	if endDate.Before(initialDate) {
		sendErrorResponse(w, h.logger, "Invalid date range",
			"endDate must be greater or equal to initialDate", http.StatusBadRequest, requestID)
		return
	}

	page, err := parsePositiveIntParam(query.Get("page"), 1)
	if err != nil || page < 1 {
		sendErrorResponse(w, h.logger, "Invalid page parameter",
			"page must be greater than 0", http.StatusBadRequest, requestID)
		return
	}
	pageSize, err := parsePositiveIntParam(query.Get("pageSize"), 10)
	if err != nil || pageSize < minPageSize || pageSize > maxPageSize {
		sendErrorResponse(w, h.logger, "Invalid pageSize parameter",
			fmt.Sprintf("pageSize must be between %d and %d", minPageSize, maxPageSize),
			http.StatusBadRequest, requestID)
		return
	}

	providerType, err := provider.ParseType(query.Get("provider"))
	if err != nil {
		sendErrorResponse(w, h.logger, "Unsupported provider",
			err.Error(), http.StatusBadRequest, requestID)
		return
	}

	result, err := h.service.GetHistoricalPaginated(r.Context(), service.GetHistoricalExchangeRateRequest{
		BaseCurrency: strings.ToUpper(baseCurrency),
		InitialDate:  initialDate,
		EndDate:      endDate,
		Pagination:   service.Pagination{Page: page, PageSize: pageSize},
		Provider:     providerType,
	})
	if err != nil {
		h.handleServiceError(w, r, "GetHistory", err)
		return
	}

	sendJSONResponse(w, h.logger, http.StatusOK, newPaginationResultResponse(result))
}

// ConvertCurrency handles POST /convert
func (h *ExchangeRateHandler) ConvertCurrency(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	h.metrics.IncConversion()

	var req ConvertCurrencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body must be valid JSON", http.StatusBadRequest, requestID)
		return
	}

	if req.Amount <= 0 {
		sendErrorResponse(w, h.logger, "Invalid amount",
			"amount must be greater than 0", http.StatusBadRequest, requestID)
		return
	}
	if req.BaseCurrency == "" {
		sendErrorResponse(w, h.logger, "Missing baseCurrency",
			"baseCurrency is required", http.StatusBadRequest, requestID)
		return
	}
	if !h.policy.IsUsable(req.BaseCurrency) {
		sendErrorResponse(w, h.logger, "Unsupported currency code",
			fmt.Sprintf("baseCurrency %q is not valid or not supported", req.BaseCurrency),
			http.StatusBadRequest, requestID)
		return
	}
	for _, code := range req.DestinationCurrencies {
		if !h.policy.IsUsable(code) {
			sendErrorResponse(w, h.logger, "Unsupported currency code",
				fmt.Sprintf("destination currency %q is not valid or not supported", code),
				http.StatusBadRequest, requestID)
			return
		}
	}
	if len(req.DestinationCurrencies) == 1 &&
		strings.EqualFold(req.DestinationCurrencies[0], req.BaseCurrency) {
		sendErrorResponse(w, h.logger, "Nothing to convert",
			"baseCurrency is equal to destinationCurrencies", http.StatusBadRequest, requestID)
		return
	}

	providerType, err := provider.ParseType(req.Provider)
	if err != nil {
		sendErrorResponse(w, h.logger, "Unsupported provider",
			err.Error(), http.StatusBadRequest, requestID)
		return
	}

	symbols := make([]string, 0, len(req.DestinationCurrencies))
	for _, code := range req.DestinationCurrencies {
		symbols = append(symbols, strings.ToUpper(code))
	}

	rates, err := h.service.GetConversion(r.Context(), service.GetCurrencyConversionRequest{
		Amount:       req.Amount,
		BaseCurrency: strings.ToUpper(req.BaseCurrency),
		Symbols:      symbols,
		Provider:     providerType,
	})
	if err != nil {
		h.handleServiceError(w, r, "ConvertCurrency", err)
		return
	}

	sendJSONResponse(w, h.logger, http.StatusOK, newCurrencyRatesResponse(rates))
}

// handleServiceError maps orchestration failures to HTTP responses
func (h *ExchangeRateHandler) handleServiceError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	requestID := middleware.GetRequestID(r.Context())

	h.logger.Error("Exchange rate operation failed", map[string]interface{}{
		"request_id": requestID,
		"operation":  operation,
		"error":      err.Error(),
	})

	var dataErr *provider.DataError
	switch {
	case errors.Is(err, provider.ErrNotSupported):
		sendErrorResponse(w, h.logger, "Unsupported provider",
			err.Error(), http.StatusBadRequest, requestID)
	case errors.As(err, &dataErr):
		sendErrorResponse(w, h.logger, "Invalid upstream response",
			"The exchange rate provider returned an unreadable response", http.StatusBadGateway, requestID)
	case provider.IsTransient(err):
		sendErrorResponse(w, h.logger, "Exchange rate service unavailable",
			"Unable to retrieve exchange rate data. Please try again later.",
			http.StatusServiceUnavailable, requestID)
	default:
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred. Please try again later.",
			http.StatusInternalServerError, requestID)
	}
}

// RegisterRoutes registers the exchange rate routes
func (h *ExchangeRateHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/latest", h.GetLatest).Methods("GET")
	router.HandleFunc("/history", h.GetHistory).Methods("GET")
	router.HandleFunc("/convert", h.ConvertCurrency).Methods("POST")

	h.logger.Info("Exchange rate routes registered", map[string]interface{}{
		"routes": []string{
			"GET /latest",
			"GET /history",
			"POST /convert",
		},
	})
}

func parseDateParam(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("missing date parameter")
	}
	return time.Parse("2006-01-02", value)
}

func parsePositiveIntParam(value string, defaultValue int) (int, error) {
	if value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}
