// Package api internal/infrastructure/api/frankfurter_client.go
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lrscard/currency-service/internal/domain/entity"
	"github.com/lrscard/currency-service/internal/domain/provider"
	"github.com/lrscard/currency-service/internal/infrastructure/logger"
)

const defaultFrankfurterBaseURL = "https://api.frankfurter.app"

// FrankfurterClient calls the Frankfurter exchange rate API. It implements
// provider.ExchangeRateProvider; retry and circuit breaking live in the
// ResilientProvider wrapper, not here.
type FrankfurterClient struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// NewFrankfurterClient creates a new Frankfurter API client. The timeout
// bounds each upstream call.
func NewFrankfurterClient(baseURL string, timeout time.Duration, log logger.Logger) *FrankfurterClient {
	if baseURL == "" {
		baseURL = defaultFrankfurterBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &FrankfurterClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

// frankfurterResponse is the upstream response body. encoding/json matches
// keys case-insensitively, which the upstream contract relies on.
type frankfurterResponse struct {
	Amount *float64           `json:"amount"`
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
}

// GetExchangeRate fetches rates for the query. An absent date selects the
// "latest" endpoint; otherwise the ISO calendar date is used verbatim. Only
// supplied parameters are sent upstream.
func (c *FrankfurterClient) GetExchangeRate(ctx context.Context, query provider.RateQuery) (*entity.CurrencyRates, error) {
	reqURL := c.buildURL(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts and network errors are retryable
		c.logger.Error("Frankfurter request failed", map[string]interface{}{
			"url":   reqURL,
			"error": err.Error(),
		})
		return nil, &provider.TransientError{Err: fmt.Errorf("failed to execute request: %w", err)}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Error closing response body", map[string]interface{}{
				"url":   reqURL,
				"error": closeErr.Error(),
			})
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &provider.TransientError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	c.logger.Info("Frankfurter response received", map[string]interface{}{
		"url":    reqURL,
		"status": resp.StatusCode,
		"body":   string(body),
	})

	if resp.StatusCode != http.StatusOK {
		statusErr := fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		if isRetryableStatus(resp.StatusCode) {
			return nil, &provider.TransientError{Err: statusErr}
		}
		return nil, statusErr
	}

	var apiResp frankfurterResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, &provider.DataError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	rates := &entity.CurrencyRates{
		Amount: apiResp.Amount,
		Base:   apiResp.Base,
		Rates:  apiResp.Rates,
	}
	if apiResp.Date != "" {
		date, parseErr := time.Parse("2006-01-02", apiResp.Date)
		if parseErr != nil {
			return nil, &provider.DataError{Err: fmt.Errorf("failed to parse response date %q: %w", apiResp.Date, parseErr)}
		}
		rates.Date = &date
	}

	return rates, nil
}

// buildURL assembles the upstream URL from only the supplied parameters.
func (c *FrankfurterClient) buildURL(query provider.RateQuery) string {
	pathSegment := "latest"
	if query.Date != nil {
		pathSegment = query.Date.Format("2006-01-02")
	}

	params := url.Values{}
	if query.Amount != nil {
		params.Set("amount", strconv.FormatFloat(*query.Amount, 'f', -1, 64))
	}
	if query.BaseCurrency != "" {
		params.Set("base", query.BaseCurrency)
	}
	if len(query.Symbols) > 0 {
		params.Set("symbols", strings.Join(query.Symbols, ","))
	}

	reqURL := c.baseURL + "/" + pathSegment
	if encoded := params.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}
	return reqURL
}

// isRetryableStatus reports whether the status is a transient failure class
// (5xx or rate limiting).
func isRetryableStatus(status int) bool {
	return status >= 500 || status == http.StatusTooManyRequests
}

var _ provider.ExchangeRateProvider = (*FrankfurterClient)(nil)
