package handler

import (
	"github.com/lrscard/currency-service/internal/application/service"
	"github.com/lrscard/currency-service/internal/domain/entity"
)

// CurrencyRatesResponse represents one rate snapshot on the wire
type CurrencyRatesResponse struct {
	Amount           *float64           `json:"amount,omitempty"`
	BaseCurrency     string             `json:"baseCurrency"`
	Date             string             `json:"date,omitempty"`
	TargetCurrencies map[string]float64 `json:"targetCurrencies"`
}

func newCurrencyRatesResponse(rates *entity.CurrencyRates) CurrencyRatesResponse {
	resp := CurrencyRatesResponse{
		Amount:           rates.Amount,
		BaseCurrency:     rates.Base,
		TargetCurrencies: rates.Rates,
	}
	if rates.Date != nil {
		resp.Date = rates.Date.Format("2006-01-02")
	}
	return resp
}

// PaginationResultResponse represents one page of snapshots
type PaginationResultResponse struct {
	Page       int                     `json:"page"`
	PageSize   int                     `json:"pageSize"`
	TotalCount int                     `json:"totalCount"`
	TotalPages int                     `json:"totalPages"`
	Items      []CurrencyRatesResponse `json:"items"`
}

func newPaginationResultResponse(result *service.PaginationResult[*entity.CurrencyRates]) PaginationResultResponse {
	items := make([]CurrencyRatesResponse, 0, len(result.Items))
	for _, rates := range result.Items {
		items = append(items, newCurrencyRatesResponse(rates))
	}
	return PaginationResultResponse{
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalCount: result.TotalCount,
		TotalPages: result.TotalPages(),
		Items:      items,
	}
}

// ConvertCurrencyRequest represents the request body for the convert
// endpoint
type ConvertCurrencyRequest struct {
	Amount                float64  `json:"amount"`
	BaseCurrency          string   `json:"baseCurrency"`
	DestinationCurrencies []string `json:"destinationCurrencies"`
	Provider              string   `json:"provider,omitempty"`
}

// TokenRequest represents the request body for the auth token endpoint
type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse carries the issued bearer token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}
