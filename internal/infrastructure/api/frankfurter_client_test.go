// Package api internal/infrastructure/api/frankfurter_client_test.go
package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lrscard/currency-service/internal/domain/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrankfurterClientGetExchangeRate(t *testing.T) {
	t.Run("latest endpoint with base and symbols", func(t *testing.T) {
		var gotPath, gotQuery string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.RawQuery
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"amount":1.0,"base":"USD","date":"2025-03-07","rates":{"EUR":0.92,"GBP":0.79}}`))
		}))
		defer server.Close()

		client := NewFrankfurterClient(server.URL, 5*time.Second, nil)
		rates, err := client.GetExchangeRate(context.Background(), provider.RateQuery{
			BaseCurrency: "USD",
			Symbols:      []string{"EUR", "GBP"},
		})

		require.NoError(t, err)
		assert.Equal(t, "/latest", gotPath)
		assert.Equal(t, "base=USD&symbols=EUR%2CGBP", gotQuery)
		assert.Equal(t, "USD", rates.Base)
		assert.Equal(t, 0.92, rates.Rates["EUR"])
		require.NotNil(t, rates.Date)
		assert.Equal(t, "2025-03-07", rates.Date.Format("2006-01-02"))
		require.NotNil(t, rates.Amount)
		assert.Equal(t, 1.0, *rates.Amount)
	})

	t.Run("historical date becomes the path segment", func(t *testing.T) {
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_, _ = w.Write([]byte(`{"base":"EUR","date":"2024-12-24","rates":{"USD":1.04}}`))
		}))
		defer server.Close()

		date := time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC)
		client := NewFrankfurterClient(server.URL, 5*time.Second, nil)
		rates, err := client.GetExchangeRate(context.Background(), provider.RateQuery{
			Date:         &date,
			BaseCurrency: "EUR",
		})

		require.NoError(t, err)
		assert.Equal(t, "/2024-12-24", gotPath)
		assert.Equal(t, 1.04, rates.Rates["USD"])
	})

	t.Run("amount is forwarded as a query parameter", func(t *testing.T) {
		var gotQuery string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			_, _ = w.Write([]byte(`{"amount":150.5,"base":"USD","date":"2025-03-07","rates":{"EUR":138.46}}`))
		}))
		defer server.Close()

		amount := 150.5
		client := NewFrankfurterClient(server.URL, 5*time.Second, nil)
		_, err := client.GetExchangeRate(context.Background(), provider.RateQuery{
			Amount:       &amount,
			BaseCurrency: "USD",
		})

		require.NoError(t, err)
		assert.Equal(t, "amount=150.5&base=USD", gotQuery)
	})

	t.Run("server errors are transient", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewFrankfurterClient(server.URL, 5*time.Second, nil)
		_, err := client.GetExchangeRate(context.Background(), provider.RateQuery{BaseCurrency: "USD"})

		assert.Error(t, err)
		assert.True(t, provider.IsTransient(err))
	})

	t.Run("rate limiting is transient", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := NewFrankfurterClient(server.URL, 5*time.Second, nil)
		_, err := client.GetExchangeRate(context.Background(), provider.RateQuery{BaseCurrency: "USD"})

		assert.Error(t, err)
		assert.True(t, provider.IsTransient(err))
	})

	t.Run("client errors are not transient", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"not found"}`))
		}))
		defer server.Close()

		client := NewFrankfurterClient(server.URL, 5*time.Second, nil)
		_, err := client.GetExchangeRate(context.Background(), provider.RateQuery{BaseCurrency: "USD"})

		assert.Error(t, err)
		assert.False(t, provider.IsTransient(err))
	})

	t.Run("unreachable upstream is transient", func(t *testing.T) {
		client := NewFrankfurterClient("http://127.0.0.1:1", time.Second, nil)
		_, err := client.GetExchangeRate(context.Background(), provider.RateQuery{BaseCurrency: "USD"})

		assert.Error(t, err)
		assert.True(t, provider.IsTransient(err))
	})

	t.Run("malformed body is a data error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"base":"USD","rates":`))
		}))
		defer server.Close()

		client := NewFrankfurterClient(server.URL, 5*time.Second, nil)
		_, err := client.GetExchangeRate(context.Background(), provider.RateQuery{BaseCurrency: "USD"})

		assert.Error(t, err)
		assert.False(t, provider.IsTransient(err))
		var dataErr *provider.DataError
		assert.ErrorAs(t, err, &dataErr)
	})

	t.Run("unparseable date is a data error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"base":"USD","date":"03/07/2025","rates":{"EUR":0.92}}`))
		}))
		defer server.Close()

		client := NewFrankfurterClient(server.URL, 5*time.Second, nil)
		_, err := client.GetExchangeRate(context.Background(), provider.RateQuery{BaseCurrency: "USD"})

		assert.Error(t, err)
		var dataErr *provider.DataError
		assert.ErrorAs(t, err, &dataErr)
	})

	t.Run("mixed-case response keys still decode", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"Base":"USD","Date":"2025-03-07","Rates":{"EUR":0.92}}`))
		}))
		defer server.Close()

		client := NewFrankfurterClient(server.URL, 5*time.Second, nil)
		rates, err := client.GetExchangeRate(context.Background(), provider.RateQuery{BaseCurrency: "USD"})

		require.NoError(t, err)
		assert.Equal(t, "USD", rates.Base)
		assert.Equal(t, 0.92, rates.Rates["EUR"])
	})
}
