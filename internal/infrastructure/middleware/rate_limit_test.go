// internal/infrastructure/middleware/rate_limit_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/lrscard/currency-service/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
)

func newLimitedHandler(permitLimit int, window time.Duration) http.Handler {
	log := logger.NewJSONLogger(os.Stdout, logger.ErrorLevel)
	limiter := NewClientRateLimiter(permitLimit, window, log)
	return limiter.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func requestFrom(addr string) *http.Request {
	req := httptest.NewRequest("GET", "/api/v1/exchange-rates/latest", nil)
	req.RemoteAddr = addr
	return req
}

func TestClientRateLimiter(t *testing.T) {
	t.Run("requests within the permit pass", func(t *testing.T) {
		handler := newLimitedHandler(3, time.Minute)

		for i := 0; i < 3; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, requestFrom("10.0.0.1:50000"))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("requests over the permit get 429", func(t *testing.T) {
		handler := newLimitedHandler(2, time.Minute)

		for i := 0; i < 2; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, requestFrom("10.0.0.1:50000"))
			assert.Equal(t, http.StatusOK, rec.Code)
		}

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestFrom("10.0.0.1:50000"))

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Contains(t, rec.Body.String(), "Too many requests")
	})

	t.Run("clients are limited independently", func(t *testing.T) {
		handler := newLimitedHandler(1, time.Minute)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestFrom("10.0.0.1:50000"))
		assert.Equal(t, http.StatusOK, rec.Code)

		// First client is out of permits, second is untouched
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, requestFrom("10.0.0.1:50001"))
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, requestFrom("10.0.0.2:50000"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("forwarded header identifies the client", func(t *testing.T) {
		handler := newLimitedHandler(1, time.Minute)

		req := requestFrom("10.0.0.1:50000")
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		// Same origin behind a different proxy hop is still the same client
		req = requestFrom("10.0.0.9:50000")
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("permits refill over time", func(t *testing.T) {
		handler := newLimitedHandler(1, 50*time.Millisecond)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestFrom("10.0.0.1:50000"))
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, requestFrom("10.0.0.1:50000"))
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)

		time.Sleep(60 * time.Millisecond)

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, requestFrom("10.0.0.1:50000"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestClientKey(t *testing.T) {
	req := requestFrom("192.0.2.4:1234")
	assert.Equal(t, "192.0.2.4", clientKey(req))

	req.Header.Set("X-Forwarded-For", " 203.0.113.7 , 192.0.2.4")
	assert.Equal(t, "203.0.113.7", clientKey(req))
}
