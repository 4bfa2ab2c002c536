// internal/infrastructure/middleware/rate_limit.go
package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/lrscard/currency-service/internal/infrastructure/logger"
	"golang.org/x/time/rate"
)

// ClientRateLimiter applies a token-bucket rate limit per client. A client
// gets PermitLimit requests per window; the bucket refills continuously at
// that average rate. Idle client entries are pruned after three windows.
type ClientRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter

	limit  rate.Limit
	burst  int
	window time.Duration
	logger logger.Logger
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientRateLimiter creates a limiter allowing permitLimit requests per
// window for each distinct client.
func NewClientRateLimiter(permitLimit int, window time.Duration, log logger.Logger) *ClientRateLimiter {
	if permitLimit <= 0 {
		permitLimit = 100
	}
	if window <= 0 {
		window = time.Minute
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ClientRateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(float64(permitLimit) / window.Seconds()),
		burst:   permitLimit,
		window:  window,
		logger:  log,
	}
}

// Middleware rejects requests over the client's rate with 429.
func (l *ClientRateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientKey(r)
			if !l.allow(client) {
				requestID := GetRequestID(r.Context())
				l.logger.Warn("Rate limit exceeded", map[string]interface{}{
					"request_id": requestID,
					"client":     client,
					"path":       r.URL.Path,
				})
				writeTooManyRequests(w, requestID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// allow reserves one permit for the client, creating its bucket on first
// sight.
func (l *ClientRateLimiter) allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	entry, ok := l.clients[client]
	if !ok {
		l.pruneLocked(now)
		entry = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[client] = entry
	}
	entry.lastSeen = now

	return entry.limiter.Allow()
}

// pruneLocked drops clients idle for more than three windows. Caller holds
// the lock.
func (l *ClientRateLimiter) pruneLocked(now time.Time) {
	cutoff := now.Add(-3 * l.window)
	for key, entry := range l.clients {
		if entry.lastSeen.Before(cutoff) {
			delete(l.clients, key)
		}
	}
}

// clientKey identifies the caller: the first X-Forwarded-For hop when
// present, otherwise the remote address without its port.
func clientKey(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if idx := strings.IndexByte(forwarded, ','); idx >= 0 {
			forwarded = forwarded[:idx]
		}
		return strings.TrimSpace(forwarded)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeTooManyRequests(w http.ResponseWriter, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error":       "Too many requests",
		"status":      http.StatusTooManyRequests,
		"description": "Request rate limit exceeded. Please slow down and try again.",
		"request_id":  requestID,
	})
}
