package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lrscard/currency-service/internal/infrastructure/logger"
)

// JWTAuthMiddleware rejects requests without a valid HS256 bearer token.
// Token issuance lives in the auth handler; this only verifies.
func JWTAuthMiddleware(secret string, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Warn("Missing bearer token", map[string]interface{}{
					"request_id": requestID,
					"path":       r.URL.Path,
				})
				writeUnauthorized(w, requestID, "Missing or malformed Authorization header")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				log.Warn("Invalid bearer token", map[string]interface{}{
					"request_id": requestID,
					"path":       r.URL.Path,
					"error":      fmt.Sprintf("%v", err),
				})
				writeUnauthorized(w, requestID, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, requestID, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error":       "Unauthorized",
		"status":      http.StatusUnauthorized,
		"description": description,
		"request_id":  requestID,
	})
}
