// Package handler internal/infrastructure/handler/auth_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/lrscard/currency-service/internal/infrastructure/config"
	"github.com/lrscard/currency-service/internal/infrastructure/logger"
	"github.com/lrscard/currency-service/internal/infrastructure/middleware"
)

// AuthHandler issues bearer tokens for the protected endpoints. It is a
// development-grade issuer: any non-empty username/password pair gets a
// token signed with the shared secret.
type AuthHandler struct {
	config config.JwtConfig
	logger logger.Logger
	now    func() time.Time
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg config.JwtConfig, log logger.Logger) *AuthHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &AuthHandler{
		config: cfg,
		logger: log,
		now:    time.Now,
	}
}

// IssueToken handles POST /token
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body must be valid JSON", http.StatusBadRequest, requestID)
		return
	}
	if req.Username == "" || req.Password == "" {
		sendErrorResponse(w, h.logger, "Missing credentials",
			"username and password are required", http.StatusBadRequest, requestID)
		return
	}

	now := h.now()
	claims := jwt.MapClaims{
		"sub":  req.Username,
		"role": "admin",
		"jti":  uuid.New().String(),
		"iss":  h.config.Issuer,
		"iat":  now.Unix(),
		"exp":  now.Add(h.config.Expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.config.Secret))
	if err != nil {
		h.logger.Error("Failed to sign token", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"Unable to issue token", http.StatusInternalServerError, requestID)
		return
	}

	h.logger.Info("Token issued", map[string]interface{}{
		"request_id": requestID,
		"username":   req.Username,
	})

	sendJSONResponse(w, h.logger, http.StatusOK, TokenResponse{AccessToken: signed})
}

// RegisterRoutes registers the auth routes
func (h *AuthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/token", h.IssueToken).Methods("POST")
}
