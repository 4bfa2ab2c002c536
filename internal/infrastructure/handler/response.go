package handler

import (
	"encoding/json"
	"net/http"

	"github.com/lrscard/currency-service/internal/infrastructure/logger"
)

// sendJSONResponse writes a JSON body with the given status
func sendJSONResponse(w http.ResponseWriter, log logger.Logger, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("Failed to encode response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// sendErrorResponse writes a standardized JSON error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, errMsg, description string, status int, requestID string) {
	sendJSONResponse(w, log, status, ErrorResponse{
		Error:       errMsg,
		Status:      status,
		Description: description,
		RequestID:   requestID,
	})
}
