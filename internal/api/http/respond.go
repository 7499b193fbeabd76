package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/logger"
)

type errorBody struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	writeJSON(w, status, map[string]errorBody{"error": {Code: code, Message: message, Details: details}})
}

// writeDomainError maps the core's error kinds to HTTP statuses. Every
// failure carries a specific code, and insufficient-credit failures carry
// the numbers needed to resolve them.
func writeDomainError(w http.ResponseWriter, err error) {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", validation.Error(), nil)
		return
	}

	var insufficient *domain.InsufficientCreditsError
	if errors.As(err, &insufficient) {
		writeError(w, http.StatusPaymentRequired, "INSUFFICIENT_CREDITS", insufficient.Error(), map[string]interface{}{
			"required":  insufficient.Required,
			"available": insufficient.Available,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "record not found", nil)
	case errors.Is(err, domain.ErrAlreadyAssigned):
		writeError(w, http.StatusConflict, "ALREADY_ASSIGNED", "service already assigned", nil)
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "CONFLICT", "concurrent update conflict, re-read and retry", nil)
	case errors.Is(err, domain.ErrAlreadyPaid):
		writeError(w, http.StatusConflict, "ALREADY_PAID", "one or more selected challans are already settled", nil)
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		writeError(w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "violation data provider unavailable", nil)
	default:
		logger.Error("Unhandled internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
	}
}
