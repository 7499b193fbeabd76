package http

import (
	"net/http"
	"strconv"

	"fleetdesk-backend/internal/service"
)

type CreditHandler struct {
	creditSvc service.CreditService
}

func NewCreditHandler(creditSvc service.CreditService) *CreditHandler {
	return &CreditHandler{creditSvc: creditSvc}
}

func (h *CreditHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing user identity", nil)
		return
	}

	balance, err := h.creditSvc.GetBalance(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	page := parsePageParam(r, "page", 1)
	pageSize := parsePageParam(r, "page_size", 20)
	entries, total, err := h.creditSvc.GetEntries(r.Context(), userID, page, pageSize)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"balance": balance,
		"entries": entries,
		"total":   total,
	})
}

func parsePageParam(r *http.Request, name string, fallback int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 1 {
		return fallback
	}
	return int32(v)
}
