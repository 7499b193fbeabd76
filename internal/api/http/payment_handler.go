package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"fleetdesk-backend/internal/service"
)

type PaymentHandler struct {
	settlementSvc service.SettlementService
}

func NewPaymentHandler(settlementSvc service.SettlementService) *PaymentHandler {
	return &PaymentHandler{settlementSvc: settlementSvc}
}

type paymentRequest struct {
	Challans []struct {
		ID    int32 `json:"id"`
		Total int64 `json:"total"`
	} `json:"challans"`
	RcNo        string `json:"rc_no"`
	TotalAmount int64  `json:"total_amount"`
}

func (r paymentRequest) challanIDs() []int32 {
	ids := make([]int32, 0, len(r.Challans))
	for _, c := range r.Challans {
		ids = append(ids, c.ID)
	}
	return ids
}

// HandleQuote prices a batch without mutating anything.
func (h *PaymentHandler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed request body", nil)
		return
	}

	quote, err := h.settlementSvc.Quote(r.Context(), req.challanIDs())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// HandlePay settles the selected challans against the caller's credits. The
// client-supplied totals are advisory only: the engine re-prices inside the
// settlement transaction.
func (h *PaymentHandler) HandlePay(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing user identity", nil)
		return
	}

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed request body", nil)
		return
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")
	rec, err := h.settlementSvc.Pay(r.Context(), userID, req.challanIDs(), idempotencyKey)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *PaymentHandler) HandleGetSettlement(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing user identity", nil)
		return
	}

	rec, err := h.settlementSvc.GetSettlement(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
