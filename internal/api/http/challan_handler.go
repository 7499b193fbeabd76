package http

import (
	"net/http"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/service"
)

type ChallanHandler struct {
	challanSvc service.ChallanService
}

func NewChallanHandler(challanSvc service.ChallanService) *ChallanHandler {
	return &ChallanHandler{challanSvc: challanSvc}
}

// HandleList refreshes and returns the challan ledger for a registration.
func (h *ChallanHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	regNo := r.URL.Query().Get("rc_no")
	if regNo == "" {
		writeDomainError(w, domain.NewValidationError("rc_no", "registration number required"))
		return
	}

	challans, err := h.challanSvc.Refresh(r.Context(), regNo)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	pending := make([]domain.Challan, 0)
	disposed := make([]domain.Challan, 0)
	for _, c := range challans {
		if c.Status == domain.ChallanStatusDisposed {
			disposed = append(disposed, c)
		} else {
			pending = append(pending, c)
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rc_no":    regNo,
		"pending":  pending,
		"disposed": disposed,
	})
}
