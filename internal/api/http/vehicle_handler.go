package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"fleetdesk-backend/internal/service"
)

type VehicleHandler struct {
	vehicleSvc service.VehicleService
}

func NewVehicleHandler(vehicleSvc service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleSvc: vehicleSvc}
}

// HandleGetDocuments returns the per-kind document map for one of the
// caller's vehicles.
func (h *VehicleHandler) HandleGetDocuments(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing user identity", nil)
		return
	}

	vehicle, err := h.vehicleSvc.GetDocuments(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}
