package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/service"
)

type RenewalHandler struct {
	renewalSvc service.RenewalService
}

func NewRenewalHandler(renewalSvc service.RenewalService) *RenewalHandler {
	return &RenewalHandler{renewalSvc: renewalSvc}
}

type createServiceRequest struct {
	Services          string `json:"services"`
	VehicleNo         string `json:"vehicle_no"`
	VehicleID         string `json:"vehicleId"`
	GovFees           int64  `json:"govFees"`
	ServiceCharge     int64  `json:"serviceCharge"`
	Price             int64  `json:"price"`
	IsAssignedService bool   `json:"isAssignedService"`
}

type markStageRequest struct {
	Field string `json:"field"`
}

type serviceResponse struct {
	*domain.RenewalService
	OverallPercent int `json:"overall_percent"`
}

// HandleList returns the caller's renewal requests, optionally filtered by
// status, together with per-status counters.
func (h *RenewalHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing user identity", nil)
		return
	}

	status := domain.ServiceStatus(r.URL.Query().Get("status"))
	services, summary, err := h.renewalSvc.ListRequests(r.Context(), userID, status)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]serviceResponse, 0, len(services))
	for i := range services {
		items = append(items, serviceResponse{
			RenewalService: &services[i],
			OverallPercent: services[i].OverallPercent(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"services": items,
		"summary":  summary,
	})
}

func (h *RenewalHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing user identity", nil)
		return
	}

	serviceID, ok := parseServiceID(w, r)
	if !ok {
		return
	}

	svc, err := h.renewalSvc.GetRequest(r.Context(), userID, serviceID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, serviceResponse{RenewalService: svc, OverallPercent: svc.OverallPercent()})
}

func (h *RenewalHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing user identity", nil)
		return
	}

	var req createServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed request body", nil)
		return
	}

	svc, err := h.renewalSvc.CreateRequest(r.Context(), userID, &domain.RenewalService{
		VehicleID:     req.VehicleID,
		VehicleNo:     req.VehicleNo,
		Services:      req.Services,
		GovtFees:      req.GovFees,
		ServiceCharge: req.ServiceCharge,
		Price:         req.Price,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, serviceResponse{RenewalService: svc, OverallPercent: svc.OverallPercent()})
}

// HandleMarkStage is the PATCH {field} endpoint. Field names are checked
// against the closed stage set; nothing else is writable this way.
func (h *RenewalHandler) HandleMarkStage(w http.ResponseWriter, r *http.Request) {
	serviceID, ok := parseServiceID(w, r)
	if !ok {
		return
	}

	var req markStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed request body", nil)
		return
	}

	svc, percent, err := h.renewalSvc.MarkStage(r.Context(), serviceID, domain.Stage(req.Field))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, serviceResponse{RenewalService: svc, OverallPercent: percent})
}

// HandleAssign is the admin-only assignment path.
func (h *RenewalHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	serviceID, ok := parseServiceID(w, r)
	if !ok {
		return
	}

	svc, err := h.renewalSvc.Assign(r.Context(), serviceID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, serviceResponse{RenewalService: svc, OverallPercent: svc.OverallPercent()})
}

func parseServiceID(w http.ResponseWriter, r *http.Request) (int32, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid service id", nil)
		return 0, false
	}
	return int32(id), true
}
