package http

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"

	"fleetdesk-backend/internal/security"
	"fleetdesk-backend/internal/service"
)

// Handlers bundles the per-resource handlers wired into the router.
type Handlers struct {
	Renewal      *RenewalHandler
	Challan      *ChallanHandler
	Payment      *PaymentHandler
	Credit       *CreditHandler
	Vehicle      *VehicleHandler
	Notification *NotificationHandler
}

func NewHandlers(
	renewalSvc service.RenewalService,
	challanSvc service.ChallanService,
	settlementSvc service.SettlementService,
	creditSvc service.CreditService,
	vehicleSvc service.VehicleService,
	noteSvc service.NotificationService,
) *Handlers {
	return &Handlers{
		Renewal:      NewRenewalHandler(renewalSvc),
		Challan:      NewChallanHandler(challanSvc),
		Payment:      NewPaymentHandler(settlementSvc),
		Credit:       NewCreditHandler(creditSvc),
		Vehicle:      NewVehicleHandler(vehicleSvc),
		Notification: NewNotificationHandler(noteSvc),
	}
}

// NewRouter builds the /api/v1 route tree. Everything under it requires a
// valid bearer token; the assignment route additionally requires the admin
// role. /healthz sits outside the auth gate.
func NewRouter(h *Handlers, tm security.TokenManager, db *sql.DB) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "UNHEALTHY", "database unreachable", nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tm))

	api.HandleFunc("/services", h.Renewal.HandleList).Methods("GET")
	api.HandleFunc("/services", h.Renewal.HandleCreate).Methods("POST")
	api.HandleFunc("/services/{id}", h.Renewal.HandleGet).Methods("GET")
	api.HandleFunc("/services/{id}", h.Renewal.HandleMarkStage).Methods("PATCH")
	api.HandleFunc("/services/{id}/assign", RequireAdmin(h.Renewal.HandleAssign)).Methods("PATCH")

	api.HandleFunc("/challans", h.Challan.HandleList).Methods("GET")

	api.HandleFunc("/payment", h.Payment.HandlePay).Methods("POST")
	api.HandleFunc("/payment/quote", h.Payment.HandleQuote).Methods("POST")
	api.HandleFunc("/payment/{id}", h.Payment.HandleGetSettlement).Methods("GET")

	api.HandleFunc("/credits", h.Credit.HandleGet).Methods("GET")

	api.HandleFunc("/vehicles/{id}/documents", h.Vehicle.HandleGetDocuments).Methods("GET")

	api.HandleFunc("/notifications", h.Notification.HandleList).Methods("GET")
	api.HandleFunc("/notifications/{id}/read", h.Notification.HandleMarkRead).Methods("POST")

	return router
}
