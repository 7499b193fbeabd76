package service

import (
	"context"
	"time"

	"fleetdesk-backend/internal/domain"
)

type RenewalService interface {
	CreateRequest(ctx context.Context, userID int32, req *domain.RenewalService) (*domain.RenewalService, error)
	GetRequest(ctx context.Context, userID, serviceID int32) (*domain.RenewalService, error)
	ListRequests(ctx context.Context, userID int32, status domain.ServiceStatus) ([]domain.RenewalService, *domain.ServiceSummary, error)

	// Assign hands the request to a handler exactly once; a second call, or
	// the loser of a concurrent race, gets domain.ErrAlreadyAssigned.
	Assign(ctx context.Context, serviceID int32) (*domain.RenewalService, error)

	// MarkStage records a stage completion and returns the updated record
	// with its derived overall percentage.
	MarkStage(ctx context.Context, serviceID int32, stage domain.Stage) (*domain.RenewalService, int, error)
}

type ChallanService interface {
	// Refresh pulls the latest challans for a registration from the external
	// provider and returns the local ledger view. On provider failure the
	// cached ledger is returned when it exists.
	Refresh(ctx context.Context, registrationNo string) ([]domain.Challan, error)
}

type SettlementService interface {
	Quote(ctx context.Context, challanIDs []int32) (*domain.Quote, error)
	Pay(ctx context.Context, userID int32, challanIDs []int32, idempotencyKey string) (*domain.SettlementRecord, error)
	GetSettlement(ctx context.Context, userID int32, id string) (*domain.SettlementRecord, error)
}

type CreditService interface {
	GetBalance(ctx context.Context, userID int32) (int64, error)
	GetEntries(ctx context.Context, userID int32, page, pageSize int32) ([]domain.CreditEntry, int32, error)
}

type VehicleService interface {
	GetDocuments(ctx context.Context, userID int32, vehicleID string) (*domain.Vehicle, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendDocumentExpiryReminder(ctx context.Context, email, name, registrationNo string, kind domain.DocumentKind, expiry time.Time) error
	SendSettlementReceipt(ctx context.Context, email, name string, rec *domain.SettlementRecord) error
	SendAssignmentNotification(ctx context.Context, email, name, vehicleNo, services string) error
}
