package repository

import (
	"context"
	"time"

	"fleetdesk-backend/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
}

type VehicleRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)
	GetByRegistration(ctx context.Context, registrationNo string) (*domain.Vehicle, error)
	List(ctx context.Context) ([]domain.Vehicle, error)
	GetDocuments(ctx context.Context, vehicleID string) (map[domain.DocumentKind]domain.VehicleDocument, error)
	ListExpiringDocuments(ctx context.Context, before time.Time) ([]domain.ExpiringDocument, error)
}

type RenewalRepository interface {
	Create(ctx context.Context, svc *domain.RenewalService) error
	GetByID(ctx context.Context, id int32) (*domain.RenewalService, error)
	ListByUser(ctx context.Context, userID int32, status domain.ServiceStatus) ([]domain.RenewalService, error)
	Summary(ctx context.Context, userID int32) (*domain.ServiceSummary, error)

	// Assign flips is_assigned_service false -> true under a conditional
	// write. Exactly one concurrent caller succeeds; losers get
	// domain.ErrAlreadyAssigned, a missing record gets domain.ErrNotFound.
	Assign(ctx context.Context, id int32) (*domain.RenewalService, error)

	// MarkStage records a stage completion and recomputes status inside one
	// transaction. Idempotent: a stage already done is left untouched.
	MarkStage(ctx context.Context, id int32, stage domain.Stage) (*domain.RenewalService, error)
}

type ChallanRepository interface {
	// Upsert inserts or refreshes a challan by its external challan number.
	// The local paid flag survives refreshes.
	Upsert(ctx context.Context, c *domain.Challan) error
	ListByRegistration(ctx context.Context, registrationNo string) ([]domain.Challan, error)
	GetByIDs(ctx context.Context, ids []int32) ([]domain.Challan, error)
}

type CreditRepository interface {
	GetBalance(ctx context.Context, userID int32) (int64, error)
	ListEntries(ctx context.Context, userID int32, limit, offset int32) ([]domain.CreditEntry, int32, error)
}

type SettlementRepository interface {
	// Settle runs the whole settlement as one transaction: lock the selected
	// challans, re-check paid state, re-price with the schedule, debit the
	// account conditionally, append the ledger entry, mark the challans paid
	// and write the audit record. All of it commits or none of it does.
	// A known idempotency key short-circuits to the stored record.
	Settle(ctx context.Context, userID int32, challanIDs []int32, schedule domain.FeeSchedule, idempotencyKey *string) (*domain.SettlementRecord, error)
	GetByID(ctx context.Context, id string) (*domain.SettlementRecord, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
