package service

import (
	"context"
	"fmt"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/logger"
	"fleetdesk-backend/internal/repository"
)

type settlementService struct {
	settlementRepo repository.SettlementRepository
	challanRepo    repository.ChallanRepository
	userRepo       repository.UserRepository
	noteRepo       repository.NotificationRepository
	emailSvc       EmailService
	schedule       domain.FeeSchedule
}

func NewSettlementService(
	settlementRepo repository.SettlementRepository,
	challanRepo repository.ChallanRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	schedule domain.FeeSchedule,
) SettlementService {
	return &settlementService{
		settlementRepo: settlementRepo,
		challanRepo:    challanRepo,
		userRepo:       userRepo,
		noteRepo:       noteRepo,
		emailSvc:       emailSvc,
		schedule:       schedule,
	}
}

func dedupeIDs(ids []int32) []int32 {
	seen := make(map[int32]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// Quote prices a batch without touching any state. The numbers it returns
// are advisory: Pay re-prices inside its own transaction.
func (s *settlementService) Quote(ctx context.Context, challanIDs []int32) (*domain.Quote, error) {
	logger.EnterMethod("settlementService.Quote", "challans", len(challanIDs))

	if len(challanIDs) == 0 {
		return nil, domain.NewValidationError("challans", "at least one challan required")
	}
	ids := dedupeIDs(challanIDs)

	challans, err := s.challanRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(challans) != len(ids) {
		return nil, domain.ErrNotFound
	}
	for _, c := range challans {
		if c.Paid {
			return nil, domain.ErrAlreadyPaid
		}
	}

	quote := s.schedule.Price(challans)
	logger.ExitMethod("settlementService.Quote", "grandTotal", quote.GrandTotal)
	return quote, nil
}

func (s *settlementService) Pay(ctx context.Context, userID int32, challanIDs []int32, idempotencyKey string) (*domain.SettlementRecord, error) {
	logger.EnterMethod("settlementService.Pay", "userID", userID, "challans", len(challanIDs))

	if len(challanIDs) == 0 {
		return nil, domain.NewValidationError("challans", "at least one challan required")
	}
	ids := dedupeIDs(challanIDs)

	var key *string
	if idempotencyKey != "" {
		key = &idempotencyKey
	}

	rec, err := s.settlementRepo.Settle(ctx, userID, ids, s.schedule, key)
	if err != nil {
		logger.ExitMethodWithError("settlementService.Pay", err, "userID", userID)
		return nil, err
	}

	// Receipt delivery is best effort; the settlement already committed.
	user, err := s.userRepo.GetByID(ctx, userID)
	if err == nil {
		_ = s.emailSvc.SendSettlementReceipt(ctx, user.Email, user.Name, rec)
	}
	_ = s.noteRepo.Create(ctx, &domain.Notification{
		UserID:  userID,
		Title:   "Challans Settled",
		Message: fmt.Sprintf("Paid %d challan(s) for %s, total %d credits", len(rec.Items), rec.RegistrationNo, rec.GrandTotal),
		Attributes: map[string]string{
			"type":          "CHALLAN_SETTLEMENT",
			"settlement_id": rec.ID,
		},
	})

	logger.ExitMethod("settlementService.Pay", "settlementID", rec.ID, "grandTotal", rec.GrandTotal)
	return rec, nil
}

func (s *settlementService) GetSettlement(ctx context.Context, userID int32, id string) (*domain.SettlementRecord, error) {
	rec, err := s.settlementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}
