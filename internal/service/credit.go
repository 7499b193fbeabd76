package service

import (
	"context"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/repository"
)

type creditService struct {
	creditRepo repository.CreditRepository
}

func NewCreditService(creditRepo repository.CreditRepository) CreditService {
	return &creditService{creditRepo: creditRepo}
}

func (s *creditService) GetBalance(ctx context.Context, userID int32) (int64, error) {
	return s.creditRepo.GetBalance(ctx, userID)
}

func (s *creditService) GetEntries(ctx context.Context, userID int32, page, pageSize int32) ([]domain.CreditEntry, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.creditRepo.ListEntries(ctx, userID, pageSize, (page-1)*pageSize)
}
