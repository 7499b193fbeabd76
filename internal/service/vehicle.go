package service

import (
	"context"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/repository"
)

type vehicleService struct {
	vehicleRepo repository.VehicleRepository
}

func NewVehicleService(vehicleRepo repository.VehicleRepository) VehicleService {
	return &vehicleService{vehicleRepo: vehicleRepo}
}

func (s *vehicleService) GetDocuments(ctx context.Context, userID int32, vehicleID string) (*domain.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.UserID != userID {
		return nil, domain.ErrNotFound
	}

	docs, err := s.vehicleRepo.GetDocuments(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	vehicle.Documents = docs
	return vehicle, nil
}
