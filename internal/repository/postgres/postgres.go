package postgres

import (
	"database/sql"

	"fleetdesk-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.VehicleRepository
	repository.RenewalRepository
	repository.ChallanRepository
	repository.CreditRepository
	repository.SettlementRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		VehicleRepository:      NewVehicleRepository(db),
		RenewalRepository:      NewRenewalRepository(db),
		ChallanRepository:      NewChallanRepository(db),
		CreditRepository:       NewCreditRepository(db),
		SettlementRepository:   NewSettlementRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
