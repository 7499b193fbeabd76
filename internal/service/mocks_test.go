package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/provider"
)

// MockRenewalRepo
type MockRenewalRepo struct {
	mock.Mock
}

func (m *MockRenewalRepo) Create(ctx context.Context, svc *domain.RenewalService) error {
	args := m.Called(ctx, svc)
	return args.Error(0)
}
func (m *MockRenewalRepo) GetByID(ctx context.Context, id int32) (*domain.RenewalService, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RenewalService), args.Error(1)
}
func (m *MockRenewalRepo) ListByUser(ctx context.Context, userID int32, status domain.ServiceStatus) ([]domain.RenewalService, error) {
	args := m.Called(ctx, userID, status)
	return args.Get(0).([]domain.RenewalService), args.Error(1)
}
func (m *MockRenewalRepo) Summary(ctx context.Context, userID int32) (*domain.ServiceSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceSummary), args.Error(1)
}
func (m *MockRenewalRepo) Assign(ctx context.Context, id int32) (*domain.RenewalService, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RenewalService), args.Error(1)
}
func (m *MockRenewalRepo) MarkStage(ctx context.Context, id int32, stage domain.Stage) (*domain.RenewalService, error) {
	args := m.Called(ctx, id, stage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RenewalService), args.Error(1)
}

// MockVehicleRepo
type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) GetByRegistration(ctx context.Context, registrationNo string) (*domain.Vehicle, error) {
	args := m.Called(ctx, registrationNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) List(ctx context.Context) ([]domain.Vehicle, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) GetDocuments(ctx context.Context, vehicleID string) (map[domain.DocumentKind]domain.VehicleDocument, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.DocumentKind]domain.VehicleDocument), args.Error(1)
}
func (m *MockVehicleRepo) ListExpiringDocuments(ctx context.Context, before time.Time) ([]domain.ExpiringDocument, error) {
	args := m.Called(ctx, before)
	return args.Get(0).([]domain.ExpiringDocument), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockChallanRepo
type MockChallanRepo struct {
	mock.Mock
}

func (m *MockChallanRepo) Upsert(ctx context.Context, c *domain.Challan) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockChallanRepo) ListByRegistration(ctx context.Context, registrationNo string) ([]domain.Challan, error) {
	args := m.Called(ctx, registrationNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Challan), args.Error(1)
}
func (m *MockChallanRepo) GetByIDs(ctx context.Context, ids []int32) ([]domain.Challan, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Challan), args.Error(1)
}

// MockSettlementRepo
type MockSettlementRepo struct {
	mock.Mock
}

func (m *MockSettlementRepo) Settle(ctx context.Context, userID int32, challanIDs []int32, schedule domain.FeeSchedule, idempotencyKey *string) (*domain.SettlementRecord, error) {
	args := m.Called(ctx, userID, challanIDs, schedule, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementRecord), args.Error(1)
}
func (m *MockSettlementRepo) GetByID(ctx context.Context, id string) (*domain.SettlementRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementRecord), args.Error(1)
}

// MockCreditRepo
type MockCreditRepo struct {
	mock.Mock
}

func (m *MockCreditRepo) GetBalance(ctx context.Context, userID int32) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockCreditRepo) ListEntries(ctx context.Context, userID int32, limit, offset int32) ([]domain.CreditEntry, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.CreditEntry), args.Get(1).(int32), args.Error(2)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendDocumentExpiryReminder(ctx context.Context, email, name, registrationNo string, kind domain.DocumentKind, expiry time.Time) error {
	args := m.Called(ctx, email, name, registrationNo, kind, expiry)
	return args.Error(0)
}
func (m *MockEmailService) SendSettlementReceipt(ctx context.Context, email, name string, rec *domain.SettlementRecord) error {
	args := m.Called(ctx, email, name, rec)
	return args.Error(0)
}
func (m *MockEmailService) SendAssignmentNotification(ctx context.Context, email, name, vehicleNo, services string) error {
	args := m.Called(ctx, email, name, vehicleNo, services)
	return args.Error(0)
}

// MockChallanClient
type MockChallanClient struct {
	mock.Mock
}

func (m *MockChallanClient) FetchChallans(ctx context.Context, registrationNo string) (*provider.ChallanFeed, error) {
	args := m.Called(ctx, registrationNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.ChallanFeed), args.Error(1)
}
