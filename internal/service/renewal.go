package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/logger"
	"fleetdesk-backend/internal/repository"
)

// vehicleIDPattern matches the 24-character hex identifiers carried over
// from the upstream fleet records system.
var vehicleIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

type renewalService struct {
	renewalRepo repository.RenewalRepository
	vehicleRepo repository.VehicleRepository
	userRepo    repository.UserRepository
	noteRepo    repository.NotificationRepository
	emailSvc    EmailService
}

func NewRenewalService(
	renewalRepo repository.RenewalRepository,
	vehicleRepo repository.VehicleRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
) RenewalService {
	return &renewalService{
		renewalRepo: renewalRepo,
		vehicleRepo: vehicleRepo,
		userRepo:    userRepo,
		noteRepo:    noteRepo,
		emailSvc:    emailSvc,
	}
}

func (s *renewalService) CreateRequest(ctx context.Context, userID int32, req *domain.RenewalService) (*domain.RenewalService, error) {
	logger.EnterMethod("renewalService.CreateRequest", "userID", userID, "vehicleNo", req.VehicleNo)

	if strings.TrimSpace(req.Services) == "" {
		return nil, domain.NewValidationError("services", "required")
	}
	if strings.TrimSpace(req.VehicleNo) == "" {
		return nil, domain.NewValidationError("vehicle_no", "required")
	}
	if !vehicleIDPattern.MatchString(req.VehicleID) {
		return nil, domain.NewValidationError("vehicleId", "must be a 24-character hex identifier")
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, req.VehicleID)
	if err != nil {
		logger.ExitMethodWithError("renewalService.CreateRequest", err, "vehicleID", req.VehicleID)
		return nil, err
	}
	if vehicle.UserID != userID {
		return nil, domain.ErrNotFound
	}

	req.UserID = userID
	req.Status = domain.ServiceStatusNotAssigned
	req.IsAssignedService = false
	if err := s.renewalRepo.Create(ctx, req); err != nil {
		logger.ExitMethodWithError("renewalService.CreateRequest", err, "userID", userID)
		return nil, err
	}

	logger.ExitMethod("renewalService.CreateRequest", "serviceID", req.ID)
	return req, nil
}

func (s *renewalService) GetRequest(ctx context.Context, userID, serviceID int32) (*domain.RenewalService, error) {
	svc, err := s.renewalRepo.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if svc.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return svc, nil
}

func (s *renewalService) ListRequests(ctx context.Context, userID int32, status domain.ServiceStatus) ([]domain.RenewalService, *domain.ServiceSummary, error) {
	if status != "" {
		switch status {
		case domain.ServiceStatusNotAssigned, domain.ServiceStatusPending,
			domain.ServiceStatusProcessing, domain.ServiceStatusCompleted:
		default:
			return nil, nil, domain.NewValidationError("status", fmt.Sprintf("unrecognized status %q", status))
		}
	}

	services, err := s.renewalRepo.ListByUser(ctx, userID, status)
	if err != nil {
		return nil, nil, err
	}
	summary, err := s.renewalRepo.Summary(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return services, summary, nil
}

func (s *renewalService) Assign(ctx context.Context, serviceID int32) (*domain.RenewalService, error) {
	logger.EnterMethod("renewalService.Assign", "serviceID", serviceID)

	svc, err := s.renewalRepo.Assign(ctx, serviceID)
	if err != nil {
		logger.ExitMethodWithError("renewalService.Assign", err, "serviceID", serviceID)
		return nil, err
	}

	// Notify the owner; delivery failures never fail the assignment.
	owner, err := s.userRepo.GetByID(ctx, svc.UserID)
	if err == nil {
		_ = s.emailSvc.SendAssignmentNotification(ctx, owner.Email, owner.Name, svc.VehicleNo, svc.Services)
		_ = s.noteRepo.Create(ctx, &domain.Notification{
			UserID:  owner.ID,
			Title:   "Renewal Request Assigned",
			Message: fmt.Sprintf("Your renewal request for %s is now being processed", svc.VehicleNo),
			Attributes: map[string]string{
				"type":       "SERVICE_ASSIGNED",
				"service_id": fmt.Sprintf("%d", svc.ID),
			},
		})
	}

	logger.ExitMethod("renewalService.Assign", "serviceID", svc.ID, "status", svc.Status)
	return svc, nil
}

func (s *renewalService) MarkStage(ctx context.Context, serviceID int32, stage domain.Stage) (*domain.RenewalService, int, error) {
	logger.EnterMethod("renewalService.MarkStage", "serviceID", serviceID, "stage", stage)

	if !domain.IsValidStage(stage) {
		return nil, 0, domain.NewValidationError("field", fmt.Sprintf("unrecognized stage %q", stage))
	}

	svc, err := s.renewalRepo.MarkStage(ctx, serviceID, stage)
	if err != nil {
		logger.ExitMethodWithError("renewalService.MarkStage", err, "serviceID", serviceID, "stage", stage)
		return nil, 0, err
	}

	if svc.Status == domain.ServiceStatusCompleted {
		_ = s.noteRepo.Create(ctx, &domain.Notification{
			UserID:  svc.UserID,
			Title:   "Renewal Completed",
			Message: fmt.Sprintf("All processing stages for %s are complete", svc.VehicleNo),
			Attributes: map[string]string{
				"type":       "SERVICE_COMPLETED",
				"service_id": fmt.Sprintf("%d", svc.ID),
			},
		})
	}

	percent := svc.OverallPercent()
	logger.ExitMethod("renewalService.MarkStage", "serviceID", svc.ID, "status", svc.Status, "overallPercent", percent)
	return svc, percent, nil
}
