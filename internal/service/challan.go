package service

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/logger"
	"fleetdesk-backend/internal/provider"
	"fleetdesk-backend/internal/repository"
)

// registrationPattern is a loose sanity check on RC numbers; the provider is
// the authority on whether one actually exists.
var registrationPattern = regexp.MustCompile(`^[A-Z0-9]{5,13}$`)

var challanDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-01-2006",
}

type challanService struct {
	challanRepo repository.ChallanRepository
	client      provider.ChallanClient
}

func NewChallanService(challanRepo repository.ChallanRepository, client provider.ChallanClient) ChallanService {
	return &challanService{challanRepo: challanRepo, client: client}
}

func (s *challanService) Refresh(ctx context.Context, registrationNo string) ([]domain.Challan, error) {
	logger.EnterMethod("challanService.Refresh", "registrationNo", registrationNo)

	regNo := strings.ToUpper(strings.TrimSpace(registrationNo))
	if regNo == "" {
		return nil, domain.NewValidationError("rc_no", "registration number required")
	}
	if !registrationPattern.MatchString(regNo) {
		return nil, domain.NewValidationError("rc_no", "malformed registration number")
	}

	feed, err := s.client.FetchChallans(ctx, regNo)
	if err != nil {
		// Stale data beats no data: fall back to the cached ledger when the
		// provider is down, surface the failure only when there is none.
		if errors.Is(err, domain.ErrUpstreamUnavailable) {
			cached, cacheErr := s.challanRepo.ListByRegistration(ctx, regNo)
			if cacheErr == nil && len(cached) > 0 {
				logger.Warn("Provider unavailable, serving cached challans", "registrationNo", regNo, "cached", len(cached))
				return cached, nil
			}
		}
		logger.ExitMethodWithError("challanService.Refresh", err, "registrationNo", regNo)
		return nil, err
	}

	for _, rec := range feed.Pending {
		c, err := normalizePending(regNo, rec)
		if err != nil {
			logger.Warn("Skipping malformed pending challan", "registrationNo", regNo, "challanNo", rec.ChallanNo, "error", err)
			continue
		}
		if err := s.challanRepo.Upsert(ctx, c); err != nil {
			return nil, err
		}
	}
	for _, rec := range feed.Disposed {
		c, err := normalizeDisposed(regNo, rec)
		if err != nil {
			logger.Warn("Skipping malformed disposed challan", "registrationNo", regNo, "challanNo", rec.ChallanNo, "error", err)
			continue
		}
		if err := s.challanRepo.Upsert(ctx, c); err != nil {
			return nil, err
		}
	}

	challans, err := s.challanRepo.ListByRegistration(ctx, regNo)
	if err != nil {
		return nil, err
	}
	logger.ExitMethod("challanService.Refresh", "registrationNo", regNo, "challans", len(challans))
	return challans, nil
}

func normalizePending(regNo string, rec provider.PendingRecord) (*domain.Challan, error) {
	amount, err := parseAmount(rec.Amount)
	if err != nil {
		return nil, err
	}
	date, err := parseChallanDate(rec.ChallanDateTime)
	if err != nil {
		return nil, err
	}
	routing := domain.CourtRoutingRegistration
	if strings.EqualFold(rec.SentToVirtualCourt, "yes") {
		routing = domain.CourtRoutingVirtual
	}
	return &domain.Challan{
		RegistrationNo: regNo,
		ChallanNo:      rec.ChallanNo,
		Status:         domain.ChallanStatusPending,
		Amount:         amount,
		StateCode:      rec.StateCode,
		ChallanDate:    date,
		CourtRouting:   routing,
	}, nil
}

func normalizeDisposed(regNo string, rec provider.DisposedRecord) (*domain.Challan, error) {
	amount, err := parseAmount(rec.Amount)
	if err != nil {
		return nil, err
	}
	date, err := parseChallanDate(rec.ChallanDate)
	if err != nil {
		return nil, err
	}
	return &domain.Challan{
		RegistrationNo: regNo,
		ChallanNo:      rec.ChallanNo,
		Status:         domain.ChallanStatusDisposed,
		Amount:         amount,
		StateCode:      rec.StateCode,
		ChallanDate:    date,
		CourtRouting:   domain.CourtRoutingRegistration,
	}, nil
}

// parseAmount accepts both "200" and "200.00"; the feed is inconsistent
// about which it sends.
func parseAmount(n json.Number) (int64, error) {
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	return int64(f + 0.5), nil
}

func parseChallanDate(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range challanDateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
