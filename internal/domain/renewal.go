package domain

import (
	"math"
	"time"
)

type ServiceStatus string

const (
	ServiceStatusNotAssigned ServiceStatus = "not_assigned"
	ServiceStatusPending     ServiceStatus = "pending"
	ServiceStatusProcessing  ServiceStatus = "processing"
	ServiceStatusCompleted   ServiceStatus = "completed"
)

// allowedStatusTransition encodes the forward-only lifecycle of a renewal
// request. Terminal state: completed.
var allowedStatusTransition = map[ServiceStatus][]ServiceStatus{
	ServiceStatusNotAssigned: {ServiceStatusPending},
	ServiceStatusPending:     {ServiceStatusProcessing, ServiceStatusCompleted},
	ServiceStatusProcessing:  {ServiceStatusCompleted},
	ServiceStatusCompleted:   {},
}

// CanTransitionStatus reports whether from -> to is an allowed status move.
// A no-op transition (from == to) is always allowed.
func CanTransitionStatus(from, to ServiceStatus) bool {
	if from == to {
		return true
	}
	for _, s := range allowedStatusTransition[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Stage string

const (
	StageGovtFees          Stage = "govtFees"
	StageRTOApproval       Stage = "rtoApproval"
	StageInspection        Stage = "inspection"
	StageCertificate       Stage = "certificate"
	StageDocumentDelivered Stage = "documentDelivered"
)

// Stages lists the five processing stages in their customary order.
var Stages = []Stage{
	StageGovtFees,
	StageRTOApproval,
	StageInspection,
	StageCertificate,
	StageDocumentDelivered,
}

func IsValidStage(s Stage) bool {
	for _, stage := range Stages {
		if stage == s {
			return true
		}
	}
	return false
}

// StageProgress records one stage's completion. CompletedOn is set on the
// first completion and never rewritten.
type StageProgress struct {
	Done        bool       `json:"done"`
	CompletedOn *time.Time `json:"completed_on,omitempty"`
}

type RenewalService struct {
	ID                int32                   `json:"id"`
	UserID            int32                   `json:"user_id"`
	VehicleID         string                  `json:"vehicle_id"`
	VehicleNo         string                  `json:"vehicle_no"`
	Services          string                  `json:"services"`
	GovtFees          int64                   `json:"gov_fees"`
	ServiceCharge     int64                   `json:"service_charge"`
	Price             int64                   `json:"price"`
	IsAssignedService bool                    `json:"is_assigned_service"`
	Status            ServiceStatus           `json:"status"`
	Progress          map[Stage]StageProgress `json:"progress"`
	CreatedOn         time.Time               `json:"created_on"`
	UpdatedOn         time.Time               `json:"updated_on"`
}

// CompletedStageCount returns how many of the five stages are done.
func (s *RenewalService) CompletedStageCount() int {
	var n int
	for _, stage := range Stages {
		if s.Progress[stage].Done {
			n++
		}
	}
	return n
}

// OverallPercent is the derived completion percentage across all stages.
func (s *RenewalService) OverallPercent() int {
	return int(math.Round(100 * float64(s.CompletedStageCount()) / float64(len(Stages))))
}

// DeriveStatus recomputes status from stage progress. Status only moves on
// assigned records: completed requires all stages done, processing requires
// at least one. Unassigned records keep recording stage progress but hold
// their status until assignment happens.
func (s *RenewalService) DeriveStatus() ServiceStatus {
	if !s.IsAssignedService {
		return s.Status
	}
	done := s.CompletedStageCount()
	switch {
	case done == len(Stages):
		return ServiceStatusCompleted
	case done > 0:
		return ServiceStatusProcessing
	default:
		return s.Status
	}
}

// ServiceSummary holds per-status counters for a user's renewal requests.
type ServiceSummary struct {
	Total       int32                   `json:"total"`
	StatusCount map[ServiceStatus]int32 `json:"status_count"`
}
