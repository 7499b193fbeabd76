package domain

import "time"

// DocumentKind enumerates the vehicle documents tracked for renewal.
type DocumentKind string

const (
	DocumentRoadTax        DocumentKind = "roadTax"
	DocumentFitness        DocumentKind = "fitness"
	DocumentInsurance      DocumentKind = "insurance"
	DocumentPollution      DocumentKind = "pollution"
	DocumentStatePermit    DocumentKind = "statePermit"
	DocumentNationalPermit DocumentKind = "nationalPermit"
)

var DocumentKinds = []DocumentKind{
	DocumentRoadTax,
	DocumentFitness,
	DocumentInsurance,
	DocumentPollution,
	DocumentStatePermit,
	DocumentNationalPermit,
}

func IsValidDocumentKind(k DocumentKind) bool {
	for _, kind := range DocumentKinds {
		if kind == k {
			return true
		}
	}
	return false
}

// VehicleDocument is one document-kind entry on a vehicle. DocumentRef points
// at the stored copy held by the upload collaborator; empty when none exists.
type VehicleDocument struct {
	Kind        DocumentKind `json:"kind"`
	ExpiryDate  *time.Time   `json:"expiry_date,omitempty"`
	DocumentRef string       `json:"document_ref,omitempty"`
}

// ExpiringDocument is a reminder-scan row: one document on one vehicle whose
// expiry falls inside the lookahead window.
type ExpiringDocument struct {
	VehicleID      string       `json:"vehicle_id"`
	RegistrationNo string       `json:"registration_no"`
	UserID         int32        `json:"user_id"`
	Kind           DocumentKind `json:"kind"`
	ExpiryDate     time.Time    `json:"expiry_date"`
}

type Vehicle struct {
	// ID is a 24-character hex identifier carried over from the upstream
	// fleet records system.
	ID             string                           `json:"id"`
	UserID         int32                            `json:"user_id"`
	RegistrationNo string                           `json:"registration_no"`
	Documents      map[DocumentKind]VehicleDocument `json:"documents,omitempty"`
	CreatedOn      time.Time                        `json:"created_on"`
	UpdatedOn      time.Time                        `json:"updated_on"`
}
