package domain

import "time"

type ChallanStatus string

const (
	ChallanStatusPending  ChallanStatus = "Pending"
	ChallanStatusDisposed ChallanStatus = "Disposed"
)

type CourtRouting string

const (
	CourtRoutingRegistration CourtRouting = "REGISTRATION"
	CourtRoutingVirtual      CourtRouting = "VIRTUAL_COURT"
)

// Challan is a traffic-violation notice as held locally. The paid flag is
// local state: the external feed never reports it, and the settlement engine
// is the only writer.
type Challan struct {
	ID             int32         `json:"id"`
	RegistrationNo string        `json:"registration_no"`
	ChallanNo      string        `json:"challan_no"`
	Status         ChallanStatus `json:"status"`
	Amount         int64         `json:"amount"`
	StateCode      string        `json:"state_code"`
	ChallanDate    time.Time     `json:"challan_date"`
	CourtRouting   CourtRouting  `json:"court_routing"`
	Paid           bool          `json:"paid"`
	CreatedOn      time.Time     `json:"created_on"`
	UpdatedOn      time.Time     `json:"updated_on"`
}
