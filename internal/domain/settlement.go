package domain

import "time"

// FeeSchedule is the configured pricing applied on top of each challan fine:
// a fixed service fee plus tax as a percentage of that fee. Integer-only
// arithmetic throughout.
type FeeSchedule struct {
	ServiceFee int64
	TaxPercent int64
}

// PriceItem computes the line total for one challan.
func (f FeeSchedule) PriceItem(c Challan) SettlementItem {
	tax := f.ServiceFee * f.TaxPercent / 100
	return SettlementItem{
		ChallanID:  c.ID,
		ChallanNo:  c.ChallanNo,
		FineAmount: c.Amount,
		ServiceFee: f.ServiceFee,
		Tax:        tax,
		Total:      c.Amount + f.ServiceFee + tax,
	}
}

// Price computes per-item and aggregate totals for a challan batch.
func (f FeeSchedule) Price(challans []Challan) *Quote {
	q := &Quote{}
	for _, c := range challans {
		item := f.PriceItem(c)
		q.Items = append(q.Items, item)
		q.FineTotal += item.FineAmount
		q.FeeTotal += item.ServiceFee
		q.TaxTotal += item.Tax
		q.GrandTotal += item.Total
	}
	return q
}

// SettlementItem is the priced breakdown for one challan inside a quote or a
// completed settlement.
type SettlementItem struct {
	ChallanID  int32  `json:"challan_id"`
	ChallanNo  string `json:"challan_no"`
	FineAmount int64  `json:"fine_amount"`
	ServiceFee int64  `json:"service_fee"`
	Tax        int64  `json:"tax"`
	Total      int64  `json:"total"`
}

// Quote prices a set of unpaid challans without mutating anything.
type Quote struct {
	Items      []SettlementItem `json:"items"`
	FineTotal  int64            `json:"fine_total"`
	FeeTotal   int64            `json:"fee_total"`
	TaxTotal   int64            `json:"tax_total"`
	GrandTotal int64            `json:"grand_total"`
}

// SettlementRecord is the immutable audit record of one successful payment.
// Created exactly once per pay call; a retried request carrying the same
// idempotency key gets the original record back.
type SettlementRecord struct {
	ID             string           `json:"id"`
	UserID         int32            `json:"user_id"`
	RegistrationNo string           `json:"registration_no"`
	Items          []SettlementItem `json:"items"`
	FineTotal      int64            `json:"fine_total"`
	FeeTotal       int64            `json:"fee_total"`
	TaxTotal       int64            `json:"tax_total"`
	GrandTotal     int64            `json:"grand_total"`
	IdempotencyKey *string          `json:"-"`
	CreatedOn      time.Time        `json:"created_on"`
}
