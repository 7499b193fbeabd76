package domain

import "time"

type CreditEntryKind string

const (
	CreditEntrySettlementDebit CreditEntryKind = "SETTLEMENT_DEBIT"
	CreditEntryTopUp           CreditEntryKind = "TOPUP_CREDIT"
	CreditEntryAdjustment      CreditEntryKind = "ADJUSTMENT"
)

// CreditAccount holds the materialized balance for a user. The balance is
// derived from the credit_entries ledger; both are written in the same
// transaction and the balance never goes negative.
type CreditAccount struct {
	UserID  int32 `json:"user_id"`
	Balance int64 `json:"balance"`
}

// CreditEntry is one append-only ledger row. Amount is negative for debits
// and positive for credits.
type CreditEntry struct {
	ID           int32           `json:"id"`
	UserID       int32           `json:"user_id"`
	Amount       int64           `json:"amount"`
	Kind         CreditEntryKind `json:"kind"`
	SettlementID *string         `json:"settlement_id,omitempty"`
	Description  string          `json:"description"`
	CreatedOn    time.Time       `json:"created_on"`
}
