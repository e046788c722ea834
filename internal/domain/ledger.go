package domain

import (
	"time"

	"rentalworks-backend/internal/money"
)

type LedgerEntryType string

const (
	LedgerEntryTypePaymentReceived LedgerEntryType = "PAYMENT_RECEIVED"
	LedgerEntryTypeDiscountApplied LedgerEntryType = "DISCOUNT_APPLIED"
	LedgerEntryTypeFeeAssessed     LedgerEntryType = "FEE_ASSESSED"
	LedgerEntryTypeRefundIssued    LedgerEntryType = "REFUND_ISSUED"
	LedgerEntryTypeAdjustment      LedgerEntryType = "ADJUSTMENT"
)

// LedgerEntry is an immutable, append-only audit record of a single financial
// event on a booking. Entries are never updated or deleted and are not an
// input to balance math; they exist for audit and history.
type LedgerEntry struct {
	ID          string          `json:"id"`
	BookingID   string          `json:"booking_id"`
	Type        LedgerEntryType `json:"type"`
	Source      string          `json:"source,omitempty"`
	AmountCents money.Cents     `json:"amount_cents"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}
