package domain

import (
	"time"

	"rentalworks-backend/internal/money"
)

// PaymentSource identifies which rail a payment arrived on. Card payments are
// written by the processor import; manual payments are recorded by operations
// staff. The two rails use different status vocabularies (see IsCollected).
type PaymentSource string

const (
	PaymentSourceCard   PaymentSource = "card"
	PaymentSourceManual PaymentSource = "manual"
)

type PaymentType string

const (
	PaymentTypePayment PaymentType = "payment"
	PaymentTypeDeposit PaymentType = "deposit"
	PaymentTypeInvoice PaymentType = "invoice"
)

// Payment is a single money movement tied to a booking. Immutable once in a
// terminal status except for administrative correction.
type Payment struct {
	ID            string        `json:"id"`
	BookingID     string        `json:"booking_id"`
	PaymentNumber string        `json:"payment_number,omitempty"`
	AmountCents   money.Cents   `json:"amount_cents"`
	Source        PaymentSource `json:"source"`
	// Status carries the rail's native vocabulary: the card processor emits
	// "succeeded"/"paid", manual entry uses "completed". Consumers must go
	// through IsCollected, never compare raw strings.
	Status      string      `json:"status"`
	Type        PaymentType `json:"type"`
	Method      string      `json:"method,omitempty"`
	ExternalRef string      `json:"external_ref,omitempty"` // processor id for card payments
	ProcessedAt *time.Time  `json:"processed_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// IsCollected normalizes the per-rail status vocabularies into the single
// "has this money actually arrived" predicate used by the ledger aggregator.
func (p *Payment) IsCollected() bool {
	switch p.Status {
	case "completed", "succeeded", "paid":
		return true
	default:
		return false
	}
}
