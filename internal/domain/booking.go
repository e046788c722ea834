package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"rentalworks-backend/internal/money"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// IsTerminal reports whether the booking can no longer be cancelled or
// settled again.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

type CouponType string

const (
	CouponTypePercentage CouponType = "percentage"
	CouponTypeFixed      CouponType = "fixed"
)

// Booking is the financial view of a rental booking. Rate, transport, waiver
// and coupon fields are snapshots captured at booking time; all invoice math
// uses these snapshots, never live catalog prices.
type Booking struct {
	ID            string        `json:"id"`
	BookingNumber string        `json:"booking_number"`
	CustomerEmail string        `json:"customer_email"`
	CustomerName  string        `json:"customer_name"`
	StartDate     time.Time     `json:"start_date"`
	EndDate       time.Time     `json:"end_date"`
	Status        BookingStatus `json:"status"`

	DailyRateCents money.Cents `json:"daily_rate_cents"`
	DistanceKm     float64     `json:"distance_km"`
	// Per-direction transport fee applied when the delivery site is within
	// the included-distance threshold.
	BaseTransportFeeCents money.Cents `json:"base_transport_fee_cents"`

	WaiverSelected  bool        `json:"waiver_selected"`
	WaiverRateCents money.Cents `json:"waiver_rate_cents"` // per rental day

	CouponCode  string          `json:"coupon_code,omitempty"`
	CouponType  CouponType      `json:"coupon_type,omitempty"`
	CouponValue decimal.Decimal `json:"coupon_value"` // percent or dollars, by type

	// TaxRatePercent defaults to 15 (HST) when zero.
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
	// TaxOverrideCents, when set, is honored verbatim for already-issued
	// invoices instead of recomputing tax.
	TaxOverrideCents *money.Cents `json:"tax_override_cents,omitempty"`

	// Persisted snapshots of derived values. Caches of the settlement math,
	// never the system of record.
	TotalSnapshotCents   *money.Cents `json:"total_snapshot_cents,omitempty"`
	BalanceSnapshotCents *money.Cents `json:"balance_snapshot_cents,omitempty"`

	CancellationFeeCents *money.Cents `json:"cancellation_fee_cents,omitempty"`
	CancellationReason   string       `json:"cancellation_reason,omitempty"`
	CancelledAt          *time.Time   `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EffectiveTaxRate returns the booking's tax rate in whole percent, falling
// back to the 15% default when unset.
func (b *Booking) EffectiveTaxRate() decimal.Decimal {
	if b.TaxRatePercent.IsZero() {
		return decimal.NewFromInt(15)
	}
	return b.TaxRatePercent
}
