// Package billing holds the settlement math for bookings: invoice
// calculation, payment-ledger aggregation, cancellation quotes and
// installment schedules. Every function in this package is pure; callers
// pass a fully materialized snapshot in and get a result back, so the same
// input always produces the same output and recomputation is always safe.
package billing

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"rentalworks-backend/internal/domain"
	"rentalworks-backend/internal/money"
)

// TransportRates are the distance-tier constants for transport pricing.
type TransportRates struct {
	// IncludedKm is the one-way distance covered by the booking's base
	// transport fee with no mileage surcharge.
	IncludedKm float64
	// PerKmCents is charged per km beyond IncludedKm, per direction.
	PerKmCents money.Cents
	// LongHaulBaseCents replaces the booking's base fee, per direction, once
	// the distance exceeds IncludedKm.
	LongHaulBaseCents money.Cents
}

// DefaultTransportRates match the published rate card: 25 km included,
// $3/km beyond, $150 long-haul base per direction.
func DefaultTransportRates() TransportRates {
	return TransportRates{
		IncludedKm:        25,
		PerKmCents:        money.Cents(300),
		LongHaulBaseCents: money.Cents(15000),
	}
}

// InvoiceCalculation is the authoritative invoice breakdown for a booking.
// It is derived, never persisted; stored totals are caches of this output.
type InvoiceCalculation struct {
	RentalDays int `json:"rental_days"`

	EquipmentSubtotalCents money.Cents `json:"equipment_subtotal_cents"`

	DeliverySubtotalCents money.Cents `json:"delivery_subtotal_cents"`
	PickupSubtotalCents   money.Cents `json:"pickup_subtotal_cents"`
	TransportTotalCents   money.Cents `json:"transport_total_cents"`
	LongHaul              bool        `json:"long_haul"`
	ExtraKm               float64     `json:"extra_km"`
	MileagePerDirection   money.Cents `json:"mileage_per_direction_cents"`
	BaseFeePerDirection   money.Cents `json:"base_fee_per_direction_cents"`

	WaiverChargeCents money.Cents `json:"waiver_charge_cents"`

	SubtotalBeforeDiscountCents money.Cents `json:"subtotal_before_discount_cents"`
	DiscountCents               money.Cents `json:"discount_cents"`
	SubtotalAfterDiscountCents  money.Cents `json:"subtotal_after_discount_cents"`

	TaxCents      money.Cents `json:"tax_cents"`
	TaxOverridden bool        `json:"tax_overridden"`

	TotalCents money.Cents `json:"total_cents"`
}

// Calculate turns booking attributes into the invoice breakdown.
//
// Rental days are inclusive-of-first-day with a minimum of one: a same-day or
// inverted range clamps to a single billable day rather than producing a zero
// or negative invoice.
func Calculate(b *domain.Booking, rates TransportRates) (InvoiceCalculation, error) {
	days, err := RentalDays(b.StartDate, b.EndDate)
	if err != nil {
		return InvoiceCalculation{}, err
	}

	calc := InvoiceCalculation{RentalDays: days}
	calc.EquipmentSubtotalCents = b.DailyRateCents * money.Cents(days)

	calc.applyTransport(b, rates)

	if b.WaiverSelected && b.WaiverRateCents > 0 {
		calc.WaiverChargeCents = b.WaiverRateCents * money.Cents(days)
	}

	calc.SubtotalBeforeDiscountCents = calc.EquipmentSubtotalCents +
		calc.TransportTotalCents + calc.WaiverChargeCents

	calc.DiscountCents = couponDiscount(b, calc.SubtotalBeforeDiscountCents)
	calc.SubtotalAfterDiscountCents = calc.SubtotalBeforeDiscountCents - calc.DiscountCents

	if b.TaxOverrideCents != nil {
		calc.TaxCents = *b.TaxOverrideCents
		calc.TaxOverridden = true
	} else {
		calc.TaxCents = calc.SubtotalAfterDiscountCents.Percent(b.EffectiveTaxRate())
	}

	calc.TotalCents = calc.SubtotalAfterDiscountCents + calc.TaxCents
	return calc, nil
}

// applyTransport fills the transport tier fields. Within the included
// distance each direction is billed at the booking's base fee; beyond it the
// long-haul base replaces the booking fee and the extra kilometres are
// surcharged per direction. Distance exactly at the threshold carries no
// surcharge.
func (calc *InvoiceCalculation) applyTransport(b *domain.Booking, rates TransportRates) {
	if b.DistanceKm > rates.IncludedKm {
		calc.LongHaul = true
		calc.ExtraKm = b.DistanceKm - rates.IncludedKm
		calc.MileagePerDirection = money.FromDecimal(
			decimal.NewFromFloat(calc.ExtraKm).Mul(rates.PerKmCents.Decimal()))
		calc.BaseFeePerDirection = rates.LongHaulBaseCents
	} else {
		calc.BaseFeePerDirection = b.BaseTransportFeeCents
	}

	perDirection := calc.BaseFeePerDirection + calc.MileagePerDirection
	calc.DeliverySubtotalCents = perDirection
	calc.PickupSubtotalCents = perDirection
	calc.TransportTotalCents = calc.DeliverySubtotalCents + calc.PickupSubtotalCents
}

// couponDiscount computes the coupon deduction, floored at zero and capped at
// the pre-discount subtotal so the total can never go negative.
func couponDiscount(b *domain.Booking, subtotal money.Cents) money.Cents {
	if b.CouponType == "" || b.CouponValue.Sign() <= 0 {
		return 0
	}
	var discount money.Cents
	switch b.CouponType {
	case domain.CouponTypePercentage:
		discount = subtotal.Percent(b.CouponValue)
	case domain.CouponTypeFixed:
		discount = money.FromDecimal(b.CouponValue)
	default:
		return 0
	}
	if discount < 0 {
		return 0
	}
	if discount > subtotal {
		return subtotal
	}
	return discount
}

// RentalDays is the billable day-count rule shared by Calculate and by
// callers that only need the duration (contract text, availability views):
// the ceiling of whole 24h periods, clamped to a minimum of one day.
func RentalDays(start, end time.Time) (int, error) {
	if start.IsZero() || end.IsZero() {
		return 0, fmt.Errorf("%w: start or end date missing", domain.ErrInvalidBookingDates)
	}
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days, nil
}
