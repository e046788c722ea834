package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"rentalworks-backend/internal/money"
)

var (
	percent25 = decimal.NewFromInt(25)
	percent50 = decimal.NewFromInt(50)
)

// Cancellation policy labels, surfaced to the confirmation UI verbatim.
const (
	PolicyFreeCancellation = "Free cancellation"
	PolicyQuarterFee       = "25% cancellation fee"
	PolicyHalfFee          = "50% cancellation fee"
	PolicyFullCharge       = "Full amount charged"
)

// CancellationQuote is the fee/refund outcome of cancelling at a given
// moment. Consumed by the confirmation UI and, on acceptance, by the commit
// path; both see the same numbers because the quote is a pure function of
// its inputs.
type CancellationQuote struct {
	FeeCents        money.Cents `json:"fee_cents"`
	RefundCents     money.Cents `json:"refund_cents"`
	PolicyLabel     string      `json:"policy_label"`
	HoursUntilStart float64     `json:"hours_until_start"`
}

// QuoteCancellation computes the time-tiered cancellation fee and the refund
// against what has actually been collected.
//
// now is an explicit input so preview and commit agree on the tier within the
// same request and so the engine is testable with a frozen clock. The fee is
// a non-decreasing step function of time remaining before the rental starts:
//
//	> 48h   no fee
//	24–48h  25% of total
//	0–24h   50% of total
//	started full total
func QuoteCancellation(now, startDate time.Time, total, collected money.Cents) CancellationQuote {
	hours := startDate.Sub(now).Hours()

	q := CancellationQuote{HoursUntilStart: hours}
	switch {
	case hours > 48:
		q.FeeCents = 0
		q.PolicyLabel = PolicyFreeCancellation
	case hours > 24:
		q.FeeCents = total.Percent(percent25)
		q.PolicyLabel = PolicyQuarterFee
	case hours > 0:
		q.FeeCents = total.Percent(percent50)
		q.PolicyLabel = PolicyHalfFee
	default:
		q.FeeCents = total
		q.PolicyLabel = PolicyFullCharge
	}

	q.RefundCents = collected - q.FeeCents
	if q.RefundCents < 0 {
		q.RefundCents = 0
	}
	return q
}
