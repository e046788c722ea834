package billing

import (
	"rentalworks-backend/internal/domain"
	"rentalworks-backend/internal/money"
)

// MismatchEpsilonCents is the tolerance when comparing a recomputed balance
// against a previously persisted snapshot.
const MismatchEpsilonCents = money.Cents(1)

// ReconciliationMismatch reports a stored balance snapshot that disagrees
// with the freshly recomputed value beyond the one-cent epsilon. Non-fatal:
// the recomputed value is always ground truth and the stored one is flagged
// for operator review, never silently trusted.
type ReconciliationMismatch struct {
	StoredCents   money.Cents `json:"stored_cents"`
	ComputedCents money.Cents `json:"computed_cents"`
}

// Reconciliation is the merged collected/outstanding view across both
// payment rails.
type Reconciliation struct {
	// CollectedRawCents is the uncapped sum of collected payments; retained
	// so overpayment is detectable, never silently discarded.
	CollectedRawCents money.Cents `json:"collected_raw_cents"`
	// CollectedCents is capped at the invoice total and drives the balance
	// shown to customers and operations.
	CollectedCents money.Cents                          `json:"collected_cents"`
	BalanceCents   money.Cents                          `json:"balance_cents"`
	BySource       map[domain.PaymentSource]money.Cents `json:"by_source"`
	Overpaid       bool                                 `json:"overpaid"`
	Mismatch       *ReconciliationMismatch              `json:"mismatch,omitempty"`
}

// Reconcile merges payments from both rails against the authoritative total.
// Pure and idempotent: safe to recompute on every read against the same
// snapshot. storedBalance is the booking's persisted balance cache, or nil
// when none exists.
func Reconcile(total money.Cents, payments []domain.Payment, storedBalance *money.Cents) Reconciliation {
	rec := Reconciliation{
		BySource: map[domain.PaymentSource]money.Cents{},
	}

	for i := range payments {
		p := &payments[i]
		if !p.IsCollected() {
			continue
		}
		rec.CollectedRawCents += p.AmountCents
		rec.BySource[p.Source] += p.AmountCents
	}

	rec.CollectedCents = rec.CollectedRawCents
	if rec.CollectedCents > total {
		rec.CollectedCents = total
		rec.Overpaid = true
	}

	rec.BalanceCents = total - rec.CollectedCents
	if rec.BalanceCents < 0 {
		rec.BalanceCents = 0
	}

	if storedBalance != nil && (*storedBalance - rec.BalanceCents).Abs() > MismatchEpsilonCents {
		rec.Mismatch = &ReconciliationMismatch{
			StoredCents:   *storedBalance,
			ComputedCents: rec.BalanceCents,
		}
	}

	return rec
}

// Invoice bundles the calculation and the ledger view into the one output
// that every renderer and summary consumes, so web and email figures can
// never drift apart.
type Invoice struct {
	Booking     *domain.Booking    `json:"booking"`
	Calculation InvoiceCalculation `json:"calculation"`
	Ledger      Reconciliation     `json:"ledger"`
	Payments    []domain.Payment   `json:"payments"`
}
