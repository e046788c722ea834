package billing

import (
	"fmt"
	"time"

	"rentalworks-backend/internal/domain"
	"rentalworks-backend/internal/money"
)

// ScheduleRequest carries the parameters for a new installment plan.
type ScheduleRequest struct {
	BalanceCents  money.Cents
	Count         int
	FirstDueDate  time.Time
	FrequencyDays int
}

// BuildSchedule splits an outstanding balance into an ordered installment
// plan. The per-installment amount is the balance divided evenly and rounded
// to the cent; the final installment absorbs the rounding remainder so the
// schedule sums back to the balance exactly, for any count.
//
// Due dates advance by calendar days (AddDate), not fixed 24h multiples, so
// schedules stay aligned to calendar dates across DST changes.
func BuildSchedule(req ScheduleRequest) ([]domain.Installment, error) {
	if req.BalanceCents <= 0 {
		return nil, fmt.Errorf("%w: balance must be positive, got %s", domain.ErrInvalidInstallmentRequest, req.BalanceCents)
	}
	if req.Count < 1 {
		return nil, fmt.Errorf("%w: count must be at least 1, got %d", domain.ErrInvalidInstallmentRequest, req.Count)
	}
	if req.FrequencyDays < 1 {
		return nil, fmt.Errorf("%w: frequency must be at least 1 day, got %d", domain.ErrInvalidInstallmentRequest, req.FrequencyDays)
	}
	if req.FirstDueDate.IsZero() {
		return nil, fmt.Errorf("%w: first due date is required", domain.ErrInvalidInstallmentRequest)
	}

	amounts := money.Split(req.BalanceCents, req.Count)
	installments := make([]domain.Installment, req.Count)
	for i := range installments {
		installments[i] = domain.Installment{
			Number:      i + 1,
			DueDate:     req.FirstDueDate.AddDate(0, 0, i*req.FrequencyDays),
			AmountCents: amounts[i],
			Status:      domain.InstallmentStatusPending,
		}
	}
	return installments, nil
}
