package domain

import (
	"time"

	"rentalworks-backend/internal/money"
)

type InstallmentStatus string

const (
	InstallmentStatusPending   InstallmentStatus = "pending"
	InstallmentStatusPaid      InstallmentStatus = "paid"
	InstallmentStatusCancelled InstallmentStatus = "cancelled"
	// InstallmentStatusOverdue is a derived display state only. It is never
	// persisted; see Installment.EffectiveStatus.
	InstallmentStatusOverdue InstallmentStatus = "overdue"
)

// Installment is one scheduled partial payment against a booking's
// outstanding balance.
type Installment struct {
	ID             string            `json:"id"`
	BookingID      string            `json:"booking_id"`
	Number         int               `json:"installment_number"`
	DueDate        time.Time         `json:"due_date"`
	AmountCents    money.Cents       `json:"amount_cents"`
	Status         InstallmentStatus `json:"status"`
	PaymentID      *string           `json:"payment_id,omitempty"`
	PaidAt         *time.Time        `json:"paid_at,omitempty"`
	ReminderSentAt *time.Time        `json:"reminder_sent_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// IsOverdue reports whether the installment is pending past its due date.
func (i *Installment) IsOverdue(now time.Time) bool {
	return i.Status == InstallmentStatusPending && i.DueDate.Before(now)
}

// EffectiveStatus is the status to display, substituting the derived overdue
// state for pending installments past due.
func (i *Installment) EffectiveStatus(now time.Time) InstallmentStatus {
	if i.IsOverdue(now) {
		return InstallmentStatusOverdue
	}
	return i.Status
}
