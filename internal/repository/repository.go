package repository

import (
	"context"
	"time"

	"rentalworks-backend/internal/domain"
	"rentalworks-backend/internal/money"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	// UpdateBalanceSnapshot writes the derived total/balance cache. Callers
	// must recompute from a fresh payment read immediately before calling.
	UpdateBalanceSnapshot(ctx context.Context, id string, total, balance money.Cents) error
	// UpdateCancellation transitions the booking to CANCELLED with its fee.
	UpdateCancellation(ctx context.Context, id string, fee money.Cents, reason string, cancelledAt time.Time) error
	// ListOpen returns bookings that are not yet settled, for sweep jobs.
	ListOpen(ctx context.Context) ([]domain.Booking, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	ListByBooking(ctx context.Context, bookingID string) ([]domain.Payment, error)
	UpdateStatus(ctx context.Context, id, status string, processedAt *time.Time) error
	// UpsertByExternalRef inserts a card-rail payment or refreshes the status
	// of an existing one matched on the processor's id.
	UpsertByExternalRef(ctx context.Context, payment *domain.Payment) error
}

type InstallmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Installment, error)
	ListByBooking(ctx context.Context, bookingID string) ([]domain.Installment, error)
	// ReplaceUnpaid atomically deletes the booking's non-paid installments
	// and inserts the new schedule.
	ReplaceUnpaid(ctx context.Context, bookingID string, installments []domain.Installment) error
	MarkPaid(ctx context.Context, id string, paymentID *string, paidAt time.Time) error
	MarkCancelled(ctx context.Context, id string) error
	MarkReminderSent(ctx context.Context, id string, at time.Time) error
	// ListPendingDueBefore returns pending installments past due that have
	// not had a reminder sent yet.
	ListPendingDueBefore(ctx context.Context, cutoff time.Time) ([]domain.Installment, error)
}

type LedgerRepository interface {
	// Append writes an audit entry. Ledger entries are append-only; there is
	// deliberately no update or delete.
	Append(ctx context.Context, entry *domain.LedgerEntry) error
	ListByBooking(ctx context.Context, bookingID string) ([]domain.LedgerEntry, error)
}
