package service

import (
	"context"
	"time"

	"rentalworks-backend/internal/billing"
	"rentalworks-backend/internal/domain"
	"rentalworks-backend/internal/money"
)

type SettlementService interface {
	// GetInvoice recomputes the invoice and ledger view from stored booking
	// attributes and payments. Single source of truth for every renderer.
	GetInvoice(ctx context.Context, bookingID string) (*billing.Invoice, error)
	// RefreshBalance recomputes the booking's total and outstanding balance
	// and persists them as snapshots.
	RefreshBalance(ctx context.Context, bookingID string) (*billing.Reconciliation, error)

	QuoteCancellation(ctx context.Context, bookingID string, now time.Time) (*billing.CancellationQuote, error)
	CancelBooking(ctx context.Context, bookingID, reason string, now time.Time) (*billing.CancellationQuote, error)

	CreateInstallmentPlan(ctx context.Context, bookingID string, count int, firstDue time.Time, frequencyDays int) ([]domain.Installment, error)
	ListInstallments(ctx context.Context, bookingID string, now time.Time) ([]domain.Installment, error)
	MarkInstallmentPaid(ctx context.Context, installmentID, paymentID string, paidAt time.Time) (*domain.Installment, error)
	CancelInstallment(ctx context.Context, installmentID string) error

	RecordManualPayment(ctx context.Context, bookingID string, amount money.Cents, method, description string, processedAt time.Time) (*domain.Payment, error)
	// UpdatePaymentStatus corrects a payment's status after the fact (an
	// e-transfer that bounced, a pending payment later confirmed), leaves an
	// adjustment entry on the audit ledger and refreshes the balance cache.
	UpdatePaymentStatus(ctx context.Context, paymentID, status string, processedAt *time.Time) (*domain.Payment, error)
	// ImportCardPayments pulls the processor's records for the booking and
	// upserts them on the card rail. Returns the number of records imported.
	ImportCardPayments(ctx context.Context, bookingID string) (int, error)
}

// CardPaymentSource fetches payment records from the card processor.
type CardPaymentSource interface {
	ListPayments(ctx context.Context, bookingID string) ([]domain.Payment, error)
}

type EmailService interface {
	SendCancellationNotification(ctx context.Context, email, name, bookingNumber, policyLabel string, fee, refund money.Cents) error
	SendInstallmentReminder(ctx context.Context, email, name, bookingNumber string, number int, amount money.Cents, dueDate time.Time) error
	SendInvoice(ctx context.Context, email, name, bookingNumber, htmlBody, textBody string) error
}
