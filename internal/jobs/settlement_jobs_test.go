package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"rentalworks-backend/internal/billing"
	"rentalworks-backend/internal/config"
	"rentalworks-backend/internal/domain"
	"rentalworks-backend/internal/jobs"
	"rentalworks-backend/internal/money"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *mockBookingRepo) UpdateBalanceSnapshot(ctx context.Context, id string, total, balance money.Cents) error {
	return m.Called(ctx, id, total, balance).Error(0)
}
func (m *mockBookingRepo) UpdateCancellation(ctx context.Context, id string, fee money.Cents, reason string, cancelledAt time.Time) error {
	return m.Called(ctx, id, fee, reason, cancelledAt).Error(0)
}
func (m *mockBookingRepo) ListOpen(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type mockInstallmentRepo struct{ mock.Mock }

func (m *mockInstallmentRepo) GetByID(ctx context.Context, id string) (*domain.Installment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}
func (m *mockInstallmentRepo) ListByBooking(ctx context.Context, bookingID string) ([]domain.Installment, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.Installment), args.Error(1)
}
func (m *mockInstallmentRepo) ReplaceUnpaid(ctx context.Context, bookingID string, installments []domain.Installment) error {
	return m.Called(ctx, bookingID, installments).Error(0)
}
func (m *mockInstallmentRepo) MarkPaid(ctx context.Context, id string, paymentID *string, paidAt time.Time) error {
	return m.Called(ctx, id, paymentID, paidAt).Error(0)
}
func (m *mockInstallmentRepo) MarkCancelled(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockInstallmentRepo) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}
func (m *mockInstallmentRepo) ListPendingDueBefore(ctx context.Context, cutoff time.Time) ([]domain.Installment, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]domain.Installment), args.Error(1)
}

type mockSettlement struct{ mock.Mock }

func (m *mockSettlement) GetInvoice(ctx context.Context, bookingID string) (*billing.Invoice, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}
func (m *mockSettlement) RefreshBalance(ctx context.Context, bookingID string) (*billing.Reconciliation, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Reconciliation), args.Error(1)
}
func (m *mockSettlement) QuoteCancellation(ctx context.Context, bookingID string, now time.Time) (*billing.CancellationQuote, error) {
	args := m.Called(ctx, bookingID, now)
	return args.Get(0).(*billing.CancellationQuote), args.Error(1)
}
func (m *mockSettlement) CancelBooking(ctx context.Context, bookingID, reason string, now time.Time) (*billing.CancellationQuote, error) {
	args := m.Called(ctx, bookingID, reason, now)
	return args.Get(0).(*billing.CancellationQuote), args.Error(1)
}
func (m *mockSettlement) CreateInstallmentPlan(ctx context.Context, bookingID string, count int, firstDue time.Time, frequencyDays int) ([]domain.Installment, error) {
	args := m.Called(ctx, bookingID, count, firstDue, frequencyDays)
	return args.Get(0).([]domain.Installment), args.Error(1)
}
func (m *mockSettlement) ListInstallments(ctx context.Context, bookingID string, now time.Time) ([]domain.Installment, error) {
	args := m.Called(ctx, bookingID, now)
	return args.Get(0).([]domain.Installment), args.Error(1)
}
func (m *mockSettlement) MarkInstallmentPaid(ctx context.Context, installmentID, paymentID string, paidAt time.Time) (*domain.Installment, error) {
	args := m.Called(ctx, installmentID, paymentID, paidAt)
	return args.Get(0).(*domain.Installment), args.Error(1)
}
func (m *mockSettlement) CancelInstallment(ctx context.Context, installmentID string) error {
	return m.Called(ctx, installmentID).Error(0)
}
func (m *mockSettlement) RecordManualPayment(ctx context.Context, bookingID string, amount money.Cents, method, description string, processedAt time.Time) (*domain.Payment, error) {
	args := m.Called(ctx, bookingID, amount, method, description, processedAt)
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *mockSettlement) UpdatePaymentStatus(ctx context.Context, paymentID, status string, processedAt *time.Time) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID, status, processedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *mockSettlement) ImportCardPayments(ctx context.Context, bookingID string) (int, error) {
	args := m.Called(ctx, bookingID)
	return args.Int(0), args.Error(1)
}

type mockEmail struct{ mock.Mock }

func (m *mockEmail) SendCancellationNotification(ctx context.Context, email, name, bookingNumber, policyLabel string, fee, refund money.Cents) error {
	return m.Called(ctx, email, name, bookingNumber, policyLabel, fee, refund).Error(0)
}
func (m *mockEmail) SendInstallmentReminder(ctx context.Context, email, name, bookingNumber string, number int, amount money.Cents, dueDate time.Time) error {
	return m.Called(ctx, email, name, bookingNumber, number, amount, dueDate).Error(0)
}
func (m *mockEmail) SendInvoice(ctx context.Context, email, name, bookingNumber, htmlBody, textBody string) error {
	return m.Called(ctx, email, name, bookingNumber, htmlBody, textBody).Error(0)
}

func TestSendInstallmentReminders(t *testing.T) {
	bookingRepo := new(mockBookingRepo)
	installmentRepo := new(mockInstallmentRepo)
	settlement := new(mockSettlement)
	email := new(mockEmail)
	runner := jobs.NewJobRunner(bookingRepo, installmentRepo, settlement, email, &config.Config{})

	due := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	overdue := []domain.Installment{
		{ID: "in-1", BookingID: "bk-1", Number: 1, AmountCents: 7250, DueDate: due, Status: domain.InstallmentStatusPending},
		{ID: "in-2", BookingID: "bk-2", Number: 2, AmountCents: 5000, DueDate: due, Status: domain.InstallmentStatusPending},
	}
	installmentRepo.On("ListPendingDueBefore", mock.Anything, mock.Anything).Return(overdue, nil).Once()

	bookingRepo.On("GetByID", mock.Anything, "bk-1").Return(&domain.Booking{
		ID: "bk-1", BookingNumber: "BK-1001", CustomerEmail: "a@example.com", CustomerName: "A",
	}, nil).Once()
	// The second booking fails to load; the job continues with the rest.
	bookingRepo.On("GetByID", mock.Anything, "bk-2").Return(nil, errors.New("connection reset")).Once()

	email.On("SendInstallmentReminder", mock.Anything, "a@example.com", "A", "BK-1001",
		1, money.Cents(7250), due).Return(nil).Once()
	installmentRepo.On("MarkReminderSent", mock.Anything, "in-1", mock.Anything).Return(nil).Once()

	runner.SendInstallmentReminders()

	email.AssertExpectations(t)
	installmentRepo.AssertExpectations(t)
	installmentRepo.AssertNotCalled(t, "MarkReminderSent", mock.Anything, "in-2", mock.Anything)
}

func TestRefreshBalances(t *testing.T) {
	bookingRepo := new(mockBookingRepo)
	installmentRepo := new(mockInstallmentRepo)
	settlement := new(mockSettlement)
	email := new(mockEmail)
	runner := jobs.NewJobRunner(bookingRepo, installmentRepo, settlement, email, &config.Config{})

	bookingRepo.On("ListOpen", mock.Anything).Return([]domain.Booking{
		{ID: "bk-1"}, {ID: "bk-2"},
	}, nil).Once()
	settlement.On("RefreshBalance", mock.Anything, "bk-1").Return(&billing.Reconciliation{}, nil).Once()
	// One booking failing does not stop the sweep.
	settlement.On("RefreshBalance", mock.Anything, "bk-2").Return(nil, errors.New("bad dates")).Once()

	runner.RefreshBalances()
	settlement.AssertExpectations(t)
}
