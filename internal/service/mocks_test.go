package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"rentalworks-backend/internal/domain"
	"rentalworks-backend/internal/money"
)

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) UpdateBalanceSnapshot(ctx context.Context, id string, total, balance money.Cents) error {
	args := m.Called(ctx, id, total, balance)
	return args.Error(0)
}
func (m *MockBookingRepo) UpdateCancellation(ctx context.Context, id string, fee money.Cents, reason string, cancelledAt time.Time) error {
	args := m.Called(ctx, id, fee, reason, cancelledAt)
	return args.Error(0)
}
func (m *MockBookingRepo) ListOpen(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) ListByBooking(ctx context.Context, bookingID string) ([]domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) UpdateStatus(ctx context.Context, id, status string, processedAt *time.Time) error {
	args := m.Called(ctx, id, status, processedAt)
	return args.Error(0)
}
func (m *MockPaymentRepo) UpsertByExternalRef(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

// MockInstallmentRepo
type MockInstallmentRepo struct {
	mock.Mock
}

func (m *MockInstallmentRepo) GetByID(ctx context.Context, id string) (*domain.Installment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}
func (m *MockInstallmentRepo) ListByBooking(ctx context.Context, bookingID string) ([]domain.Installment, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.Installment), args.Error(1)
}
func (m *MockInstallmentRepo) ReplaceUnpaid(ctx context.Context, bookingID string, installments []domain.Installment) error {
	args := m.Called(ctx, bookingID, installments)
	return args.Error(0)
}
func (m *MockInstallmentRepo) MarkPaid(ctx context.Context, id string, paymentID *string, paidAt time.Time) error {
	args := m.Called(ctx, id, paymentID, paidAt)
	return args.Error(0)
}
func (m *MockInstallmentRepo) MarkCancelled(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockInstallmentRepo) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}
func (m *MockInstallmentRepo) ListPendingDueBefore(ctx context.Context, cutoff time.Time) ([]domain.Installment, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]domain.Installment), args.Error(1)
}

// MockLedgerRepo
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) Append(ctx context.Context, entry *domain.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockLedgerRepo) ListByBooking(ctx context.Context, bookingID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendCancellationNotification(ctx context.Context, email, name, bookingNumber, policyLabel string, fee, refund money.Cents) error {
	args := m.Called(ctx, email, name, bookingNumber, policyLabel, fee, refund)
	return args.Error(0)
}
func (m *MockEmailService) SendInstallmentReminder(ctx context.Context, email, name, bookingNumber string, number int, amount money.Cents, dueDate time.Time) error {
	args := m.Called(ctx, email, name, bookingNumber, number, amount, dueDate)
	return args.Error(0)
}
func (m *MockEmailService) SendInvoice(ctx context.Context, email, name, bookingNumber, htmlBody, textBody string) error {
	args := m.Called(ctx, email, name, bookingNumber, htmlBody, textBody)
	return args.Error(0)
}

// MockCardPaymentSource
type MockCardPaymentSource struct {
	mock.Mock
}

func (m *MockCardPaymentSource) ListPayments(ctx context.Context, bookingID string) ([]domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}
