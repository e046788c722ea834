package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rentalworks-backend/internal/billing"
	"rentalworks-backend/internal/domain"
	"rentalworks-backend/internal/logger"
	"rentalworks-backend/internal/money"
	"rentalworks-backend/internal/repository"
)

type settlementService struct {
	bookingRepo     repository.BookingRepository
	paymentRepo     repository.PaymentRepository
	installmentRepo repository.InstallmentRepository
	ledgerRepo      repository.LedgerRepository
	emailSvc        EmailService
	cardSource      CardPaymentSource
	rates           billing.TransportRates
}

func NewSettlementService(
	bookingRepo repository.BookingRepository,
	paymentRepo repository.PaymentRepository,
	installmentRepo repository.InstallmentRepository,
	ledgerRepo repository.LedgerRepository,
	emailSvc EmailService,
	cardSource CardPaymentSource,
	rates billing.TransportRates,
) SettlementService {
	return &settlementService{
		bookingRepo:     bookingRepo,
		paymentRepo:     paymentRepo,
		installmentRepo: installmentRepo,
		ledgerRepo:      ledgerRepo,
		emailSvc:        emailSvc,
		cardSource:      cardSource,
		rates:           rates,
	}
}

func (s *settlementService) GetInvoice(ctx context.Context, bookingID string) (*billing.Invoice, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	calc, err := billing.Calculate(booking, s.rates)
	if err != nil {
		return nil, err
	}
	rec := billing.Reconcile(calc.TotalCents, payments, booking.BalanceSnapshotCents)
	if rec.Mismatch != nil {
		logger.WarnContext(ctx, "stored balance disagrees with recomputed balance",
			"booking_id", bookingID,
			"stored_cents", rec.Mismatch.StoredCents,
			"computed_cents", rec.Mismatch.ComputedCents)
	}

	return &billing.Invoice{
		Booking:     booking,
		Calculation: calc,
		Ledger:      rec,
		Payments:    payments,
	}, nil
}

// RefreshBalance follows read-then-compute-then-write: payments are read
// fresh, the balance recomputed, and only then the snapshot written, so the
// cache can go stale but never wrong from interleaved writes.
func (s *settlementService) RefreshBalance(ctx context.Context, bookingID string) (*billing.Reconciliation, error) {
	inv, err := s.GetInvoice(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	err = s.bookingRepo.UpdateBalanceSnapshot(ctx, bookingID, inv.Calculation.TotalCents, inv.Ledger.BalanceCents)
	if err != nil {
		return nil, err
	}
	return &inv.Ledger, nil
}

func (s *settlementService) QuoteCancellation(ctx context.Context, bookingID string, now time.Time) (*billing.CancellationQuote, error) {
	booking, inv, err := s.cancellableInvoice(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	q := billing.QuoteCancellation(now, booking.StartDate, inv.Calculation.TotalCents, inv.Ledger.CollectedRawCents)
	return &q, nil
}

func (s *settlementService) CancelBooking(ctx context.Context, bookingID, reason string, now time.Time) (*billing.CancellationQuote, error) {
	booking, inv, err := s.cancellableInvoice(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	// The refund quote sees the uncapped collected sum so an overpayment is
	// returned in full, not clipped at the invoice total.
	q := billing.QuoteCancellation(now, booking.StartDate, inv.Calculation.TotalCents, inv.Ledger.CollectedRawCents)

	if err := s.bookingRepo.UpdateCancellation(ctx, bookingID, q.FeeCents, reason, now); err != nil {
		return nil, err
	}
	entry := &domain.LedgerEntry{
		ID:          uuid.NewString(),
		BookingID:   bookingID,
		Type:        domain.LedgerEntryTypeFeeAssessed,
		AmountCents: q.FeeCents,
		Description: fmt.Sprintf("Cancellation fee (%s), refund due %s", q.PolicyLabel, q.RefundCents),
	}
	if err := s.ledgerRepo.Append(ctx, entry); err != nil {
		return nil, err
	}

	if booking.CustomerEmail != "" {
		if err := s.emailSvc.SendCancellationNotification(ctx,
			booking.CustomerEmail, booking.CustomerName, booking.BookingNumber,
			q.PolicyLabel, q.FeeCents, q.RefundCents); err != nil {
			logger.WarnContext(ctx, "cancellation email failed", "booking_id", bookingID, "error", err)
		}
	}
	return &q, nil
}

// cancellableInvoice loads the invoice view and rejects bookings already in a
// terminal state.
func (s *settlementService) cancellableInvoice(ctx context.Context, bookingID string) (*domain.Booking, *billing.Invoice, error) {
	inv, err := s.GetInvoice(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if inv.Booking.Status.IsTerminal() {
		return nil, nil, fmt.Errorf("%w: booking %s is %s", domain.ErrAlreadySettled, bookingID, inv.Booking.Status)
	}
	return inv.Booking, inv, nil
}

// CreateInstallmentPlan recomputes the outstanding balance fresh, never from
// the snapshot, then replaces any non-paid installments with the new schedule.
func (s *settlementService) CreateInstallmentPlan(ctx context.Context, bookingID string, count int, firstDue time.Time, frequencyDays int) ([]domain.Installment, error) {
	_, inv, err := s.cancellableInvoice(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	schedule, err := billing.BuildSchedule(billing.ScheduleRequest{
		BalanceCents:  inv.Ledger.BalanceCents,
		Count:         count,
		FirstDueDate:  firstDue,
		FrequencyDays: frequencyDays,
	})
	if err != nil {
		return nil, err
	}
	for i := range schedule {
		schedule[i].ID = uuid.NewString()
		schedule[i].BookingID = bookingID
	}
	if err := s.installmentRepo.ReplaceUnpaid(ctx, bookingID, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (s *settlementService) ListInstallments(ctx context.Context, bookingID string, now time.Time) ([]domain.Installment, error) {
	if _, err := s.bookingRepo.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}
	installments, err := s.installmentRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	for i := range installments {
		installments[i].Status = installments[i].EffectiveStatus(now)
	}
	return installments, nil
}

func (s *settlementService) MarkInstallmentPaid(ctx context.Context, installmentID, paymentID string, paidAt time.Time) (*domain.Installment, error) {
	inst, err := s.installmentRepo.GetByID(ctx, installmentID)
	if err != nil {
		return nil, err
	}
	if inst.Status != domain.InstallmentStatusPending {
		return nil, fmt.Errorf("%w: installment %s is %s", domain.ErrInvalidInstallmentState, installmentID, inst.Status)
	}

	var paymentRef *string
	if paymentID != "" {
		if _, err := s.paymentRepo.GetByID(ctx, paymentID); err != nil {
			return nil, err
		}
		paymentRef = &paymentID
	}
	if err := s.installmentRepo.MarkPaid(ctx, installmentID, paymentRef, paidAt); err != nil {
		return nil, err
	}

	inst.Status = domain.InstallmentStatusPaid
	inst.PaymentID = paymentRef
	inst.PaidAt = &paidAt
	return inst, nil
}

func (s *settlementService) CancelInstallment(ctx context.Context, installmentID string) error {
	inst, err := s.installmentRepo.GetByID(ctx, installmentID)
	if err != nil {
		return err
	}
	if inst.Status == domain.InstallmentStatusPaid {
		return fmt.Errorf("%w: installment %s already paid", domain.ErrInvalidInstallmentState, installmentID)
	}
	return s.installmentRepo.MarkCancelled(ctx, installmentID)
}

func (s *settlementService) RecordManualPayment(ctx context.Context, bookingID string, amount money.Cents, method, description string, processedAt time.Time) (*domain.Payment, error) {
	if _, err := s.bookingRepo.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}

	p := &domain.Payment{
		ID:          uuid.NewString(),
		BookingID:   bookingID,
		AmountCents: amount,
		Source:      domain.PaymentSourceManual,
		Status:      "completed",
		Type:        domain.PaymentTypePayment,
		Method:      method,
		ProcessedAt: &processedAt,
	}
	if err := s.paymentRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	entry := &domain.LedgerEntry{
		ID:          uuid.NewString(),
		BookingID:   bookingID,
		Type:        domain.LedgerEntryTypePaymentReceived,
		Source:      string(domain.PaymentSourceManual),
		AmountCents: amount,
		Description: description,
	}
	if err := s.ledgerRepo.Append(ctx, entry); err != nil {
		return nil, err
	}

	if _, err := s.RefreshBalance(ctx, bookingID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *settlementService) UpdatePaymentStatus(ctx context.Context, paymentID, status string, processedAt *time.Time) (*domain.Payment, error) {
	p, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if err := s.paymentRepo.UpdateStatus(ctx, paymentID, status, processedAt); err != nil {
		return nil, err
	}

	entry := &domain.LedgerEntry{
		ID:          uuid.NewString(),
		BookingID:   p.BookingID,
		Type:        domain.LedgerEntryTypeAdjustment,
		Source:      string(p.Source),
		AmountCents: p.AmountCents,
		Description: fmt.Sprintf("Payment %s status corrected from %q to %q", paymentID, p.Status, status),
	}
	if err := s.ledgerRepo.Append(ctx, entry); err != nil {
		return nil, err
	}

	p.Status = status
	if processedAt != nil {
		p.ProcessedAt = processedAt
	}
	if _, err := s.RefreshBalance(ctx, p.BookingID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *settlementService) ImportCardPayments(ctx context.Context, bookingID string) (int, error) {
	if _, err := s.bookingRepo.GetByID(ctx, bookingID); err != nil {
		return 0, err
	}

	records, err := s.cardSource.ListPayments(ctx, bookingID)
	if err != nil {
		return 0, err
	}
	for i := range records {
		p := &records[i]
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		p.BookingID = bookingID
		p.Source = domain.PaymentSourceCard
		if err := s.paymentRepo.UpsertByExternalRef(ctx, p); err != nil {
			return 0, err
		}
	}

	if len(records) > 0 {
		if _, err := s.RefreshBalance(ctx, bookingID); err != nil {
			return 0, err
		}
	}
	return len(records), nil
}
