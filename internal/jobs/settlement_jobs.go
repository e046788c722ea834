package jobs

import (
	"context"
	"time"

	"rentalworks-backend/internal/logger"
)

// SendInstallmentReminders emails customers whose installments are past due
// and have not been reminded yet, stamping reminder_sent_at so each
// installment is reminded at most once.
func (jr *JobRunner) SendInstallmentReminders() {
	jr.runWithRecovery("SendInstallmentReminders", func() {
		ctx := context.Background()
		now := time.Now().UTC()

		overdue, err := jr.installmentRepo.ListPendingDueBefore(ctx, now)
		if err != nil {
			logger.Error("Failed to list overdue installments", "error", err)
			return
		}

		sent := 0
		for _, inst := range overdue {
			booking, err := jr.bookingRepo.GetByID(ctx, inst.BookingID)
			if err != nil {
				logger.Error("Failed to load booking for reminder",
					"installment_id", inst.ID, "booking_id", inst.BookingID, "error", err)
				continue
			}
			if booking.CustomerEmail == "" {
				continue
			}

			err = jr.email.SendInstallmentReminder(ctx,
				booking.CustomerEmail, booking.CustomerName, booking.BookingNumber,
				inst.Number, inst.AmountCents, inst.DueDate)
			if err != nil {
				logger.Error("Failed to send installment reminder",
					"installment_id", inst.ID, "error", err)
				continue
			}
			if err := jr.installmentRepo.MarkReminderSent(ctx, inst.ID, now); err != nil {
				logger.Error("Failed to stamp reminder",
					"installment_id", inst.ID, "error", err)
				continue
			}
			sent++
		}

		logger.Info("Installment reminders processed", "overdue", len(overdue), "sent", sent)
	})
}

// RefreshBalances sweeps open bookings and rewrites their balance snapshots
// from a fresh payment read. Mismatches are logged inside the service.
func (jr *JobRunner) RefreshBalances() {
	jr.runWithRecovery("RefreshBalances", func() {
		ctx := context.Background()

		bookings, err := jr.bookingRepo.ListOpen(ctx)
		if err != nil {
			logger.Error("Failed to list open bookings", "error", err)
			return
		}

		refreshed := 0
		for _, b := range bookings {
			if _, err := jr.settlement.RefreshBalance(ctx, b.ID); err != nil {
				logger.Error("Failed to refresh balance", "booking_id", b.ID, "error", err)
				continue
			}
			refreshed++
		}

		logger.Info("Balance snapshots refreshed", "bookings", len(bookings), "refreshed", refreshed)
	})
}
