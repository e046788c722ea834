package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rentalworks-backend/internal/domain"
	"rentalworks-backend/internal/repository"
)

type installmentRepository struct {
	db *sql.DB
}

func NewInstallmentRepository(db *sql.DB) repository.InstallmentRepository {
	return &installmentRepository{db: db}
}

const installmentColumns = `id, booking_id, installment_number, due_date, amount_cents, status,
	payment_id, paid_at, reminder_sent_at, created_at, updated_at`

func (r *installmentRepository) GetByID(ctx context.Context, id string) (*domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE id = $1`
	inst, err := scanInstallment(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrInstallmentNotFound
	}
	return inst, err
}

func (r *installmentRepository) ListByBooking(ctx context.Context, bookingID string) ([]domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE booking_id = $1 ORDER BY installment_number`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var installments []domain.Installment
	for rows.Next() {
		inst, err := scanInstallment(rows)
		if err != nil {
			return nil, err
		}
		installments = append(installments, *inst)
	}
	return installments, rows.Err()
}

func (r *installmentRepository) ReplaceUnpaid(ctx context.Context, bookingID string, installments []domain.Installment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM installments WHERE booking_id = $1 AND status <> $2`,
		bookingID, domain.InstallmentStatusPaid)
	if err != nil {
		return err
	}

	insert := `INSERT INTO installments (id, booking_id, installment_number, due_date, amount_cents, status, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`
	for _, inst := range installments {
		if _, err := tx.ExecContext(ctx, insert,
			inst.ID, bookingID, inst.Number, inst.DueDate, inst.AmountCents, inst.Status); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *installmentRepository) MarkPaid(ctx context.Context, id string, paymentID *string, paidAt time.Time) error {
	query := `UPDATE installments SET status = $2, payment_id = $3, paid_at = $4, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, domain.InstallmentStatusPaid, paymentID, paidAt)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrInstallmentNotFound)
}

func (r *installmentRepository) MarkCancelled(ctx context.Context, id string) error {
	query := `UPDATE installments SET status = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, domain.InstallmentStatusCancelled)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrInstallmentNotFound)
}

func (r *installmentRepository) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE installments SET reminder_sent_at = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrInstallmentNotFound)
}

func (r *installmentRepository) ListPendingDueBefore(ctx context.Context, cutoff time.Time) ([]domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments
	          WHERE status = $1 AND due_date < $2 AND reminder_sent_at IS NULL
	          ORDER BY due_date`
	rows, err := r.db.QueryContext(ctx, query, domain.InstallmentStatusPending, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var installments []domain.Installment
	for rows.Next() {
		inst, err := scanInstallment(rows)
		if err != nil {
			return nil, err
		}
		installments = append(installments, *inst)
	}
	return installments, rows.Err()
}

func scanInstallment(row rowScanner) (*domain.Installment, error) {
	var inst domain.Installment
	var paymentID sql.NullString
	var paidAt, reminderSentAt sql.NullTime
	err := row.Scan(
		&inst.ID, &inst.BookingID, &inst.Number, &inst.DueDate, &inst.AmountCents, &inst.Status,
		&paymentID, &paidAt, &reminderSentAt, &inst.CreatedAt, &inst.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if paymentID.Valid {
		inst.PaymentID = &paymentID.String
	}
	if paidAt.Valid {
		inst.PaidAt = &paidAt.Time
	}
	if reminderSentAt.Valid {
		inst.ReminderSentAt = &reminderSentAt.Time
	}
	return &inst, nil
}
