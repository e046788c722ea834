package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rentalworks-backend/internal/domain"
	"rentalworks-backend/internal/repository"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, booking_id, COALESCE(payment_number, ''), amount_cents, source, status, type,
	COALESCE(method, ''), COALESCE(external_ref, ''), processed_at, created_at, updated_at`

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (id, booking_id, payment_number, amount_cents, source, status, type, method, external_ref, processed_at, created_at, updated_at)
	          VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), $10, NOW(), NOW())
	          RETURNING created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		p.ID, p.BookingID, p.PaymentNumber, p.AmountCents, p.Source, p.Status, p.Type, p.Method, p.ExternalRef, p.ProcessedAt,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPayment(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPaymentNotFound
	}
	return p, err
}

func (r *paymentRepository) ListByBooking(ctx context.Context, bookingID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id, status string, processedAt *time.Time) error {
	query := `UPDATE payments SET status = $2, processed_at = COALESCE($3, processed_at), updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, processedAt)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrPaymentNotFound)
}

func (r *paymentRepository) UpsertByExternalRef(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (id, booking_id, payment_number, amount_cents, source, status, type, method, external_ref, processed_at, created_at, updated_at)
	          VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, NULLIF($8, ''), $9, $10, NOW(), NOW())
	          ON CONFLICT (external_ref) DO UPDATE
	            SET status = EXCLUDED.status, amount_cents = EXCLUDED.amount_cents, processed_at = EXCLUDED.processed_at, updated_at = NOW()
	          RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		p.ID, p.BookingID, p.PaymentNumber, p.AmountCents, p.Source, p.Status, p.Type, p.Method, p.ExternalRef, p.ProcessedAt,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var p domain.Payment
	var processedAt sql.NullTime
	err := row.Scan(
		&p.ID, &p.BookingID, &p.PaymentNumber, &p.AmountCents, &p.Source, &p.Status, &p.Type,
		&p.Method, &p.ExternalRef, &processedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if processedAt.Valid {
		p.ProcessedAt = &processedAt.Time
	}
	return &p, nil
}
