package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rentalworks-backend/internal/domain"
	"rentalworks-backend/internal/money"
	"rentalworks-backend/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, booking_number, customer_email, customer_name, start_date, end_date, status,
	daily_rate_cents, distance_km, base_transport_fee_cents,
	waiver_selected, waiver_rate_cents,
	COALESCE(coupon_code, ''), COALESCE(coupon_type, ''), COALESCE(coupon_value, 0), COALESCE(tax_rate_percent, 0),
	tax_override_cents, total_snapshot_cents, balance_snapshot_cents,
	cancellation_fee_cents, COALESCE(cancellation_reason, ''), cancelled_at,
	created_at, updated_at`

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (id, booking_number, customer_email, customer_name, start_date, end_date, status,
	            daily_rate_cents, distance_km, base_transport_fee_cents,
	            waiver_selected, waiver_rate_cents, coupon_code, coupon_type, coupon_value, tax_rate_percent,
	            created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULLIF($13, ''), NULLIF($14, ''), $15, $16, NOW(), NOW())
	          RETURNING created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		b.ID, b.BookingNumber, b.CustomerEmail, b.CustomerName, b.StartDate, b.EndDate, b.Status,
		b.DailyRateCents, b.DistanceKm, b.BaseTransportFeeCents,
		b.WaiverSelected, b.WaiverRateCents, b.CouponCode, string(b.CouponType), b.CouponValue, b.TaxRatePercent,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	return b, err
}

func (r *bookingRepository) UpdateBalanceSnapshot(ctx context.Context, id string, total, balance money.Cents) error {
	query := `UPDATE bookings SET total_snapshot_cents = $2, balance_snapshot_cents = $3, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, total, balance)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrBookingNotFound)
}

func (r *bookingRepository) UpdateCancellation(ctx context.Context, id string, fee money.Cents, reason string, cancelledAt time.Time) error {
	query := `UPDATE bookings SET status = $2, cancellation_fee_cents = $3, cancellation_reason = NULLIF($4, ''), cancelled_at = $5, updated_at = NOW()
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, domain.BookingStatusCancelled, fee, reason, cancelledAt)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrBookingNotFound)
}

func (r *bookingRepository) ListOpen(ctx context.Context) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status NOT IN ($1, $2) ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, domain.BookingStatusCompleted, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var couponType string
	var taxOverride, totalSnapshot, balanceSnapshot, cancellationFee sql.NullInt64
	var cancelledAt sql.NullTime
	err := row.Scan(
		&b.ID, &b.BookingNumber, &b.CustomerEmail, &b.CustomerName, &b.StartDate, &b.EndDate, &b.Status,
		&b.DailyRateCents, &b.DistanceKm, &b.BaseTransportFeeCents,
		&b.WaiverSelected, &b.WaiverRateCents,
		&b.CouponCode, &couponType, &b.CouponValue, &b.TaxRatePercent,
		&taxOverride, &totalSnapshot, &balanceSnapshot,
		&cancellationFee, &b.CancellationReason, &cancelledAt,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.CouponType = domain.CouponType(couponType)
	b.TaxOverrideCents = nullCents(taxOverride)
	b.TotalSnapshotCents = nullCents(totalSnapshot)
	b.BalanceSnapshotCents = nullCents(balanceSnapshot)
	b.CancellationFeeCents = nullCents(cancellationFee)
	if cancelledAt.Valid {
		b.CancelledAt = &cancelledAt.Time
	}
	return &b, nil
}

func nullCents(n sql.NullInt64) *money.Cents {
	if !n.Valid {
		return nil
	}
	c := money.Cents(n.Int64)
	return &c
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
