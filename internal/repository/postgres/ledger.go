package postgres

import (
	"context"
	"database/sql"

	"rentalworks-backend/internal/domain"
	"rentalworks-backend/internal/repository"
)

type ledgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Append(ctx context.Context, entry *domain.LedgerEntry) error {
	query := `INSERT INTO ledger_entries (id, booking_id, type, source, amount_cents, description, created_at)
	          VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NOW())
	          RETURNING created_at`
	return r.db.QueryRowContext(ctx, query,
		entry.ID, entry.BookingID, entry.Type, entry.Source, entry.AmountCents, entry.Description,
	).Scan(&entry.CreatedAt)
}

func (r *ledgerRepository) ListByBooking(ctx context.Context, bookingID string) ([]domain.LedgerEntry, error) {
	query := `SELECT id, booking_id, type, COALESCE(source, ''), amount_cents, description, created_at
	          FROM ledger_entries WHERE booking_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(&e.ID, &e.BookingID, &e.Type, &e.Source, &e.AmountCents, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
