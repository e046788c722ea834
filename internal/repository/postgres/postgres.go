package postgres

import (
	"database/sql"

	"rentalworks-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.BookingRepository
	repository.PaymentRepository
	repository.InstallmentRepository
	repository.LedgerRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		BookingRepository:     NewBookingRepository(db),
		PaymentRepository:     NewPaymentRepository(db),
		InstallmentRepository: NewInstallmentRepository(db),
		LedgerRepository:      NewLedgerRepository(db),
	}
}
