package domain

import "errors"

var (
	// ErrInvalidBookingDates means the booking's start or end date is missing
	// or unparseable. Fatal to any calculation: no numeric field is ever
	// defaulted to zero in its place.
	ErrInvalidBookingDates = errors.New("invalid booking dates")

	// ErrInvalidInstallmentRequest means the schedule parameters are bad; no
	// partial schedule is created.
	ErrInvalidInstallmentRequest = errors.New("invalid installment request")

	// ErrAlreadySettled means the booking is already cancelled or completed
	// and cannot be changed.
	ErrAlreadySettled = errors.New("booking already settled")

	// ErrPaymentNotFound means a referenced payment id does not exist.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrBookingNotFound means the booking id does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInstallmentNotFound means the installment id does not exist.
	ErrInstallmentNotFound = errors.New("installment not found")

	// ErrInvalidInstallmentState means a lifecycle action was attempted on an
	// installment that is not pending.
	ErrInvalidInstallmentState = errors.New("installment is not pending")
)
