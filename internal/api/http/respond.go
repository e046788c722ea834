package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"rentalworks-backend/internal/domain"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidBookingDates),
		errors.Is(err, domain.ErrInvalidInstallmentRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrAlreadySettled),
		errors.Is(err, domain.ErrInvalidInstallmentState):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrPaymentNotFound),
		errors.Is(err, domain.ErrInstallmentNotFound):
		status = http.StatusNotFound
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
