package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the settlement API. Everything under /api except the token
// endpoint sits behind the admin token middleware.
func NewRouter(settlement *SettlementHandler, auth *AuthHandler) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	router.HandleFunc("/api/auth/token", auth.IssueToken).Methods("POST")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(auth.Middleware)

	api.HandleFunc("/bookings/{id}/invoice", settlement.GetInvoice).Methods("GET")
	api.HandleFunc("/bookings/{id}/finance", settlement.GetFinance).Methods("GET")
	api.HandleFunc("/bookings/{id}/balance/refresh", settlement.RefreshBalance).Methods("POST")
	api.HandleFunc("/bookings/{id}/cancellation/quote", settlement.QuoteCancellation).Methods("POST")
	api.HandleFunc("/bookings/{id}/cancel", settlement.CancelBooking).Methods("POST")
	api.HandleFunc("/bookings/{id}/installments", settlement.ListInstallments).Methods("GET")
	api.HandleFunc("/bookings/{id}/installments", settlement.CreateInstallmentPlan).Methods("POST")
	api.HandleFunc("/installments/{id}/pay", settlement.PayInstallment).Methods("POST")
	api.HandleFunc("/installments/{id}/cancel", settlement.CancelInstallment).Methods("POST")
	api.HandleFunc("/bookings/{id}/payments/manual", settlement.RecordManualPayment).Methods("POST")
	api.HandleFunc("/payments/{id}/status", settlement.UpdatePaymentStatus).Methods("POST")
	api.HandleFunc("/bookings/{id}/payments/import", settlement.ImportCardPayments).Methods("POST")

	return router
}
