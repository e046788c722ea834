package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"rentalworks-backend/internal/money"
	"rentalworks-backend/internal/render"
	"rentalworks-backend/internal/service"
)

// SettlementHandler is the transport shim over the settlement service. No
// business math lives here; handlers decode, delegate and encode.
type SettlementHandler struct {
	svc      service.SettlementService
	htmlRend render.Renderer
	textRend render.Renderer
}

func NewSettlementHandler(svc service.SettlementService, htmlRend, textRend render.Renderer) *SettlementHandler {
	return &SettlementHandler{svc: svc, htmlRend: htmlRend, textRend: textRend}
}

func (h *SettlementHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]
	inv, err := h.svc.GetInvoice(r.Context(), bookingID)
	if err != nil {
		respondError(w, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "html":
		out, err := h.htmlRend.RenderInvoice(inv)
		if err != nil {
			respondError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(out))
	case "text":
		out, err := h.textRend.RenderInvoice(inv)
		if err != nil {
			respondError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(out))
	default:
		respondJSON(w, http.StatusOK, inv)
	}
}

// GetFinance returns the ledger view alone, for the operations panel.
func (h *SettlementHandler) GetFinance(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]
	inv, err := h.svc.GetInvoice(r.Context(), bookingID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"calculation": inv.Calculation,
		"ledger":      inv.Ledger,
		"payments":    inv.Payments,
	})
}

func (h *SettlementHandler) RefreshBalance(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]
	rec, err := h.svc.RefreshBalance(r.Context(), bookingID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (h *SettlementHandler) QuoteCancellation(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]
	q, err := h.svc.QuoteCancellation(r.Context(), bookingID, time.Now())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, q)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *SettlementHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]
	var req cancelRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	q, err := h.svc.CancelBooking(r.Context(), bookingID, req.Reason, time.Now())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, q)
}

type createPlanRequest struct {
	Count         int       `json:"count"`
	FirstDueDate  time.Time `json:"first_due_date"`
	FrequencyDays int       `json:"frequency_days"`
}

func (h *SettlementHandler) CreateInstallmentPlan(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]
	var req createPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	schedule, err := h.svc.CreateInstallmentPlan(r.Context(), bookingID, req.Count, req.FirstDueDate, req.FrequencyDays)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, schedule)
}

func (h *SettlementHandler) ListInstallments(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]
	installments, err := h.svc.ListInstallments(r.Context(), bookingID, time.Now())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, installments)
}

type payInstallmentRequest struct {
	PaymentID string     `json:"payment_id,omitempty"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}

func (h *SettlementHandler) PayInstallment(w http.ResponseWriter, r *http.Request) {
	installmentID := mux.Vars(r)["id"]
	var req payInstallmentRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	inst, err := h.svc.MarkInstallmentPaid(r.Context(), installmentID, req.PaymentID, paidAt)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, inst)
}

func (h *SettlementHandler) CancelInstallment(w http.ResponseWriter, r *http.Request) {
	installmentID := mux.Vars(r)["id"]
	if err := h.svc.CancelInstallment(r.Context(), installmentID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

type manualPaymentRequest struct {
	AmountCents money.Cents `json:"amount_cents"`
	Method      string      `json:"method"`
	Description string      `json:"description"`
	ProcessedAt *time.Time  `json:"processed_at,omitempty"`
}

func (h *SettlementHandler) RecordManualPayment(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]
	var req manualPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.AmountCents <= 0 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "amount must be positive"})
		return
	}
	processedAt := time.Now()
	if req.ProcessedAt != nil {
		processedAt = *req.ProcessedAt
	}

	p, err := h.svc.RecordManualPayment(r.Context(), bookingID, req.AmountCents, req.Method, req.Description, processedAt)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

type updatePaymentStatusRequest struct {
	Status      string     `json:"status"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

func (h *SettlementHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	paymentID := mux.Vars(r)["id"]
	var req updatePaymentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Status == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "status is required"})
		return
	}

	p, err := h.svc.UpdatePaymentStatus(r.Context(), paymentID, req.Status, req.ProcessedAt)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *SettlementHandler) ImportCardPayments(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]
	n, err := h.svc.ImportCardPayments(r.Context(), bookingID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"imported": n})
}
