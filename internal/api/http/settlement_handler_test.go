package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpapi "rentalworks-backend/internal/api/http"
	"rentalworks-backend/internal/billing"
	"rentalworks-backend/internal/domain"
	"rentalworks-backend/internal/money"
	"rentalworks-backend/internal/render"
	"rentalworks-backend/internal/security"
)

type mockSettlement struct{ mock.Mock }

func (m *mockSettlement) GetInvoice(ctx context.Context, bookingID string) (*billing.Invoice, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}
func (m *mockSettlement) RefreshBalance(ctx context.Context, bookingID string) (*billing.Reconciliation, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Reconciliation), args.Error(1)
}
func (m *mockSettlement) QuoteCancellation(ctx context.Context, bookingID string, now time.Time) (*billing.CancellationQuote, error) {
	args := m.Called(ctx, bookingID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.CancellationQuote), args.Error(1)
}
func (m *mockSettlement) CancelBooking(ctx context.Context, bookingID, reason string, now time.Time) (*billing.CancellationQuote, error) {
	args := m.Called(ctx, bookingID, reason, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.CancellationQuote), args.Error(1)
}
func (m *mockSettlement) CreateInstallmentPlan(ctx context.Context, bookingID string, count int, firstDue time.Time, frequencyDays int) ([]domain.Installment, error) {
	args := m.Called(ctx, bookingID, count, firstDue, frequencyDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}
func (m *mockSettlement) ListInstallments(ctx context.Context, bookingID string, now time.Time) ([]domain.Installment, error) {
	args := m.Called(ctx, bookingID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}
func (m *mockSettlement) MarkInstallmentPaid(ctx context.Context, installmentID, paymentID string, paidAt time.Time) (*domain.Installment, error) {
	args := m.Called(ctx, installmentID, paymentID, paidAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}
func (m *mockSettlement) CancelInstallment(ctx context.Context, installmentID string) error {
	return m.Called(ctx, installmentID).Error(0)
}
func (m *mockSettlement) RecordManualPayment(ctx context.Context, bookingID string, amount money.Cents, method, description string, processedAt time.Time) (*domain.Payment, error) {
	args := m.Called(ctx, bookingID, amount, method, description, processedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *mockSettlement) UpdatePaymentStatus(ctx context.Context, paymentID, status string, processedAt *time.Time) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID, status, processedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *mockSettlement) ImportCardPayments(ctx context.Context, bookingID string) (int, error) {
	args := m.Called(ctx, bookingID)
	return args.Int(0), args.Error(1)
}

func newTestServer(t *testing.T, svc *mockSettlement) (*httptest.Server, string) {
	t.Helper()
	hash, err := security.HashCredential("pw")
	require.NoError(t, err)
	tokens := security.NewTokenManager("test-key", "ops", hash, time.Hour)

	htmlRend, err := render.NewHTMLRenderer("")
	require.NoError(t, err)
	handler := httpapi.NewSettlementHandler(svc, htmlRend, render.NewTextRenderer())
	router := httpapi.NewRouter(handler, httpapi.NewAuthHandler(tokens))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	token, err := tokens.Authenticate("ops", "pw")
	require.NoError(t, err)
	return srv, token
}

func doRequest(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func sampleInvoice() *billing.Invoice {
	booking := &domain.Booking{
		ID:                    "bk-1",
		BookingNumber:         "BK-1001",
		StartDate:             time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		EndDate:               time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC),
		DailyRateCents:        10000,
		DistanceKm:            10,
		BaseTransportFeeCents: 5000,
	}
	calc, _ := billing.Calculate(booking, billing.DefaultTransportRates())
	return &billing.Invoice{
		Booking:     booking,
		Calculation: calc,
		Ledger:      billing.Reconcile(calc.TotalCents, nil, nil),
	}
}

func TestGetInvoice(t *testing.T) {
	svc := new(mockSettlement)
	srv, token := newTestServer(t, svc)

	t.Run("RequiresToken", func(t *testing.T) {
		resp := doRequest(t, "GET", srv.URL+"/api/bookings/bk-1/invoice", "", "")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("JSON", func(t *testing.T) {
		svc.On("GetInvoice", mock.Anything, "bk-1").Return(sampleInvoice(), nil).Once()
		resp := doRequest(t, "GET", srv.URL+"/api/bookings/bk-1/invoice", token, "")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	})

	t.Run("HTML", func(t *testing.T) {
		svc.On("GetInvoice", mock.Anything, "bk-1").Return(sampleInvoice(), nil).Once()
		resp := doRequest(t, "GET", srv.URL+"/api/bookings/bk-1/invoice?format=html", token, "")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	})

	t.Run("NotFound", func(t *testing.T) {
		svc.On("GetInvoice", mock.Anything, "ghost").Return(nil, domain.ErrBookingNotFound).Once()
		resp := doRequest(t, "GET", srv.URL+"/api/bookings/ghost/invoice", token, "")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestCancelBooking_ErrorMapping(t *testing.T) {
	svc := new(mockSettlement)
	srv, token := newTestServer(t, svc)

	t.Run("AlreadySettledIsConflict", func(t *testing.T) {
		svc.On("CancelBooking", mock.Anything, "bk-1", "dup", mock.Anything).
			Return(nil, domain.ErrAlreadySettled).Once()
		resp := doRequest(t, "POST", srv.URL+"/api/bookings/bk-1/cancel", token, `{"reason":"dup"}`)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("Success", func(t *testing.T) {
		svc.On("CancelBooking", mock.Anything, "bk-1", "weather", mock.Anything).
			Return(&billing.CancellationQuote{FeeCents: 25000, PolicyLabel: billing.PolicyQuarterFee}, nil).Once()
		resp := doRequest(t, "POST", srv.URL+"/api/bookings/bk-1/cancel", token, `{"reason":"weather"}`)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestCreateInstallmentPlan_ErrorMapping(t *testing.T) {
	svc := new(mockSettlement)
	srv, token := newTestServer(t, svc)

	t.Run("BadRequest", func(t *testing.T) {
		svc.On("CreateInstallmentPlan", mock.Anything, "bk-1", 0, mock.Anything, 0).
			Return(nil, domain.ErrInvalidInstallmentRequest).Once()
		resp := doRequest(t, "POST", srv.URL+"/api/bookings/bk-1/installments", token, `{"count":0}`)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Created", func(t *testing.T) {
		firstDue := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
		svc.On("CreateInstallmentPlan", mock.Anything, "bk-1", 2, firstDue, 7).
			Return([]domain.Installment{{Number: 1}, {Number: 2}}, nil).Once()
		resp := doRequest(t, "POST", srv.URL+"/api/bookings/bk-1/installments", token,
			`{"count":2,"first_due_date":"2024-07-01T00:00:00Z","frequency_days":7}`)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})
}

func TestManualPaymentValidation(t *testing.T) {
	svc := new(mockSettlement)
	srv, token := newTestServer(t, svc)

	resp := doRequest(t, "POST", srv.URL+"/api/bookings/bk-1/payments/manual", token, `{"amount_cents":0}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	svc.AssertNotCalled(t, "RecordManualPayment")
}

func TestUpdatePaymentStatus(t *testing.T) {
	svc := new(mockSettlement)
	srv, token := newTestServer(t, svc)

	t.Run("RequiresStatus", func(t *testing.T) {
		resp := doRequest(t, "POST", srv.URL+"/api/payments/pay-1/status", token, `{}`)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		svc.AssertNotCalled(t, "UpdatePaymentStatus")
	})

	t.Run("Success", func(t *testing.T) {
		svc.On("UpdatePaymentStatus", mock.Anything, "pay-1", "completed", (*time.Time)(nil)).
			Return(&domain.Payment{ID: "pay-1", Status: "completed"}, nil).Once()
		resp := doRequest(t, "POST", srv.URL+"/api/payments/pay-1/status", token, `{"status":"completed"}`)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("UnknownPayment", func(t *testing.T) {
		svc.On("UpdatePaymentStatus", mock.Anything, "ghost", "failed", (*time.Time)(nil)).
			Return(nil, domain.ErrPaymentNotFound).Once()
		resp := doRequest(t, "POST", srv.URL+"/api/payments/ghost/status", token, `{"status":"failed"}`)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestAuthToken(t *testing.T) {
	svc := new(mockSettlement)
	srv, _ := newTestServer(t, svc)

	t.Run("IssuesToken", func(t *testing.T) {
		resp := doRequest(t, "POST", srv.URL+"/api/auth/token", "", `{"username":"ops","password":"pw"}`)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("RejectsBadCredential", func(t *testing.T) {
		resp := doRequest(t, "POST", srv.URL+"/api/auth/token", "", `{"username":"ops","password":"wrong"}`)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
