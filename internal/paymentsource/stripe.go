// Package paymentsource adapts external payment processors to the settlement
// service's card rail. Records are imported verbatim, status vocabulary
// included, and normalized downstream by the ledger aggregator.
package paymentsource

import (
	"context"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"rentalworks-backend/internal/domain"
	"rentalworks-backend/internal/money"
	"rentalworks-backend/internal/service"
)

type stripeSource struct {
	api *client.API
}

// NewStripeSource builds the card-rail adapter over the Stripe API.
func NewStripeSource(apiKey string) service.CardPaymentSource {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &stripeSource{api: api}
}

// ListPayments fetches the PaymentIntents tagged with the booking id. Webhook
// verification and checkout-session creation are intentionally not handled
// here; this adapter only reads what the processor already knows.
func (s *stripeSource) ListPayments(ctx context.Context, bookingID string) ([]domain.Payment, error) {
	params := &stripe.PaymentIntentSearchParams{
		SearchParams: stripe.SearchParams{
			Query:   fmt.Sprintf("metadata['booking_id']:'%s'", bookingID),
			Context: ctx,
		},
	}

	var payments []domain.Payment
	iter := s.api.PaymentIntents.Search(params)
	for iter.Next() {
		pi := iter.PaymentIntent()
		created := time.Unix(pi.Created, 0).UTC()
		payments = append(payments, domain.Payment{
			BookingID:   bookingID,
			AmountCents: money.Cents(pi.Amount),
			Source:      domain.PaymentSourceCard,
			Status:      string(pi.Status),
			Type:        domain.PaymentTypePayment,
			Method:      "card",
			ExternalRef: pi.ID,
			ProcessedAt: &created,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to search payment intents: %w", err)
	}
	return payments, nil
}
