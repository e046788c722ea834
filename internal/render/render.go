// Package render turns the invoice view into customer-facing documents. The
// renderers format only; every figure comes from the settlement service's
// Invoice so the web, email and text outputs can never disagree.
package render

import (
	"rentalworks-backend/internal/billing"
)

type Renderer interface {
	RenderInvoice(inv *billing.Invoice) (string, error)
}
