package render

import (
	"fmt"
	"html/template"
	"strings"

	"rentalworks-backend/internal/billing"
)

type htmlRenderer struct {
	tmpl    *template.Template
	logoURL string
}

// NewHTMLRenderer builds the HTML invoice renderer. logoURL comes from config
// and may be empty, in which case the header carries the company name only.
func NewHTMLRenderer(logoURL string) (Renderer, error) {
	tmpl, err := template.New("invoice").Parse(invoiceTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice template: %w", err)
	}
	return &htmlRenderer{tmpl: tmpl, logoURL: logoURL}, nil
}

type invoiceView struct {
	LogoURL   string
	Inv       *billing.Invoice
	DateRange string
	Warning   string
}

func (r *htmlRenderer) RenderInvoice(inv *billing.Invoice) (string, error) {
	view := invoiceView{
		LogoURL: r.logoURL,
		Inv:     inv,
		DateRange: fmt.Sprintf("%s – %s",
			inv.Booking.StartDate.Format("Jan 2, 2006"),
			inv.Booking.EndDate.Format("Jan 2, 2006")),
	}
	if inv.Ledger.Mismatch != nil {
		view.Warning = fmt.Sprintf("Stored balance %s disagrees with the computed balance %s.",
			inv.Ledger.Mismatch.StoredCents, inv.Ledger.Mismatch.ComputedCents)
	}

	var sb strings.Builder
	if err := r.tmpl.Execute(&sb, view); err != nil {
		return "", fmt.Errorf("failed to render invoice: %w", err)
	}
	return sb.String(), nil
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Invoice {{.Inv.Booking.BookingNumber}}</title></head>
<body style="font-family: sans-serif; max-width: 640px; margin: 0 auto;">
  {{if .LogoURL}}<img src="{{.LogoURL}}" alt="logo" style="max-height: 60px;">{{end}}
  <h1>Invoice — Booking {{.Inv.Booking.BookingNumber}}</h1>
  <p>{{.Inv.Booking.CustomerName}} &lt;{{.Inv.Booking.CustomerEmail}}&gt;<br>{{.DateRange}} ({{.Inv.Calculation.RentalDays}} day(s))</p>
  <table width="100%" cellpadding="4">
    <tr><td>Equipment rental</td><td align="right">{{.Inv.Calculation.EquipmentSubtotalCents}}</td></tr>
    <tr><td>Delivery{{if .Inv.Calculation.LongHaul}} (long haul, {{printf "%.1f" .Inv.Calculation.ExtraKm}} km extra){{end}}</td><td align="right">{{.Inv.Calculation.DeliverySubtotalCents}}</td></tr>
    <tr><td>Pickup</td><td align="right">{{.Inv.Calculation.PickupSubtotalCents}}</td></tr>
    {{if .Inv.Calculation.WaiverChargeCents}}<tr><td>Damage waiver</td><td align="right">{{.Inv.Calculation.WaiverChargeCents}}</td></tr>{{end}}
    <tr><td><strong>Subtotal</strong></td><td align="right">{{.Inv.Calculation.SubtotalBeforeDiscountCents}}</td></tr>
    {{if .Inv.Calculation.DiscountCents}}<tr><td>Discount{{if .Inv.Booking.CouponCode}} ({{.Inv.Booking.CouponCode}}){{end}}</td><td align="right">-{{.Inv.Calculation.DiscountCents}}</td></tr>{{end}}
    <tr><td>Tax{{if .Inv.Calculation.TaxOverridden}} (as invoiced){{end}}</td><td align="right">{{.Inv.Calculation.TaxCents}}</td></tr>
    <tr><td><strong>Total</strong></td><td align="right"><strong>{{.Inv.Calculation.TotalCents}}</strong></td></tr>
    <tr><td>Paid to date</td><td align="right">{{.Inv.Ledger.CollectedCents}}</td></tr>
    <tr><td><strong>Balance due</strong></td><td align="right"><strong>{{.Inv.Ledger.BalanceCents}}</strong></td></tr>
  </table>
  {{if .Inv.Ledger.Overpaid}}<p><em>This booking is overpaid ({{.Inv.Ledger.CollectedRawCents}} received).</em></p>{{end}}
  {{if .Warning}}<p style="color: #b00;">{{.Warning}}</p>{{end}}
</body>
</html>
`
