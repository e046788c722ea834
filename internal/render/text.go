package render

import (
	"fmt"
	"strings"

	"rentalworks-backend/internal/billing"
)

type textRenderer struct{}

// NewTextRenderer builds the plain-text invoice renderer used for email
// fallbacks and terminal output.
func NewTextRenderer() Renderer {
	return &textRenderer{}
}

func (r *textRenderer) RenderInvoice(inv *billing.Invoice) (string, error) {
	var sb strings.Builder
	line := func(label string, v fmt.Stringer) {
		fmt.Fprintf(&sb, "%-28s %12s\n", label, v)
	}

	fmt.Fprintf(&sb, "Invoice — Booking %s\n", inv.Booking.BookingNumber)
	fmt.Fprintf(&sb, "%s <%s>\n", inv.Booking.CustomerName, inv.Booking.CustomerEmail)
	fmt.Fprintf(&sb, "%s – %s (%d day(s))\n\n",
		inv.Booking.StartDate.Format("Jan 2, 2006"),
		inv.Booking.EndDate.Format("Jan 2, 2006"),
		inv.Calculation.RentalDays)

	line("Equipment rental", inv.Calculation.EquipmentSubtotalCents)
	delivery := "Delivery"
	if inv.Calculation.LongHaul {
		delivery = fmt.Sprintf("Delivery (+%.1f km)", inv.Calculation.ExtraKm)
	}
	line(delivery, inv.Calculation.DeliverySubtotalCents)
	line("Pickup", inv.Calculation.PickupSubtotalCents)
	if inv.Calculation.WaiverChargeCents > 0 {
		line("Damage waiver", inv.Calculation.WaiverChargeCents)
	}
	line("Subtotal", inv.Calculation.SubtotalBeforeDiscountCents)
	if inv.Calculation.DiscountCents > 0 {
		line("Discount", -inv.Calculation.DiscountCents)
	}
	line("Tax", inv.Calculation.TaxCents)
	line("Total", inv.Calculation.TotalCents)
	line("Paid to date", inv.Ledger.CollectedCents)
	line("Balance due", inv.Ledger.BalanceCents)

	if inv.Ledger.Overpaid {
		fmt.Fprintf(&sb, "\nOverpaid: %s received against %s total.\n",
			inv.Ledger.CollectedRawCents, inv.Calculation.TotalCents)
	}
	if inv.Ledger.Mismatch != nil {
		fmt.Fprintf(&sb, "\nWARNING: stored balance %s != computed %s\n",
			inv.Ledger.Mismatch.StoredCents, inv.Ledger.Mismatch.ComputedCents)
	}
	return sb.String(), nil
}
