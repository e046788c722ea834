package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is a monetary amount in integer cents. All financial arithmetic in
// this codebase happens in cents so results are exact; decimals appear only
// at the parsing/formatting boundary and inside percentage math.
type Cents int64

// FromDecimal converts a dollar amount to cents, rounding half-up to the cent.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

// FromDollars converts a float dollar amount to cents, rounding half-up.
// Intended for boundary input only (config files, API payloads).
func FromDollars(dollars float64) Cents {
	return FromDecimal(decimal.NewFromFloat(dollars))
}

// Decimal returns the amount as a decimal dollar value.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Dollars returns the amount as a float dollar value. Display only.
func (c Cents) Dollars() float64 {
	f, _ := c.Decimal().Float64()
	return f
}

// String formats the amount as a dollar string, e.g. "$345.00" or "-$12.50".
func (c Cents) String() string {
	if c < 0 {
		return fmt.Sprintf("-$%s", (-c).Decimal().StringFixed(2))
	}
	return fmt.Sprintf("$%s", c.Decimal().StringFixed(2))
}

// Percent returns rate% of the amount, rounded half-up to the cent.
// rate is expressed in whole percent, e.g. 15 for 15%.
func (c Cents) Percent(rate decimal.Decimal) Cents {
	return FromDecimal(c.Decimal().Mul(rate).Div(decimal.NewFromInt(100)))
}

// Split divides the amount into n parts that sum exactly back to the amount.
// Parts 0..n-2 get the half-up rounded even share; the final part absorbs the
// rounding remainder.
func Split(total Cents, n int) []Cents {
	if n < 1 {
		return nil
	}
	base := FromDecimal(total.Decimal().Div(decimal.NewFromInt(int64(n))))
	parts := make([]Cents, n)
	for i := 0; i < n-1; i++ {
		parts[i] = base
	}
	parts[n-1] = total - base*Cents(n-1)
	return parts
}

// Abs returns the absolute value.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}
