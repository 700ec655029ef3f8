// Package money computes invoice amounts and formats them for display.
package money

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// StandardTaxRate is the VAT percentage applied to every invoice.
var StandardTaxRate = decimal.NewFromInt(16)

var hundred = decimal.NewFromInt(100)

// Amounts are bounded so that whole-unit conversions stay exact and the
// arithmetic stays cheap. A value of MaxAmount or more is out of range.
const (
	MaxIntegerDigits = 12
	maxExponent      = 32
)

// MaxAmount is the exclusive upper bound on amounts.
var MaxAmount = decimal.New(1, MaxIntegerDigits)

// leadingNumber matches the numeric prefix of a form value, e.g. "12.5" in "12.5kg".
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// Breakdown holds the derived figures for one invoice.
// Values are exact; rounding happens only in Formatter.
type Breakdown struct {
	Amount     decimal.Decimal `json:"amount"`
	Discount   decimal.Decimal `json:"discount"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxEnabled bool            `json:"tax_enabled"`
	TaxRate    decimal.Decimal `json:"tax_rate"`
	Tax        decimal.Decimal `json:"tax"`
	Total      decimal.Decimal `json:"total"`
}

// InRange reports whether |d| < MaxAmount. The exponent is checked before
// any comparison, since comparing rescales to a common exponent.
func InRange(d decimal.Decimal) bool {
	if exp := d.Exponent(); exp > MaxIntegerDigits || exp < -maxExponent {
		return false
	}
	return d.Abs().LessThan(MaxAmount)
}

// Parse reads a decimal from a raw form value.
// Empty, non-numeric or out-of-range input yields zero; a numeric prefix is
// honoured the same way a browser number field reports it.
func Parse(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		prefix := leadingNumber.FindString(s)
		if prefix == "" {
			return decimal.Zero
		}
		if d, err = decimal.NewFromString(prefix); err != nil {
			return decimal.Zero
		}
	}
	if !InRange(d) {
		return decimal.Zero
	}
	return d
}

// Compute turns raw amount/discount strings into a Breakdown.
// A discount larger than the amount produces a negative subtotal, which is
// carried through tax and total unchanged.
func Compute(amount, discount string, taxEnabled bool, taxRate decimal.Decimal) Breakdown {
	a := Parse(amount)
	d := Parse(discount)
	subtotal := a.Sub(d)

	tax := decimal.Zero
	if taxEnabled {
		tax = subtotal.Mul(taxRate).Div(hundred)
	}

	return Breakdown{
		Amount:     a,
		Discount:   d,
		Subtotal:   subtotal,
		TaxEnabled: taxEnabled,
		TaxRate:    taxRate,
		Tax:        tax,
		Total:      subtotal.Add(tax),
	}
}

// HasDiscount reports whether a discount line should be shown.
func (b Breakdown) HasDiscount() bool {
	return b.Discount.IsPositive()
}
