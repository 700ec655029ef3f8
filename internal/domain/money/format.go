package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders amounts as "<symbol> <grouped whole units>".
// It is the only place where amounts are rounded.
type Formatter struct {
	symbol    string
	separator string
}

// NewFormatter creates a formatter for the given currency symbol and locale.
// The locale decides the thousands separator.
func NewFormatter(symbol string, locale language.Tag) *Formatter {
	sample := message.NewPrinter(locale).Sprintf("%d", 1000)
	return &Formatter{
		symbol:    symbol,
		separator: strings.TrimSuffix(strings.TrimPrefix(sample, "1"), "000"),
	}
}

// Format rounds v to the nearest whole unit (half away from zero) and
// groups thousands per the formatter's locale. Negative values keep the
// symbol in front: "KSh -1,250". Digits are grouped from the decimal string,
// so no magnitude is truncated.
func (f *Formatter) Format(v decimal.Decimal) string {
	digits := v.Round(0).String()
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	return f.symbol + " " + sign + f.group(digits)
}

func (f *Formatter) group(digits string) string {
	if len(digits) <= 3 || f.separator == "" {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(f.separator)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Display is the rounded, formatted view of a Breakdown.
type Display struct {
	Amount   string `json:"amount"`
	Discount string `json:"discount"`
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

// Display formats every figure of b. Tax is displayed as the difference of
// the rounded total and rounded subtotal so that the printed lines always add
// up; the underlying Breakdown keeps the exact values.
func (f *Formatter) Display(b Breakdown) Display {
	subtotal := b.Subtotal.Round(0)
	total := b.Total.Round(0)

	return Display{
		Amount:   f.Format(b.Amount),
		Discount: f.Format(b.Discount.Neg()),
		Subtotal: f.Format(subtotal),
		Tax:      f.Format(total.Sub(subtotal)),
		Total:    f.Format(total),
	}
}
