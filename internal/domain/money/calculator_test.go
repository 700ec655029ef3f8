package money

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", "0"},
		{"whitespace", "   ", "0"},
		{"letters", "abc", "0"},
		{"integer", "1000", "1000"},
		{"decimal", "99.95", "99.95"},
		{"negative", "-20", "-20"},
		{"numeric prefix", "150kg", "150"},
		{"leading dot", ".5", "0.5"},
		{"padded", " 42 ", "42"},
		{"just below bound", "999999999999.99", "999999999999.99"},
		{"bound itself", "1000000000000", "0"},
		{"twenty digits", "100000000000000000000", "0"},
		{"huge exponent", "1e10000000", "0"},
		{"huger exponent", "1e100000000", "0"},
		{"tiny exponent", "1e-10000000", "0"},
		{"huge exponent prefix", "1e10000000kg", "0"},
		{"small exponent form", "1.5e3", "1500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			assert.True(t, got.Equal(dec(tt.want)), "Parse(%q) = %s, want %s", tt.raw, got, tt.want)
		})
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		discount     string
		taxEnabled   bool
		taxRate      decimal.Decimal
		wantSubtotal string
		wantTax      string
		wantTotal    string
	}{
		{
			name:         "discount with vat",
			amount:       "1000",
			discount:     "100",
			taxEnabled:   true,
			taxRate:      StandardTaxRate,
			wantSubtotal: "900",
			wantTax:      "144",
			wantTotal:    "1044",
		},
		{
			name:         "no discount no vat",
			amount:       "500",
			discount:     "",
			taxEnabled:   false,
			taxRate:      StandardTaxRate,
			wantSubtotal: "500",
			wantTax:      "0",
			wantTotal:    "500",
		},
		{
			name:         "garbage inputs",
			amount:       "abc",
			discount:     "xyz",
			taxEnabled:   true,
			taxRate:      StandardTaxRate,
			wantSubtotal: "0",
			wantTax:      "0",
			wantTotal:    "0",
		},
		{
			name:         "fractional amounts stay exact",
			amount:       "0.1",
			discount:     "0.3",
			taxEnabled:   true,
			taxRate:      StandardTaxRate,
			wantSubtotal: "-0.2",
			wantTax:      "-0.032",
			wantTotal:    "-0.232",
		},
		{
			name:         "discount larger than amount is not clamped",
			amount:       "100",
			discount:     "250",
			taxEnabled:   false,
			taxRate:      StandardTaxRate,
			wantSubtotal: "-150",
			wantTax:      "0",
			wantTotal:    "-150",
		},
		{
			name:         "custom rate",
			amount:       "200",
			discount:     "0",
			taxEnabled:   true,
			taxRate:      decimal.NewFromFloat(7.5),
			wantSubtotal: "200",
			wantTax:      "15",
			wantTotal:    "215",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Compute(tt.amount, tt.discount, tt.taxEnabled, tt.taxRate)

			assert.True(t, b.Subtotal.Equal(dec(tt.wantSubtotal)), "subtotal = %s", b.Subtotal)
			assert.True(t, b.Tax.Equal(dec(tt.wantTax)), "tax = %s", b.Tax)
			assert.True(t, b.Total.Equal(dec(tt.wantTotal)), "total = %s", b.Total)
		})
	}
}

func TestCompute_Properties(t *testing.T) {
	amounts := []string{"0", "1", "12.34", "999.99", "1000000", "0.005"}
	discounts := []string{"0", "0.01", "5", "12.34", "250"}
	rates := []decimal.Decimal{decimal.Zero, StandardTaxRate, decimal.NewFromFloat(33.3)}

	for _, a := range amounts {
		for _, d := range discounts {
			for _, rate := range rates {
				off := Compute(a, d, false, rate)
				assert.True(t, off.Subtotal.Equal(dec(a).Sub(dec(d))))
				assert.True(t, off.Tax.IsZero())
				assert.True(t, off.Total.Equal(off.Subtotal))

				on := Compute(a, d, true, rate)
				assert.True(t, on.Subtotal.Equal(off.Subtotal))
				assert.True(t, on.Tax.Equal(on.Subtotal.Mul(rate).Div(decimal.NewFromInt(100))))
				assert.True(t, on.Total.Equal(on.Subtotal.Add(on.Tax)))
			}
		}
	}
}

func TestCompute_OutOfRangeIsFast(t *testing.T) {
	f := NewFormatter("KSh", language.English)
	start := time.Now()

	for _, raw := range []string{"100000000000000000000", "1e10000000", "1e100000000", "-1e100000000"} {
		b := Compute(raw, raw, true, StandardTaxRate)
		assert.True(t, b.Total.IsZero(), "%s", raw)
		assert.Equal(t, "KSh 0", f.Display(b).Total)
	}
	assert.Less(t, time.Since(start), time.Second)
}

func TestInRange(t *testing.T) {
	assert.True(t, InRange(dec("0")))
	assert.True(t, InRange(dec("-999999999999.99")))
	assert.False(t, InRange(dec("1000000000000")))
	assert.False(t, InRange(dec("-1000000000000")))
	assert.False(t, InRange(decimal.New(1, 10000000)))
	assert.False(t, InRange(decimal.New(1, -10000000)))
}

func TestBreakdown_HasDiscount(t *testing.T) {
	assert.True(t, Compute("100", "10", false, StandardTaxRate).HasDiscount())
	assert.False(t, Compute("100", "", false, StandardTaxRate).HasDiscount())
	assert.False(t, Compute("100", "-5", false, StandardTaxRate).HasDiscount())
}

func TestFormatter_Format(t *testing.T) {
	f := NewFormatter("KSh", language.English)

	tests := []struct {
		value string
		want  string
	}{
		{"0", "KSh 0"},
		{"1044", "KSh 1,044"},
		{"1234567.49", "KSh 1,234,567"},
		{"0.5", "KSh 1"},
		{"-0.5", "KSh -1"},
		{"-1250", "KSh -1,250"},
		{"-0.4", "KSh 0"},
		{"999999999999.5", "KSh 1,000,000,000,000"},
		{"100000000000000000000", "KSh 100,000,000,000,000,000,000"},
		{"-12345678901234567890123", "KSh -12,345,678,901,234,567,890,123"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Format(dec(tt.value)))
		})
	}
}

func TestFormatter_Display(t *testing.T) {
	f := NewFormatter("KSh", language.English)

	t.Run("scenario figures", func(t *testing.T) {
		d := f.Display(Compute("1000", "100", true, StandardTaxRate))

		assert.Equal(t, "KSh 1,000", d.Amount)
		assert.Equal(t, "KSh -100", d.Discount)
		assert.Equal(t, "KSh 900", d.Subtotal)
		assert.Equal(t, "KSh 144", d.Tax)
		assert.Equal(t, "KSh 1,044", d.Total)
	})

	t.Run("printed lines add up after rounding", func(t *testing.T) {
		// subtotal 10.6 -> 11, total 12.296 -> 12, so displayed tax is 1
		b := Compute("10.6", "", true, StandardTaxRate)
		d := f.Display(b)

		assert.Equal(t, "KSh 11", d.Subtotal)
		assert.Equal(t, "KSh 1", d.Tax)
		assert.Equal(t, "KSh 12", d.Total)
		assert.True(t, b.Tax.Equal(dec("1.696")), "exact tax is preserved")
	})

	t.Run("largest amount in range", func(t *testing.T) {
		d := f.Display(Compute("999999999999", "", true, StandardTaxRate))
		assert.Equal(t, "KSh 999,999,999,999", d.Amount)
		assert.Equal(t, "KSh 1,159,999,999,999", d.Total)
	})
}

func TestNewFormatter_LocaleSeparator(t *testing.T) {
	assert.Equal(t, "KSh 1,234,567", NewFormatter("KSh", language.MustParse("en-KE")).Format(dec("1234567")))
	assert.Equal(t, "€ 1.234.567", NewFormatter("€", language.German).Format(dec("1234567")))
}
