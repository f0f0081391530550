// Package money holds the currency arithmetic shared by the amortization
// engine, the portfolio aggregates and the API serializers. Amounts are
// shopspring decimals; they are only converted to float64 at the edge.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits kept for currency amounts.
const Places int32 = 2

// Hundred is the divisor between a percent rate and a fraction.
var Hundred = decimal.NewFromInt(100)

// Round rounds d to whole cents, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Parse parses a decimal amount from its string form.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// SafeDiv divides num by den and returns zero when den is zero.
func SafeDiv(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}

// Float converts d to a float64 for JSON encoding. Callers round first.
func Float(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// FloatPtr converts an optional decimal.
func FloatPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

// FormatUSD renders d as a dollar amount with thousands separators, e.g. "$1,234.50".
func FormatUSD(d decimal.Decimal) string {
	s := Round(d).StringFixed(Places)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String() + "." + frac
}
