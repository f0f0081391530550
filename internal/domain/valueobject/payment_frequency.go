package valueobject

import (
	"fmt"
	"strings"
)

// PaymentFrequency is how often scheduled payments fall due.
type PaymentFrequency struct {
	value   string
	perYear int
}

var (
	PaymentMonthly   = PaymentFrequency{value: "MONTHLY", perYear: 12}
	PaymentQuarterly = PaymentFrequency{value: "QUARTERLY", perYear: 4}
	PaymentAnnually  = PaymentFrequency{value: "ANNUALLY", perYear: 1}
)

var validPaymentFrequencies = map[string]PaymentFrequency{
	PaymentMonthly.value:   PaymentMonthly,
	PaymentQuarterly.value: PaymentQuarterly,
	PaymentAnnually.value:  PaymentAnnually,
}

// NewPaymentFrequency parses a frequency name such as "MONTHLY".
func NewPaymentFrequency(s string) (PaymentFrequency, error) {
	f, ok := validPaymentFrequencies[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return PaymentFrequency{}, fmt.Errorf("invalid payment frequency: %q", s)
	}
	return f, nil
}

// PaymentFrequencyFromPerYear maps 12, 4 or 1 payments per year to a frequency.
func PaymentFrequencyFromPerYear(n int) (PaymentFrequency, error) {
	for _, f := range validPaymentFrequencies {
		if f.perYear == n {
			return f, nil
		}
	}
	return PaymentFrequency{}, fmt.Errorf("unsupported payments per year: %d", n)
}

// PaymentsPerYear returns 12, 4 or 1.
func (f PaymentFrequency) PaymentsPerYear() int {
	return f.perYear
}

// MonthsBetweenPayments returns the calendar months between two due dates.
func (f PaymentFrequency) MonthsBetweenPayments() int {
	if f.perYear == 0 {
		return 0
	}
	return 12 / f.perYear
}

// String returns the string representation of the PaymentFrequency.
func (f PaymentFrequency) String() string {
	return f.value
}

// IsZero returns true if the PaymentFrequency has not been set.
func (f PaymentFrequency) IsZero() bool {
	return f.value == ""
}

// Equal returns true if two PaymentFrequency values are equal.
func (f PaymentFrequency) Equal(other PaymentFrequency) bool {
	return f.value == other.value
}
