package valueobject

import (
	"fmt"
	"strings"
)

// AmortizationType describes how principal is repaid over the loan term.
// It is an immutable value object.
type AmortizationType struct {
	value string
}

const (
	amortizationFullyAmortizing = "FULLY_AMORTIZING"
	amortizationInterestOnly    = "INTEREST_ONLY"
)

var (
	AmortizationFullyAmortizing = AmortizationType{value: amortizationFullyAmortizing}
	AmortizationInterestOnly    = AmortizationType{value: amortizationInterestOnly}
)

var validAmortizationTypes = map[string]AmortizationType{
	amortizationFullyAmortizing: AmortizationFullyAmortizing,
	amortizationInterestOnly:    AmortizationInterestOnly,
}

// NewAmortizationType parses an amortization type, ignoring case and surrounding space.
func NewAmortizationType(s string) (AmortizationType, error) {
	at, ok := validAmortizationTypes[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return AmortizationType{}, fmt.Errorf("invalid amortization type: %q", s)
	}
	return at, nil
}

// String returns the string representation of the AmortizationType.
func (a AmortizationType) String() string {
	return a.value
}

// IsZero returns true if the AmortizationType has not been set.
func (a AmortizationType) IsZero() bool {
	return a.value == ""
}

// Equal returns true if two AmortizationType values are equal.
func (a AmortizationType) Equal(other AmortizationType) bool {
	return a.value == other.value
}

// IsInterestOnly reports whether no principal is repaid during the term.
func (a AmortizationType) IsInterestOnly() bool {
	return a.value == amortizationInterestOnly
}
