package valueobject

import (
	"fmt"
	"strings"
)

// RateType distinguishes fixed-rate debt from floating-rate debt priced off an index.
type RateType struct {
	value string
}

var (
	RateTypeFixed    = RateType{value: "FIXED"}
	RateTypeFloating = RateType{value: "FLOATING"}
)

// NewRateType parses "FIXED" or "FLOATING".
func NewRateType(s string) (RateType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case RateTypeFixed.value:
		return RateTypeFixed, nil
	case RateTypeFloating.value:
		return RateTypeFloating, nil
	default:
		return RateType{}, fmt.Errorf("invalid rate type: %q", s)
	}
}

// String returns the string representation of the RateType.
func (r RateType) String() string {
	return r.value
}

// IsZero returns true if the RateType has not been set.
func (r RateType) IsZero() bool {
	return r.value == ""
}

// Equal returns true if two RateType values are equal.
func (r RateType) Equal(other RateType) bool {
	return r.value == other.value
}
