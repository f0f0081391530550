package valueobject

import (
	"fmt"
	"strings"
)

// LoanStatus is the servicing status label of a loan. Labels are free-form
// (organizations import their own), normalized to upper case.
type LoanStatus struct {
	value string
}

var (
	LoanStatusCurrent    = LoanStatus{value: "CURRENT"}
	LoanStatusWatchlist  = LoanStatus{value: "WATCHLIST"}
	LoanStatusDelinquent = LoanStatus{value: "DELINQUENT"}
	LoanStatusDefault    = LoanStatus{value: "DEFAULT"}
	LoanStatusMatured    = LoanStatus{value: "MATURED"}
	LoanStatusPaidOff    = LoanStatus{value: "PAID_OFF"}
)

var knownLoanStatuses = map[string]struct{}{
	LoanStatusCurrent.value:    {},
	LoanStatusWatchlist.value:  {},
	LoanStatusDelinquent.value: {},
	LoanStatusDefault.value:    {},
	LoanStatusMatured.value:    {},
	LoanStatusPaidOff.value:    {},
}

// NewLoanStatus normalizes a status label. Empty labels are rejected.
func NewLoanStatus(s string) (LoanStatus, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "" {
		return LoanStatus{}, fmt.Errorf("loan status must not be empty")
	}
	v = strings.Join(strings.Fields(v), "_")
	return LoanStatus{value: v}, nil
}

// String returns the string representation of the LoanStatus.
func (s LoanStatus) String() string {
	return s.value
}

// IsZero returns true if the LoanStatus has not been set.
func (s LoanStatus) IsZero() bool {
	return s.value == ""
}

// Equal returns true if two LoanStatus values are equal.
func (s LoanStatus) Equal(other LoanStatus) bool {
	return s.value == other.value
}

// IsKnown reports whether the label is one of the built-in statuses.
func (s LoanStatus) IsKnown() bool {
	_, ok := knownLoanStatuses[s.value]
	return ok
}
