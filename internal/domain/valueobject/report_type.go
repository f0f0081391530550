package valueobject

import (
	"fmt"
	"strings"
)

// ReportType represents the kind of portfolio report a definition produces.
// It is an immutable value object.
type ReportType struct {
	value string
}

const (
	reportTypePortfolioSummary = "PORTFOLIO_SUMMARY"
	reportTypeMaturitySchedule = "MATURITY_SCHEDULE"
	reportTypeDebtComposition  = "DEBT_COMPOSITION"
)

var (
	ReportTypePortfolioSummary = ReportType{value: reportTypePortfolioSummary}
	ReportTypeMaturitySchedule = ReportType{value: reportTypeMaturitySchedule}
	ReportTypeDebtComposition  = ReportType{value: reportTypeDebtComposition}
)

var validReportTypes = map[string]ReportType{
	reportTypePortfolioSummary: ReportTypePortfolioSummary,
	reportTypeMaturitySchedule: ReportTypeMaturitySchedule,
	reportTypeDebtComposition:  ReportTypeDebtComposition,
}

// NewReportType creates a ReportType from a string, validating it is a known type.
func NewReportType(s string) (ReportType, error) {
	rt, ok := validReportTypes[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return ReportType{}, fmt.Errorf("invalid report type: %q", s)
	}
	return rt, nil
}

// String returns the string representation of the ReportType.
func (r ReportType) String() string {
	return r.value
}

// IsZero returns true if the ReportType has not been set.
func (r ReportType) IsZero() bool {
	return r.value == ""
}

// Equal returns true if two ReportType values are equal.
func (r ReportType) Equal(other ReportType) bool {
	return r.value == other.value
}
