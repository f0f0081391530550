package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Monetary and rate fields of responses are float64 so that JSON carries
// numbers; values are rounded to cents before conversion.

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// ComputeScheduleRequest carries ad-hoc loan terms. PaymentsPerYear defaults to 12.
type ComputeScheduleRequest struct {
	FirstPaymentDate  *time.Time      `json:"firstPaymentDate,omitempty"`
	Principal         decimal.Decimal `json:"principal"`
	AnnualRatePercent decimal.Decimal `json:"annualRatePercent"`
	AmortizationType  string          `json:"amortizationType"`
	TermPayments      int             `json:"termPayments"`
	PaymentsPerYear   int             `json:"paymentsPerYear"`
}

// LoanRef identifies a loan within an organization.
type LoanRef struct {
	OrganizationID uuid.UUID
	LoanID         uuid.UUID
}

// LoanFilters are the query filters shared by listings, dashboards and reports.
type LoanFilters struct {
	PropertyType string `json:"propertyType,omitempty"`
	Lender       string `json:"lender,omitempty"`
	Fund         string `json:"fund,omitempty"`
}

// ListLoansRequest selects one page of an organization's loans.
type ListLoansRequest struct {
	LoanFilters
	Status         string
	Search         string
	OrganizationID uuid.UUID
	Offset         int
	Limit          int
}

// CreateLoanRequest carries a new loan. Lender and fund are resolved by name.
type CreateLoanRequest struct {
	OriginationDate    *time.Time       `json:"originationDate,omitempty"`
	MaturityDate       time.Time        `json:"maturityDate"`
	RateSpread         *decimal.Decimal `json:"rateSpread,omitempty"`
	LTV                *decimal.Decimal `json:"ltv,omitempty"`
	DSCR               *decimal.Decimal `json:"dscr,omitempty"`
	OriginalBalance    decimal.Decimal  `json:"originalBalance"`
	CurrentBalance     decimal.Decimal  `json:"currentBalance"`
	InterestRate       decimal.Decimal  `json:"interestRate"`
	LoanNumber         string           `json:"loanNumber"`
	LenderName         string           `json:"lenderName"`
	FundName           string           `json:"fundName,omitempty"`
	RateType           string           `json:"rateType,omitempty"`
	IndexType          string           `json:"indexType,omitempty"`
	AmortizationType   string           `json:"amortizationType"`
	PaymentFrequency   string           `json:"paymentFrequency"`
	Status             string           `json:"status,omitempty"`
	AmortizationPeriod int              `json:"amortizationPeriod"`
	OrganizationID     uuid.UUID        `json:"-"`
	PropertyID         uuid.UUID        `json:"propertyId"`
}

// UpdateLoanRequest carries a partial update of servicing fields.
type UpdateLoanRequest struct {
	CurrentBalance *decimal.Decimal `json:"currentBalance,omitempty"`
	InterestRate   *decimal.Decimal `json:"interestRate,omitempty"`
	Status         *string          `json:"status,omitempty"`
	LTV            *decimal.Decimal `json:"ltv,omitempty"`
	DSCR           *decimal.Decimal `json:"dscr,omitempty"`
	MaturityDate   *time.Time       `json:"maturityDate,omitempty"`
	OrganizationID uuid.UUID        `json:"-"`
	LoanID         uuid.UUID        `json:"-"`
}

// AddNoteRequest carries a new note on a loan.
type AddNoteRequest struct {
	Content        string    `json:"content"`
	AuthorName     string    `json:"-"`
	OrganizationID uuid.UUID `json:"-"`
	LoanID         uuid.UUID `json:"-"`
	AuthorID       uuid.UUID `json:"-"`
}

// EditNoteRequest carries replacement content for a note.
type EditNoteRequest struct {
	Content        string    `json:"content"`
	OrganizationID uuid.UUID `json:"-"`
	LoanID         uuid.UUID `json:"-"`
	NoteID         uuid.UUID `json:"-"`
	EditorID       uuid.UUID `json:"-"`
}

// DeleteNoteRequest identifies a note to delete and who asks for it.
type DeleteNoteRequest struct {
	OrganizationID uuid.UUID
	LoanID         uuid.UUID
	NoteID         uuid.UUID
	RequesterID    uuid.UUID
}

// GetDashboardRequest selects the loans a dashboard covers.
type GetDashboardRequest struct {
	LoanFilters
	OrganizationID uuid.UUID
}

// CreateReportRequest carries a report definition.
type CreateReportRequest struct {
	Name           string      `json:"name"`
	ReportType     string      `json:"reportType"`
	Format         string      `json:"format,omitempty"`
	Schedule       string      `json:"schedule,omitempty"`
	Filters        LoanFilters `json:"filters"`
	OrganizationID uuid.UUID   `json:"-"`
	CreatedBy      uuid.UUID   `json:"-"`
}

// RunReportRequest identifies a report to generate.
type RunReportRequest struct {
	OrganizationID uuid.UUID
	ReportID       uuid.UUID
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// ScheduleEntryResponse is one period of an amortization schedule.
type ScheduleEntryResponse struct {
	DueDate          *time.Time `json:"dueDate,omitempty"`
	Period           int        `json:"period"`
	PaymentAmount    float64    `json:"paymentAmount"`
	PrincipalPortion float64    `json:"principalPortion"`
	InterestPortion  float64    `json:"interestPortion"`
	RemainingBalance float64    `json:"remainingBalance"`
}

// ScheduleResponse is a complete amortization schedule.
type ScheduleResponse struct {
	LoanID        *uuid.UUID              `json:"loanId,omitempty"`
	Schedule      []ScheduleEntryResponse `json:"schedule"`
	PaymentCount  int                     `json:"paymentCount"`
	TotalInterest float64                 `json:"totalInterest"`
	TotalPaid     float64                 `json:"totalPaid"`
	FromCache     bool                    `json:"fromCache"`
}

// PropertyResponse describes a loan's collateral.
type PropertyResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Type string    `json:"propertyType"`
}

// CounterpartyResponse describes a lender or fund.
type CounterpartyResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// LoanResponse is the external representation of a loan.
type LoanResponse struct {
	CreatedAt          time.Time             `json:"createdAt"`
	UpdatedAt          time.Time             `json:"updatedAt"`
	MaturityDate       time.Time             `json:"maturityDate"`
	OriginationDate    *time.Time            `json:"originationDate,omitempty"`
	Fund               *CounterpartyResponse `json:"fund,omitempty"`
	RateSpread         *float64              `json:"rateSpread,omitempty"`
	LTV                *float64              `json:"ltv,omitempty"`
	DSCR               *float64              `json:"dscr,omitempty"`
	Property           PropertyResponse      `json:"property"`
	Lender             CounterpartyResponse  `json:"lender"`
	LoanNumber         string                `json:"loanNumber"`
	RateType           string                `json:"rateType"`
	IndexType          string                `json:"indexType,omitempty"`
	AmortizationType   string                `json:"amortizationType"`
	PaymentFrequency   string                `json:"paymentFrequency"`
	Status             string                `json:"status"`
	OriginalBalance    float64               `json:"originalBalance"`
	CurrentBalance     float64               `json:"currentBalance"`
	InterestRate       float64               `json:"interestRate"`
	AmortizationPeriod int                   `json:"amortizationPeriod"`
	Version            int                   `json:"version"`
	ID                 uuid.UUID             `json:"id"`
}

// LoanListResponse is one page of loans.
type LoanListResponse struct {
	Loans     []LoanResponse `json:"loans"`
	Total     int            `json:"total"`
	Offset    int            `json:"offset"`
	Limit     int            `json:"limit"`
	HasMore   bool           `json:"hasMore"`
	FromCache bool           `json:"fromCache"`
}

// NoteResponse is the external representation of a note.
type NoteResponse struct {
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Content    string    `json:"content"`
	AuthorName string    `json:"authorName,omitempty"`
	ID         uuid.UUID `json:"id"`
	LoanID     uuid.UUID `json:"loanId"`
	AuthorID   uuid.UUID `json:"authorId"`
}

// BreakdownResponse is the debt attributed to one label.
type BreakdownResponse struct {
	Label     string  `json:"label"`
	Amount    float64 `json:"amount"`
	LoanCount int     `json:"loanCount"`
}

// MaturityBucketResponse is the debt maturing in one year.
type MaturityBucketResponse struct {
	Year      int     `json:"year"`
	Amount    float64 `json:"amount"`
	LoanCount int     `json:"loanCount"`
}

// SummaryResponse is the core portfolio summary.
type SummaryResponse struct {
	StatusDistribution          map[string]int `json:"statusDistribution"`
	LoanCount                   int            `json:"loanCount"`
	TotalCurrentBalance         float64        `json:"totalCurrentBalance"`
	TotalOriginalBalance        float64        `json:"totalOriginalBalance"`
	WeightedAverageInterestRate float64        `json:"weightedAverageInterestRate"`
	AverageLoanToValue          float64        `json:"averageLoanToValue"`
}

// DashboardResponse is the portfolio dashboard.
type DashboardResponse struct {
	SummaryResponse
	DebtByPropertyType           []BreakdownResponse      `json:"debtByPropertyType"`
	DebtByLender                 []BreakdownResponse      `json:"debtByLender"`
	MaturitySchedule             []MaturityBucketResponse `json:"maturitySchedule"`
	Loans                        []LoanResponse           `json:"loans"`
	WeightedAverageMaturityYears float64                  `json:"weightedAverageMaturityYears"`
	AverageLoanSize              float64                  `json:"averageLoanSize"`
	LargestLoan                  float64                  `json:"largestLoan"`
	AverageDSCR                  float64                  `json:"averageDSCR"`
	PropertyCount                int                      `json:"propertyCount"`
	HasData                      bool                     `json:"hasData"`
	FromCache                    bool                     `json:"fromCache"`
}

// ReportMetricsResponse carries the organization-wide report figures.
type ReportMetricsResponse struct {
	TotalPortfolioValue  float64 `json:"totalPortfolioValue"`
	TotalDebt            float64 `json:"totalDebt"`
	AverageDSCR          float64 `json:"averageDSCR"`
	AverageLTV           float64 `json:"averageLTV"`
	TotalNOI             float64 `json:"totalNOI"`
	AverageOccupancyRate float64 `json:"averageOccupancyRate"`
}

// ReportCountsResponse summarizes what the organization holds.
type ReportCountsResponse struct {
	TotalLoans      int  `json:"totalLoans"`
	TotalProperties int  `json:"totalProperties"`
	SavedReports    int  `json:"savedReports"`
	HasData         bool `json:"hasData"`
}

// ReportDefinitionResponse is a saved report.
type ReportDefinitionResponse struct {
	CreatedAt   time.Time   `json:"createdAt"`
	Filters     LoanFilters `json:"filters"`
	Name        string      `json:"name"`
	ReportType  string      `json:"reportType"`
	Format      string      `json:"format"`
	Schedule    string      `json:"schedule,omitempty"`
	IsScheduled bool        `json:"isScheduled"`
	ID          uuid.UUID   `json:"id"`
	CreatedBy   uuid.UUID   `json:"createdBy"`
}

// ReportsOverviewResponse is the reports page payload.
type ReportsOverviewResponse struct {
	Reports []ReportDefinitionResponse `json:"reports"`
	Metrics ReportMetricsResponse      `json:"metrics"`
	Summary ReportCountsResponse       `json:"summary"`
}

// ReportRunResponse describes a generated artifact.
type ReportRunResponse struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Format      string    `json:"format"`
	Location    string    `json:"location"`
	SizeBytes   int       `json:"sizeBytes"`
	ID          uuid.UUID `json:"id"`
	ReportID    uuid.UUID `json:"reportId"`
}

// FileResponse is a downloadable artifact.
type FileResponse struct {
	Filename    string
	ContentType string
	Data        []byte
}
