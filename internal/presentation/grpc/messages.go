package grpc

// ComputeScheduleRequest carries ad-hoc loan terms. Amounts are decimal
// strings; first_payment_date is YYYY-MM-DD.
type ComputeScheduleRequest struct {
	Principal         string `json:"principal"`
	AnnualRatePercent string `json:"annual_rate_percent"`
	AmortizationType  string `json:"amortization_type"`
	FirstPaymentDate  string `json:"first_payment_date,omitempty"`
	TermPayments      int32  `json:"term_payments"`
	PaymentsPerYear   int32  `json:"payments_per_year"`
}

type GetLoanScheduleRequest struct {
	LoanID string `json:"loan_id"`
}

type ScheduleEntry struct {
	DueDate          string  `json:"due_date,omitempty"`
	Period           int32   `json:"period"`
	PaymentAmount    float64 `json:"payment_amount"`
	PrincipalPortion float64 `json:"principal_portion"`
	InterestPortion  float64 `json:"interest_portion"`
	RemainingBalance float64 `json:"remaining_balance"`
}

type ScheduleResponse struct {
	LoanID        string           `json:"loan_id,omitempty"`
	Entries       []*ScheduleEntry `json:"entries"`
	PaymentCount  int32            `json:"payment_count"`
	TotalInterest float64          `json:"total_interest"`
	TotalPaid     float64          `json:"total_paid"`
	FromCache     bool             `json:"from_cache"`
}

type GetDashboardRequest struct {
	PropertyType string `json:"property_type,omitempty"`
	Lender       string `json:"lender,omitempty"`
	Fund         string `json:"fund,omitempty"`
}

type Breakdown struct {
	Label     string  `json:"label"`
	Amount    float64 `json:"amount"`
	LoanCount int32   `json:"loan_count"`
}

type MaturityBucket struct {
	Year      int32   `json:"year"`
	Amount    float64 `json:"amount"`
	LoanCount int32   `json:"loan_count"`
}

type DashboardResponse struct {
	StatusDistribution           map[string]int32  `json:"status_distribution"`
	DebtByPropertyType           []*Breakdown      `json:"debt_by_property_type"`
	DebtByLender                 []*Breakdown      `json:"debt_by_lender"`
	MaturitySchedule             []*MaturityBucket `json:"maturity_schedule"`
	LoanCount                    int32             `json:"loan_count"`
	PropertyCount                int32             `json:"property_count"`
	TotalCurrentBalance          float64           `json:"total_current_balance"`
	TotalOriginalBalance         float64           `json:"total_original_balance"`
	WeightedAverageInterestRate  float64           `json:"weighted_average_interest_rate"`
	AverageLoanToValue           float64           `json:"average_loan_to_value"`
	WeightedAverageMaturityYears float64           `json:"weighted_average_maturity_years"`
	AverageLoanSize              float64           `json:"average_loan_size"`
	LargestLoan                  float64           `json:"largest_loan"`
	AverageDSCR                  float64           `json:"average_dscr"`
	HasData                      bool              `json:"has_data"`
	FromCache                    bool              `json:"from_cache"`
}

type ListLoansRequest struct {
	PropertyType string `json:"property_type,omitempty"`
	Lender       string `json:"lender,omitempty"`
	Fund         string `json:"fund,omitempty"`
	Status       string `json:"status,omitempty"`
	Search       string `json:"search,omitempty"`
	Offset       int32  `json:"offset"`
	Limit        int32  `json:"limit"`
}

type LoanSummary struct {
	LoanID         string  `json:"loan_id"`
	LoanNumber     string  `json:"loan_number"`
	PropertyName   string  `json:"property_name"`
	PropertyType   string  `json:"property_type"`
	Lender         string  `json:"lender"`
	Fund           string  `json:"fund,omitempty"`
	Status         string  `json:"status"`
	MaturityDate   string  `json:"maturity_date"`
	CurrentBalance float64 `json:"current_balance"`
	InterestRate   float64 `json:"interest_rate"`
	Version        int32   `json:"version"`
}

type ListLoansResponse struct {
	Loans     []*LoanSummary `json:"loans"`
	Total     int32          `json:"total"`
	Offset    int32          `json:"offset"`
	Limit     int32          `json:"limit"`
	HasMore   bool           `json:"has_more"`
	FromCache bool           `json:"from_cache"`
}
