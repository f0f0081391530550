package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aniketri/real-insights-data/pkg/money"
)

// UnknownLabel groups records with an empty property type or lender.
const UnknownLabel = "Unknown"

// daysPerYear ignores leap days when converting time to maturity into years.
var daysPerYear = decimal.NewFromInt(365)

// Breakdown is the current balance attributed to one label.
type Breakdown struct {
	Label     string
	Amount    decimal.Decimal
	LoanCount int
}

// MaturityBucket is the current balance maturing in one calendar year.
type MaturityBucket struct {
	Amount    decimal.Decimal
	Year      int
	LoanCount int
}

// Dashboard extends PortfolioSummary with the breakdowns shown on the portfolio dashboard.
type Dashboard struct {
	PortfolioSummary
	DebtByPropertyType           []Breakdown
	DebtByLender                 []Breakdown
	MaturitySchedule             []MaturityBucket
	WeightedAverageMaturityYears decimal.Decimal
	AverageLoanSize              decimal.Decimal
	LargestLoan                  decimal.Decimal
	AverageDSCR                  decimal.Decimal
}

// BuildDashboard summarizes the loans and adds the dashboard extensions.
// Years to maturity are measured from asOf and clamped at zero.
func BuildDashboard(loans []LoanRecord, asOf time.Time) Dashboard {
	d := Dashboard{
		PortfolioSummary:             Summarize(loans),
		WeightedAverageMaturityYears: decimal.Zero,
		AverageLoanSize:              decimal.Zero,
		LargestLoan:                  decimal.Zero,
		AverageDSCR:                  decimal.Zero,
	}

	byType := make(map[string]*Breakdown)
	byLender := make(map[string]*Breakdown)
	byYear := make(map[int]*MaturityBucket)

	totalCurrent := decimal.Zero
	maturityWeighted := decimal.Zero
	dscrSum := decimal.Zero
	var dscrCount int64

	for i, l := range loans {
		totalCurrent = totalCurrent.Add(l.CurrentBalance)
		if i == 0 || l.CurrentBalance.GreaterThan(d.LargestLoan) {
			d.LargestLoan = l.CurrentBalance
		}

		addBreakdown(byType, labelOrUnknown(l.PropertyType), l.CurrentBalance)
		addBreakdown(byLender, labelOrUnknown(l.LenderName), l.CurrentBalance)

		if !l.MaturityDate.IsZero() {
			year := l.MaturityDate.Year()
			b, ok := byYear[year]
			if !ok {
				b = &MaturityBucket{Year: year, Amount: decimal.Zero}
				byYear[year] = b
			}
			b.Amount = b.Amount.Add(l.CurrentBalance)
			b.LoanCount++

			maturityWeighted = maturityWeighted.Add(yearsUntil(asOf, l.MaturityDate).Mul(l.CurrentBalance))
		}

		if l.DebtServiceCoverage != nil && l.DebtServiceCoverage.IsPositive() {
			dscrSum = dscrSum.Add(*l.DebtServiceCoverage)
			dscrCount++
		}
	}

	d.DebtByPropertyType = sortedBreakdowns(byType)
	d.DebtByLender = sortedBreakdowns(byLender)
	d.MaturitySchedule = sortedBuckets(byYear)
	d.LargestLoan = money.Round(d.LargestLoan)

	d.AverageLoanSize = money.Round(money.SafeDiv(totalCurrent, decimal.NewFromInt(int64(len(loans)))))
	if totalCurrent.IsPositive() {
		d.WeightedAverageMaturityYears = money.Round(maturityWeighted.Div(totalCurrent))
	}
	d.AverageDSCR = money.Round(money.SafeDiv(dscrSum, decimal.NewFromInt(dscrCount)))
	return d
}

func yearsUntil(asOf, maturity time.Time) decimal.Decimal {
	days := maturity.Sub(asOf).Hours() / 24
	if days <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(days).Div(daysPerYear)
}

func labelOrUnknown(s string) string {
	if s == "" {
		return UnknownLabel
	}
	return s
}

func addBreakdown(m map[string]*Breakdown, label string, amount decimal.Decimal) {
	b, ok := m[label]
	if !ok {
		b = &Breakdown{Label: label, Amount: decimal.Zero}
		m[label] = b
	}
	b.Amount = b.Amount.Add(amount)
	b.LoanCount++
}

// sortedBreakdowns orders by amount descending, then label.
func sortedBreakdowns(m map[string]*Breakdown) []Breakdown {
	out := make([]Breakdown, 0, len(m))
	for _, b := range m {
		out = append(out, Breakdown{Label: b.Label, Amount: money.Round(b.Amount), LoanCount: b.LoanCount})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func sortedBuckets(m map[int]*MaturityBucket) []MaturityBucket {
	out := make([]MaturityBucket, 0, len(m))
	for _, b := range m {
		out = append(out, MaturityBucket{Year: b.Year, Amount: money.Round(b.Amount), LoanCount: b.LoanCount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
