// Package service holds the stateless domain computations over loan and
// property records. Everything here is a pure function of its input.
package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/aniketri/real-insights-data/pkg/money"
)

// LoanRecord is the aggregation view of one loan, already materialized from storage.
type LoanRecord struct {
	MaturityDate        time.Time
	LoanToValue         *decimal.Decimal // fraction in [0, 1]; nil when unknown
	DebtServiceCoverage *decimal.Decimal
	CurrentBalance      decimal.Decimal
	OriginalBalance     decimal.Decimal
	InterestRatePercent decimal.Decimal
	Status              string
	PropertyType        string
	LenderName          string
	FundName            string
}

// PortfolioSummary is the core portfolio statistic set.
type PortfolioSummary struct {
	StatusDistribution          map[string]int
	TotalCurrentBalance         decimal.Decimal
	TotalOriginalBalance        decimal.Decimal
	WeightedAverageInterestRate decimal.Decimal
	AverageLoanToValue          decimal.Decimal
	LoanCount                   int
}

// Summarize computes totals, the balance-weighted average rate, the mean LTV
// over loans with a positive LTV, and the status distribution. Records are
// not validated: negative or out-of-range values flow through the arithmetic.
// Aggregates are rounded once, after summation.
func Summarize(loans []LoanRecord) PortfolioSummary {
	var (
		totalCurrent  = decimal.Zero
		totalOriginal = decimal.Zero
		rateWeighted  = decimal.Zero
		ltvSum        = decimal.Zero
		ltvCount      int64
	)
	distribution := make(map[string]int)

	for _, l := range loans {
		totalCurrent = totalCurrent.Add(l.CurrentBalance)
		totalOriginal = totalOriginal.Add(l.OriginalBalance)
		rateWeighted = rateWeighted.Add(l.CurrentBalance.Mul(l.InterestRatePercent))

		if l.LoanToValue != nil && l.LoanToValue.IsPositive() {
			ltvSum = ltvSum.Add(*l.LoanToValue)
			ltvCount++
		}
		distribution[l.Status]++
	}

	summary := PortfolioSummary{
		LoanCount:                   len(loans),
		TotalCurrentBalance:         money.Round(totalCurrent),
		TotalOriginalBalance:        money.Round(totalOriginal),
		WeightedAverageInterestRate: decimal.Zero,
		AverageLoanToValue:          decimal.Zero,
		StatusDistribution:          distribution,
	}
	if totalCurrent.IsPositive() {
		summary.WeightedAverageInterestRate = money.Round(rateWeighted.Div(totalCurrent))
	}
	if ltvCount > 0 {
		summary.AverageLoanToValue = money.Round(ltvSum.Div(decimal.NewFromInt(ltvCount)))
	}
	return summary
}
