package service

import (
	"github.com/shopspring/decimal"

	"github.com/aniketri/real-insights-data/pkg/money"
)

// PropertyRecord is the aggregation view of one property.
type PropertyRecord struct {
	CurrentValue  *decimal.Decimal
	PurchasePrice *decimal.Decimal
	AnnualNOI     *decimal.Decimal
	OccupancyRate *decimal.Decimal
	PropertyType  string
}

// ReportMetrics are the organization-wide figures shown on the reports page.
type ReportMetrics struct {
	TotalPortfolioValue  decimal.Decimal
	TotalDebt            decimal.Decimal
	AverageDSCR          decimal.Decimal
	AverageLTV           decimal.Decimal
	TotalNOI             decimal.Decimal
	AverageOccupancyRate decimal.Decimal
	TotalProperties      int
	TotalLoans           int
}

// SummarizeReportMetrics values each property at its current value, falling
// back to its purchase price, and averages DSCR, LTV and occupancy over the
// records where they are present and positive.
func SummarizeReportMetrics(properties []PropertyRecord, loans []LoanRecord) ReportMetrics {
	value, noi, occupancy := decimal.Zero, decimal.Zero, decimal.Zero
	var occupancyCount int64

	for _, p := range properties {
		switch {
		case p.CurrentValue != nil && p.CurrentValue.IsPositive():
			value = value.Add(*p.CurrentValue)
		case p.PurchasePrice != nil:
			value = value.Add(*p.PurchasePrice)
		}
		if p.AnnualNOI != nil {
			noi = noi.Add(*p.AnnualNOI)
		}
		if p.OccupancyRate != nil && p.OccupancyRate.IsPositive() {
			occupancy = occupancy.Add(*p.OccupancyRate)
			occupancyCount++
		}
	}

	dscr := decimal.Zero
	var dscrCount int64
	for _, l := range loans {
		if l.DebtServiceCoverage != nil && l.DebtServiceCoverage.IsPositive() {
			dscr = dscr.Add(*l.DebtServiceCoverage)
			dscrCount++
		}
	}

	summary := Summarize(loans)
	return ReportMetrics{
		TotalPortfolioValue:  money.Round(value),
		TotalDebt:            summary.TotalCurrentBalance,
		AverageDSCR:          money.Round(money.SafeDiv(dscr, decimal.NewFromInt(dscrCount))),
		AverageLTV:           summary.AverageLoanToValue,
		TotalNOI:             money.Round(noi),
		AverageOccupancyRate: money.Round(money.SafeDiv(occupancy, decimal.NewFromInt(occupancyCount))),
		TotalProperties:      len(properties),
		TotalLoans:           len(loans),
	}
}
