package service

import (
	"sort"
	"strconv"
	"time"

	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/internal/domain/valueobject"
)

// BuildReportDocument lays out the report's tables for the given loans.
// Amounts are formatted with two decimals.
func BuildReportDocument(def model.ReportDefinition, loans []LoanRecord, asOf time.Time) model.ReportDocument {
	doc := model.ReportDocument{
		Name:           def.Name(),
		ReportType:     def.ReportType().String(),
		OrganizationID: def.OrganizationID(),
		GeneratedAt:    asOf,
	}

	dash := BuildDashboard(loans, asOf)

	switch {
	case def.ReportType().Equal(valueobject.ReportTypeMaturitySchedule):
		section := model.ReportSection{
			Title:   "Maturity Schedule",
			Columns: []string{"Year", "Loans", "Current Balance"},
		}
		for _, b := range dash.MaturitySchedule {
			section.Rows = append(section.Rows, []string{
				strconv.Itoa(b.Year), strconv.Itoa(b.LoanCount), b.Amount.StringFixed(2),
			})
		}
		doc.Sections = []model.ReportSection{section}

	case def.ReportType().Equal(valueobject.ReportTypeDebtComposition):
		doc.Sections = []model.ReportSection{
			breakdownSection("Debt by Property Type", "Property Type", dash.DebtByPropertyType),
			breakdownSection("Debt by Lender", "Lender", dash.DebtByLender),
		}

	default:
		doc.Sections = []model.ReportSection{
			{
				Title:   "Portfolio Summary",
				Columns: []string{"Metric", "Value"},
				Rows: [][]string{
					{"Loan Count", strconv.Itoa(dash.LoanCount)},
					{"Total Current Balance", dash.TotalCurrentBalance.StringFixed(2)},
					{"Total Original Balance", dash.TotalOriginalBalance.StringFixed(2)},
					{"Weighted Average Interest Rate", dash.WeightedAverageInterestRate.StringFixed(2)},
					{"Average Loan to Value", dash.AverageLoanToValue.StringFixed(2)},
					{"Average DSCR", dash.AverageDSCR.StringFixed(2)},
					{"Weighted Average Maturity (Years)", dash.WeightedAverageMaturityYears.StringFixed(2)},
				},
			},
			statusSection(dash.StatusDistribution),
		}
	}
	return doc
}

func breakdownSection(title, label string, rows []Breakdown) model.ReportSection {
	section := model.ReportSection{
		Title:   title,
		Columns: []string{label, "Loans", "Current Balance"},
	}
	for _, b := range rows {
		section.Rows = append(section.Rows, []string{b.Label, strconv.Itoa(b.LoanCount), b.Amount.StringFixed(2)})
	}
	return section
}

func statusSection(distribution map[string]int) model.ReportSection {
	statuses := make([]string, 0, len(distribution))
	for s := range distribution {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)

	section := model.ReportSection{
		Title:   "Status Distribution",
		Columns: []string{"Status", "Loans"},
	}
	for _, s := range statuses {
		section.Rows = append(section.Rows, []string{labelOrUnknown(s), strconv.Itoa(distribution[s])})
	}
	return section
}
