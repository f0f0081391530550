package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/internal/domain/service"
	"github.com/aniketri/real-insights-data/internal/domain/valueobject"
)

func reportLoans() []service.LoanRecord {
	return []service.LoanRecord{
		{CurrentBalance: d("2000000"), PropertyType: "RETAIL", LenderName: "KeyBank", Status: "CURRENT",
			MaturityDate: time.Date(2028, time.May, 1, 0, 0, 0, 0, time.UTC)},
		{CurrentBalance: d("500000.5"), PropertyType: "INDUSTRIAL", LenderName: "KeyBank", Status: "WATCHLIST",
			MaturityDate: time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func definition(t *testing.T, rt valueobject.ReportType) model.ReportDefinition {
	t.Helper()
	def, err := model.NewReportDefinition(uuid.New(), uuid.New(), "Quarterly", rt, valueobject.ReportFormatCSV, "", model.ReportFilters{}, time.Now())
	require.NoError(t, err)
	return def
}

func TestBuildReportDocument(t *testing.T) {
	asOf := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	t.Run("portfolio summary", func(t *testing.T) {
		def := definition(t, valueobject.ReportTypePortfolioSummary)
		doc := service.BuildReportDocument(def, reportLoans(), asOf)

		assert.Equal(t, "Quarterly", doc.Name)
		assert.Equal(t, def.OrganizationID(), doc.OrganizationID)
		require.Len(t, doc.Sections, 2)
		assert.Equal(t, []string{"Loan Count", "2"}, doc.Sections[0].Rows[0])
		assert.Equal(t, []string{"Total Current Balance", "2500000.50"}, doc.Sections[0].Rows[1])
		assert.Equal(t, [][]string{{"CURRENT", "1"}, {"WATCHLIST", "1"}}, doc.Sections[1].Rows)
	})

	t.Run("maturity schedule", func(t *testing.T) {
		doc := service.BuildReportDocument(definition(t, valueobject.ReportTypeMaturitySchedule), reportLoans(), asOf)
		require.Len(t, doc.Sections, 1)
		assert.Equal(t, [][]string{{"2026", "1", "500000.50"}, {"2028", "1", "2000000.00"}}, doc.Sections[0].Rows)
	})

	t.Run("debt composition", func(t *testing.T) {
		doc := service.BuildReportDocument(definition(t, valueobject.ReportTypeDebtComposition), reportLoans(), asOf)
		require.Len(t, doc.Sections, 2)
		assert.Equal(t, "RETAIL", doc.Sections[0].Rows[0][0])
		assert.Equal(t, [][]string{{"KeyBank", "2", "2500000.50"}}, doc.Sections[1].Rows)
	})
}
