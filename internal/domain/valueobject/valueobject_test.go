package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aniketri/real-insights-data/internal/domain/valueobject"
)

func TestNewAmortizationType(t *testing.T) {
	at, err := valueobject.NewAmortizationType(" interest_only ")
	require.NoError(t, err)
	assert.True(t, at.Equal(valueobject.AmortizationInterestOnly))
	assert.True(t, at.IsInterestOnly())

	at, err = valueobject.NewAmortizationType("FULLY_AMORTIZING")
	require.NoError(t, err)
	assert.False(t, at.IsInterestOnly())

	_, err = valueobject.NewAmortizationType("BALLOON")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid amortization type")

	assert.True(t, valueobject.AmortizationType{}.IsZero())
}

func TestPaymentFrequency(t *testing.T) {
	tests := []struct {
		name    string
		perYear int
		months  int
	}{
		{name: "MONTHLY", perYear: 12, months: 1},
		{name: "QUARTERLY", perYear: 4, months: 3},
		{name: "ANNUALLY", perYear: 1, months: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := valueobject.NewPaymentFrequency(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.perYear, f.PaymentsPerYear())
			assert.Equal(t, tt.months, f.MonthsBetweenPayments())

			byCount, err := valueobject.PaymentFrequencyFromPerYear(tt.perYear)
			require.NoError(t, err)
			assert.True(t, f.Equal(byCount))
		})
	}

	_, err := valueobject.PaymentFrequencyFromPerYear(2)
	require.Error(t, err)
	_, err = valueobject.NewPaymentFrequency("WEEKLY")
	require.Error(t, err)
}

func TestNewLoanStatus_Normalizes(t *testing.T) {
	s, err := valueobject.NewLoanStatus(" paid off ")
	require.NoError(t, err)
	assert.Equal(t, "PAID_OFF", s.String())
	assert.True(t, s.IsKnown())

	custom, err := valueobject.NewLoanStatus("special servicing")
	require.NoError(t, err)
	assert.Equal(t, "SPECIAL_SERVICING", custom.String())
	assert.False(t, custom.IsKnown())

	_, err = valueobject.NewLoanStatus("   ")
	require.Error(t, err)
}

func TestNewRateType(t *testing.T) {
	rt, err := valueobject.NewRateType("floating")
	require.NoError(t, err)
	assert.True(t, rt.Equal(valueobject.RateTypeFloating))

	_, err = valueobject.NewRateType("HYBRID")
	require.Error(t, err)
}

func TestNewReportType(t *testing.T) {
	rt, err := valueobject.NewReportType("maturity_schedule")
	require.NoError(t, err)
	assert.True(t, rt.Equal(valueobject.ReportTypeMaturitySchedule))

	_, err = valueobject.NewReportType("COREP")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid report type")
}

func TestNewReportFormat(t *testing.T) {
	f, err := valueobject.NewReportFormat("")
	require.NoError(t, err)
	assert.True(t, f.Equal(valueobject.ReportFormatJSON))

	f, err = valueobject.NewReportFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", f.ContentType())
	assert.Equal(t, "csv", f.Extension())

	f, err = valueobject.NewReportFormat("XML")
	require.NoError(t, err)
	assert.Equal(t, "application/xml", f.ContentType())

	_, err = valueobject.NewReportFormat("PDF")
	require.Error(t, err)
}
