package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/internal/domain/valueobject"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func fullyAmortizing(principal, rate string, n, perYear int) model.LoanTerms {
	return model.LoanTerms{
		Principal:         dec(principal),
		AnnualRatePercent: dec(rate),
		TermPayments:      n,
		PaymentsPerYear:   perYear,
		AmortizationType:  valueobject.AmortizationFullyAmortizing,
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got}, msgAndArgs...)...)
}

func TestComputeSchedule_ThirtyYearMonthly(t *testing.T) {
	schedule, err := model.ComputeSchedule(fullyAmortizing("30500000", "4.2", 360, 12))
	require.NoError(t, err)
	require.Len(t, schedule, 360)

	first := schedule[0]
	assert.Equal(t, 1, first.Period)
	assertDecimal(t, "106750.00", first.InterestPortion)
	assertDecimal(t, "149150.24", first.PaymentAmount)
	assertDecimal(t, "42400.24", first.PrincipalPortion)
	assertDecimal(t, "30457599.76", first.RemainingBalance)

	last := schedule[359]
	assert.Equal(t, 360, last.Period)
	assert.True(t, last.RemainingBalance.IsZero())
	assertDecimal(t, "149148.87", last.PaymentAmount)
	assertDecimal(t, "520.20", last.InterestPortion)
}

func TestComputeSchedule_FullAmortizationInvariants(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		n         int
		perYear   int
	}{
		{name: "monthly 10y", principal: "1250000", rate: "6.375", n: 120, perYear: 12},
		{name: "quarterly 7y", principal: "18400000.55", rate: "5.1", n: 28, perYear: 4},
		{name: "annual 5y", principal: "975000", rate: "7.25", n: 5, perYear: 1},
		{name: "single payment", principal: "1000", rate: "12", n: 1, perYear: 12},
		{name: "small loan", principal: "1000", rate: "6", n: 12, perYear: 12},
		{name: "repeating rate", principal: "2500000", rate: "5", n: 300, perYear: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule, err := model.ComputeSchedule(fullyAmortizing(tt.principal, tt.rate, tt.n, tt.perYear))
			require.NoError(t, err)
			require.NotEmpty(t, schedule)
			assert.LessOrEqual(t, len(schedule), tt.n)

			final := schedule[len(schedule)-1]
			assert.True(t, final.RemainingBalance.IsZero(), "final balance %s", final.RemainingBalance)

			totalPrincipal := decimal.Zero
			previous := dec(tt.principal)
			for i, e := range schedule {
				assert.Equal(t, i+1, e.Period)
				assert.False(t, e.PrincipalPortion.IsNegative(), "period %d principal %s", e.Period, e.PrincipalPortion)
				assert.False(t, e.InterestPortion.IsNegative(), "period %d interest %s", e.Period, e.InterestPortion)
				assert.True(t, e.RemainingBalance.LessThanOrEqual(previous), "period %d balance increased", e.Period)
				assert.True(t, e.PaymentAmount.Equal(e.PrincipalPortion.Add(e.InterestPortion)), "period %d payment mismatch", e.Period)
				assert.True(t, e.PaymentAmount.Equal(e.PaymentAmount.Round(2)), "period %d not in cents", e.Period)
				previous = e.RemainingBalance
				totalPrincipal = totalPrincipal.Add(e.PrincipalPortion)
			}
			assertDecimal(t, decimal.RequireFromString(tt.principal).Round(2).String(), totalPrincipal)
		})
	}
}

func TestComputeSchedule_InterestOnly(t *testing.T) {
	terms := model.LoanTerms{
		Principal:         dec("42000000"),
		AnnualRatePercent: dec("5.5"),
		TermPayments:      60,
		PaymentsPerYear:   12,
		AmortizationType:  valueobject.AmortizationInterestOnly,
	}

	schedule, err := model.ComputeSchedule(terms)
	require.NoError(t, err)
	require.Len(t, schedule, 60)

	for _, e := range schedule {
		assert.True(t, e.PrincipalPortion.IsZero())
		assertDecimal(t, "42000000", e.RemainingBalance)
		assertDecimal(t, "192500.00", e.InterestPortion)
		assertDecimal(t, "192500.00", e.PaymentAmount)
	}
}

func TestComputeSchedule_ZeroRate(t *testing.T) {
	schedule, err := model.ComputeSchedule(fullyAmortizing("12000", "0", 12, 12))
	require.NoError(t, err)
	require.Len(t, schedule, 12)

	for _, e := range schedule {
		assertDecimal(t, "1000", e.PaymentAmount)
		assertDecimal(t, "1000", e.PrincipalPortion)
		assert.True(t, e.InterestPortion.IsZero())
	}
	assert.True(t, schedule[11].RemainingBalance.IsZero())
}

func TestComputeSchedule_ZeroRateUnevenSplit(t *testing.T) {
	t.Run("remainder lands in final period", func(t *testing.T) {
		schedule, err := model.ComputeSchedule(fullyAmortizing("100", "0", 3, 12))
		require.NoError(t, err)
		require.Len(t, schedule, 3)
		assertDecimal(t, "33.33", schedule[0].PrincipalPortion)
		assertDecimal(t, "33.33", schedule[1].PrincipalPortion)
		assertDecimal(t, "33.34", schedule[2].PrincipalPortion)
	})

	t.Run("overshoot is clamped to the balance", func(t *testing.T) {
		schedule, err := model.ComputeSchedule(fullyAmortizing("200", "0", 3, 12))
		require.NoError(t, err)
		require.Len(t, schedule, 3)
		assertDecimal(t, "66.67", schedule[0].PaymentAmount)
		assertDecimal(t, "66.66", schedule[2].PaymentAmount)
		assert.True(t, schedule[2].RemainingBalance.IsZero())
	})
}

func TestComputeSchedule_DueDates(t *testing.T) {
	terms := fullyAmortizing("400000", "5", 8, 4)
	terms.FirstPaymentDate = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	schedule, err := model.ComputeSchedule(terms)
	require.NoError(t, err)
	require.Len(t, schedule, 8)
	assert.Equal(t, terms.FirstPaymentDate, schedule[0].DueDate)
	assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), schedule[1].DueDate)
	assert.Equal(t, time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC), schedule[7].DueDate)

	withoutDates, err := model.ComputeSchedule(fullyAmortizing("400000", "5", 8, 4))
	require.NoError(t, err)
	assert.True(t, withoutDates[0].DueDate.IsZero())
}

func TestComputeSchedule_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		terms model.LoanTerms
		field string
	}{
		{name: "negative principal", terms: fullyAmortizing("-1", "5", 12, 12), field: "principal"},
		{name: "zero principal", terms: fullyAmortizing("0", "5", 12, 12), field: "principal"},
		{name: "sub-cent principal", terms: fullyAmortizing("0.001", "5", 12, 12), field: "principal"},
		{name: "zero term", terms: fullyAmortizing("100", "5", 0, 12), field: "termPayments"},
		{name: "term too long", terms: fullyAmortizing("100", "5", model.MaxTermPayments+1, 12), field: "termPayments"},
		{name: "negative rate", terms: fullyAmortizing("100", "-0.5", 12, 12), field: "annualRatePercent"},
		{name: "unsupported frequency", terms: fullyAmortizing("100", "5", 12, 2), field: "paymentsPerYear"},
		{name: "missing amortization type", terms: model.LoanTerms{
			Principal: dec("100"), AnnualRatePercent: dec("5"), TermPayments: 12, PaymentsPerYear: 12,
		}, field: "amortizationType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule, err := model.ComputeSchedule(tt.terms)
			require.Error(t, err)
			assert.Nil(t, schedule)
			assert.True(t, errors.Is(err, model.ErrInvalidInput))

			var inputErr *model.InvalidInputError
			require.True(t, errors.As(err, &inputErr))
			assert.Equal(t, tt.field, inputErr.Field)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestTotalInterest(t *testing.T) {
	schedule, err := model.ComputeSchedule(fullyAmortizing("1000", "6", 12, 12))
	require.NoError(t, err)

	total := model.TotalInterest(schedule)
	sumPayments := decimal.Zero
	for _, e := range schedule {
		sumPayments = sumPayments.Add(e.PaymentAmount)
	}
	assert.True(t, sumPayments.Sub(dec("1000")).Equal(total))
}
