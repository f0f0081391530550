package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aniketri/real-insights-data/internal/domain/event"
	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/internal/domain/valueobject"
)

func validLoanParams() model.LoanParams {
	ltv := dec("0.65")
	return model.LoanParams{
		OrganizationID:     uuid.New(),
		LoanNumber:         "  LN-2024-001 ",
		Property:           model.PropertyRef{ID: uuid.New(), Name: "Harbor Point Office", Type: "OFFICE"},
		Lender:             model.Counterparty{ID: uuid.New(), Name: "Wells Fargo"},
		OriginalBalance:    dec("30500000"),
		InterestRate:       dec("4.2"),
		AmortizationType:   valueobject.AmortizationFullyAmortizing,
		PaymentFrequency:   valueobject.PaymentMonthly,
		AmortizationPeriod: 30,
		OriginationDate:    time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		MaturityDate:       time.Date(2034, time.March, 15, 0, 0, 0, 0, time.UTC),
		LTV:                &ltv,
	}
}

func TestNewLoan(t *testing.T) {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	t.Run("applies defaults and emits LoanCreated", func(t *testing.T) {
		loan, err := model.NewLoan(validLoanParams(), now)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, loan.ID())
		assert.Equal(t, "LN-2024-001", loan.LoanNumber())
		assert.Equal(t, valueobject.LoanStatusCurrent, loan.Status())
		assert.Equal(t, valueobject.RateTypeFixed, loan.RateType())
		assert.True(t, loan.CurrentBalance().Equal(dec("30500000")))
		assert.Equal(t, 1, loan.Version())
		assert.Equal(t, "", loan.FundName())

		require.Len(t, loan.DomainEvents(), 1)
		assert.Equal(t, event.TypeLoanCreated, loan.DomainEvents()[0].EventType())
		assert.Equal(t, loan.OrganizationID(), loan.DomainEvents()[0].OrganizationID())
	})

	tests := []struct {
		name   string
		mutate func(p *model.LoanParams)
	}{
		{name: "missing organization", mutate: func(p *model.LoanParams) { p.OrganizationID = uuid.Nil }},
		{name: "blank loan number", mutate: func(p *model.LoanParams) { p.LoanNumber = "   " }},
		{name: "zero original balance", mutate: func(p *model.LoanParams) { p.OriginalBalance = decimal.Zero }},
		{name: "negative rate", mutate: func(p *model.LoanParams) { p.InterestRate = dec("-1") }},
		{name: "missing frequency", mutate: func(p *model.LoanParams) { p.PaymentFrequency = valueobject.PaymentFrequency{} }},
		{name: "amortization too long", mutate: func(p *model.LoanParams) { p.AmortizationPeriod = 101 }},
		{name: "maturity before origination", mutate: func(p *model.LoanParams) {
			p.MaturityDate = p.OriginationDate.AddDate(-1, 0, 0)
		}},
		{name: "ltv above one", mutate: func(p *model.LoanParams) {
			ltv := dec("65")
			p.LTV = &ltv
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validLoanParams()
			tt.mutate(&p)
			_, err := model.NewLoan(p, now)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrInvalidLoan))
		})
	}
}

func TestLoan_Update(t *testing.T) {
	now := time.Now().UTC()
	loan, err := model.NewLoan(validLoanParams(), now)
	require.NoError(t, err)
	loan = loan.ClearEvents()

	t.Run("records changed fields", func(t *testing.T) {
		balance := dec("29000000")
		status, _ := valueobject.NewLoanStatus("watchlist")

		updated, err := loan.Update(model.LoanChanges{CurrentBalance: &balance, Status: &status}, now.Add(time.Hour))
		require.NoError(t, err)

		assert.True(t, updated.CurrentBalance().Equal(balance))
		assert.Equal(t, valueobject.LoanStatusWatchlist, updated.Status())
		assert.True(t, loan.CurrentBalance().Equal(dec("30500000")), "original copy must be unchanged")

		require.Len(t, updated.DomainEvents(), 1)
		evt, ok := updated.DomainEvents()[0].(event.LoanUpdated)
		require.True(t, ok)
		assert.Equal(t, []string{"currentBalance", "status"}, evt.ChangedFields)
	})

	t.Run("rejects empty change set", func(t *testing.T) {
		_, err := loan.Update(model.LoanChanges{}, now)
		assert.ErrorIs(t, err, model.ErrInvalidLoan)
	})

	t.Run("rejects negative DSCR", func(t *testing.T) {
		dscr := dec("-0.1")
		_, err := loan.Update(model.LoanChanges{DSCR: &dscr}, now)
		assert.ErrorIs(t, err, model.ErrInvalidLoan)
	})
}

func TestLoan_Terms(t *testing.T) {
	p := validLoanParams()
	p.PaymentFrequency = valueobject.PaymentQuarterly
	p.AmortizationPeriod = 10
	loan, err := model.NewLoan(p, time.Now())
	require.NoError(t, err)

	terms := loan.Terms()
	assert.Equal(t, 40, terms.TermPayments)
	assert.Equal(t, 4, terms.PaymentsPerYear)
	assert.True(t, terms.Principal.Equal(dec("30500000")))
	assert.Equal(t, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC), terms.FirstPaymentDate)
	require.NoError(t, terms.Validate())
}

func TestLoan_Delete(t *testing.T) {
	loan, err := model.NewLoan(validLoanParams(), time.Now())
	require.NoError(t, err)

	deleted := loan.ClearEvents().Delete(time.Now())
	require.Len(t, deleted.DomainEvents(), 1)
	assert.Equal(t, event.TypeLoanDeleted, deleted.DomainEvents()[0].EventType())
	assert.True(t, event.IsLoanEvent(deleted.DomainEvents()[0].EventType()))
}
