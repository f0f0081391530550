package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aniketri/real-insights-data/internal/domain/valueobject"
	"github.com/aniketri/real-insights-data/pkg/money"
)

// MaxTermPayments bounds the schedule length (100 years of monthly payments).
const MaxTermPayments = 1200

// ErrInvalidInput matches every InvalidInputError via errors.Is.
var ErrInvalidInput = errors.New("invalid loan terms")

// dustThreshold is the residual balance folded into the current period.
var dustThreshold = decimal.New(1, -2)

// InvalidInputError reports which LoanTerms field failed validation.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid loan terms: %s %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidInput) true for any InvalidInputError.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// LoanTerms is the input to ComputeSchedule. It is built per call and never stored.
type LoanTerms struct {
	Principal         decimal.Decimal
	AnnualRatePercent decimal.Decimal // 4.5 means 4.5%
	TermPayments      int
	PaymentsPerYear   int // 1, 4 or 12
	AmortizationType  valueobject.AmortizationType

	// FirstPaymentDate is optional; when set each entry carries a due date.
	FirstPaymentDate time.Time
}

// Validate checks the terms and returns an *InvalidInputError naming the first bad field.
func (t LoanTerms) Validate() error {
	switch {
	case !money.Round(t.Principal).IsPositive():
		return invalid("principal", "must be at least one cent")
	case t.AnnualRatePercent.IsNegative():
		return invalid("annualRatePercent", "must not be negative")
	case t.TermPayments <= 0:
		return invalid("termPayments", "must be greater than zero")
	case t.TermPayments > MaxTermPayments:
		return invalid("termPayments", fmt.Sprintf("must not exceed %d", MaxTermPayments))
	case t.PaymentsPerYear != 1 && t.PaymentsPerYear != 4 && t.PaymentsPerYear != 12:
		return invalid("paymentsPerYear", "must be one of 1, 4 or 12")
	case t.AmortizationType.IsZero():
		return invalid("amortizationType", "is required")
	}
	return nil
}

// PeriodRate returns annualRatePercent / 100 / paymentsPerYear.
func (t LoanTerms) PeriodRate() decimal.Decimal {
	return t.AnnualRatePercent.Div(money.Hundred).Div(decimal.NewFromInt(int64(t.PaymentsPerYear)))
}

// ScheduleEntry is an immutable value object representing one period of an
// amortization schedule. All amounts are rounded to cents.
type ScheduleEntry struct {
	DueDate          time.Time // zero when LoanTerms.FirstPaymentDate is unset
	PaymentAmount    decimal.Decimal
	PrincipalPortion decimal.Decimal
	InterestPortion  decimal.Decimal
	RemainingBalance decimal.Decimal
	Period           int
}

// ComputeSchedule builds the payment-by-payment schedule for the given terms.
//
// The period rate is r = annualRatePercent / 100 / paymentsPerYear and the
// level payment of a fully amortizing loan is
//
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// or P / n when r is zero. Interest, principal and balance are rounded
// half-up to cents every period, so later periods depend on earlier rounding.
// The last period (or any period whose principal would overshoot) pays off
// exactly the remaining balance, and a residual of one cent or less ends the
// schedule early. Interest-only terms pay P * r every period with no principal.
func ComputeSchedule(terms LoanTerms) ([]ScheduleEntry, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	principal := money.Round(terms.Principal)
	rate := terms.PeriodRate()

	if terms.AmortizationType.IsInterestOnly() {
		return interestOnlySchedule(terms, principal, rate), nil
	}

	payment := levelPayment(principal, rate, terms.TermPayments)
	schedule := make([]ScheduleEntry, 0, terms.TermPayments)
	remaining := principal

	for period := 1; period <= terms.TermPayments; period++ {
		interest := money.Round(remaining.Mul(rate))
		principalPart := payment.Sub(interest)
		total := payment

		if period == terms.TermPayments || principalPart.GreaterThan(remaining) {
			principalPart = remaining
			total = principalPart.Add(interest)
		}

		remaining = remaining.Sub(principalPart)

		if remaining.IsPositive() && remaining.LessThanOrEqual(dustThreshold) {
			principalPart = principalPart.Add(remaining)
			total = total.Add(remaining)
			remaining = decimal.Zero
		}

		schedule = append(schedule, ScheduleEntry{
			Period:           period,
			DueDate:          dueDate(terms, period),
			PaymentAmount:    money.Round(total),
			PrincipalPortion: money.Round(principalPart),
			InterestPortion:  interest,
			RemainingBalance: money.Round(remaining),
		})

		if remaining.IsZero() {
			break
		}
	}

	return schedule, nil
}

// levelPayment returns the per-period payment rounded to cents.
func levelPayment(principal, rate decimal.Decimal, n int) decimal.Decimal {
	periods := decimal.NewFromInt(int64(n))
	if rate.IsZero() {
		return money.Round(principal.Div(periods))
	}

	factor := decimal.NewFromInt(1).Add(rate).Pow(periods)
	numerator := principal.Mul(rate).Mul(factor)
	denominator := factor.Sub(decimal.NewFromInt(1))
	return money.Round(numerator.Div(denominator))
}

func interestOnlySchedule(terms LoanTerms, principal, rate decimal.Decimal) []ScheduleEntry {
	interest := money.Round(principal.Mul(rate))

	schedule := make([]ScheduleEntry, 0, terms.TermPayments)
	for period := 1; period <= terms.TermPayments; period++ {
		schedule = append(schedule, ScheduleEntry{
			Period:           period,
			DueDate:          dueDate(terms, period),
			PaymentAmount:    interest,
			PrincipalPortion: decimal.Zero,
			InterestPortion:  interest,
			RemainingBalance: principal,
		})
	}
	return schedule
}

func dueDate(terms LoanTerms, period int) time.Time {
	if terms.FirstPaymentDate.IsZero() {
		return time.Time{}
	}
	months := 12 / terms.PaymentsPerYear
	return terms.FirstPaymentDate.AddDate(0, months*(period-1), 0)
}

// TotalInterest sums the interest portions of a schedule.
func TotalInterest(schedule []ScheduleEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range schedule {
		total = total.Add(e.InterestPortion)
	}
	return total
}
