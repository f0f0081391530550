package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aniketri/real-insights-data/internal/domain/event"
	"github.com/aniketri/real-insights-data/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Loan aggregate root
// ---------------------------------------------------------------------------

// PropertyRef identifies the collateral of a loan.
type PropertyRef struct {
	ID   uuid.UUID
	Name string
	Type string
}

// Counterparty identifies a lender or a fund.
type Counterparty struct {
	ID   uuid.UUID
	Name string
}

// LoanParams carries the attributes of a loan when creating or reconstructing it.
type LoanParams struct {
	OrganizationID     uuid.UUID
	LoanNumber         string
	Property           PropertyRef
	Lender             Counterparty
	Fund               *Counterparty
	OriginalBalance    decimal.Decimal
	CurrentBalance     decimal.Decimal
	InterestRate       decimal.Decimal
	RateType           valueobject.RateType
	IndexType          string
	RateSpread         *decimal.Decimal
	AmortizationType   valueobject.AmortizationType
	PaymentFrequency   valueobject.PaymentFrequency
	AmortizationPeriod int // years
	OriginationDate    time.Time
	MaturityDate       time.Time
	LTV                *decimal.Decimal
	DSCR               *decimal.Decimal
	Status             valueobject.LoanStatus
}

// Loan is an immutable aggregate. Mutations return a new copy.
type Loan struct {
	createdAt    time.Time
	updatedAt    time.Time
	params       LoanParams
	domainEvents []event.DomainEvent
	id           uuid.UUID
	version      int
}

// NewLoan validates the parameters and creates a loan at version 1. Status
// defaults to CURRENT and rate type to FIXED.
func NewLoan(p LoanParams, now time.Time) (Loan, error) {
	p.LoanNumber = strings.TrimSpace(p.LoanNumber)
	if p.RateType.IsZero() {
		p.RateType = valueobject.RateTypeFixed
	}
	if p.Status.IsZero() {
		p.Status = valueobject.LoanStatusCurrent
	}
	if p.CurrentBalance.IsZero() && !p.OriginalBalance.IsZero() {
		p.CurrentBalance = p.OriginalBalance
	}
	if err := validateLoanParams(p); err != nil {
		return Loan{}, err
	}

	loan := Loan{
		id:        uuid.New(),
		params:    p,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}
	loan.domainEvents = append(loan.domainEvents, event.NewLoanCreated(
		loan.id, p.OrganizationID, p.LoanNumber, p.Property.ID, p.CurrentBalance,
	))
	return loan, nil
}

// ReconstructLoan rebuilds a Loan aggregate from persistence without validation.
func ReconstructLoan(id uuid.UUID, p LoanParams, version int, createdAt, updatedAt time.Time) Loan {
	return Loan{
		id:        id,
		params:    p,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func validateLoanParams(p LoanParams) error {
	switch {
	case p.OrganizationID == uuid.Nil:
		return fmt.Errorf("%w: organization ID is required", ErrInvalidLoan)
	case p.LoanNumber == "":
		return fmt.Errorf("%w: loan number is required", ErrInvalidLoan)
	case p.Property.ID == uuid.Nil:
		return fmt.Errorf("%w: property is required", ErrInvalidLoan)
	case strings.TrimSpace(p.Lender.Name) == "":
		return fmt.Errorf("%w: lender is required", ErrInvalidLoan)
	case !p.OriginalBalance.IsPositive():
		return fmt.Errorf("%w: original balance must be positive", ErrInvalidLoan)
	case p.CurrentBalance.IsNegative():
		return fmt.Errorf("%w: current balance must not be negative", ErrInvalidLoan)
	case p.InterestRate.IsNegative():
		return fmt.Errorf("%w: interest rate must not be negative", ErrInvalidLoan)
	case p.AmortizationType.IsZero():
		return fmt.Errorf("%w: amortization type is required", ErrInvalidLoan)
	case p.PaymentFrequency.IsZero():
		return fmt.Errorf("%w: payment frequency is required", ErrInvalidLoan)
	case p.AmortizationPeriod <= 0:
		return fmt.Errorf("%w: amortization period must be positive", ErrInvalidLoan)
	case p.AmortizationPeriod*p.PaymentFrequency.PaymentsPerYear() > MaxTermPayments:
		return fmt.Errorf("%w: amortization period exceeds %d payments", ErrInvalidLoan, MaxTermPayments)
	case p.MaturityDate.IsZero():
		return fmt.Errorf("%w: maturity date is required", ErrInvalidLoan)
	case !p.OriginationDate.IsZero() && p.MaturityDate.Before(p.OriginationDate):
		return fmt.Errorf("%w: maturity date precedes origination date", ErrInvalidLoan)
	}
	if err := validateRatios(p.LTV, p.DSCR); err != nil {
		return err
	}
	return nil
}

func validateRatios(ltv, dscr *decimal.Decimal) error {
	if ltv != nil && (ltv.IsNegative() || ltv.GreaterThan(decimal.NewFromInt(1))) {
		return fmt.Errorf("%w: loan-to-value must be between 0 and 1", ErrInvalidLoan)
	}
	if dscr != nil && dscr.IsNegative() {
		return fmt.Errorf("%w: DSCR must not be negative", ErrInvalidLoan)
	}
	return nil
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// LoanChanges lists the servicing fields a PATCH may touch. Nil fields are left as-is.
type LoanChanges struct {
	CurrentBalance *decimal.Decimal
	InterestRate   *decimal.Decimal
	Status         *valueobject.LoanStatus
	LTV            *decimal.Decimal
	DSCR           *decimal.Decimal
	MaturityDate   *time.Time
}

// Update applies the changes and emits LoanUpdated naming the changed fields.
func (l Loan) Update(c LoanChanges, now time.Time) (Loan, error) {
	next := l
	var changed []string

	if c.CurrentBalance != nil {
		if c.CurrentBalance.IsNegative() {
			return l, fmt.Errorf("%w: current balance must not be negative", ErrInvalidLoan)
		}
		next.params.CurrentBalance = *c.CurrentBalance
		changed = append(changed, "currentBalance")
	}
	if c.InterestRate != nil {
		if c.InterestRate.IsNegative() {
			return l, fmt.Errorf("%w: interest rate must not be negative", ErrInvalidLoan)
		}
		next.params.InterestRate = *c.InterestRate
		changed = append(changed, "interestRate")
	}
	if c.Status != nil {
		if c.Status.IsZero() {
			return l, fmt.Errorf("%w: status must not be empty", ErrInvalidLoan)
		}
		next.params.Status = *c.Status
		changed = append(changed, "status")
	}
	if err := validateRatios(c.LTV, c.DSCR); err != nil {
		return l, err
	}
	if c.LTV != nil {
		ltv := *c.LTV
		next.params.LTV = &ltv
		changed = append(changed, "ltv")
	}
	if c.DSCR != nil {
		dscr := *c.DSCR
		next.params.DSCR = &dscr
		changed = append(changed, "dscr")
	}
	if c.MaturityDate != nil {
		if !l.params.OriginationDate.IsZero() && c.MaturityDate.Before(l.params.OriginationDate) {
			return l, fmt.Errorf("%w: maturity date precedes origination date", ErrInvalidLoan)
		}
		next.params.MaturityDate = *c.MaturityDate
		changed = append(changed, "maturityDate")
	}

	if len(changed) == 0 {
		return l, fmt.Errorf("%w: no changes", ErrInvalidLoan)
	}

	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewLoanUpdated(
		l.id, l.params.OrganizationID, changed, next.params.CurrentBalance, next.params.Status.String(),
	))
	return next, nil
}

// Delete returns a copy carrying the LoanDeleted event. The repository removes the row.
func (l Loan) Delete(now time.Time) Loan {
	next := l
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewLoanDeleted(l.id, l.params.OrganizationID, l.params.LoanNumber))
	return next
}

// Terms derives the amortization input from the stored loan: the original
// balance amortized over AmortizationPeriod years at the loan's frequency,
// first due one period after origination.
func (l Loan) Terms() LoanTerms {
	freq := l.params.PaymentFrequency
	terms := LoanTerms{
		Principal:         l.params.OriginalBalance,
		AnnualRatePercent: l.params.InterestRate,
		TermPayments:      l.params.AmortizationPeriod * freq.PaymentsPerYear(),
		PaymentsPerYear:   freq.PaymentsPerYear(),
		AmortizationType:  l.params.AmortizationType,
	}
	if !l.params.OriginationDate.IsZero() {
		terms.FirstPaymentDate = l.params.OriginationDate.AddDate(0, freq.MonthsBetweenPayments(), 0)
	}
	return terms
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (l Loan) ID() uuid.UUID                                  { return l.id }
func (l Loan) OrganizationID() uuid.UUID                      { return l.params.OrganizationID }
func (l Loan) LoanNumber() string                             { return l.params.LoanNumber }
func (l Loan) Property() PropertyRef                          { return l.params.Property }
func (l Loan) Lender() Counterparty                           { return l.params.Lender }
func (l Loan) Fund() *Counterparty                            { return l.params.Fund }
func (l Loan) OriginalBalance() decimal.Decimal               { return l.params.OriginalBalance }
func (l Loan) CurrentBalance() decimal.Decimal                { return l.params.CurrentBalance }
func (l Loan) InterestRate() decimal.Decimal                  { return l.params.InterestRate }
func (l Loan) RateType() valueobject.RateType                 { return l.params.RateType }
func (l Loan) IndexType() string                              { return l.params.IndexType }
func (l Loan) RateSpread() *decimal.Decimal                   { return l.params.RateSpread }
func (l Loan) AmortizationType() valueobject.AmortizationType { return l.params.AmortizationType }
func (l Loan) PaymentFrequency() valueobject.PaymentFrequency { return l.params.PaymentFrequency }
func (l Loan) AmortizationPeriod() int                        { return l.params.AmortizationPeriod }
func (l Loan) OriginationDate() time.Time                     { return l.params.OriginationDate }
func (l Loan) MaturityDate() time.Time                        { return l.params.MaturityDate }
func (l Loan) LTV() *decimal.Decimal                          { return l.params.LTV }
func (l Loan) DSCR() *decimal.Decimal                         { return l.params.DSCR }
func (l Loan) Status() valueobject.LoanStatus                 { return l.params.Status }
func (l Loan) Version() int                                   { return l.version }
func (l Loan) CreatedAt() time.Time                           { return l.createdAt }
func (l Loan) UpdatedAt() time.Time                           { return l.updatedAt }
func (l Loan) DomainEvents() []event.DomainEvent              { return l.domainEvents }

// FundName returns the fund name or "" when the loan is not held by a fund.
func (l Loan) FundName() string {
	if l.params.Fund == nil {
		return ""
	}
	return l.params.Fund.Name
}

// ClearEvents returns a copy with an empty event list.
func (l Loan) ClearEvents() Loan {
	next := l
	next.domainEvents = nil
	return next
}

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if src == nil {
		return nil
	}
	dst := make([]event.DomainEvent, len(src))
	copy(dst, src)
	return dst
}
