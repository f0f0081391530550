package rest

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/aniketri/real-insights-data/internal/application/dto"
	"github.com/aniketri/real-insights-data/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Amortization
// ---------------------------------------------------------------------------

type computeScheduleBody struct {
	FirstPaymentDate  *Date           `json:"firstPaymentDate,omitempty"`
	Principal         decimal.Decimal `json:"principal"`
	AnnualRatePercent decimal.Decimal `json:"annualRatePercent"`
	AmortizationType  string          `json:"amortizationType"`
	TermPayments      int             `json:"termPayments"`
	PaymentsPerYear   int             `json:"paymentsPerYear"`
}

func (a *API) computeSchedule(w http.ResponseWriter, r *http.Request) {
	var body computeScheduleBody
	if err := decodeJSON(r, &body); err != nil {
		failWith(w, r, a.logger, err)
		return
	}

	resp, err := a.h.ComputeSchedule.Execute(r.Context(), dto.ComputeScheduleRequest{
		FirstPaymentDate:  body.FirstPaymentDate.ptr(),
		Principal:         body.Principal,
		AnnualRatePercent: body.AnnualRatePercent,
		AmortizationType:  body.AmortizationType,
		TermPayments:      body.TermPayments,
		PaymentsPerYear:   body.PaymentsPerYear,
	})
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) loanSchedule(w http.ResponseWriter, r *http.Request) {
	ref, err := loanRef(r)
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	resp, err := a.h.LoanSchedule.Execute(r.Context(), ref)
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ---------------------------------------------------------------------------
// Loans
// ---------------------------------------------------------------------------

type createLoanBody struct {
	OriginationDate    *Date            `json:"originationDate,omitempty"`
	MaturityDate       Date             `json:"maturityDate"`
	RateSpread         *decimal.Decimal `json:"rateSpread,omitempty"`
	LTV                *decimal.Decimal `json:"ltv,omitempty"`
	DSCR               *decimal.Decimal `json:"dscr,omitempty"`
	OriginalBalance    decimal.Decimal  `json:"originalBalance"`
	CurrentBalance     decimal.Decimal  `json:"currentBalance"`
	InterestRate       decimal.Decimal  `json:"interestRate"`
	PropertyID         string           `json:"propertyId"`
	LoanNumber         string           `json:"loanNumber"`
	LenderName         string           `json:"lenderName"`
	FundName           string           `json:"fundName,omitempty"`
	RateType           string           `json:"rateType,omitempty"`
	IndexType          string           `json:"indexType,omitempty"`
	AmortizationType   string           `json:"amortizationType"`
	PaymentFrequency   string           `json:"paymentFrequency"`
	Status             string           `json:"status,omitempty"`
	AmortizationPeriod int              `json:"amortizationPeriod"`
}

type updateLoanBody struct {
	CurrentBalance *decimal.Decimal `json:"currentBalance,omitempty"`
	InterestRate   *decimal.Decimal `json:"interestRate,omitempty"`
	Status         *string          `json:"status,omitempty"`
	LTV            *decimal.Decimal `json:"ltv,omitempty"`
	DSCR           *decimal.Decimal `json:"dscr,omitempty"`
	MaturityDate   *Date            `json:"maturityDate,omitempty"`
}

func (a *API) listLoans(w http.ResponseWriter, r *http.Request) {
	claims, err := principal(r)
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	q := r.URL.Query()
	offset, err := intParam(q.Get("offset"), "offset")
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	limit, err := intParam(q.Get("limit"), "limit")
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}

	resp, err := a.h.ListLoans.Execute(r.Context(), dto.ListLoansRequest{
		LoanFilters:    filtersFromQuery(r),
		Status:         q.Get("status"),
		Search:         q.Get("search"),
		OrganizationID: claims.OrganizationID,
		Offset:         offset,
		Limit:          limit,
	})
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) createLoan(w http.ResponseWriter, r *http.Request) {
	claims, err := principal(r)
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	var body createLoanBody
	if err := decodeJSON(r, &body); err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	propertyID, err := parseID(body.PropertyID, "propertyId")
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}

	resp, err := a.h.CreateLoan.Execute(r.Context(), dto.CreateLoanRequest{
		OriginationDate:    body.OriginationDate.ptr(),
		MaturityDate:       body.MaturityDate.Time,
		RateSpread:         body.RateSpread,
		LTV:                body.LTV,
		DSCR:               body.DSCR,
		OriginalBalance:    body.OriginalBalance,
		CurrentBalance:     body.CurrentBalance,
		InterestRate:       body.InterestRate,
		LoanNumber:         body.LoanNumber,
		LenderName:         body.LenderName,
		FundName:           body.FundName,
		RateType:           body.RateType,
		IndexType:          body.IndexType,
		AmortizationType:   body.AmortizationType,
		PaymentFrequency:   body.PaymentFrequency,
		Status:             body.Status,
		AmortizationPeriod: body.AmortizationPeriod,
		OrganizationID:     claims.OrganizationID,
		PropertyID:         propertyID,
	})
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (a *API) getLoan(w http.ResponseWriter, r *http.Request) {
	ref, err := loanRef(r)
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	resp, err := a.h.GetLoan.Execute(r.Context(), ref)
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) updateLoan(w http.ResponseWriter, r *http.Request) {
	ref, err := loanRef(r)
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	var body updateLoanBody
	if err := decodeJSON(r, &body); err != nil {
		failWith(w, r, a.logger, err)
		return
	}

	resp, err := a.h.UpdateLoan.Execute(r.Context(), dto.UpdateLoanRequest{
		CurrentBalance: body.CurrentBalance,
		InterestRate:   body.InterestRate,
		Status:         body.Status,
		LTV:            body.LTV,
		DSCR:           body.DSCR,
		MaturityDate:   body.MaturityDate.ptr(),
		OrganizationID: ref.OrganizationID,
		LoanID:         ref.LoanID,
	})
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) deleteLoan(w http.ResponseWriter, r *http.Request) {
	ref, err := loanRef(r)
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	if err := a.h.DeleteLoan.Execute(r.Context(), ref); err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func loanRef(r *http.Request) (dto.LoanRef, error) {
	claims, err := principal(r)
	if err != nil {
		return dto.LoanRef{}, err
	}
	loanID, err := pathUUID(r, "loanID")
	if err != nil {
		return dto.LoanRef{}, err
	}
	return dto.LoanRef{OrganizationID: claims.OrganizationID, LoanID: loanID}, nil
}

func filtersFromQuery(r *http.Request) dto.LoanFilters {
	q := r.URL.Query()
	return dto.LoanFilters{
		PropertyType: q.Get("propertyType"),
		Lender:       q.Get("lender"),
		Fund:         q.Get("fund"),
	}
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", model.ErrInvalidInput, name)
	}
	return n, nil
}
