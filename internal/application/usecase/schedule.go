package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aniketri/real-insights-data/internal/application/dto"
	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/internal/domain/port"
	"github.com/aniketri/real-insights-data/internal/domain/valueobject"
)

// ComputeScheduleUseCase computes an amortization schedule from ad-hoc terms.
type ComputeScheduleUseCase struct{}

// NewComputeScheduleUseCase returns a new use case.
func NewComputeScheduleUseCase() *ComputeScheduleUseCase {
	return &ComputeScheduleUseCase{}
}

// Execute validates the terms and returns the schedule. Invalid terms fail
// with a *model.InvalidInputError.
func (uc *ComputeScheduleUseCase) Execute(
	_ context.Context,
	req dto.ComputeScheduleRequest,
) (dto.ScheduleResponse, error) {
	terms, err := termsFromRequest(req)
	if err != nil {
		return dto.ScheduleResponse{}, err
	}

	schedule, err := model.ComputeSchedule(terms)
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("compute schedule: %w", err)
	}
	return toScheduleResponse(schedule), nil
}

func termsFromRequest(req dto.ComputeScheduleRequest) (model.LoanTerms, error) {
	amortization := valueobject.AmortizationFullyAmortizing
	if req.AmortizationType != "" {
		parsed, err := valueobject.NewAmortizationType(req.AmortizationType)
		if err != nil {
			return model.LoanTerms{}, &model.InvalidInputError{Field: "amortizationType", Reason: err.Error()}
		}
		amortization = parsed
	}

	perYear := req.PaymentsPerYear
	if perYear == 0 {
		perYear = valueobject.PaymentMonthly.PaymentsPerYear()
	}

	return model.LoanTerms{
		Principal:         req.Principal,
		AnnualRatePercent: req.AnnualRatePercent,
		TermPayments:      req.TermPayments,
		PaymentsPerYear:   perYear,
		AmortizationType:  amortization,
		FirstPaymentDate:  dateOrZero(req.FirstPaymentDate),
	}, nil
}

// GetLoanScheduleUseCase computes the schedule of a stored loan, cached per loan.
type GetLoanScheduleUseCase struct {
	loanRepo port.LoanRepository
	cache    port.ResultCache
	logger   *slog.Logger
	ttl      time.Duration
}

// NewGetLoanScheduleUseCase wires dependencies. A zero ttl uses the cache default.
func NewGetLoanScheduleUseCase(
	loanRepo port.LoanRepository,
	cache port.ResultCache,
	logger *slog.Logger,
	ttl time.Duration,
) *GetLoanScheduleUseCase {
	return &GetLoanScheduleUseCase{loanRepo: loanRepo, cache: cache, logger: logger, ttl: ttl}
}

// Execute returns the loan's schedule. A missing loan is model.ErrLoanNotFound;
// stored terms the engine rejects surface as *model.InvalidInputError.
func (uc *GetLoanScheduleUseCase) Execute(ctx context.Context, req dto.LoanRef) (dto.ScheduleResponse, error) {
	key := ScheduleCacheKey(req.OrganizationID, req.LoanID)

	resp, hit, err := memoize(ctx, uc.cache, uc.logger, key, uc.ttl, func(ctx context.Context) (dto.ScheduleResponse, error) {
		loan, err := uc.loanRepo.FindByID(ctx, req.OrganizationID, req.LoanID)
		if err != nil {
			return dto.ScheduleResponse{}, fmt.Errorf("find loan: %w", err)
		}

		schedule, err := model.ComputeSchedule(loan.Terms())
		if err != nil {
			return dto.ScheduleResponse{}, fmt.Errorf("compute schedule: %w", err)
		}

		resp := toScheduleResponse(schedule)
		id := loan.ID()
		resp.LoanID = &id
		return resp, nil
	})
	if err != nil {
		return dto.ScheduleResponse{}, err
	}

	resp.FromCache = hit
	return resp, nil
}
