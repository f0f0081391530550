package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aniketri/real-insights-data/internal/application/dto"
	"github.com/aniketri/real-insights-data/internal/domain/event"
	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/internal/domain/port"
	"github.com/aniketri/real-insights-data/internal/domain/valueobject"
)

// Listing page sizes.
const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// ErrInvalidPage is returned for a negative offset or a limit outside 1..MaxPageSize.
var ErrInvalidPage = fmt.Errorf("invalid page: offset must be >= 0 and limit between 1 and %d", MaxPageSize)

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// GetLoanUseCase retrieves a loan by ID.
type GetLoanUseCase struct {
	loanRepo port.LoanRepository
}

// NewGetLoanUseCase wires dependencies.
func NewGetLoanUseCase(loanRepo port.LoanRepository) *GetLoanUseCase {
	return &GetLoanUseCase{loanRepo: loanRepo}
}

// Execute returns a loan response for the given ID.
func (uc *GetLoanUseCase) Execute(ctx context.Context, req dto.LoanRef) (dto.LoanResponse, error) {
	loan, err := uc.loanRepo.FindByID(ctx, req.OrganizationID, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}
	return toLoanResponse(loan), nil
}

// ListLoansUseCase returns a filtered page of loans, cached per query.
type ListLoansUseCase struct {
	loanRepo port.LoanRepository
	cache    port.ResultCache
	logger   *slog.Logger
	ttl      time.Duration
}

// NewListLoansUseCase wires dependencies.
func NewListLoansUseCase(
	loanRepo port.LoanRepository,
	cache port.ResultCache,
	logger *slog.Logger,
	ttl time.Duration,
) *ListLoansUseCase {
	return &ListLoansUseCase{loanRepo: loanRepo, cache: cache, logger: logger, ttl: ttl}
}

// Execute applies the page defaults (offset 0, limit 25) and lists loans.
func (uc *ListLoansUseCase) Execute(ctx context.Context, req dto.ListLoansRequest) (dto.LoanListResponse, error) {
	if req.Limit == 0 {
		req.Limit = DefaultPageSize
	}
	if req.Offset < 0 || req.Limit < 0 || req.Limit > MaxPageSize {
		return dto.LoanListResponse{}, ErrInvalidPage
	}

	filter := port.LoanFilter{
		PropertyType: strings.TrimSpace(req.PropertyType),
		Lender:       strings.TrimSpace(req.Lender),
		Fund:         strings.TrimSpace(req.Fund),
		Status:       strings.TrimSpace(req.Status),
		Search:       strings.TrimSpace(req.Search),
		Offset:       req.Offset,
		Limit:        req.Limit,
	}
	key := LoansCacheKey(req.OrganizationID, filter)

	resp, hit, err := memoize(ctx, uc.cache, uc.logger, key, uc.ttl, func(ctx context.Context) (dto.LoanListResponse, error) {
		loans, total, err := uc.loanRepo.List(ctx, req.OrganizationID, filter)
		if err != nil {
			return dto.LoanListResponse{}, fmt.Errorf("list loans: %w", err)
		}
		return dto.LoanListResponse{
			Loans:   toLoanResponses(loans),
			Total:   total,
			Offset:  filter.Offset,
			Limit:   filter.Limit,
			HasMore: filter.Offset+len(loans) < total,
		}, nil
	})
	if err != nil {
		return dto.LoanListResponse{}, err
	}

	resp.FromCache = hit
	return resp, nil
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

// loanWriter is shared by the loan commands: every committed write drops the
// organization's cached results and publishes the aggregate's events.
type loanWriter struct {
	loanRepo    port.LoanRepository
	publisher   port.EventPublisher
	invalidator *CacheInvalidator
	logger      *slog.Logger
}

// afterCommit runs once the write is durable. Publish failures are logged:
// the write already happened and other instances fall back to the cache TTL.
func (w loanWriter) afterCommit(ctx context.Context, orgID uuid.UUID, events []event.DomainEvent) {
	w.invalidator.InvalidateOrganization(ctx, orgID)
	if err := w.publisher.Publish(ctx, events...); err != nil {
		w.logger.ErrorContext(ctx, "publish loan events", "organization_id", orgID, "error", err)
	}
}

// CreateLoanUseCase adds a loan to the organization's portfolio.
type CreateLoanUseCase struct {
	loanWriter
	propertyRepo     port.PropertyRepository
	counterpartyRepo port.CounterpartyRepository
}

// NewCreateLoanUseCase wires dependencies.
func NewCreateLoanUseCase(
	loanRepo port.LoanRepository,
	propertyRepo port.PropertyRepository,
	counterpartyRepo port.CounterpartyRepository,
	publisher port.EventPublisher,
	invalidator *CacheInvalidator,
	logger *slog.Logger,
) *CreateLoanUseCase {
	return &CreateLoanUseCase{
		loanWriter:       loanWriter{loanRepo: loanRepo, publisher: publisher, invalidator: invalidator, logger: logger},
		propertyRepo:     propertyRepo,
		counterpartyRepo: counterpartyRepo,
	}
}

// Execute validates, persists and announces the new loan.
func (uc *CreateLoanUseCase) Execute(ctx context.Context, req dto.CreateLoanRequest) (dto.LoanResponse, error) {
	now := time.Now().UTC()

	// 1. Parse enumerations.
	params, err := loanParamsFromRequest(req)
	if err != nil {
		return dto.LoanResponse{}, err
	}

	// 2. Resolve references.
	property, err := uc.propertyRepo.FindRef(ctx, req.OrganizationID, req.PropertyID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find property: %w", err)
	}
	params.Property = property

	if strings.TrimSpace(req.LenderName) == "" {
		return dto.LoanResponse{}, fmt.Errorf("%w: lender is required", model.ErrInvalidLoan)
	}
	lender, err := uc.counterpartyRepo.EnsureLender(ctx, strings.TrimSpace(req.LenderName))
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("resolve lender: %w", err)
	}
	params.Lender = lender

	if name := strings.TrimSpace(req.FundName); name != "" {
		fund, err := uc.counterpartyRepo.EnsureFund(ctx, req.OrganizationID, name)
		if err != nil {
			return dto.LoanResponse{}, fmt.Errorf("resolve fund: %w", err)
		}
		params.Fund = &fund
	}

	// 3. Create the aggregate.
	loan, err := model.NewLoan(params, now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("create loan: %w", err)
	}

	// 4. Persist.
	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}

	// 5. Invalidate and publish.
	uc.afterCommit(ctx, loan.OrganizationID(), loan.DomainEvents())
	return toLoanResponse(loan), nil
}

func loanParamsFromRequest(req dto.CreateLoanRequest) (model.LoanParams, error) {
	amortization, err := valueobject.NewAmortizationType(req.AmortizationType)
	if err != nil {
		return model.LoanParams{}, fmt.Errorf("%w: %v", model.ErrInvalidLoan, err)
	}
	frequency, err := valueobject.NewPaymentFrequency(req.PaymentFrequency)
	if err != nil {
		return model.LoanParams{}, fmt.Errorf("%w: %v", model.ErrInvalidLoan, err)
	}

	params := model.LoanParams{
		OrganizationID:     req.OrganizationID,
		LoanNumber:         req.LoanNumber,
		OriginalBalance:    req.OriginalBalance,
		CurrentBalance:     req.CurrentBalance,
		InterestRate:       req.InterestRate,
		IndexType:          strings.TrimSpace(req.IndexType),
		RateSpread:         req.RateSpread,
		AmortizationType:   amortization,
		PaymentFrequency:   frequency,
		AmortizationPeriod: req.AmortizationPeriod,
		OriginationDate:    dateOrZero(req.OriginationDate),
		MaturityDate:       req.MaturityDate,
		LTV:                req.LTV,
		DSCR:               req.DSCR,
	}
	if req.RateType != "" {
		if params.RateType, err = valueobject.NewRateType(req.RateType); err != nil {
			return model.LoanParams{}, fmt.Errorf("%w: %v", model.ErrInvalidLoan, err)
		}
	}
	if req.Status != "" {
		if params.Status, err = valueobject.NewLoanStatus(req.Status); err != nil {
			return model.LoanParams{}, fmt.Errorf("%w: %v", model.ErrInvalidLoan, err)
		}
	}
	return params, nil
}

// UpdateLoanUseCase applies a partial update of servicing fields.
type UpdateLoanUseCase struct {
	loanWriter
}

// NewUpdateLoanUseCase wires dependencies.
func NewUpdateLoanUseCase(
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
	invalidator *CacheInvalidator,
	logger *slog.Logger,
) *UpdateLoanUseCase {
	return &UpdateLoanUseCase{
		loanWriter: loanWriter{loanRepo: loanRepo, publisher: publisher, invalidator: invalidator, logger: logger},
	}
}

// Execute loads, updates and saves the loan. A concurrent update fails with
// model.ErrOptimisticLock.
func (uc *UpdateLoanUseCase) Execute(ctx context.Context, req dto.UpdateLoanRequest) (dto.LoanResponse, error) {
	now := time.Now().UTC()

	loan, err := uc.loanRepo.FindByID(ctx, req.OrganizationID, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}

	changes := model.LoanChanges{
		CurrentBalance: req.CurrentBalance,
		InterestRate:   req.InterestRate,
		LTV:            req.LTV,
		DSCR:           req.DSCR,
		MaturityDate:   req.MaturityDate,
	}
	if req.Status != nil {
		status, err := valueobject.NewLoanStatus(*req.Status)
		if err != nil {
			return dto.LoanResponse{}, fmt.Errorf("update loan: %w: %v", model.ErrInvalidLoan, err)
		}
		changes.Status = &status
	}

	loan, err = loan.Update(changes, now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("update loan: %w", err)
	}

	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}

	uc.afterCommit(ctx, loan.OrganizationID(), loan.DomainEvents())

	resp := toLoanResponse(loan)
	resp.Version = loan.Version() + 1
	return resp, nil
}

// DeleteLoanUseCase removes a loan and its notes.
type DeleteLoanUseCase struct {
	loanWriter
}

// NewDeleteLoanUseCase wires dependencies.
func NewDeleteLoanUseCase(
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
	invalidator *CacheInvalidator,
	logger *slog.Logger,
) *DeleteLoanUseCase {
	return &DeleteLoanUseCase{
		loanWriter: loanWriter{loanRepo: loanRepo, publisher: publisher, invalidator: invalidator, logger: logger},
	}
}

// Execute deletes the loan.
func (uc *DeleteLoanUseCase) Execute(ctx context.Context, req dto.LoanRef) error {
	loan, err := uc.loanRepo.FindByID(ctx, req.OrganizationID, req.LoanID)
	if err != nil {
		return fmt.Errorf("find loan: %w", err)
	}

	if err := uc.loanRepo.Delete(ctx, req.OrganizationID, req.LoanID); err != nil {
		return fmt.Errorf("delete loan: %w", err)
	}

	loan = loan.Delete(time.Now().UTC())
	uc.afterCommit(ctx, req.OrganizationID, loan.DomainEvents())
	return nil
}
