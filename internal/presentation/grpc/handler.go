package grpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/aniketri/real-insights-data/internal/application/dto"
	"github.com/aniketri/real-insights-data/internal/application/usecase"
	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/pkg/auth"
	"github.com/aniketri/real-insights-data/pkg/money"
)

// Executor is satisfied by the application use cases.
type Executor[Req, Resp any] interface {
	Execute(ctx context.Context, req Req) (Resp, error)
}

// PortfolioHandler implements PortfolioServiceServer on top of the use cases.
type PortfolioHandler struct {
	UnimplementedPortfolioServiceServer

	compute      Executor[dto.ComputeScheduleRequest, dto.ScheduleResponse]
	loanSchedule Executor[dto.LoanRef, dto.ScheduleResponse]
	dashboard    Executor[dto.GetDashboardRequest, dto.DashboardResponse]
	listLoans    Executor[dto.ListLoansRequest, dto.LoanListResponse]
	logger       *slog.Logger
}

// NewPortfolioHandler creates a new gRPC portfolio handler.
func NewPortfolioHandler(
	compute Executor[dto.ComputeScheduleRequest, dto.ScheduleResponse],
	loanSchedule Executor[dto.LoanRef, dto.ScheduleResponse],
	dashboard Executor[dto.GetDashboardRequest, dto.DashboardResponse],
	listLoans Executor[dto.ListLoansRequest, dto.LoanListResponse],
	logger *slog.Logger,
) *PortfolioHandler {
	return &PortfolioHandler{
		compute:      compute,
		loanSchedule: loanSchedule,
		dashboard:    dashboard,
		listLoans:    listLoans,
		logger:       logger,
	}
}

var _ PortfolioServiceServer = (*PortfolioHandler)(nil)

// ComputeSchedule handles the gRPC ComputeSchedule request.
func (h *PortfolioHandler) ComputeSchedule(ctx context.Context, req *ComputeScheduleRequest) (*ScheduleResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	principal, err := money.Parse(req.Principal)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid principal: %q", req.Principal)
	}
	rate, err := money.Parse(req.AnnualRatePercent)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid annual_rate_percent: %q", req.AnnualRatePercent)
	}
	var firstPayment *time.Time
	if req.FirstPaymentDate != "" {
		d, err := time.Parse(time.DateOnly, req.FirstPaymentDate)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid first_payment_date: %q", req.FirstPaymentDate)
		}
		firstPayment = &d
	}

	result, err := h.compute.Execute(ctx, dto.ComputeScheduleRequest{
		FirstPaymentDate:  firstPayment,
		Principal:         principal,
		AnnualRatePercent: rate,
		AmortizationType:  req.AmortizationType,
		TermPayments:      int(req.TermPayments),
		PaymentsPerYear:   int(req.PaymentsPerYear),
	})
	if err != nil {
		return nil, h.statusError(ctx, "ComputeSchedule", err)
	}
	return toScheduleResponse(result), nil
}

// GetLoanSchedule handles the gRPC GetLoanSchedule request.
func (h *PortfolioHandler) GetLoanSchedule(ctx context.Context, req *GetLoanScheduleRequest) (*ScheduleResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	orgID, err := organizationFromContext(ctx)
	if err != nil {
		return nil, err
	}
	loanID, err := uuid.Parse(req.LoanID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid loan_id: %v", err))
	}

	result, err := h.loanSchedule.Execute(ctx, dto.LoanRef{OrganizationID: orgID, LoanID: loanID})
	if err != nil {
		return nil, h.statusError(ctx, "GetLoanSchedule", err)
	}
	return toScheduleResponse(result), nil
}

// GetDashboard handles the gRPC GetDashboard request.
func (h *PortfolioHandler) GetDashboard(ctx context.Context, req *GetDashboardRequest) (*DashboardResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	orgID, err := organizationFromContext(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.dashboard.Execute(ctx, dto.GetDashboardRequest{
		LoanFilters: dto.LoanFilters{
			PropertyType: req.PropertyType,
			Lender:       req.Lender,
			Fund:         req.Fund,
		},
		OrganizationID: orgID,
	})
	if err != nil {
		return nil, h.statusError(ctx, "GetDashboard", err)
	}
	return toDashboardResponse(result), nil
}

// ListLoans handles the gRPC ListLoans request.
func (h *PortfolioHandler) ListLoans(ctx context.Context, req *ListLoansRequest) (*ListLoansResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	orgID, err := organizationFromContext(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.listLoans.Execute(ctx, dto.ListLoansRequest{
		LoanFilters: dto.LoanFilters{
			PropertyType: req.PropertyType,
			Lender:       req.Lender,
			Fund:         req.Fund,
		},
		Status:         req.Status,
		Search:         req.Search,
		OrganizationID: orgID,
		Offset:         int(req.Offset),
		Limit:          int(req.Limit),
	})
	if err != nil {
		return nil, h.statusError(ctx, "ListLoans", err)
	}

	loans := make([]*LoanSummary, 0, len(result.Loans))
	for _, l := range result.Loans {
		loans = append(loans, toLoanSummary(l))
	}
	return &ListLoansResponse{
		Loans:     loans,
		Total:     int32(result.Total),
		Offset:    int32(result.Offset),
		Limit:     int32(result.Limit),
		HasMore:   result.HasMore,
		FromCache: result.FromCache,
	}, nil
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

func organizationFromContext(ctx context.Context) (uuid.UUID, error) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok || claims.OrganizationID == uuid.Nil {
		return uuid.Nil, status.Error(codes.Unauthenticated, "no organization in credentials")
	}
	return claims.OrganizationID, nil
}

// codeFor maps domain and application errors to gRPC codes.
func codeFor(err error) codes.Code {
	var invalid *model.InvalidInputError
	switch {
	case errors.Is(err, model.ErrLoanNotFound):
		return codes.NotFound
	case errors.Is(err, model.ErrOptimisticLock):
		return codes.Aborted
	case errors.As(err, &invalid),
		errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, model.ErrInvalidLoan),
		errors.Is(err, usecase.ErrInvalidPage):
		return codes.InvalidArgument
	default:
		return codes.Internal
	}
}

func (h *PortfolioHandler) statusError(ctx context.Context, method string, err error) error {
	code := codeFor(err)
	if code == codes.Internal {
		h.logger.ErrorContext(ctx, "grpc request failed", "method", method, "error", err)
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}

// ---------------------------------------------------------------------------
// Mapping
// ---------------------------------------------------------------------------

func toScheduleResponse(s dto.ScheduleResponse) *ScheduleResponse {
	entries := make([]*ScheduleEntry, 0, len(s.Schedule))
	for _, e := range s.Schedule {
		entry := &ScheduleEntry{
			Period:           int32(e.Period),
			PaymentAmount:    e.PaymentAmount,
			PrincipalPortion: e.PrincipalPortion,
			InterestPortion:  e.InterestPortion,
			RemainingBalance: e.RemainingBalance,
		}
		if e.DueDate != nil {
			entry.DueDate = e.DueDate.Format(time.DateOnly)
		}
		entries = append(entries, entry)
	}

	resp := &ScheduleResponse{
		Entries:       entries,
		PaymentCount:  int32(s.PaymentCount),
		TotalInterest: s.TotalInterest,
		TotalPaid:     s.TotalPaid,
		FromCache:     s.FromCache,
	}
	if s.LoanID != nil {
		resp.LoanID = s.LoanID.String()
	}
	return resp
}

func toDashboardResponse(d dto.DashboardResponse) *DashboardResponse {
	dist := make(map[string]int32, len(d.StatusDistribution))
	for k, v := range d.StatusDistribution {
		dist[k] = int32(v)
	}
	maturities := make([]*MaturityBucket, 0, len(d.MaturitySchedule))
	for _, m := range d.MaturitySchedule {
		maturities = append(maturities, &MaturityBucket{Year: int32(m.Year), Amount: m.Amount, LoanCount: int32(m.LoanCount)})
	}

	return &DashboardResponse{
		StatusDistribution:           dist,
		DebtByPropertyType:           toBreakdowns(d.DebtByPropertyType),
		DebtByLender:                 toBreakdowns(d.DebtByLender),
		MaturitySchedule:             maturities,
		LoanCount:                    int32(d.LoanCount),
		PropertyCount:                int32(d.PropertyCount),
		TotalCurrentBalance:          d.TotalCurrentBalance,
		TotalOriginalBalance:         d.TotalOriginalBalance,
		WeightedAverageInterestRate:  d.WeightedAverageInterestRate,
		AverageLoanToValue:           d.AverageLoanToValue,
		WeightedAverageMaturityYears: d.WeightedAverageMaturityYears,
		AverageLoanSize:              d.AverageLoanSize,
		LargestLoan:                  d.LargestLoan,
		AverageDSCR:                  d.AverageDSCR,
		HasData:                      d.HasData,
		FromCache:                    d.FromCache,
	}
}

func toBreakdowns(in []dto.BreakdownResponse) []*Breakdown {
	out := make([]*Breakdown, 0, len(in))
	for _, b := range in {
		out = append(out, &Breakdown{Label: b.Label, Amount: b.Amount, LoanCount: int32(b.LoanCount)})
	}
	return out
}

func toLoanSummary(l dto.LoanResponse) *LoanSummary {
	s := &LoanSummary{
		LoanID:         l.ID.String(),
		LoanNumber:     l.LoanNumber,
		PropertyName:   l.Property.Name,
		PropertyType:   l.Property.Type,
		Lender:         l.Lender.Name,
		Status:         l.Status,
		MaturityDate:   l.MaturityDate.Format(time.DateOnly),
		CurrentBalance: l.CurrentBalance,
		InterestRate:   l.InterestRate,
		Version:        int32(l.Version),
	}
	if l.Fund != nil {
		s.Fund = l.Fund.Name
	}
	return s
}
