package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/aniketri/real-insights-data/internal/application/dto"
	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/internal/domain/port"
	"github.com/aniketri/real-insights-data/internal/domain/service"
)

const (
	// MaxDashboardLoans bounds the loans a dashboard aggregates.
	MaxDashboardLoans = 5000
	// DashboardSampleSize is the number of largest loans returned with a dashboard.
	DashboardSampleSize = 50
)

// GetDashboardUseCase aggregates an organization's loans, cached per filter set.
type GetDashboardUseCase struct {
	loanRepo     port.LoanRepository
	propertyRepo port.PropertyRepository
	cache        port.ResultCache
	logger       *slog.Logger
	ttl          time.Duration
}

// NewGetDashboardUseCase wires dependencies.
func NewGetDashboardUseCase(
	loanRepo port.LoanRepository,
	propertyRepo port.PropertyRepository,
	cache port.ResultCache,
	logger *slog.Logger,
	ttl time.Duration,
) *GetDashboardUseCase {
	return &GetDashboardUseCase{
		loanRepo:     loanRepo,
		propertyRepo: propertyRepo,
		cache:        cache,
		logger:       logger,
		ttl:          ttl,
	}
}

// Execute returns the dashboard for the filtered loans.
func (uc *GetDashboardUseCase) Execute(ctx context.Context, req dto.GetDashboardRequest) (dto.DashboardResponse, error) {
	filter := port.LoanFilter{
		PropertyType: strings.TrimSpace(req.PropertyType),
		Lender:       strings.TrimSpace(req.Lender),
		Fund:         strings.TrimSpace(req.Fund),
		Limit:        MaxDashboardLoans,

		OrderByBalanceDesc: true,
	}
	key := DashboardCacheKey(req.OrganizationID, filter.PropertyType, filter.Lender, filter.Fund)

	resp, hit, err := memoize(ctx, uc.cache, uc.logger, key, uc.ttl, func(ctx context.Context) (dto.DashboardResponse, error) {
		loans, _, err := uc.loanRepo.List(ctx, req.OrganizationID, filter)
		if err != nil {
			return dto.DashboardResponse{}, fmt.Errorf("list loans: %w", err)
		}
		propertyCount, err := uc.propertyRepo.Count(ctx, req.OrganizationID)
		if err != nil {
			return dto.DashboardResponse{}, fmt.Errorf("count properties: %w", err)
		}

		dashboard := service.BuildDashboard(toLoanRecords(loans), time.Now().UTC())

		resp := toDashboardResponse(dashboard)
		resp.Loans = toLoanResponses(largestLoans(loans, DashboardSampleSize))
		resp.PropertyCount = propertyCount
		resp.HasData = len(loans) > 0 || propertyCount > 0
		return resp, nil
	})
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	resp.FromCache = hit
	return resp, nil
}

// largestLoans returns up to n loans by descending current balance.
func largestLoans(loans []model.Loan, n int) []model.Loan {
	sorted := make([]model.Loan, len(loans))
	copy(sorted, loans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CurrentBalance().GreaterThan(sorted[j].CurrentBalance())
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
