package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aniketri/real-insights-data/internal/application/dto"
	"github.com/aniketri/real-insights-data/internal/domain/event"
	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/internal/domain/port"
	"github.com/aniketri/real-insights-data/internal/domain/service"
	"github.com/aniketri/real-insights-data/internal/domain/valueobject"
	"github.com/aniketri/real-insights-data/pkg/money"
)

// GetReportsUseCase returns the reports page: metrics and saved definitions.
type GetReportsUseCase struct {
	loanRepo     port.LoanRepository
	propertyRepo port.PropertyRepository
	reportRepo   port.ReportRepository
}

// NewGetReportsUseCase wires dependencies.
func NewGetReportsUseCase(
	loanRepo port.LoanRepository,
	propertyRepo port.PropertyRepository,
	reportRepo port.ReportRepository,
) *GetReportsUseCase {
	return &GetReportsUseCase{loanRepo: loanRepo, propertyRepo: propertyRepo, reportRepo: reportRepo}
}

// Execute computes the organization's report metrics.
func (uc *GetReportsUseCase) Execute(ctx context.Context, orgID uuid.UUID) (dto.ReportsOverviewResponse, error) {
	loans, _, err := uc.loanRepo.List(ctx, orgID, port.LoanFilter{})
	if err != nil {
		return dto.ReportsOverviewResponse{}, fmt.Errorf("list loans: %w", err)
	}
	properties, err := uc.propertyRepo.ListRecords(ctx, orgID)
	if err != nil {
		return dto.ReportsOverviewResponse{}, fmt.Errorf("list properties: %w", err)
	}
	defs, err := uc.reportRepo.ListByOrganization(ctx, orgID)
	if err != nil {
		return dto.ReportsOverviewResponse{}, fmt.Errorf("list reports: %w", err)
	}

	m := service.SummarizeReportMetrics(properties, toLoanRecords(loans))

	resp := dto.ReportsOverviewResponse{
		Metrics: dto.ReportMetricsResponse{
			TotalPortfolioValue:  money.Float(m.TotalPortfolioValue),
			TotalDebt:            money.Float(m.TotalDebt),
			AverageDSCR:          money.Float(m.AverageDSCR),
			AverageLTV:           money.Float(m.AverageLTV),
			TotalNOI:             money.Float(m.TotalNOI),
			AverageOccupancyRate: money.Float(m.AverageOccupancyRate),
		},
		Summary: dto.ReportCountsResponse{
			TotalLoans:      m.TotalLoans,
			TotalProperties: m.TotalProperties,
			SavedReports:    len(defs),
			HasData:         m.TotalLoans > 0 || m.TotalProperties > 0,
		},
		Reports: make([]dto.ReportDefinitionResponse, 0, len(defs)),
	}
	for _, d := range defs {
		resp.Reports = append(resp.Reports, toReportDefinitionResponse(d))
	}
	return resp, nil
}

// CreateReportUseCase saves a report definition and schedules it when it carries a cron expression.
type CreateReportUseCase struct {
	reportRepo port.ReportRepository
	scheduler  port.ReportScheduler
	publisher  port.EventPublisher
	logger     *slog.Logger
}

// NewCreateReportUseCase wires dependencies.
func NewCreateReportUseCase(
	reportRepo port.ReportRepository,
	scheduler port.ReportScheduler,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *CreateReportUseCase {
	return &CreateReportUseCase{reportRepo: reportRepo, scheduler: scheduler, publisher: publisher, logger: logger}
}

// Execute validates and saves the definition.
func (uc *CreateReportUseCase) Execute(ctx context.Context, req dto.CreateReportRequest) (dto.ReportDefinitionResponse, error) {
	reportType, err := valueobject.NewReportType(req.ReportType)
	if err != nil {
		return dto.ReportDefinitionResponse{}, fmt.Errorf("%w: %v", model.ErrInvalidReport, err)
	}
	format, err := valueobject.NewReportFormat(req.Format)
	if err != nil {
		return dto.ReportDefinitionResponse{}, fmt.Errorf("%w: %v", model.ErrInvalidReport, err)
	}

	def, err := model.NewReportDefinition(
		req.OrganizationID, req.CreatedBy, req.Name, reportType, format, req.Schedule,
		model.ReportFilters{PropertyType: req.Filters.PropertyType, Lender: req.Filters.Lender, Fund: req.Filters.Fund},
		time.Now().UTC(),
	)
	if err != nil {
		return dto.ReportDefinitionResponse{}, fmt.Errorf("create report: %w", err)
	}
	if def.IsScheduled() {
		if err := uc.scheduler.Validate(def.Schedule()); err != nil {
			return dto.ReportDefinitionResponse{}, fmt.Errorf("%w: schedule: %v", model.ErrInvalidReport, err)
		}
	}

	if err := uc.reportRepo.Save(ctx, def); err != nil {
		return dto.ReportDefinitionResponse{}, fmt.Errorf("save report: %w", err)
	}

	if def.IsScheduled() {
		if err := uc.scheduler.Schedule(def); err != nil {
			uc.logger.ErrorContext(ctx, "schedule report", "report_id", def.ID(), "error", err)
		}
	}
	if err := uc.publisher.Publish(ctx, def.DomainEvents()...); err != nil {
		uc.logger.ErrorContext(ctx, "publish report events", "report_id", def.ID(), "error", err)
	}
	return toReportDefinitionResponse(def), nil
}

// RunReportUseCase renders a report for the current data and archives the artifact.
type RunReportUseCase struct {
	reportRepo port.ReportRepository
	loanRepo   port.LoanRepository
	runRepo    port.ReportRunRepository
	renderer   port.ReportRenderer
	archive    port.ReportArchive
	publisher  port.EventPublisher
	logger     *slog.Logger
}

// NewRunReportUseCase wires dependencies.
func NewRunReportUseCase(
	reportRepo port.ReportRepository,
	loanRepo port.LoanRepository,
	runRepo port.ReportRunRepository,
	renderer port.ReportRenderer,
	archive port.ReportArchive,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *RunReportUseCase {
	return &RunReportUseCase{
		reportRepo: reportRepo,
		loanRepo:   loanRepo,
		runRepo:    runRepo,
		renderer:   renderer,
		archive:    archive,
		publisher:  publisher,
		logger:     logger,
	}
}

// Execute generates one run of the report.
func (uc *RunReportUseCase) Execute(ctx context.Context, req dto.RunReportRequest) (dto.ReportRunResponse, error) {
	now := time.Now().UTC()

	// 1. Load the definition and its loans.
	def, err := uc.reportRepo.FindByID(ctx, req.OrganizationID, req.ReportID)
	if err != nil {
		return dto.ReportRunResponse{}, fmt.Errorf("find report: %w", err)
	}
	f := def.Filters()
	loans, _, err := uc.loanRepo.List(ctx, req.OrganizationID, port.LoanFilter{
		PropertyType: f.PropertyType,
		Lender:       f.Lender,
		Fund:         f.Fund,
	})
	if err != nil {
		return dto.ReportRunResponse{}, fmt.Errorf("list loans: %w", err)
	}

	// 2. Render.
	doc := service.BuildReportDocument(def, toLoanRecords(loans), now)
	data, err := uc.renderer.Render(doc, def.Format())
	if err != nil {
		return dto.ReportRunResponse{}, fmt.Errorf("render report: %w", err)
	}

	// 3. Archive.
	run := model.ReportRun{
		ID:             uuid.New(),
		ReportID:       def.ID(),
		OrganizationID: def.OrganizationID(),
		Format:         def.Format(),
		SizeBytes:      len(data),
		GeneratedAt:    now,
	}
	key := fmt.Sprintf("reports/%s/%s/%s.%s", run.OrganizationID, run.ReportID, run.ID, def.Format().Extension())
	run.Location, err = uc.archive.Store(ctx, key, def.Format().ContentType(), data)
	if err != nil {
		return dto.ReportRunResponse{}, fmt.Errorf("archive report: %w", err)
	}
	if run.Location == model.InlineLocation {
		run.Content = data
	}

	// 4. Record and announce.
	if err := uc.runRepo.Save(ctx, run); err != nil {
		return dto.ReportRunResponse{}, fmt.Errorf("save report run: %w", err)
	}

	generated := event.NewReportGenerated(def.ID(), def.OrganizationID(), run.ID, def.Format().String(), run.Location, run.SizeBytes)
	if err := uc.publisher.Publish(ctx, generated); err != nil {
		uc.logger.ErrorContext(ctx, "publish report events", "report_id", def.ID(), "error", err)
	}

	uc.logger.InfoContext(ctx, "report generated",
		"report_id", def.ID(),
		"run_id", run.ID,
		"format", def.Format().String(),
		"size_bytes", run.SizeBytes,
		"location", run.Location,
	)
	return toReportRunResponse(run), nil
}

// DefaultRunHistory is the number of runs returned when no limit is given.
const DefaultRunHistory = 20

// ListReportRunsUseCase returns the latest runs of a report.
type ListReportRunsUseCase struct {
	reportRepo port.ReportRepository
	runRepo    port.ReportRunRepository
}

// NewListReportRunsUseCase wires dependencies.
func NewListReportRunsUseCase(reportRepo port.ReportRepository, runRepo port.ReportRunRepository) *ListReportRunsUseCase {
	return &ListReportRunsUseCase{reportRepo: reportRepo, runRepo: runRepo}
}

// Execute lists runs newest first. A limit <= 0 selects DefaultRunHistory.
func (uc *ListReportRunsUseCase) Execute(ctx context.Context, orgID, reportID uuid.UUID, limit int) ([]dto.ReportRunResponse, error) {
	if _, err := uc.reportRepo.FindByID(ctx, orgID, reportID); err != nil {
		return nil, fmt.Errorf("find report: %w", err)
	}
	if limit <= 0 {
		limit = DefaultRunHistory
	}

	runs, err := uc.runRepo.ListByReport(ctx, orgID, reportID, limit)
	if err != nil {
		return nil, fmt.Errorf("list report runs: %w", err)
	}

	resp := make([]dto.ReportRunResponse, 0, len(runs))
	for _, r := range runs {
		resp = append(resp, toReportRunResponse(r))
	}
	return resp, nil
}
