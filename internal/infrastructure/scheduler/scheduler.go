package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/aniketri/real-insights-data/internal/application/dto"
	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/internal/domain/port"
)

var _ port.ReportScheduler = (*CronScheduler)(nil)

// DefaultRunTimeout bounds a single scheduled report run.
const DefaultRunTimeout = 2 * time.Minute

// ReportRunner generates one run of a report.
type ReportRunner interface {
	Execute(ctx context.Context, req dto.RunReportRequest) (dto.ReportRunResponse, error)
}

// CronScheduler runs report definitions on standard five-field cron
// expressions. Rescheduling a definition replaces its previous entry.
type CronScheduler struct {
	cron       *cron.Cron
	runner     ReportRunner
	logger     *slog.Logger
	entries    map[uuid.UUID]cron.EntryID
	runTimeout time.Duration
	mu         sync.Mutex
}

// NewCronScheduler creates a stopped scheduler. Times are evaluated in UTC.
func NewCronScheduler(runner ReportRunner, logger *slog.Logger) *CronScheduler {
	return &CronScheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		runner:     runner,
		logger:     logger,
		entries:    make(map[uuid.UUID]cron.EntryID),
		runTimeout: DefaultRunTimeout,
	}
}

// Validate parses spec as a standard cron expression (descriptors such as
// @daily are accepted).
func (s *CronScheduler) Validate(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	return nil
}

// Schedule registers the definition. Unscheduled definitions are removed.
func (s *CronScheduler) Schedule(def model.ReportDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.entries[def.ID()]; ok {
		s.cron.Remove(id)
		delete(s.entries, def.ID())
	}
	if !def.IsScheduled() {
		return nil
	}

	req := dto.RunReportRequest{OrganizationID: def.OrganizationID(), ReportID: def.ID()}
	id, err := s.cron.AddFunc(def.Schedule(), func() { s.run(req) })
	if err != nil {
		return fmt.Errorf("schedule report %s: %w", def.ID(), err)
	}
	s.entries[def.ID()] = id

	s.logger.Info("report scheduled",
		"report_id", def.ID(),
		"organization_id", def.OrganizationID(),
		"schedule", def.Schedule(),
	)
	return nil
}

// Unschedule removes a report's entry, if any.
func (s *CronScheduler) Unschedule(reportID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.entries[reportID]; ok {
		s.cron.Remove(id)
		delete(s.entries, reportID)
	}
}

// Load schedules every stored definition that carries a schedule. A bad
// expression is logged and skipped.
func (s *CronScheduler) Load(ctx context.Context, repo port.ReportRepository) (int, error) {
	defs, err := repo.ListScheduled(ctx)
	if err != nil {
		return 0, fmt.Errorf("list scheduled reports: %w", err)
	}

	loaded := 0
	for _, def := range defs {
		if err := s.Schedule(def); err != nil {
			s.logger.WarnContext(ctx, "skipping scheduled report", "report_id", def.ID(), "error", err)
			continue
		}
		loaded++
	}
	return loaded, nil
}

// Len returns the number of scheduled reports.
func (s *CronScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Next returns the next activation of a scheduled report.
func (s *CronScheduler) Next(reportID uuid.UUID) (time.Time, bool) {
	s.mu.Lock()
	id, ok := s.entries[reportID]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(id).Next, true
}

// Start runs the scheduler in its own goroutine.
func (s *CronScheduler) Start() {
	s.cron.Start()
}

// Stop halts new activations and waits for running reports until ctx is done.
func (s *CronScheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *CronScheduler) run(req dto.RunReportRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	start := time.Now()
	resp, err := s.runner.Execute(ctx, req)
	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled report failed",
			"report_id", req.ReportID,
			"organization_id", req.OrganizationID,
			"error", err,
		)
		return
	}
	s.logger.InfoContext(ctx, "scheduled report completed",
		"report_id", req.ReportID,
		"run_id", resp.ID,
		"duration", time.Since(start),
	)
}
