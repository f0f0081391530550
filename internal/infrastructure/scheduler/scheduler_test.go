package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aniketri/real-insights-data/internal/application/dto"
	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/internal/domain/valueobject"
)

type recordingRunner struct {
	mu   sync.Mutex
	reqs []dto.RunReportRequest
	err  error
}

func (r *recordingRunner) Execute(_ context.Context, req dto.RunReportRequest) (dto.ReportRunResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, req)
	return dto.ReportRunResponse{ID: uuid.New(), ReportID: req.ReportID}, r.err
}

type stubReportRepo struct {
	scheduled []model.ReportDefinition
	err       error
}

func (s stubReportRepo) Save(context.Context, model.ReportDefinition) error { return nil }
func (s stubReportRepo) FindByID(context.Context, uuid.UUID, uuid.UUID) (model.ReportDefinition, error) {
	return model.ReportDefinition{}, model.ErrReportNotFound
}
func (s stubReportRepo) ListByOrganization(context.Context, uuid.UUID) ([]model.ReportDefinition, error) {
	return nil, nil
}
func (s stubReportRepo) ListScheduled(context.Context) ([]model.ReportDefinition, error) {
	return s.scheduled, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func definition(schedule string) model.ReportDefinition {
	return model.ReconstructReportDefinition(
		uuid.New(), uuid.New(), uuid.New(), "Monthly summary",
		valueobject.ReportTypePortfolioSummary, valueobject.ReportFormatCSV,
		schedule, model.ReportFilters{}, time.Now().UTC(),
	)
}

func TestCronScheduler_Validate(t *testing.T) {
	s := NewCronScheduler(&recordingRunner{}, discardLogger())

	tests := []struct {
		spec    string
		wantErr bool
	}{
		{spec: "0 6 1 * *"},
		{spec: "*/15 * * * *"},
		{spec: "@daily"},
		{spec: "0 6 1 *", wantErr: true},
		{spec: "every monday", wantErr: true},
		{spec: "61 * * * *", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			err := s.Validate(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCronScheduler_Schedule(t *testing.T) {
	t.Run("registers and replaces entries", func(t *testing.T) {
		s := NewCronScheduler(&recordingRunner{}, discardLogger())
		def := definition("0 6 1 * *")

		require.NoError(t, s.Schedule(def))
		require.NoError(t, s.Schedule(def))
		assert.Equal(t, 1, s.Len())

		s.Start()
		defer func() { _ = s.Stop(context.Background()) }()

		next, ok := s.Next(def.ID())
		require.True(t, ok)
		assert.Equal(t, 1, next.Day())
		assert.Equal(t, 6, next.Hour())
	})

	t.Run("unscheduled definition is removed", func(t *testing.T) {
		s := NewCronScheduler(&recordingRunner{}, discardLogger())
		def := definition("@hourly")
		require.NoError(t, s.Schedule(def))

		cleared := model.ReconstructReportDefinition(def.ID(), def.OrganizationID(), def.CreatedBy(), def.Name(),
			def.ReportType(), def.Format(), "", def.Filters(), def.CreatedAt())
		require.NoError(t, s.Schedule(cleared))
		assert.Zero(t, s.Len())

		_, ok := s.Next(def.ID())
		assert.False(t, ok)
	})

	t.Run("bad expression is rejected", func(t *testing.T) {
		s := NewCronScheduler(&recordingRunner{}, discardLogger())
		assert.Error(t, s.Schedule(definition("not a cron")))
		assert.Zero(t, s.Len())
	})

	t.Run("unschedule", func(t *testing.T) {
		s := NewCronScheduler(&recordingRunner{}, discardLogger())
		def := definition("@daily")
		require.NoError(t, s.Schedule(def))
		s.Unschedule(def.ID())
		assert.Zero(t, s.Len())
	})
}

func TestCronScheduler_Load(t *testing.T) {
	s := NewCronScheduler(&recordingRunner{}, discardLogger())

	loaded, err := s.Load(context.Background(), stubReportRepo{scheduled: []model.ReportDefinition{
		definition("@daily"),
		definition("bogus"),
		definition("0 0 * * 1"),
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, loaded)
	assert.Equal(t, 2, s.Len())

	_, err = s.Load(context.Background(), stubReportRepo{err: errors.New("db down")})
	assert.Error(t, err)
}

func TestCronScheduler_Run(t *testing.T) {
	runner := &recordingRunner{}
	s := NewCronScheduler(runner, discardLogger())
	def := definition("@daily")

	s.run(dto.RunReportRequest{OrganizationID: def.OrganizationID(), ReportID: def.ID()})
	require.Len(t, runner.reqs, 1)
	assert.Equal(t, def.ID(), runner.reqs[0].ReportID)

	runner.err = errors.New("render failed")
	s.run(dto.RunReportRequest{OrganizationID: def.OrganizationID(), ReportID: def.ID()})
	assert.Len(t, runner.reqs, 2)
}
