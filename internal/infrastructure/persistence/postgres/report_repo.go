package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/internal/domain/port"
	"github.com/aniketri/real-insights-data/internal/domain/valueobject"
	pkgpostgres "github.com/aniketri/real-insights-data/pkg/postgres"
)

var (
	_ port.ReportRepository    = (*ReportRepo)(nil)
	_ port.ReportRunRepository = (*ReportRunRepo)(nil)
)

const reportColumns = `id, organization_id, created_by, name, report_type, format, schedule, filters, created_at`

// ReportRepo implements port.ReportRepository.
type ReportRepo struct {
	pool *pgxpool.Pool
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

func (r *ReportRepo) Save(ctx context.Context, def model.ReportDefinition) error {
	filters, err := json.Marshal(def.Filters())
	if err != nil {
		return fmt.Errorf("encode report filters: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO report_definitions (`+reportColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name        = EXCLUDED.name,
			report_type = EXCLUDED.report_type,
			format      = EXCLUDED.format,
			schedule    = EXCLUDED.schedule,
			filters     = EXCLUDED.filters
	`,
		def.ID(), def.OrganizationID(), def.CreatedBy(), def.Name(),
		def.ReportType().String(), def.Format().String(), def.Schedule(), filters, def.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func (r *ReportRepo) FindByID(ctx context.Context, orgID, id uuid.UUID) (model.ReportDefinition, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM report_definitions WHERE organization_id = $1 AND id = $2`, orgID, id)
	def, err := scanReportRow(row)
	if err != nil {
		if pkgpostgres.IsNoRows(err) {
			return model.ReportDefinition{}, model.ErrReportNotFound
		}
		return model.ReportDefinition{}, err
	}
	return def, nil
}

func (r *ReportRepo) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]model.ReportDefinition, error) {
	return r.list(ctx, `SELECT `+reportColumns+` FROM report_definitions
		WHERE organization_id = $1 ORDER BY created_at DESC, id`, orgID)
}

func (r *ReportRepo) ListScheduled(ctx context.Context) ([]model.ReportDefinition, error) {
	return r.list(ctx, `SELECT `+reportColumns+` FROM report_definitions
		WHERE schedule <> '' ORDER BY created_at, id`)
}

func (r *ReportRepo) list(ctx context.Context, query string, args ...any) ([]model.ReportDefinition, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	defs := []model.ReportDefinition{}
	for rows.Next() {
		def, err := scanReportRow(rows)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return defs, nil
}

func scanReportRow(row pgx.Row) (model.ReportDefinition, error) {
	var (
		id, orgID, createdBy     uuid.UUID
		name, reportType, format string
		schedule                 string
		rawFilters               []byte
		createdAt                time.Time
	)
	if err := row.Scan(&id, &orgID, &createdBy, &name, &reportType, &format, &schedule, &rawFilters, &createdAt); err != nil {
		return model.ReportDefinition{}, fmt.Errorf("scan report: %w", err)
	}

	var filters model.ReportFilters
	if len(rawFilters) > 0 {
		if err := json.Unmarshal(rawFilters, &filters); err != nil {
			return model.ReportDefinition{}, fmt.Errorf("decode report %s filters: %w", id, err)
		}
	}
	rt, err := valueobject.NewReportType(reportType)
	if err != nil {
		return model.ReportDefinition{}, fmt.Errorf("scan report %s: %w", id, err)
	}
	rf, err := valueobject.NewReportFormat(format)
	if err != nil {
		return model.ReportDefinition{}, fmt.Errorf("scan report %s: %w", id, err)
	}

	return model.ReconstructReportDefinition(id, orgID, createdBy, name, rt, rf, schedule, filters, createdAt), nil
}

// ReportRunRepo implements port.ReportRunRepository.
type ReportRunRepo struct {
	pool *pgxpool.Pool
}

func NewReportRunRepo(pool *pgxpool.Pool) *ReportRunRepo {
	return &ReportRunRepo{pool: pool}
}

func (r *ReportRunRepo) Save(ctx context.Context, run model.ReportRun) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO report_runs (id, report_id, organization_id, format, location, content, size_bytes, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, run.ID, run.ReportID, run.OrganizationID, run.Format.String(), run.Location, run.Content, run.SizeBytes, run.GeneratedAt)
	if err != nil {
		return fmt.Errorf("save report run: %w", err)
	}
	return nil
}

// ListByReport returns the newest runs first. A limit <= 0 returns every run.
func (r *ReportRunRepo) ListByReport(ctx context.Context, orgID, reportID uuid.UUID, limit int) ([]model.ReportRun, error) {
	query := `
		SELECT id, report_id, organization_id, format, location, content, size_bytes, generated_at
		FROM report_runs
		WHERE organization_id = $1 AND report_id = $2
		ORDER BY generated_at DESC, id
	`
	args := []any{orgID, reportID}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list report runs: %w", err)
	}
	defer rows.Close()

	runs := []model.ReportRun{}
	for rows.Next() {
		var (
			run    model.ReportRun
			format string
		)
		if err := rows.Scan(&run.ID, &run.ReportID, &run.OrganizationID, &format, &run.Location,
			&run.Content, &run.SizeBytes, &run.GeneratedAt); err != nil {
			return nil, fmt.Errorf("scan report run: %w", err)
		}
		if run.Format, err = valueobject.NewReportFormat(format); err != nil {
			return nil, fmt.Errorf("scan report run %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report runs: %w", err)
	}
	return runs, nil
}
