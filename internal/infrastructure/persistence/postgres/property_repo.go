package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/internal/domain/port"
	"github.com/aniketri/real-insights-data/internal/domain/service"
	pkgpostgres "github.com/aniketri/real-insights-data/pkg/postgres"
)

var _ port.PropertyRepository = (*PropertyRepo)(nil)

// PropertyRepo reads properties. They are managed outside this service.
type PropertyRepo struct {
	pool *pgxpool.Pool
}

func NewPropertyRepo(pool *pgxpool.Pool) *PropertyRepo {
	return &PropertyRepo{pool: pool}
}

func (r *PropertyRepo) FindRef(ctx context.Context, orgID, id uuid.UUID) (model.PropertyRef, error) {
	var ref model.PropertyRef
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, property_type FROM properties WHERE organization_id = $1 AND id = $2`,
		orgID, id,
	).Scan(&ref.ID, &ref.Name, &ref.Type)
	if err != nil {
		if pkgpostgres.IsNoRows(err) {
			return model.PropertyRef{}, model.ErrPropertyNotFound
		}
		return model.PropertyRef{}, fmt.Errorf("find property: %w", err)
	}
	return ref, nil
}

func (r *PropertyRepo) ListRecords(ctx context.Context, orgID uuid.UUID) ([]service.PropertyRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT property_type, current_value, purchase_price, annual_noi, occupancy_rate
		FROM properties
		WHERE organization_id = $1
		ORDER BY name
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	var records []service.PropertyRecord
	for rows.Next() {
		var (
			rec                         service.PropertyRecord
			value, price, noi, occupied decimal.NullDecimal
		)
		if err := rows.Scan(&rec.PropertyType, &value, &price, &noi, &occupied); err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		rec.CurrentValue = decimalPtr(value)
		rec.PurchasePrice = decimalPtr(price)
		rec.AnnualNOI = decimalPtr(noi)
		rec.OccupancyRate = decimalPtr(occupied)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate properties: %w", err)
	}
	return records, nil
}

func (r *PropertyRepo) Count(ctx context.Context, orgID uuid.UUID) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM properties WHERE organization_id = $1`, orgID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count properties: %w", err)
	}
	return n, nil
}
