package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/internal/domain/port"
)

var _ port.CounterpartyRepository = (*CounterpartyRepo)(nil)

// CounterpartyRepo resolves lenders (shared across organizations) and funds
// (per organization) by name.
type CounterpartyRepo struct {
	pool *pgxpool.Pool
}

func NewCounterpartyRepo(pool *pgxpool.Pool) *CounterpartyRepo {
	return &CounterpartyRepo{pool: pool}
}

func (r *CounterpartyRepo) EnsureLender(ctx context.Context, name string) (model.Counterparty, error) {
	var c model.Counterparty
	err := r.pool.QueryRow(ctx, `
		INSERT INTO lenders (id, name) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name
	`, uuid.New(), name).Scan(&c.ID, &c.Name)
	if err != nil {
		return model.Counterparty{}, fmt.Errorf("ensure lender: %w", err)
	}
	return c, nil
}

func (r *CounterpartyRepo) EnsureFund(ctx context.Context, orgID uuid.UUID, name string) (model.Counterparty, error) {
	var c model.Counterparty
	err := r.pool.QueryRow(ctx, `
		INSERT INTO funds (id, organization_id, name) VALUES ($1, $2, $3)
		ON CONFLICT (organization_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name
	`, uuid.New(), orgID, name).Scan(&c.ID, &c.Name)
	if err != nil {
		return model.Counterparty{}, fmt.Errorf("ensure fund: %w", err)
	}
	return c, nil
}
