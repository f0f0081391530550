package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/internal/domain/port"
	"github.com/aniketri/real-insights-data/internal/domain/valueobject"
	pkgpostgres "github.com/aniketri/real-insights-data/pkg/postgres"
)

var _ port.LoanRepository = (*LoanRepo)(nil)

const loanSelect = `
	SELECT l.id, l.organization_id, l.loan_number,
	       p.id, p.name, p.property_type,
	       le.id, le.name, f.id, f.name,
	       l.original_balance, l.current_balance, l.interest_rate,
	       l.rate_type, l.index_type, l.rate_spread,
	       l.amortization_type, l.payment_frequency, l.amortization_period,
	       l.origination_date, l.maturity_date, l.ltv, l.dscr, l.status,
	       l.version, l.created_at, l.updated_at
	FROM loans l
	JOIN properties p ON p.id = l.property_id
	JOIN lenders le ON le.id = l.lender_id
	LEFT JOIN funds f ON f.id = l.fund_id
`

// loanFilterClause binds $1 organization, $2 property type, $3 lender,
// $4 fund, $5 status and $6 search pattern.
const loanFilterClause = `
	WHERE l.organization_id = $1
	  AND ($2 = '' OR p.property_type = $2)
	  AND ($3 = '' OR le.name = $3)
	  AND ($4 = '' OR f.name = $4)
	  AND ($5 = '' OR upper(l.status) = upper($5))
	  AND ($6 = '' OR l.loan_number ILIKE $6 OR p.name ILIKE $6 OR le.name ILIKE $6)
`

// LoanRepo implements port.LoanRepository.
type LoanRepo struct {
	pool *pgxpool.Pool
}

// NewLoanRepo creates a new PostgreSQL-backed loan repository.
func NewLoanRepo(pool *pgxpool.Pool) *LoanRepo {
	return &LoanRepo{pool: pool}
}

// Save inserts a new loan or updates its servicing fields, guarded by the
// version the aggregate was loaded with.
func (r *LoanRepo) Save(ctx context.Context, loan model.Loan) error {
	var fundID *uuid.UUID
	if f := loan.Fund(); f != nil {
		id := f.ID
		fundID = &id
	}

	query := `
		INSERT INTO loans (
			id, organization_id, loan_number, property_id, lender_id, fund_id,
			original_balance, current_balance, interest_rate,
			rate_type, index_type, rate_spread,
			amortization_type, payment_frequency, amortization_period,
			origination_date, maturity_date, ltv, dscr, status,
			version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
		ON CONFLICT (id) DO UPDATE SET
			current_balance = EXCLUDED.current_balance,
			interest_rate   = EXCLUDED.interest_rate,
			status          = EXCLUDED.status,
			ltv             = EXCLUDED.ltv,
			dscr            = EXCLUDED.dscr,
			maturity_date   = EXCLUDED.maturity_date,
			version         = loans.version + 1,
			updated_at      = EXCLUDED.updated_at
		WHERE loans.version = $21
	`
	tag, err := r.pool.Exec(ctx, query,
		loan.ID(), loan.OrganizationID(), loan.LoanNumber(), loan.Property().ID, loan.Lender().ID, fundID,
		loan.OriginalBalance(), loan.CurrentBalance(), loan.InterestRate(),
		loan.RateType().String(), loan.IndexType(), nullDecimal(loan.RateSpread()),
		loan.AmortizationType().String(), loan.PaymentFrequency().String(), loan.AmortizationPeriod(),
		nullDate(loan.OriginationDate()), loan.MaturityDate(), nullDecimal(loan.LTV()), nullDecimal(loan.DSCR()),
		loan.Status().String(),
		loan.Version(), loan.CreatedAt(), loan.UpdatedAt(),
	)
	if err != nil {
		if pkgpostgres.IsUniqueViolation(err) {
			return fmt.Errorf("%w: loan number %q already exists", model.ErrInvalidLoan, loan.LoanNumber())
		}
		return fmt.Errorf("save loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOptimisticLock
	}
	return nil
}

// Delete removes the loan; its notes cascade.
func (r *LoanRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM loans WHERE organization_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return fmt.Errorf("delete loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrLoanNotFound
	}
	return nil
}

// FindByID retrieves a loan of the organization.
func (r *LoanRepo) FindByID(ctx context.Context, orgID, id uuid.UUID) (model.Loan, error) {
	row := r.pool.QueryRow(ctx, loanSelect+` WHERE l.organization_id = $1 AND l.id = $2`, orgID, id)
	loan, err := scanLoanRow(row)
	if err != nil {
		if pkgpostgres.IsNoRows(err) {
			return model.Loan{}, model.ErrLoanNotFound
		}
		return model.Loan{}, err
	}
	return loan, nil
}

// List returns one page of matching loans ordered by loan number and the
// number of matching loans. Both queries read the same snapshot.
func (r *LoanRepo) List(ctx context.Context, orgID uuid.UUID, f port.LoanFilter) ([]model.Loan, int, error) {
	var (
		loans []model.Loan
		total int
	)
	err := pkgpostgres.WithTransaction(ctx, r.pool, readSnapshot, func(tx pgx.Tx) error {
		var err error
		loans, total, err = listLoans(ctx, tx, orgID, f)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return loans, total, nil
}

// readSnapshot gives multi-statement reads a single consistent view.
var readSnapshot = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

func listLoans(ctx context.Context, q pkgpostgres.Querier, orgID uuid.UUID, f port.LoanFilter) ([]model.Loan, int, error) {
	search := ""
	if f.Search != "" {
		search = containsPattern(f.Search)
	}
	args := []any{orgID, f.PropertyType, f.Lender, f.Fund, f.Status, search}

	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM loans l
		JOIN properties p ON p.id = l.property_id
		JOIN lenders le ON le.id = l.lender_id
		LEFT JOIN funds f ON f.id = l.fund_id
	` + loanFilterClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count loans: %w", err)
	}
	if total == 0 || f.Offset >= total {
		return []model.Loan{}, total, nil
	}

	query := loanSelect + loanFilterClause + loanOrderClause(f) + ` OFFSET $7`
	args = append(args, f.Offset)
	if f.Limit > 0 {
		query += ` LIMIT $8`
		args = append(args, f.Limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list loans: %w", err)
	}
	defer rows.Close()

	var loans []model.Loan
	for rows.Next() {
		loan, err := scanLoanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate loans: %w", err)
	}
	return loans, total, nil
}

func loanOrderClause(f port.LoanFilter) string {
	if f.OrderByBalanceDesc {
		return ` ORDER BY l.current_balance DESC, l.id`
	}
	return ` ORDER BY l.loan_number, l.id`
}

func scanLoanRow(row pgx.Row) (model.Loan, error) {
	var (
		id, orgID                    uuid.UUID
		p                            model.LoanParams
		fundID                       *uuid.UUID
		fundName                     *string
		rateType, amortization, freq string
		status                       string
		rateSpread, ltv, dscr        decimal.NullDecimal
		originationDate              *time.Time
		version                      int
		createdAt, updatedAt         time.Time
	)

	err := row.Scan(
		&id, &orgID, &p.LoanNumber,
		&p.Property.ID, &p.Property.Name, &p.Property.Type,
		&p.Lender.ID, &p.Lender.Name, &fundID, &fundName,
		&p.OriginalBalance, &p.CurrentBalance, &p.InterestRate,
		&rateType, &p.IndexType, &rateSpread,
		&amortization, &freq, &p.AmortizationPeriod,
		&originationDate, &p.MaturityDate, &ltv, &dscr, &status,
		&version, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.Loan{}, fmt.Errorf("scan loan: %w", err)
	}

	p.OrganizationID = orgID
	if fundID != nil && fundName != nil {
		p.Fund = &model.Counterparty{ID: *fundID, Name: *fundName}
	}
	p.RateSpread = decimalPtr(rateSpread)
	p.LTV = decimalPtr(ltv)
	p.DSCR = decimalPtr(dscr)
	p.OriginationDate = dateValue(originationDate)
	p.MaturityDate = p.MaturityDate.UTC()

	if p.RateType, err = valueobject.NewRateType(rateType); err != nil {
		return model.Loan{}, fmt.Errorf("scan loan %s: %w", id, err)
	}
	if p.AmortizationType, err = valueobject.NewAmortizationType(amortization); err != nil {
		return model.Loan{}, fmt.Errorf("scan loan %s: %w", id, err)
	}
	if p.PaymentFrequency, err = valueobject.NewPaymentFrequency(freq); err != nil {
		return model.Loan{}, fmt.Errorf("scan loan %s: %w", id, err)
	}
	if p.Status, err = valueobject.NewLoanStatus(status); err != nil {
		return model.Loan{}, fmt.Errorf("scan loan %s: %w", id, err)
	}

	return model.ReconstructLoan(id, p, version, createdAt, updatedAt), nil
}
