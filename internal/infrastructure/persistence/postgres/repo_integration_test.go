//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/internal/domain/port"
	"github.com/aniketri/real-insights-data/internal/domain/valueobject"
	"github.com/aniketri/real-insights-data/internal/infrastructure/persistence/postgres"
	"github.com/aniketri/real-insights-data/pkg/testutil"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pg := testutil.NewPostgresContainer(ctx, t)
	t.Cleanup(func() { pg.Cleanup(t) })

	pg.Migrate(t, postgres.Migrate)
	pg.SeedOrganization(t, testutil.TestOrgID, "Acme Capital")
	pg.SeedOrganization(t, testutil.TestOtherOrgID, "Other Capital")
	pg.SeedProperty(t, testutil.TestOrgID, testutil.TestPropertyID, "Harbor Point", "Office", "40000000")
	pg.SeedProperty(t, testutil.TestOrgID, testutil.TestPropertyID2, "Maple Court", "Multifamily", "")
	return pg.Pool
}

func newTestLoan(t *testing.T, ctx context.Context, pool *pgxpool.Pool, number string, propertyID uuid.UUID, lender string) model.Loan {
	t.Helper()

	properties := postgres.NewPropertyRepo(pool)
	counterparties := postgres.NewCounterpartyRepo(pool)

	ref, err := properties.FindRef(ctx, testutil.TestOrgID, propertyID)
	require.NoError(t, err)
	l, err := counterparties.EnsureLender(ctx, lender)
	require.NoError(t, err)
	fund, err := counterparties.EnsureFund(ctx, testutil.TestOrgID, "Fund I")
	require.NoError(t, err)

	ltv := decimal.RequireFromString("0.6500")
	now := time.Now().UTC().Truncate(time.Microsecond)
	loan, err := model.NewLoan(model.LoanParams{
		OrganizationID:     testutil.TestOrgID,
		LoanNumber:         number,
		Property:           ref,
		Lender:             l,
		Fund:               &fund,
		OriginalBalance:    decimal.RequireFromString("25000000.00"),
		InterestRate:       decimal.RequireFromString("5.2500"),
		AmortizationType:   valueobject.AmortizationFullyAmortizing,
		PaymentFrequency:   valueobject.PaymentMonthly,
		AmortizationPeriod: 30,
		OriginationDate:    time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
		MaturityDate:       time.Date(2032, 3, 1, 0, 0, 0, 0, time.UTC),
		LTV:                &ltv,
	}, now)
	require.NoError(t, err)
	return loan
}

func TestLoanRepo_Integration(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := postgres.NewLoanRepo(pool)

	loan := newTestLoan(t, ctx, pool, "L-100", testutil.TestPropertyID, "First Bank")
	require.NoError(t, repo.Save(ctx, loan))

	t.Run("find by id round-trips the aggregate", func(t *testing.T) {
		got, err := repo.FindByID(ctx, testutil.TestOrgID, loan.ID())
		require.NoError(t, err)

		assert.Equal(t, "L-100", got.LoanNumber())
		assert.Equal(t, "Harbor Point", got.Property().Name)
		assert.Equal(t, "Office", got.Property().Type)
		assert.Equal(t, "First Bank", got.Lender().Name)
		assert.Equal(t, "Fund I", got.FundName())
		testutil.AssertDecimalEqual(t, "25000000", got.CurrentBalance())
		testutil.AssertDecimalEqual(t, "5.25", got.InterestRate())
		require.NotNil(t, got.LTV())
		testutil.AssertDecimalEqual(t, "0.65", *got.LTV())
		assert.Nil(t, got.DSCR())
		assert.Equal(t, valueobject.LoanStatusCurrent, got.Status())
		assert.Equal(t, 1, got.Version())
		assert.Equal(t, 360, got.Terms().TermPayments)
		assert.True(t, got.Terms().FirstPaymentDate.Equal(time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("other organization cannot see the loan", func(t *testing.T) {
		_, err := repo.FindByID(ctx, testutil.TestOtherOrgID, loan.ID())
		assert.ErrorIs(t, err, model.ErrLoanNotFound)
	})

	t.Run("duplicate loan number is rejected", func(t *testing.T) {
		dup := newTestLoan(t, ctx, pool, "L-100", testutil.TestPropertyID2, "Second Bank")
		err := repo.Save(ctx, dup)
		assert.ErrorIs(t, err, model.ErrInvalidLoan)
	})

	t.Run("update bumps version and stale writes conflict", func(t *testing.T) {
		stored, err := repo.FindByID(ctx, testutil.TestOrgID, loan.ID())
		require.NoError(t, err)

		balance := decimal.RequireFromString("24500000.00")
		updated, err := stored.Update(model.LoanChanges{CurrentBalance: &balance}, time.Now().UTC())
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, updated))

		reloaded, err := repo.FindByID(ctx, testutil.TestOrgID, loan.ID())
		require.NoError(t, err)
		assert.Equal(t, 2, reloaded.Version())
		testutil.AssertDecimalEqual(t, "24500000", reloaded.CurrentBalance())

		err = repo.Save(ctx, updated)
		assert.ErrorIs(t, err, model.ErrOptimisticLock)
	})

	t.Run("list filters, searches and pages", func(t *testing.T) {
		second := newTestLoan(t, ctx, pool, "L-200", testutil.TestPropertyID2, "Second Bank")
		require.NoError(t, repo.Save(ctx, second))

		all, total, err := repo.List(ctx, testutil.TestOrgID, port.LoanFilter{})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, all, 2)
		assert.Equal(t, "L-100", all[0].LoanNumber())

		byType, total, err := repo.List(ctx, testutil.TestOrgID, port.LoanFilter{PropertyType: "Multifamily"})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, byType, 1)
		assert.Equal(t, "L-200", byType[0].LoanNumber())

		bySearch, _, err := repo.List(ctx, testutil.TestOrgID, port.LoanFilter{Search: "harbor"})
		require.NoError(t, err)
		require.Len(t, bySearch, 1)
		assert.Equal(t, "L-100", bySearch[0].LoanNumber())

		page, total, err := repo.List(ctx, testutil.TestOrgID, port.LoanFilter{Offset: 1, Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, page, 1)
		assert.Equal(t, "L-200", page[0].LoanNumber())

		largest, total, err := repo.List(ctx, testutil.TestOrgID, port.LoanFilter{Limit: 1, OrderByBalanceDesc: true})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, largest, 1)
		assert.Equal(t, "L-200", largest[0].LoanNumber())

		literal, total, err := repo.List(ctx, testutil.TestOrgID, port.LoanFilter{Search: "%"})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, literal)
	})

	t.Run("delete removes the loan", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, testutil.TestOrgID, loan.ID()))
		_, err := repo.FindByID(ctx, testutil.TestOrgID, loan.ID())
		assert.ErrorIs(t, err, model.ErrLoanNotFound)

		err = repo.Delete(ctx, testutil.TestOrgID, loan.ID())
		assert.ErrorIs(t, err, model.ErrLoanNotFound)
	})
}

func TestPropertyRepo_Integration(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := postgres.NewPropertyRepo(pool)

	count, err := repo.Count(ctx, testutil.TestOrgID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	records, err := repo.ListRecords(ctx, testutil.TestOrgID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	_, err = repo.FindRef(ctx, testutil.TestOtherOrgID, testutil.TestPropertyID)
	assert.ErrorIs(t, err, model.ErrPropertyNotFound)
}

func TestCounterpartyRepo_Integration(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := postgres.NewCounterpartyRepo(pool)

	first, err := repo.EnsureLender(ctx, "First Bank")
	require.NoError(t, err)
	again, err := repo.EnsureLender(ctx, "First Bank")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	fundA, err := repo.EnsureFund(ctx, testutil.TestOrgID, "Fund I")
	require.NoError(t, err)
	fundB, err := repo.EnsureFund(ctx, testutil.TestOtherOrgID, "Fund I")
	require.NoError(t, err)
	assert.NotEqual(t, fundA.ID, fundB.ID)
}

func TestNoteRepo_Integration(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	loan := newTestLoan(t, ctx, pool, "L-300", testutil.TestPropertyID, "First Bank")
	require.NoError(t, postgres.NewLoanRepo(pool).Save(ctx, loan))

	repo := postgres.NewNoteRepo(pool)
	base := time.Now().UTC().Truncate(time.Microsecond)

	older, err := model.NewNote(testutil.TestOrgID, loan.ID(), testutil.TestUserID1, "Ana", "Borrower sent rent roll", base)
	require.NoError(t, err)
	newer, err := model.NewNote(testutil.TestOrgID, loan.ID(), testutil.TestUserID1, "Ana", "Site visit scheduled", base.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))

	notes, err := repo.ListByLoan(ctx, testutil.TestOrgID, loan.ID())
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, newer.ID(), notes[0].ID())

	edited, err := older.Edit(testutil.TestUserID1, "Rent roll reviewed", base.Add(2*time.Minute))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, edited))

	got, err := repo.FindByID(ctx, testutil.TestOrgID, older.ID())
	require.NoError(t, err)
	assert.Equal(t, "Rent roll reviewed", got.Content())

	require.NoError(t, repo.Delete(ctx, testutil.TestOrgID, older.ID()))
	_, err = repo.FindByID(ctx, testutil.TestOrgID, older.ID())
	assert.ErrorIs(t, err, model.ErrNoteNotFound)
}

func TestReportRepos_Integration(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	reports := postgres.NewReportRepo(pool)
	runs := postgres.NewReportRunRepo(pool)
	now := time.Now().UTC().Truncate(time.Microsecond)

	scheduled, err := model.NewReportDefinition(testutil.TestOrgID, testutil.TestUserID1, "Monthly summary",
		valueobject.ReportTypePortfolioSummary, valueobject.ReportFormatCSV, "0 6 1 * *",
		model.ReportFilters{PropertyType: "Office"}, now)
	require.NoError(t, err)
	adhoc, err := model.NewReportDefinition(testutil.TestOrgID, testutil.TestUserID1, "Maturities",
		valueobject.ReportTypeMaturitySchedule, valueobject.ReportFormat{}, "", model.ReportFilters{}, now.Add(time.Second))
	require.NoError(t, err)
	require.NoError(t, reports.Save(ctx, scheduled))
	require.NoError(t, reports.Save(ctx, adhoc))

	got, err := reports.FindByID(ctx, testutil.TestOrgID, scheduled.ID())
	require.NoError(t, err)
	assert.Equal(t, "Monthly summary", got.Name())
	assert.Equal(t, valueobject.ReportFormatCSV, got.Format())
	assert.Equal(t, "Office", got.Filters().PropertyType)

	_, err = reports.FindByID(ctx, testutil.TestOtherOrgID, scheduled.ID())
	assert.ErrorIs(t, err, model.ErrReportNotFound)

	all, err := reports.ListByOrganization(ctx, testutil.TestOrgID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, adhoc.ID(), all[0].ID())

	onSchedule, err := reports.ListScheduled(ctx)
	require.NoError(t, err)
	require.Len(t, onSchedule, 1)
	assert.Equal(t, scheduled.ID(), onSchedule[0].ID())

	for i := 0; i < 3; i++ {
		content := []byte("loan,balance\n")
		require.NoError(t, runs.Save(ctx, model.ReportRun{
			ID:             uuid.New(),
			ReportID:       scheduled.ID(),
			OrganizationID: testutil.TestOrgID,
			Format:         valueobject.ReportFormatCSV,
			Location:       model.InlineLocation,
			Content:        content,
			SizeBytes:      len(content),
			GeneratedAt:    now.Add(time.Duration(i) * time.Hour),
		}))
	}

	latest, err := runs.ListByReport(ctx, testutil.TestOrgID, scheduled.ID(), 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.True(t, latest[0].GeneratedAt.After(latest[1].GeneratedAt))
	assert.Equal(t, valueobject.ReportFormatCSV, latest[0].Format)
	assert.Equal(t, []byte("loan,balance\n"), latest[0].Content)

	everything, err := runs.ListByReport(ctx, testutil.TestOrgID, scheduled.ID(), 0)
	require.NoError(t, err)
	assert.Len(t, everything, 3)
}
