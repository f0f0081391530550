package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aniketri/real-insights-data/internal/domain/event"
	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/internal/domain/service"
	"github.com/aniketri/real-insights-data/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// LoanFilter narrows a loan listing. Empty strings match everything; a zero
// Limit returns every matching loan.
type LoanFilter struct {
	PropertyType string
	Lender       string
	Fund         string
	Status       string
	Search       string // case-insensitive match on loan number, property name or lender name
	Offset       int
	Limit        int

	// OrderByBalanceDesc lists the largest current balances first instead of
	// ordering by loan number, so a Limit keeps the biggest loans.
	OrderByBalanceDesc bool
}

// LoanRepository persists and retrieves loans. Every lookup is scoped by
// organization; a loan of another organization is model.ErrLoanNotFound.
type LoanRepository interface {
	Save(ctx context.Context, loan model.Loan) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	FindByID(ctx context.Context, orgID, id uuid.UUID) (model.Loan, error)
	// List returns one page of loans ordered by loan number, and the total
	// number of loans matching the filter.
	List(ctx context.Context, orgID uuid.UUID, filter LoanFilter) ([]model.Loan, int, error)
}

// PropertyRepository reads the organization's properties.
type PropertyRepository interface {
	FindRef(ctx context.Context, orgID, id uuid.UUID) (model.PropertyRef, error)
	ListRecords(ctx context.Context, orgID uuid.UUID) ([]service.PropertyRecord, error)
	Count(ctx context.Context, orgID uuid.UUID) (int, error)
}

// CounterpartyRepository resolves lenders and funds by name, creating them on first use.
type CounterpartyRepository interface {
	EnsureLender(ctx context.Context, name string) (model.Counterparty, error)
	EnsureFund(ctx context.Context, orgID uuid.UUID, name string) (model.Counterparty, error)
}

// NoteRepository persists notes on loans.
type NoteRepository interface {
	Save(ctx context.Context, note model.Note) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	FindByID(ctx context.Context, orgID, id uuid.UUID) (model.Note, error)
	// ListByLoan returns the loan's notes, newest first.
	ListByLoan(ctx context.Context, orgID, loanID uuid.UUID) ([]model.Note, error)
}

// ReportRepository persists report definitions.
type ReportRepository interface {
	Save(ctx context.Context, def model.ReportDefinition) error
	FindByID(ctx context.Context, orgID, id uuid.UUID) (model.ReportDefinition, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]model.ReportDefinition, error)
	// ListScheduled returns scheduled definitions across all organizations.
	ListScheduled(ctx context.Context) ([]model.ReportDefinition, error)
}

// ReportRunRepository records generated report artifacts.
type ReportRunRepository interface {
	Save(ctx context.Context, run model.ReportRun) error
	ListByReport(ctx context.Context, orgID, reportID uuid.UUID, limit int) ([]model.ReportRun, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// Cache port
// ---------------------------------------------------------------------------

// ResultCache memoizes serialized computation results under caller-built keys.
// Implementations never return errors: a failure is logged and behaves as a
// miss, so a cache can be swapped for a no-op one without changing results.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	// Put stores value for ttl; a zero ttl selects the cache's default.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration)
	// Invalidate removes every entry whose key starts with prefix.
	Invalidate(ctx context.Context, prefix string)
}

// ---------------------------------------------------------------------------
// Report ports
// ---------------------------------------------------------------------------

// ReportRenderer serializes a report document in the requested format.
type ReportRenderer interface {
	Render(doc model.ReportDocument, format valueobject.ReportFormat) ([]byte, error)
}

// ReportArchive stores rendered artifacts and returns their location.
// An archive may return model.InlineLocation to ask the caller to keep the
// content with the run record.
type ReportArchive interface {
	Store(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// ReportScheduler validates cron expressions and registers scheduled reports.
type ReportScheduler interface {
	Validate(spec string) error
	Schedule(def model.ReportDefinition) error
}
