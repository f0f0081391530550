package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aniketri/real-insights-data/internal/domain/event"
	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/internal/domain/port"
	"github.com/aniketri/real-insights-data/internal/domain/service"
	"github.com/aniketri/real-insights-data/internal/domain/valueobject"
)

var (
	testOrgID   = uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
	otherOrgID  = uuid.MustParse("00000000-0000-0000-0000-0000000000a2")
	testUserID  = uuid.MustParse("00000000-0000-0000-0000-0000000000b1")
	otherUserID = uuid.MustParse("00000000-0000-0000-0000-0000000000b2")
	propertyID  = uuid.MustParse("00000000-0000-0000-0000-0000000000c1")
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func storedLoan(orgID uuid.UUID, number, propertyType, lender string, balance string) model.Loan {
	ltv := decimal.RequireFromString("0.6")
	return model.ReconstructLoan(uuid.New(), model.LoanParams{
		OrganizationID:     orgID,
		LoanNumber:         number,
		Property:           model.PropertyRef{ID: propertyID, Name: "Property " + number, Type: propertyType},
		Lender:             model.Counterparty{ID: uuid.New(), Name: lender},
		OriginalBalance:    decimal.RequireFromString(balance),
		CurrentBalance:     decimal.RequireFromString(balance),
		InterestRate:       decimal.RequireFromString("5"),
		RateType:           valueobject.RateTypeFixed,
		AmortizationType:   valueobject.AmortizationFullyAmortizing,
		PaymentFrequency:   valueobject.PaymentMonthly,
		AmortizationPeriod: 10,
		OriginationDate:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		MaturityDate:       time.Date(2034, time.January, 1, 0, 0, 0, 0, time.UTC),
		LTV:                &ltv,
		Status:             valueobject.LoanStatusCurrent,
	}, 1, time.Now().UTC(), time.Now().UTC())
}

// ---------------------------------------------------------------------------
// In-memory loan repository
// ---------------------------------------------------------------------------

type memLoanRepo struct {
	mu        sync.Mutex
	loans     map[uuid.UUID]model.Loan
	saveErr   error
	listCalls  int
	findCalls  int
	lastFilter port.LoanFilter
}

func newMemLoanRepo(loans ...model.Loan) *memLoanRepo {
	r := &memLoanRepo{loans: make(map[uuid.UUID]model.Loan)}
	for _, l := range loans {
		r.loans[l.ID()] = l
	}
	return r
}

func (r *memLoanRepo) Save(_ context.Context, loan model.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.loans[loan.ID()] = loan
	return nil
}

func (r *memLoanRepo) Delete(_ context.Context, orgID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.loans[id]
	if !ok || l.OrganizationID() != orgID {
		return model.ErrLoanNotFound
	}
	delete(r.loans, id)
	return nil
}

func (r *memLoanRepo) FindByID(_ context.Context, orgID, id uuid.UUID) (model.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++
	l, ok := r.loans[id]
	if !ok || l.OrganizationID() != orgID {
		return model.Loan{}, model.ErrLoanNotFound
	}
	return l, nil
}

func (r *memLoanRepo) List(_ context.Context, orgID uuid.UUID, f port.LoanFilter) ([]model.Loan, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	r.lastFilter = f

	var matched []model.Loan
	for _, l := range r.loans {
		if l.OrganizationID() != orgID {
			continue
		}
		if f.PropertyType != "" && l.Property().Type != f.PropertyType {
			continue
		}
		if f.Lender != "" && l.Lender().Name != f.Lender {
			continue
		}
		if f.Status != "" && l.Status().String() != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(l.LoanNumber()), strings.ToLower(f.Search)) {
			continue
		}
		matched = append(matched, l)
	}
	if f.OrderByBalanceDesc {
		sort.Slice(matched, func(i, j int) bool { return matched[i].CurrentBalance().GreaterThan(matched[j].CurrentBalance()) })
	} else {
		sort.Slice(matched, func(i, j int) bool { return matched[i].LoanNumber() < matched[j].LoanNumber() })
	}

	total := len(matched)
	if f.Offset >= total {
		return nil, total, nil
	}
	matched = matched[f.Offset:]
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched, total, nil
}

// ---------------------------------------------------------------------------
// Reference repositories
// ---------------------------------------------------------------------------

type stubPropertyRepo struct {
	refs    map[uuid.UUID]model.PropertyRef
	records []service.PropertyRecord
}

func (s *stubPropertyRepo) FindRef(_ context.Context, _ uuid.UUID, id uuid.UUID) (model.PropertyRef, error) {
	ref, ok := s.refs[id]
	if !ok {
		return model.PropertyRef{}, model.ErrPropertyNotFound
	}
	return ref, nil
}

func (s *stubPropertyRepo) ListRecords(context.Context, uuid.UUID) ([]service.PropertyRecord, error) {
	return s.records, nil
}

func (s *stubPropertyRepo) Count(context.Context, uuid.UUID) (int, error) {
	return len(s.records), nil
}

type stubCounterpartyRepo struct{}

func (stubCounterpartyRepo) EnsureLender(_ context.Context, name string) (model.Counterparty, error) {
	return model.Counterparty{ID: uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)), Name: name}, nil
}

func (stubCounterpartyRepo) EnsureFund(_ context.Context, _ uuid.UUID, name string) (model.Counterparty, error) {
	return model.Counterparty{ID: uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)), Name: name}, nil
}

// ---------------------------------------------------------------------------
// Notes
// ---------------------------------------------------------------------------

type memNoteRepo struct {
	notes map[uuid.UUID]model.Note
}

func newMemNoteRepo() *memNoteRepo {
	return &memNoteRepo{notes: make(map[uuid.UUID]model.Note)}
}

func (r *memNoteRepo) Save(_ context.Context, n model.Note) error {
	r.notes[n.ID()] = n
	return nil
}

func (r *memNoteRepo) Delete(_ context.Context, orgID, id uuid.UUID) error {
	n, ok := r.notes[id]
	if !ok || n.OrganizationID() != orgID {
		return model.ErrNoteNotFound
	}
	delete(r.notes, id)
	return nil
}

func (r *memNoteRepo) FindByID(_ context.Context, orgID, id uuid.UUID) (model.Note, error) {
	n, ok := r.notes[id]
	if !ok || n.OrganizationID() != orgID {
		return model.Note{}, model.ErrNoteNotFound
	}
	return n, nil
}

func (r *memNoteRepo) ListByLoan(_ context.Context, orgID, loanID uuid.UUID) ([]model.Note, error) {
	var out []model.Note
	for _, n := range r.notes {
		if n.OrganizationID() == orgID && n.LoanID() == loanID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return out, nil
}

// ---------------------------------------------------------------------------
// Reports
// ---------------------------------------------------------------------------

type memReportRepo struct {
	defs map[uuid.UUID]model.ReportDefinition
}

func newMemReportRepo() *memReportRepo {
	return &memReportRepo{defs: make(map[uuid.UUID]model.ReportDefinition)}
}

func (r *memReportRepo) Save(_ context.Context, d model.ReportDefinition) error {
	r.defs[d.ID()] = d
	return nil
}

func (r *memReportRepo) FindByID(_ context.Context, orgID, id uuid.UUID) (model.ReportDefinition, error) {
	d, ok := r.defs[id]
	if !ok || d.OrganizationID() != orgID {
		return model.ReportDefinition{}, model.ErrReportNotFound
	}
	return d, nil
}

func (r *memReportRepo) ListByOrganization(_ context.Context, orgID uuid.UUID) ([]model.ReportDefinition, error) {
	var out []model.ReportDefinition
	for _, d := range r.defs {
		if d.OrganizationID() == orgID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memReportRepo) ListScheduled(context.Context) ([]model.ReportDefinition, error) {
	var out []model.ReportDefinition
	for _, d := range r.defs {
		if d.IsScheduled() {
			out = append(out, d)
		}
	}
	return out, nil
}

type memRunRepo struct {
	runs []model.ReportRun
}

func (r *memRunRepo) Save(_ context.Context, run model.ReportRun) error {
	r.runs = append(r.runs, run)
	return nil
}

// ListByReport returns the newest runs first; runs are appended in generation order.
func (r *memRunRepo) ListByReport(_ context.Context, _, reportID uuid.UUID, limit int) ([]model.ReportRun, error) {
	var out []model.ReportRun
	for i := len(r.runs) - 1; i >= 0; i-- {
		if r.runs[i].ReportID == reportID {
			out = append(out, r.runs[i])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type mockScheduler struct {
	validateFunc func(spec string) error
	scheduled    []model.ReportDefinition
}

func (m *mockScheduler) Validate(spec string) error {
	if m.validateFunc != nil {
		return m.validateFunc(spec)
	}
	return nil
}

func (m *mockScheduler) Schedule(def model.ReportDefinition) error {
	m.scheduled = append(m.scheduled, def)
	return nil
}

// tableRenderer renders sections as pipe-separated lines.
type tableRenderer struct {
	formats []valueobject.ReportFormat
}

func (r *tableRenderer) Render(doc model.ReportDocument, format valueobject.ReportFormat) ([]byte, error) {
	r.formats = append(r.formats, format)
	var b strings.Builder
	for _, s := range doc.Sections {
		b.WriteString(strings.Join(s.Columns, "|") + "\n")
		for _, row := range s.Rows {
			b.WriteString(strings.Join(row, "|") + "\n")
		}
	}
	return []byte(b.String()), nil
}

type mockArchive struct {
	location string
	keys     []string
}

func (a *mockArchive) Store(_ context.Context, key, _ string, _ []byte) (string, error) {
	a.keys = append(a.keys, key)
	if a.location == "" {
		return model.InlineLocation, nil
	}
	return a.location + key, nil
}

// ---------------------------------------------------------------------------
// Events and cache
// ---------------------------------------------------------------------------

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

func (m *mockEventPublisher) types() []string {
	out := make([]string, 0, len(m.publishedEvents))
	for _, e := range m.publishedEvents {
		out = append(out, e.EventType())
	}
	return out
}

// mapCache is an unbounded ResultCache without expiry.
type mapCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	invalidated []string
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *mapCache) Put(_ context.Context, key string, value []byte, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

func (c *mapCache) Invalidate(_ context.Context, prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, prefix)
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

func (c *mapCache) keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.entries))
	for k := range c.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// noopCache never stores anything.
type noopCache struct{}

func (noopCache) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (noopCache) Put(context.Context, string, []byte, time.Duration) {}
func (noopCache) Invalidate(context.Context, string)                 {}

var errDatabase = errors.New("database unavailable")
